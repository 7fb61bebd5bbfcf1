package aiusage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store handles ai_usage persistence.
type Store struct {
	db  *pgxpool.Pool
	now func() time.Time
}

// NewStore returns a Store backed by the given connection pool.
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db, now: time.Now}
}

// UseToken atomically checks the monthly quota, deducts one token and
// returns what is left. The counter is reset to DefaultTokens when
// last_reset_month is behind the current month.
// Returns ErrInsufficientTokens when no row matches (quota exhausted or client absent).
func (s *Store) UseToken(ctx context.Context, clientID string) (int, error) {
	month := s.now().Format(monthFormat)

	var remaining int
	err := s.db.QueryRow(ctx, `
		UPDATE ai_usage SET
			tokens_remaining = CASE WHEN last_reset_month != $1 THEN $2 - 1 ELSE tokens_remaining - 1 END,
			last_reset_month = $1
		WHERE client_id = $3 AND (last_reset_month < $1 OR tokens_remaining > 0)
		RETURNING tokens_remaining
	`, month, DefaultTokens, clientID).Scan(&remaining)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrInsufficientTokens
	}
	if err != nil {
		return 0, err
	}
	return remaining, nil
}

// EnsureClient inserts a row for clientID with the default allowance.
// An existing row is left untouched.
func (s *Store) EnsureClient(ctx context.Context, clientID string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO ai_usage (client_id, tokens_remaining, last_reset_month)
		VALUES ($1, $2, $3)
		ON CONFLICT (client_id) DO NOTHING
	`, clientID, DefaultTokens, s.now().Format(monthFormat))
	return err
}
