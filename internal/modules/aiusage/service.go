package aiusage

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

type tokenStore interface {
	UseToken(ctx context.Context, clientID string) (int, error)
	EnsureClient(ctx context.Context, clientID string) error
}

// Service meters generation requests per client.
type Service struct {
	store  tokenStore
	logger *zap.Logger
}

// NewService creates a Service backed by the given Store.
func NewService(store *Store, logger *zap.Logger) *Service {
	return newService(store, logger)
}

func newService(store tokenStore, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger.Named("aiusage")}
}

// UseToken deducts one token from the client's monthly allowance and returns
// the remaining count. A client seen for the first time is initialised and the
// token consumed immediately.
// Returns ErrInsufficientTokens when the quota for the current month is exhausted.
func (s *Service) UseToken(ctx context.Context, clientID string) (int, error) {
	remaining, err := s.store.UseToken(ctx, clientID)
	if !errors.Is(err, ErrInsufficientTokens) {
		return remaining, err
	}

	// Row may be missing: create it, then retry the deduction once.
	if initErr := s.store.EnsureClient(ctx, clientID); initErr != nil {
		return 0, initErr
	}
	remaining, err = s.store.UseToken(ctx, clientID)
	if errors.Is(err, ErrInsufficientTokens) {
		s.logger.Info("quota exhausted", zap.String("client_id", clientID))
	}
	return remaining, err
}
