package aiusage

import "errors"

// ErrInsufficientTokens is returned when a client has no tokens remaining for the current month.
var ErrInsufficientTokens = errors.New("insufficient tokens")

// DefaultTokens is the number of generation requests granted per month.
const DefaultTokens = 100

// monthFormat keys the lazy monthly reset.
const monthFormat = "2006-01"
