package domain

import "errors"

// Sentinel errors shared across services. Handlers match them with errors.Is
// and map them to HTTP status codes; services wrap them with context via
// fmt.Errorf and %w.
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicateRequest  = errors.New("duplicate request")
	ErrNotFound          = errors.New("not found")
	ErrInvalidState      = errors.New("invalid state")
)
