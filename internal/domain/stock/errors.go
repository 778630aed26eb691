// internal/domain/stock/errors.go
package stock

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientStock = errors.New("stock: insufficient stock")
	ErrInvalidSelection  = errors.New("stock: invalid selection")
	ErrInvalidQuantity   = errors.New("stock: quantity must be >= 1")
	ErrTargetNotFound    = errors.New("stock: target not found")
)

// InsufficientError carries the offending target so callers can report which
// color/variant/item ran out.
type InsufficientError struct {
	Target    Target
	Requested int
	Available int
}

func (e *InsufficientError) Error() string {
	return fmt.Sprintf("stock: insufficient stock on %s: requested %d, available %d",
		e.Target, e.Requested, e.Available)
}

func (e *InsufficientError) Unwrap() error { return ErrInsufficientStock }

// Insufficient builds an InsufficientError for the target.
func Insufficient(t Target, requested, available int) error {
	return &InsufficientError{Target: t, Requested: requested, Available: available}
}
