// internal/domain/order/status.go
package order

import (
	"errors"
	"fmt"
	"strings"
)

// Status is the order lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
	StatusLayaway   Status = "layaway"
)

var (
	ErrInvalidStatus     = errors.New("order: invalid status")
	ErrInvalidTransition = errors.New("order: invalid transition")
)

// transitions is the explicit state machine table. Re-entering the current
// status is always allowed (audited, milestone timestamps are not re-stamped)
// and is therefore not listed here.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusLayaway, StatusCancelled},
	StatusConfirmed: {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered, StatusCancelled},
	StatusLayaway:   {StatusPending, StatusCancelled},
	StatusDelivered: {},
	StatusCancelled: {},
}

// ParseStatus validates a raw status value.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.TrimSpace(strings.ToLower(raw)))
	if _, ok := transitions[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

func IsValidStatus(s Status) bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether no transition leaves s.
func IsTerminal(s Status) bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition checks the table. Same-status re-entry is permitted for
// idempotent retries.
func CanTransition(from, to Status) error {
	if !IsValidStatus(to) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	if !IsValidStatus(from) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, from)
	}
	if from == to {
		return nil
	}
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
