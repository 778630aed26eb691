// internal/domain/order/history.go
package order

import (
	"strings"
	"time"
)

// StatusHistory is one entry of the append-only lifecycle log. Exactly one
// entry per order is active at any time; activating a new entry deactivates
// the predecessor in the same write.
type StatusHistory struct {
	ID        string
	OrderID   string
	From      Status // empty on the creation entry
	To        Status
	Note      string
	Actor     string
	Active    bool
	ChangedAt time.Time
}

func NewStatusHistory(id, orderID string, from, to Status, note, actor string, at time.Time) (StatusHistory, error) {
	h := StatusHistory{
		ID:        strings.TrimSpace(id),
		OrderID:   strings.TrimSpace(orderID),
		From:      from,
		To:        to,
		Note:      strings.TrimSpace(note),
		Actor:     strings.TrimSpace(actor),
		Active:    true,
		ChangedAt: at.UTC(),
	}
	if h.ID == "" || h.OrderID == "" {
		return StatusHistory{}, ErrInvalidID
	}
	if !IsValidStatus(to) {
		return StatusHistory{}, ErrInvalidStatus
	}
	return h, nil
}
