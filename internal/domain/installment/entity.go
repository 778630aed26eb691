// internal/domain/installment/entity.go
package installment

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ========================================
// Enums
// ========================================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

func IsValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

type Method string

const (
	MethodCash     Method = "cash"
	MethodCard     Method = "card"
	MethodTransfer Method = "transfer"
	MethodCheque   Method = "cheque"
	MethodPaypal   Method = "paypal"
	MethodOther    Method = "other"
)

func IsValidMethod(m Method) bool {
	switch m {
	case MethodCash, MethodCard, MethodTransfer, MethodCheque, MethodPaypal, MethodOther:
		return true
	}
	return false
}

// ========================================
// Errors
// ========================================

var (
	ErrNotFound          = errors.New("installment: not found")
	ErrInvalidID         = errors.New("installment: invalid id")
	ErrInvalidOrderRef   = errors.New("installment: invalid orderId")
	ErrInvalidAmount     = errors.New("installment: amount must be > 0")
	ErrInvalidMethod     = errors.New("installment: invalid payment method")
	ErrInvalidStatus     = errors.New("installment: invalid status")
	ErrInvalidTransition = errors.New("installment: invalid transition")
)

// ========================================
// Entity
// ========================================

// Installment (abono) is a partial payment recorded against a layaway order.
// Amount is minor units. Rows are append-only: status changes only.
type Installment struct {
	ID          string
	OrderID     string
	Amount      int64
	Method      Method
	Reference   string
	Notes       string
	Status      Status
	ReceiptURL  string
	Actor       string
	CreatedAt   time.Time
	ConfirmedAt *time.Time // stamped once, on transition into confirmed
}

// New creates an installment in pending (review path) or directly confirmed
// (manual reconciliation path).
func New(id, orderID string, amount int64, method Method, reference, notes string, status Status, actor string, now time.Time) (Installment, error) {
	p := Installment{
		ID:        strings.TrimSpace(id),
		OrderID:   strings.TrimSpace(orderID),
		Amount:    amount,
		Method:    method,
		Reference: strings.TrimSpace(reference),
		Notes:     strings.TrimSpace(notes),
		Status:    status,
		Actor:     strings.TrimSpace(actor),
		CreatedAt: now.UTC(),
	}
	if p.ID == "" {
		return Installment{}, ErrInvalidID
	}
	if p.OrderID == "" {
		return Installment{}, ErrInvalidOrderRef
	}
	if amount <= 0 {
		return Installment{}, ErrInvalidAmount
	}
	if !IsValidMethod(method) {
		return Installment{}, ErrInvalidMethod
	}
	if status != StatusPending && status != StatusConfirmed {
		return Installment{}, fmt.Errorf("%w: new installments start pending or confirmed, got %q", ErrInvalidStatus, status)
	}
	if status == StatusConfirmed {
		t := now.UTC()
		p.ConfirmedAt = &t
	}
	return p, nil
}

// ========================================
// Behavior
// ========================================

// Transition applies a guarded status change:
//
//	pending   -> confirmed | rejected | cancelled
//	confirmed -> rejected            (reversal)
//
// Everything else is ErrInvalidTransition.
func (p *Installment) Transition(next Status, at time.Time) error {
	if !IsValidStatus(next) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, next)
	}
	switch {
	case p.Status == StatusPending && (next == StatusConfirmed || next == StatusRejected || next == StatusCancelled):
	case p.Status == StatusConfirmed && next == StatusRejected:
	default:
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, p.Status, next)
	}
	p.Status = next
	if next == StatusConfirmed && p.ConfirmedAt == nil {
		t := at.UTC()
		p.ConfirmedAt = &t
	}
	return nil
}
