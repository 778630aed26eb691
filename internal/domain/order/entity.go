// internal/domain/order/entity.go
package order

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ========================================
// Enums
// ========================================

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentPaid       PaymentStatus = "paid"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCancelled  PaymentStatus = "cancelled"
)

func IsValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentProcessing, PaymentCancelled:
		return true
	}
	return false
}

type Channel string

const (
	ChannelPhysical Channel = "physical"
	ChannelDigital  Channel = "digital"
)

func IsValidChannel(c Channel) bool {
	return c == ChannelPhysical || c == ChannelDigital
}

// ========================================
// Errors
// ========================================

var (
	ErrNotFound              = errors.New("order: not found")
	ErrInvalidID             = errors.New("order: invalid id")
	ErrInvalidOwnerID        = errors.New("order: invalid ownerId")
	ErrInvalidChannel        = errors.New("order: invalid channel")
	ErrInvalidPaymentStatus  = errors.New("order: invalid payment status")
	ErrInvalidAmount         = errors.New("order: invalid amount")
	ErrTerminal              = errors.New("order: order is in a terminal state")
	ErrConflict              = errors.New("order: conflict")
	ErrReconciliationFailure = errors.New("order: paid amount does not reconcile against confirmed installments")
)

// ========================================
// Entity
// ========================================

// Order aggregates a sale, a customer, delivery metadata, and the lifecycle
// status. AmountPaid/AmountPending are minor units and always satisfy
// amountPending = orderTotal - amountPaid.
type Order struct {
	ID         string
	Number     string
	OwnerID    string
	CustomerID *string
	SaleID     *string // nullable: reservation-only orders carry no sale

	DeliveryAddress      string
	ContactPhone         string
	DeliveryInstructions string

	Channel       Channel
	PaymentStatus PaymentStatus
	Status        Status

	AmountPaid    int64
	AmountPending int64

	Notes        string
	TrackingCode string
	Carrier      string

	CreatedAt   time.Time
	ConfirmedAt *time.Time
	ShippedAt   *time.Time
	DeliveredAt *time.Time
}

// ========================================
// Constructors
// ========================================

func New(
	id, number, ownerID string,
	customerID, saleID *string,
	deliveryAddress, contactPhone, deliveryInstructions string,
	channel Channel,
	paymentStatus PaymentStatus,
	status Status,
	orderTotal int64,
	notes string,
	now time.Time,
) (Order, error) {
	o := Order{
		ID:                   strings.TrimSpace(id),
		Number:               strings.TrimSpace(number),
		OwnerID:              strings.TrimSpace(ownerID),
		CustomerID:           trimPtr(customerID),
		SaleID:               trimPtr(saleID),
		DeliveryAddress:      strings.TrimSpace(deliveryAddress),
		ContactPhone:         strings.TrimSpace(contactPhone),
		DeliveryInstructions: strings.TrimSpace(deliveryInstructions),
		Channel:              channel,
		PaymentStatus:        paymentStatus,
		Status:               status,
		AmountPaid:           0,
		AmountPending:        orderTotal,
		Notes:                strings.TrimSpace(notes),
		CreatedAt:            now.UTC(),
	}
	if o.ID == "" {
		return Order{}, ErrInvalidID
	}
	if o.OwnerID == "" {
		return Order{}, ErrInvalidOwnerID
	}
	if !IsValidChannel(channel) {
		return Order{}, ErrInvalidChannel
	}
	if !IsValidPaymentStatus(paymentStatus) {
		return Order{}, ErrInvalidPaymentStatus
	}
	if !IsValidStatus(status) {
		return Order{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if orderTotal < 0 {
		return Order{}, ErrInvalidAmount
	}
	return o, nil
}

// ========================================
// Behavior
// ========================================

// ApplyStatus mirrors an activated history entry onto the order and stamps
// milestone timestamps exactly once.
func (o *Order) ApplyStatus(next Status, at time.Time) {
	o.Status = next
	at = at.UTC()
	switch next {
	case StatusConfirmed:
		if o.ConfirmedAt == nil {
			t := at
			o.ConfirmedAt = &t
		}
	case StatusShipped:
		if o.ShippedAt == nil {
			t := at
			o.ShippedAt = &t
		}
	case StatusDelivered:
		if o.DeliveredAt == nil {
			t := at
			o.DeliveredAt = &t
		}
	}
}

// Reconcile sets the paid/pending pair from the confirmed-installment sum.
func (o *Order) Reconcile(orderTotal, confirmedSum int64) {
	o.AmountPaid = confirmedSum
	o.AmountPending = orderTotal - confirmedSum
}

// Settled reports whether confirmed installments cover the order total.
func (o Order) Settled(orderTotal int64) bool {
	return o.AmountPaid >= orderTotal
}

// FormatNumber renders the sequential order number, e.g. PED-000042.
func FormatNumber(seq int64) string {
	return fmt.Sprintf("PED-%06d", seq)
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
