// internal/domain/sale/entity.go
package sale

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
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusRefunded  Status = "refunded"
)

func IsValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PayCash     PaymentMethod = "cash"
	PayCard     PaymentMethod = "card"
	PayTransfer PaymentMethod = "transfer"
	PayYape     PaymentMethod = "yape"
	PayPlin     PaymentMethod = "plin"
	PayOther    PaymentMethod = "other"
)

func IsValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PayCash, PayCard, PayTransfer, PayYape, PayPlin, PayOther:
		return true
	}
	return false
}

// ========================================
// Errors
// ========================================

var (
	ErrNotFound             = errors.New("sale: not found")
	ErrInvalidID            = errors.New("sale: invalid id")
	ErrInvalidOwnerID       = errors.New("sale: invalid ownerId")
	ErrInvalidCustomer      = errors.New("sale: a customer reference or an anonymous name is required")
	ErrInvalidStatus        = errors.New("sale: invalid status")
	ErrInvalidPaymentMethod = errors.New("sale: invalid payment method")
	ErrInvalidDiscount      = errors.New("sale: discount percent must be within 0-100")
	ErrNoLineItems          = errors.New("sale: at least one line item is required")
	ErrInvalidQuantity      = errors.New("sale: quantity must be >= 1")
	ErrDuplicateLineItem    = errors.New("sale: duplicate (product, variant, color) line item")
	ErrConflict             = errors.New("sale: conflict")
)

// ========================================
// Entities
// ========================================

// Sale aggregates line items and totals. All monetary fields are minor units.
type Sale struct {
	ID              string
	Number          string
	OwnerID         string
	CustomerID      *string
	CustomerName    string // anonymous sales only
	Lines           []LineItem
	Subtotal        int64
	DiscountPercent float64
	Discount        int64
	Total           int64
	Status          Status
	PaymentMethod   PaymentMethod
	Seller          string
	Notes           string
	CreatedAt       time.Time
}

// LineItem freezes the unit price at creation time: product price plus the
// variant surcharge. Its stock debit happens exactly once, at first persistence.
type LineItem struct {
	ID           string
	SaleID       string
	ProductID    string
	VariantID    *string
	ColorID      *string
	Quantity     int
	UnitPrice    int64
	LineDiscount int64
	Subtotal     int64
}

// ========================================
// Constructors
// ========================================

func New(
	id, number, ownerID string,
	customerID *string,
	customerName string,
	discountPercent float64,
	method PaymentMethod,
	seller, notes string,
	now time.Time,
) (Sale, error) {
	s := Sale{
		ID:              strings.TrimSpace(id),
		Number:          strings.TrimSpace(number),
		OwnerID:         strings.TrimSpace(ownerID),
		CustomerID:      trimPtr(customerID),
		CustomerName:    strings.TrimSpace(customerName),
		DiscountPercent: discountPercent,
		Status:          StatusPending,
		PaymentMethod:   method,
		Seller:          strings.TrimSpace(seller),
		Notes:           strings.TrimSpace(notes),
		CreatedAt:       now.UTC(),
	}
	if s.ID == "" {
		return Sale{}, ErrInvalidID
	}
	if s.OwnerID == "" {
		return Sale{}, ErrInvalidOwnerID
	}
	if s.CustomerID == nil && s.CustomerName == "" {
		return Sale{}, ErrInvalidCustomer
	}
	if discountPercent < 0 || discountPercent > 100 {
		return Sale{}, ErrInvalidDiscount
	}
	if !IsValidPaymentMethod(method) {
		return Sale{}, ErrInvalidPaymentMethod
	}
	return s, nil
}

// NewLineItem resolves the frozen unit price and the line subtotal.
func NewLineItem(
	id, saleID, productID string,
	variantID, colorID *string,
	quantity int,
	productPrice, variantExtra, lineDiscount int64,
) (LineItem, error) {
	li := LineItem{
		ID:           strings.TrimSpace(id),
		SaleID:       strings.TrimSpace(saleID),
		ProductID:    strings.TrimSpace(productID),
		VariantID:    trimPtr(variantID),
		ColorID:      trimPtr(colorID),
		Quantity:     quantity,
		UnitPrice:    productPrice + variantExtra,
		LineDiscount: lineDiscount,
	}
	if li.ID == "" || li.SaleID == "" || li.ProductID == "" {
		return LineItem{}, ErrInvalidID
	}
	if quantity < 1 {
		return LineItem{}, ErrInvalidQuantity
	}
	if lineDiscount < 0 {
		return LineItem{}, ErrInvalidDiscount
	}
	li.Subtotal = li.UnitPrice*int64(quantity) - lineDiscount
	if li.Subtotal < 0 {
		li.Subtotal = 0
	}
	return li, nil
}

// ========================================
// Behavior
// ========================================

// ComputeTotals recomputes subtotal, discount, and total from the lines.
// discount = round(subtotal * pct / 100), total = subtotal - discount.
func (s *Sale) ComputeTotals() {
	var subtotal int64
	for _, li := range s.Lines {
		subtotal += li.Subtotal
	}
	s.Subtotal = subtotal
	if s.DiscountPercent > 0 {
		s.Discount = roundHalfUp(float64(subtotal) * s.DiscountPercent / 100)
	} else {
		s.Discount = 0
	}
	s.Total = s.Subtotal - s.Discount
}

func (s *Sale) SetStatus(next Status) error {
	if !IsValidStatus(next) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, next)
	}
	s.Status = next
	return nil
}

// CustomerDisplay returns the registered reference or the anonymous name.
func (s Sale) CustomerDisplay() string {
	if s.CustomerID != nil {
		return *s.CustomerID
	}
	if s.CustomerName != "" {
		return s.CustomerName
	}
	return "anonymous"
}

// LineKey identifies a (product, variant, color) combination for duplicate
// detection within one request.
func LineKey(productID string, variantID, colorID *string) string {
	v, c := "null", "null"
	if p := trimPtr(variantID); p != nil {
		v = *p
	}
	if p := trimPtr(colorID); p != nil {
		c = *p
	}
	return strings.TrimSpace(productID) + "_" + v + "_" + c
}

// FormatNumber renders the sequential sale number, e.g. VEN-000042.
func FormatNumber(seq int64) string {
	return fmt.Sprintf("VEN-%06d", seq)
}

// ========================================
// Helpers
// ========================================

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

func roundHalfUp(v float64) int64 {
	if v < 0 {
		return -roundHalfUp(-v)
	}
	return int64(v + 0.5)
}
