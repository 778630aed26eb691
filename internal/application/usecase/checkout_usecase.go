// internal/application/usecase/checkout_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	auditdom "localix/internal/domain/audit"
	catalogdom "localix/internal/domain/catalog"
	customerdom "localix/internal/domain/customer"
	orderdom "localix/internal/domain/order"
	saledom "localix/internal/domain/sale"
	stockdom "localix/internal/domain/stock"
)

// ========================================
// Errors
// ========================================

var (
	ErrCustomerRequired = errors.New("usecase: a customer reference, a new customer, or an anonymous name is required")
	ErrCustomerConflict = errors.New("usecase: customerId and newCustomer are mutually exclusive")
)

// ========================================
// Input / output
// ========================================

// CheckoutLine is one requested (product, variant?, color?) position.
type CheckoutLine struct {
	ProductID    string
	VariantID    *string
	ColorID      *string
	Quantity     int
	LineDiscount int64
}

// QuickCustomerInput creates a directory record inline during checkout.
type QuickCustomerInput struct {
	Name           string
	Email          string
	Phone          string
	DocumentType   customerdom.DocumentType
	DocumentNumber string
	Address        string
}

type CheckoutInput struct {
	OwnerID      string
	CustomerID   *string
	NewCustomer  *QuickCustomerInput
	CustomerName string // anonymous sales

	Lines           []CheckoutLine
	DiscountPercent float64
	PaymentMethod   saledom.PaymentMethod
	Seller          string
	Notes           string

	Channel orderdom.Channel
	Layaway bool

	DeliveryAddress      string
	ContactPhone         string
	DeliveryInstructions string
}

type CheckoutResult struct {
	Sale  *saledom.Sale
	Order *orderdom.Order
}

// ========================================
// Usecase
// ========================================

// CheckoutUsecase creates a sale, its stock movements, and the tracking order
// in one database transaction. Stock counters change only through the ledger;
// any failure rolls the whole sequence back.
type CheckoutUsecase struct {
	sales     saledom.RepositoryPort
	orders    orderdom.RepositoryPort
	catalog   catalogdom.RepositoryPort
	customers customerdom.RepositoryPort
	ledger    *stockdom.Ledger
	audit     auditdom.Sink

	now   func() time.Time
	newID func() string
}

func NewCheckoutUsecase(
	sales saledom.RepositoryPort,
	orders orderdom.RepositoryPort,
	catalog catalogdom.RepositoryPort,
	customers customerdom.RepositoryPort,
	ledger *stockdom.Ledger,
	sink auditdom.Sink,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		sales:     sales,
		orders:    orders,
		catalog:   catalog,
		customers: customers,
		ledger:    ledger,
		audit:     sink,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (u *CheckoutUsecase) Checkout(ctx context.Context, in CheckoutInput) (CheckoutResult, error) {
	if err := validateLines(in.Lines); err != nil {
		return CheckoutResult{}, err
	}

	customerID, customerName, err := u.resolveCustomer(ctx, in)
	if err != nil {
		return CheckoutResult{}, err
	}

	actor := ActorFromContext(ctx)
	now := u.now()

	var (
		createdSale  *saledom.Sale
		createdOrder *orderdom.Order
	)

	err = u.sales.WithTx(ctx, func(ctx context.Context) error {
		seq, err := u.sales.NextNumber(ctx)
		if err != nil {
			return fmt.Errorf("checkout: reserve sale number: %w", err)
		}

		saleID := u.newID()
		s, err := saledom.New(
			saleID, saledom.FormatNumber(seq), in.OwnerID,
			customerID, customerName,
			in.DiscountPercent, in.PaymentMethod,
			in.Seller, in.Notes, now,
		)
		if err != nil {
			return err
		}

		touched := make(map[string]struct{})
		for _, line := range in.Lines {
			li, err := u.applyLine(ctx, saleID, line, in.Layaway, touched)
			if err != nil {
				return err
			}
			s.Lines = append(s.Lines, li)
		}
		s.ComputeTotals()
		if in.Layaway {
			_ = s.SetStatus(saledom.StatusPending)
		} else {
			_ = s.SetStatus(saledom.StatusCompleted)
		}

		saved, err := u.sales.Create(ctx, s)
		if err != nil {
			return err
		}
		createdSale = saved

		// Derived product counters follow the child counters touched above.
		for productID := range touched {
			if err := u.ledger.RecomputeItemTotal(ctx, productID); err != nil {
				return err
			}
		}

		o, err := u.createOrder(ctx, in, saved, customerID, actor, now)
		if err != nil {
			return err
		}
		createdOrder = o
		return nil
	})
	if err != nil {
		return CheckoutResult{}, err
	}

	u.record(ctx, actor, "checkout", "sale", createdSale.ID, map[string]any{
		"number":  createdSale.Number,
		"orderId": createdOrder.ID,
		"total":   createdSale.Total,
		"layaway": in.Layaway,
	})
	log.Printf("[checkout_uc] sale=%s order=%s lines=%d total=%d layaway=%t",
		createdSale.Number, createdOrder.Number, len(createdSale.Lines), createdSale.Total, in.Layaway)

	return CheckoutResult{Sale: createdSale, Order: createdOrder}, nil
}

// ========================================
// Steps
// ========================================

func validateLines(lines []CheckoutLine) error {
	if len(lines) == 0 {
		return saledom.ErrNoLineItems
	}
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if l.Quantity < 1 {
			return saledom.ErrInvalidQuantity
		}
		key := saledom.LineKey(l.ProductID, l.VariantID, l.ColorID)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: %s", saledom.ErrDuplicateLineItem, key)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func (u *CheckoutUsecase) resolveCustomer(ctx context.Context, in CheckoutInput) (*string, string, error) {
	if in.CustomerID != nil && in.NewCustomer != nil {
		return nil, "", ErrCustomerConflict
	}
	if in.CustomerID != nil {
		c, err := u.customers.GetByID(ctx, *in.CustomerID)
		if err != nil {
			return nil, "", err
		}
		return &c.ID, "", nil
	}
	if in.NewCustomer != nil {
		nc := in.NewCustomer
		c, err := customerdom.New(
			u.newID(), in.OwnerID, nc.Name, nc.Email, nc.Phone,
			nc.DocumentType, nc.DocumentNumber, nc.Address, u.now(),
		)
		if err != nil {
			return nil, "", err
		}
		saved, err := u.customers.Create(ctx, c)
		if err != nil {
			return nil, "", err
		}
		log.Printf("[checkout_uc] quick-created customer id=%s", saved.ID)
		return &saved.ID, "", nil
	}
	if in.CustomerName != "" {
		return nil, in.CustomerName, nil
	}
	return nil, "", ErrCustomerRequired
}

// applyLine freezes the price, resolves the counter target, and moves stock.
// Layaway reserves instead of debiting; UnitsSold only advances on debits.
func (u *CheckoutUsecase) applyLine(
	ctx context.Context,
	saleID string,
	line CheckoutLine,
	layaway bool,
	touched map[string]struct{},
) (saledom.LineItem, error) {
	view, err := u.catalog.GetView(ctx, line.ProductID)
	if err != nil {
		return saledom.LineItem{}, err
	}

	extra, err := variantExtra(view, line.VariantID)
	if err != nil {
		return saledom.LineItem{}, err
	}

	li, err := saledom.NewLineItem(
		u.newID(), saleID, view.Product.ID,
		line.VariantID, line.ColorID,
		line.Quantity, view.Product.Price, extra, line.LineDiscount,
	)
	if err != nil {
		return saledom.LineItem{}, err
	}

	if !view.Product.TracksStock {
		return li, nil
	}

	sel := stockdom.Selection{ProductID: view.Product.ID}
	if line.VariantID != nil {
		sel.VariantID = *line.VariantID
	}
	if line.ColorID != nil {
		sel.ColorID = *line.ColorID
	}
	target, err := stockdom.ResolveTarget(sel,
		catalogdom.ActiveColorIDs(view.Colors),
		catalogdom.VariantIDs(view.Variants),
	)
	if err != nil {
		return saledom.LineItem{}, err
	}

	if layaway {
		if err := u.ledger.Reserve(ctx, target, line.Quantity); err != nil {
			return saledom.LineItem{}, err
		}
	} else {
		if err := u.ledger.Debit(ctx, target, line.Quantity, false); err != nil {
			return saledom.LineItem{}, err
		}
		if err := u.ledger.AddUnitsSold(ctx, view.Product.ID, line.Quantity); err != nil {
			return saledom.LineItem{}, err
		}
	}
	if target.Kind != stockdom.KindItem {
		touched[view.Product.ID] = struct{}{}
	}
	return li, nil
}

func (u *CheckoutUsecase) createOrder(
	ctx context.Context,
	in CheckoutInput,
	s *saledom.Sale,
	customerID *string,
	actor Actor,
	now time.Time,
) (*orderdom.Order, error) {
	seq, err := u.orders.NextNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("checkout: reserve order number: %w", err)
	}

	status := orderdom.StatusPending
	payment := orderdom.PaymentPaid
	if in.Layaway {
		status = orderdom.StatusLayaway
		payment = orderdom.PaymentPending
	}

	o, err := orderdom.New(
		u.newID(), orderdom.FormatNumber(seq), in.OwnerID,
		customerID, &s.ID,
		in.DeliveryAddress, in.ContactPhone, in.DeliveryInstructions,
		in.Channel, payment, status,
		s.Total, in.Notes, now,
	)
	if err != nil {
		return nil, err
	}
	if !in.Layaway {
		o.Reconcile(s.Total, s.Total)
	}

	saved, err := u.orders.Create(ctx, o)
	if err != nil {
		return nil, err
	}

	h, err := orderdom.NewStatusHistory(u.newID(), saved.ID, "", status, "order created", actor.Display(), now)
	if err != nil {
		return nil, err
	}
	if err := u.orders.AppendHistory(ctx, h); err != nil {
		return nil, err
	}
	return saved, nil
}

func variantExtra(view *catalogdom.ProductView, variantID *string) (int64, error) {
	if variantID == nil {
		return 0, nil
	}
	for _, v := range view.Variants {
		if v.ID == *variantID {
			return v.PriceExtra, nil
		}
	}
	return 0, fmt.Errorf("%w: variant %s does not belong to product %s",
		stockdom.ErrInvalidSelection, *variantID, view.Product.ID)
}

// record emits an audit event; sink failures never abort the operation.
func (u *CheckoutUsecase) record(ctx context.Context, actor Actor, action, entityType, entityID string, payload map[string]any) {
	if u.audit == nil {
		return
	}
	e := auditdom.NewEvent(actor.Display(), action, entityType, entityID, u.now(), payload)
	if err := u.audit.Record(ctx, e); err != nil {
		log.Printf("[checkout_uc] audit write failed action=%s entity=%s/%s: %v", action, entityType, entityID, err)
	}
}
