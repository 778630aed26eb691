// internal/application/usecase/order_usecase.go
package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	auditdom "localix/internal/domain/audit"
	catalogdom "localix/internal/domain/catalog"
	customerdom "localix/internal/domain/customer"
	orderdom "localix/internal/domain/order"
	saledom "localix/internal/domain/sale"
	stockdom "localix/internal/domain/stock"
)

// OrderUsecase drives the order lifecycle. Every status change appends one
// history entry, mirrors the status onto the order, and is audited; the order
// row itself never records anything but the active state.
type OrderUsecase struct {
	orders    orderdom.RepositoryPort
	sales     saledom.RepositoryPort
	catalog   catalogdom.RepositoryPort
	customers customerdom.RepositoryPort
	ledger    *stockdom.Ledger
	audit     auditdom.Sink
	notifier  Notifier

	now   func() time.Time
	newID func() string
}

func NewOrderUsecase(
	orders orderdom.RepositoryPort,
	sales saledom.RepositoryPort,
	catalog catalogdom.RepositoryPort,
	customers customerdom.RepositoryPort,
	ledger *stockdom.Ledger,
	sink auditdom.Sink,
	notifier Notifier,
) *OrderUsecase {
	return &OrderUsecase{
		orders:    orders,
		sales:     sales,
		catalog:   catalog,
		customers: customers,
		ledger:    ledger,
		audit:     sink,
		notifier:  notifier,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// ========================================
// Queries
// ========================================

func (u *OrderUsecase) Get(ctx context.Context, id string) (*orderdom.Order, error) {
	return u.orders.GetByID(ctx, strings.TrimSpace(id))
}

func (u *OrderUsecase) List(ctx context.Context, filter orderdom.Filter, sort orderdom.Sort, page orderdom.Page) (orderdom.PageResult, error) {
	return u.orders.List(ctx, filter, sort, page)
}

func (u *OrderUsecase) History(ctx context.Context, orderID string) ([]orderdom.StatusHistory, error) {
	return u.orders.History(ctx, strings.TrimSpace(orderID))
}

func (u *OrderUsecase) Summary(ctx context.Context, ownerID string) (orderdom.Summary, error) {
	return u.orders.Summarize(ctx, strings.TrimSpace(ownerID))
}

// ========================================
// Commands
// ========================================

// ChangeStatus validates the transition, appends the history entry, mirrors
// the new status, and releases or credits stock on cancellation. The history
// append, the mirror, and the stock movements share one transaction.
func (u *OrderUsecase) ChangeStatus(ctx context.Context, orderID, rawStatus, note string) (*orderdom.Order, error) {
	next, err := orderdom.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	actor := ActorFromContext(ctx)
	now := u.now()

	var updated *orderdom.Order
	var from orderdom.Status

	err = u.orders.WithTx(ctx, func(ctx context.Context) error {
		o, err := u.orders.GetByID(ctx, strings.TrimSpace(orderID))
		if err != nil {
			return err
		}
		from = o.Status
		if err := orderdom.CanTransition(o.Status, next); err != nil {
			return err
		}

		h, err := orderdom.NewStatusHistory(u.newID(), o.ID, from, next, note, actor.Display(), now)
		if err != nil {
			return err
		}
		if err := u.orders.AppendHistory(ctx, h); err != nil {
			return err
		}

		o.ApplyStatus(next, now)
		if next == orderdom.StatusCancelled {
			o.PaymentStatus = orderdom.PaymentCancelled
			if err := u.restock(ctx, o, from); err != nil {
				return err
			}
		}
		if err := u.orders.Save(ctx, *o); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.record(ctx, actor, "order.status_changed", updated.ID, map[string]any{
		"number": updated.Number,
		"from":   string(from),
		"to":     string(next),
		"note":   note,
	})
	log.Printf("[order_uc] status changed order=%s %s -> %s actor=%s",
		updated.Number, from, next, actor.Display())

	if next == orderdom.StatusShipped && u.notifier != nil {
		if email := u.customerEmail(ctx, updated.CustomerID); email != "" {
			if err := u.notifier.OrderShipped(ctx, *updated, email); err != nil {
				log.Printf("[order_uc] shipped notification failed order=%s: %v", updated.Number, err)
			}
		}
	}
	return updated, nil
}

// restock undoes the order's stock movements on cancellation: layaway holds
// are released, debited units are credited back. Orders without a sale carry
// no stock movements.
func (u *OrderUsecase) restock(ctx context.Context, o *orderdom.Order, from orderdom.Status) error {
	if o.SaleID == nil {
		return nil
	}
	s, err := u.sales.GetByID(ctx, *o.SaleID)
	if err != nil {
		return err
	}

	touched := make(map[string]struct{})
	for _, li := range s.Lines {
		p, err := u.catalog.GetByID(ctx, li.ProductID)
		if err != nil {
			return err
		}
		if !p.TracksStock {
			continue
		}
		target := lineTarget(li)
		if from == orderdom.StatusLayaway {
			err = u.ledger.Release(ctx, target, li.Quantity)
		} else {
			err = u.ledger.Credit(ctx, target, li.Quantity)
		}
		if err != nil {
			return err
		}
		if target.Kind != stockdom.KindItem {
			touched[li.ProductID] = struct{}{}
		}
	}
	for productID := range touched {
		if err := u.ledger.RecomputeItemTotal(ctx, productID); err != nil {
			return err
		}
	}
	return u.sales.UpdateStatus(ctx, s.ID, saledom.StatusCancelled)
}

// lineTarget rebuilds the counter target a persisted line hit at checkout.
func lineTarget(li saledom.LineItem) stockdom.Target {
	if li.ColorID != nil {
		return stockdom.ColorTarget(*li.ColorID)
	}
	if li.VariantID != nil {
		return stockdom.VariantTarget(*li.VariantID)
	}
	return stockdom.ItemTarget(li.ProductID)
}

func (u *OrderUsecase) customerEmail(ctx context.Context, customerID *string) string {
	if customerID == nil {
		return ""
	}
	c, err := u.customers.GetByID(ctx, *customerID)
	if err != nil {
		log.Printf("[order_uc] customer lookup failed id=%s: %v", *customerID, err)
		return ""
	}
	return c.Email
}

func (u *OrderUsecase) record(ctx context.Context, actor Actor, action, entityID string, payload map[string]any) {
	if u.audit == nil {
		return
	}
	e := auditdom.NewEvent(actor.Display(), action, "order", entityID, u.now(), payload)
	if err := u.audit.Record(ctx, e); err != nil {
		log.Printf("[order_uc] audit write failed action=%s order=%s: %v", action, entityID, err)
	}
}
