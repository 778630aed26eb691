// internal/application/usecase/installment_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	auditdom "localix/internal/domain/audit"
	catalogdom "localix/internal/domain/catalog"
	customerdom "localix/internal/domain/customer"
	installmentdom "localix/internal/domain/installment"
	orderdom "localix/internal/domain/order"
	saledom "localix/internal/domain/sale"
	stockdom "localix/internal/domain/stock"
)

var ErrNotLayaway = errors.New("usecase: order is not in layaway")

// InstallmentUsecase records and confirms layaway payments. AmountPaid is
// never incremented in place: after every confirming or reversing write it is
// recomputed from the store's confirmed sum, and full coverage moves the order
// out of layaway in the same transaction that debits the reserved stock.
type InstallmentUsecase struct {
	installments installmentdom.RepositoryPort
	orders       orderdom.RepositoryPort
	sales        saledom.RepositoryPort
	catalog      catalogdom.RepositoryPort
	customers    customerdom.RepositoryPort
	ledger       *stockdom.Ledger
	receipts     ReceiptStore
	audit        auditdom.Sink
	notifier     Notifier

	now   func() time.Time
	newID func() string
}

func NewInstallmentUsecase(
	installments installmentdom.RepositoryPort,
	orders orderdom.RepositoryPort,
	sales saledom.RepositoryPort,
	catalog catalogdom.RepositoryPort,
	customers customerdom.RepositoryPort,
	ledger *stockdom.Ledger,
	receipts ReceiptStore,
	sink auditdom.Sink,
	notifier Notifier,
) *InstallmentUsecase {
	return &InstallmentUsecase{
		installments: installments,
		orders:       orders,
		sales:        sales,
		catalog:      catalog,
		customers:    customers,
		ledger:       ledger,
		receipts:     receipts,
		audit:        sink,
		notifier:     notifier,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// ========================================
// Queries
// ========================================

func (u *InstallmentUsecase) Get(ctx context.Context, id string) (*installmentdom.Installment, error) {
	return u.installments.GetByID(ctx, strings.TrimSpace(id))
}

func (u *InstallmentUsecase) ListByOrder(ctx context.Context, orderID string) ([]installmentdom.Installment, error) {
	return u.installments.ListByOrder(ctx, strings.TrimSpace(orderID))
}

// ========================================
// Commands
// ========================================

type RecordInstallmentInput struct {
	OrderID   string
	Amount    int64
	Method    installmentdom.Method
	Reference string
	Notes     string
	Status    installmentdom.Status // pending (review path) or confirmed
}

// Record registers a payment against a layaway order. A directly confirmed
// payment reconciles the order immediately.
func (u *InstallmentUsecase) Record(ctx context.Context, in RecordInstallmentInput) (*installmentdom.Installment, error) {
	actor := ActorFromContext(ctx)
	now := u.now()

	var created *installmentdom.Installment
	var settled bool
	var settledOrder *orderdom.Order

	err := u.orders.WithTx(ctx, func(ctx context.Context) error {
		o, err := u.orders.GetByID(ctx, strings.TrimSpace(in.OrderID))
		if err != nil {
			return err
		}
		if o.Status != orderdom.StatusLayaway {
			return fmt.Errorf("%w: order %s is %s", ErrNotLayaway, o.Number, o.Status)
		}

		p, err := installmentdom.New(
			u.newID(), o.ID, in.Amount, in.Method,
			in.Reference, in.Notes, in.Status, actor.Display(), now,
		)
		if err != nil {
			return err
		}
		created, err = u.installments.Create(ctx, p)
		if err != nil {
			return err
		}

		if created.Status == installmentdom.StatusConfirmed {
			settled, err = u.reconcile(ctx, o, created, actor, now)
			if err != nil {
				return err
			}
			settledOrder = o
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.record(ctx, actor, "installment.recorded", created.ID, map[string]any{
		"orderId": created.OrderID,
		"amount":  created.Amount,
		"status":  string(created.Status),
	})
	log.Printf("[installment_uc] recorded order=%s amount=%d status=%s", created.OrderID, created.Amount, created.Status)

	if settled {
		u.notifySettled(ctx, settledOrder)
	}
	return created, nil
}

// Confirm moves a pending payment to confirmed and reconciles the order.
func (u *InstallmentUsecase) Confirm(ctx context.Context, id string) (*installmentdom.Installment, error) {
	return u.transition(ctx, id, installmentdom.StatusConfirmed, "installment.confirmed")
}

// Reject reverses a payment. A confirmed payment may be rejected too; the
// order's paid amount drops with the recompute, but its lifecycle state is
// never walked back.
func (u *InstallmentUsecase) Reject(ctx context.Context, id string) (*installmentdom.Installment, error) {
	return u.transition(ctx, id, installmentdom.StatusRejected, "installment.rejected")
}

// Cancel voids a pending payment without reversal semantics.
func (u *InstallmentUsecase) Cancel(ctx context.Context, id string) (*installmentdom.Installment, error) {
	return u.transition(ctx, id, installmentdom.StatusCancelled, "installment.cancelled")
}

// AttachReceipt stores the uploaded receipt file and records its URL.
func (u *InstallmentUsecase) AttachReceipt(ctx context.Context, id, filename, contentType string, data []byte) (*installmentdom.Installment, error) {
	p, err := u.installments.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("receipts/%s/%s-%s", p.OrderID, p.ID, path.Base(filename))
	url, err := u.receipts.Upload(ctx, objectName, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("installment: receipt upload: %w", err)
	}

	p.ReceiptURL = url
	if err := u.installments.Save(ctx, *p); err != nil {
		return nil, err
	}

	actor := ActorFromContext(ctx)
	u.record(ctx, actor, "installment.receipt_attached", p.ID, map[string]any{
		"orderId": p.OrderID,
		"url":     url,
	})
	return p, nil
}

// ========================================
// Internals
// ========================================

func (u *InstallmentUsecase) transition(ctx context.Context, id string, next installmentdom.Status, action string) (*installmentdom.Installment, error) {
	actor := ActorFromContext(ctx)
	now := u.now()

	var updated *installmentdom.Installment
	var settled bool
	var settledOrder *orderdom.Order

	err := u.orders.WithTx(ctx, func(ctx context.Context) error {
		p, err := u.installments.GetByID(ctx, strings.TrimSpace(id))
		if err != nil {
			return err
		}
		wasConfirmed := p.Status == installmentdom.StatusConfirmed

		// Confirming adds to the confirmed sum; reversing a confirmed
		// payment subtracts from it. Either way the order reconciles, so a
		// terminal order blocks the change before anything is written.
		needsReconcile := next == installmentdom.StatusConfirmed || wasConfirmed

		var o *orderdom.Order
		if needsReconcile {
			o, err = u.orders.GetByID(ctx, p.OrderID)
			if err != nil {
				return err
			}
			if orderdom.IsTerminal(o.Status) {
				return fmt.Errorf("%w: order %s is %s", orderdom.ErrTerminal, o.Number, o.Status)
			}
		}

		if err := p.Transition(next, now); err != nil {
			return err
		}
		if err := u.installments.Save(ctx, *p); err != nil {
			return err
		}
		updated = p

		if needsReconcile {
			settled, err = u.reconcile(ctx, o, p, actor, now)
			if err != nil {
				return err
			}
			settledOrder = o
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.record(ctx, actor, action, updated.ID, map[string]any{
		"orderId": updated.OrderID,
		"amount":  updated.Amount,
		"status":  string(updated.Status),
	})
	log.Printf("[installment_uc] %s id=%s order=%s", action, updated.ID, updated.OrderID)

	if settled {
		u.notifySettled(ctx, settledOrder)
	}
	return updated, nil
}

// reconcile recomputes the order's paid/pending pair from the store's
// confirmed sum and, on full coverage of a layaway order, settles it: the
// reserved units are debited and the order returns to pending. Runs inside
// the caller's transaction; returns whether settlement happened.
func (u *InstallmentUsecase) reconcile(ctx context.Context, o *orderdom.Order, trigger *installmentdom.Installment, actor Actor, now time.Time) (bool, error) {
	orderTotal := o.AmountPaid + o.AmountPending

	sum, err := u.installments.SumConfirmed(ctx, o.ID)
	if err != nil {
		return false, err
	}
	o.Reconcile(orderTotal, sum)

	switch {
	case o.Settled(orderTotal):
		o.PaymentStatus = orderdom.PaymentPaid
	case sum > 0:
		o.PaymentStatus = orderdom.PaymentProcessing
	default:
		o.PaymentStatus = orderdom.PaymentPending
	}

	settled := false
	if o.Settled(orderTotal) && o.Status == orderdom.StatusLayaway {
		if err := u.debitReserved(ctx, o); err != nil {
			return false, err
		}
		note := fmt.Sprintf("layaway settled by installment %s", trigger.ID)
		h, err := orderdom.NewStatusHistory(u.newID(), o.ID, orderdom.StatusLayaway, orderdom.StatusPending, note, actor.Display(), now)
		if err != nil {
			return false, err
		}
		if err := u.orders.AppendHistory(ctx, h); err != nil {
			return false, err
		}
		o.ApplyStatus(orderdom.StatusPending, now)
		settled = true
	}

	if err := u.orders.Save(ctx, *o); err != nil {
		return false, err
	}

	// The written amount must match a fresh read of the confirmed sum.
	check, err := u.installments.SumConfirmed(ctx, o.ID)
	if err != nil {
		return false, err
	}
	if check != o.AmountPaid {
		return false, fmt.Errorf("%w: wrote %d, store sums %d", orderdom.ErrReconciliationFailure, o.AmountPaid, check)
	}
	return settled, nil
}

// debitReserved converts the order's layaway holds into permanent debits.
func (u *InstallmentUsecase) debitReserved(ctx context.Context, o *orderdom.Order) error {
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
		if err := u.ledger.Debit(ctx, target, li.Quantity, true); err != nil {
			return err
		}
		if err := u.ledger.AddUnitsSold(ctx, li.ProductID, li.Quantity); err != nil {
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
	return u.sales.UpdateStatus(ctx, s.ID, saledom.StatusCompleted)
}

func (u *InstallmentUsecase) notifySettled(ctx context.Context, o *orderdom.Order) {
	actor := ActorFromContext(ctx)
	if u.audit != nil {
		e := auditdom.NewEvent(actor.Display(), "layaway.settled", "order", o.ID, u.now(), map[string]any{
			"number": o.Number,
			"paid":   o.AmountPaid,
		})
		if err := u.audit.Record(ctx, e); err != nil {
			log.Printf("[installment_uc] audit write failed action=layaway.settled order=%s: %v", o.ID, err)
		}
	}
	log.Printf("[installment_uc] layaway settled order=%s paid=%d", o.Number, o.AmountPaid)

	if u.notifier == nil || o.CustomerID == nil {
		return
	}
	c, err := u.customers.GetByID(ctx, *o.CustomerID)
	if err != nil || c.Email == "" {
		return
	}
	if err := u.notifier.LayawaySettled(ctx, *o, c.Email); err != nil {
		log.Printf("[installment_uc] settlement notification failed order=%s: %v", o.Number, err)
	}
}

func (u *InstallmentUsecase) record(ctx context.Context, actor Actor, action, entityID string, payload map[string]any) {
	if u.audit == nil {
		return
	}
	e := auditdom.NewEvent(actor.Display(), action, "installment", entityID, u.now(), payload)
	if err := u.audit.Record(ctx, e); err != nil {
		log.Printf("[installment_uc] audit write failed action=%s id=%s: %v", action, entityID, err)
	}
}
