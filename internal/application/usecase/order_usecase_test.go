// internal/application/usecase/order_usecase_test.go
package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderdom "localix/internal/domain/order"
	saledom "localix/internal/domain/sale"
	stockdom "localix/internal/domain/stock"
)

func TestChangeStatus_AppendsHistoryAndStampsMilestone(t *testing.T) {
	f := newFixture()
	f.addPlainProduct("p1", 2000, 10)
	res, err := f.checkout.Checkout(context.Background(),
		immediateInput(CheckoutLine{ProductID: "p1", Quantity: 1}))
	require.NoError(t, err)

	o, err := f.orderUC.ChangeStatus(context.Background(), res.Order.ID, "confirmed", "payment verified")
	require.NoError(t, err)

	assert.Equal(t, orderdom.StatusConfirmed, o.Status)
	require.NotNil(t, o.ConfirmedAt)

	h := f.orders.activeHistory(o.ID)
	require.NotNil(t, h)
	assert.Equal(t, orderdom.StatusPending, h.From)
	assert.Equal(t, orderdom.StatusConfirmed, h.To)
	assert.Equal(t, "payment verified", h.Note)

	hist, err := f.orderUC.History(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Len(t, hist, 2) // creation entry + this one

	assert.True(t, f.audit.has("order.status_changed"))
}

func TestChangeStatus_SameStatusReentryAuditedNotRestamped(t *testing.T) {
	f := newFixture()
	f.addPlainProduct("p1", 2000, 10)
	res, err := f.checkout.Checkout(context.Background(),
		immediateInput(CheckoutLine{ProductID: "p1", Quantity: 1}))
	require.NoError(t, err)

	ctx := context.Background()
	t1 := time.Date(2026, 5, 21, 9, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 5, 22, 9, 0, 0, 0, time.UTC)

	f.orderUC.now = func() time.Time { return t1 }
	_, err = f.orderUC.ChangeStatus(ctx, res.Order.ID, "confirmed", "payment verified")
	require.NoError(t, err)

	f.orderUC.now = func() time.Time { return t2 }
	o, err := f.orderUC.ChangeStatus(ctx, res.Order.ID, "confirmed", "retry")
	require.NoError(t, err)

	// The milestone keeps its first timestamp.
	require.NotNil(t, o.ConfirmedAt)
	assert.Equal(t, t1, *o.ConfirmedAt)

	// The retry still lands in the log as the active entry.
	hist, err := f.orderUC.History(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, hist, 3) // creation + confirm + retry
	h := f.orders.activeHistory(o.ID)
	require.NotNil(t, h)
	assert.Equal(t, orderdom.StatusConfirmed, h.From)
	assert.Equal(t, orderdom.StatusConfirmed, h.To)
	assert.Equal(t, "retry", h.Note)

	changes := 0
	for _, e := range f.audit.events {
		if e.Action == "order.status_changed" {
			changes++
		}
	}
	assert.Equal(t, 2, changes)
}

func TestChangeStatus_InvalidTransition(t *testing.T) {
	f := newFixture()
	f.addPlainProduct("p1", 2000, 10)
	res, err := f.checkout.Checkout(context.Background(),
		immediateInput(CheckoutLine{ProductID: "p1", Quantity: 1}))
	require.NoError(t, err)

	_, err = f.orderUC.ChangeStatus(context.Background(), res.Order.ID, "shipped", "")
	assert.ErrorIs(t, err, orderdom.ErrInvalidTransition)

	_, err = f.orderUC.ChangeStatus(context.Background(), res.Order.ID, "separado", "")
	assert.ErrorIs(t, err, orderdom.ErrInvalidStatus)
}

func TestChangeStatus_CancelCreditsDebitedStock(t *testing.T) {
	f := newFixture()
	f.addPlainProduct("p1", 2000, 10)
	res, err := f.checkout.Checkout(context.Background(),
		immediateInput(CheckoutLine{ProductID: "p1", Quantity: 4}))
	require.NoError(t, err)
	require.Equal(t, 6, f.stock.stock[stockdom.ItemTarget("p1")])

	o, err := f.orderUC.ChangeStatus(context.Background(), res.Order.ID, "cancelled", "customer gave up")
	require.NoError(t, err)

	assert.Equal(t, orderdom.StatusCancelled, o.Status)
	assert.Equal(t, orderdom.PaymentCancelled, o.PaymentStatus)
	assert.Equal(t, 10, f.stock.stock[stockdom.ItemTarget("p1")])

	s, err := f.sales.GetByID(context.Background(), *o.SaleID)
	require.NoError(t, err)
	assert.Equal(t, saledom.StatusCancelled, s.Status)
}

func TestChangeStatus_CancelLayawayReleasesHolds(t *testing.T) {
	f := newFixture()
	f.addColorProduct("p1", 3000, "c-red", 5)

	in := immediateInput(CheckoutLine{ProductID: "p1", ColorID: ptr("c-red"), Quantity: 3})
	in.Layaway = true
	res, err := f.checkout.Checkout(context.Background(), in)
	require.NoError(t, err)

	target := stockdom.ColorTarget("c-red")
	require.Equal(t, 3, f.stock.reserved[target])

	_, err = f.orderUC.ChangeStatus(context.Background(), res.Order.ID, "cancelled", "")
	require.NoError(t, err)

	// Holds drop, stock never moved.
	assert.Equal(t, 0, f.stock.reserved[target])
	assert.Equal(t, 5, f.stock.stock[target])
}

func TestChangeStatus_ShippedNotifiesCustomer(t *testing.T) {
	f := newFixture()
	f.addPlainProduct("p1", 2000, 10)
	f.addCustomer("c1", "Ana", "ana@example.com")

	in := immediateInput(CheckoutLine{ProductID: "p1", Quantity: 1})
	in.CustomerID = ptr("c1")
	in.CustomerName = ""
	res, err := f.checkout.Checkout(context.Background(), in)
	require.NoError(t, err)

	ctx := context.Background()
	for _, next := range []string{"confirmed", "preparing", "shipped"} {
		_, err = f.orderUC.ChangeStatus(ctx, res.Order.ID, next, "")
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"ana@example.com"}, f.notifier.shipped)
}

func TestChangeStatus_TerminalOrderRejectsFurtherChanges(t *testing.T) {
	f := newFixture()
	f.addPlainProduct("p1", 2000, 10)
	res, err := f.checkout.Checkout(context.Background(),
		immediateInput(CheckoutLine{ProductID: "p1", Quantity: 1}))
	require.NoError(t, err)

	_, err = f.orderUC.ChangeStatus(context.Background(), res.Order.ID, "cancelled", "")
	require.NoError(t, err)

	_, err = f.orderUC.ChangeStatus(context.Background(), res.Order.ID, "pending", "")
	assert.ErrorIs(t, err, orderdom.ErrInvalidTransition)
}
