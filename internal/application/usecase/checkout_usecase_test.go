// internal/application/usecase/checkout_usecase_test.go
package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customerdom "localix/internal/domain/customer"
	orderdom "localix/internal/domain/order"
	saledom "localix/internal/domain/sale"
	stockdom "localix/internal/domain/stock"
)

func ptr(s string) *string { return &s }

func immediateInput(lines ...CheckoutLine) CheckoutInput {
	return CheckoutInput{
		OwnerID:       "owner-1",
		CustomerName:  "Walk-in",
		Lines:         lines,
		PaymentMethod: saledom.PayCash,
		Channel:       orderdom.ChannelPhysical,
	}
}

func TestCheckout_ImmediateSale(t *testing.T) {
	f := newFixture()
	f.addPlainProduct("p1", 2000, 10)

	res, err := f.checkout.Checkout(context.Background(),
		immediateInput(CheckoutLine{ProductID: "p1", Quantity: 2}))
	require.NoError(t, err)

	require.NotNil(t, res.Sale)
	assert.Equal(t, "VEN-000001", res.Sale.Number)
	assert.Equal(t, saledom.StatusCompleted, res.Sale.Status)
	assert.Equal(t, int64(4000), res.Sale.Total)

	require.NotNil(t, res.Order)
	assert.Equal(t, "PED-000001", res.Order.Number)
	assert.Equal(t, orderdom.StatusPending, res.Order.Status)
	assert.Equal(t, orderdom.PaymentPaid, res.Order.PaymentStatus)
	assert.Equal(t, int64(4000), res.Order.AmountPaid)
	assert.Equal(t, int64(0), res.Order.AmountPending)
	require.NotNil(t, res.Order.SaleID)
	assert.Equal(t, res.Sale.ID, *res.Order.SaleID)

	// Stock consumed and sold counter advanced.
	assert.Equal(t, 8, f.stock.stock[stockdom.ItemTarget("p1")])
	assert.Equal(t, 2, f.stock.sold["p1"])

	// Creation history entry is the single active one.
	h := f.orders.activeHistory(res.Order.ID)
	require.NotNil(t, h)
	assert.Equal(t, orderdom.Status(""), h.From)
	assert.Equal(t, orderdom.StatusPending, h.To)

	assert.True(t, f.audit.has("checkout"))
}

func TestCheckout_LayawayReservesInsteadOfDebiting(t *testing.T) {
	f := newFixture()
	f.addColorProduct("p1", 3000, "c-red", 5)

	in := immediateInput(CheckoutLine{ProductID: "p1", ColorID: ptr("c-red"), Quantity: 2})
	in.Layaway = true

	res, err := f.checkout.Checkout(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, saledom.StatusPending, res.Sale.Status)
	assert.Equal(t, orderdom.StatusLayaway, res.Order.Status)
	assert.Equal(t, orderdom.PaymentPending, res.Order.PaymentStatus)
	assert.Equal(t, int64(0), res.Order.AmountPaid)
	assert.Equal(t, int64(6000), res.Order.AmountPending)

	// Held, not consumed.
	target := stockdom.ColorTarget("c-red")
	assert.Equal(t, 5, f.stock.stock[target])
	assert.Equal(t, 2, f.stock.reserved[target])
	assert.Equal(t, 0, f.stock.sold["p1"])

	// Derived product counter recomputed from the child.
	assert.Equal(t, 5, f.stock.stock[stockdom.ItemTarget("p1")])
}

func TestCheckout_ImmediateColorSale(t *testing.T) {
	f := newFixture()
	f.addColorProduct("p1", 3000, "c-red", 5)

	res, err := f.checkout.Checkout(context.Background(),
		immediateInput(CheckoutLine{ProductID: "p1", ColorID: ptr("c-red"), Quantity: 3}))
	require.NoError(t, err)

	assert.Equal(t, int64(9000), res.Sale.Total)
	assert.Equal(t, saledom.StatusCompleted, res.Sale.Status)

	// Color counter debited, nothing held.
	target := stockdom.ColorTarget("c-red")
	assert.Equal(t, 2, f.stock.stock[target])
	assert.Equal(t, 0, f.stock.reserved[target])
	assert.Equal(t, 3, f.stock.sold["p1"])

	// Derived product counter follows the child.
	assert.Equal(t, 2, f.stock.stock[stockdom.ItemTarget("p1")])
}

func TestCheckout_MissingMandatoryColor(t *testing.T) {
	f := newFixture()
	f.addColorProduct("p1", 3000, "c-red", 5)

	_, err := f.checkout.Checkout(context.Background(),
		immediateInput(CheckoutLine{ProductID: "p1", Quantity: 1}))
	assert.ErrorIs(t, err, stockdom.ErrInvalidSelection)

	// Nothing persisted, nothing moved.
	assert.Empty(t, f.sales.sales)
	assert.Empty(t, f.orders.orders)
	assert.Equal(t, 5, f.stock.stock[stockdom.ColorTarget("c-red")])
}

func TestCheckout_VariantSurchargeFrozenOnLine(t *testing.T) {
	f := newFixture()
	f.addVariantProduct("p1", 2000, 500, "v-m", 4)

	res, err := f.checkout.Checkout(context.Background(),
		immediateInput(CheckoutLine{ProductID: "p1", VariantID: ptr("v-m"), Quantity: 1}))
	require.NoError(t, err)

	require.Len(t, res.Sale.Lines, 1)
	assert.Equal(t, int64(2500), res.Sale.Lines[0].UnitPrice)
	assert.Equal(t, int64(2500), res.Sale.Total)
	assert.Equal(t, 3, f.stock.stock[stockdom.VariantTarget("v-m")])
}

func TestCheckout_UnknownVariantRejected(t *testing.T) {
	f := newFixture()
	f.addVariantProduct("p1", 2000, 500, "v-m", 4)

	_, err := f.checkout.Checkout(context.Background(),
		immediateInput(CheckoutLine{ProductID: "p1", VariantID: ptr("v-xl"), Quantity: 1}))
	assert.ErrorIs(t, err, stockdom.ErrInvalidSelection)
}

func TestCheckout_UntrackedProductSkipsStock(t *testing.T) {
	f := newFixture()
	f.addServiceProduct("svc-1", 1500)

	res, err := f.checkout.Checkout(context.Background(),
		immediateInput(CheckoutLine{ProductID: "svc-1", Quantity: 3}))
	require.NoError(t, err)

	assert.Equal(t, int64(4500), res.Sale.Total)
	assert.Empty(t, f.stock.sold)
	assert.Equal(t, 0, f.stock.stock[stockdom.ItemTarget("svc-1")])
}

func TestCheckout_InsufficientStock(t *testing.T) {
	f := newFixture()
	f.addPlainProduct("p1", 2000, 1)

	_, err := f.checkout.Checkout(context.Background(),
		immediateInput(CheckoutLine{ProductID: "p1", Quantity: 2}))
	assert.ErrorIs(t, err, stockdom.ErrInsufficientStock)
	assert.Empty(t, f.sales.sales)
	assert.Empty(t, f.orders.orders)
}

func TestCheckout_LineValidation(t *testing.T) {
	f := newFixture()
	f.addPlainProduct("p1", 2000, 10)

	_, err := f.checkout.Checkout(context.Background(), immediateInput())
	assert.ErrorIs(t, err, saledom.ErrNoLineItems)

	_, err = f.checkout.Checkout(context.Background(),
		immediateInput(CheckoutLine{ProductID: "p1", Quantity: 0}))
	assert.ErrorIs(t, err, saledom.ErrInvalidQuantity)

	_, err = f.checkout.Checkout(context.Background(), immediateInput(
		CheckoutLine{ProductID: "p1", Quantity: 1},
		CheckoutLine{ProductID: "p1", Quantity: 2},
	))
	assert.ErrorIs(t, err, saledom.ErrDuplicateLineItem)
}

func TestCheckout_CustomerResolution(t *testing.T) {
	line := CheckoutLine{ProductID: "p1", Quantity: 1}

	t.Run("no customer at all", func(t *testing.T) {
		f := newFixture()
		f.addPlainProduct("p1", 2000, 10)
		in := immediateInput(line)
		in.CustomerName = ""
		_, err := f.checkout.Checkout(context.Background(), in)
		assert.ErrorIs(t, err, ErrCustomerRequired)
	})

	t.Run("reference and new customer are exclusive", func(t *testing.T) {
		f := newFixture()
		f.addPlainProduct("p1", 2000, 10)
		in := immediateInput(line)
		in.CustomerID = ptr("c1")
		in.NewCustomer = &QuickCustomerInput{Name: "Ana"}
		_, err := f.checkout.Checkout(context.Background(), in)
		assert.ErrorIs(t, err, ErrCustomerConflict)
	})

	t.Run("unknown reference", func(t *testing.T) {
		f := newFixture()
		f.addPlainProduct("p1", 2000, 10)
		in := immediateInput(line)
		in.CustomerID = ptr("ghost")
		_, err := f.checkout.Checkout(context.Background(), in)
		assert.ErrorIs(t, err, customerdom.ErrNotFound)
	})

	t.Run("registered reference", func(t *testing.T) {
		f := newFixture()
		f.addPlainProduct("p1", 2000, 10)
		f.addCustomer("c1", "Ana", "ana@example.com")
		in := immediateInput(line)
		in.CustomerID = ptr("c1")
		in.CustomerName = ""
		res, err := f.checkout.Checkout(context.Background(), in)
		require.NoError(t, err)
		require.NotNil(t, res.Sale.CustomerID)
		assert.Equal(t, "c1", *res.Sale.CustomerID)
	})

	t.Run("quick-created customer", func(t *testing.T) {
		f := newFixture()
		f.addPlainProduct("p1", 2000, 10)
		in := immediateInput(line)
		in.CustomerName = ""
		in.NewCustomer = &QuickCustomerInput{Name: "Luis", Email: "luis@example.com"}
		res, err := f.checkout.Checkout(context.Background(), in)
		require.NoError(t, err)
		require.NotNil(t, res.Sale.CustomerID)
		c, err := f.customers.GetByID(context.Background(), *res.Sale.CustomerID)
		require.NoError(t, err)
		assert.Equal(t, "Luis", c.Name)
		require.NotNil(t, res.Order.CustomerID)
		assert.Equal(t, c.ID, *res.Order.CustomerID)
	})
}

func TestCheckout_GlobalDiscountApplied(t *testing.T) {
	f := newFixture()
	f.addPlainProduct("p1", 1000, 10)

	in := immediateInput(CheckoutLine{ProductID: "p1", Quantity: 3})
	in.DiscountPercent = 10

	res, err := f.checkout.Checkout(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, int64(3000), res.Sale.Subtotal)
	assert.Equal(t, int64(300), res.Sale.Discount)
	assert.Equal(t, int64(2700), res.Sale.Total)
	assert.Equal(t, int64(2700), res.Order.AmountPaid)
}
