// internal/domain/order/entity_test.go
package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T, status Status, total int64) Order {
	t.Helper()
	o, err := New(
		"ord-1", FormatNumber(7), "owner-1",
		nil, nil,
		"Av. Principal 123", "999888777", "",
		ChannelPhysical, PaymentPending, status,
		total, "",
		time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return o
}

func TestNew_InitializesAmounts(t *testing.T) {
	o := newTestOrder(t, StatusPending, 5000)
	assert.Equal(t, int64(0), o.AmountPaid)
	assert.Equal(t, int64(5000), o.AmountPending)
	assert.Equal(t, "PED-000007", o.Number)
}

func TestNew_Validation(t *testing.T) {
	now := time.Now()

	_, err := New("", "n", "o", nil, nil, "", "", "", ChannelPhysical, PaymentPending, StatusPending, 0, "", now)
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = New("id", "n", "", nil, nil, "", "", "", ChannelPhysical, PaymentPending, StatusPending, 0, "", now)
	assert.ErrorIs(t, err, ErrInvalidOwnerID)

	_, err = New("id", "n", "o", nil, nil, "", "", "", Channel("mail"), PaymentPending, StatusPending, 0, "", now)
	assert.ErrorIs(t, err, ErrInvalidChannel)

	_, err = New("id", "n", "o", nil, nil, "", "", "", ChannelPhysical, PaymentPending, StatusPending, -1, "", now)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestApplyStatus_StampsMilestonesOnce(t *testing.T) {
	o := newTestOrder(t, StatusPending, 1000)
	t1 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)

	o.ApplyStatus(StatusConfirmed, t1)
	require.NotNil(t, o.ConfirmedAt)
	assert.Equal(t, t1, *o.ConfirmedAt)

	// Re-entry must not re-stamp.
	o.ApplyStatus(StatusConfirmed, t2)
	assert.Equal(t, t1, *o.ConfirmedAt)

	o.ApplyStatus(StatusPreparing, t2)
	o.ApplyStatus(StatusShipped, t2)
	require.NotNil(t, o.ShippedAt)
	assert.Equal(t, t2, *o.ShippedAt)
	assert.Nil(t, o.DeliveredAt)

	o.ApplyStatus(StatusDelivered, t2)
	require.NotNil(t, o.DeliveredAt)
}

func TestReconcile(t *testing.T) {
	o := newTestOrder(t, StatusLayaway, 10000)

	o.Reconcile(10000, 4000)
	assert.Equal(t, int64(4000), o.AmountPaid)
	assert.Equal(t, int64(6000), o.AmountPending)
	assert.False(t, o.Settled(10000))

	o.Reconcile(10000, 10000)
	assert.Equal(t, int64(0), o.AmountPending)
	assert.True(t, o.Settled(10000))

	// Reversal drops the sum back down.
	o.Reconcile(10000, 7000)
	assert.Equal(t, int64(7000), o.AmountPaid)
	assert.Equal(t, int64(3000), o.AmountPending)
	assert.False(t, o.Settled(10000))
}

func TestNewStatusHistory(t *testing.T) {
	now := time.Now()

	h, err := NewStatusHistory("h1", "ord-1", StatusPending, StatusConfirmed, "ready", "ana", now)
	require.NoError(t, err)
	assert.True(t, h.Active)
	assert.Equal(t, StatusPending, h.From)

	// Creation entry has no predecessor status.
	h, err = NewStatusHistory("h2", "ord-1", "", StatusPending, "order created", "ana", now)
	require.NoError(t, err)
	assert.Equal(t, Status(""), h.From)

	_, err = NewStatusHistory("", "ord-1", "", StatusPending, "", "", now)
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = NewStatusHistory("h3", "ord-1", "", Status("bogus"), "", "", now)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "PED-000001", FormatNumber(1))
	assert.Equal(t, "PED-000042", FormatNumber(42))
	assert.Equal(t, "PED-123456", FormatNumber(123456))
}
