// internal/domain/installment/entity_test.go
package installment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	now := time.Now()

	_, err := New("", "ord-1", 1000, MethodCash, "", "", StatusPending, "ana", now)
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = New("p1", "", 1000, MethodCash, "", "", StatusPending, "ana", now)
	assert.ErrorIs(t, err, ErrInvalidOrderRef)

	_, err = New("p1", "ord-1", 0, MethodCash, "", "", StatusPending, "ana", now)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = New("p1", "ord-1", -500, MethodCash, "", "", StatusPending, "ana", now)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = New("p1", "ord-1", 1000, Method("barter"), "", "", StatusPending, "ana", now)
	assert.ErrorIs(t, err, ErrInvalidMethod)

	for _, s := range []Status{StatusRejected, StatusCancelled, Status("bogus")} {
		_, err = New("p1", "ord-1", 1000, MethodCash, "", "", s, "ana", now)
		assert.ErrorIs(t, err, ErrInvalidStatus, "status=%q", s)
	}
}

func TestNew_PendingHasNoConfirmedAt(t *testing.T) {
	p, err := New("p1", "ord-1", 1500, MethodTransfer, "OP-778", "first payment", StatusPending, "ana", time.Now())
	require.NoError(t, err)
	assert.Equal(t, StatusPending, p.Status)
	assert.Nil(t, p.ConfirmedAt)
	assert.Equal(t, "OP-778", p.Reference)
}

func TestNew_ConfirmedStampsConfirmedAt(t *testing.T) {
	now := time.Date(2026, 4, 10, 15, 0, 0, 0, time.UTC)

	p, err := New("p1", "ord-1", 1500, MethodCash, "", "", StatusConfirmed, "ana", now)
	require.NoError(t, err)
	require.NotNil(t, p.ConfirmedAt)
	assert.Equal(t, now, *p.ConfirmedAt)
}

func TestTransition_Guards(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		from    Status
		to      Status
		wantErr bool
	}{
		{"pending to confirmed", StatusPending, StatusConfirmed, false},
		{"pending to rejected", StatusPending, StatusRejected, false},
		{"pending to cancelled", StatusPending, StatusCancelled, false},
		{"confirmed reversal", StatusConfirmed, StatusRejected, false},
		{"confirmed to cancelled", StatusConfirmed, StatusCancelled, true},
		{"confirmed to pending", StatusConfirmed, StatusPending, true},
		{"rejected is final", StatusRejected, StatusConfirmed, true},
		{"cancelled is final", StatusCancelled, StatusPending, true},
		{"unknown target", StatusPending, Status("bogus"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Installment{ID: "p1", OrderID: "ord-1", Status: tt.from}
			err := p.Transition(tt.to, now)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.from, p.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, p.Status)
		})
	}
}

func TestTransition_ConfirmedAtStampedOnce(t *testing.T) {
	t1 := time.Date(2026, 4, 10, 10, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 4, 11, 10, 0, 0, 0, time.UTC)

	p := Installment{ID: "p1", OrderID: "ord-1", Status: StatusPending}
	require.NoError(t, p.Transition(StatusConfirmed, t1))
	require.NotNil(t, p.ConfirmedAt)
	assert.Equal(t, t1, *p.ConfirmedAt)

	// Reversal keeps the original confirmation timestamp for the audit trail.
	require.NoError(t, p.Transition(StatusRejected, t2))
	assert.Equal(t, t1, *p.ConfirmedAt)
}
