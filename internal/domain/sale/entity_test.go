// internal/domain/sale/entity_test.go
package sale

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNew_RequiresCustomerReferenceOrName(t *testing.T) {
	now := time.Now()

	_, err := New("s1", "VEN-000001", "owner", nil, "", 0, PayCash, "", "", now)
	assert.ErrorIs(t, err, ErrInvalidCustomer)

	s, err := New("s1", "VEN-000001", "owner", nil, "Walk-in", 0, PayCash, "", "", now)
	require.NoError(t, err)
	assert.Equal(t, "Walk-in", s.CustomerName)

	s, err = New("s1", "VEN-000001", "owner", strPtr("c1"), "", 0, PayCash, "", "", now)
	require.NoError(t, err)
	require.NotNil(t, s.CustomerID)
	assert.Equal(t, "c1", *s.CustomerID)
}

func TestNew_Validation(t *testing.T) {
	now := time.Now()

	_, err := New("s1", "n", "owner", strPtr("c1"), "", 101, PayCash, "", "", now)
	assert.ErrorIs(t, err, ErrInvalidDiscount)

	_, err = New("s1", "n", "owner", strPtr("c1"), "", -1, PayCash, "", "", now)
	assert.ErrorIs(t, err, ErrInvalidDiscount)

	_, err = New("s1", "n", "owner", strPtr("c1"), "", 0, PaymentMethod("bitcoin"), "", "", now)
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
}

func TestNewLineItem_FreezesUnitPrice(t *testing.T) {
	li, err := NewLineItem("l1", "s1", "p1", strPtr("v1"), nil, 3, 2500, 500, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), li.UnitPrice)
	assert.Equal(t, int64(9000), li.Subtotal)
}

func TestNewLineItem_DiscountClampsToZero(t *testing.T) {
	li, err := NewLineItem("l1", "s1", "p1", nil, nil, 1, 1000, 0, 5000)
	require.NoError(t, err)
	assert.Equal(t, int64(0), li.Subtotal)
}

func TestNewLineItem_Validation(t *testing.T) {
	_, err := NewLineItem("l1", "s1", "p1", nil, nil, 0, 1000, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewLineItem("l1", "s1", "", nil, nil, 1, 1000, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = NewLineItem("l1", "s1", "p1", nil, nil, 1, 1000, 0, -1)
	assert.ErrorIs(t, err, ErrInvalidDiscount)
}

func TestComputeTotals_Rounding(t *testing.T) {
	tests := []struct {
		name         string
		lines        []int64 // line subtotals
		pct          float64
		wantDiscount int64
		wantTotal    int64
	}{
		{"no discount", []int64{1000, 2000}, 0, 0, 3000},
		{"ten percent", []int64{1000, 2000}, 10, 300, 2700},
		{"rounds half up", []int64{333}, 50, 167, 166}, // 166.5 -> 167
		{"rounds down", []int64{1000}, 3.33, 33, 967},  // 33.3 -> 33
		{"full discount", []int64{999}, 100, 999, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Sale{DiscountPercent: tt.pct}
			for i, sub := range tt.lines {
				s.Lines = append(s.Lines, LineItem{ID: string(rune('a' + i)), Subtotal: sub})
			}
			s.ComputeTotals()
			assert.Equal(t, tt.wantDiscount, s.Discount)
			assert.Equal(t, tt.wantTotal, s.Total)
			assert.Equal(t, s.Subtotal-s.Discount, s.Total)
		})
	}
}

func TestLineKey(t *testing.T) {
	assert.Equal(t, "p1_null_null", LineKey("p1", nil, nil))
	assert.Equal(t, "p1_v1_null", LineKey("p1", strPtr("v1"), nil))
	assert.Equal(t, "p1_null_c1", LineKey("p1", nil, strPtr("c1")))
	assert.Equal(t, "p1_v1_c1", LineKey("p1", strPtr("v1"), strPtr("c1")))

	// Blank pointers collapse to null.
	assert.Equal(t, "p1_null_null", LineKey("p1", strPtr("  "), strPtr("")))

	// Same combination, same key; different combination, different key.
	assert.Equal(t, LineKey("p1", strPtr("v1"), nil), LineKey("p1", strPtr(" v1 "), nil))
	assert.NotEqual(t, LineKey("p1", strPtr("v1"), nil), LineKey("p1", strPtr("v2"), nil))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "VEN-000001", FormatNumber(1))
	assert.Equal(t, "VEN-000310", FormatNumber(310))
}
