// internal/domain/stock/ledger.go
package stock

import (
	"context"
	"log"
)

// CounterStore is the persistence contract for stock counters. Every mutation
// must be conditional (guard in the store's compare-and-swap / row lock), so
// that concurrent debits against the same counter are linearized and can never
// drive it negative. Implementations return an error wrapping
// ErrInsufficientStock when the guard fails.
type CounterStore interface {
	// Debit permanently consumes qty (stock -= qty). With fromReserved the
	// same qty is removed from the reserved counter too (layaway settlement).
	Debit(ctx context.Context, t Target, qty int, fromReserved bool) error

	// Reserve holds qty for an unpaid layaway order (reserved += qty),
	// guarded by available = stock - reserved >= qty.
	Reserve(ctx context.Context, t Target, qty int) error

	// Release drops a layaway hold (reserved -= qty), guarded by reserved >= qty.
	Release(ctx context.Context, t Target, qty int) error

	// Credit returns qty to stock (cancelled sale/order).
	Credit(ctx context.Context, t Target, qty int) error

	// ChildSums returns the sum of active color stock and of variant stock for
	// a product, and whether any child counters exist at all.
	ChildSums(ctx context.Context, productID string) (colorSum, variantSum int, hasChildren bool, err error)

	// SetItemStock writes the product's derived total counter.
	SetItemStock(ctx context.Context, productID string, total int) error

	// AddUnitsSold bumps the product's monotonic sold counter.
	AddUnitsSold(ctx context.Context, productID string, qty int) error
}

// Ledger is the only code path allowed to mutate stock counters. Callers
// (checkout, settlement, cancellation) never write stock fields directly.
type Ledger struct {
	store CounterStore
}

func NewLedger(store CounterStore) *Ledger {
	return &Ledger{store: store}
}

func (l *Ledger) Debit(ctx context.Context, t Target, qty int, fromReserved bool) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	return l.store.Debit(ctx, t, qty, fromReserved)
}

func (l *Ledger) Reserve(ctx context.Context, t Target, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	return l.store.Reserve(ctx, t, qty)
}

func (l *Ledger) Release(ctx context.Context, t Target, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	return l.store.Release(ctx, t, qty)
}

func (l *Ledger) Credit(ctx context.Context, t Target, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	return l.store.Credit(ctx, t, qty)
}

func (l *Ledger) AddUnitsSold(ctx context.Context, productID string, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	return l.store.AddUnitsSold(ctx, productID, qty)
}

// RecomputeItemTotal sets the product's derived counter to the sum of its
// child counters. No-op for products without colors or variants: their own
// counter stays authoritative. Called explicitly at the end of any transaction
// that touched a child counter, never from the child's persistence path.
func (l *Ledger) RecomputeItemTotal(ctx context.Context, productID string) error {
	colorSum, variantSum, hasChildren, err := l.store.ChildSums(ctx, productID)
	if err != nil {
		return err
	}
	if !hasChildren {
		return nil
	}
	total := colorSum + variantSum
	if err := l.store.SetItemStock(ctx, productID, total); err != nil {
		return err
	}
	log.Printf("[stock] recomputed total productId=%s colors=%d variants=%d total=%d",
		productID, colorSum, variantSum, total)
	return nil
}
