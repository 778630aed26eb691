// internal/domain/installment/repository_port.go
package installment

import "context"

// RepositoryPort persists installments. The log is append-only: Save only
// changes status/receipt fields, never removes rows.
type RepositoryPort interface {
	GetByID(ctx context.Context, id string) (*Installment, error)
	ListByOrder(ctx context.Context, orderID string) ([]Installment, error)

	Create(ctx context.Context, p Installment) (*Installment, error)
	Save(ctx context.Context, p Installment) error

	// SumConfirmed returns the sum of confirmed installment amounts for the
	// order, read from the store (the reconciliation source of truth).
	SumConfirmed(ctx context.Context, orderID string) (int64, error)

	// Dev/test helper.
	Reset(ctx context.Context) error
}
