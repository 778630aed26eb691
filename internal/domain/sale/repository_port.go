// internal/domain/sale/repository_port.go
package sale

import (
	"context"
	"time"
)

// Filter - sale search conditions, always scoped by OwnerID.
type Filter struct {
	OwnerID    string
	Number     string
	CustomerID string
	Statuses   []Status

	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

type SortColumn string

const (
	SortByCreatedAt SortColumn = "createdAt"
	SortByNumber    SortColumn = "number"
	SortByTotal     SortColumn = "total"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

type Sort struct {
	Column SortColumn
	Order  SortOrder
}

type Page struct {
	Number  int
	PerPage int
}

type PageResult struct {
	Items      []Sale
	TotalCount int
	TotalPages int
	Page       int
	PerPage    int
}

// RepositoryPort persists sales and their lines. Create stores the sale and
// all lines in the ambient transaction (see WithTx); line inserts never touch
// stock counters - that is the ledger's job.
type RepositoryPort interface {
	GetByID(ctx context.Context, id string) (*Sale, error)
	List(ctx context.Context, filter Filter, sort Sort, page Page) (PageResult, error)

	// NextNumber reserves the next value of the monotonic sale sequence.
	NextNumber(ctx context.Context) (int64, error)

	Create(ctx context.Context, s Sale) (*Sale, error)
	UpdateStatus(ctx context.Context, id string, status Status) error

	// WithTx runs fn inside one database transaction; repositories sharing the
	// connection observe it through the context.
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	// Dev/test helper.
	Reset(ctx context.Context) error
}
