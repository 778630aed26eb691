// internal/domain/order/repository_port.go
package order

import (
	"context"
	"time"
)

// Filter - order search conditions, always scoped by OwnerID.
type Filter struct {
	OwnerID       string
	Number        string
	CustomerID    string
	Statuses      []Status
	PaymentStatus []PaymentStatus
	Channel       Channel

	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

type SortColumn string

const (
	SortByCreatedAt SortColumn = "createdAt"
	SortByNumber    SortColumn = "number"
	SortByStatus    SortColumn = "status"
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
	Items      []Order
	TotalCount int
	TotalPages int
	Page       int
	PerPage    int
}

// Summary is the by-status order count, kept for the dashboard endpoint.
type Summary struct {
	Total     int
	Pending   int
	InProcess int // confirmed + preparing
	Shipped   int
	Delivered int
	Cancelled int
	Layaway   int
}

// RepositoryPort persists orders and their status-history log. The history is
// append-only: rows are inserted and flipped inactive, never deleted.
type RepositoryPort interface {
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, filter Filter, sort Sort, page Page) (PageResult, error)
	Summarize(ctx context.Context, ownerID string) (Summary, error)

	// NextNumber reserves the next value of the strictly-increasing order
	// sequence.
	NextNumber(ctx context.Context) (int64, error)

	Create(ctx context.Context, o Order) (*Order, error)

	// Save writes mutable order fields (status mirror, payment status,
	// amounts, milestone timestamps, tracking).
	Save(ctx context.Context, o Order) error

	// AppendHistory inserts h as the active entry and deactivates the
	// previously active entry of the same order in one atomic write.
	AppendHistory(ctx context.Context, h StatusHistory) error
	History(ctx context.Context, orderID string) ([]StatusHistory, error)

	// WithTx runs fn inside one database transaction shared via the context.
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	// Dev/test helper.
	Reset(ctx context.Context) error
}
