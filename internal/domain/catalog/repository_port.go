// internal/domain/catalog/repository_port.go
package catalog

import (
	"context"
	"time"
)

// Filter - product search conditions. OwnerID is the pre-applied ownership
// scope and is always set by the caller.
type Filter struct {
	OwnerID     string
	SKU         string
	Name        string
	TracksStock *bool
	LowStock    *bool

	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

type SortColumn string

const (
	SortByCreatedAt SortColumn = "createdAt"
	SortByName      SortColumn = "name"
	SortByPrice     SortColumn = "price"
	SortByStock     SortColumn = "stock"
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
	Items      []Product
	TotalCount int
	TotalPages int
	Page       int
	PerPage    int
}

// ProductView bundles a product with its child counters, as line-item
// resolution needs all three at once.
type ProductView struct {
	Product  Product
	Colors   []ColorVariant
	Variants []AttributeVariant
}

// RepositoryPort is the catalog metadata contract. The fulfillment core
// treats products/colors/variants as read-only except for the stock counters,
// which only the stock ledger (its own port) may touch.
type RepositoryPort interface {
	GetByID(ctx context.Context, id string) (*Product, error)
	GetView(ctx context.Context, id string) (*ProductView, error)
	List(ctx context.Context, filter Filter, sort Sort, page Page) (PageResult, error)

	Create(ctx context.Context, p Product) (*Product, error)
	CreateColor(ctx context.Context, c ColorVariant) (*ColorVariant, error)
	CreateVariant(ctx context.Context, v AttributeVariant) (*AttributeVariant, error)

	// Dev/test helper.
	Reset(ctx context.Context) error
}
