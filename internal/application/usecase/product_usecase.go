// internal/application/usecase/product_usecase.go
package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	catalogdom "localix/internal/domain/catalog"
	stockdom "localix/internal/domain/stock"
)

// StockReport is the per-counter breakdown of a product's availability.
type StockReport struct {
	ProductID      string
	TracksStock    bool
	EffectiveStock int
	LowStock       bool
	Colors         []catalogdom.ColorVariant
	Variants       []catalogdom.AttributeVariant
}

// ProductUsecase exposes catalog reads and the derived-counter recompute.
type ProductUsecase struct {
	catalog catalogdom.RepositoryPort
	ledger  *stockdom.Ledger

	now   func() time.Time
	newID func() string
}

func NewProductUsecase(catalog catalogdom.RepositoryPort, ledger *stockdom.Ledger) *ProductUsecase {
	return &ProductUsecase{
		catalog: catalog,
		ledger:  ledger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

func (u *ProductUsecase) Get(ctx context.Context, id string) (*catalogdom.Product, error) {
	return u.catalog.GetByID(ctx, strings.TrimSpace(id))
}

func (u *ProductUsecase) GetView(ctx context.Context, id string) (*catalogdom.ProductView, error) {
	return u.catalog.GetView(ctx, strings.TrimSpace(id))
}

func (u *ProductUsecase) List(ctx context.Context, filter catalogdom.Filter, sort catalogdom.Sort, page catalogdom.Page) (catalogdom.PageResult, error) {
	return u.catalog.List(ctx, filter, sort, page)
}

// Stock reports the product's effective availability per counter.
func (u *ProductUsecase) Stock(ctx context.Context, id string) (StockReport, error) {
	view, err := u.catalog.GetView(ctx, strings.TrimSpace(id))
	if err != nil {
		return StockReport{}, err
	}
	return StockReport{
		ProductID:      view.Product.ID,
		TracksStock:    view.Product.TracksStock,
		EffectiveStock: catalogdom.EffectiveStock(view.Product, view.Colors, view.Variants),
		LowStock:       view.Product.LowStock(),
		Colors:         view.Colors,
		Variants:       view.Variants,
	}, nil
}

// RecomputeTotal resets the product's derived counter from its children.
func (u *ProductUsecase) RecomputeTotal(ctx context.Context, id string) error {
	return u.ledger.RecomputeItemTotal(ctx, strings.TrimSpace(id))
}

// Create registers a product. Checkout only reads the catalog; this exists
// for seeding and back-office management.
func (u *ProductUsecase) Create(ctx context.Context, ownerID, sku, name string, price, cost int64, tracksStock bool, stockQty, minStock int) (*catalogdom.Product, error) {
	p, err := catalogdom.NewProduct(u.newID(), ownerID, sku, name, price, cost, tracksStock, stockQty, minStock, u.now())
	if err != nil {
		return nil, err
	}
	return u.catalog.Create(ctx, p)
}
