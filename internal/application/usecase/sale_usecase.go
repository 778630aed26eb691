// internal/application/usecase/sale_usecase.go
package usecase

import (
	"context"
	"strings"

	saledom "localix/internal/domain/sale"
)

// SaleUsecase is the read surface over recorded sales. Writes only happen
// through CheckoutUsecase.
type SaleUsecase struct {
	sales saledom.RepositoryPort
}

func NewSaleUsecase(sales saledom.RepositoryPort) *SaleUsecase {
	return &SaleUsecase{sales: sales}
}

func (u *SaleUsecase) Get(ctx context.Context, id string) (*saledom.Sale, error) {
	return u.sales.GetByID(ctx, strings.TrimSpace(id))
}

func (u *SaleUsecase) List(ctx context.Context, filter saledom.Filter, sort saledom.Sort, page saledom.Page) (saledom.PageResult, error) {
	return u.sales.List(ctx, filter, sort, page)
}
