// internal/application/usecase/customer_usecase.go
package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	customerdom "localix/internal/domain/customer"
)

// CustomerUsecase is the directory surface: lookups plus the point-of-sale
// quick-create path.
type CustomerUsecase struct {
	customers customerdom.RepositoryPort

	now   func() time.Time
	newID func() string
}

func NewCustomerUsecase(customers customerdom.RepositoryPort) *CustomerUsecase {
	return &CustomerUsecase{
		customers: customers,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (u *CustomerUsecase) Get(ctx context.Context, id string) (*customerdom.Customer, error) {
	return u.customers.GetByID(ctx, strings.TrimSpace(id))
}

func (u *CustomerUsecase) List(ctx context.Context, filter customerdom.Filter, page customerdom.Page) (customerdom.PageResult, error) {
	return u.customers.List(ctx, filter, page)
}

// QuickCreate registers a minimal record during checkout. Document type
// defaults to DNI when omitted.
func (u *CustomerUsecase) QuickCreate(ctx context.Context, ownerID string, in QuickCustomerInput) (*customerdom.Customer, error) {
	c, err := customerdom.New(
		u.newID(), ownerID, in.Name, in.Email, in.Phone,
		in.DocumentType, in.DocumentNumber, in.Address, u.now(),
	)
	if err != nil {
		return nil, err
	}
	return u.customers.Create(ctx, c)
}
