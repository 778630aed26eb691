// internal/domain/customer/repository_port.go
package customer

import "context"

type Filter struct {
	OwnerID        string
	Name           string
	Email          string
	DocumentNumber string
	Active         *bool
}

type Page struct {
	Number  int
	PerPage int
}

type PageResult struct {
	Items      []Customer
	TotalCount int
	TotalPages int
	Page       int
	PerPage    int
}

type RepositoryPort interface {
	GetByID(ctx context.Context, id string) (*Customer, error)
	List(ctx context.Context, filter Filter, page Page) (PageResult, error)
	Create(ctx context.Context, c Customer) (*Customer, error)

	// Dev/test helper.
	Reset(ctx context.Context) error
}
