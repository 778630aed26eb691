// internal/adapters/out/db/customer_repository_pg.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"

	dbcommon "localix/internal/adapters/out/db/common"
	customerdom "localix/internal/domain/customer"
)

type CustomerRepositoryPG struct {
	DB *sql.DB
}

func NewCustomerRepositoryPG(db *sql.DB) *CustomerRepositoryPG {
	return &CustomerRepositoryPG{DB: db}
}

const customerColumns = `id, owner_id, name, email, phone, document_type, document_number, address, active, created_at`

func (r *CustomerRepositoryPG) GetByID(ctx context.Context, id string) (*customerdom.Customer, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	row := run.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1`, strings.TrimSpace(id))
	c, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customerdom.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepositoryPG) List(ctx context.Context, filter customerdom.Filter, page customerdom.Page) (customerdom.PageResult, error) {
	run := dbcommon.GetRunner(ctx, r.DB)

	pred := sq.And{sq.Eq{"owner_id": filter.OwnerID}}
	if s := strings.TrimSpace(filter.Name); s != "" {
		pred = append(pred, sq.ILike{"name": "%" + s + "%"})
	}
	if s := strings.TrimSpace(filter.Email); s != "" {
		pred = append(pred, sq.Eq{"email": s})
	}
	if s := strings.TrimSpace(filter.DocumentNumber); s != "" {
		pred = append(pred, sq.Eq{"document_number": s})
	}
	if filter.Active != nil {
		pred = append(pred, sq.Eq{"active": *filter.Active})
	}

	pageNum, perPage, offset := dbcommon.NormalizePage(page.Number, page.PerPage, 50, 200)

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("customers").Where(pred).ToSql()
	if err != nil {
		return customerdom.PageResult{}, err
	}
	var total int
	if err := run.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return customerdom.PageResult{}, err
	}

	listSQL, listArgs, err := psql.Select(strings.Split(customerColumns, ", ")...).
		From("customers").
		Where(pred).
		OrderBy("name ASC, id ASC").
		Limit(uint64(perPage)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return customerdom.PageResult{}, err
	}

	rows, err := run.QueryContext(ctx, listSQL, listArgs...)
	if err != nil {
		return customerdom.PageResult{}, err
	}
	defer rows.Close()

	items := make([]customerdom.Customer, 0, perPage)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return customerdom.PageResult{}, err
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return customerdom.PageResult{}, err
	}

	return customerdom.PageResult{
		Items:      items,
		TotalCount: total,
		TotalPages: dbcommon.ComputeTotalPages(total, perPage),
		Page:       pageNum,
		PerPage:    perPage,
	}, nil
}

func (r *CustomerRepositoryPG) Create(ctx context.Context, c customerdom.Customer) (*customerdom.Customer, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	const q = `
INSERT INTO customers (id, owner_id, name, email, phone, document_type, document_number, address, active, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := run.ExecContext(ctx, q,
		c.ID, c.OwnerID, c.Name, c.Email, c.Phone,
		string(c.DocumentType), c.DocumentNumber, c.Address, c.Active, c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepositoryPG) Reset(ctx context.Context) error {
	run := dbcommon.GetRunner(ctx, r.DB)
	_, err := run.ExecContext(ctx, `DELETE FROM customers`)
	return err
}

func scanCustomer(row dbcommon.RowScanner) (customerdom.Customer, error) {
	var c customerdom.Customer
	err := row.Scan(
		&c.ID, &c.OwnerID, &c.Name, &c.Email, &c.Phone,
		&c.DocumentType, &c.DocumentNumber, &c.Address, &c.Active, &c.CreatedAt,
	)
	return c, err
}
