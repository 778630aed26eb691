// internal/adapters/out/db/sale_repository_pg.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"

	dbcommon "localix/internal/adapters/out/db/common"
	saledom "localix/internal/domain/sale"
)

type SaleRepositoryPG struct {
	DB *sql.DB
}

func NewSaleRepositoryPG(db *sql.DB) *SaleRepositoryPG {
	return &SaleRepositoryPG{DB: db}
}

const saleColumns = `id, number, owner_id, customer_id, customer_name, subtotal, discount_percent, discount, total, status, payment_method, seller, notes, created_at`

// ========================
// RepositoryPort impl
// ========================

func (r *SaleRepositoryPG) GetByID(ctx context.Context, id string) (*saledom.Sale, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	row := run.QueryRowContext(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE id = $1`, strings.TrimSpace(id))
	s, err := scanSale(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, saledom.ErrNotFound
		}
		return nil, err
	}
	lines, err := r.linesOf(ctx, run, s.ID)
	if err != nil {
		return nil, err
	}
	s.Lines = lines
	return &s, nil
}

func (r *SaleRepositoryPG) List(ctx context.Context, filter saledom.Filter, sort saledom.Sort, page saledom.Page) (saledom.PageResult, error) {
	run := dbcommon.GetRunner(ctx, r.DB)

	pred := salePredicates(filter)
	pageNum, perPage, offset := dbcommon.NormalizePage(page.Number, page.PerPage, 50, 200)

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("sales").Where(pred).ToSql()
	if err != nil {
		return saledom.PageResult{}, err
	}
	var total int
	if err := run.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return saledom.PageResult{}, err
	}

	listSQL, listArgs, err := psql.Select(strings.Split(saleColumns, ", ")...).
		From("sales").
		Where(pred).
		OrderBy(saleOrderBy(sort)).
		Limit(uint64(perPage)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return saledom.PageResult{}, err
	}

	rows, err := run.QueryContext(ctx, listSQL, listArgs...)
	if err != nil {
		return saledom.PageResult{}, err
	}
	defer rows.Close()

	items := make([]saledom.Sale, 0, perPage)
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return saledom.PageResult{}, err
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return saledom.PageResult{}, err
	}

	// Lists stay shallow; lines load on GetByID.
	return saledom.PageResult{
		Items:      items,
		TotalCount: total,
		TotalPages: dbcommon.ComputeTotalPages(total, perPage),
		Page:       pageNum,
		PerPage:    perPage,
	}, nil
}

func (r *SaleRepositoryPG) NextNumber(ctx context.Context) (int64, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	var seq int64
	if err := run.QueryRowContext(ctx, `SELECT nextval('sale_number_seq')`).Scan(&seq); err != nil {
		return 0, err
	}
	return seq, nil
}

func (r *SaleRepositoryPG) Create(ctx context.Context, s saledom.Sale) (*saledom.Sale, error) {
	run := dbcommon.GetRunner(ctx, r.DB)

	const q = `
INSERT INTO sales (id, number, owner_id, customer_id, customer_name, subtotal, discount_percent, discount, total, status, payment_method, seller, notes, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := run.ExecContext(ctx, q,
		s.ID, s.Number, s.OwnerID, dbcommon.ToDBText(s.CustomerID), s.CustomerName,
		s.Subtotal, s.DiscountPercent, s.Discount, s.Total,
		string(s.Status), string(s.PaymentMethod), s.Seller, s.Notes, s.CreatedAt,
	)
	if err != nil {
		if dbcommon.IsUniqueViolation(err) {
			return nil, saledom.ErrConflict
		}
		return nil, err
	}

	const ql = `
INSERT INTO sale_lines (id, sale_id, product_id, variant_id, color_id, quantity, unit_price, line_discount, subtotal)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, li := range s.Lines {
		_, err := run.ExecContext(ctx, ql,
			li.ID, li.SaleID, li.ProductID,
			dbcommon.ToDBText(li.VariantID), dbcommon.ToDBText(li.ColorID),
			li.Quantity, li.UnitPrice, li.LineDiscount, li.Subtotal,
		)
		if err != nil {
			return nil, err
		}
	}
	return &s, nil
}

func (r *SaleRepositoryPG) UpdateStatus(ctx context.Context, id string, status saledom.Status) error {
	run := dbcommon.GetRunner(ctx, r.DB)
	res, err := run.ExecContext(ctx, `UPDATE sales SET status = $1 WHERE id = $2`, string(status), strings.TrimSpace(id))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return saledom.ErrNotFound
	}
	return nil
}

func (r *SaleRepositoryPG) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return dbcommon.WithTx(ctx, r.DB, fn)
}

func (r *SaleRepositoryPG) Reset(ctx context.Context) error {
	run := dbcommon.GetRunner(ctx, r.DB)
	for _, q := range []string{`DELETE FROM sale_lines`, `DELETE FROM sales`} {
		if _, err := run.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// ========================
// Internals
// ========================

func (r *SaleRepositoryPG) linesOf(ctx context.Context, run dbcommon.Runner, saleID string) ([]saledom.LineItem, error) {
	const q = `
SELECT id, sale_id, product_id, variant_id, color_id, quantity, unit_price, line_discount, subtotal
FROM sale_lines WHERE sale_id = $1 ORDER BY id`
	rows, err := run.QueryContext(ctx, q, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []saledom.LineItem
	for rows.Next() {
		var li saledom.LineItem
		var variantID, colorID sql.NullString
		if err := rows.Scan(&li.ID, &li.SaleID, &li.ProductID, &variantID, &colorID,
			&li.Quantity, &li.UnitPrice, &li.LineDiscount, &li.Subtotal); err != nil {
			return nil, err
		}
		li.VariantID = dbcommon.FromNullString(variantID)
		li.ColorID = dbcommon.FromNullString(colorID)
		out = append(out, li)
	}
	return out, rows.Err()
}

func salePredicates(f saledom.Filter) sq.And {
	pred := sq.And{sq.Eq{"owner_id": f.OwnerID}}
	if s := strings.TrimSpace(f.Number); s != "" {
		pred = append(pred, sq.Eq{"number": s})
	}
	if s := strings.TrimSpace(f.CustomerID); s != "" {
		pred = append(pred, sq.Eq{"customer_id": s})
	}
	if len(f.Statuses) > 0 {
		ss := make([]string, 0, len(f.Statuses))
		for _, st := range f.Statuses {
			ss = append(ss, string(st))
		}
		pred = append(pred, sq.Eq{"status": ss})
	}
	if f.CreatedFrom != nil {
		pred = append(pred, sq.GtOrEq{"created_at": f.CreatedFrom.UTC()})
	}
	if f.CreatedTo != nil {
		pred = append(pred, sq.LtOrEq{"created_at": f.CreatedTo.UTC()})
	}
	return pred
}

func saleOrderBy(s saledom.Sort) string {
	col := "created_at"
	switch s.Column {
	case saledom.SortByNumber:
		col = "number"
	case saledom.SortByTotal:
		col = "total"
	}
	dir := "DESC"
	if s.Order == saledom.SortAsc {
		dir = "ASC"
	}
	return col + " " + dir + ", id " + dir
}

func scanSale(row dbcommon.RowScanner) (saledom.Sale, error) {
	var s saledom.Sale
	var customerID sql.NullString
	err := row.Scan(
		&s.ID, &s.Number, &s.OwnerID, &customerID, &s.CustomerName,
		&s.Subtotal, &s.DiscountPercent, &s.Discount, &s.Total,
		&s.Status, &s.PaymentMethod, &s.Seller, &s.Notes, &s.CreatedAt,
	)
	if err != nil {
		return saledom.Sale{}, err
	}
	s.CustomerID = dbcommon.FromNullString(customerID)
	return s, nil
}
