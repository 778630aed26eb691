// internal/adapters/out/db/catalog_repository_pg.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"

	dbcommon "localix/internal/adapters/out/db/common"
	catalogdom "localix/internal/domain/catalog"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type CatalogRepositoryPG struct {
	DB *sql.DB
}

func NewCatalogRepositoryPG(db *sql.DB) *CatalogRepositoryPG {
	return &CatalogRepositoryPG{DB: db}
}

const productColumns = `id, owner_id, sku, name, price, cost, tracks_stock, stock, min_stock, units_sold, created_at, updated_at`

// ========================
// RepositoryPort impl
// ========================

func (r *CatalogRepositoryPG) GetByID(ctx context.Context, id string) (*catalogdom.Product, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	row := run.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, strings.TrimSpace(id))
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalogdom.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *CatalogRepositoryPG) GetView(ctx context.Context, id string) (*catalogdom.ProductView, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	run := dbcommon.GetRunner(ctx, r.DB)

	colors, err := r.colorsOf(ctx, run, p.ID)
	if err != nil {
		return nil, err
	}
	variants, err := r.variantsOf(ctx, run, p.ID)
	if err != nil {
		return nil, err
	}
	return &catalogdom.ProductView{Product: *p, Colors: colors, Variants: variants}, nil
}

func (r *CatalogRepositoryPG) List(ctx context.Context, filter catalogdom.Filter, sort catalogdom.Sort, page catalogdom.Page) (catalogdom.PageResult, error) {
	run := dbcommon.GetRunner(ctx, r.DB)

	pred := productPredicates(filter)
	pageNum, perPage, offset := dbcommon.NormalizePage(page.Number, page.PerPage, 50, 200)

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("products").Where(pred).ToSql()
	if err != nil {
		return catalogdom.PageResult{}, err
	}
	var total int
	if err := run.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return catalogdom.PageResult{}, err
	}

	q := psql.Select(strings.Split(productColumns, ", ")...).
		From("products").
		Where(pred).
		OrderBy(productOrderBy(sort)).
		Limit(uint64(perPage)).
		Offset(uint64(offset))
	listSQL, listArgs, err := q.ToSql()
	if err != nil {
		return catalogdom.PageResult{}, err
	}

	rows, err := run.QueryContext(ctx, listSQL, listArgs...)
	if err != nil {
		return catalogdom.PageResult{}, err
	}
	defer rows.Close()

	items := make([]catalogdom.Product, 0, perPage)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return catalogdom.PageResult{}, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return catalogdom.PageResult{}, err
	}

	return catalogdom.PageResult{
		Items:      items,
		TotalCount: total,
		TotalPages: dbcommon.ComputeTotalPages(total, perPage),
		Page:       pageNum,
		PerPage:    perPage,
	}, nil
}

func (r *CatalogRepositoryPG) Create(ctx context.Context, p catalogdom.Product) (*catalogdom.Product, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	const q = `
INSERT INTO products (id, owner_id, sku, name, price, cost, tracks_stock, stock, min_stock, units_sold, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := run.ExecContext(ctx, q,
		p.ID, p.OwnerID, p.SKU, p.Name, p.Price, p.Cost,
		p.TracksStock, p.Stock, p.MinStock, p.UnitsSold, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if dbcommon.IsUniqueViolation(err) {
			return nil, catalogdom.ErrConflict
		}
		return nil, err
	}
	return &p, nil
}

func (r *CatalogRepositoryPG) CreateColor(ctx context.Context, c catalogdom.ColorVariant) (*catalogdom.ColorVariant, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	const q = `
INSERT INTO product_colors (id, product_id, name, hex_code, stock, reserved, position, active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := run.ExecContext(ctx, q,
		c.ID, c.ProductID, c.Name, c.HexCode, c.Stock, c.Reserved, c.Position, c.Active, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if dbcommon.IsUniqueViolation(err) {
			return nil, catalogdom.ErrConflict
		}
		return nil, err
	}
	return &c, nil
}

func (r *CatalogRepositoryPG) CreateVariant(ctx context.Context, v catalogdom.AttributeVariant) (*catalogdom.AttributeVariant, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	const q = `
INSERT INTO product_variants (id, product_id, name, value, sku, price_extra, stock, reserved, position)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := run.ExecContext(ctx, q,
		v.ID, v.ProductID, v.Name, v.Value, v.SKU, v.PriceExtra, v.Stock, v.Reserved, v.Position,
	)
	if err != nil {
		if dbcommon.IsUniqueViolation(err) {
			return nil, catalogdom.ErrConflict
		}
		return nil, err
	}
	return &v, nil
}

func (r *CatalogRepositoryPG) Reset(ctx context.Context) error {
	run := dbcommon.GetRunner(ctx, r.DB)
	for _, q := range []string{
		`DELETE FROM product_colors`,
		`DELETE FROM product_variants`,
		`DELETE FROM products`,
	} {
		if _, err := run.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// ========================
// Internals
// ========================

func (r *CatalogRepositoryPG) colorsOf(ctx context.Context, run dbcommon.Runner, productID string) ([]catalogdom.ColorVariant, error) {
	const q = `
SELECT id, product_id, name, hex_code, stock, reserved, position, active, created_at, updated_at
FROM product_colors WHERE product_id = $1 ORDER BY position, id`
	rows, err := run.QueryContext(ctx, q, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalogdom.ColorVariant
	for rows.Next() {
		var c catalogdom.ColorVariant
		if err := rows.Scan(&c.ID, &c.ProductID, &c.Name, &c.HexCode, &c.Stock, &c.Reserved, &c.Position, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CatalogRepositoryPG) variantsOf(ctx context.Context, run dbcommon.Runner, productID string) ([]catalogdom.AttributeVariant, error) {
	const q = `
SELECT id, product_id, name, value, sku, price_extra, stock, reserved, position
FROM product_variants WHERE product_id = $1 ORDER BY position, id`
	rows, err := run.QueryContext(ctx, q, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalogdom.AttributeVariant
	for rows.Next() {
		var v catalogdom.AttributeVariant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Name, &v.Value, &v.SKU, &v.PriceExtra, &v.Stock, &v.Reserved, &v.Position); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func productPredicates(f catalogdom.Filter) sq.And {
	pred := sq.And{sq.Eq{"owner_id": f.OwnerID}}
	if s := strings.TrimSpace(f.SKU); s != "" {
		pred = append(pred, sq.Eq{"sku": s})
	}
	if s := strings.TrimSpace(f.Name); s != "" {
		pred = append(pred, sq.ILike{"name": "%" + s + "%"})
	}
	if f.TracksStock != nil {
		pred = append(pred, sq.Eq{"tracks_stock": *f.TracksStock})
	}
	if f.LowStock != nil && *f.LowStock {
		pred = append(pred, sq.Expr("tracks_stock AND stock <= min_stock"))
	}
	if f.CreatedFrom != nil {
		pred = append(pred, sq.GtOrEq{"created_at": f.CreatedFrom.UTC()})
	}
	if f.CreatedTo != nil {
		pred = append(pred, sq.LtOrEq{"created_at": f.CreatedTo.UTC()})
	}
	return pred
}

func productOrderBy(s catalogdom.Sort) string {
	col := "created_at"
	switch s.Column {
	case catalogdom.SortByName:
		col = "name"
	case catalogdom.SortByPrice:
		col = "price"
	case catalogdom.SortByStock:
		col = "stock"
	}
	dir := "DESC"
	if s.Order == catalogdom.SortAsc {
		dir = "ASC"
	}
	return col + " " + dir + ", id " + dir
}

func scanProduct(row dbcommon.RowScanner) (catalogdom.Product, error) {
	var p catalogdom.Product
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.SKU, &p.Name, &p.Price, &p.Cost,
		&p.TracksStock, &p.Stock, &p.MinStock, &p.UnitsSold, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}
