// internal/adapters/out/db/stock_repository_pg.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	dbcommon "localix/internal/adapters/out/db/common"
	stockdom "localix/internal/domain/stock"
)

// StockRepositoryPG implements stock.CounterStore. Every counter change is a
// single conditional UPDATE: the guard lives in the WHERE clause, so two
// concurrent writers serialize on the row lock and the loser matches zero
// rows instead of driving a counter negative.
type StockRepositoryPG struct {
	DB *sql.DB
}

func NewStockRepositoryPG(db *sql.DB) *StockRepositoryPG {
	return &StockRepositoryPG{DB: db}
}

// counterTable maps a target kind onto its table.
func counterTable(t stockdom.Target) (string, error) {
	switch t.Kind {
	case stockdom.KindColor:
		return "product_colors", nil
	case stockdom.KindVariant:
		return "product_variants", nil
	case stockdom.KindItem:
		return "products", nil
	}
	return "", fmt.Errorf("stock: unknown target kind %q", t.Kind)
}

// ========================
// CounterStore impl
// ========================

func (r *StockRepositoryPG) Debit(ctx context.Context, t stockdom.Target, qty int, fromReserved bool) error {
	tbl, err := counterTable(t)
	if err != nil {
		return err
	}
	run := dbcommon.GetRunner(ctx, r.DB)

	var q string
	if fromReserved {
		// Settling a layaway hold: the units leave stock and the hold at once.
		q = fmt.Sprintf(`UPDATE %s SET stock = stock - $1, reserved = reserved - $1 WHERE id = $2 AND reserved >= $1 AND stock >= $1`, tbl)
	} else {
		// Held units are not sellable; the guard is on the free quantity.
		q = fmt.Sprintf(`UPDATE %s SET stock = stock - $1 WHERE id = $2 AND stock - reserved >= $1`, tbl)
	}
	return r.guarded(ctx, run, q, t, qty)
}

func (r *StockRepositoryPG) Reserve(ctx context.Context, t stockdom.Target, qty int) error {
	tbl, err := counterTable(t)
	if err != nil {
		return err
	}
	run := dbcommon.GetRunner(ctx, r.DB)
	q := fmt.Sprintf(`UPDATE %s SET reserved = reserved + $1 WHERE id = $2 AND stock - reserved >= $1`, tbl)
	return r.guarded(ctx, run, q, t, qty)
}

func (r *StockRepositoryPG) Release(ctx context.Context, t stockdom.Target, qty int) error {
	tbl, err := counterTable(t)
	if err != nil {
		return err
	}
	run := dbcommon.GetRunner(ctx, r.DB)
	q := fmt.Sprintf(`UPDATE %s SET reserved = reserved - $1 WHERE id = $2 AND reserved >= $1`, tbl)
	return r.guarded(ctx, run, q, t, qty)
}

func (r *StockRepositoryPG) Credit(ctx context.Context, t stockdom.Target, qty int) error {
	tbl, err := counterTable(t)
	if err != nil {
		return err
	}
	run := dbcommon.GetRunner(ctx, r.DB)
	q := fmt.Sprintf(`UPDATE %s SET stock = stock + $1 WHERE id = $2`, tbl)
	res, err := run.ExecContext(ctx, q, qty, t.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", stockdom.ErrTargetNotFound, t)
	}
	return nil
}

func (r *StockRepositoryPG) ChildSums(ctx context.Context, productID string) (colorSum, variantSum int, hasChildren bool, err error) {
	run := dbcommon.GetRunner(ctx, r.DB)

	var activeColors int
	const qc = `SELECT COALESCE(SUM(stock), 0), COUNT(*) FROM product_colors WHERE product_id = $1 AND active`
	if err = run.QueryRowContext(ctx, qc, productID).Scan(&colorSum, &activeColors); err != nil {
		return 0, 0, false, err
	}

	var variants int
	const qv = `SELECT COALESCE(SUM(stock), 0), COUNT(*) FROM product_variants WHERE product_id = $1`
	if err = run.QueryRowContext(ctx, qv, productID).Scan(&variantSum, &variants); err != nil {
		return 0, 0, false, err
	}

	return colorSum, variantSum, activeColors > 0 || variants > 0, nil
}

func (r *StockRepositoryPG) SetItemStock(ctx context.Context, productID string, total int) error {
	run := dbcommon.GetRunner(ctx, r.DB)
	const q = `UPDATE products SET stock = $1, updated_at = now() WHERE id = $2`
	res, err := run.ExecContext(ctx, q, total, productID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: item:%s", stockdom.ErrTargetNotFound, productID)
	}
	return nil
}

func (r *StockRepositoryPG) AddUnitsSold(ctx context.Context, productID string, qty int) error {
	run := dbcommon.GetRunner(ctx, r.DB)
	const q = `UPDATE products SET units_sold = units_sold + $1, updated_at = now() WHERE id = $2`
	_, err := run.ExecContext(ctx, q, qty, productID)
	return err
}

// ========================
// Internals
// ========================

// guarded runs a conditional counter UPDATE and turns a zero-row result into
// the precise failure: missing target or insufficient quantity.
func (r *StockRepositoryPG) guarded(ctx context.Context, run dbcommon.Runner, query string, t stockdom.Target, qty int) error {
	res, err := run.ExecContext(ctx, query, qty, t.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	avail, err := r.available(ctx, run, t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", stockdom.ErrTargetNotFound, t)
		}
		return err
	}
	return stockdom.Insufficient(t, qty, avail)
}

func (r *StockRepositoryPG) available(ctx context.Context, run dbcommon.Runner, t stockdom.Target) (int, error) {
	tbl, err := counterTable(t)
	if err != nil {
		return 0, err
	}
	var stockQty, reserved int
	q := fmt.Sprintf(`SELECT stock, reserved FROM %s WHERE id = $1`, tbl)
	if err := run.QueryRowContext(ctx, q, t.ID).Scan(&stockQty, &reserved); err != nil {
		return 0, err
	}
	return stockQty - reserved, nil
}
