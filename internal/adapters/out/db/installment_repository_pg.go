// internal/adapters/out/db/installment_repository_pg.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	dbcommon "localix/internal/adapters/out/db/common"
	installmentdom "localix/internal/domain/installment"
)

type InstallmentRepositoryPG struct {
	DB *sql.DB
}

func NewInstallmentRepositoryPG(db *sql.DB) *InstallmentRepositoryPG {
	return &InstallmentRepositoryPG{DB: db}
}

const installmentColumns = `id, order_id, amount, method, reference, notes, status, receipt_url, actor, created_at, confirmed_at`

// ========================
// RepositoryPort impl
// ========================

func (r *InstallmentRepositoryPG) GetByID(ctx context.Context, id string) (*installmentdom.Installment, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	row := run.QueryRowContext(ctx,
		`SELECT `+installmentColumns+` FROM installments WHERE id = $1`, strings.TrimSpace(id))
	p, err := scanInstallment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, installmentdom.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *InstallmentRepositoryPG) ListByOrder(ctx context.Context, orderID string) ([]installmentdom.Installment, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	const q = `SELECT ` + installmentColumns + ` FROM installments WHERE order_id = $1 ORDER BY created_at, id`
	rows, err := run.QueryContext(ctx, q, strings.TrimSpace(orderID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []installmentdom.Installment
	for rows.Next() {
		p, err := scanInstallment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *InstallmentRepositoryPG) Create(ctx context.Context, p installmentdom.Installment) (*installmentdom.Installment, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	const q = `
INSERT INTO installments (id, order_id, amount, method, reference, notes, status, receipt_url, actor, created_at, confirmed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := run.ExecContext(ctx, q,
		p.ID, p.OrderID, p.Amount, string(p.Method), p.Reference, p.Notes,
		string(p.Status), p.ReceiptURL, p.Actor, p.CreatedAt, dbcommon.ToDBTime(p.ConfirmedAt),
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Save touches the status fields and the receipt only; the log is append-only.
func (r *InstallmentRepositoryPG) Save(ctx context.Context, p installmentdom.Installment) error {
	run := dbcommon.GetRunner(ctx, r.DB)
	const q = `UPDATE installments SET status = $1, receipt_url = $2, confirmed_at = $3 WHERE id = $4`
	res, err := run.ExecContext(ctx, q,
		string(p.Status), p.ReceiptURL, dbcommon.ToDBTime(p.ConfirmedAt), p.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return installmentdom.ErrNotFound
	}
	return nil
}

func (r *InstallmentRepositoryPG) SumConfirmed(ctx context.Context, orderID string) (int64, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	const q = `SELECT COALESCE(SUM(amount), 0) FROM installments WHERE order_id = $1 AND status = 'confirmed'`
	var sum int64
	if err := run.QueryRowContext(ctx, q, strings.TrimSpace(orderID)).Scan(&sum); err != nil {
		return 0, err
	}
	return sum, nil
}

func (r *InstallmentRepositoryPG) Reset(ctx context.Context) error {
	run := dbcommon.GetRunner(ctx, r.DB)
	_, err := run.ExecContext(ctx, `DELETE FROM installments`)
	return err
}

// ========================
// Internals
// ========================

func scanInstallment(row dbcommon.RowScanner) (installmentdom.Installment, error) {
	var p installmentdom.Installment
	var confirmedAt sql.NullTime
	err := row.Scan(
		&p.ID, &p.OrderID, &p.Amount, &p.Method, &p.Reference, &p.Notes,
		&p.Status, &p.ReceiptURL, &p.Actor, &p.CreatedAt, &confirmedAt,
	)
	if err != nil {
		return installmentdom.Installment{}, err
	}
	p.ConfirmedAt = dbcommon.FromNullTime(confirmedAt)
	return p, nil
}
