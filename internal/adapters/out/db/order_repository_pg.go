// internal/adapters/out/db/order_repository_pg.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"

	dbcommon "localix/internal/adapters/out/db/common"
	orderdom "localix/internal/domain/order"
)

type OrderRepositoryPG struct {
	DB *sql.DB
}

func NewOrderRepositoryPG(db *sql.DB) *OrderRepositoryPG {
	return &OrderRepositoryPG{DB: db}
}

const orderColumns = `id, number, owner_id, customer_id, sale_id, delivery_address, contact_phone, delivery_instructions, channel, payment_status, status, amount_paid, amount_pending, notes, tracking_code, carrier, created_at, confirmed_at, shipped_at, delivered_at`

// ========================
// RepositoryPort impl
// ========================

func (r *OrderRepositoryPG) GetByID(ctx context.Context, id string) (*orderdom.Order, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	row := run.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, strings.TrimSpace(id))
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, orderdom.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepositoryPG) List(ctx context.Context, filter orderdom.Filter, sort orderdom.Sort, page orderdom.Page) (orderdom.PageResult, error) {
	run := dbcommon.GetRunner(ctx, r.DB)

	pred := orderPredicates(filter)
	pageNum, perPage, offset := dbcommon.NormalizePage(page.Number, page.PerPage, 50, 200)

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("orders").Where(pred).ToSql()
	if err != nil {
		return orderdom.PageResult{}, err
	}
	var total int
	if err := run.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return orderdom.PageResult{}, err
	}

	listSQL, listArgs, err := psql.Select(strings.Split(orderColumns, ", ")...).
		From("orders").
		Where(pred).
		OrderBy(orderOrderBy(sort)).
		Limit(uint64(perPage)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return orderdom.PageResult{}, err
	}

	rows, err := run.QueryContext(ctx, listSQL, listArgs...)
	if err != nil {
		return orderdom.PageResult{}, err
	}
	defer rows.Close()

	items := make([]orderdom.Order, 0, perPage)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return orderdom.PageResult{}, err
		}
		items = append(items, o)
	}
	if err := rows.Err(); err != nil {
		return orderdom.PageResult{}, err
	}

	return orderdom.PageResult{
		Items:      items,
		TotalCount: total,
		TotalPages: dbcommon.ComputeTotalPages(total, perPage),
		Page:       pageNum,
		PerPage:    perPage,
	}, nil
}

func (r *OrderRepositoryPG) Summarize(ctx context.Context, ownerID string) (orderdom.Summary, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	const q = `SELECT status, COUNT(*) FROM orders WHERE owner_id = $1 GROUP BY status`
	rows, err := run.QueryContext(ctx, q, strings.TrimSpace(ownerID))
	if err != nil {
		return orderdom.Summary{}, err
	}
	defer rows.Close()

	var sum orderdom.Summary
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return orderdom.Summary{}, err
		}
		sum.Total += n
		switch orderdom.Status(status) {
		case orderdom.StatusPending:
			sum.Pending += n
		case orderdom.StatusConfirmed, orderdom.StatusPreparing:
			sum.InProcess += n
		case orderdom.StatusShipped:
			sum.Shipped += n
		case orderdom.StatusDelivered:
			sum.Delivered += n
		case orderdom.StatusCancelled:
			sum.Cancelled += n
		case orderdom.StatusLayaway:
			sum.Layaway += n
		}
	}
	return sum, rows.Err()
}

func (r *OrderRepositoryPG) NextNumber(ctx context.Context) (int64, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	var seq int64
	if err := run.QueryRowContext(ctx, `SELECT nextval('order_number_seq')`).Scan(&seq); err != nil {
		return 0, err
	}
	return seq, nil
}

func (r *OrderRepositoryPG) Create(ctx context.Context, o orderdom.Order) (*orderdom.Order, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	const q = `
INSERT INTO orders (id, number, owner_id, customer_id, sale_id, delivery_address, contact_phone, delivery_instructions,
                    channel, payment_status, status, amount_paid, amount_pending, notes, tracking_code, carrier,
                    created_at, confirmed_at, shipped_at, delivered_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := run.ExecContext(ctx, q,
		o.ID, o.Number, o.OwnerID,
		dbcommon.ToDBText(o.CustomerID), dbcommon.ToDBText(o.SaleID),
		o.DeliveryAddress, o.ContactPhone, o.DeliveryInstructions,
		string(o.Channel), string(o.PaymentStatus), string(o.Status),
		o.AmountPaid, o.AmountPending, o.Notes, o.TrackingCode, o.Carrier,
		o.CreatedAt, dbcommon.ToDBTime(o.ConfirmedAt), dbcommon.ToDBTime(o.ShippedAt), dbcommon.ToDBTime(o.DeliveredAt),
	)
	if err != nil {
		if dbcommon.IsUniqueViolation(err) {
			return nil, orderdom.ErrConflict
		}
		return nil, err
	}
	return &o, nil
}

// Save writes the mutable fields only. Identity, ownership, and the creation
// timestamp never change after Create.
func (r *OrderRepositoryPG) Save(ctx context.Context, o orderdom.Order) error {
	run := dbcommon.GetRunner(ctx, r.DB)
	const q = `
UPDATE orders SET
  payment_status = $1, status = $2, amount_paid = $3, amount_pending = $4,
  notes = $5, tracking_code = $6, carrier = $7,
  confirmed_at = $8, shipped_at = $9, delivered_at = $10
WHERE id = $11`
	res, err := run.ExecContext(ctx, q,
		string(o.PaymentStatus), string(o.Status), o.AmountPaid, o.AmountPending,
		o.Notes, o.TrackingCode, o.Carrier,
		dbcommon.ToDBTime(o.ConfirmedAt), dbcommon.ToDBTime(o.ShippedAt), dbcommon.ToDBTime(o.DeliveredAt),
		o.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return orderdom.ErrNotFound
	}
	return nil
}

// AppendHistory deactivates the previously active entry and inserts the new
// active one. Callers run it inside WithTx so the flip and the insert land
// together.
func (r *OrderRepositoryPG) AppendHistory(ctx context.Context, h orderdom.StatusHistory) error {
	run := dbcommon.GetRunner(ctx, r.DB)

	if _, err := run.ExecContext(ctx,
		`UPDATE order_status_history SET active = FALSE WHERE order_id = $1 AND active`, h.OrderID); err != nil {
		return err
	}

	const q = `
INSERT INTO order_status_history (id, order_id, from_status, to_status, note, actor, active, changed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	fromStatus := sql.NullString{String: string(h.From), Valid: h.From != ""}
	_, err := run.ExecContext(ctx, q,
		h.ID, h.OrderID, fromStatus, string(h.To), h.Note, h.Actor, h.Active, h.ChangedAt)
	return err
}

func (r *OrderRepositoryPG) History(ctx context.Context, orderID string) ([]orderdom.StatusHistory, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	const q = `
SELECT id, order_id, from_status, to_status, note, actor, active, changed_at
FROM order_status_history WHERE order_id = $1 ORDER BY changed_at, id`
	rows, err := run.QueryContext(ctx, q, strings.TrimSpace(orderID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []orderdom.StatusHistory
	for rows.Next() {
		var h orderdom.StatusHistory
		var fromStatus sql.NullString
		if err := rows.Scan(&h.ID, &h.OrderID, &fromStatus, &h.To, &h.Note, &h.Actor, &h.Active, &h.ChangedAt); err != nil {
			return nil, err
		}
		if fromStatus.Valid {
			h.From = orderdom.Status(fromStatus.String)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *OrderRepositoryPG) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return dbcommon.WithTx(ctx, r.DB, fn)
}

func (r *OrderRepositoryPG) Reset(ctx context.Context) error {
	run := dbcommon.GetRunner(ctx, r.DB)
	for _, q := range []string{`DELETE FROM order_status_history`, `DELETE FROM orders`} {
		if _, err := run.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// ========================
// Internals
// ========================

func orderPredicates(f orderdom.Filter) sq.And {
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
	if len(f.PaymentStatus) > 0 {
		ps := make([]string, 0, len(f.PaymentStatus))
		for _, st := range f.PaymentStatus {
			ps = append(ps, string(st))
		}
		pred = append(pred, sq.Eq{"payment_status": ps})
	}
	if f.Channel != "" {
		pred = append(pred, sq.Eq{"channel": string(f.Channel)})
	}
	if f.CreatedFrom != nil {
		pred = append(pred, sq.GtOrEq{"created_at": f.CreatedFrom.UTC()})
	}
	if f.CreatedTo != nil {
		pred = append(pred, sq.LtOrEq{"created_at": f.CreatedTo.UTC()})
	}
	return pred
}

func orderOrderBy(s orderdom.Sort) string {
	col := "created_at"
	switch s.Column {
	case orderdom.SortByNumber:
		col = "number"
	case orderdom.SortByStatus:
		col = "status"
	}
	dir := "DESC"
	if s.Order == orderdom.SortAsc {
		dir = "ASC"
	}
	return col + " " + dir + ", id " + dir
}

func scanOrder(row dbcommon.RowScanner) (orderdom.Order, error) {
	var o orderdom.Order
	var customerID, saleID sql.NullString
	var confirmedAt, shippedAt, deliveredAt sql.NullTime
	err := row.Scan(
		&o.ID, &o.Number, &o.OwnerID, &customerID, &saleID,
		&o.DeliveryAddress, &o.ContactPhone, &o.DeliveryInstructions,
		&o.Channel, &o.PaymentStatus, &o.Status,
		&o.AmountPaid, &o.AmountPending, &o.Notes, &o.TrackingCode, &o.Carrier,
		&o.CreatedAt, &confirmedAt, &shippedAt, &deliveredAt,
	)
	if err != nil {
		return orderdom.Order{}, err
	}
	o.CustomerID = dbcommon.FromNullString(customerID)
	o.SaleID = dbcommon.FromNullString(saleID)
	o.ConfirmedAt = dbcommon.FromNullTime(confirmedAt)
	o.ShippedAt = dbcommon.FromNullTime(shippedAt)
	o.DeliveredAt = dbcommon.FromNullTime(deliveredAt)
	return o, nil
}
