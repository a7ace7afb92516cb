package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"spareparts-be/internal/db"
	"spareparts-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, o *Order) (int64, error)
	GetByID(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context, filter Filter) ([]*Order, error)
	UpdatePaymentStatus(ctx context.Context, id int64, status string) error
	Approve(ctx context.Context, id, approverID int64) error
	UpdateStatus(ctx context.Context, id int64, status string) (string, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderSelect = `
	SELECT
		o.id, o.order_number, o.customer_id, u.full_name, u.email, COALESCE(u.phone, ''),
		o.order_date, o.total_amount, o.status, COALESCE(o.payment_method, ''), o.payment_status,
		o.shipping_address, COALESCE(o.notes, ''), o.approved_by, o.approved_at, o.delivered_at,
		o.created_at, o.updated_at
	FROM orders o
	JOIN users u ON u.id = o.customer_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.CustomerID, &o.CustomerName, &o.CustomerEmail, &o.CustomerPhone,
		&o.OrderDate, &o.TotalAmount, &o.Status, &o.PaymentMethod, &o.PaymentStatus,
		&o.ShippingAddress, &o.Notes, &o.ApprovedBy, &o.ApprovedAt, &o.DeliveredAt,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Items = []*OrderItem{}
	return &o, nil
}

func (r *repository) Create(ctx context.Context, o *Order) (int64, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
		zap.String("order_number", o.OrderNumber),
	)
	conn := db.Conn(ctx, r.db)

	var id int64
	err := conn.QueryRowContext(ctx, `
		INSERT INTO orders (
			order_number, customer_id, order_date, total_amount, status,
			payment_method, payment_status, shipping_address, notes
		) VALUES ($1, $2, NOW(), $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		o.OrderNumber, o.CustomerID, o.TotalAmount, o.Status,
		o.PaymentMethod, o.PaymentStatus, o.ShippingAddress, o.Notes,
	).Scan(&id)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return 0, err
	}

	for _, item := range o.Items {
		_, err = conn.ExecContext(ctx, `
			INSERT INTO order_items (
				order_id, spare_part_id, quantity, unit_price, subtotal, warranty_months
			) VALUES ($1, $2, $3, $4, $5, $6)`,
			id, item.SparePartID, item.Quantity, item.UnitPrice, item.Subtotal, item.WarrantyMonths,
		)
		if err != nil {
			log.Error("failed to insert order item",
				zap.Int64("spare_part_id", item.SparePartID),
				zap.Error(err),
			)
			return 0, err
		}
	}

	return id, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Order, error) {
	o, err := scanOrder(db.Conn(ctx, r.db).QueryRowContext(ctx, orderSelect+` WHERE o.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, []*Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) List(ctx context.Context, filter Filter) ([]*Order, error) {
	query := orderSelect + ` WHERE 1=1`
	args := []any{}
	argIndex := 1

	if filter.CustomerID != nil {
		query += fmt.Sprintf(" AND o.customer_id = $%d", argIndex)
		args = append(args, *filter.CustomerID)
		argIndex++
	}

	if filter.Status != nil && *filter.Status != "" {
		query += fmt.Sprintf(" AND o.status = $%d", argIndex)
		args = append(args, *filter.Status)
		argIndex++
	}

	query += " ORDER BY o.order_date DESC"

	rows, err := db.Conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to query orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	orders := []*Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// loadItems fills Items for every order with a single query.
func (r *repository) loadItems(ctx context.Context, orders []*Order) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[int64]*Order, len(orders))
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}

	rows, err := db.Conn(ctx, r.db).QueryContext(ctx, `
		SELECT
			oi.id, oi.order_id, oi.spare_part_id, sp.part_number, sp.part_name,
			COALESCE(sp.image_url, ''), oi.quantity, oi.unit_price, oi.subtotal, oi.warranty_months
		FROM order_items oi
		JOIN spare_parts sp ON sp.id = oi.spare_part_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.id`,
		pq.Array(ids),
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(
			&it.ID, &it.OrderID, &it.SparePartID, &it.PartNumber, &it.PartName,
			&it.ImageURL, &it.Quantity, &it.UnitPrice, &it.Subtotal, &it.WarrantyMonths,
		); err != nil {
			return err
		}
		if o, ok := byID[it.OrderID]; ok {
			o.Items = append(o.Items, &it)
		}
	}
	return rows.Err()
}

func (r *repository) UpdatePaymentStatus(ctx context.Context, id int64, status string) error {
	return r.execOne(ctx, `
		UPDATE orders SET payment_status = $1, updated_at = NOW()
		WHERE id = $2`,
		status, id,
	)
}

func (r *repository) Approve(ctx context.Context, id, approverID int64) error {
	return r.execOne(ctx, `
		UPDATE orders
		SET status = 'APPROVED', approved_by = $1, approved_at = NOW(), updated_at = NOW()
		WHERE id = $2`,
		approverID, id,
	)
}

// UpdateStatus sets status and returns the previous one. The row is locked
// for the statement, so two concurrent DELIVERED transitions cannot both see
// a non-delivered predecessor. delivered_at is stamped on first delivery only.
func (r *repository) UpdateStatus(ctx context.Context, id int64, status string) (string, error) {
	var previous string
	err := db.Conn(ctx, r.db).QueryRowContext(ctx, `
		WITH prev AS (
			SELECT id, status FROM orders WHERE id = $2 FOR UPDATE
		)
		UPDATE orders o
		SET status = $1,
			delivered_at = CASE
				WHEN $1 = 'DELIVERED' AND prev.status <> 'DELIVERED' THEN NOW()
				ELSE o.delivered_at
			END,
			updated_at = NOW()
		FROM prev
		WHERE o.id = prev.id
		RETURNING prev.status`,
		status, id,
	).Scan(&previous)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrOrderNotFound
	}
	return previous, err
}

func (r *repository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := db.Conn(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOrderNotFound
	}
	return nil
}
