package delivery

import (
	"context"
	"database/sql"
	"errors"

	"spareparts-be/internal/db"

	"github.com/lib/pq"
)

type Repository interface {
	Create(ctx context.Context, d *Delivery) (*Delivery, error)
	GetByID(ctx context.Context, id int64) (*Delivery, error)
	GetByOrderID(ctx context.Context, orderID int64) (*Delivery, error)
	List(ctx context.Context) ([]*Delivery, error)
	ListByStaff(ctx context.Context, staffID int64) ([]*Delivery, error)
	ListByStatus(ctx context.Context, status string) ([]*Delivery, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
	Save(ctx context.Context, d *Delivery) (*Delivery, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const deliveryColumns = `id, delivery_number, order_id, delivery_staff_id, status, delivery_method,
	delivery_cost, estimated_delivery_at, delivery_address, tracking_notes,
	assigned_at, dispatched_at, delivered_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDelivery(row rowScanner) (*Delivery, error) {
	var d Delivery
	err := row.Scan(
		&d.ID, &d.DeliveryNumber, &d.OrderID, &d.StaffID, &d.Status, &d.Method,
		&d.Cost, &d.EstimatedAt, &d.DeliveryAddress, &d.TrackingNotes,
		&d.AssignedAt, &d.DispatchedAt, &d.DeliveredAt, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) one(ctx context.Context, query string, args ...any) (*Delivery, error) {
	d, err := scanDelivery(db.Conn(ctx, r.db).QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDeliveryNotFound
	}
	return d, err
}

func (r *repository) many(ctx context.Context, query string, args ...any) ([]*Delivery, error) {
	rows, err := db.Conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*Delivery{}
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *repository) Create(ctx context.Context, d *Delivery) (*Delivery, error) {
	created, err := r.one(ctx, `
		INSERT INTO deliveries (
			delivery_number, order_id, status, delivery_method, delivery_cost,
			estimated_delivery_at, delivery_address
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING `+deliveryColumns,
		d.DeliveryNumber, d.OrderID, d.Status, d.Method, d.Cost,
		d.EstimatedAt, d.DeliveryAddress,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == PgUniqueViolation {
			return nil, ErrDeliveryExists
		}
		return nil, err
	}
	return created, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Delivery, error) {
	return r.one(ctx, `SELECT `+deliveryColumns+` FROM deliveries WHERE id = $1`, id)
}

func (r *repository) GetByOrderID(ctx context.Context, orderID int64) (*Delivery, error) {
	return r.one(ctx, `SELECT `+deliveryColumns+` FROM deliveries WHERE order_id = $1`, orderID)
}

func (r *repository) List(ctx context.Context) ([]*Delivery, error) {
	return r.many(ctx, `SELECT `+deliveryColumns+` FROM deliveries ORDER BY created_at DESC`)
}

func (r *repository) ListByStaff(ctx context.Context, staffID int64) ([]*Delivery, error) {
	return r.many(ctx, `
		SELECT `+deliveryColumns+` FROM deliveries
		WHERE delivery_staff_id = $1
		ORDER BY created_at DESC`,
		staffID,
	)
}

func (r *repository) ListByStatus(ctx context.Context, status string) ([]*Delivery, error) {
	return r.many(ctx, `
		SELECT `+deliveryColumns+` FROM deliveries
		WHERE status = $1
		ORDER BY created_at DESC`,
		status,
	)
}

func (r *repository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := db.Conn(ctx, r.db).QueryContext(ctx,
		`SELECT status, COUNT(*) FROM deliveries GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *repository) Save(ctx context.Context, d *Delivery) (*Delivery, error) {
	return r.one(ctx, `
		UPDATE deliveries SET
			delivery_staff_id = $1, status = $2, delivery_address = $3, tracking_notes = $4,
			assigned_at = $5, dispatched_at = $6, delivered_at = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING `+deliveryColumns,
		d.StaffID, d.Status, d.DeliveryAddress, d.TrackingNotes,
		d.AssignedAt, d.DispatchedAt, d.DeliveredAt, d.ID,
	)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	res, err := db.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM deliveries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDeliveryNotFound
	}
	return nil
}
