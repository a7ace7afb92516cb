package warranty

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"spareparts-be/internal/db"

	"github.com/lib/pq"
)

type Repository interface {
	Create(ctx context.Context, w *Warranty) (int64, error)
	GetByID(ctx context.Context, id int64) (*Warranty, error)
	GetForUpdate(ctx context.Context, id int64) (*Warranty, error)
	GetByNumber(ctx context.Context, number string) (*Warranty, error)
	List(ctx context.Context, filter Filter) ([]*Warranty, error)
	ListExpiring(ctx context.Context, after, before time.Time) ([]*Warranty, error)
	Save(ctx context.Context, w *Warranty) error
	Delete(ctx context.Context, id int64) error
	Counts(ctx context.Context, today time.Time) (Counts, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const warrantySelect = `
	SELECT
		w.id, w.warranty_number, w.order_item_id, COALESCE(o.order_number, ''),
		w.customer_id, u.full_name, u.email, COALESCE(u.phone, ''),
		w.spare_part_id, sp.part_name, sp.part_number,
		w.purchase_date, w.expiry_date, w.status, w.claim_status, w.claim_date, w.claim_notes,
		w.created_at, w.updated_at
	FROM warranties w
	JOIN users u ON u.id = w.customer_id
	JOIN spare_parts sp ON sp.id = w.spare_part_id
	LEFT JOIN order_items oi ON oi.id = w.order_item_id
	LEFT JOIN orders o ON o.id = oi.order_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWarranty(row rowScanner) (*Warranty, error) {
	var w Warranty
	err := row.Scan(
		&w.ID, &w.WarrantyNumber, &w.OrderItemID, &w.OrderNumber,
		&w.CustomerID, &w.CustomerName, &w.CustomerEmail, &w.CustomerPhone,
		&w.SparePartID, &w.PartName, &w.PartNumber,
		&w.PurchaseDate, &w.ExpiryDate, &w.Status, &w.ClaimStatus, &w.ClaimDate, &w.ClaimNotes,
		&w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *repository) one(ctx context.Context, query string, args ...any) (*Warranty, error) {
	w, err := scanWarranty(db.Conn(ctx, r.db).QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWarrantyNotFound
	}
	return w, err
}

func (r *repository) many(ctx context.Context, query string, args ...any) ([]*Warranty, error) {
	rows, err := db.Conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*Warranty{}
	for rows.Next() {
		w, err := scanWarranty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *repository) Create(ctx context.Context, w *Warranty) (int64, error) {
	var id int64
	err := db.Conn(ctx, r.db).QueryRowContext(ctx, `
		INSERT INTO warranties (
			warranty_number, order_item_id, customer_id, spare_part_id,
			purchase_date, expiry_date, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		w.WarrantyNumber, w.OrderItemID, w.CustomerID, w.SparePartID,
		w.PurchaseDate, w.ExpiryDate, w.Status,
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case PgUniqueViolation:
				return 0, ErrDuplicateReference
			case PgForeignKeyViolation:
				return 0, ErrCustomerNotFound
			}
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Warranty, error) {
	return r.one(ctx, warrantySelect+` WHERE w.id = $1`, id)
}

// GetForUpdate locks the warranty row until the surrounding transaction ends.
func (r *repository) GetForUpdate(ctx context.Context, id int64) (*Warranty, error) {
	return r.one(ctx, warrantySelect+` WHERE w.id = $1 FOR UPDATE OF w`, id)
}

func (r *repository) GetByNumber(ctx context.Context, number string) (*Warranty, error) {
	return r.one(ctx, warrantySelect+` WHERE w.warranty_number = $1`, number)
}

func (r *repository) List(ctx context.Context, filter Filter) ([]*Warranty, error) {
	query := warrantySelect + ` WHERE 1=1`
	args := []any{}
	argIndex := 1

	if filter.CustomerID != nil {
		query += fmt.Sprintf(" AND w.customer_id = $%d", argIndex)
		args = append(args, *filter.CustomerID)
		argIndex++
	}

	if filter.ActiveOnly {
		query += " AND w.status = 'ACTIVE' AND w.expiry_date >= CURRENT_DATE"
	}

	if filter.ClaimStatus != nil {
		query += fmt.Sprintf(" AND w.claim_status = $%d", argIndex)
		args = append(args, *filter.ClaimStatus)
		argIndex++
	}

	query += " ORDER BY w.created_at DESC"
	return r.many(ctx, query, args...)
}

// ListExpiring returns active warranties expiring strictly between the two dates.
func (r *repository) ListExpiring(ctx context.Context, after, before time.Time) ([]*Warranty, error) {
	return r.many(ctx, warrantySelect+`
		WHERE w.status = 'ACTIVE' AND w.expiry_date > $1 AND w.expiry_date < $2
		ORDER BY w.expiry_date`,
		after, before,
	)
}

func (r *repository) Save(ctx context.Context, w *Warranty) error {
	res, err := db.Conn(ctx, r.db).ExecContext(ctx, `
		UPDATE warranties
		SET status = $1, claim_status = $2, claim_date = $3, claim_notes = $4, updated_at = NOW()
		WHERE id = $5`,
		w.Status, w.ClaimStatus, w.ClaimDate, w.ClaimNotes, w.ID,
	)
	if err != nil {
		return err
	}
	return expectOne(res, ErrWarrantyNotFound)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	res, err := db.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM warranties WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOne(res, ErrWarrantyNotFound)
}

// Counts tallies warranties by status and claim state. An ACTIVE warranty
// past its expiry date counts as expired.
func (r *repository) Counts(ctx context.Context, today time.Time) (Counts, error) {
	var c Counts
	err := db.Conn(ctx, r.db).QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'ACTIVE' AND expiry_date >= $1),
			COUNT(*) FILTER (WHERE status = 'EXPIRED' OR (status = 'ACTIVE' AND expiry_date < $1)),
			COUNT(*) FILTER (WHERE status = 'CLAIMED'),
			COUNT(*) FILTER (WHERE claim_status = 'PENDING'),
			COUNT(*) FILTER (WHERE claim_status = 'APPROVED'),
			COUNT(*) FILTER (WHERE claim_status = 'REJECTED')
		FROM warranties`,
		today,
	).Scan(&c.Total, &c.Active, &c.Expired, &c.Claimed, &c.PendingClaims, &c.ApprovedClaims, &c.RejectedClaims)
	return c, err
}

func expectOne(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
