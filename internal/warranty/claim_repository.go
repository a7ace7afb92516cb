package warranty

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"spareparts-be/internal/db"

	"github.com/lib/pq"
)

type ClaimRepository interface {
	Create(ctx context.Context, c *Claim) (int64, error)
	GetByID(ctx context.Context, id int64) (*Claim, error)
	GetForUpdate(ctx context.Context, id int64) (*Claim, error)
	List(ctx context.Context, filter ClaimFilter) ([]*Claim, error)
	Save(ctx context.Context, c *Claim) error
	Delete(ctx context.Context, id int64) error
}

type claimRepository struct {
	db *sql.DB
}

func NewClaimRepository(db *sql.DB) ClaimRepository {
	return &claimRepository{db: db}
}

const claimSelect = `
	SELECT
		c.id, c.claim_number, c.customer_id, u.full_name, c.order_id, o.order_number,
		c.product_id, sp.part_name, sp.part_number,
		c.purchase_date, c.warranty_expiry_date, c.issue_description, COALESCE(c.customer_comments, ''),
		c.status, c.store_response, c.processed_by, c.processed_at, c.created_at, c.updated_at
	FROM warranty_claims c
	JOIN users u ON u.id = c.customer_id
	JOIN orders o ON o.id = c.order_id
	JOIN spare_parts sp ON sp.id = c.product_id`

func scanClaim(row rowScanner) (*Claim, error) {
	var c Claim
	err := row.Scan(
		&c.ID, &c.ClaimNumber, &c.CustomerID, &c.CustomerName, &c.OrderID, &c.OrderNumber,
		&c.ProductID, &c.ProductName, &c.PartNumber,
		&c.PurchaseDate, &c.WarrantyExpiryDate, &c.IssueDescription, &c.CustomerComments,
		&c.Status, &c.StoreResponse, &c.ProcessedBy, &c.ProcessedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *claimRepository) one(ctx context.Context, query string, args ...any) (*Claim, error) {
	c, err := scanClaim(db.Conn(ctx, r.db).QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClaimNotFound
	}
	return c, err
}

func (r *claimRepository) Create(ctx context.Context, c *Claim) (int64, error) {
	var id int64
	err := db.Conn(ctx, r.db).QueryRowContext(ctx, `
		INSERT INTO warranty_claims (
			claim_number, customer_id, order_id, product_id, purchase_date,
			warranty_expiry_date, issue_description, customer_comments, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		c.ClaimNumber, c.CustomerID, c.OrderID, c.ProductID, c.PurchaseDate,
		c.WarrantyExpiryDate, c.IssueDescription, c.CustomerComments, c.Status,
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == PgUniqueViolation {
			return 0, ErrDuplicateReference
		}
		return 0, err
	}
	return id, nil
}

func (r *claimRepository) GetByID(ctx context.Context, id int64) (*Claim, error) {
	return r.one(ctx, claimSelect+` WHERE c.id = $1`, id)
}

func (r *claimRepository) GetForUpdate(ctx context.Context, id int64) (*Claim, error) {
	return r.one(ctx, claimSelect+` WHERE c.id = $1 FOR UPDATE OF c`, id)
}

func (r *claimRepository) List(ctx context.Context, filter ClaimFilter) ([]*Claim, error) {
	query := claimSelect + ` WHERE 1=1`
	args := []any{}
	argIndex := 1

	if filter.CustomerID != nil {
		query += fmt.Sprintf(" AND c.customer_id = $%d", argIndex)
		args = append(args, *filter.CustomerID)
		argIndex++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND c.status = $%d", argIndex)
		args = append(args, *filter.Status)
		argIndex++
	}

	query += " ORDER BY c.created_at DESC"

	rows, err := db.Conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	claims := []*Claim{}
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		claims = append(claims, c)
	}
	return claims, rows.Err()
}

func (r *claimRepository) Save(ctx context.Context, c *Claim) error {
	res, err := db.Conn(ctx, r.db).ExecContext(ctx, `
		UPDATE warranty_claims
		SET issue_description = $1, customer_comments = $2, status = $3,
			store_response = $4, processed_by = $5, processed_at = $6, updated_at = NOW()
		WHERE id = $7`,
		c.IssueDescription, c.CustomerComments, c.Status,
		c.StoreResponse, c.ProcessedBy, c.ProcessedAt, c.ID,
	)
	if err != nil {
		return err
	}
	return expectOne(res, ErrClaimNotFound)
}

func (r *claimRepository) Delete(ctx context.Context, id int64) error {
	res, err := db.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM warranty_claims WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOne(res, ErrClaimNotFound)
}
