package sparepart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"spareparts-be/internal/db"
	"spareparts-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, p *SparePart) (*SparePart, error)
	Update(ctx context.Context, p *SparePart) (*SparePart, error)
	GetByID(ctx context.Context, id int64) (*SparePart, error)
	GetByPartNumber(ctx context.Context, partNumber string) (*SparePart, error)
	ExistsByPartNumber(ctx context.Context, partNumber string) (bool, error)
	List(ctx context.Context, activeOnly bool) ([]*SparePart, error)
	Search(ctx context.Context, keyword string) ([]*SparePart, error)
	ListByCategory(ctx context.Context, category string) ([]*SparePart, error)
	ListLowStock(ctx context.Context) ([]*SparePart, error)
	ListCategories(ctx context.Context) ([]string, error)
	SetActive(ctx context.Context, id int64, active bool) error
	AdjustStock(ctx context.Context, id int64, delta int) (*SparePart, error)
	DecrementStock(ctx context.Context, id int64, qty int) (*SparePart, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const partColumns = `id, part_number, part_name, category, brand, vehicle_model, description,
	price, stock_quantity, reorder_level, warranty_months, image_url, is_active,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPart(row rowScanner) (*SparePart, error) {
	var p SparePart
	err := row.Scan(
		&p.ID, &p.PartNumber, &p.PartName, &p.Category, &p.Brand, &p.VehicleModel, &p.Description,
		&p.Price, &p.StockQuantity, &p.ReorderLevel, &p.WarrantyMonths, &p.ImageURL, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) queryParts(ctx context.Context, query string, args ...any) ([]*SparePart, error) {
	rows, err := db.Conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	parts := []*SparePart{}
	for rows.Next() {
		p, err := scanPart(rows)
		if err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, rows.Err()
}

func (r *repository) Create(ctx context.Context, p *SparePart) (*SparePart, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
	)

	row := db.Conn(ctx, r.db).QueryRowContext(ctx, `
		INSERT INTO spare_parts (
			part_number, part_name, category, brand, vehicle_model, description,
			price, stock_quantity, reorder_level, warranty_months, image_url, is_active
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING `+partColumns,
		p.PartNumber, p.PartName, p.Category, p.Brand, p.VehicleModel, p.Description,
		p.Price, p.StockQuantity, p.ReorderLevel, p.WarrantyMonths, p.ImageURL, p.IsActive,
	)

	created, err := scanPart(row)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == PgUniqueViolation {
			return nil, ErrDuplicatePartNumber
		}
		log.Error("db: failed to insert spare part",
			zap.String("part_number", p.PartNumber),
			zap.Error(err),
		)
		return nil, err
	}
	return created, nil
}

func (r *repository) Update(ctx context.Context, p *SparePart) (*SparePart, error) {
	row := db.Conn(ctx, r.db).QueryRowContext(ctx, `
		UPDATE spare_parts SET
			part_number = $1, part_name = $2, category = $3, brand = $4, vehicle_model = $5,
			description = $6, price = $7, stock_quantity = $8, reorder_level = $9,
			warranty_months = $10, image_url = $11, is_active = $12, updated_at = NOW()
		WHERE id = $13
		RETURNING `+partColumns,
		p.PartNumber, p.PartName, p.Category, p.Brand, p.VehicleModel,
		p.Description, p.Price, p.StockQuantity, p.ReorderLevel,
		p.WarrantyMonths, p.ImageURL, p.IsActive, p.ID,
	)

	updated, err := scanPart(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPartNotFound
	}
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == PgUniqueViolation {
			return nil, ErrDuplicatePartNumber
		}
		return nil, err
	}
	return updated, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*SparePart, error) {
	p, err := scanPart(db.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+partColumns+` FROM spare_parts WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPartNotFound
	}
	return p, err
}

func (r *repository) GetByPartNumber(ctx context.Context, partNumber string) (*SparePart, error) {
	p, err := scanPart(db.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+partColumns+` FROM spare_parts WHERE part_number = $1`, partNumber))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPartNotFound
	}
	return p, err
}

func (r *repository) ExistsByPartNumber(ctx context.Context, partNumber string) (bool, error) {
	var exists bool
	err := db.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM spare_parts WHERE part_number = $1)`, partNumber,
	).Scan(&exists)
	return exists, err
}

func (r *repository) List(ctx context.Context, activeOnly bool) ([]*SparePart, error) {
	query := `SELECT ` + partColumns + ` FROM spare_parts`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	return r.queryParts(ctx, query+` ORDER BY part_name`)
}

func (r *repository) Search(ctx context.Context, keyword string) ([]*SparePart, error) {
	return r.queryParts(ctx, `
		SELECT `+partColumns+` FROM spare_parts
		WHERE is_active = TRUE AND (
			LOWER(part_name) LIKE $1 ESCAPE '\' OR LOWER(part_number) LIKE $1 ESCAPE '\' OR
			LOWER(category) LIKE $1 ESCAPE '\' OR LOWER(brand) LIKE $1 ESCAPE '\'
		)
		ORDER BY part_name`,
		likePattern(keyword),
	)
}

func (r *repository) ListByCategory(ctx context.Context, category string) ([]*SparePart, error) {
	return r.queryParts(ctx, `
		SELECT `+partColumns+` FROM spare_parts
		WHERE category = $1 AND is_active = TRUE
		ORDER BY part_name`,
		category,
	)
}

func (r *repository) ListLowStock(ctx context.Context) ([]*SparePart, error) {
	return r.queryParts(ctx, `
		SELECT `+partColumns+` FROM spare_parts
		WHERE is_active = TRUE AND stock_quantity <= reorder_level
		ORDER BY stock_quantity`,
	)
}

func (r *repository) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := db.Conn(ctx, r.db).QueryContext(ctx,
		`SELECT DISTINCT category FROM spare_parts WHERE is_active = TRUE ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *repository) SetActive(ctx context.Context, id int64, active bool) error {
	res, err := db.Conn(ctx, r.db).ExecContext(ctx,
		`UPDATE spare_parts SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPartNotFound
	}
	return nil
}

// AdjustStock applies delta unless the result would go negative, in which
// case ErrInsufficientStock is returned and nothing changes.
func (r *repository) AdjustStock(ctx context.Context, id int64, delta int) (*SparePart, error) {
	p, err := scanPart(db.Conn(ctx, r.db).QueryRowContext(ctx, `
		UPDATE spare_parts
		SET stock_quantity = stock_quantity + $1, updated_at = NOW()
		WHERE id = $2 AND stock_quantity + $1 >= 0
		RETURNING `+partColumns,
		delta, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInsufficientStock
	}
	return p, err
}

// DecrementStock atomically reserves qty units of an active part.
func (r *repository) DecrementStock(ctx context.Context, id int64, qty int) (*SparePart, error) {
	p, err := scanPart(db.Conn(ctx, r.db).QueryRowContext(ctx, `
		UPDATE spare_parts
		SET stock_quantity = stock_quantity - $1, updated_at = NOW()
		WHERE id = $2 AND is_active = TRUE AND stock_quantity >= $1
		RETURNING `+partColumns,
		qty, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInsufficientStock
	}
	if err != nil {
		return nil, fmt.Errorf("decrement stock for part %d: %w", id, err)
	}
	return p, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern matches keyword as a literal substring.
func likePattern(keyword string) string {
	return "%" + likeEscaper.Replace(toLowerTrim(keyword)) + "%"
}
