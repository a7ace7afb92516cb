package feedback

import (
	"context"
	"database/sql"
	"errors"

	"spareparts-be/internal/db"
	"spareparts-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, f *Feedback) (int64, error)
	GetByID(ctx context.Context, id int64) (*Feedback, error)
	List(ctx context.Context, customerID *int64) ([]*Feedback, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	SaveResponse(ctx context.Context, id, responderID int64, response string) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const feedbackSelect = `
	SELECT f.id, f.customer_id, u.full_name, f.order_id, f.spare_part_id, f.feedback_type,
		f.rating, f.subject, f.message, f.status, f.response, f.responded_by, f.responded_at,
		f.created_at, f.updated_at
	FROM feedback f
	JOIN users u ON u.id = f.customer_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFeedback(row rowScanner) (*Feedback, error) {
	var (
		f      Feedback
		rating sql.NullInt64
	)
	err := row.Scan(
		&f.ID, &f.CustomerID, &f.CustomerName, &f.OrderID, &f.SparePartID, &f.FeedbackType,
		&rating, &f.Subject, &f.Message, &f.Status, &f.Response, &f.RespondedBy, &f.RespondedAt,
		&f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if rating.Valid {
		r := int(rating.Int64)
		f.Rating = &r
	}
	return &f, nil
}

func (r *repository) Create(ctx context.Context, f *Feedback) (int64, error) {
	var id int64
	err := db.Conn(ctx, r.db).QueryRowContext(ctx, `
		INSERT INTO feedback (customer_id, order_id, spare_part_id, feedback_type, rating, subject, message, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		f.CustomerID, f.OrderID, f.SparePartID, f.FeedbackType, f.Rating, f.Subject, f.Message, f.Status,
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == PgForeignKeyViolation {
			return 0, ErrUnknownReference
		}
		logger.FromCtx(ctx).Error("db: failed to insert feedback",
			zap.Int64("customer_id", f.CustomerID),
			zap.Error(err),
		)
		return 0, err
	}
	return id, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Feedback, error) {
	f, err := scanFeedback(db.Conn(ctx, r.db).QueryRowContext(ctx, feedbackSelect+` WHERE f.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFeedbackNotFound
	}
	return f, err
}

func (r *repository) List(ctx context.Context, customerID *int64) ([]*Feedback, error) {
	query := feedbackSelect
	args := []any{}
	if customerID != nil {
		query += ` WHERE f.customer_id = $1`
		args = append(args, *customerID)
	}
	query += ` ORDER BY f.created_at DESC`

	rows, err := db.Conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*Feedback{}
	for rows.Next() {
		f, err := scanFeedback(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	return items, rows.Err()
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status string) error {
	return r.execOne(ctx, `UPDATE feedback SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
}

func (r *repository) SaveResponse(ctx context.Context, id, responderID int64, response string) error {
	return r.execOne(ctx, `
		UPDATE feedback
		SET response = $1, responded_by = $2, responded_at = NOW(), status = $3, updated_at = NOW()
		WHERE id = $4`,
		response, responderID, StatusResponded, id,
	)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return r.execOne(ctx, `DELETE FROM feedback WHERE id = $1`, id)
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
		return ErrFeedbackNotFound
	}
	return nil
}
