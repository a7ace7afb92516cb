package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type Repository interface {
	Save(ctx context.Context, e Entry) error
	ListByEntity(ctx context.Context, entityType string, entityID int64) ([]Entry, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Save(ctx context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_logs (action, entity_type, entity_id, user_id, old_value, new_value, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.Action, e.EntityType, e.EntityID, e.UserID, e.OldValue, e.NewValue, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (r *repository) ListByEntity(ctx context.Context, entityType string, entityID int64) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, action, entity_type, entity_id, user_id, COALESCE(old_value, ''), new_value, created_at
		FROM audit_logs
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC`,
		entityType, entityID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.ID, &e.Action, &e.EntityType, &e.EntityID, &e.UserID, &e.OldValue, &e.NewValue, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
