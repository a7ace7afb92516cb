package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Save(t *testing.T) {
	ctx := context.Background()
	userID := int64(3)
	entry := Entry{
		Action: "ORDER_CREATED", EntityType: EntityOrder, EntityID: 10, UserID: &userID,
		NewValue: "Order ORD1 - ORDER_CREATED. Amount: $10.00, Status: PENDING",
	}

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`INSERT INTO audit_logs`).
			WithArgs("ORDER_CREATED", EntityOrder, int64(10), int64(3), "", entry.NewValue, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		assert.NoError(t, NewRepository(db).Save(ctx, entry))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`INSERT INTO audit_logs`).WillReturnError(errors.New("disk full"))

		err = NewRepository(db).Save(ctx, entry)
		assert.ErrorContains(t, err, "insert audit entry")
	})
}

func TestRepository_ListByEntity(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`(?s)FROM audit_logs\s+WHERE entity_type = \$1 AND entity_id = \$2`).
		WithArgs(EntityOrder, int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "action", "entity_type", "entity_id", "user_id", "old_value", "new_value", "created_at",
		}).
			AddRow(2, "ORDER_APPROVED", EntityOrder, 10, 3, "", "approved", now).
			AddRow(1, "ORDER_CREATED", EntityOrder, 10, nil, "", "created", now))

	entries, err := NewRepository(db).ListByEntity(context.Background(), EntityOrder, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "ORDER_APPROVED", entries[0].Action)
	assert.Equal(t, int64(3), *entries[0].UserID)
	assert.Nil(t, entries[1].UserID)
}
