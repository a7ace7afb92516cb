package delivery

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var deliveryCols = []string{
	"id", "delivery_number", "order_id", "delivery_staff_id", "status", "delivery_method",
	"delivery_cost", "estimated_delivery_at", "delivery_address", "tracking_notes",
	"assigned_at", "dispatched_at", "delivered_at", "created_at", "updated_at",
}

func deliveryRow(id, orderID int64, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(deliveryCols).AddRow(
		id, "DEL1A2B3C4D", orderID, nil, status, MethodStandard,
		"10.00", now, "1 Main St", nil,
		nil, nil, nil, now, now,
	)
}

func TestRepository_Create(t *testing.T) {
	ctx := context.Background()
	d := &Delivery{
		DeliveryNumber: "DEL1A2B3C4D", OrderID: 4, Status: StatusPending,
		Method: MethodStandard, Cost: decimal.NewFromInt(10), DeliveryAddress: "1 Main St",
	}

	t.Run("Success", func(t *testing.T) {
		sqlDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer sqlDB.Close()

		mock.ExpectQuery(`(?s)INSERT INTO deliveries`).WillReturnRows(deliveryRow(1, 4, StatusPending))

		created, err := NewRepository(sqlDB).Create(ctx, d)
		require.NoError(t, err)
		assert.Equal(t, int64(1), created.ID)
		assert.Nil(t, created.StaffID)
		assert.Nil(t, created.TrackingNotes)
	})

	t.Run("OneDeliveryPerOrder", func(t *testing.T) {
		sqlDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer sqlDB.Close()

		mock.ExpectQuery(`(?s)INSERT INTO deliveries`).WillReturnError(&pq.Error{Code: PgUniqueViolation})

		_, err = NewRepository(sqlDB).Create(ctx, d)
		assert.ErrorIs(t, err, ErrDeliveryExists)
	})
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectQuery(`FROM deliveries WHERE id = \$1`).WithArgs(int64(3)).WillReturnError(sql.ErrNoRows)

	_, err = NewRepository(sqlDB).GetByID(context.Background(), 3)
	assert.ErrorIs(t, err, ErrDeliveryNotFound)
}

func TestRepository_CountByStatus(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectQuery(`SELECT status, COUNT\(\*\) FROM deliveries GROUP BY status`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow(StatusDelivered, 7).
			AddRow(StatusPending, 2))

	counts, err := NewRepository(sqlDB).CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{StatusDelivered: 7, StatusPending: 2}, counts)
}

func TestRepository_Delete(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectExec(`DELETE FROM deliveries WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, NewRepository(sqlDB).Delete(context.Background(), 5), ErrDeliveryNotFound)
}
