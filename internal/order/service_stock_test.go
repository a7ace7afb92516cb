package order

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"spareparts-be/internal/db"
	"spareparts-be/internal/logger"
	"spareparts-be/internal/notification"
	"spareparts-be/internal/payment"
	"spareparts-be/internal/sparepart"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var sparePartCols = []string{
	"id", "part_number", "part_name", "category", "brand", "vehicle_model", "description",
	"price", "stock_quantity", "reorder_level", "warranty_months", "image_url", "is_active",
	"created_at", "updated_at",
}

func sparePartRow(id int64, number, price string, stock, reorder int) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(sparePartCols).AddRow(
		id, number, "Oil Filter "+number, "Filters", "Denso", "Civic", "",
		price, stock, reorder, 6, "", true, now, now,
	)
}

const (
	selectPartQuery    = `(?s)SELECT .+ FROM spare_parts WHERE id = \$1`
	decrementPartQuery = `(?s)UPDATE spare_parts\s+SET stock_quantity = stock_quantity - \$1.+stock_quantity >= \$1\s+RETURNING`
)

// newStockFixture wires the order service to the SQL catalog repository and a
// real transactor over sqlmock.
func newStockFixture(t *testing.T, notifier Notifier) (Service, *MockRepository, sparepart.Repository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	repo := new(MockRepository)
	parts := sparepart.NewRepository(sqlDB)
	svc := NewService(Dependencies{
		Repo:     repo,
		Parts:    parts,
		Payments: payment.DefaultSelector(),
		Notifier: notifier,
		Tx:       db.NewTransactor(sqlDB),
	})
	return svc, repo, parts, dbMock
}

func TestService_CreateOrder_Stock(t *testing.T) {
	ctx := context.Background()

	t.Run("Later item short of stock rolls back the whole order", func(t *testing.T) {
		notifier := &recordingNotifier{}
		svc, repo, _, dbMock := newStockFixture(t, notifier)

		dbMock.ExpectBegin()
		dbMock.ExpectQuery(selectPartQuery).WithArgs(int64(1)).
			WillReturnRows(sparePartRow(1, "OF-1", "10.00", 8, 5))
		dbMock.ExpectQuery(decrementPartQuery).WithArgs(2, int64(1)).
			WillReturnRows(sparePartRow(1, "OF-1", "10.00", 6, 5))
		dbMock.ExpectQuery(selectPartQuery).WithArgs(int64(2)).
			WillReturnRows(sparePartRow(2, "OF-2", "5.00", 4, 5))
		dbMock.ExpectQuery(decrementPartQuery).WithArgs(9, int64(2)).
			WillReturnError(sql.ErrNoRows)
		dbMock.ExpectRollback()

		_, err := svc.CreateOrder(ctx, 7, CreateOrderInput{
			Items: []ItemInput{
				{SparePartID: 1, Quantity: 2},
				{SparePartID: 2, Quantity: 9},
			},
			ShippingAddress: "1 Main St",
			PaymentMethod:   payment.MethodCreditCard,
		})

		assert.ErrorIs(t, err, sparepart.ErrInsufficientStock)
		assert.Contains(t, err.Error(), "Oil Filter OF-2")
		assert.Empty(t, notifier.events)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("Order drops part to reorder level", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		t.Cleanup(logger.Replace(zap.New(core)))

		dispatcher := notification.NewDispatcher[notification.OrderEvent](notification.NewInventoryAlertChannel())
		svc, repo, parts, dbMock := newStockFixture(t, dispatcher)

		dbMock.ExpectBegin()
		dbMock.ExpectQuery(selectPartQuery).WithArgs(int64(5)).
			WillReturnRows(sparePartRow(5, "OF-5", "12.50", 5, 10))
		dbMock.ExpectQuery(decrementPartQuery).WithArgs(3, int64(5)).
			WillReturnRows(sparePartRow(5, "OF-5", "12.50", 2, 10))
		dbMock.ExpectCommit()

		repo.On("Create", mock.Anything, mock.MatchedBy(func(o *Order) bool {
			return len(o.Items) == 1 &&
				o.Items[0].Quantity == 3 &&
				o.TotalAmount.Equal(decimal.RequireFromString("37.50"))
		})).Return(int64(21), nil)
		repo.On("UpdatePaymentStatus", mock.Anything, int64(21), payment.StatusPaid).Return(nil)
		repo.On("GetByID", mock.Anything, int64(21)).Return(&Order{
			ID:            21,
			OrderNumber:   "ORD-21",
			CustomerID:    7,
			Status:        StatusPending,
			PaymentStatus: payment.StatusPaid,
			TotalAmount:   decimal.RequireFromString("37.50"),
			Items: []*OrderItem{
				{SparePartID: 5, PartNumber: "OF-5", PartName: "Oil Filter OF-5", Quantity: 3},
			},
		}, nil)

		o, err := svc.CreateOrder(ctx, 7, CreateOrderInput{
			Items:           []ItemInput{{SparePartID: 5, Quantity: 3}},
			ShippingAddress: "1 Main St",
			PaymentMethod:   payment.MethodCreditCard,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(21), o.ID)
		assert.NoError(t, dbMock.ExpectationsWereMet())

		alerts := logs.FilterMessage("inventory alert: restock required").All()
		require.Len(t, alerts, 1)
		assert.Equal(t, "OF-5", alerts[0].ContextMap()["part_number"])
		assert.Equal(t, int64(2), alerts[0].ContextMap()["stock"])

		dbMock.ExpectQuery(`stock_quantity <= reorder_level`).
			WillReturnRows(sparePartRow(5, "OF-5", "12.50", 2, 10))

		low, err := parts.ListLowStock(ctx)
		require.NoError(t, err)
		require.Len(t, low, 1)
		assert.Equal(t, int64(5), low[0].ID)
		assert.Equal(t, 2, low[0].StockQuantity)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}
