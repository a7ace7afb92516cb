package warranty

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var warrantyCols = []string{
	"id", "warranty_number", "order_item_id", "order_number",
	"customer_id", "full_name", "email", "phone",
	"spare_part_id", "part_name", "part_number",
	"purchase_date", "expiry_date", "status", "claim_status", "claim_date", "claim_notes",
	"created_at", "updated_at",
}

func warrantyRow(id int64, claim any) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(warrantyCols).AddRow(
		id, "WRN1A2B3C4D", int64(4), "ORD1",
		int64(7), "Jane Doe", "jane@example.com", "",
		int64(10), "Brake Pad", "BP-1",
		day(2024, 5, 1), day(2024, 11, 1), StatusActive, claim, nil, nil,
		now, now,
	)
}

func TestRepository_Create(t *testing.T) {
	ctx := context.Background()
	itemID := int64(4)
	w := &Warranty{
		WarrantyNumber: "WRN1A2B3C4D", OrderItemID: &itemID, CustomerID: 7, SparePartID: 10,
		PurchaseDate: day(2024, 5, 1), ExpiryDate: day(2024, 11, 1), Status: StatusActive,
	}

	t.Run("Success", func(t *testing.T) {
		sqlDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer sqlDB.Close()

		mock.ExpectQuery(`(?s)INSERT INTO warranties`).
			WithArgs("WRN1A2B3C4D", itemID, int64(7), int64(10), day(2024, 5, 1), day(2024, 11, 1), StatusActive).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

		id, err := NewRepository(sqlDB).Create(ctx, w)
		require.NoError(t, err)
		assert.Equal(t, int64(1), id)
	})

	t.Run("UnknownCustomer", func(t *testing.T) {
		sqlDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer sqlDB.Close()

		mock.ExpectQuery(`INSERT INTO warranties`).WillReturnError(&pq.Error{Code: PgForeignKeyViolation})

		_, err = NewRepository(sqlDB).Create(ctx, w)
		assert.ErrorIs(t, err, ErrCustomerNotFound)
	})
}

func TestRepository_GetForUpdate(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectQuery(`(?s)FROM warranties w.*WHERE w.id = \$1 FOR UPDATE OF w`).
		WithArgs(int64(1)).
		WillReturnRows(warrantyRow(1, "PENDING"))

	w, err := NewRepository(sqlDB).GetForUpdate(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, w.ClaimStatus)
	assert.Equal(t, ClaimPending, *w.ClaimStatus)
	assert.Equal(t, "ORD1", w.OrderNumber)
	assert.Nil(t, w.ClaimNotes)
}

func TestRepository_GetByNumber_NotFound(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectQuery(`WHERE w.warranty_number = \$1`).WithArgs("WRN0").WillReturnError(sql.ErrNoRows)

	_, err = NewRepository(sqlDB).GetByNumber(context.Background(), "WRN0")
	assert.ErrorIs(t, err, ErrWarrantyNotFound)
}

func TestRepository_List(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	customerID := int64(7)
	pending := ClaimPending
	mock.ExpectQuery(`(?s)w.customer_id = \$1 AND w.status = 'ACTIVE' AND w.expiry_date >= CURRENT_DATE AND w.claim_status = \$2 ORDER BY`).
		WithArgs(customerID, pending).
		WillReturnRows(warrantyRow(1, nil))

	ws, err := NewRepository(sqlDB).List(context.Background(), Filter{CustomerID: &customerID, ActiveOnly: true, ClaimStatus: &pending})
	require.NoError(t, err)
	require.Len(t, ws, 1)
	assert.Nil(t, ws[0].ClaimStatus)
}

func TestRepository_Save(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	notes := "squeaks"
	pending := ClaimPending
	w := &Warranty{ID: 1, Status: StatusActive, ClaimStatus: &pending, ClaimNotes: &notes}

	mock.ExpectExec(`(?s)UPDATE warranties\s+SET status = \$1, claim_status = \$2`).
		WithArgs(StatusActive, pending, nil, notes, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE warranties`).WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewRepository(sqlDB)
	assert.NoError(t, repo.Save(context.Background(), w))
	assert.ErrorIs(t, repo.Save(context.Background(), w), ErrWarrantyNotFound)
}

func TestRepository_Counts(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectQuery(`(?s)COUNT\(\*\) FILTER`).
		WithArgs(day(2024, 5, 15)).
		WillReturnRows(sqlmock.NewRows([]string{"a", "b", "c", "d", "e", "f", "g"}).AddRow(10, 6, 2, 2, 1, 2, 1))

	c, err := NewRepository(sqlDB).Counts(context.Background(), day(2024, 5, 15))
	require.NoError(t, err)
	assert.Equal(t, Counts{Total: 10, Active: 6, Expired: 2, Claimed: 2, PendingClaims: 1, ApprovedClaims: 2, RejectedClaims: 1}, c)
}

func TestClaimRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("CreateDuplicateNumber", func(t *testing.T) {
		sqlDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer sqlDB.Close()

		mock.ExpectQuery(`INSERT INTO warranty_claims`).WillReturnError(&pq.Error{Code: PgUniqueViolation})

		_, err = NewClaimRepository(sqlDB).Create(ctx, &Claim{ClaimNumber: "WC-1"})
		assert.ErrorIs(t, err, ErrDuplicateReference)
	})

	t.Run("ListByStatus", func(t *testing.T) {
		sqlDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer sqlDB.Close()

		now := time.Now()
		cols := []string{
			"id", "claim_number", "customer_id", "full_name", "order_id", "order_number",
			"product_id", "part_name", "part_number",
			"purchase_date", "warranty_expiry_date", "issue_description", "customer_comments",
			"status", "store_response", "processed_by", "processed_at", "created_at", "updated_at",
		}
		status := CaseStatusPending
		mock.ExpectQuery(`(?s)FROM warranty_claims c.*c.status = \$1 ORDER BY c.created_at DESC`).
			WithArgs(status).
			WillReturnRows(sqlmock.NewRows(cols).AddRow(
				int64(1), "WC-1A2B3C4D", int64(7), "Jane Doe", int64(3), "ORD3",
				int64(10), "Brake Pad", "BP-1",
				day(2024, 1, 1), day(2024, 7, 1), "noise", "",
				status, nil, nil, nil, now, nil,
			))

		claims, err := NewClaimRepository(sqlDB).List(ctx, ClaimFilter{Status: &status})
		require.NoError(t, err)
		require.Len(t, claims, 1)
		assert.Equal(t, "WC-1A2B3C4D", claims[0].ClaimNumber)
		assert.Nil(t, claims[0].UpdatedAt)
	})

	t.Run("DeleteMissing", func(t *testing.T) {
		sqlDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer sqlDB.Close()

		mock.ExpectExec(`DELETE FROM warranty_claims WHERE id = \$1`).WithArgs(int64(5)).WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, NewClaimRepository(sqlDB).Delete(ctx, 5), ErrClaimNotFound)
	})
}
