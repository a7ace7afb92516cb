package main

import (
	"bytes"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnv(t *testing.T) (*env, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	return &env{openDB: func() (*sql.DB, error) { return sqlDB, nil }}, mock
}

func execute(t *testing.T, e *env, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(e)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestReportCmd_Plain(t *testing.T) {
	e, mock := testEnv(t)
	mock.ExpectQuery(`FROM orders`).
		WillReturnRows(sqlmock.NewRows([]string{"count", "sum", "completed", "pending"}).
			AddRow(int64(4), "400.00", int64(3), int64(1)))
	mock.ExpectClose()

	out, err := execute(t, e, "report", "sales", "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "=== SALES REPORT ===")
	assert.Contains(t, out, "100")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportCmd_UnknownType(t *testing.T) {
	e, _ := testEnv(t)

	_, err := execute(t, e, "report", "weather")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SALES, INVENTORY, DELIVERY")
}

func TestMigrateDown_NothingApplied(t *testing.T) {
	e, mock := testEnv(t)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT version FROM schema_migrations`).
		WillReturnRows(sqlmock.NewRows([]string{"version"}))

	out, err := execute(t, e, "migrate", "down")
	require.NoError(t, err)
	assert.Contains(t, out, "no migrations to roll back")
}

func TestWarrantyExpiring_NegativeDays(t *testing.T) {
	e, _ := testEnv(t)

	_, err := execute(t, e, "warranty", "expiring", "--days", "-1")
	assert.ErrorContains(t, err, "--days")
}
