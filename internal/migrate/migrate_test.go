package migrate

import (
	"context"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSection(t *testing.T) {
	content := `
-- +migrate Up
CREATE TABLE users (id int);
ALTER TABLE users ADD COLUMN name text;

-- +migrate Down
DROP TABLE users;
`
	t.Run("Up", func(t *testing.T) {
		up := Section(content, "Up")
		assert.Contains(t, up, "CREATE TABLE users")
		assert.Contains(t, up, "ALTER TABLE users")
		assert.NotContains(t, up, "DROP TABLE users")
		assert.NotContains(t, up, "-- +migrate Up")
	})

	t.Run("Down", func(t *testing.T) {
		down := Section(content, "Down")
		assert.Contains(t, down, "DROP TABLE users")
		assert.NotContains(t, down, "CREATE TABLE users")
	})
}

func TestEmbeddedMigrations(t *testing.T) {
	m := New(nil)
	versions, err := m.versions()
	require.NoError(t, err)
	require.NotEmpty(t, versions)
	assert.Equal(t, "0001_accounts_catalog.sql", versions[0])

	for _, v := range versions {
		raw, err := fs.ReadFile(m.files, v)
		require.NoError(t, err)
		assert.NotEmpty(t, Section(string(raw), "Up"), v)
		assert.NotEmpty(t, Section(string(raw), "Down"), v)
	}
}

func TestMigrator_Up(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	files := fstest.MapFS{
		"0002_b.sql": {Data: []byte("-- +migrate Up\nCREATE TABLE b (id int);\n-- +migrate Down\nDROP TABLE b;")},
		"0001_a.sql": {Data: []byte("-- +migrate Up\nCREATE TABLE a (id int);\n-- +migrate Down\nDROP TABLE a;")},
	}

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS.*schema_migrations`).
		WithArgs("0001_a.sql").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`SELECT EXISTS.*schema_migrations`).
		WithArgs("0002_b.sql").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`CREATE TABLE b`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO schema_migrations`).
		WithArgs("0002_b.sql").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, NewFromFS(sqlDB, files).Run(context.Background(), ModeUp))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrator_Down(t *testing.T) {
	ctx := context.Background()
	files := fstest.MapFS{
		"0001_a.sql": {Data: []byte("-- +migrate Up\nCREATE TABLE a (id int);\n-- +migrate Down\nDROP TABLE a;")},
	}

	t.Run("RollsBackLatest", func(t *testing.T) {
		sqlDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer sqlDB.Close()

		mock.ExpectQuery(`SELECT version FROM schema_migrations`).
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("0001_a.sql"))
		mock.ExpectExec(`DROP TABLE a`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM schema_migrations WHERE version = \$1`).
			WithArgs("0001_a.sql").
			WillReturnResult(sqlmock.NewResult(0, 1))

		version, err := NewFromFS(sqlDB, files).Down(ctx)
		require.NoError(t, err)
		assert.Equal(t, "0001_a.sql", version)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NothingApplied", func(t *testing.T) {
		sqlDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer sqlDB.Close()

		mock.ExpectQuery(`SELECT version FROM schema_migrations`).
			WillReturnRows(sqlmock.NewRows([]string{"version"}))

		version, err := NewFromFS(sqlDB, files).Down(ctx)
		require.NoError(t, err)
		assert.Empty(t, version)
	})
}

func TestMigrator_UnknownMode(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).WillReturnResult(sqlmock.NewResult(0, 0))
	err = NewFromFS(sqlDB, fstest.MapFS{}).Run(context.Background(), "sideways")
	assert.ErrorContains(t, err, "unknown mode")
}
