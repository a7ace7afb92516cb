package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"spareparts-be/internal/logger"

	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var embedded embed.FS

const (
	ModeUp   = "up"
	ModeDown = "down"
)

// Migrator applies "-- +migrate Up/Down" files in lexical order and records
// each applied version in schema_migrations.
type Migrator struct {
	db    *sql.DB
	files fs.FS
}

func New(db *sql.DB) *Migrator {
	sub, _ := fs.Sub(embedded, "migrations")
	return &Migrator{db: db, files: sub}
}

// NewFromFS reads migrations from the root of files.
func NewFromFS(db *sql.DB, files fs.FS) *Migrator {
	return &Migrator{db: db, files: files}
}

// EnsureTable creates the schema_migrations bookkeeping table.
func (m *Migrator) EnsureTable(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`); err != nil {
		return fmt.Errorf("failed to ensure schema_migrations table: %w", err)
	}
	return nil
}

func (m *Migrator) Run(ctx context.Context, mode string) error {
	if err := m.EnsureTable(ctx); err != nil {
		return err
	}

	switch mode {
	case ModeUp:
		_, err := m.Up(ctx)
		return err
	case ModeDown:
		_, err := m.Down(ctx)
		return err
	default:
		return fmt.Errorf("unknown mode: %s (use 'up' or 'down')", mode)
	}
}

func (m *Migrator) versions() ([]string, error) {
	names, err := fs.Glob(m.files, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Up applies every pending migration and returns the versions it applied.
func (m *Migrator) Up(ctx context.Context) ([]string, error) {
	log := logger.FromCtx(ctx).With(zap.String("layer", "migrate"))

	versions, err := m.versions()
	if err != nil {
		return nil, err
	}

	var applied []string
	for _, version := range versions {
		var exists bool
		err := m.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, version,
		).Scan(&exists)
		if err != nil {
			return applied, fmt.Errorf("failed to check migration status: %w", err)
		}
		if exists {
			log.Debug("skipping applied migration", zap.String("version", version))
			continue
		}

		content, err := fs.ReadFile(m.files, version)
		if err != nil {
			return applied, fmt.Errorf("failed to read %s: %w", version, err)
		}

		log.Info("applying migration", zap.String("version", version))
		if _, err := m.db.ExecContext(ctx, Section(string(content), "Up")); err != nil {
			return applied, fmt.Errorf("migration failed (%s): %w", version, err)
		}
		if _, err := m.db.ExecContext(ctx,
			`INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
			return applied, fmt.Errorf("failed to record migration version: %w", err)
		}
		applied = append(applied, version)
	}
	return applied, nil
}

// Down rolls back the most recently applied migration. It returns "" when
// nothing has been applied.
func (m *Migrator) Down(ctx context.Context) (string, error) {
	var last string
	err := m.db.QueryRowContext(ctx,
		`SELECT version FROM schema_migrations ORDER BY applied_at DESC, version DESC LIMIT 1`,
	).Scan(&last)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get last applied migration: %w", err)
	}

	content, err := fs.ReadFile(m.files, last)
	if err != nil {
		return "", fmt.Errorf("migration file not found for version %s: %w", last, err)
	}

	logger.FromCtx(ctx).Info("rolling back migration", zap.String("version", last))
	if _, err := m.db.ExecContext(ctx, Section(string(content), "Down")); err != nil {
		return "", fmt.Errorf("rollback failed (%s): %w", last, err)
	}
	if _, err := m.db.ExecContext(ctx,
		`DELETE FROM schema_migrations WHERE version = $1`, last); err != nil {
		return "", fmt.Errorf("failed to remove migration record: %w", err)
	}
	return last, nil
}

// Section returns the statements between "-- +migrate <name>" and the next
// marker.
func Section(content, name string) string {
	var part strings.Builder
	var in bool

	for _, line := range strings.Split(content, "\n") {
		if strings.Contains(line, "-- +migrate "+name) {
			in = true
			continue
		}
		if in && strings.HasPrefix(line, "-- +migrate") {
			break
		}
		if in {
			part.WriteString(line + "\n")
		}
	}
	return part.String()
}
