package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/yigit/unirecords/internal/pkg/logger"
)

// migrationsDir is the directory of SQL files inside Files
const migrationsDir = "sql"

// Files holds the versioned schema migrations
//
//go:embed sql/*.sql
var Files embed.FS

// Migrator applies the embedded migrations with goose
type Migrator struct {
	db *sql.DB
}

// NewMigrator creates a migrator over a *sql.DB opened from pool. The pool
// itself stays owned by the caller.
func NewMigrator(pool *pgxpool.Pool) (*Migrator, error) {
	goose.SetBaseFS(Files)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}

	return &Migrator{db: stdlib.OpenDBFromPool(pool)}, nil
}

// Run applies all pending migrations
func (m *Migrator) Run(ctx context.Context) error {
	logger.Info().Msg("Applying database migrations")

	if err := goose.UpContext(ctx, m.db, migrationsDir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, err := m.Version(ctx)
	if err != nil {
		return err
	}
	logger.Info().Int64("version", version).Msg("Migrations applied successfully")
	return nil
}

// Version returns the current schema version
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	version, err := goose.GetDBVersionContext(ctx, m.db)
	if err != nil {
		return 0, fmt.Errorf("get migration version: %w", err)
	}
	return version, nil
}

// Close closes the migrator's *sql.DB handle
func (m *Migrator) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
