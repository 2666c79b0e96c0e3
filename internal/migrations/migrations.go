// Package migrations applies the embedded MySQL schema.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed sql/*.sql
var migrationFS embed.FS

const migrationsTable = "estate_schema_migrations"

// Source returns the embedded migration files as a golang-migrate source.
func Source() (source.Driver, error) {
	src, err := iofs.New(migrationFS, "sql")
	if err != nil {
		return nil, fmt.Errorf("failed to create source driver: %w", err)
	}
	return src, nil
}

// Up applies every pending migration. An up-to-date schema is not an error.
func Up(db *sql.DB, logger *zap.Logger) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{MigrationsTable: migrationsTable})
	if err != nil {
		return fmt.Errorf("failed to create mysql driver: %w", err)
	}

	src, err := Source()
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("iofs", src, "mysql", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read schema version: %w", err)
	}
	logger.Info("database schema ready", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}
