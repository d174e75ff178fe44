package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// Migrate applies pending up migrations for the database engine.
func (db *DB) Migrate(log *zap.Logger) error {
	src, err := iofs.New(migrationsFS, "migrations/"+db.driver)
	if err != nil {
		return fmt.Errorf("storage: migrations source: %w", err)
	}

	var (
		drv      database.Driver
		closeRun func() error
	)

	switch db.driver {
	case DriverPostgres:
		// The postgres driver closes its *sql.DB on Close, so it gets its own.
		mdb, err := sql.Open("pgx", db.dsn)
		if err != nil {
			return fmt.Errorf("storage: migrations db: %w", err)
		}
		drv, err = migratepg.WithInstance(mdb, &migratepg.Config{})
		if err != nil {
			_ = mdb.Close()
			return fmt.Errorf("storage: migrations driver: %w", err)
		}
		closeRun = drv.Close
	case DriverSQLite:
		// Shares the single connection; an in-memory database would not
		// survive a second one.
		drv, err = migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
		if err != nil {
			return fmt.Errorf("storage: migrations driver: %w", err)
		}
		closeRun = func() error { return nil }
	default:
		return fmt.Errorf("storage: unsupported driver %q", db.driver)
	}
	defer func() { _ = closeRun() }()

	m, err := migrate.NewWithInstance("iofs", src, db.driver, drv)
	if err != nil {
		return fmt.Errorf("storage: migrate init: %w", err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("storage: migrate up: %w", err)
	}

	if log != nil {
		version, _, _ := m.Version()
		log.Info("migrations applied", zap.String("driver", db.driver), zap.Uint("version", version))
	}
	return nil
}
