// Package storage opens the SQL databases backing the user and product
// stores and keeps their schema current.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	PingTimeout  = 1 * time.Second
	QueryTimeout = 3 * time.Second

	connectTimeout = 5 * time.Second
	pgUniqueCode   = "23505"
)

var placeholderRe = regexp.MustCompile(`\$\d+`)

// DB is a *sql.DB that knows which engine it talks to. Queries are written
// with PostgreSQL placeholders and rebound for SQLite.
type DB struct {
	*sql.DB

	driver string
	dsn    string
}

func Open(ctx context.Context, driver, dsn string) (*DB, error) {
	var sqlDriver string
	switch driver {
	case DriverPostgres:
		sqlDriver = "pgx"
	case DriverSQLite:
		sqlDriver = "sqlite"
	default:
		return nil, fmt.Errorf("storage: unsupported driver %q", driver)
	}

	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		// One writer; keeps :memory: databases on a single connection.
		db.SetMaxOpenConns(1)
	}

	pctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: ping %s: %w", driver, err)
	}

	return &DB{DB: db, driver: driver, dsn: dsn}, nil
}

// SQLiteDSN builds a modernc DSN for a database file, or for an in-memory
// database when path is ":memory:".
func SQLiteDSN(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_time_format=sqlite"
}

func (db *DB) Driver() string { return db.driver }

func (db *DB) Rebind(query string) string {
	if db.driver != DriverSQLite {
		return query
	}
	return placeholderRe.ReplaceAllString(query, "?")
}

func (db *DB) Ping(ctx context.Context) error {
	return WithTimeout(ctx, PingTimeout, func(ctx context.Context) error {
		return db.PingContext(ctx)
	})
}

// IsUniqueViolation reports whether err is a unique or primary key conflict.
func (db *DB) IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueCode
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			// Extended result codes off.
			return strings.Contains(liteErr.Error(), "UNIQUE constraint failed")
		}
	}
	return false
}

func WithTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
