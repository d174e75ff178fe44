package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"InventoryAPI/internal/storage"
)

func openSQLite(t *testing.T) *storage.DB {
	t.Helper()

	db, err := storage.Open(context.Background(), storage.DriverSQLite, storage.SQLiteDSN(":memory:"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Migrate(zap.NewNop()))
	return db
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := storage.Open(context.Background(), "mysql", "")
	require.ErrorContains(t, err, "unsupported driver")
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openSQLite(t)

	require.NoError(t, db.Migrate(zap.NewNop()))

	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&n)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRebind(t *testing.T) {
	db := openSQLite(t)

	assert.Equal(t,
		"SELECT id FROM products WHERE id = ? AND name = ?",
		db.Rebind("SELECT id FROM products WHERE id = $1 AND name = $2"),
	)
	assert.Equal(t, storage.DriverSQLite, db.Driver())
}

func TestIsUniqueViolation(t *testing.T) {
	db := openSQLite(t)

	insert := db.Rebind(`INSERT INTO users (id, email, pass_hash, role) VALUES ($1, $2, $3, $4)`)

	_, err := db.Exec(insert, "u_1", "a@example.com", []byte("x"), "user")
	require.NoError(t, err)

	_, err = db.Exec(insert, "u_2", "a@example.com", []byte("x"), "user")
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err))

	assert.False(t, db.IsUniqueViolation(errors.New("boom")))
}

func TestPing(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, db.Ping(context.Background()))
}
