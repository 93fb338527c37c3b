package test_utils

import (
	"context"
	"database/sql"
	"testing"

	"github.com/gestfin/gestfin/internal/config"
	"github.com/gestfin/gestfin/internal/database"
)

// NewInMemoryDB creates a new in-memory SQLite database for testing.
// Each database is completely isolated from others.
func NewInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(config.Database{Path: ":memory:", BusyTimeoutMs: 1000})
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// SetupTestDB creates a new in-memory SQLite database and applies all migrations.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db := NewInMemoryDB(t)
	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}

	return db
}
