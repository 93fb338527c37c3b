package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gestfin/gestfin/internal/config"
	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

const memoryPath = ":memory:"

//go:embed migrations/*.sql
var migrations embed.FS

// Open opens the SQLite store at cfg.Path with foreign keys enforced and the
// write-ahead log enabled.
func Open(cfg config.Database) (*sql.DB, error) {
	if cfg.Path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)", cfg.Path, cfg.BusyTimeoutMs)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One local writer. A single pooled connection also keeps an in-memory
	// store alive and shared for the lifetime of the handle.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	var journalMode string
	if err := db.QueryRowContext(ctx, "PRAGMA journal_mode = WAL;").Scan(&journalMode); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable write-ahead log: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA synchronous = NORMAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}
	log.Debugf("opened database %s (journal mode %s)", cfg.Path, journalMode)

	return db, nil
}

// Migrate brings the schema to the latest version. It is safe to call on an
// already migrated store: golang-migrate records the applied version and
// ErrNoChange is treated as success.
func Migrate(ctx context.Context, db *sql.DB) error {
	if err := dropLegacyFamilyTables(ctx, db); err != nil {
		return fmt.Errorf("legacy family migration failed: %w", err)
	}

	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to read embedded migrations: %w", err)
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create sqlite driver: %w", err)
	}
	// The instance is not closed: closing the driver would close db.
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}

	tables, err := DescribeSchema(ctx, db)
	if err != nil {
		return err
	}
	for _, table := range tables {
		log.Debugf("table %s: %v", table.Name, table.ColumnNames())
	}
	return nil
}

// dropLegacyFamilyTables handles stores created before schema versioning,
// when family membership lived in its own family_members table. Both tables
// are dropped without preserving rows; the initial migration recreates
// families in its current shape. Versioned stores are never touched.
func dropLegacyFamilyTables(ctx context.Context, db *sql.DB) error {
	versioned, err := tableExists(ctx, db, "schema_migrations")
	if err != nil {
		return err
	}
	legacy, err := tableExists(ctx, db, "family_members")
	if err != nil {
		return err
	}
	if versioned || !legacy {
		return nil
	}

	log.Warn("unversioned store with family_members found, dropping families and family_members")
	// With foreign keys on, DROP TABLE would first run an implicit DELETE and
	// cascade into every family owned table.
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = OFF;"); err != nil {
		return err
	}
	defer func() {
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON;"); err != nil {
			log.Errorf("could not re-enable foreign keys: %v", err)
		}
	}()
	for _, stmt := range []string{"DROP TABLE IF EXISTS family_members;", "DROP TABLE IF EXISTS families;"} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func tableExists(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("could not look up table %s: %w", name, err)
	}
	return count > 0, nil
}
