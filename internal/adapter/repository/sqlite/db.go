// Package sqlite stores assets in an embedded SQLite database (pure Go driver).
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/simaogato/portfolio-backend/internal/adapter/repository/sqlstore"
	"modernc.org/sqlite" // Pure Go SQLite driver
	sqlite3 "modernc.org/sqlite/lib"
)

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

// DB wraps the database connection
type DB struct {
	*sql.DB
	path string
}

// NewDB opens (creating if needed) the database file at path
func NewDB(path string) (*DB, error) {
	dsn := MemoryPath
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// every connection to :memory: is a separate database; one writer avoids SQLITE_BUSY on files
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db, path: path}, nil
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// NewAssetRepository creates an asset repository backed by SQLite
func NewAssetRepository(db *DB) *sqlstore.AssetRepository {
	return sqlstore.NewAssetRepository(db.DB, Dialect{})
}

// Dialect is the SQLite flavour of sqlstore.Dialect.
// Decimals are kept as TEXT; NUMERIC affinity would coerce them to REAL.
type Dialect struct{}

func (Dialect) Name() string { return "sqlite" }

func (Dialect) Schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS assets (
			id             TEXT PRIMARY KEY,
			owner_id       TEXT NOT NULL,
			asset_type     TEXT NOT NULL CHECK (length(asset_type) <= 10),
			symbol         TEXT NOT NULL CHECK (length(symbol) <= 10),
			name           TEXT NOT NULL CHECK (length(name) <= 100),
			quantity       TEXT NOT NULL CHECK (CAST(quantity AS REAL) > 0),
			purchase_price TEXT NOT NULL CHECK (CAST(purchase_price AS REAL) > 0),
			current_price  TEXT NOT NULL CHECK (CAST(current_price AS REAL) > 0),
			purchase_date  TEXT NOT NULL,
			created_at     TEXT NOT NULL,
			updated_at     TEXT NOT NULL,
			UNIQUE (owner_id, symbol, purchase_date)
		)`,
		`CREATE INDEX IF NOT EXISTS assets_owner_created_idx ON assets (owner_id, created_at DESC)`,
	}
}

func (Dialect) Rebind(query string) string { return query }

func (Dialect) ForUpdate() string { return "" }

func (Dialect) IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
