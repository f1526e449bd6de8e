package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq" // PostgreSQL driver
	"github.com/simaogato/portfolio-backend/internal/adapter/repository/sqlstore"
)

// uniqueViolation is the SQLSTATE of a unique constraint failure
const uniqueViolation = "23505"

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// NewDB creates a new database connection
// connectionString should be in the format: "host=localhost port=5432 user=postgres password=postgres dbname=portfolio sslmode=disable"
func NewDB(connectionString string) (*DB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// NewAssetRepository creates an asset repository backed by PostgreSQL
func NewAssetRepository(db *DB) *sqlstore.AssetRepository {
	return sqlstore.NewAssetRepository(db.DB, Dialect{})
}

// Dialect is the PostgreSQL flavour of sqlstore.Dialect
type Dialect struct{}

func (Dialect) Name() string { return "postgres" }

func (Dialect) Schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS assets (
			id             UUID PRIMARY KEY,
			owner_id       UUID NOT NULL,
			asset_type     VARCHAR(10) NOT NULL,
			symbol         VARCHAR(10) NOT NULL,
			name           VARCHAR(100) NOT NULL,
			quantity       NUMERIC(18, 8) NOT NULL CHECK (quantity > 0),
			purchase_price NUMERIC(18, 2) NOT NULL CHECK (purchase_price > 0),
			current_price  NUMERIC(18, 2) NOT NULL CHECK (current_price > 0),
			purchase_date  DATE NOT NULL,
			created_at     TIMESTAMPTZ NOT NULL,
			updated_at     TIMESTAMPTZ NOT NULL,
			CONSTRAINT assets_owner_symbol_date_key UNIQUE (owner_id, symbol, purchase_date)
		)`,
		`CREATE INDEX IF NOT EXISTS assets_owner_created_idx ON assets (owner_id, created_at DESC)`,
	}
}

func (Dialect) Rebind(query string) string { return sqlstore.RebindDollar(query) }

func (Dialect) ForUpdate() string { return " FOR UPDATE" }

func (Dialect) IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}
