// Package sqlstore implements domain.AssetRepository on database/sql.
// Engine differences (placeholders, schema, constraint errors) live behind Dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// Dialect describes one SQL engine
type Dialect interface {
	// Name is the driver name, used in logs and errors
	Name() string

	// Schema returns the idempotent DDL statements creating the assets table
	Schema() []string

	// Rebind rewrites ? placeholders into the engine's style
	Rebind(query string) string

	// ForUpdate is appended to the row lock query inside Update
	ForUpdate() string

	// IsUniqueViolation reports whether err is a unique constraint failure
	IsUniqueViolation(err error) bool
}

// Migrate creates the assets table and its indexes if they do not exist yet
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	for i, stmt := range dialect.Schema() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply %s schema statement %d: %w", dialect.Name(), i+1, err)
		}
	}
	return nil
}

// RebindDollar rewrites ? placeholders as $1, $2, ...
func RebindDollar(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
