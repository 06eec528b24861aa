// Package introspect reads foreign-key, primary-key and table metadata from
// the system catalog of a live database and converts it to ast values.
package introspect

import (
	"context"
	"database/sql"

	"github.com/hlop3z/fkmig/internal/ast"
	"github.com/hlop3z/fkmig/internal/dialect"
)

// Querier is the read side of a database handle.
// *sql.DB, *sql.Conn and *sql.Tx all satisfy it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Introspector queries database catalogs to discover schema information.
type Introspector interface {
	// ForeignKeys returns the foreign keys owned by table in catalog order.
	// A table without keys, or a missing table, yields an empty slice.
	// Composite keys are reported by their first column pair.
	ForeignKeys(ctx context.Context, table string) ([]ast.ForeignKey, error)

	// PrimaryKey returns the single primary-key column of table, or "" when
	// the table has no primary key or a composite one.
	PrimaryKey(ctx context.Context, table string) (string, error)

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, table string) (bool, error)
}

// New creates an Introspector for the given dialect.
// Returns nil if the dialect is not supported.
func New(db Querier, d dialect.Dialect) Introspector {
	switch d.Name() {
	case "postgres":
		return &postgresIntrospector{db: db, dialect: d}
	case "mysql":
		return &mysqlIntrospector{db: db, dialect: d}
	case "sqlite":
		return &sqliteIntrospector{db: db, dialect: d}
	default:
		return nil
	}
}
