// Package dialect provides database-specific SQL generation.
// Each dialect implements identifier quoting, type mappings, referential
// action normalization, and the DDL fkmig executes.
package dialect

import (
	"github.com/hlop3z/fkmig/internal/alerr"
	"github.com/hlop3z/fkmig/internal/ast"
)

// SQLFormatter quotes identifiers and formats parameters.
type SQLFormatter interface {
	// QuoteIdent quotes an identifier (table/column/constraint name).
	// PostgreSQL/SQLite: "name"
	// MySQL: `name`
	QuoteIdent(name string) string

	// Placeholder returns a parameter placeholder for the given index (1-based).
	// PostgreSQL: $1, $2, $3, ...
	// MySQL/SQLite: ?, ?, ?, ...
	Placeholder(index int) string
}

// FeatureDetector reports the capabilities and limits of a backend.
type FeatureDetector interface {
	// MaxIdentifierLength returns the longest constraint name the backend
	// accepts. PostgreSQL: 63, MySQL: 64, SQLite: 64 (no hard limit).
	MaxIdentifierLength() int

	// SupportsAlterForeignKeys reports whether foreign keys can be added to
	// and dropped from an existing table. SQLite: false.
	SupportsAlterForeignKeys() bool

	// ImplicitRestrict reports whether RESTRICT is the backend's default
	// action, in which case the catalog reports it as no action. MySQL: true.
	ImplicitRestrict() bool

	// NormalizeAction maps a catalog action (keyword or code) to an ast.Action.
	NormalizeAction(raw string) ast.Action
}

// TypeMapper maps portable column type names to SQL.
type TypeMapper interface {
	// ColumnType returns the SQL type for a portable name (integer, bigint,
	// string, text, boolean). Unknown names are passed through verbatim.
	ColumnType(typeName string) string

	// IDColumnSQL returns the definition of an auto-incrementing integer
	// primary-key column.
	IDColumnSQL(name string) string
}

// DDLGenerator renders schema-changing statements.
type DDLGenerator interface {
	// CreateTableSQL generates CREATE TABLE statement.
	CreateTableSQL(op *ast.CreateTable) (string, error)

	// DropTableSQL generates DROP TABLE statement.
	DropTableSQL(op *ast.DropTable) (string, error)

	// AddForeignKeySQL generates ALTER TABLE ADD CONSTRAINT FOREIGN KEY statement.
	AddForeignKeySQL(fk ast.ForeignKey) (string, error)

	// DropForeignKeySQL generates ALTER TABLE DROP CONSTRAINT/FOREIGN KEY statement.
	DropForeignKeySQL(fk ast.ForeignKey) (string, error)
}

// Dialect defines the interface for database-specific SQL generation.
// Implementations exist for PostgreSQL, MySQL and SQLite.
type Dialect interface {
	// Name returns the dialect name (postgres, mysql, sqlite).
	Name() string

	SQLFormatter
	FeatureDetector
	TypeMapper
	DDLGenerator
}

// Get returns the dialect implementation for the given name.
// Valid names: "postgres", "postgresql", "mysql", "sqlite", "sqlite3".
// Returns nil if the dialect is not supported.
func Get(name string) Dialect {
	switch name {
	case "postgres", "postgresql":
		return Postgres()
	case "mysql":
		return MySQL()
	case "sqlite", "sqlite3":
		return SQLite()
	default:
		return nil
	}
}

// Lookup is like Get but returns an EUnsupportedDialect error for unknown names.
func Lookup(name string) (Dialect, error) {
	d := Get(name)
	if d == nil {
		return nil, alerr.Newf(alerr.EUnsupportedDialect, "unsupported dialect %q", name).
			With("supported", Names())
	}
	return d, nil
}

// Names returns the list of supported dialect names.
func Names() []string {
	return []string{"postgres", "mysql", "sqlite"}
}
