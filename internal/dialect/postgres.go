package dialect

import (
	"strconv"

	"github.com/hlop3z/fkmig/internal/ast"
)

// postgresMaxIdentifierLength is NAMEDATALEN - 1.
const postgresMaxIdentifierLength = 63

// postgres implements the Dialect interface for PostgreSQL.
type postgres struct{}

// Postgres returns the PostgreSQL dialect implementation.
func Postgres() Dialect {
	return &postgres{}
}

func (d *postgres) Name() string {
	return "postgres"
}

// -----------------------------------------------------------------------------
// Identifiers
// -----------------------------------------------------------------------------

func (d *postgres) QuoteIdent(name string) string {
	return quoteWith(`"`, name)
}

func (d *postgres) Placeholder(index int) string {
	return "$" + strconv.Itoa(index)
}

// -----------------------------------------------------------------------------
// Feature support
// -----------------------------------------------------------------------------

func (d *postgres) MaxIdentifierLength() int {
	return postgresMaxIdentifierLength
}

func (d *postgres) SupportsAlterForeignKeys() bool {
	return true
}

func (d *postgres) ImplicitRestrict() bool {
	return false
}

// NormalizeAction accepts the single-letter codes of pg_constraint
// (confdeltype/confupdtype) as well as keywords.
func (d *postgres) NormalizeAction(raw string) ast.Action {
	switch raw {
	case "r":
		return ast.ActionRestrict
	case "c":
		return ast.ActionCascade
	case "n":
		return ast.ActionNullify
	case "a", "d":
		return ast.ActionNone
	}
	return normalizeActionKeyword(raw)
}

// -----------------------------------------------------------------------------
// Type mappings
// -----------------------------------------------------------------------------

func (d *postgres) ColumnType(typeName string) string {
	return buildColumnTypeSQL(typeName, nil)
}

func (d *postgres) IDColumnSQL(name string) string {
	return d.QuoteIdent(name) + " SERIAL PRIMARY KEY"
}

// -----------------------------------------------------------------------------
// SQL generation
// -----------------------------------------------------------------------------

func (d *postgres) CreateTableSQL(op *ast.CreateTable) (string, error) {
	return buildCreateTableSQL(op, d.QuoteIdent, d)
}

func (d *postgres) DropTableSQL(op *ast.DropTable) (string, error) {
	return buildDropTableSQL(op, d.QuoteIdent)
}

func (d *postgres) AddForeignKeySQL(fk ast.ForeignKey) (string, error) {
	return buildAddForeignKeySQL(fk, d.QuoteIdent)
}

func (d *postgres) DropForeignKeySQL(fk ast.ForeignKey) (string, error) {
	return buildDropForeignKeySQL(fk, d.QuoteIdent, "CONSTRAINT")
}
