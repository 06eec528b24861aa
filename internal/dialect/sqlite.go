package dialect

import (
	"github.com/hlop3z/fkmig/internal/alerr"
	"github.com/hlop3z/fkmig/internal/ast"
)

// sqliteMaxIdentifierLength is a baseline; SQLite itself imposes no limit.
const sqliteMaxIdentifierLength = 64

// sqlite implements the Dialect interface for SQLite.
// Foreign keys can only be declared inline in CREATE TABLE.
type sqlite struct{}

// SQLite returns the SQLite dialect implementation.
func SQLite() Dialect {
	return &sqlite{}
}

func (d *sqlite) Name() string {
	return "sqlite"
}

// -----------------------------------------------------------------------------
// Identifiers
// -----------------------------------------------------------------------------

func (d *sqlite) QuoteIdent(name string) string {
	return quoteWith(`"`, name)
}

func (d *sqlite) Placeholder(index int) string {
	return "?"
}

// -----------------------------------------------------------------------------
// Feature support
// -----------------------------------------------------------------------------

func (d *sqlite) MaxIdentifierLength() int {
	return sqliteMaxIdentifierLength
}

func (d *sqlite) SupportsAlterForeignKeys() bool {
	return false
}

func (d *sqlite) ImplicitRestrict() bool {
	return false
}

func (d *sqlite) NormalizeAction(raw string) ast.Action {
	return normalizeActionKeyword(raw)
}

// -----------------------------------------------------------------------------
// Type mappings
// -----------------------------------------------------------------------------

var sqliteTypeOverrides = map[string]string{
	"string":  "TEXT",
	"boolean": "INTEGER",
}

func (d *sqlite) ColumnType(typeName string) string {
	return buildColumnTypeSQL(typeName, sqliteTypeOverrides)
}

// IDColumnSQL uses INTEGER PRIMARY KEY, which aliases the rowid.
func (d *sqlite) IDColumnSQL(name string) string {
	return d.QuoteIdent(name) + " INTEGER PRIMARY KEY"
}

// -----------------------------------------------------------------------------
// SQL generation
// -----------------------------------------------------------------------------

func (d *sqlite) CreateTableSQL(op *ast.CreateTable) (string, error) {
	return buildCreateTableSQL(op, d.QuoteIdent, d)
}

func (d *sqlite) DropTableSQL(op *ast.DropTable) (string, error) {
	return buildDropTableSQL(op, d.QuoteIdent)
}

func sqliteUnsupported(msg string, fk ast.ForeignKey) (string, error) {
	return "", alerr.New(alerr.EUnsupportedDialect, msg).
		WithTable(fk.FromTable).
		With("name", fk.Name).
		WithHelp("declare the foreign key inline when creating the table")
}

func (d *sqlite) AddForeignKeySQL(fk ast.ForeignKey) (string, error) {
	return sqliteUnsupported("SQLite does not support ALTER TABLE ADD FOREIGN KEY", fk)
}

func (d *sqlite) DropForeignKeySQL(fk ast.ForeignKey) (string, error) {
	return sqliteUnsupported("SQLite does not support ALTER TABLE DROP FOREIGN KEY", fk)
}
