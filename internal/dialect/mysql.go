package dialect

import (
	"github.com/hlop3z/fkmig/internal/ast"
)

const mysqlMaxIdentifierLength = 64

// mysql implements the Dialect interface for MySQL (InnoDB).
type mysql struct{}

// MySQL returns the MySQL dialect implementation.
func MySQL() Dialect {
	return &mysql{}
}

func (d *mysql) Name() string {
	return "mysql"
}

// -----------------------------------------------------------------------------
// Identifiers
// -----------------------------------------------------------------------------

func (d *mysql) QuoteIdent(name string) string {
	return quoteWith("`", name)
}

func (d *mysql) Placeholder(index int) string {
	return "?"
}

// -----------------------------------------------------------------------------
// Feature support
// -----------------------------------------------------------------------------

func (d *mysql) MaxIdentifierLength() int {
	return mysqlMaxIdentifierLength
}

func (d *mysql) SupportsAlterForeignKeys() bool {
	return true
}

// ImplicitRestrict is true: InnoDB treats RESTRICT and NO ACTION alike, and
// the catalog cannot tell a requested RESTRICT from the default.
func (d *mysql) ImplicitRestrict() bool {
	return true
}

func (d *mysql) NormalizeAction(raw string) ast.Action {
	action := normalizeActionKeyword(raw)
	if action == ast.ActionRestrict {
		return ast.ActionNone
	}
	return action
}

// -----------------------------------------------------------------------------
// Type mappings
// -----------------------------------------------------------------------------

var mysqlTypeOverrides = map[string]string{
	"integer":    "INT",
	"references": "INT",
	"boolean":    "TINYINT(1)",
}

func (d *mysql) ColumnType(typeName string) string {
	return buildColumnTypeSQL(typeName, mysqlTypeOverrides)
}

func (d *mysql) IDColumnSQL(name string) string {
	return d.QuoteIdent(name) + " INT AUTO_INCREMENT PRIMARY KEY"
}

// -----------------------------------------------------------------------------
// SQL generation
// -----------------------------------------------------------------------------

func (d *mysql) CreateTableSQL(op *ast.CreateTable) (string, error) {
	sql, err := buildCreateTableSQL(op, d.QuoteIdent, d)
	if err != nil {
		return "", err
	}
	return sql + " ENGINE=InnoDB", nil
}

func (d *mysql) DropTableSQL(op *ast.DropTable) (string, error) {
	return buildDropTableSQL(op, d.QuoteIdent)
}

func (d *mysql) AddForeignKeySQL(fk ast.ForeignKey) (string, error) {
	return buildAddForeignKeySQL(fk, d.QuoteIdent)
}

// DropForeignKeySQL uses MySQL's DROP FOREIGN KEY form.
func (d *mysql) DropForeignKeySQL(fk ast.ForeignKey) (string, error) {
	return buildDropForeignKeySQL(fk, d.QuoteIdent, "FOREIGN KEY")
}
