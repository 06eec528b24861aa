// Package dialect provides database-specific SQL generation.
// This file contains shared helper functions used by all dialect implementations.
package dialect

import (
	"strings"

	"github.com/hlop3z/fkmig/internal/alerr"
	"github.com/hlop3z/fkmig/internal/ast"
)

// QuoteIdentFunc is a function that quotes an identifier.
type QuoteIdentFunc func(name string) string

// quoteWith doubles every occurrence of q inside name and wraps it in q.
func quoteWith(q, name string) string {
	return q + strings.ReplaceAll(name, q, q+q) + q
}

// -----------------------------------------------------------------------------
// Referential actions
// -----------------------------------------------------------------------------

// normalizeActionKeyword maps an information_schema / PRAGMA action keyword
// to an ast.Action. NO ACTION, SET DEFAULT and unknown values are ActionNone.
func normalizeActionKeyword(raw string) ast.Action {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "RESTRICT":
		return ast.ActionRestrict
	case "CASCADE":
		return ast.ActionCascade
	case "SET NULL":
		return ast.ActionNullify
	default:
		return ast.ActionNone
	}
}

// writeAction writes " ON <event> <keyword>" unless the action is none.
func writeAction(b *strings.Builder, event string, action ast.Action) {
	if action.IsNone() {
		return
	}
	b.WriteString(" ON ")
	b.WriteString(event)
	b.WriteString(" ")
	b.WriteString(action.Keyword())
}

// -----------------------------------------------------------------------------
// Foreign keys
// -----------------------------------------------------------------------------

// buildForeignKeyConstraintSQL generates the constraint clause shared by
// ALTER TABLE ADD and inline CREATE TABLE definitions.
// CONSTRAINT "name" FOREIGN KEY ("column") REFERENCES "to" ("pk") [ON DELETE ..] [ON UPDATE ..]
func buildForeignKeyConstraintSQL(fk ast.ForeignKey, quoteIdent QuoteIdentFunc) string {
	var b strings.Builder

	if fk.Name != "" {
		b.WriteString("CONSTRAINT ")
		b.WriteString(quoteIdent(fk.Name))
		b.WriteString(" ")
	}

	b.WriteString("FOREIGN KEY (")
	b.WriteString(quoteIdent(fk.Column))
	b.WriteString(") REFERENCES ")
	b.WriteString(quoteIdent(fk.ToTable))
	b.WriteString(" (")
	b.WriteString(quoteIdent(fk.PrimaryKey))
	b.WriteString(")")

	writeAction(&b, "DELETE", fk.OnDelete)
	writeAction(&b, "UPDATE", fk.OnUpdate)

	return b.String()
}

// buildAddForeignKeySQL generates ALTER TABLE ADD CONSTRAINT SQL.
func buildAddForeignKeySQL(fk ast.ForeignKey, quoteIdent QuoteIdentFunc) (string, error) {
	if err := fk.Validate(); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("ALTER TABLE ")
	b.WriteString(quoteIdent(fk.FromTable))
	b.WriteString(" ADD ")
	b.WriteString(buildForeignKeyConstraintSQL(fk, quoteIdent))
	return b.String(), nil
}

// buildDropForeignKeySQL generates ALTER TABLE DROP SQL. dropKeyword is
// "CONSTRAINT" for PostgreSQL and "FOREIGN KEY" for MySQL.
func buildDropForeignKeySQL(fk ast.ForeignKey, quoteIdent QuoteIdentFunc, dropKeyword string) (string, error) {
	if fk.FromTable == "" || fk.Name == "" {
		return "", alerr.New(alerr.ErrInvalidIdentifier, "table and constraint name are required to drop a foreign key").
			WithTable(fk.FromTable)
	}

	var b strings.Builder
	b.WriteString("ALTER TABLE ")
	b.WriteString(quoteIdent(fk.FromTable))
	b.WriteString(" DROP ")
	b.WriteString(dropKeyword)
	b.WriteString(" ")
	b.WriteString(quoteIdent(fk.Name))
	return b.String(), nil
}

// -----------------------------------------------------------------------------
// Tables
// -----------------------------------------------------------------------------

// buildColumnTypeSQL maps the portable type names every dialect shares.
func buildColumnTypeSQL(typeName string, overrides map[string]string) string {
	key := strings.ToLower(typeName)
	if t, ok := overrides[key]; ok {
		return t
	}
	switch key {
	case "integer", "references":
		return "INTEGER"
	case "bigint":
		return "BIGINT"
	case "string":
		return "VARCHAR(255)"
	case "text":
		return "TEXT"
	case "boolean":
		return "BOOLEAN"
	default:
		return typeName
	}
}

// buildColumnDefSQL generates a column definition: "name" TYPE [NOT NULL] [PRIMARY KEY].
func buildColumnDefSQL(col ast.ColumnDef, quoteIdent QuoteIdentFunc, typeSQL func(string) string) string {
	var b strings.Builder
	b.WriteString(quoteIdent(col.Name))
	b.WriteString(" ")
	b.WriteString(typeSQL(col.Type))
	if col.NotNull && !col.PrimaryKey {
		b.WriteString(" NOT NULL")
	}
	if col.PrimaryKey {
		b.WriteString(" PRIMARY KEY")
	}
	return b.String()
}

// buildCreateTableSQL generates CREATE TABLE SQL. The implicit id column,
// when present, comes first.
func buildCreateTableSQL(op *ast.CreateTable, quoteIdent QuoteIdentFunc, tm TypeMapper) (string, error) {
	if err := op.Validate(); err != nil {
		return "", err
	}

	var defs []string
	if id := op.IDColumn(); id != "" {
		defs = append(defs, tm.IDColumnSQL(id))
	}
	for _, col := range op.Columns {
		defs = append(defs, buildColumnDefSQL(col, quoteIdent, tm.ColumnType))
	}
	for _, fk := range op.ForeignKeys {
		defs = append(defs, buildForeignKeyConstraintSQL(fk, quoteIdent))
	}

	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	if op.IfNotExists {
		b.WriteString("IF NOT EXISTS ")
	}
	b.WriteString(quoteIdent(op.Name))
	b.WriteString(" (\n")
	for i, def := range defs {
		if i > 0 {
			b.WriteString(",\n")
		}
		b.WriteString("  ")
		b.WriteString(def)
	}
	b.WriteString("\n)")
	return b.String(), nil
}

// buildDropTableSQL generates DROP TABLE SQL.
func buildDropTableSQL(op *ast.DropTable, quoteIdent QuoteIdentFunc) (string, error) {
	if err := op.Validate(); err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("DROP TABLE ")
	if op.IfExists {
		b.WriteString("IF EXISTS ")
	}
	b.WriteString(quoteIdent(op.Name))
	return b.String(), nil
}
