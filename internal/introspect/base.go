// Package introspect reads foreign-key, primary-key and table metadata.
// This file contains shared helper functions used by all introspector implementations.
package introspect

import (
	"context"
	"database/sql"

	"github.com/hlop3z/fkmig/internal/alerr"
	"github.com/hlop3z/fkmig/internal/ast"
)

// FKAccumulator collects foreign keys returned row-by-row from a catalog.
// Catalogs return one row per column pair; only the first pair of a
// constraint is kept.
type FKAccumulator struct {
	table     string
	normalize func(string) ast.Action
	fks       map[string]*ast.ForeignKey
	order     []string // preserve insertion order
}

// NewFKAccumulator creates a new FKAccumulator for the foreign keys of table.
// normalize converts raw catalog actions, typically Dialect.NormalizeAction.
func NewFKAccumulator(table string, normalize func(string) ast.Action) *FKAccumulator {
	return &FKAccumulator{
		table:     table,
		normalize: normalize,
		fks:       make(map[string]*ast.ForeignKey),
	}
}

// Add records a catalog row. Rows for a name already seen are ignored.
func (a *FKAccumulator) Add(name, column, refTable, refColumn, onDelete, onUpdate string) {
	if _, exists := a.fks[name]; exists {
		return
	}
	a.fks[name] = &ast.ForeignKey{
		FromTable:  a.table,
		ToTable:    refTable,
		Column:     column,
		PrimaryKey: refColumn,
		Name:       name,
		OnDelete:   a.normalize(onDelete),
		OnUpdate:   a.normalize(onUpdate),
	}
	a.order = append(a.order, name)
}

// Values returns all accumulated foreign keys in insertion order.
// The result is never nil.
func (a *FKAccumulator) Values() []ast.ForeignKey {
	result := make([]ast.ForeignKey, 0, len(a.order))
	for _, name := range a.order {
		result = append(result, *a.fks[name])
	}
	return result
}

// Names returns the names of all accumulated foreign keys in insertion order.
func (a *FKAccumulator) Names() []string {
	return a.order
}

// singleColumn returns the only element of cols, or "" for zero or many.
func singleColumn(cols []string) string {
	if len(cols) != 1 {
		return ""
	}
	return cols[0]
}

// queryStrings runs a query returning one string column per row.
func queryStrings(ctx context.Context, db Querier, op, table, query string, args ...any) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, alerr.WrapSQL(err, op, table)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, alerr.WrapSQL(err, op, table)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, alerr.WrapSQL(err, op, table)
	}
	return values, nil
}

// tableExistsCommon is the shared implementation of TableExists for
// catalogs answering with a boolean.
func tableExistsCommon(ctx context.Context, db Querier, query string, table string) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, query, table).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, alerr.WrapSQL(err, "check table existence", table)
	}
	return exists, nil
}
