// Package schemadump writes foreign keys as add_foreign_key lines and reads
// such lines back, so a dumped schema can be loaded into another database.
//
// One line per key:
//
//	add_foreign_key "astronauts", "rockets", column: "rocket_id", primary_key: "id", name: "astronauts_rocket_id_fk", on_update: :cascade, on_delete: :nullify
//
// on_update and on_delete are omitted when the action is none.
package schemadump

import (
	"context"
	"strconv"
	"strings"

	"github.com/hlop3z/fkmig/internal/ast"
	"github.com/hlop3z/fkmig/internal/engine"
	"github.com/hlop3z/fkmig/internal/introspect"
)

const keyword = "add_foreign_key"

// -----------------------------------------------------------------------------
// Dump
// -----------------------------------------------------------------------------

// Line renders one foreign key.
func Line(fk ast.ForeignKey) string {
	var b strings.Builder
	b.WriteString(keyword)
	b.WriteString(" ")
	b.WriteString(strconv.Quote(fk.FromTable))
	b.WriteString(", ")
	b.WriteString(strconv.Quote(fk.ToTable))
	writeString(&b, "column", fk.Column)
	writeString(&b, "primary_key", fk.PrimaryKey)
	writeString(&b, "name", fk.Name)
	writeAction(&b, "on_update", fk.OnUpdate)
	writeAction(&b, "on_delete", fk.OnDelete)
	return b.String()
}

func writeString(b *strings.Builder, key, value string) {
	if value == "" {
		return
	}
	b.WriteString(", ")
	b.WriteString(key)
	b.WriteString(": ")
	b.WriteString(strconv.Quote(value))
}

func writeAction(b *strings.Builder, key string, action ast.Action) {
	if action.IsNone() {
		return
	}
	b.WriteString(", ")
	b.WriteString(key)
	b.WriteString(": :")
	b.WriteString(string(action))
}

// Dump renders fks one per line, in the given order. The result ends with
// a newline unless fks is empty.
func Dump(fks []ast.ForeignKey) string {
	var b strings.Builder
	for _, fk := range fks {
		b.WriteString(Line(fk))
		b.WriteString("\n")
	}
	return b.String()
}

// DumpTables introspects the foreign keys of each table and dumps them,
// tables in the given order.
func DumpTables(ctx context.Context, in introspect.Introspector, tables ...string) (string, error) {
	var all []ast.ForeignKey
	for _, table := range tables {
		fks, err := in.ForeignKeys(ctx, table)
		if err != nil {
			return "", err
		}
		all = append(all, fks...)
	}
	return Dump(all), nil
}

// -----------------------------------------------------------------------------
// Load
// -----------------------------------------------------------------------------

// Load parses text and adds every key through conn, stopping at the first
// failure.
func Load(ctx context.Context, conn *engine.Connection, text string) error {
	ops, err := Parse(text)
	if err != nil {
		return err
	}
	for _, op := range ops {
		if err := conn.AddForeignKey(ctx, op.From, op.To, op.Options); err != nil {
			return err
		}
	}
	return nil
}
