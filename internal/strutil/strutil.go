// Package strutil provides the naming conventions fkmig uses to derive
// foreign-key columns and constraint names from table identifiers.
package strutil

import (
	"strconv"
	"strings"

	"github.com/jinzhu/inflection"
)

// -----------------------------------------------------------------------------
// Inflection
// -----------------------------------------------------------------------------

// Singularize returns the singular form of a snake_case table name.
// Only the last word is inflected: "space_shuttles" -> "space_shuttle".
func Singularize(table string) string {
	if table == "" {
		return ""
	}
	idx := strings.LastIndex(table, "_")
	if idx == -1 {
		return inflection.Singular(table)
	}
	return table[:idx+1] + inflection.Singular(table[idx+1:])
}

// -----------------------------------------------------------------------------
// Foreign Key Naming
// -----------------------------------------------------------------------------

// ForeignKeyColumn returns the conventional referencing column for a table.
// Example: ForeignKeyColumn("rockets") -> "rocket_id"
// Example: ForeignKeyColumn("cities") -> "city_id"
func ForeignKeyColumn(toTable string) string {
	return Singularize(toTable) + "_id"
}

// ForeignKeyName returns the default constraint name for a foreign key.
// Example: ForeignKeyName("astronauts", "rocket_id") -> "astronauts_rocket_id_fk"
func ForeignKeyName(fromTable, column string) string {
	return fromTable + "_" + column + "_fk"
}

// SyntheticForeignKeyName names a constraint the catalog stores without a
// name (SQLite), from its table and its ordinal in the table.
// Example: SyntheticForeignKeyName("houses", 0) -> "fk_houses_0"
func SyntheticForeignKeyName(table string, ordinal int) string {
	return "fk_" + table + "_" + strconv.Itoa(ordinal)
}

// -----------------------------------------------------------------------------
// Formatting
// -----------------------------------------------------------------------------

// Indent indents each non-empty line of text with the given number of spaces.
func Indent(text string, spaces int) string {
	prefix := strings.Repeat(" ", spaces)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
