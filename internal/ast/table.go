package ast

import (
	"regexp"

	"github.com/hlop3z/fkmig/internal/alerr"
)

// Validation messages shared by the table-level operations.
const (
	msgTableNameRequired  = "table name is required"
	msgColumnNameRequired = "column name is required"
)

// DefaultPrimaryKey is the implicit primary-key column of a created table.
const DefaultPrimaryKey = "id"

// validIdentifierPattern matches identifiers that need no special handling
// beyond quoting.
var validIdentifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*$`)

// ValidateIdentifier checks that a name is a plain SQL identifier.
func ValidateIdentifier(name string) error {
	if name == "" {
		return alerr.New(alerr.ErrInvalidIdentifier, "identifier is required")
	}
	if !validIdentifierPattern.MatchString(name) {
		return alerr.Newf(alerr.ErrInvalidIdentifier,
			"invalid identifier %q; must match [A-Za-z_][A-Za-z0-9_$]*", name)
	}
	return nil
}

// ColumnDef is a column of a created table. Type is a portable type name
// (integer, bigint, string, text, boolean) or a raw SQL type passed through.
// Columns allow NULL unless NotNull is set.
type ColumnDef struct {
	Name       string
	Type       string
	NotNull    bool
	PrimaryKey bool
}

// Validate checks that the column definition is well-formed.
func (c ColumnDef) Validate() error {
	if c.Name == "" {
		return alerr.New(alerr.ErrInvalidIdentifier, msgColumnNameRequired)
	}
	if err := ValidateIdentifier(c.Name); err != nil {
		return err
	}
	if c.Type == "" {
		return alerr.New(alerr.ErrInvalidOption, "column type is required").WithColumn(c.Name)
	}
	return nil
}
