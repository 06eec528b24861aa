package ast

import (
	"github.com/hlop3z/fkmig/internal/alerr"
)

// Operation represents a single atomic change to the database schema.
type Operation interface {
	// Type returns the operation type (OpCreateTable, OpAddForeignKey, etc.)
	Type() OpType

	// Table returns the table the operation targets, or "" for RawSQL.
	Table() string

	// Validate checks that the operation is well-formed.
	Validate() error
}

// -----------------------------------------------------------------------------
// CreateTable - creates a new table
// -----------------------------------------------------------------------------

// CreateTable creates a table. Unless NoID is set, an integer primary-key
// column named PrimaryKey (default "id") is prepended to Columns.
type CreateTable struct {
	Name        string
	PrimaryKey  string
	NoID        bool
	Columns     []ColumnDef
	ForeignKeys []ForeignKey // declared inline, the only form SQLite accepts
	IfNotExists bool
}

func (op *CreateTable) Type() OpType  { return OpCreateTable }
func (op *CreateTable) Table() string { return op.Name }

// IDColumn returns the name of the implicit primary-key column, or "" when
// the table is created without one.
func (op *CreateTable) IDColumn() string {
	if op.NoID {
		return ""
	}
	if op.PrimaryKey != "" {
		return op.PrimaryKey
	}
	return DefaultPrimaryKey
}

func (op *CreateTable) Validate() error {
	if op.Name == "" {
		return alerr.New(alerr.ErrInvalidIdentifier, msgTableNameRequired)
	}
	if err := ValidateIdentifier(op.Name); err != nil {
		return err
	}
	if op.NoID && len(op.Columns) == 0 {
		return alerr.New(alerr.ErrInvalidOption, "table without id must have at least one column").
			WithTable(op.Name)
	}
	seen := make(map[string]bool, len(op.Columns)+1)
	if id := op.IDColumn(); id != "" {
		seen[id] = true
	}
	for _, col := range op.Columns {
		if err := col.Validate(); err != nil {
			return alerr.Wrap(alerr.ErrInvalidOption, err, "invalid column").
				WithTable(op.Name).
				WithColumn(col.Name)
		}
		if seen[col.Name] {
			return alerr.New(alerr.ErrInvalidOption, "duplicate column").
				WithTable(op.Name).
				WithColumn(col.Name)
		}
		seen[col.Name] = true
	}
	for _, fk := range op.ForeignKeys {
		if err := fk.Validate(); err != nil {
			return alerr.Wrap(alerr.ErrInvalidOption, err, "invalid foreign key").
				WithTable(op.Name)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// DropTable - removes an existing table
// -----------------------------------------------------------------------------

// DropTable represents dropping an existing table.
type DropTable struct {
	Name     string
	IfExists bool
}

func (op *DropTable) Type() OpType  { return OpDropTable }
func (op *DropTable) Table() string { return op.Name }

func (op *DropTable) Validate() error {
	if op.Name == "" {
		return alerr.New(alerr.ErrInvalidIdentifier, "table name is required for drop")
	}
	return nil
}

// -----------------------------------------------------------------------------
// AddForeignKey - adds a foreign key constraint
// -----------------------------------------------------------------------------

// AddForeignKey adds a constraint from From to To. Options left empty are
// defaulted when the operation is applied.
type AddForeignKey struct {
	From    string
	To      string
	Options ForeignKeyOptions
}

func (op *AddForeignKey) Type() OpType  { return OpAddForeignKey }
func (op *AddForeignKey) Table() string { return op.From }

func (op *AddForeignKey) Validate() error {
	if op.From == "" {
		return alerr.New(alerr.ErrInvalidIdentifier, msgTableNameRequired)
	}
	if op.To == "" {
		return alerr.New(alerr.ErrInvalidIdentifier, "foreign key must reference a table").
			WithTable(op.From)
	}
	return nil
}

// -----------------------------------------------------------------------------
// RemoveForeignKey - removes a foreign key constraint
// -----------------------------------------------------------------------------

// RemoveForeignKey drops the single constraint of From matched by Selector.
type RemoveForeignKey struct {
	From     string
	Selector Selector
}

func (op *RemoveForeignKey) Type() OpType  { return OpRemoveForeignKey }
func (op *RemoveForeignKey) Table() string { return op.From }

func (op *RemoveForeignKey) Validate() error {
	if op.From == "" {
		return alerr.New(alerr.ErrInvalidIdentifier, msgTableNameRequired)
	}
	return ValidateSelector(op.Selector)
}

// -----------------------------------------------------------------------------
// RawSQL - executes raw SQL
// -----------------------------------------------------------------------------

// RawSQL executes a statement verbatim.
type RawSQL struct {
	SQL string
}

func (op *RawSQL) Type() OpType  { return OpRawSQL }
func (op *RawSQL) Table() string { return "" }

func (op *RawSQL) Validate() error {
	if op.SQL == "" {
		return alerr.New(alerr.ErrInvalidOption, "SQL statement is required")
	}
	return nil
}
