// Package ast defines the driver-agnostic model for foreign-key schema
// changes: the normalized ForeignKey descriptor, referential actions,
// remove selectors, and the operations the migration layer executes.
package ast

// OpType represents the type of a schema operation.
type OpType int

const (
	// OpCreateTable creates a new table.
	OpCreateTable OpType = iota

	// OpDropTable removes an existing table.
	OpDropTable

	// OpAddForeignKey adds a foreign key constraint.
	OpAddForeignKey

	// OpRemoveForeignKey removes a foreign key constraint chosen by a selector.
	OpRemoveForeignKey

	// OpRawSQL executes raw SQL.
	OpRawSQL
)

// String returns the string representation of an OpType.
func (o OpType) String() string {
	switch o {
	case OpCreateTable:
		return "CreateTable"
	case OpDropTable:
		return "DropTable"
	case OpAddForeignKey:
		return "AddForeignKey"
	case OpRemoveForeignKey:
		return "RemoveForeignKey"
	case OpRawSQL:
		return "RawSQL"
	default:
		return "Unknown"
	}
}
