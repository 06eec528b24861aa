package ast

import (
	"strings"

	"github.com/hlop3z/fkmig/internal/alerr"
)

// Action is a referential action applied to dependent rows when the
// referenced row is deleted or updated.
type Action string

const (
	// ActionNone is the absence of an ON DELETE / ON UPDATE clause.
	ActionNone Action = ""
	// ActionRestrict renders RESTRICT.
	ActionRestrict Action = "restrict"
	// ActionCascade renders CASCADE.
	ActionCascade Action = "cascade"
	// ActionNullify renders SET NULL.
	ActionNullify Action = "nullify"
)

// Keyword returns the SQL keyword for the action, or "" for ActionNone.
func (a Action) Keyword() string {
	switch a {
	case ActionRestrict:
		return "RESTRICT"
	case ActionCascade:
		return "CASCADE"
	case ActionNullify:
		return "SET NULL"
	default:
		return ""
	}
}

// IsNone reports whether the action renders no clause.
func (a Action) IsNone() bool {
	return a == ActionNone
}

// ParseAction accepts the symbolic names (restrict, cascade, nullify, none,
// optionally written with a leading ':') and the SQL keywords.
func ParseAction(s string) (Action, error) {
	normalized := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), ":")))
	switch normalized {
	case "", "none", "no action":
		return ActionNone, nil
	case "restrict":
		return ActionRestrict, nil
	case "cascade":
		return ActionCascade, nil
	case "nullify", "set null":
		return ActionNullify, nil
	default:
		return ActionNone, alerr.Newf(alerr.ErrInvalidOption,
			"unknown referential action %q; expected one of restrict, cascade, nullify", s)
	}
}

// ForeignKey is the normalized description of a single-column foreign-key
// constraint. Values returned by introspection are point-in-time snapshots.
type ForeignKey struct {
	FromTable  string
	ToTable    string
	Column     string
	PrimaryKey string
	Name       string
	OnDelete   Action
	OnUpdate   Action
}

// Validate checks that every identifier of the descriptor is present.
func (fk ForeignKey) Validate() error {
	required := []struct{ field, value string }{
		{"from_table", fk.FromTable},
		{"to_table", fk.ToTable},
		{"column", fk.Column},
		{"primary_key", fk.PrimaryKey},
		{"name", fk.Name},
	}
	for _, r := range required {
		if r.value == "" {
			return alerr.Newf(alerr.ErrInvalidIdentifier, "foreign key %s is required", r.field).
				WithTable(fk.FromTable)
		}
	}
	return nil
}

// ForeignKeyOptions are the caller-supplied options of add_foreign_key.
// Empty fields are defaulted by the migration layer.
type ForeignKeyOptions struct {
	Column     string
	PrimaryKey string
	Name       string
	OnDelete   Action
	OnUpdate   Action
}

// -----------------------------------------------------------------------------
// Selector - chooses the constraint remove_foreign_key drops
// -----------------------------------------------------------------------------

// Selector identifies one foreign key of a table. The implementations are
// ByTable, ByColumn and ByName.
type Selector interface {
	// Describe returns a short human-readable form used in messages.
	Describe() string
	isSelector()
}

// ByTable selects the key whose column is inferred from the referenced table.
type ByTable struct {
	Table string
}

// ByColumn selects the key on a local column.
type ByColumn struct {
	Column string
}

// ByName selects the key with the given constraint name.
type ByName struct {
	Name string
}

func (s ByTable) Describe() string  { return "to_table: " + s.Table }
func (s ByColumn) Describe() string { return "column: " + s.Column }
func (s ByName) Describe() string   { return "name: " + s.Name }

func (ByTable) isSelector()  {}
func (ByColumn) isSelector() {}
func (ByName) isSelector()   {}

// ValidateSelector rejects nil and empty selectors.
func ValidateSelector(s Selector) error {
	var value string
	switch sel := s.(type) {
	case ByTable:
		value = sel.Table
	case ByColumn:
		value = sel.Column
	case ByName:
		value = sel.Name
	default:
		return alerr.New(alerr.ErrInvalidOption, "remove_foreign_key requires a table, column or name selector")
	}
	if value == "" {
		return alerr.Newf(alerr.ErrInvalidOption, "remove_foreign_key selector %q is empty", s.Describe())
	}
	return nil
}
