package engine

import (
	"github.com/hlop3z/fkmig/internal/ast"
	"github.com/hlop3z/fkmig/internal/strutil"
)

// Direction indicates whether a migration runs up (apply) or down (revert).
type Direction int

const (
	// Up applies the forward operations in declaration order.
	Up Direction = iota
	// Down applies the inverse operations in reverse declaration order.
	Down
)

// String returns the string representation of the direction.
func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// Change pairs a forward operation with the operation that undoes it.
// Inverse is nil when the change cannot be reverted.
type Change struct {
	Forward ast.Operation
	Inverse ast.Operation
}

// Reversible reports whether the change has an inverse.
func (c Change) Reversible() bool {
	return c.Inverse != nil
}

// Migration is an ordered list of changes. Inverses are derived when each
// change is declared, never from the database at run time.
type Migration struct {
	Name    string
	Changes []Change
}

// NewMigration starts an empty migration.
func NewMigration(name string) *Migration {
	return &Migration{Name: name}
}

func (m *Migration) add(forward, inverse ast.Operation) *Migration {
	m.Changes = append(m.Changes, Change{Forward: forward, Inverse: inverse})
	return m
}

// CreateTable declares a table; its inverse drops it.
func (m *Migration) CreateTable(op *ast.CreateTable) *Migration {
	return m.add(op, &ast.DropTable{Name: op.Name, IfExists: true})
}

// DropTable declares an irreversible table drop.
func (m *Migration) DropTable(op *ast.DropTable) *Migration {
	return m.add(op, nil)
}

// AddForeignKey declares a foreign key. The inverse removes it by the name
// the key will be created with, so reverting never guesses.
func (m *Migration) AddForeignKey(from, to string, opts ast.ForeignKeyOptions) *Migration {
	name := opts.Name
	if name == "" {
		column := opts.Column
		if column == "" {
			column = strutil.ForeignKeyColumn(to)
		}
		name = strutil.ForeignKeyName(from, column)
	}
	return m.add(
		&ast.AddForeignKey{From: from, To: to, Options: opts},
		&ast.RemoveForeignKey{From: from, Selector: ast.ByName{Name: name}},
	)
}

// RemoveForeignKey declares an irreversible foreign-key removal.
func (m *Migration) RemoveForeignKey(from string, sel ast.Selector) *Migration {
	return m.add(&ast.RemoveForeignKey{From: from, Selector: sel}, nil)
}

// Execute declares an irreversible raw statement.
func (m *Migration) Execute(stmt string) *Migration {
	return m.add(&ast.RawSQL{SQL: stmt}, nil)
}

// Reversible declares an explicit pair of operations.
func (m *Migration) Reversible(up, down ast.Operation) *Migration {
	return m.add(up, down)
}

// Operations returns the operations run in the given direction, in the
// order they run. For Down, changes without an inverse are skipped.
func (m *Migration) Operations(dir Direction) []ast.Operation {
	ops := make([]ast.Operation, 0, len(m.Changes))
	if dir == Up {
		for _, c := range m.Changes {
			ops = append(ops, c.Forward)
		}
		return ops
	}
	for i := len(m.Changes) - 1; i >= 0; i-- {
		if c := m.Changes[i]; c.Inverse != nil {
			ops = append(ops, c.Inverse)
		}
	}
	return ops
}

// irreversible returns the index of the first change without an inverse, or -1.
func (m *Migration) irreversible() int {
	for i, c := range m.Changes {
		if !c.Reversible() {
			return i
		}
	}
	return -1
}
