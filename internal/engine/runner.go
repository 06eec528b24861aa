package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/hlop3z/fkmig/internal/alerr"
	"github.com/hlop3z/fkmig/internal/ast"
)

// Runner applies migrations through a Connection.
type Runner struct {
	conn   *Connection
	logger *slog.Logger
}

// NewRunner creates a runner. Returns nil if conn is nil.
func NewRunner(conn *Connection) *Runner {
	if conn == nil {
		return nil
	}
	return &Runner{conn: conn, logger: conn.logger}
}

// Run applies m in the given direction. Down refuses to start, executing
// nothing, when any change lacks an inverse. A failing operation stops the
// run; operations already applied are not undone.
func (r *Runner) Run(ctx context.Context, m *Migration, dir Direction) error {
	if m == nil {
		return alerr.New(alerr.EInternalError, "nil migration")
	}

	if dir == Down {
		if i := m.irreversible(); i >= 0 {
			op := m.Changes[i].Forward
			return alerr.Newf(alerr.ErrIrreversibleMigration,
				"migration '%s' cannot be reverted: %s has no inverse", m.Name, op.Type()).
				With("migration", m.Name).
				With("change", i).
				WithTable(op.Table()).
				WithHelp("declare the change with Reversible(up, down)")
		}
	}

	start := time.Now()
	r.logger.InfoContext(ctx, "running migration", "name", m.Name, "direction", dir.String(), "changes", len(m.Changes))

	for i, op := range m.Operations(dir) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if op == nil {
			return alerr.New(alerr.EInternalError, "nil operation").
				With("migration", m.Name).
				With("step", i+1)
		}
		if err := r.conn.Apply(ctx, op); err != nil {
			failed := alerr.Wrapf(alerr.ErrMigrationFailed, err, "migration '%s' failed at step %d", m.Name, i+1).
				With("migration", m.Name).
				With("direction", dir.String()).
				With("step", i+1).
				With("operation", op.Type().String()).
				WithTable(op.Table())
			if raw, ok := op.(*ast.RawSQL); ok {
				failed.WithSQL(raw.SQL)
			}
			return failed
		}
	}

	r.logger.InfoContext(ctx, "migration complete", "name", m.Name, "direction", dir.String(), "duration", time.Since(start))
	return nil
}
