package engine

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"

	"github.com/hlop3z/fkmig/internal/ast"
)

// recordingExecutor records executed statements instead of running them.
// failOn makes ExecContext fail for statements containing the substring.
type recordingExecutor struct {
	statements []string
	failOn     string
	err        error
}

func (e *recordingExecutor) ExecContext(_ context.Context, query string, _ ...any) (sql.Result, error) {
	if e.failOn != "" && strings.Contains(query, e.failOn) {
		return nil, e.err
	}
	e.statements = append(e.statements, query)
	return driver.RowsAffected(0), nil
}

func (e *recordingExecutor) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	return nil, errors.New("recordingExecutor: queries are not supported")
}

func (e *recordingExecutor) QueryRowContext(context.Context, string, ...any) *sql.Row {
	return nil
}

// stubIntrospector serves a fixed catalog.
type stubIntrospector struct {
	foreignKeys map[string][]ast.ForeignKey
	primaryKeys map[string]string
	err         error
}

func (s *stubIntrospector) ForeignKeys(_ context.Context, table string) ([]ast.ForeignKey, error) {
	if s.err != nil {
		return nil, s.err
	}
	fks := s.foreignKeys[table]
	if fks == nil {
		return []ast.ForeignKey{}, nil
	}
	return fks, nil
}

func (s *stubIntrospector) PrimaryKey(_ context.Context, table string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.primaryKeys[table], nil
}

func (s *stubIntrospector) TableExists(_ context.Context, table string) (bool, error) {
	_, ok := s.primaryKeys[table]
	return ok, s.err
}
