// Package engine implements the foreign-key migration operations and the
// reversible migration runner on top of a caller-owned database handle.
package engine

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/hlop3z/fkmig/internal/alerr"
	"github.com/hlop3z/fkmig/internal/ast"
	"github.com/hlop3z/fkmig/internal/dialect"
	"github.com/hlop3z/fkmig/internal/introspect"
	"github.com/hlop3z/fkmig/internal/strutil"
)

// Executor is the database handle a Connection issues statements on.
// *sql.DB, *sql.Conn and *sql.Tx all satisfy it.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	introspect.Querier
}

// Connection exposes the foreign-key operations for one database. It never
// opens, pools, or closes the underlying handle.
type Connection struct {
	db           Executor
	dialect      dialect.Dialect
	introspector introspect.Introspector
	logger       *slog.Logger
}

// ConnectionOption configures a Connection.
type ConnectionOption func(*Connection)

// WithIntrospector overrides the catalog introspector of the dialect.
func WithIntrospector(in introspect.Introspector) ConnectionOption {
	return func(c *Connection) {
		c.introspector = in
	}
}

// WithLogger sets the logger statements are reported to (default slog.Default()).
func WithLogger(logger *slog.Logger) ConnectionOption {
	return func(c *Connection) {
		c.logger = logger
	}
}

// NewConnection creates a Connection for db speaking the given dialect.
func NewConnection(db Executor, d dialect.Dialect, opts ...ConnectionOption) (*Connection, error) {
	if db == nil {
		return nil, alerr.New(alerr.ErrSQLConnection, "database handle is required")
	}
	if d == nil {
		return nil, alerr.New(alerr.EUnsupportedDialect, "dialect is required")
	}

	c := &Connection{db: db, dialect: d}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.introspector == nil {
		c.introspector = introspect.New(db, d)
		if c.introspector == nil {
			return nil, alerr.Newf(alerr.EUnsupportedDialect, "no catalog introspector for dialect %q", d.Name())
		}
	}
	return c, nil
}

// Dialect returns the dialect statements are rendered with.
func (c *Connection) Dialect() dialect.Dialect {
	return c.dialect
}

// Introspector returns the catalog introspector of the connection.
func (c *Connection) Introspector() introspect.Introspector {
	return c.introspector
}

// -----------------------------------------------------------------------------
// Foreign keys
// -----------------------------------------------------------------------------

// ForeignKeys returns the foreign keys owned by table, in catalog order.
func (c *Connection) ForeignKeys(ctx context.Context, table string) ([]ast.ForeignKey, error) {
	return c.introspector.ForeignKeys(ctx, table)
}

// BuildForeignKey resolves the defaults of opts into a full descriptor:
// the column is "<singular to>_id", the primary key is the referenced
// table's single primary-key column (or "id"), and the name is
// "<from>_<column>_fk".
func (c *Connection) BuildForeignKey(ctx context.Context, from, to string, opts ast.ForeignKeyOptions) (ast.ForeignKey, error) {
	fk := ast.ForeignKey{
		FromTable:  from,
		ToTable:    to,
		Column:     opts.Column,
		PrimaryKey: opts.PrimaryKey,
		Name:       opts.Name,
		OnDelete:   opts.OnDelete,
		OnUpdate:   opts.OnUpdate,
	}

	if fk.Column == "" {
		fk.Column = strutil.ForeignKeyColumn(to)
	}
	if fk.PrimaryKey == "" {
		pk, err := c.introspector.PrimaryKey(ctx, to)
		if err != nil {
			return ast.ForeignKey{}, alerr.Wrapf(alerr.ErrIntrospection, err,
				"failed to infer the primary key of '%s'", to).
				WithTable(to).
				WithHelp("pass primary_key explicitly")
		}
		if pk == "" {
			pk = ast.DefaultPrimaryKey
		}
		fk.PrimaryKey = pk
	}
	if fk.Name == "" {
		fk.Name = strutil.ForeignKeyName(from, fk.Column)
	}
	return fk, nil
}

// checkNameLength fails when the constraint name exceeds the dialect limit.
func (c *Connection) checkNameLength(fk ast.ForeignKey) error {
	limit := c.dialect.MaxIdentifierLength()
	if len(fk.Name) <= limit {
		return nil
	}
	return alerr.Newf(alerr.ErrIdentifierTooLong,
		"Foreign key name '%s' is too long; the limit is %d characters", fk.Name, limit).
		WithTable(fk.FromTable).
		With("name", fk.Name).
		With("limit", limit).
		WithHelp("pass an explicit, shorter name")
}

// withStatement attaches the statement that was not issued to a coded error.
func withStatement(err error, render func() (string, error)) error {
	var coded *alerr.Error
	if !errors.As(err, &coded) {
		return err
	}
	if stmt, renderErr := render(); renderErr == nil {
		coded.WithSQL(stmt)
	}
	return err
}

// AddForeignKey adds a foreign key from table from to table to. The name
// length is checked before any DDL is issued. Database errors, such as a
// missing column or a duplicate constraint name, are returned unmodified.
func (c *Connection) AddForeignKey(ctx context.Context, from, to string, opts ast.ForeignKeyOptions) error {
	op := &ast.AddForeignKey{From: from, To: to, Options: opts}
	if err := op.Validate(); err != nil {
		return err
	}

	fk, err := c.BuildForeignKey(ctx, from, to, opts)
	if err != nil {
		return err
	}
	if err := c.checkNameLength(fk); err != nil {
		return withStatement(err, func() (string, error) { return c.dialect.AddForeignKeySQL(fk) })
	}

	stmt, err := c.dialect.AddForeignKeySQL(fk)
	if err != nil {
		return err
	}
	return c.exec(ctx, stmt)
}

// RemoveForeignKey drops the single foreign key of from matched by sel.
func (c *Connection) RemoveForeignKey(ctx context.Context, from string, sel ast.Selector) error {
	op := &ast.RemoveForeignKey{From: from, Selector: sel}
	if err := op.Validate(); err != nil {
		return err
	}

	fks, err := c.introspector.ForeignKeys(ctx, from)
	if err != nil {
		return err
	}
	fk, err := resolveForeignKey(fks, from, sel)
	if err != nil {
		return err
	}

	stmt, err := c.dialect.DropForeignKeySQL(fk)
	if err != nil {
		return err
	}
	return c.exec(ctx, stmt)
}

// -----------------------------------------------------------------------------
// Tables and raw SQL
// -----------------------------------------------------------------------------

// CreateTable creates a table, including any inline foreign keys.
func (c *Connection) CreateTable(ctx context.Context, op *ast.CreateTable) error {
	for _, fk := range op.ForeignKeys {
		if err := c.checkNameLength(fk); err != nil {
			return withStatement(err, func() (string, error) { return c.dialect.CreateTableSQL(op) })
		}
	}
	stmt, err := c.dialect.CreateTableSQL(op)
	if err != nil {
		return err
	}
	return c.exec(ctx, stmt)
}

// DropTable drops a table.
func (c *Connection) DropTable(ctx context.Context, op *ast.DropTable) error {
	stmt, err := c.dialect.DropTableSQL(op)
	if err != nil {
		return err
	}
	return c.exec(ctx, stmt)
}

// Execute runs a statement verbatim.
func (c *Connection) Execute(ctx context.Context, stmt string) error {
	op := &ast.RawSQL{SQL: stmt}
	if err := op.Validate(); err != nil {
		return err
	}
	return c.exec(ctx, stmt)
}

// Apply dispatches an operation to the matching Connection method.
func (c *Connection) Apply(ctx context.Context, op ast.Operation) error {
	switch o := op.(type) {
	case *ast.CreateTable:
		return c.CreateTable(ctx, o)
	case *ast.DropTable:
		return c.DropTable(ctx, o)
	case *ast.AddForeignKey:
		return c.AddForeignKey(ctx, o.From, o.To, o.Options)
	case *ast.RemoveForeignKey:
		return c.RemoveForeignKey(ctx, o.From, o.Selector)
	case *ast.RawSQL:
		return c.Execute(ctx, o.SQL)
	case nil:
		return alerr.New(alerr.EInternalError, "nil operation")
	default:
		return alerr.Newf(alerr.EInternalError, "unsupported operation %s", op.Type())
	}
}

// exec issues one statement. Driver errors are returned as-is.
func (c *Connection) exec(ctx context.Context, stmt string) error {
	c.logger.DebugContext(ctx, "executing statement", "dialect", c.dialect.Name(), "sql", stmt)
	if _, err := c.db.ExecContext(ctx, stmt); err != nil {
		c.logger.DebugContext(ctx, "statement failed", "error", err, "code", alerr.DriverCode(err))
		return err
	}
	return nil
}
