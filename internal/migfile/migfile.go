// Package migfile reads migrations written as YAML documents:
//
//	name: create_cities_and_houses
//	changes:
//	  - create_table: { name: cities }
//	  - create_table: { name: houses, columns: [{ name: city_id, type: integer }] }
//	  - add_foreign_key: { from_table: houses, to_table: cities, column: city_id }
//	  - execute: { up: "...", down: "..." }
//
// Each change names exactly one operation.
package migfile

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hlop3z/fkmig/internal/alerr"
	"github.com/hlop3z/fkmig/internal/ast"
	"github.com/hlop3z/fkmig/internal/engine"
	"github.com/hlop3z/fkmig/internal/strutil"
)

// File is the YAML document.
type File struct {
	Name    string   `yaml:"name"`
	Changes []Change `yaml:"changes"`
}

// Change holds one operation; exactly one field is set.
type Change struct {
	CreateTable      *CreateTable      `yaml:"create_table,omitempty"`
	DropTable        *DropTable        `yaml:"drop_table,omitempty"`
	AddForeignKey    *AddForeignKey    `yaml:"add_foreign_key,omitempty"`
	RemoveForeignKey *RemoveForeignKey `yaml:"remove_foreign_key,omitempty"`
	Execute          *Execute          `yaml:"execute,omitempty"`
}

type Column struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	NotNull    bool   `yaml:"not_null,omitempty"`
	PrimaryKey bool   `yaml:"primary_key,omitempty"`
}

// InlineForeignKey is declared inside create_table; from_table is implied.
type InlineForeignKey struct {
	ToTable    string `yaml:"to_table"`
	Column     string `yaml:"column,omitempty"`
	PrimaryKey string `yaml:"primary_key,omitempty"`
	Name       string `yaml:"name,omitempty"`
	OnDelete   string `yaml:"on_delete,omitempty"`
	OnUpdate   string `yaml:"on_update,omitempty"`
}

type CreateTable struct {
	Name        string             `yaml:"name"`
	PrimaryKey  string             `yaml:"primary_key,omitempty"`
	NoID        bool               `yaml:"no_id,omitempty"`
	IfNotExists bool               `yaml:"if_not_exists,omitempty"`
	Columns     []Column           `yaml:"columns,omitempty"`
	ForeignKeys []InlineForeignKey `yaml:"foreign_keys,omitempty"`
}

type DropTable struct {
	Name     string `yaml:"name"`
	IfExists bool   `yaml:"if_exists,omitempty"`
}

type AddForeignKey struct {
	FromTable  string `yaml:"from_table"`
	ToTable    string `yaml:"to_table"`
	Column     string `yaml:"column,omitempty"`
	PrimaryKey string `yaml:"primary_key,omitempty"`
	Name       string `yaml:"name,omitempty"`
	OnDelete   string `yaml:"on_delete,omitempty"`
	OnUpdate   string `yaml:"on_update,omitempty"`
}

// RemoveForeignKey selects the key by exactly one of to_table, column, name.
type RemoveForeignKey struct {
	FromTable string `yaml:"from_table"`
	ToTable   string `yaml:"to_table,omitempty"`
	Column    string `yaml:"column,omitempty"`
	Name      string `yaml:"name,omitempty"`
}

// Execute runs raw SQL. Without down the change is irreversible.
type Execute struct {
	Up   string `yaml:"up"`
	Down string `yaml:"down,omitempty"`
}

// -----------------------------------------------------------------------------
// Loading
// -----------------------------------------------------------------------------

// Load reads and builds the migration at path. A file without a name is
// named after its base name.
func Load(path string) (*engine.Migration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, alerr.Wrap(alerr.ErrMigrationNotFound, err, "migration file not found").
				With("path", path)
		}
		return nil, alerr.Wrap(alerr.ErrMigrationFailed, err, "failed to read migration file").
			With("path", path)
	}

	f, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, alerr.Annotate(err, "path", path)
	}
	if f.Name == "" {
		f.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	m, err := f.Migration()
	if err != nil {
		return nil, alerr.Annotate(err, "path", path)
	}
	return m, nil
}

// Decode parses a YAML document. Unknown keys are rejected.
func Decode(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, alerr.New(alerr.ErrInvalidOption, "migration file is empty")
		}
		return nil, alerr.Wrap(alerr.ErrInvalidOption, err, "invalid migration file")
	}
	return &f, nil
}

// Migration builds the engine migration, deriving inverses as it goes.
func (f *File) Migration() (*engine.Migration, error) {
	m := engine.NewMigration(f.Name)
	for i, c := range f.Changes {
		if err := c.apply(m); err != nil {
			return nil, alerr.Annotate(err, "change", i+1)
		}
	}
	return m, nil
}

func (c Change) apply(m *engine.Migration) error {
	set := 0
	for _, present := range []bool{
		c.CreateTable != nil, c.DropTable != nil, c.AddForeignKey != nil,
		c.RemoveForeignKey != nil, c.Execute != nil,
	} {
		if present {
			set++
		}
	}
	if set != 1 {
		return alerr.Newf(alerr.ErrInvalidOption, "a change must name exactly one operation, got %d", set)
	}

	switch {
	case c.CreateTable != nil:
		op, err := c.CreateTable.operation()
		if err != nil {
			return err
		}
		if err := op.Validate(); err != nil {
			return err
		}
		m.CreateTable(op)

	case c.DropTable != nil:
		op := &ast.DropTable{Name: c.DropTable.Name, IfExists: c.DropTable.IfExists}
		if err := op.Validate(); err != nil {
			return err
		}
		m.DropTable(op)

	case c.AddForeignKey != nil:
		a := c.AddForeignKey
		opts, err := options(a.Column, a.PrimaryKey, a.Name, a.OnDelete, a.OnUpdate)
		if err != nil {
			return err
		}
		op := &ast.AddForeignKey{From: a.FromTable, To: a.ToTable, Options: opts}
		if err := op.Validate(); err != nil {
			return err
		}
		m.AddForeignKey(a.FromTable, a.ToTable, opts)

	case c.RemoveForeignKey != nil:
		sel, err := c.RemoveForeignKey.selector()
		if err != nil {
			return err
		}
		op := &ast.RemoveForeignKey{From: c.RemoveForeignKey.FromTable, Selector: sel}
		if err := op.Validate(); err != nil {
			return err
		}
		m.RemoveForeignKey(op.From, sel)

	case c.Execute != nil:
		up := &ast.RawSQL{SQL: c.Execute.Up}
		if err := up.Validate(); err != nil {
			return err
		}
		if c.Execute.Down == "" {
			m.Execute(c.Execute.Up)
		} else {
			m.Reversible(up, &ast.RawSQL{SQL: c.Execute.Down})
		}
	}
	return nil
}

func (ct *CreateTable) operation() (*ast.CreateTable, error) {
	op := &ast.CreateTable{
		Name:        ct.Name,
		PrimaryKey:  ct.PrimaryKey,
		NoID:        ct.NoID,
		IfNotExists: ct.IfNotExists,
	}
	for _, col := range ct.Columns {
		op.Columns = append(op.Columns, ast.ColumnDef{
			Name:       col.Name,
			Type:       col.Type,
			NotNull:    col.NotNull,
			PrimaryKey: col.PrimaryKey,
		})
	}
	for _, fk := range ct.ForeignKeys {
		opts, err := options(fk.Column, fk.PrimaryKey, fk.Name, fk.OnDelete, fk.OnUpdate)
		if err != nil {
			return nil, err
		}
		op.ForeignKeys = append(op.ForeignKeys, inlineForeignKey(ct.Name, fk.ToTable, opts))
	}
	return op, nil
}

// inlineForeignKey resolves defaults without a catalog: the referenced
// primary key falls back to "id".
func inlineForeignKey(from, to string, opts ast.ForeignKeyOptions) ast.ForeignKey {
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
		fk.PrimaryKey = ast.DefaultPrimaryKey
	}
	if fk.Name == "" {
		fk.Name = strutil.ForeignKeyName(from, fk.Column)
	}
	return fk
}

func (r *RemoveForeignKey) selector() (ast.Selector, error) {
	var sels []ast.Selector
	if r.ToTable != "" {
		sels = append(sels, ast.ByTable{Table: r.ToTable})
	}
	if r.Column != "" {
		sels = append(sels, ast.ByColumn{Column: r.Column})
	}
	if r.Name != "" {
		sels = append(sels, ast.ByName{Name: r.Name})
	}
	if len(sels) != 1 {
		return nil, alerr.New(alerr.ErrInvalidOption, "remove_foreign_key needs exactly one of to_table, column, name").
			WithTable(r.FromTable)
	}
	return sels[0], nil
}

func options(column, primaryKey, name, onDelete, onUpdate string) (ast.ForeignKeyOptions, error) {
	del, err := ast.ParseAction(onDelete)
	if err != nil {
		return ast.ForeignKeyOptions{}, err
	}
	upd, err := ast.ParseAction(onUpdate)
	if err != nil {
		return ast.ForeignKeyOptions{}, err
	}
	return ast.ForeignKeyOptions{
		Column:     column,
		PrimaryKey: primaryKey,
		Name:       name,
		OnDelete:   del,
		OnUpdate:   upd,
	}, nil
}
