package migfile

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/hlop3z/fkmig/internal/alerr"
	"github.com/hlop3z/fkmig/internal/ast"
	"github.com/hlop3z/fkmig/internal/dialect"
	"github.com/hlop3z/fkmig/internal/engine"
	"github.com/hlop3z/fkmig/internal/testutil"
)

const citiesAndHouses = `
name: create_cities_and_houses
changes:
  - create_table: { name: cities }
  - create_table:
      name: houses
      columns:
        - { name: city_id, type: integer }
  - add_foreign_key: { from_table: houses, to_table: cities, column: city_id, on_delete: cascade }
  - execute:
      up: "CREATE INDEX houses_city ON houses (city_id)"
      down: "DROP INDEX houses_city"
`

func decodeMigration(t *testing.T, doc string) *engine.Migration {
	t.Helper()
	f, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	m, err := f.Migration()
	if err != nil {
		t.Fatalf("Migration() error = %v", err)
	}
	return m
}

func TestDecodeCitiesAndHouses(t *testing.T) {
	m := decodeMigration(t, citiesAndHouses)

	if m.Name != "create_cities_and_houses" {
		t.Errorf("Name = %q, want %q", m.Name, "create_cities_and_houses")
	}

	wantUp := []ast.Operation{
		&ast.CreateTable{Name: "cities"},
		&ast.CreateTable{Name: "houses", Columns: []ast.ColumnDef{{Name: "city_id", Type: "integer"}}},
		&ast.AddForeignKey{From: "houses", To: "cities", Options: ast.ForeignKeyOptions{Column: "city_id", OnDelete: ast.ActionCascade}},
		&ast.RawSQL{SQL: "CREATE INDEX houses_city ON houses (city_id)"},
	}
	if got := m.Operations(engine.Up); !reflect.DeepEqual(got, wantUp) {
		t.Errorf("Operations(Up) = %+v, want %+v", got, wantUp)
	}

	wantDown := []ast.Operation{
		&ast.RawSQL{SQL: "DROP INDEX houses_city"},
		&ast.RemoveForeignKey{From: "houses", Selector: ast.ByName{Name: "houses_city_id_fk"}},
		&ast.DropTable{Name: "houses", IfExists: true},
		&ast.DropTable{Name: "cities", IfExists: true},
	}
	if got := m.Operations(engine.Down); !reflect.DeepEqual(got, wantDown) {
		t.Errorf("Operations(Down) = %+v, want %+v", got, wantDown)
	}
}

func TestDecodeIrreversibleChanges(t *testing.T) {
	m := decodeMigration(t, `
name: cleanup
changes:
  - remove_foreign_key: { from_table: astronauts, to_table: rockets }
  - remove_foreign_key: { from_table: astronauts, column: rocket_id }
  - remove_foreign_key: { from_table: astronauts, name: fancy_named_fk }
  - drop_table: { name: rockets, if_exists: true }
  - execute: { up: "DELETE FROM astronauts" }
`)

	want := []engine.Change{
		{Forward: &ast.RemoveForeignKey{From: "astronauts", Selector: ast.ByTable{Table: "rockets"}}},
		{Forward: &ast.RemoveForeignKey{From: "astronauts", Selector: ast.ByColumn{Column: "rocket_id"}}},
		{Forward: &ast.RemoveForeignKey{From: "astronauts", Selector: ast.ByName{Name: "fancy_named_fk"}}},
		{Forward: &ast.DropTable{Name: "rockets", IfExists: true}},
		{Forward: &ast.RawSQL{SQL: "DELETE FROM astronauts"}},
	}
	if !reflect.DeepEqual(m.Changes, want) {
		t.Errorf("Changes = %+v, want %+v", m.Changes, want)
	}
}

func TestDecodeInlineForeignKeyDefaults(t *testing.T) {
	m := decodeMigration(t, `
name: inline
changes:
  - create_table:
      name: astronauts
      columns:
        - { name: rocket_id, type: integer, not_null: true }
      foreign_keys:
        - { to_table: rockets, on_delete: ":nullify" }
        - { to_table: space_shuttles, column: shuttle_id, primary_key: pk, name: custom_pk }
`)

	ct, ok := m.Changes[0].Forward.(*ast.CreateTable)
	if !ok {
		t.Fatalf("Forward = %T, want *ast.CreateTable", m.Changes[0].Forward)
	}
	want := []ast.ForeignKey{
		{FromTable: "astronauts", ToTable: "rockets", Column: "rocket_id", PrimaryKey: "id", Name: "astronauts_rocket_id_fk", OnDelete: ast.ActionNullify},
		{FromTable: "astronauts", ToTable: "space_shuttles", Column: "shuttle_id", PrimaryKey: "pk", Name: "custom_pk"},
	}
	if !reflect.DeepEqual(ct.ForeignKeys, want) {
		t.Errorf("ForeignKeys = %+v, want %+v", ct.ForeignKeys, want)
	}
	if !ct.Columns[0].NotNull {
		t.Error("not_null was not decoded")
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		contains string
	}{
		{"empty", "", "empty"},
		{"unknown key", "name: x\nchanges:\n  - rename_table: { from: a, to: b }\n", "invalid migration file"},
		{"two operations", "changes:\n  - { drop_table: { name: a }, execute: { up: x } }\n", "exactly one operation, got 2"},
		{"no operation", "changes:\n  - {}\n", "exactly one operation, got 0"},
		{"bad action", "changes:\n  - add_foreign_key: { from_table: a, to_table: b, on_delete: explode }\n", "unknown referential action"},
		{"two selectors", "changes:\n  - remove_foreign_key: { from_table: a, to_table: b, name: c }\n", "exactly one of to_table, column, name"},
		{"no selector", "changes:\n  - remove_foreign_key: { from_table: a }\n", "exactly one of to_table, column, name"},
		{"missing from", "changes:\n  - add_foreign_key: { to_table: b }\n", "table name is required"},
		{"empty execute", "changes:\n  - execute: { down: x }\n", "SQL statement is required"},
		{"bad table name", "changes:\n  - create_table: { name: \"1abc\" }\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Decode(strings.NewReader(tt.doc))
			if err == nil {
				_, err = f.Migration()
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if alerr.GetErrorCode(err) == "" {
				t.Errorf("error has no code: %v", err)
			}
			if tt.contains != "" {
				testutil.AssertErrorContains(t, err, tt.contains)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := testutil.WriteFile(t, "20240101_houses.yaml", "changes:\n  - create_table: { name: cities }\n")

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if m.Name != "20240101_houses" {
		t.Errorf("Name = %q, want the file base name", m.Name)
	}
	if len(m.Changes) != 1 {
		t.Errorf("len(Changes) = %d, want 1", len(m.Changes))
	}
}

func TestLoadInvalidChangeContext(t *testing.T) {
	path := testutil.WriteFile(t, "20240102_bad.yaml", `changes:
  - create_table: { name: cities }
  - add_foreign_key: { from_table: houses, to_table: cities, on_delete: explode }
`)

	_, err := Load(path)
	testutil.AssertError(t, err, alerr.ErrInvalidOption)
	testutil.AssertErrorContains(t, err, "change: 2")
	testutil.AssertErrorContains(t, err, "path: "+path)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("does/not/exist.yaml")
	testutil.AssertError(t, err, alerr.ErrMigrationNotFound)
}

func TestLoadAndRunSQLite(t *testing.T) {
	path := testutil.WriteFile(t, "houses.yaml", `
name: create_cities_and_houses
changes:
  - create_table: { name: cities }
  - create_table:
      name: houses
      columns: [{ name: city_id, type: integer }]
      foreign_keys: [{ to_table: cities, on_delete: cascade }]
`)
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	db := testutil.SetupSQLite(t)
	conn, err := engine.NewConnection(db, dialect.SQLite())
	if err != nil {
		t.Fatalf("NewConnection() error = %v", err)
	}
	ctx := context.Background()
	r := engine.NewRunner(conn)

	if err := r.Run(ctx, m, engine.Up); err != nil {
		t.Fatalf("Run(Up) error = %v", err)
	}
	fks, err := conn.ForeignKeys(ctx, "houses")
	if err != nil {
		t.Fatalf("ForeignKeys() error = %v", err)
	}
	if len(fks) != 1 || fks[0].Name != "houses_city_id_fk" || fks[0].OnDelete != ast.ActionCascade {
		t.Errorf("ForeignKeys() = %+v, want houses_city_id_fk on delete cascade", fks)
	}

	if err := r.Run(ctx, m, engine.Down); err != nil {
		t.Fatalf("Run(Down) error = %v", err)
	}
	exists, err := conn.Introspector().TableExists(ctx, "houses")
	if err != nil {
		t.Fatalf("TableExists() error = %v", err)
	}
	if exists {
		t.Error("houses still exists after Down")
	}
}
