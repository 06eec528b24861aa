package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hlop3z/fkmig/internal/alerr"
	"github.com/hlop3z/fkmig/pkg/fkmig"
)

const createCitiesAndHouses = `name: create_cities_and_houses
changes:
  - create_table: { name: cities }
  - create_table:
      name: houses
      columns:
        - { name: city_id, type: integer }
      foreign_keys: [{ to_table: cities, on_delete: cascade }]
`

// runCmd executes the root command with args and returns its stdout.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

// sqliteFixture returns the global flags for a fresh SQLite database and
// the directory holding it.
func sqliteFixture(t *testing.T) ([]string, string) {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("FKMIG_DIALECT", "")
	dir := t.TempDir()
	flags := []string{
		"--database-url", "sqlite://" + filepath.Join(dir, "app.db"),
		"--config", filepath.Join(dir, "fkmig.yaml"),
	}
	return flags, dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s) error = %v", path, err)
	}
	return path
}

func TestMigrateListAndDump(t *testing.T) {
	flags, dir := sqliteFixture(t)
	migration := writeFile(t, dir, "001_cities.yaml", createCitiesAndHouses)

	out, err := runCmd(t, append(flags, "migrate", migration)...)
	if err != nil {
		t.Fatalf("migrate error = %v", err)
	}
	for _, want := range []string{"Migration create_cities_and_houses", "[1/2] CreateTable cities", "[2/2] CreateTable houses", "applied 2 operations"} {
		if !strings.Contains(out, want) {
			t.Errorf("migrate output missing %q:\n%s", want, out)
		}
	}

	out, err = runCmd(t, append(flags, "foreign-keys", "houses")...)
	if err != nil {
		t.Fatalf("foreign-keys error = %v", err)
	}
	for _, want := range []string{"NAME", "houses_city_id_fk", "city_id", "cities.id", "1 foreign key"} {
		if !strings.Contains(out, want) {
			t.Errorf("foreign-keys output missing %q:\n%s", want, out)
		}
	}

	out, err = runCmd(t, append(flags, "dump", "houses")...)
	if err != nil {
		t.Fatalf("dump error = %v", err)
	}
	want := `add_foreign_key "houses", "cities", column: "city_id", primary_key: "id", name: "houses_city_id_fk", on_delete: :cascade` + "\n"
	if out != want {
		t.Errorf("dump output = %q, want %q", out, want)
	}

	dumpFile := filepath.Join(dir, "fks.txt")
	out, err = runCmd(t, append(flags, "dump", "houses", "--output", dumpFile)...)
	if err != nil {
		t.Fatalf("dump --output error = %v", err)
	}
	if !strings.Contains(out, "wrote 1 foreign key") {
		t.Errorf("dump --output output = %q", out)
	}
	data, err := os.ReadFile(dumpFile)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != want {
		t.Errorf("dump file = %q, want %q", data, want)
	}
}

func TestMigrateDownThenUpAgain(t *testing.T) {
	flags, dir := sqliteFixture(t)
	migration := writeFile(t, dir, "001_cities.yaml", createCitiesAndHouses)

	if _, err := runCmd(t, append(flags, "migrate", migration)...); err != nil {
		t.Fatalf("migrate up error = %v", err)
	}
	out, err := runCmd(t, append(flags, "migrate", migration, "--down")...)
	if err != nil {
		t.Fatalf("migrate down error = %v", err)
	}
	if !strings.Contains(out, "[1/2] DropTable houses") {
		t.Errorf("migrate --down output = %q", out)
	}
	// Both tables are gone, so creating them again succeeds.
	if _, err := runCmd(t, append(flags, "migrate", migration)...); err != nil {
		t.Fatalf("second migrate up error = %v", err)
	}
}

func TestMigrateIrreversibleDown(t *testing.T) {
	flags, dir := sqliteFixture(t)
	migration := writeFile(t, dir, "002_drop.yaml", `name: drop_cities
changes:
  - drop_table: { name: cities, if_exists: true }
`)

	_, err := runCmd(t, append(flags, "migrate", migration, "--down")...)
	if !alerr.Is(err, alerr.ErrIrreversibleMigration) {
		t.Fatalf("migrate --down error = %v, want %s", err, alerr.ErrIrreversibleMigration)
	}
}

func TestMigrateMissingFile(t *testing.T) {
	flags, dir := sqliteFixture(t)

	_, err := runCmd(t, append(flags, "migrate", filepath.Join(dir, "missing.yaml"))...)
	if !alerr.Is(err, alerr.ErrMigrationNotFound) {
		t.Fatalf("migrate error = %v, want %s", err, alerr.ErrMigrationNotFound)
	}
}

func TestAddForeignKeyUnsupportedOnSQLite(t *testing.T) {
	flags, dir := sqliteFixture(t)
	migration := writeFile(t, dir, "001_cities.yaml", createCitiesAndHouses)
	if _, err := runCmd(t, append(flags, "migrate", migration)...); err != nil {
		t.Fatalf("migrate error = %v", err)
	}

	_, err := runCmd(t, append(flags, "add-foreign-key", "houses", "cities", "--name", "other_fk", "--on-delete", "nullify")...)
	if !alerr.Is(err, alerr.EUnsupportedDialect) {
		t.Fatalf("add-foreign-key error = %v, want %s", err, alerr.EUnsupportedDialect)
	}
}

func TestAddForeignKeyInvalidAction(t *testing.T) {
	flags, _ := sqliteFixture(t)

	_, err := runCmd(t, append(flags, "add-foreign-key", "houses", "cities", "--on-delete", "explode")...)
	if err == nil || !strings.Contains(err.Error(), "unknown referential action") {
		t.Fatalf("add-foreign-key error = %v, want unknown referential action", err)
	}
}

func TestRemoveForeignKeySelectors(t *testing.T) {
	flags, _ := sqliteFixture(t)

	tests := []struct {
		name string
		args []string
	}{
		{"no selector", []string{"remove-foreign-key", "houses"}},
		{"table and column", []string{"remove-foreign-key", "houses", "cities", "--column", "city_id"}},
		{"table and name", []string{"remove-foreign-key", "houses", "cities", "--name", "houses_city_id_fk"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCmd(t, append(flags, tt.args...)...)
			if !alerr.Is(err, alerr.ErrInvalidOption) {
				t.Errorf("error = %v, want %s", err, alerr.ErrInvalidOption)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	flags, dir := sqliteFixture(t)

	_, err := runCmd(t, append(flags, "load", filepath.Join(dir, "nope.txt"))...)
	if !alerr.Is(err, alerr.ErrFileRead) {
		t.Fatalf("load error = %v, want %s", err, alerr.ErrFileRead)
	}
}

func TestMissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	config := filepath.Join(t.TempDir(), "fkmig.yaml")

	_, err := runCmd(t, "--config", config, "foreign-keys", "houses")
	if !errors.Is(err, fkmig.ErrMissingDatabaseURL) {
		t.Fatalf("error = %v, want ErrMissingDatabaseURL", err)
	}

	var buf bytes.Buffer
	printError(&buf, err)
	if !strings.Contains(buf.String(), "DATABASE_URL") {
		t.Errorf("printError() = %q, want a DATABASE_URL hint", buf.String())
	}
}

func TestActionFlag(t *testing.T) {
	var f actionFlag
	if f.String() != "none" {
		t.Errorf("zero String() = %q, want none", f.String())
	}
	if err := f.Set(":cascade"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if f.action != fkmig.ActionCascade || f.String() != "cascade" {
		t.Errorf("after Set(:cascade) action = %q", f.action)
	}
	if err := f.Set("sideways"); err == nil {
		t.Error("Set(sideways) error = nil, want error")
	}
	if f.Type() != "action" {
		t.Errorf("Type() = %q", f.Type())
	}
}
