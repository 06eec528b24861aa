package engine

import (
	"reflect"
	"testing"

	"github.com/hlop3z/fkmig/internal/ast"
)

func TestDirectionString(t *testing.T) {
	if Up.String() != "up" {
		t.Errorf("Up.String() = %q, want %q", Up.String(), "up")
	}
	if Down.String() != "down" {
		t.Errorf("Down.String() = %q, want %q", Down.String(), "down")
	}
}

func TestMigrationInverses(t *testing.T) {
	cities := &ast.CreateTable{Name: "cities"}
	m := NewMigration("create_cities_and_houses").
		CreateTable(cities).
		AddForeignKey("houses", "cities", ast.ForeignKeyOptions{Column: "city_id"}).
		AddForeignKey("astronauts", "rockets", ast.ForeignKeyOptions{}).
		AddForeignKey("astronauts", "rockets", ast.ForeignKeyOptions{Name: "fancy_named_fk"}).
		DropTable(&ast.DropTable{Name: "obsolete"}).
		RemoveForeignKey("astronauts", ast.ByTable{Table: "rockets"}).
		Execute("UPDATE houses SET city_id = NULL")

	want := []ast.Operation{
		&ast.DropTable{Name: "cities", IfExists: true},
		&ast.RemoveForeignKey{From: "houses", Selector: ast.ByName{Name: "houses_city_id_fk"}},
		&ast.RemoveForeignKey{From: "astronauts", Selector: ast.ByName{Name: "astronauts_rocket_id_fk"}},
		&ast.RemoveForeignKey{From: "astronauts", Selector: ast.ByName{Name: "fancy_named_fk"}},
		nil,
		nil,
		nil,
	}

	if len(m.Changes) != len(want) {
		t.Fatalf("len(Changes) = %d, want %d", len(m.Changes), len(want))
	}
	for i, c := range m.Changes {
		if want[i] == nil {
			if c.Reversible() {
				t.Errorf("change %d (%s) has inverse %+v, want none", i, c.Forward.Type(), c.Inverse)
			}
			continue
		}
		if !reflect.DeepEqual(c.Inverse, want[i]) {
			t.Errorf("change %d inverse = %+v, want %+v", i, c.Inverse, want[i])
		}
	}
	if m.Changes[0].Forward != cities {
		t.Error("CreateTable() did not keep the declared operation")
	}
}

func TestMigrationOperations(t *testing.T) {
	up := &ast.RawSQL{SQL: "CREATE VIEW v AS SELECT 1"}
	down := &ast.RawSQL{SQL: "DROP VIEW v"}
	m := NewMigration("m").
		CreateTable(&ast.CreateTable{Name: "cities"}).
		CreateTable(&ast.CreateTable{Name: "houses"}).
		Reversible(up, down)

	var upTables []string
	for _, op := range m.Operations(Up) {
		upTables = append(upTables, op.Type().String()+":"+op.Table())
	}
	wantUp := []string{"CreateTable:cities", "CreateTable:houses", "RawSQL:"}
	if !reflect.DeepEqual(upTables, wantUp) {
		t.Errorf("Operations(Up) = %v, want %v", upTables, wantUp)
	}

	var downTables []string
	for _, op := range m.Operations(Down) {
		downTables = append(downTables, op.Type().String()+":"+op.Table())
	}
	wantDown := []string{"RawSQL:", "DropTable:houses", "DropTable:cities"}
	if !reflect.DeepEqual(downTables, wantDown) {
		t.Errorf("Operations(Down) = %v, want %v", downTables, wantDown)
	}
	if m.Operations(Down)[0] != down {
		t.Error("Operations(Down) did not start with the declared inverse")
	}
}

func TestMigrationIrreversible(t *testing.T) {
	m := NewMigration("m").CreateTable(&ast.CreateTable{Name: "cities"})
	if got := m.irreversible(); got != -1 {
		t.Errorf("irreversible() = %d, want -1", got)
	}
	m.Execute("SELECT 1")
	if got := m.irreversible(); got != 1 {
		t.Errorf("irreversible() = %d, want 1", got)
	}
}
