package engine

import (
	"testing"

	"github.com/hlop3z/fkmig/internal/alerr"
	"github.com/hlop3z/fkmig/internal/ast"
	"github.com/hlop3z/fkmig/internal/testutil"
)

func astronautKeys() []ast.ForeignKey {
	return []ast.ForeignKey{
		{FromTable: "astronauts", ToTable: "rockets", Column: "rocket_id", PrimaryKey: "id", Name: "astronauts_rocket_id_fk"},
		{FromTable: "astronauts", ToTable: "rockets", Column: "backup_rocket_id", PrimaryKey: "id", Name: "fancy_named_fk"},
		{FromTable: "astronauts", ToTable: "space_shuttles", Column: "shuttle_id", PrimaryKey: "pk", Name: "astronauts_shuttle_id_fk"},
		{FromTable: "astronauts", ToTable: "launch_pads", Column: "pad_a", PrimaryKey: "id", Name: "pad_a_fk"},
		{FromTable: "astronauts", ToTable: "launch_pads", Column: "pad_b", PrimaryKey: "id", Name: "pad_b_fk"},
	}
}

func TestResolveForeignKey(t *testing.T) {
	tests := []struct {
		name     string
		selector ast.Selector
		want     string
	}{
		{"by table single", ast.ByTable{Table: "space_shuttles"}, "astronauts_shuttle_id_fk"},
		{"by table narrows on inferred column", ast.ByTable{Table: "rockets"}, "astronauts_rocket_id_fk"},
		{"by column", ast.ByColumn{Column: "backup_rocket_id"}, "fancy_named_fk"},
		{"by name", ast.ByName{Name: "pad_b_fk"}, "pad_b_fk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fk, err := resolveForeignKey(astronautKeys(), "astronauts", tt.selector)
			if err != nil {
				t.Fatalf("resolveForeignKey() error = %v", err)
			}
			if fk.Name != tt.want {
				t.Errorf("resolveForeignKey() = %q, want %q", fk.Name, tt.want)
			}
		})
	}
}

func TestResolveForeignKeyErrors(t *testing.T) {
	tests := []struct {
		name     string
		fks      []ast.ForeignKey
		selector ast.Selector
		code     alerr.Code
		contains string
	}{
		{"no keys", nil, ast.ByTable{Table: "rockets"}, alerr.ErrConstraintNotFound, "Table 'astronauts' has no foreign key for rockets"},
		{"unknown table", astronautKeys(), ast.ByTable{Table: "planets"}, alerr.ErrConstraintNotFound, "no foreign key for planets"},
		{"unknown column", astronautKeys(), ast.ByColumn{Column: "planet_id"}, alerr.ErrConstraintNotFound, "no foreign key on column 'planet_id'"},
		{"unknown name", astronautKeys(), ast.ByName{Name: "fancy_named_fkk"}, alerr.ErrConstraintNotFound, "did you mean 'fancy_named_fk'?"},
		{"ambiguous table", astronautKeys(), ast.ByTable{Table: "launch_pads"}, alerr.ErrAmbiguousSelector, "2 foreign keys of table 'astronauts' match to_table: launch_pads"},
		{"nil selector", astronautKeys(), nil, alerr.ErrInvalidOption, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolveForeignKey(tt.fks, "astronauts", tt.selector)
			testutil.AssertError(t, err, tt.code)
			if tt.contains != "" {
				testutil.AssertErrorContains(t, err, tt.contains)
			}
		})
	}
}

func TestResolveForeignKeyAmbiguousColumn(t *testing.T) {
	fks := []ast.ForeignKey{
		{FromTable: "a", ToTable: "b", Column: "b_id", Name: "first"},
		{FromTable: "a", ToTable: "c", Column: "b_id", Name: "second"},
	}
	_, err := resolveForeignKey(fks, "a", ast.ByColumn{Column: "b_id"})
	testutil.AssertError(t, err, alerr.ErrAmbiguousSelector)
}
