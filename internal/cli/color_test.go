package cli

import (
	"testing"

	"github.com/hlop3z/fkmig/internal/ast"
)

func TestColorFunctionsPlainMode(t *testing.T) {
	SetMode(Plain)

	tests := []struct {
		name  string
		fn    func(string) string
		input string
	}{
		{"Error", Error, "error text"},
		{"Warning", Warning, "warning text"},
		{"Note", Note, "note text"},
		{"Help", Help, "help text"},
		{"Success", Success, "success text"},
		{"Code", Code, "E3005"},
		{"Header", Header, "COLUMN"},
		{"Dim", Dim, "muted"},
		{"Highlight", Highlight, "astronauts_rocket_id_fk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.input); got != tt.input {
				t.Errorf("%s(%q) = %q in plain mode, want it unchanged", tt.name, tt.input, got)
			}
		})
	}

	if Pipe() != "|" {
		t.Errorf("Pipe() = %q, want %q", Pipe(), "|")
	}
}

func TestAction(t *testing.T) {
	SetMode(Plain)

	tests := []struct {
		action ast.Action
		want   string
	}{
		{ast.ActionNone, "-"},
		{ast.ActionRestrict, "restrict"},
		{ast.ActionCascade, "cascade"},
		{ast.ActionNullify, "nullify"},
	}

	for _, tt := range tests {
		if got := Action(tt.action); got != tt.want {
			t.Errorf("Action(%q) = %q, want %q", tt.action, got, tt.want)
		}
	}
}
