package schemadump

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/hlop3z/fkmig/internal/alerr"
	"github.com/hlop3z/fkmig/internal/ast"
)

// Parse reads add_foreign_key lines. Blank lines and lines starting with
// '#' are skipped.
func Parse(text string) ([]*ast.AddForeignKey, error) {
	var ops []*ast.AddForeignKey
	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		op, err := ParseLine(line)
		if err != nil {
			return nil, alerr.Annotate(err, "line", i+1)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// ParseLine reads a single add_foreign_key line.
func ParseLine(line string) (*ast.AddForeignKey, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), keyword)
	if !ok || (rest != "" && !unicode.IsSpace(rune(rest[0]))) {
		return nil, syntaxError(line, "expected "+keyword)
	}

	s := &scanner{src: rest}
	from, err := s.quoted()
	if err != nil {
		return nil, syntaxError(line, "from table: "+err.Error())
	}
	if err := s.comma(); err != nil {
		return nil, syntaxError(line, err.Error())
	}
	to, err := s.quoted()
	if err != nil {
		return nil, syntaxError(line, "to table: "+err.Error())
	}

	op := &ast.AddForeignKey{From: from, To: to}
	seen := map[string]bool{}
	for !s.done() {
		if err := s.comma(); err != nil {
			return nil, syntaxError(line, err.Error())
		}
		key, err := s.key()
		if err != nil {
			return nil, syntaxError(line, err.Error())
		}
		if seen[key] {
			return nil, syntaxError(line, "duplicate option "+key)
		}
		seen[key] = true

		switch key {
		case "column", "primary_key", "name":
			value, err := s.quoted()
			if err != nil {
				return nil, syntaxError(line, key+": "+err.Error())
			}
			switch key {
			case "column":
				op.Options.Column = value
			case "primary_key":
				op.Options.PrimaryKey = value
			case "name":
				op.Options.Name = value
			}
		case "on_delete", "on_update":
			sym, err := s.symbol()
			if err != nil {
				return nil, syntaxError(line, key+": "+err.Error())
			}
			action, err := ast.ParseAction(sym)
			if err != nil {
				return nil, syntaxError(line, key+": unknown action :"+sym)
			}
			if key == "on_delete" {
				op.Options.OnDelete = action
			} else {
				op.Options.OnUpdate = action
			}
		default:
			return nil, syntaxError(line, "unknown option "+key)
		}
	}

	if err := op.Validate(); err != nil {
		return nil, syntaxError(line, "table names must not be empty")
	}
	return op, nil
}

func syntaxError(line, msg string) *alerr.Error {
	return alerr.New(alerr.ErrDumpSyntax, "invalid add_foreign_key line: "+msg).
		With("input", line)
}

// -----------------------------------------------------------------------------
// scanner
// -----------------------------------------------------------------------------

type scanner struct {
	src string
	pos int
}

type scanError string

func (e scanError) Error() string { return string(e) }

func (s *scanner) skipSpace() {
	for s.pos < len(s.src) && (s.src[s.pos] == ' ' || s.src[s.pos] == '\t') {
		s.pos++
	}
}

func (s *scanner) done() bool {
	s.skipSpace()
	return s.pos >= len(s.src)
}

func (s *scanner) comma() error {
	s.skipSpace()
	if s.pos >= len(s.src) || s.src[s.pos] != ',' {
		return scanError("expected ','")
	}
	s.pos++
	return nil
}

// quoted reads a double-quoted string with Go escapes.
func (s *scanner) quoted() (string, error) {
	s.skipSpace()
	if s.pos >= len(s.src) || s.src[s.pos] != '"' {
		return "", scanError("expected quoted string")
	}
	end := s.pos + 1
	for end < len(s.src) && s.src[end] != '"' {
		if s.src[end] == '\\' {
			end++
		}
		end++
	}
	if end >= len(s.src) {
		return "", scanError("unterminated string")
	}
	value, err := strconv.Unquote(s.src[s.pos : end+1])
	if err != nil {
		return "", scanError("bad string " + s.src[s.pos:end+1])
	}
	s.pos = end + 1
	return value, nil
}

func (s *scanner) word() string {
	start := s.pos
	for s.pos < len(s.src) && (s.src[s.pos] == '_' || unicode.IsLetter(rune(s.src[s.pos]))) {
		s.pos++
	}
	return s.src[start:s.pos]
}

// key reads "name:".
func (s *scanner) key() (string, error) {
	s.skipSpace()
	k := s.word()
	if k == "" || s.pos >= len(s.src) || s.src[s.pos] != ':' {
		return "", scanError("expected option name")
	}
	s.pos++
	return k, nil
}

// symbol reads ":name".
func (s *scanner) symbol() (string, error) {
	s.skipSpace()
	if s.pos >= len(s.src) || s.src[s.pos] != ':' {
		return "", scanError("expected symbol")
	}
	s.pos++
	sym := s.word()
	if sym == "" {
		return "", scanError("expected symbol")
	}
	return sym, nil
}
