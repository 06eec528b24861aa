package engine

import (
	"github.com/hlop3z/fkmig/internal/alerr"
	"github.com/hlop3z/fkmig/internal/ast"
	"github.com/hlop3z/fkmig/internal/strutil"
)

// resolveForeignKey picks the single key of fks matched by sel.
//
// ByTable first narrows to keys referencing the table; when several remain
// it keeps those on the inferred column "<singular table>_id".
func resolveForeignKey(fks []ast.ForeignKey, from string, sel ast.Selector) (ast.ForeignKey, error) {
	var matches []ast.ForeignKey
	var notFound *alerr.Error

	switch s := sel.(type) {
	case ast.ByTable:
		matches = filterForeignKeys(fks, func(fk ast.ForeignKey) bool { return fk.ToTable == s.Table })
		if len(matches) > 1 {
			column := strutil.ForeignKeyColumn(s.Table)
			if onColumn := filterForeignKeys(matches, func(fk ast.ForeignKey) bool { return fk.Column == column }); len(onColumn) > 0 {
				matches = onColumn
			}
		}
		notFound = alerr.Newf(alerr.ErrConstraintNotFound, "Table '%s' has no foreign key for %s", from, s.Table).
			WithHelp(alerr.DidYouMean(s.Table, referencedTables(fks)))

	case ast.ByColumn:
		matches = filterForeignKeys(fks, func(fk ast.ForeignKey) bool { return fk.Column == s.Column })
		notFound = alerr.Newf(alerr.ErrConstraintNotFound, "Table '%s' has no foreign key on column '%s'", from, s.Column).
			WithColumn(s.Column).
			WithHelp(alerr.DidYouMean(s.Column, columns(fks)))

	case ast.ByName:
		matches = filterForeignKeys(fks, func(fk ast.ForeignKey) bool { return fk.Name == s.Name })
		notFound = alerr.Newf(alerr.ErrConstraintNotFound, "Table '%s' has no foreign key named '%s'", from, s.Name).
			With("name", s.Name).
			WithHelp(alerr.DidYouMean(s.Name, names(fks)))

	default:
		return ast.ForeignKey{}, ast.ValidateSelector(sel)
	}

	switch len(matches) {
	case 0:
		return ast.ForeignKey{}, notFound.WithTable(from)
	case 1:
		return matches[0], nil
	default:
		return ast.ForeignKey{}, alerr.Newf(alerr.ErrAmbiguousSelector,
			"%d foreign keys of table '%s' match %s", len(matches), from, sel.Describe()).
			WithTable(from).
			With("candidates", names(matches)).
			WithHelp("remove the foreign key by name")
	}
}

func filterForeignKeys(fks []ast.ForeignKey, keep func(ast.ForeignKey) bool) []ast.ForeignKey {
	var out []ast.ForeignKey
	for _, fk := range fks {
		if keep(fk) {
			out = append(out, fk)
		}
	}
	return out
}

func names(fks []ast.ForeignKey) []string {
	out := make([]string, 0, len(fks))
	for _, fk := range fks {
		out = append(out, fk.Name)
	}
	return out
}

func columns(fks []ast.ForeignKey) []string {
	out := make([]string, 0, len(fks))
	for _, fk := range fks {
		out = append(out, fk.Column)
	}
	return out
}

func referencedTables(fks []ast.ForeignKey) []string {
	out := make([]string, 0, len(fks))
	for _, fk := range fks {
		out = append(out, fk.ToTable)
	}
	return out
}
