package introspect

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/hlop3z/fkmig/internal/alerr"
	"github.com/hlop3z/fkmig/internal/ast"
	"github.com/hlop3z/fkmig/internal/dialect"
	"github.com/hlop3z/fkmig/internal/strutil"
)

// sqliteIntrospector implements Introspector for SQLite.
type sqliteIntrospector struct {
	db      Querier
	dialect dialect.Dialect
}

// sqliteIdent matches one identifier in any of SQLite's quoting styles.
// Exactly one of its four groups is set.
const sqliteIdent = "(?:\"((?:[^\"]|\"\")+)\"|`([^`]+)`|\\[([^\\]]+)\\]|(\\w+))"

var (
	// "CONSTRAINT name FOREIGN KEY (col" starting a table constraint.
	tableForeignKeyPattern = regexp.MustCompile(
		"(?is)^CONSTRAINT\\s+" + sqliteIdent + "\\s+FOREIGN\\s+KEY\\s*\\(\\s*" + sqliteIdent)

	// "CONSTRAINT name REFERENCES" inside a column definition.
	columnForeignKeyPattern = regexp.MustCompile(
		"(?is)(?:^|\\s)CONSTRAINT\\s+" + sqliteIdent + "\\s+REFERENCES\\b")

	leadingIdentPattern = regexp.MustCompile("^" + sqliteIdent)

	tableConstraintPattern = regexp.MustCompile("(?i)^(CONSTRAINT|PRIMARY|UNIQUE|CHECK|FOREIGN)\\b")
)

// identValue returns the unquoted identifier held by four sqliteIdent groups.
func identValue(groups []string) string {
	switch {
	case groups[0] != "":
		return strings.ReplaceAll(groups[0], `""`, `"`)
	case groups[1] != "":
		return groups[1]
	case groups[2] != "":
		return groups[2]
	default:
		return groups[3]
	}
}

// splitDefinitions splits the parenthesized body of a CREATE TABLE
// statement on top-level commas, skipping quoted text.
func splitDefinitions(createSQL string) []string {
	open := strings.Index(createSQL, "(")
	if open < 0 {
		return nil
	}

	var (
		defs  []string
		depth int
		quote rune
		start = open + 1
	)
	for i, r := range createSQL[open+1:] {
		pos := open + 1 + i
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'' || r == '`':
			quote = r
		case r == '[':
			quote = ']'
		case r == '(':
			depth++
		case r == ')':
			if depth == 0 {
				return append(defs, strings.TrimSpace(createSQL[start:pos]))
			}
			depth--
		case r == ',' && depth == 0:
			defs = append(defs, strings.TrimSpace(createSQL[start:pos]))
			start = pos + 1
		}
	}
	return append(defs, strings.TrimSpace(createSQL[start:]))
}

// parseConstraintNames maps the lower-cased first column of each named
// foreign key to its constraint name. Both table constraints and
// column-level "CONSTRAINT name REFERENCES" clauses are recognized.
func parseConstraintNames(createSQL string) map[string]string {
	names := make(map[string]string)
	add := func(column, name string) {
		key := strings.ToLower(column)
		if _, seen := names[key]; !seen {
			names[key] = name
		}
	}

	for _, def := range splitDefinitions(createSQL) {
		if m := tableForeignKeyPattern.FindStringSubmatch(def); m != nil {
			add(identValue(m[5:9]), identValue(m[1:5]))
			continue
		}
		if tableConstraintPattern.MatchString(def) {
			continue
		}
		col := leadingIdentPattern.FindStringSubmatch(def)
		if col == nil {
			continue
		}
		if m := columnForeignKeyPattern.FindStringSubmatch(def); m != nil {
			add(identValue(col[1:5]), identValue(m[1:5]))
		}
	}
	return names
}

// createTableSQL returns the stored CREATE TABLE statement, or "" if the
// table does not exist.
func (s *sqliteIntrospector) createTableSQL(ctx context.Context, table string) (string, error) {
	var stmt sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT sql FROM sqlite_master
		WHERE type = 'table' AND name = ? COLLATE NOCASE
	`, table).Scan(&stmt)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", alerr.WrapSQL(err, "read table definition", table)
	}
	return stmt.String, nil
}

// sqliteForeignKeyRow is one row of PRAGMA foreign_key_list.
type sqliteForeignKeyRow struct {
	id, seq            int
	refTable, from     string
	to                 sql.NullString
	onUpdate, onDelete string
}

func (s *sqliteIntrospector) ForeignKeys(ctx context.Context, table string) ([]ast.ForeignKey, error) {
	// Returns: id, seq, table, from, to, on_update, on_delete, match
	query := fmt.Sprintf("PRAGMA foreign_key_list(%s)", s.dialect.QuoteIdent(table))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, alerr.WrapSQL(err, "introspect foreign keys", table)
	}

	var fkRows []sqliteForeignKeyRow
	for rows.Next() {
		var r sqliteForeignKeyRow
		var match string
		if err := rows.Scan(&r.id, &r.seq, &r.refTable, &r.from, &r.to, &r.onUpdate, &r.onDelete, &match); err != nil {
			rows.Close()
			return nil, alerr.WrapSQL(err, "scan foreign key", table)
		}
		fkRows = append(fkRows, r)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, alerr.WrapSQL(err, "introspect foreign keys", table)
	}

	acc := NewFKAccumulator(table, s.dialect.NormalizeAction)
	if len(fkRows) == 0 {
		return acc.Values(), nil
	}

	createSQL, err := s.createTableSQL(ctx, table)
	if err != nil {
		return nil, err
	}
	declared := parseConstraintNames(createSQL)

	// Rows of one constraint share an id; seq 0 carries the first column.
	for _, r := range fkRows {
		if r.seq != 0 {
			continue
		}
		name, ok := declared[strings.ToLower(r.from)]
		if !ok {
			name = strutil.SyntheticForeignKeyName(table, r.id)
		}

		refColumn := r.to.String
		if !r.to.Valid || refColumn == "" {
			// REFERENCES without a column list targets the primary key.
			if refColumn, err = s.PrimaryKey(ctx, r.refTable); err != nil {
				return nil, err
			}
			if refColumn == "" {
				refColumn = ast.DefaultPrimaryKey
			}
		}

		acc.Add(name, r.from, r.refTable, refColumn, r.onDelete, r.onUpdate)
	}

	return acc.Values(), nil
}

func (s *sqliteIntrospector) PrimaryKey(ctx context.Context, table string) (string, error) {
	// Returns: cid, name, type, notnull, dflt_value, pk
	query := fmt.Sprintf("PRAGMA table_info(%s)", s.dialect.QuoteIdent(table))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return "", alerr.WrapSQL(err, "introspect primary key", table)
	}
	defer rows.Close()

	var pkCols []string
	for rows.Next() {
		var cid, notNull, pk int
		var name, dataType string
		var defaultVal sql.NullString

		if err := rows.Scan(&cid, &name, &dataType, &notNull, &defaultVal, &pk); err != nil {
			return "", alerr.WrapSQL(err, "scan column", table)
		}
		if pk > 0 {
			pkCols = append(pkCols, name)
		}
	}
	if err := rows.Err(); err != nil {
		return "", alerr.WrapSQL(err, "introspect primary key", table)
	}

	return singleColumn(pkCols), nil
}

func (s *sqliteIntrospector) TableExists(ctx context.Context, table string) (bool, error) {
	return tableExistsCommon(ctx, s.db, `
		SELECT COUNT(*) > 0 FROM sqlite_master
		WHERE type = 'table' AND name = ? COLLATE NOCASE
	`, table)
}
