package introspect

import (
	"context"

	"github.com/hlop3z/fkmig/internal/alerr"
	"github.com/hlop3z/fkmig/internal/ast"
	"github.com/hlop3z/fkmig/internal/dialect"
)

// postgresIntrospector implements Introspector for PostgreSQL.
// Tables are looked up in the schemas of the current search_path.
type postgresIntrospector struct {
	db      Querier
	dialect dialect.Dialect
}

const postgresForeignKeysQuery = `
	SELECT
		c.conname,
		a1.attname,
		t2.relname,
		a2.attname,
		c.confdeltype::text,
		c.confupdtype::text
	FROM pg_constraint c
	JOIN pg_class t1 ON c.conrelid = t1.oid
	JOIN pg_class t2 ON c.confrelid = t2.oid
	JOIN pg_attribute a1 ON a1.attnum = c.conkey[1] AND a1.attrelid = t1.oid
	JOIN pg_attribute a2 ON a2.attnum = c.confkey[1] AND a2.attrelid = t2.oid
	JOIN pg_namespace t3 ON c.connamespace = t3.oid
	WHERE c.contype = 'f'
		AND t1.relname = $1
		AND t3.nspname = ANY (current_schemas(false))
	ORDER BY c.conname
`

func (p *postgresIntrospector) ForeignKeys(ctx context.Context, table string) ([]ast.ForeignKey, error) {
	rows, err := p.db.QueryContext(ctx, postgresForeignKeysQuery, table)
	if err != nil {
		return nil, alerr.WrapSQL(err, "introspect foreign keys", table)
	}
	defer rows.Close()

	acc := NewFKAccumulator(table, p.dialect.NormalizeAction)
	for rows.Next() {
		var name, column, refTable, refColumn, onDelete, onUpdate string

		err := rows.Scan(&name, &column, &refTable, &refColumn, &onDelete, &onUpdate)
		if err != nil {
			return nil, alerr.WrapSQL(err, "scan foreign key", table)
		}

		acc.Add(name, column, refTable, refColumn, onDelete, onUpdate)
	}
	if err := rows.Err(); err != nil {
		return nil, alerr.WrapSQL(err, "introspect foreign keys", table)
	}

	return acc.Values(), nil
}

func (p *postgresIntrospector) PrimaryKey(ctx context.Context, table string) (string, error) {
	cols, err := queryStrings(ctx, p.db, "introspect primary key", table, `
		SELECT a.attname
		FROM pg_index i
		JOIN pg_class t ON t.oid = i.indrelid
		JOIN pg_namespace n ON n.oid = t.relnamespace
		JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = ANY (i.indkey)
		WHERE i.indisprimary
			AND t.relname = $1
			AND n.nspname = ANY (current_schemas(false))
	`, table)
	if err != nil {
		return "", err
	}
	return singleColumn(cols), nil
}

func (p *postgresIntrospector) TableExists(ctx context.Context, table string) (bool, error) {
	return tableExistsCommon(ctx, p.db, `
		SELECT EXISTS (
			SELECT 1 FROM pg_tables
			WHERE schemaname = ANY (current_schemas(false)) AND tablename = $1
		)
	`, table)
}
