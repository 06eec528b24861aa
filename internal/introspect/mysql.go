package introspect

import (
	"context"

	"github.com/hlop3z/fkmig/internal/alerr"
	"github.com/hlop3z/fkmig/internal/ast"
	"github.com/hlop3z/fkmig/internal/dialect"
)

// mysqlIntrospector implements Introspector for MySQL using
// information_schema, scoped to the connection's current database.
type mysqlIntrospector struct {
	db      Querier
	dialect dialect.Dialect
}

const mysqlForeignKeysQuery = `
	SELECT
		kcu.CONSTRAINT_NAME,
		kcu.COLUMN_NAME,
		kcu.REFERENCED_TABLE_NAME,
		kcu.REFERENCED_COLUMN_NAME,
		rc.DELETE_RULE,
		rc.UPDATE_RULE
	FROM information_schema.KEY_COLUMN_USAGE kcu
	JOIN information_schema.REFERENTIAL_CONSTRAINTS rc
		ON rc.CONSTRAINT_SCHEMA = kcu.CONSTRAINT_SCHEMA
		AND rc.CONSTRAINT_NAME = kcu.CONSTRAINT_NAME
		AND rc.TABLE_NAME = kcu.TABLE_NAME
	WHERE kcu.TABLE_SCHEMA = DATABASE()
		AND kcu.TABLE_NAME = ?
		AND kcu.REFERENCED_TABLE_NAME IS NOT NULL
	ORDER BY kcu.CONSTRAINT_NAME, kcu.ORDINAL_POSITION
`

func (m *mysqlIntrospector) ForeignKeys(ctx context.Context, table string) ([]ast.ForeignKey, error) {
	rows, err := m.db.QueryContext(ctx, mysqlForeignKeysQuery, table)
	if err != nil {
		return nil, alerr.WrapSQL(err, "introspect foreign keys", table)
	}
	defer rows.Close()

	acc := NewFKAccumulator(table, m.dialect.NormalizeAction)
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

func (m *mysqlIntrospector) PrimaryKey(ctx context.Context, table string) (string, error) {
	cols, err := queryStrings(ctx, m.db, "introspect primary key", table, `
		SELECT COLUMN_NAME
		FROM information_schema.KEY_COLUMN_USAGE
		WHERE TABLE_SCHEMA = DATABASE()
			AND TABLE_NAME = ?
			AND CONSTRAINT_NAME = 'PRIMARY'
		ORDER BY ORDINAL_POSITION
	`, table)
	if err != nil {
		return "", err
	}
	return singleColumn(cols), nil
}

func (m *mysqlIntrospector) TableExists(ctx context.Context, table string) (bool, error) {
	return tableExistsCommon(ctx, m.db, `
		SELECT COUNT(*) > 0
		FROM information_schema.TABLES
		WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?
	`, table)
}
