package alerr

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// PostgreSQL SQLSTATE codes that signal a schema-level constraint problem
// in addition to the integrity-violation class (23xxx).
var postgresConstraintCodes = map[pq.ErrorCode]bool{
	"42P01": true, // undefined_table
	"42703": true, // undefined_column
	"42710": true, // duplicate_object (constraint name already used)
	"42804": true, // datatype_mismatch between column and referenced key
	"42830": true, // invalid_foreign_key (referenced columns not unique)
}

// MySQL error numbers raised by foreign-key DDL and enforcement.
var mysqlConstraintNumbers = map[uint16]bool{
	1005: true, // can't create table (errno 150)
	1022: true, // duplicate key
	1072: true, // key column doesn't exist
	1146: true, // table doesn't exist
	1215: true, // cannot add foreign key constraint
	1216: true, // child row: foreign key fails
	1217: true, // parent row: foreign key fails
	1451: true, // cannot delete or update a parent row
	1452: true, // cannot add or update a child row
	1826: true, // duplicate foreign key constraint name
	3734: true, // missing column for constraint in referenced table
}

// IsConstraintViolation reports whether err is a driver error the database
// raised while creating, dropping or enforcing a constraint. The error is
// only classified; callers still receive it unchanged.
func IsConstraintViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Class() == "23" || postgresConstraintCodes[pqErr.Code]
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return mysqlConstraintNumbers[myErr.Number]
	}

	// modernc.org/sqlite reports constraint failures as plain text.
	return err != nil && strings.Contains(err.Error(), "constraint failed")
}

// DriverCode returns the driver-native error code of err, or "" when err
// did not come from a known driver.
func DriverCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return strconv.Itoa(int(myErr.Number))
	}

	return ""
}
