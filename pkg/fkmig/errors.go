package fkmig

import (
	"errors"
	"fmt"

	"github.com/hlop3z/fkmig/internal/alerr"
)

// Sentinel errors for client setup.
// Use errors.Is() to check for these errors.
var (
	// ErrMissingDatabaseURL is returned when no database URL is provided.
	ErrMissingDatabaseURL = errors.New("fkmig: database URL required")

	// ErrConnectionFailed is returned when the database connection fails.
	ErrConnectionFailed = errors.New("fkmig: connection failed")

	// ErrUnsupportedDialect is returned when the database dialect is not supported.
	ErrUnsupportedDialect = errors.New("fkmig: unsupported dialect")
)

// Code is a stable, machine-readable error code carried by operation errors.
type Code = alerr.Code

// Codes of the errors returned by foreign-key operations and migrations.
const (
	CodeIdentifierTooLong     = alerr.ErrIdentifierTooLong
	CodeInvalidOption         = alerr.ErrInvalidOption
	CodeConstraintNotFound    = alerr.ErrConstraintNotFound
	CodeAmbiguousSelector     = alerr.ErrAmbiguousSelector
	CodeIrreversibleMigration = alerr.ErrIrreversibleMigration
	CodeMigrationFailed       = alerr.ErrMigrationFailed
	CodeUnsupportedDialect    = alerr.EUnsupportedDialect
)

// ErrorCode returns the code of the outermost coded error in err's chain,
// or "" for driver errors, which are returned unwrapped.
func ErrorCode(err error) Code {
	return alerr.GetErrorCode(err)
}

// IsConstraintViolation reports whether err is a database error raised
// while creating, dropping or enforcing a constraint.
func IsConstraintViolation(err error) bool {
	return alerr.IsConstraintViolation(err)
}

// ConnectionError provides detailed information about a database connection error.
type ConnectionError struct {
	// URL is the database URL (with password redacted).
	URL string

	// Dialect is the database dialect (postgres, mysql, sqlite).
	Dialect string

	// Cause is the underlying error from the database driver.
	Cause error
}

// Error returns a formatted error message.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("fkmig: failed to connect to %s database %s: %v", e.Dialect, e.URL, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// Is reports whether this error matches the target error.
func (e *ConnectionError) Is(target error) bool {
	return target == ErrConnectionFailed
}
