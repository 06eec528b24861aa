// Package testutil provides test helpers for fkmig.
//
// This package includes:
//   - Database setup functions for PostgreSQL, MySQL and SQLite
//   - SQL assertion helpers for comparing rendered statements
//   - Error assertion helpers for checking error codes
//
// # Build Tags
//
// SQLite tests run in memory and need no tag. PostgreSQL and MySQL tests
// are guarded by the integration tag:
//
//	go test ./...                     # unit + SQLite tests
//	go test ./... -tags=integration   # all database tests
//
// # Environment Variables
//
//	POSTGRES_URL     - PostgreSQL connection string. When unset, SharedTestMain
//	                   starts a container with testcontainers-go.
//	POSTGRES_VERSION - image tag of that container (default 15.3)
//	MYSQL_DSN        - MySQL DSN (user:pass@tcp(host:3306)/db). MySQL tests
//	                   are skipped when unset.
//
// # Example Usage
//
//	func TestMain(m *testing.M) {
//	    testutil.SharedTestMain(m)
//	}
//
//	func TestMyFeature(t *testing.T) {
//	    db := testutil.SetupPostgres(t)
//	    testutil.ExecSQL(t, db, `CREATE TABLE rockets (id SERIAL PRIMARY KEY)`)
//	}
package testutil
