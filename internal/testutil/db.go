//go:build integration

package testutil

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// The version of postgres against which the tests are run
// if the POSTGRES_VERSION environment variable is not set.
const defaultPostgresVersion = "15.3"

// postgresURL holds the connection string of POSTGRES_URL or of the
// container started in SharedTestMain.
var postgresURL string

// SharedTestMain runs the tests of a package against PostgreSQL. When
// POSTGRES_URL is unset it starts a container used by all tests of the
// package; each test then works in its own schema.
func SharedTestMain(m *testing.M) {
	postgresURL = os.Getenv("POSTGRES_URL")
	if postgresURL != "" {
		os.Exit(m.Run())
	}

	ctx := context.Background()

	waitForLogs := wait.
		ForLog("database system is ready to accept connections").
		WithOccurrence(2).
		WithStartupTimeout(30 * time.Second)

	pgVersion := os.Getenv("POSTGRES_VERSION")
	if pgVersion == "" {
		pgVersion = defaultPostgresVersion
	}

	ctr, err := postgres.Run(ctx, "postgres:"+pgVersion,
		testcontainers.WithWaitStrategy(waitForLogs),
	)
	if err != nil {
		log.Printf("Failed to start postgres container: %v", err)
		os.Exit(1)
	}

	postgresURL, err = ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Printf("Failed to read container connection string: %v", err)
		os.Exit(1)
	}

	exitCode := m.Run()

	if err := testcontainers.TerminateContainer(ctr); err != nil {
		log.Printf("Failed to terminate container: %v", err)
	}

	os.Exit(exitCode)
}

// randomName returns prefix followed by 16 random hex characters.
func randomName(t *testing.T, prefix string) string {
	t.Helper()

	randomBytes := make([]byte, 8)
	if _, err := rand.Read(randomBytes); err != nil {
		t.Fatalf("failed to generate random name: %v", err)
	}
	return prefix + hex.EncodeToString(randomBytes)
}

// SetupPostgres connects to the PostgreSQL test database.
// Each test gets its own schema, set as the only entry of search_path, so
// tests never see each other's tables. The connection is automatically
// closed and the schema dropped when the test completes.
func SetupPostgres(t *testing.T) *sql.DB {
	t.Helper()

	url := postgresURL
	if url == "" {
		url = os.Getenv("POSTGRES_URL")
	}
	if url == "" {
		t.Skip("POSTGRES_URL not set and no container started; call testutil.SharedTestMain from TestMain")
	}

	setupDB, err := sql.Open("postgres", url)
	if err != nil {
		t.Fatalf("failed to open postgres connection: %v", err)
	}
	if err := setupDB.Ping(); err != nil {
		setupDB.Close()
		t.Fatalf("failed to ping postgres: %v", err)
	}

	schemaName := randomName(t, "test_")
	if _, err := setupDB.Exec(fmt.Sprintf("CREATE SCHEMA %s", schemaName)); err != nil {
		setupDB.Close()
		t.Fatalf("failed to create test schema: %v", err)
	}
	setupDB.Close()

	separator := "&"
	if !strings.Contains(url, "?") {
		separator = "?"
	}
	urlWithSchema := fmt.Sprintf("%s%ssearch_path=%s", url, separator, schemaName)

	db, err := sql.Open("postgres", urlWithSchema)
	if err != nil {
		t.Fatalf("failed to open postgres connection with schema: %v", err)
	}

	// Limit to single connection to ensure schema consistency
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		t.Fatalf("failed to ping postgres with schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
		cleanupDB, err := sql.Open("postgres", url)
		if err == nil {
			_, _ = cleanupDB.Exec(fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", schemaName))
			cleanupDB.Close()
		}
	})

	return db
}

// SetupMySQL connects to the MySQL server named by MYSQL_DSN and creates a
// scratch database for the test. The test is skipped when MYSQL_DSN is unset.
func SetupMySQL(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		t.Skip("MYSQL_DSN not set")
	}

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		t.Fatalf("failed to parse MYSQL_DSN: %v", err)
	}

	setupDB, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		t.Fatalf("failed to open mysql connection: %v", err)
	}
	if err := setupDB.Ping(); err != nil {
		setupDB.Close()
		t.Fatalf("failed to ping mysql: %v", err)
	}

	dbName := randomName(t, "fkmig_test_")
	if _, err := setupDB.Exec("CREATE DATABASE " + dbName); err != nil {
		setupDB.Close()
		t.Fatalf("failed to create test database: %v", err)
	}

	testCfg := cfg.Clone()
	testCfg.DBName = dbName
	connector, err := mysql.NewConnector(testCfg)
	if err != nil {
		setupDB.Close()
		t.Fatalf("failed to build mysql connector: %v", err)
	}

	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		setupDB.Close()
		t.Fatalf("failed to ping mysql test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
		_, _ = setupDB.Exec("DROP DATABASE IF EXISTS " + dbName)
		setupDB.Close()
	})

	return db
}
