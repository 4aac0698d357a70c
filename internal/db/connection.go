package db

import (
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Supported driver names. DriverSQLite is the default target store;
// DriverPostgres is kept for installations that report off a shared server.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

func init() {
	// modernc's driver is not in sqlx's built-in bind table; it takes
	// ordinary ? placeholders like sqlite3.
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Connection holds the database handle together with the driver it was
// opened with.
type Connection struct {
	DB     *sqlx.DB
	Driver string
}

// Open opens a database connection for the given driver. For sqlite the
// target is a file path (or ":memory:"); for postgres it is a DSN, with
// an empty target falling back to the PG* environment variables.
func Open(driver, target string) (*Connection, error) {
	switch driver {
	case DriverSQLite:
		db, err := sqlx.Connect(DriverSQLite, target)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database %s: %w", target, err)
		}
		// A single connection keeps every statement on the same
		// in-memory database and serialises writes on file stores.
		db.SetMaxOpenConns(1)
		return &Connection{DB: db, Driver: driver}, nil

	case DriverPostgres:
		if target == "" {
			target = postgresDSNFromEnv()
		}
		db, err := sqlx.Connect(DriverPostgres, target)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres database: %w", err)
		}
		db.SetMaxOpenConns(20)
		db.SetMaxIdleConns(10)
		return &Connection{DB: db, Driver: driver}, nil
	}

	return nil, fmt.Errorf("unknown database driver %q", driver)
}

// Recreate removes any previous destination so a run always starts from an
// empty store. Only file-backed sqlite stores have anything to remove; the
// postgres schema script drops its own tables.
func Recreate(driver, target string) error {
	if driver != DriverSQLite || target == ":memory:" {
		return nil
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove existing database %s: %w", target, err)
	}
	return nil
}

// Close closes the database connection
func (c *Connection) Close() error {
	return c.DB.Close()
}

// getEnvOrDefault returns environment variable or default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func postgresDSNFromEnv() string {
	host := getEnvOrDefault("PGHOST", "localhost")
	port := getEnvOrDefault("PGPORT", "5432")
	user := getEnvOrDefault("PGUSER", "postgres")
	password := getEnvOrDefault("PGPASSWORD", "postgres")
	dbname := getEnvOrDefault("PGDATABASE", "broadcasts")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)
}
