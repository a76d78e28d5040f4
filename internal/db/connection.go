package db

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Drivers accepted by Open.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Connection holds the database connection
type Connection struct {
	DB     *sql.DB
	Driver string
}

// Open connects to a table source. driver is "postgres" or "sqlite";
// "sqlite3" and "postgresql" are accepted as aliases.
func Open(driver, dsn string) (*Connection, error) {
	switch strings.ToLower(driver) {
	case "postgres", "postgresql", "pq":
		driver = DriverPostgres
	case "sqlite", "sqlite3":
		driver = DriverSQLite
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if dsn == "" {
		return nil, fmt.Errorf("%s: empty data source name", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(20)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(time.Hour)
	}

	return &Connection{DB: db, Driver: driver}, nil
}

// NewConnection creates a postgres connection from the PG* environment
func NewConnection() (*Connection, error) {
	return Open(DriverPostgres, PostgresDSN())
}

// PostgresDSN builds a lib/pq keyword DSN from PGHOST, PGPORT, PGUSER,
// PGPASSWORD, PGDATABASE and PGSSLMODE.
func PostgresDSN() string {
	host := getEnvOrDefault("PGHOST", "localhost")
	port := getEnvOrDefault("PGPORT", "5432")
	user := getEnvOrDefault("PGUSER", "postgres")
	password := getEnvOrDefault("PGPASSWORD", "postgres")
	dbname := getEnvOrDefault("PGDATABASE", "postgres")
	sslmode := getEnvOrDefault("PGSSLMODE", "disable")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)
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
