package db

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect names the SQL flavor behind a DB
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DB is a task store backed by SQLite or PostgreSQL
type DB struct {
	db      *sqlx.DB
	dialect Dialect
	now     func() time.Time
}

// Option configures a DB
type Option func(*DB)

// WithClock overrides the clock used for created_at and updated_at
func WithClock(now func() time.Time) Option {
	return func(d *DB) {
		d.now = now
	}
}

// DefaultDBPath returns the default database path (~/.ironfocus/tasks.db)
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".ironfocus", "tasks.db"), nil
}

// Open opens or creates the SQLite database at dbPath.
// ":memory:" gives a private in-memory database.
func Open(dbPath string, opts ...Option) (*DB, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	sqlDB, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" databases alive and serializes writers.
	sqlDB.SetMaxOpenConns(1)

	return setup(sqlDB, DialectSQLite, opts)
}

// OpenPostgres connects to a PostgreSQL database
func OpenPostgres(dsn string, opts ...Option) (*DB, error) {
	sqlDB, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return setup(sqlDB, DialectPostgres, opts)
}

// OpenURL picks the dialect from the location: postgres:// and postgresql://
// URLs go to PostgreSQL, anything else is treated as a SQLite path.
func OpenURL(location string, opts ...Option) (*DB, error) {
	if strings.HasPrefix(location, "postgres://") || strings.HasPrefix(location, "postgresql://") {
		return OpenPostgres(location, opts...)
	}
	return Open(location, opts...)
}

// OpenDefault opens the SQLite database at the default path
func OpenDefault(opts ...Option) (*DB, error) {
	path, err := DefaultDBPath()
	if err != nil {
		return nil, err
	}
	return Open(path, opts...)
}

func setup(sqlDB *sqlx.DB, dialect Dialect, opts []Option) (*DB, error) {
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	d := &DB{
		db:      sqlDB,
		dialect: dialect,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}

	if err := d.migrate(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return d, nil
}

// Dialect reports which SQL flavor the DB speaks
func (d *DB) Dialect() Dialect {
	return d.dialect
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}
