package db

import "fmt"

// migrate runs all database migrations
func (d *DB) migrate() error {
	migrations := sqliteMigrations
	if d.dialect == DialectPostgres {
		migrations = postgresMigrations
	}

	for i, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}

// SQLite keeps timestamps as fixed-width UTC text so they sort as strings.
var sqliteMigrations = []string{
	`
CREATE TABLE IF NOT EXISTS tasks (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL CHECK (length(trim(name)) > 0),
    created_at TEXT NOT NULL,
    updated_at TEXT,
    is_active INTEGER NOT NULL DEFAULT 1
);
`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_active_created ON tasks(is_active, created_at);`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_active_updated ON tasks(is_active, updated_at);`,
}

var postgresMigrations = []string{
	`
CREATE TABLE IF NOT EXISTS tasks (
    id UUID PRIMARY KEY,
    name TEXT NOT NULL CHECK (length(trim(name)) > 0),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ,
    is_active BOOLEAN NOT NULL DEFAULT TRUE
);
`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_active_created ON tasks(is_active, created_at DESC);`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_active_updated ON tasks(is_active, updated_at DESC);`,
}
