package db

import (
	"fmt"
)

type migration struct {
	version int
	name    string
	stmt    string
}

// migrations are applied in order; the highest applied version is kept in
// PRAGMA user_version.
var migrations = []migration{
	{
		version: 1,
		name:    "create tasks table",
		stmt: `
CREATE TABLE IF NOT EXISTS tasks (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    priority INTEGER NOT NULL DEFAULT 1,
    due TEXT,
    created_at TEXT NOT NULL,
    completed_at TEXT
);`,
	},
	{
		version: 2,
		name:    "index completion state",
		stmt:    `CREATE INDEX IF NOT EXISTS idx_tasks_completed_at ON tasks (completed_at);`,
	},
}

// SchemaVersion returns the schema version recorded in the database
func (db *DB) SchemaVersion() (int, error) {
	var version int
	if err := db.conn.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

// RunMigrations applies any pending database migrations
func (db *DB) RunMigrations() error {
	current, err := db.SchemaVersion()
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := db.apply(m); err != nil {
			return err
		}
		current = m.version
	}

	return nil
}

func (db *DB) apply(m migration) error {
	db.logger.Debug().Int("version", m.version).Str("migration", m.name).Msg("running migration")

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.stmt); err != nil {
		return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
	}

	// PRAGMA does not accept bound parameters.
	if _, err := tx.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, m.version)); err != nil {
		return fmt.Errorf("recording schema version %d: %w", m.version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration %d: %w", m.version, err)
	}

	db.logger.Info().Int("version", m.version).Msg("migration completed successfully")
	return nil
}
