package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// DB wraps the database connection
type DB struct {
	conn   *sql.DB
	logger zerolog.Logger
}

// Open opens (creating if needed) the database at dbPath and applies any
// pending migrations.
func Open(dbPath string, logger zerolog.Logger) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn, logger: logger}

	// Run any pending migrations
	if err := db.RunMigrations(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// ListTasks returns all tasks ordered by id
func (db *DB) ListTasks() ([]TaskRow, error) {
	query := `
		SELECT id, name, priority, due, created_at, completed_at
		FROM tasks
		ORDER BY id
	`

	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	var tasks []TaskRow
	for rows.Next() {
		var (
			t         TaskRow
			created   string
			completed sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.Name, &t.Priority, &t.Due, &created, &completed); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}

		if t.CreatedAt, err = parseTime(created); err != nil {
			return nil, fmt.Errorf("task %d: parsing created_at: %w", t.ID, err)
		}
		if completed.Valid {
			ts, err := parseTime(completed.String)
			if err != nil {
				return nil, fmt.Errorf("task %d: parsing completed_at: %w", t.ID, err)
			}
			t.CompletedAt = sql.NullTime{Time: ts, Valid: true}
		}

		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

// ReplaceTasks swaps the stored collection for rows in one transaction.
// On any error the previous contents are kept.
func (db *DB) ReplaceTasks(rows []TaskRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clearing tasks: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO tasks (id, name, priority, due, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err := stmt.Exec(
			r.ID,
			r.Name,
			r.Priority,
			r.Due,
			formatTime(r.CreatedAt),
			formatNullTime(r.CompletedAt),
		)
		if err != nil {
			return fmt.Errorf("inserting task %d: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing tasks: %w", err)
	}
	return nil
}
