package sqlite

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/pdxmph/todo/internal/db"
	"github.com/pdxmph/todo/internal/tasks"
)

// DefaultPath is the database used when no path is configured.
const DefaultPath = ".todo.db"

// Backend implements the tasks.Backend interface on a SQLite database.
// Each Save rewrites the tasks table inside a single transaction.
type Backend struct {
	path   string
	logger zerolog.Logger
}

// NewBackend creates a SQLite backend at path.
func NewBackend(path string, logger zerolog.Logger) *Backend {
	if path == "" {
		path = DefaultPath
	}
	return &Backend{path: path, logger: logger}
}

// Name returns the backend identifier
func (b *Backend) Name() string {
	return "sqlite"
}

func (b *Backend) Load() ([]tasks.Task, error) {
	// A missing database is an empty collection; don't create it on read.
	if _, err := os.Stat(b.path); os.IsNotExist(err) {
		b.logger.Debug().Str("path", b.path).Msg("no database, starting empty")
		return []tasks.Task{}, nil
	}

	database, err := db.Open(b.path, b.logger)
	if err != nil {
		return nil, err
	}
	defer database.Close()

	rows, err := database.ListTasks()
	if err != nil {
		return nil, err
	}

	out := make([]tasks.Task, 0, len(rows))
	for _, r := range rows {
		out = append(out, fromRow(r))
	}
	b.logger.Debug().Str("path", b.path).Int("tasks", len(out)).Msg("loaded database")
	return out, nil
}

func (b *Backend) Save(list []tasks.Task) error {
	database, err := db.Open(b.path, b.logger)
	if err != nil {
		return err
	}
	defer database.Close()

	rows := make([]db.TaskRow, 0, len(list))
	for _, t := range list {
		rows = append(rows, toRow(t))
	}
	if err := database.ReplaceTasks(rows); err != nil {
		return fmt.Errorf("replacing tasks in %s: %w", b.path, err)
	}

	b.logger.Debug().Str("path", b.path).Int("tasks", len(rows)).Msg("saved database")
	return nil
}

func toRow(t tasks.Task) db.TaskRow {
	return db.TaskRow{
		ID:          t.ID,
		Name:        t.Name,
		Priority:    t.Priority,
		Due:         db.NewNullString(t.Due),
		CreatedAt:   t.Created,
		CompletedAt: db.NewNullTime(t.Completed),
	}
}

func fromRow(r db.TaskRow) tasks.Task {
	t := tasks.Task{
		ID:       r.ID,
		Name:     r.Name,
		Priority: r.Priority,
		Created:  r.CreatedAt,
	}
	if r.Due.Valid {
		t.Due = r.Due.String
	}
	if r.CompletedAt.Valid {
		completed := r.CompletedAt.Time
		t.Completed = &completed
	}
	return t
}

// Register the sqlite backend
func init() {
	tasks.Register("sqlite", func(opts tasks.BackendOptions) (tasks.Backend, error) {
		return NewBackend(opts.Path, opts.Logger), nil
	})
}
