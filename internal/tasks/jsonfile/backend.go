package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/pdxmph/todo/internal/tasks"
)

// DefaultPath is the state file used when no path is configured. It is
// resolved against the process working directory.
const DefaultPath = ".todo.json"

// Backend implements the tasks.Backend interface on a single JSON file.
//
// Saves go to a temporary file in the same directory which is synced and
// then renamed over the previous state, so an interrupted save never leaves
// a partially written file behind.
type Backend struct {
	path   string
	logger zerolog.Logger
}

// NewBackend creates a JSON file backend at path.
func NewBackend(path string, logger zerolog.Logger) *Backend {
	if path == "" {
		path = DefaultPath
	}
	return &Backend{path: path, logger: logger}
}

// Name returns the backend identifier
func (b *Backend) Name() string {
	return "file"
}

// Path returns the state file location.
func (b *Backend) Path() string {
	return b.path
}

func (b *Backend) Load() ([]tasks.Task, error) {
	f, err := os.Open(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			b.logger.Debug().Str("path", b.path).Msg("no state file, starting empty")
			return []tasks.Task{}, nil
		}
		return nil, fmt.Errorf("opening state file: %w", err)
	}
	defer f.Close()

	var loaded []tasks.Task
	if err := readJSONStrict(f, &loaded); err != nil {
		return nil, fmt.Errorf("decoding state file %s: %w", b.path, err)
	}
	if loaded == nil {
		loaded = []tasks.Task{}
	}

	b.logger.Debug().Str("path", b.path).Int("tasks", len(loaded)).Msg("loaded state file")
	return loaded, nil
}

func (b *Backend) Save(list []tasks.Task) error {
	if list == nil {
		list = []tasks.Task{}
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding tasks: %w", err)
	}
	data = append(data, '\n')

	if err := writeFileAtomic(b.path, data, 0o600); err != nil {
		return fmt.Errorf("writing state file %s: %w", b.path, err)
	}

	b.logger.Debug().Str("path", b.path).Int("tasks", len(list)).Msg("saved state file")
	return nil
}

func readJSONStrict(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	// Ensure no trailing junk.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("invalid JSON: trailing content")
	}
	return nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return nil
}

// Register the file backend
func init() {
	tasks.Register("file", func(opts tasks.BackendOptions) (tasks.Backend, error) {
		return NewBackend(opts.Path, opts.Logger), nil
	})
}
