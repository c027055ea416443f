package tasks

import "github.com/rs/zerolog"

// Backend persists the full task collection.
//
// Load returns an empty slice and no error when nothing has been persisted
// yet. Save replaces the persisted collection as a whole; a failed Save must
// leave the previous state intact.
type Backend interface {
	// Name returns the backend identifier (e.g., "file", "sqlite")
	Name() string

	Load() ([]Task, error)

	Save(tasks []Task) error
}

// BackendOptions configures a backend instance.
type BackendOptions struct {
	// Path is the location of the persisted state, relative to the
	// working directory unless absolute.
	Path   string
	Logger zerolog.Logger
}

// BackendFactory is a function that creates a new instance of a Backend
type BackendFactory func(opts BackendOptions) (Backend, error)
