package tasks

import (
	"fmt"
	"time"
)

// DefaultBackend is used when no backend name is configured.
const DefaultBackend = "file"

// Manager handles backend selection and opens stores on it
type Manager struct {
	backend Backend
}

// NewManager creates a new task manager with the specified backend.
// If backendName is empty, DefaultBackend is used.
func NewManager(backendName string, opts BackendOptions) (*Manager, error) {
	if backendName == "" {
		backendName = DefaultBackend
	}

	backend, err := CreateBackend(backendName, opts)
	if err != nil {
		return nil, fmt.Errorf("creating backend %s: %w", backendName, err)
	}

	opts.Logger.Debug().
		Str("backend", backend.Name()).
		Str("path", opts.Path).
		Msg("selected storage backend")

	return &Manager{backend: backend}, nil
}

// Backend returns the current backend
func (m *Manager) Backend() Backend {
	return m.backend
}

// Name returns the name of the current backend
func (m *Manager) Name() string {
	return m.backend.Name()
}

// Open loads a store from the current backend.
func (m *Manager) Open(now func() time.Time) (*Store, error) {
	return Open(m.backend, now)
}
