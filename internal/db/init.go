package db

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// Initialize creates a new database with the complete schema. It refuses to
// touch an existing file.
func Initialize(dbPath string, logger zerolog.Logger) (*DB, error) {
	// Check if database already exists
	if _, err := os.Stat(dbPath); err == nil {
		return nil, fmt.Errorf("database already exists at %s", dbPath)
	}

	db, err := Open(dbPath, logger)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}
	return db, nil
}
