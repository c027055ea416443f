package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// CreateFixturesDatabase creates a database with realistic sample tasks,
// mixing dated, undated and completed entries.
func CreateFixturesDatabase(dbPath string, now time.Time, logger zerolog.Logger) error {
	// Initialize empty database
	database, err := Initialize(dbPath, logger)
	if err != nil {
		return fmt.Errorf("initializing fixtures database: %w", err)
	}
	defer database.Close()

	days := func(n int) time.Time { return now.AddDate(0, 0, n) }
	due := func(n int) sql.NullString { return NewNullString(days(n).Format("01/02/2006")) }
	doneAt := func(n int) sql.NullTime { return sql.NullTime{Time: days(n), Valid: true} }

	fixtures := []TaskRow{
		{ID: 1, Name: "renew passport", Priority: 1, Due: due(21), CreatedAt: days(-12)},
		{ID: 2, Name: "file quarterly taxes", Priority: 1, Due: due(5), CreatedAt: days(-30)},
		{ID: 3, Name: "call the dentist", Priority: 2, CreatedAt: days(-3)},
		{ID: 4, Name: "buy milk", Priority: 1, CreatedAt: days(-1)},
		{ID: 5, Name: "read the sqlite docs", Priority: 3, CreatedAt: days(-45)},
		{ID: 6, Name: "replace bike chain", Priority: 2, CreatedAt: days(-20), CompletedAt: doneAt(-2)},
		{ID: 7, Name: "send birthday card", Priority: 1, Due: due(-4), CreatedAt: days(-10), CompletedAt: doneAt(-6)},
		{ID: 8, Name: "book flights for the conference", Priority: 1, Due: due(60), CreatedAt: days(0)},
	}

	if err := database.ReplaceTasks(fixtures); err != nil {
		return fmt.Errorf("inserting fixture tasks: %w", err)
	}

	logger.Info().Str("path", dbPath).Int("tasks", len(fixtures)).Msg("created fixtures database")
	return nil
}
