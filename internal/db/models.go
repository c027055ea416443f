package db

import (
	"database/sql"
	"time"
)

// TaskRow is a task as stored in the tasks table.
type TaskRow struct {
	ID          int
	Name        string
	Priority    int
	Due         sql.NullString
	CreatedAt   time.Time
	CompletedAt sql.NullTime
}

// timeLayout keeps nanoseconds and the zone offset so stored timestamps
// read back exactly.
const timeLayout = time.RFC3339Nano

// NewNullString creates a sql.NullString from a string
func NewNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

// NewNullTime creates a sql.NullTime from an optional time
func NewNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

func formatNullTime(t sql.NullTime) sql.NullString {
	if !t.Valid {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: formatTime(t.Time), Valid: true}
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
