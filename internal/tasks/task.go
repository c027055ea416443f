package tasks

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DueLayout is the normalized form of a due date.
	DueLayout = "01/02/2006"

	// TimestampLayout renders Created and Completed for display.
	TimestampLayout = "Mon Jan _2 03:04:05 PM MST 2006"

	// Placeholder is shown for absent optional values.
	Placeholder = "-"
)

// Task is one tracked item.
type Task struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	Priority  int        `json:"priority"`
	Due       string     `json:"due,omitempty"`
	Created   time.Time  `json:"created"`
	Completed *time.Time `json:"completed,omitempty"`

	// Age is whole days since Created, recomputed on every load.
	Age int `json:"-"`
}

// newTask builds a fully validated task. It is the only constructor used by
// the store, so a Task is never partially built.
func newTask(id int, name string, priority int, due string, created time.Time) (*Task, error) {
	t := &Task{
		ID:       id,
		Name:     strings.ToLower(name),
		Priority: priority,
		Created:  created,
	}
	if due != "" {
		normalized, err := NormalizeDue(due)
		if err != nil {
			return nil, err
		}
		t.Due = normalized
	}
	return t, nil
}

// NormalizeDue converts M/D/YYYY input into zero-padded MM/DD/YYYY.
//
// The reassembled string must also be a real calendar date, so 13/1/2023
// and 2/30/2024 are rejected along with anything that does not split into
// exactly three components.
func NormalizeDue(due string) (string, error) {
	parts := strings.Split(due, "/")
	if len(parts) != 3 {
		return "", &TaskError{Kind: ErrInvalidDateFormat, Msg: fmt.Sprintf("%q: expected MM/DD/YYYY", due)}
	}

	month, day, year := zeroPad(parts[0]), zeroPad(parts[1]), parts[2]
	normalized := month + "/" + day + "/" + year

	parsed, err := time.Parse(DueLayout, normalized)
	if err != nil {
		return "", &TaskError{Kind: ErrInvalidDateFormat, Msg: fmt.Sprintf("%q: not a calendar date", due)}
	}
	return parsed.Format(DueLayout), nil
}

func zeroPad(s string) string {
	if len(s) < 2 {
		return strings.Repeat("0", 2-len(s)) + s
	}
	return s
}

// clone returns a copy that shares no memory with t.
func (t Task) clone() Task {
	if t.Completed != nil {
		c := *t.Completed
		t.Completed = &c
	}
	return t
}

// HasDue reports whether the task carries a due date.
func (t Task) HasDue() bool {
	return t.Due != ""
}

// Outstanding reports whether the task is still open.
func (t Task) Outstanding() bool {
	return t.Completed == nil
}

// DueTime parses the normalized due date.
func (t Task) DueTime() (time.Time, bool) {
	if !t.HasDue() {
		return time.Time{}, false
	}
	d, err := time.Parse(DueLayout, t.Due)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func (t Task) DueText() string {
	if !t.HasDue() {
		return Placeholder
	}
	return t.Due
}

func (t Task) AgeText() string {
	return fmt.Sprintf("%dd", t.Age)
}

func (t Task) CreatedText() string {
	return t.Created.Format(TimestampLayout)
}

func (t Task) CompletedText() string {
	if t.Completed == nil {
		return Placeholder
	}
	return t.Completed.Format(TimestampLayout)
}

// ageInDays counts whole days between created and now, flooring like a
// calendar delta so a task created a few hours ago is 0 days old.
func ageInDays(created, now time.Time) int {
	const day = 24 * time.Hour
	d := now.Sub(created)
	days := int(d / day)
	if d < 0 && d%day != 0 {
		days--
	}
	return days
}
