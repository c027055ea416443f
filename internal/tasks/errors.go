package tasks

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDateFormat = errors.New("invalid date format")
	ErrTaskNotFound      = errors.New("task not found")
	ErrAlreadyCompleted  = errors.New("task already completed")
)

// TaskError carries the failing task ID alongside one of the sentinel kinds.
type TaskError struct {
	Kind error
	ID   int
	Msg  string
}

func (e *TaskError) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
	case e.ID != 0:
		return fmt.Sprintf("%s: %d", e.Kind.Error(), e.ID)
	default:
		return e.Kind.Error()
	}
}

func (e *TaskError) Unwrap() error { return e.Kind }

func notFound(id int) error {
	return &TaskError{Kind: ErrTaskNotFound, ID: id}
}
