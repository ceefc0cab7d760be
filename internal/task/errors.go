package task

import (
	"errors"
	"fmt"
)

var errEmptyDescription = errors.New("description cannot be empty")

func errUnknownPriority(p Priority) error {
	return fmt.Errorf("unknown priority %q, must be one of: LOW, MEDIUM, HIGH", string(p))
}

func errUnknownStatus(s Status) error {
	return fmt.Errorf("unknown status %q, must be one of: PENDING, DONE", string(s))
}

// ValidationError reports bad user input. The originating field is kept
// for context.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NotFoundError reports an operation addressing a task id that is not
// in the collection.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task %q not found", e.ID)
}

// PersistenceError reports a failed read or write of the backing file.
// For writes the in-memory mutation has already been applied and stands
// for the rest of the session.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s tasks: %s", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *PersistenceError) Unwrap() error {
	return e.Err
}
