// Package task defines the task record, its field invariants, and the
// deadline-derived properties.
package task

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status represents a task status.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusDone    Status = "DONE"
)

// Valid reports whether the status is a known value.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusDone
}

// Priority represents a task priority.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Valid reports whether the priority is a known value.
func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Rank returns the sort rank of the priority: LOW < MEDIUM < HIGH.
// Unknown priorities rank below LOW.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	}
	return 0
}

// MaxDescriptionLen caps stored descriptions; longer input is truncated.
const MaxDescriptionLen = 200

// DefaultDueSoonHorizon is the look-ahead window for IsDueSoon when the
// caller has no configured horizon.
const DefaultDueSoonHorizon = 24 * time.Hour

// Task is a single to-do record. DueDate is nil when the task has no
// deadline and marshals to an explicit JSON null.
type Task struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	CreatedAt   time.Time  `json:"created_at"`
	DueDate     *time.Time `json:"due_date"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// New constructs a pending task. The description is trimmed and must be
// non-empty after trimming; it is truncated to MaxDescriptionLen runes.
func New(description string, priority Priority, now time.Time) (Task, error) {
	desc, err := cleanDescription(description)
	if err != nil {
		return Task{}, err
	}
	if !priority.Valid() {
		return Task{}, &ValidationError{Field: "priority", Err: errUnknownPriority(priority)}
	}
	return Task{
		ID:          uuid.NewString(),
		Description: desc,
		Status:      StatusPending,
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// SetDescription replaces the description and stamps UpdatedAt.
func (t *Task) SetDescription(description string, now time.Time) error {
	desc, err := cleanDescription(description)
	if err != nil {
		return err
	}
	t.Description = desc
	t.UpdatedAt = now
	return nil
}

// SetPriority replaces the priority and stamps UpdatedAt.
func (t *Task) SetPriority(priority Priority, now time.Time) error {
	if !priority.Valid() {
		return &ValidationError{Field: "priority", Err: errUnknownPriority(priority)}
	}
	t.Priority = priority
	t.UpdatedAt = now
	return nil
}

// SetStatus replaces the status and stamps UpdatedAt.
func (t *Task) SetStatus(status Status, now time.Time) error {
	if !status.Valid() {
		return &ValidationError{Field: "status", Err: errUnknownStatus(status)}
	}
	t.Status = status
	t.UpdatedAt = now
	return nil
}

// Toggle flips the task between PENDING and DONE and stamps UpdatedAt.
func (t *Task) Toggle(now time.Time) {
	if t.Status == StatusDone {
		t.Status = StatusPending
	} else {
		t.Status = StatusDone
	}
	t.UpdatedAt = now
}

// SetDueDate sets or clears (nil) the deadline and stamps UpdatedAt.
func (t *Task) SetDueDate(due *time.Time, now time.Time) {
	if due != nil {
		d := *due
		t.DueDate = &d
	} else {
		t.DueDate = nil
	}
	t.UpdatedAt = now
}

// IsOverdue reports whether the deadline has passed. Done tasks are
// never overdue.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.Status == StatusDone {
		return false
	}
	return now.After(*t.DueDate)
}

// IsDueSoon reports whether the deadline falls within the horizon and
// has not yet passed. Done tasks are never due soon.
func (t *Task) IsDueSoon(now time.Time, horizon time.Duration) bool {
	if t.DueDate == nil || t.Status == StatusDone {
		return false
	}
	due := *t.DueDate
	return now.Before(due) && !due.After(now.Add(horizon))
}

// HoursUntilDue returns the signed hours until the deadline, negative
// once it has passed. The second result is false when the task has no
// deadline.
func (t *Task) HoursUntilDue(now time.Time) (float64, bool) {
	if t.DueDate == nil {
		return 0, false
	}
	return t.DueDate.Sub(now).Hours(), true
}

// DeadlineState classifies the deadline for display purposes.
type DeadlineState string

const (
	DeadlineNone    DeadlineState = "none"
	DeadlineDone    DeadlineState = "done"
	DeadlineOverdue DeadlineState = "overdue"
	DeadlineSoon    DeadlineState = "soon"
	DeadlineNormal  DeadlineState = "normal"
)

// Deadline returns the deadline state at the given time.
func (t *Task) Deadline(now time.Time, horizon time.Duration) DeadlineState {
	switch {
	case t.DueDate == nil:
		return DeadlineNone
	case t.Status == StatusDone:
		return DeadlineDone
	case t.IsOverdue(now):
		return DeadlineOverdue
	case t.IsDueSoon(now, horizon):
		return DeadlineSoon
	}
	return DeadlineNormal
}

func cleanDescription(description string) (string, error) {
	desc := strings.TrimSpace(description)
	if desc == "" {
		return "", &ValidationError{Field: "description", Err: errEmptyDescription}
	}
	if runes := []rune(desc); len(runes) > MaxDescriptionLen {
		desc = strings.TrimSpace(string(runes[:MaxDescriptionLen]))
	}
	return desc, nil
}
