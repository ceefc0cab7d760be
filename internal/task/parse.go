package task

import (
	"fmt"
	"strings"
	"time"
)

const dateOnlyLayout = "2006-01-02"

// ParseDueDate parses a deadline from user input. A bare calendar date
// is normalized to 23:59 local time so the task stays actionable for the
// whole day; a full RFC 3339 date-time is taken as-is.
func ParseDueDate(input string) (time.Time, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return time.Time{}, &ValidationError{Field: "due_date", Err: fmt.Errorf("empty date")}
	}
	if d, err := time.ParseInLocation(dateOnlyLayout, s, time.Local); err == nil {
		return d.Add(23*time.Hour + 59*time.Minute), nil
	}
	if d, err := time.Parse(time.RFC3339, s); err == nil {
		return d, nil
	}
	return time.Time{}, &ValidationError{
		Field: "due_date",
		Err:   fmt.Errorf("invalid date %q, use YYYY-MM-DD or RFC 3339", s),
	}
}

// ParsePriority parses a priority name, case-insensitively.
func ParsePriority(input string) (Priority, error) {
	p := Priority(strings.ToUpper(strings.TrimSpace(input)))
	if !p.Valid() {
		return "", &ValidationError{Field: "priority", Err: errUnknownPriority(p)}
	}
	return p, nil
}

// ParseStatus parses a status name, case-insensitively.
func ParseStatus(input string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(input)))
	if !s.Valid() {
		return "", &ValidationError{Field: "status", Err: errUnknownStatus(s)}
	}
	return s, nil
}
