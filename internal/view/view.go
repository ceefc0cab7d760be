// Package view derives display lists from the task collection. It is
// pure: the same inputs always produce the same output and the source
// collection is never mutated.
package view

import (
	"sort"
	"strings"

	"github.com/nibzard/taskmaster/internal/task"
)

// Filter selects tasks by status.
type Filter string

const (
	FilterAll     Filter = "all"
	FilterPending Filter = "pending"
	FilterDone    Filter = "done"
)

// Next cycles all -> pending -> done -> all.
func (f Filter) Next() Filter {
	switch f {
	case FilterAll:
		return FilterPending
	case FilterPending:
		return FilterDone
	}
	return FilterAll
}

// Sort names the key tasks are ordered by within each status group.
type Sort string

const (
	SortCreated  Sort = "created"
	SortPriority Sort = "priority"
	SortAlpha    Sort = "alpha"
)

// Next cycles created -> priority -> alpha -> created.
func (s Sort) Next() Sort {
	switch s {
	case SortCreated:
		return SortPriority
	case SortPriority:
		return SortAlpha
	}
	return SortCreated
}

// Params is the view-state tuple the display list derives from.
type Params struct {
	Filter     Filter
	Sort       Sort
	Descending bool
	Query      string
}

// DefaultParams returns the initial view state: everything, insertion
// order, no search.
func DefaultParams() Params {
	return Params{Filter: FilterAll, Sort: SortCreated}
}

// Apply produces the ordered display list for the given view state.
// Pending tasks always precede done tasks; the sort key and direction
// apply only within each status group, with creation time breaking
// ties. The input slice is left untouched.
func Apply(tasks []task.Task, params Params) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	query := strings.ToLower(strings.TrimSpace(params.Query))
	for _, t := range tasks {
		if !matchesFilter(t, params.Filter) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(t.Description), query) {
			continue
		}
		out = append(out, t)
	}

	sort.SliceStable(out, func(i, j int) bool {
		gi, gj := statusGroup(out[i]), statusGroup(out[j])
		if gi != gj {
			return gi < gj
		}
		if c := compareKey(out[i], out[j], params.Sort); c != 0 {
			if params.Descending {
				return c > 0
			}
			return c < 0
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func matchesFilter(t task.Task, f Filter) bool {
	switch f {
	case FilterPending:
		return t.Status == task.StatusPending
	case FilterDone:
		return t.Status == task.StatusDone
	}
	return true
}

// statusGroup puts pending before done regardless of sort key or
// direction.
func statusGroup(t task.Task) int {
	if t.Status == task.StatusDone {
		return 1
	}
	return 0
}

func compareKey(a, b task.Task, key Sort) int {
	switch key {
	case SortPriority:
		return a.Priority.Rank() - b.Priority.Rank()
	case SortAlpha:
		return strings.Compare(strings.ToLower(a.Description), strings.ToLower(b.Description))
	}
	switch {
	case a.CreatedAt.Before(b.CreatedAt):
		return -1
	case a.CreatedAt.After(b.CreatedAt):
		return 1
	}
	return 0
}

// ParseFilter parses a filter name, case-insensitively.
func ParseFilter(input string) (Filter, bool) {
	switch Filter(strings.ToLower(strings.TrimSpace(input))) {
	case FilterAll:
		return FilterAll, true
	case FilterPending:
		return FilterPending, true
	case FilterDone:
		return FilterDone, true
	}
	return "", false
}

// ParseSort parses a sort key name, case-insensitively.
func ParseSort(input string) (Sort, bool) {
	switch Sort(strings.ToLower(strings.TrimSpace(input))) {
	case SortCreated:
		return SortCreated, true
	case SortPriority:
		return SortPriority, true
	case SortAlpha:
		return SortAlpha, true
	}
	return "", false
}
