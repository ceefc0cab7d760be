package view

import (
	"testing"
	"time"

	"github.com/nibzard/taskmaster/internal/task"
)

var base = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func mkTask(t *testing.T, desc string, p task.Priority, status task.Status, offset time.Duration) task.Task {
	t.Helper()
	tk, err := task.New(desc, p, base.Add(offset))
	if err != nil {
		t.Fatalf("New(%q) failed: %v", desc, err)
	}
	tk.Status = status
	return tk
}

func descs(tasks []task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Description
	}
	return out
}

func equalDescs(got []task.Task, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i].Description != want[i] {
			return false
		}
	}
	return true
}

func TestApplyFilterAndSearch(t *testing.T) {
	tasks := []task.Task{
		mkTask(t, "write spec", task.PriorityHigh, task.StatusDone, 0),
		mkTask(t, "buy milk", task.PriorityLow, task.StatusPending, time.Minute),
		mkTask(t, "buy bread", task.PriorityMedium, task.StatusPending, 2*time.Minute),
	}

	tests := []struct {
		name   string
		params Params
		want   []string
	}{
		{"all", DefaultParams(), []string{"buy milk", "buy bread", "write spec"}},
		{"pending only", Params{Filter: FilterPending, Sort: SortCreated}, []string{"buy milk", "buy bread"}},
		{"done only", Params{Filter: FilterDone, Sort: SortCreated}, []string{"write spec"}},
		{"search", Params{Filter: FilterAll, Sort: SortCreated, Query: "BUY"}, []string{"buy milk", "buy bread"}},
		{"search no hits", Params{Filter: FilterAll, Sort: SortCreated, Query: "zzz"}, nil},
		{"blank query is no filter", Params{Filter: FilterAll, Sort: SortCreated, Query: "  "}, []string{"buy milk", "buy bread", "write spec"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(tasks, tt.params)
			if !equalDescs(got, tt.want) {
				t.Errorf("got %v, want %v", descs(got), tt.want)
			}
		})
	}
}

func TestApplySortKeys(t *testing.T) {
	tasks := []task.Task{
		mkTask(t, "bravo", task.PriorityLow, task.StatusPending, 2*time.Minute),
		mkTask(t, "Alpha", task.PriorityHigh, task.StatusPending, time.Minute),
		mkTask(t, "charlie", task.PriorityMedium, task.StatusPending, 0),
	}

	tests := []struct {
		name   string
		params Params
		want   []string
	}{
		{"created asc", Params{Filter: FilterAll, Sort: SortCreated}, []string{"charlie", "Alpha", "bravo"}},
		{"created desc", Params{Filter: FilterAll, Sort: SortCreated, Descending: true}, []string{"bravo", "Alpha", "charlie"}},
		{"priority asc", Params{Filter: FilterAll, Sort: SortPriority}, []string{"bravo", "charlie", "Alpha"}},
		{"priority desc", Params{Filter: FilterAll, Sort: SortPriority, Descending: true}, []string{"Alpha", "charlie", "bravo"}},
		{"alpha is case-insensitive", Params{Filter: FilterAll, Sort: SortAlpha}, []string{"Alpha", "bravo", "charlie"}},
		{"alpha desc", Params{Filter: FilterAll, Sort: SortAlpha, Descending: true}, []string{"charlie", "bravo", "Alpha"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(tasks, tt.params)
			if !equalDescs(got, tt.want) {
				t.Errorf("got %v, want %v", descs(got), tt.want)
			}
		})
	}
}

// Pending tasks must come first for every view state, even when the
// sort key or direction would favor a done task.
func TestGroupingInvariant(t *testing.T) {
	tasks := []task.Task{
		mkTask(t, "write spec", task.PriorityHigh, task.StatusDone, 0),
		mkTask(t, "buy milk", task.PriorityLow, task.StatusPending, time.Minute),
		mkTask(t, "answer mail", task.PriorityMedium, task.StatusDone, 2*time.Minute),
		mkTask(t, "zz last alphabetically", task.PriorityMedium, task.StatusPending, 3*time.Minute),
	}

	for _, key := range []Sort{SortCreated, SortPriority, SortAlpha} {
		for _, desc := range []bool{false, true} {
			got := Apply(tasks, Params{Filter: FilterAll, Sort: key, Descending: desc})
			seenDone := false
			for _, tk := range got {
				if tk.Status == task.StatusDone {
					seenDone = true
				} else if seenDone {
					t.Errorf("sort=%s desc=%v: pending task %q listed after a done task",
						key, desc, tk.Description)
				}
			}
		}
	}
}

// A DONE high-priority task sorts after a PENDING low-priority one
// even under priority/descending.
func TestDonePriorityTaskSortsAfterPending(t *testing.T) {
	a := mkTask(t, "write spec", task.PriorityHigh, task.StatusDone, 0)
	b := mkTask(t, "buy milk", task.PriorityLow, task.StatusPending, time.Minute)

	got := Apply([]task.Task{a, b}, Params{Filter: FilterAll, Sort: SortPriority, Descending: true})
	if !equalDescs(got, []string{"buy milk", "write spec"}) {
		t.Errorf("got %v, want [buy milk, write spec]", descs(got))
	}
}

func TestApplyIsPureAndIdempotent(t *testing.T) {
	tasks := []task.Task{
		mkTask(t, "bravo", task.PriorityLow, task.StatusDone, 0),
		mkTask(t, "alpha", task.PriorityHigh, task.StatusPending, time.Minute),
	}
	snapshot := descs(tasks)

	params := Params{Filter: FilterAll, Sort: SortAlpha, Descending: true}
	first := Apply(tasks, params)
	second := Apply(tasks, params)

	if !equalDescs(second, descs(first)) {
		t.Errorf("two identical calls disagree: %v vs %v", descs(first), descs(second))
	}
	for i, d := range descs(tasks) {
		if d != snapshot[i] {
			t.Fatal("Apply mutated its input")
		}
	}
}

func TestCycles(t *testing.T) {
	if got := FilterAll.Next().Next().Next(); got != FilterAll {
		t.Errorf("filter cycle broken: ended at %s", got)
	}
	if got := SortCreated.Next().Next().Next(); got != SortCreated {
		t.Errorf("sort cycle broken: ended at %s", got)
	}
}

func TestParseHelpers(t *testing.T) {
	if f, ok := ParseFilter(" Pending "); !ok || f != FilterPending {
		t.Errorf("ParseFilter: got %v, %v", f, ok)
	}
	if _, ok := ParseFilter("archived"); ok {
		t.Error("ParseFilter accepted an unknown name")
	}
	if s, ok := ParseSort("ALPHA"); !ok || s != SortAlpha {
		t.Errorf("ParseSort: got %v, %v", s, ok)
	}
	if _, ok := ParseSort("due"); ok {
		t.Error("ParseSort accepted an unknown name")
	}
}
