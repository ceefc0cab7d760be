package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/taskmaster/internal/logging"
	"github.com/nibzard/taskmaster/internal/storage"
	"github.com/nibzard/taskmaster/internal/store"
	"github.com/nibzard/taskmaster/internal/task"
	"github.com/nibzard/taskmaster/internal/view"
)

type fixture struct {
	model *Model
	store *store.Store
	repo  *storage.MemoryRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := storage.NewMemoryRepository()
	clock := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	now := func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	st, err := store.Open(repo, now)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	model := NewModel(st, task.DefaultDueSoonHorizon, logging.Discard(), now)
	return &fixture{model: model, store: st, repo: repo}
}

func (f *fixture) press(keys ...tea.KeyMsg) {
	for _, k := range keys {
		f.model.Update(k)
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(f *fixture, text string) {
	for _, r := range text {
		f.press(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestNewTaskFlow(t *testing.T) {
	f := newFixture(t)

	f.press(key("n"))
	typeText(f, "buy milk")
	f.press(key("enter"))

	tasks := f.store.Tasks()
	if len(tasks) != 1 || tasks[0].Description != "buy milk" {
		t.Fatalf("expected one task 'buy milk', got %v", tasks)
	}
	if tasks[0].Priority != task.PriorityMedium {
		t.Errorf("new task priority: got %s, want MEDIUM", tasks[0].Priority)
	}
	if f.model.message == "" || !strings.Contains(f.model.message, "Added") {
		t.Errorf("expected an Added toast, got %q", f.model.message)
	}
}

func TestInputAbortNeverMutates(t *testing.T) {
	f := newFixture(t)

	f.press(key("n"))
	typeText(f, "half typed thou")
	f.press(key("esc"))

	if f.store.Len() != 0 {
		t.Error("aborted input must not mutate the store")
	}
	if f.model.mode != modeList {
		t.Error("esc must return to the list")
	}

	// Same for an aborted edit.
	f.press(key("n"))
	typeText(f, "keep me")
	f.press(key("enter"))
	f.press(key("e"))
	typeText(f, " changed")
	f.press(key("esc"))
	if got := f.store.Tasks()[0].Description; got != "keep me" {
		t.Errorf("aborted edit leaked: %q", got)
	}
}

func TestToggleAndArchive(t *testing.T) {
	f := newFixture(t)
	a, _ := f.store.Add("write spec", task.PriorityHigh)
	f.store.Add("buy milk", task.PriorityLow)
	f.model.refresh()

	// Cursor starts on the first visible task.
	f.press(key("space"))
	if got, _ := f.store.Get(a.ID); got.Status != task.StatusDone {
		t.Fatalf("toggle did not complete the selected task, got %s", got.Status)
	}

	f.press(key("m"))
	if f.store.Len() != 1 {
		t.Errorf("archive left %d tasks, want 1", f.store.Len())
	}
	if _, ok := f.store.Get(a.ID); ok {
		t.Error("archived task still active")
	}

	f.press(key("m"))
	if !strings.Contains(f.model.message, "No done tasks") {
		t.Errorf("second archive should report nothing to do, got %q", f.model.message)
	}
}

func TestCursorActsOnViewOrder(t *testing.T) {
	f := newFixture(t)
	done, _ := f.store.Add("write spec", task.PriorityHigh)
	f.store.ToggleStatus(done.ID)
	pending, _ := f.store.Add("buy milk", task.PriorityLow)
	f.model.refresh()

	// Pending group is listed first, so the cursor targets it even
	// though the done task was inserted earlier.
	f.press(key("space"))
	if got, _ := f.store.Get(pending.ID); got.Status != task.StatusDone {
		t.Error("cursor did not act on the first visible (pending) task")
	}
}

func TestDeleteConfirmFlow(t *testing.T) {
	f := newFixture(t)
	a, _ := f.store.Add("write spec", task.PriorityHigh)
	f.model.refresh()

	// Default answer is NO.
	f.press(key("d"), key("enter"))
	if f.store.Len() != 1 {
		t.Fatal("default confirm answer must not delete")
	}

	f.press(key("d"), key("y"))
	if f.store.Len() != 0 {
		t.Error("confirmed delete did not remove the task")
	}
	if _, ok := f.store.Get(a.ID); ok {
		t.Error("deleted task still present")
	}
}

func TestSearchNarrowsIncrementally(t *testing.T) {
	f := newFixture(t)
	f.store.Add("buy milk", task.PriorityLow)
	f.store.Add("buy bread", task.PriorityLow)
	f.store.Add("write spec", task.PriorityHigh)
	f.model.refresh()

	f.press(key("s"))
	typeText(f, "buy")
	if len(f.model.visible) != 2 {
		t.Fatalf("search 'buy': %d visible, want 2", len(f.model.visible))
	}
	typeText(f, " bread")
	if len(f.model.visible) != 1 {
		t.Fatalf("search 'buy bread': %d visible, want 1", len(f.model.visible))
	}

	// Esc clears the query entirely.
	f.press(key("esc"))
	if len(f.model.visible) != 3 {
		t.Errorf("cleared search: %d visible, want 3", len(f.model.visible))
	}
}

func TestFilterAndSortCycling(t *testing.T) {
	f := newFixture(t)
	a, _ := f.store.Add("write spec", task.PriorityHigh)
	f.store.Add("buy milk", task.PriorityLow)
	f.store.ToggleStatus(a.ID)
	f.model.refresh()

	f.press(key("tab"))
	if f.model.params.Filter != view.FilterPending || len(f.model.visible) != 1 {
		t.Errorf("after tab: filter %s, %d visible", f.model.params.Filter, len(f.model.visible))
	}
	f.press(key("tab"))
	if f.model.params.Filter != view.FilterDone || len(f.model.visible) != 1 {
		t.Errorf("after two tabs: filter %s, %d visible", f.model.params.Filter, len(f.model.visible))
	}
	f.press(key("tab"))
	if f.model.params.Filter != view.FilterAll || len(f.model.visible) != 2 {
		t.Errorf("after three tabs: filter %s, %d visible", f.model.params.Filter, len(f.model.visible))
	}

	f.press(key("r"))
	if f.model.params.Sort != view.SortPriority {
		t.Errorf("after r: sort %s, want priority", f.model.params.Sort)
	}
	f.press(key("R"))
	if !f.model.params.Descending {
		t.Error("after R: expected descending order")
	}
}

func TestPriorityPicker(t *testing.T) {
	f := newFixture(t)
	a, _ := f.store.Add("write spec", task.PriorityMedium)
	f.model.refresh()

	// LOW is the first entry; pick HIGH two rows down.
	f.press(key("p"), key("j"), key("j"), key("enter"))
	if got, _ := f.store.Get(a.ID); got.Priority != task.PriorityHigh {
		t.Errorf("priority: got %s, want HIGH", got.Priority)
	}

	// The trailing Cancel entry leaves the task untouched.
	f.press(key("p"), key("j"), key("j"), key("j"), key("enter"))
	if got, _ := f.store.Get(a.ID); got.Priority != task.PriorityHigh {
		t.Errorf("cancel changed priority to %s", got.Priority)
	}
}

func TestDueDatePromptFlow(t *testing.T) {
	f := newFixture(t)
	a, _ := f.store.Add("write spec", task.PriorityMedium)
	f.model.refresh()

	f.press(key("u"))
	typeText(f, "2025-06-01")
	f.press(key("enter"))
	got, _ := f.store.Get(a.ID)
	if got.DueDate == nil {
		t.Fatal("due date not set")
	}
	if got.DueDate.Hour() != 23 || got.DueDate.Minute() != 59 {
		t.Errorf("bare date must normalize to 23:59, got %v", got.DueDate)
	}

	f.press(key("u"))
	typeText(f, "none")
	f.press(key("enter"))
	if got, _ := f.store.Get(a.ID); got.DueDate != nil {
		t.Error("'none' must clear the due date")
	}

	f.press(key("u"))
	typeText(f, "next tuesday")
	f.press(key("enter"))
	if !strings.Contains(f.model.message, "invalid date") {
		t.Errorf("expected invalid-date toast, got %q", f.model.message)
	}
}

func TestViewRendersWithoutPanic(t *testing.T) {
	f := newFixture(t)
	a, _ := f.store.Add("write spec", task.PriorityHigh)
	past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	f.store.SetDueDate(a.ID, &past)
	f.store.Add("buy milk", task.PriorityLow)
	f.model.refresh()

	f.model.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	out := f.model.View()
	if !strings.Contains(out, "TaskMaster") {
		t.Error("view is missing the title")
	}
	if !strings.Contains(out, "write spec") || !strings.Contains(out, "buy milk") {
		t.Error("view is missing task rows")
	}
	if !strings.Contains(out, "OVERDUE") {
		t.Error("view is missing the overdue marker")
	}

	// Modal overlays render too.
	f.press(key("p"))
	if !strings.Contains(f.model.View(), "SELECT PRIORITY") {
		t.Error("priority picker not rendered")
	}
	f.press(key("esc"), key("d"))
	if !strings.Contains(f.model.View(), "DELETE TASK") {
		t.Error("delete confirmation not rendered")
	}
}

func TestSaveFailureIsSurfacedButMutationStands(t *testing.T) {
	f := newFixture(t)
	a, _ := f.store.Add("write spec", task.PriorityHigh)
	f.model.refresh()

	f.repo.FailSaves = errTest
	f.press(key("space"))

	if !strings.Contains(f.model.message, "Save failed") {
		t.Errorf("expected a save-failure toast, got %q", f.model.message)
	}
	if got, _ := f.store.Get(a.ID); got.Status != task.StatusDone {
		t.Error("the in-memory toggle must stand despite the failed write")
	}
}

var errTest = errors.New("disk full")

func TestToastExpiresOnTick(t *testing.T) {
	f := newFixture(t)
	f.model.toast("hello")

	// The fake clock advances one second per reading; after a few ticks
	// the toast crosses its timeout.
	for i := 0; i < 5; i++ {
		f.model.Update(tickMsg(time.Time{}))
	}
	if f.model.message != "" {
		t.Errorf("toast should have expired, still %q", f.model.message)
	}
}
