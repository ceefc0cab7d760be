// Package ui implements the full-screen terminal interface. It owns key
// dispatch and drawing; every state change is a call into the store, and
// every frame is derived from the store through the view engine.
package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/taskmaster/internal/store"
	"github.com/nibzard/taskmaster/internal/task"
	"github.com/nibzard/taskmaster/internal/view"
)

const (
	toastTimeout = 2500 * time.Millisecond
	tickInterval = time.Second
)

type mode int

const (
	modeList mode = iota
	modeInput
	modeSearch
	modePriority
	modeConfirmDelete
)

type inputKind int

const (
	inputNew inputKind = iota
	inputEdit
	inputDue
)

type tickMsg time.Time

// Model is the bubbletea model for the task screen.
type Model struct {
	store   *store.Store
	logger  *log.Logger
	horizon time.Duration
	now     func() time.Time

	params  view.Params
	visible []task.Task
	cursor  int

	mode       mode
	kind       inputKind
	input      textinput.Model
	targetID   string
	prioIndex  int
	confirmYes bool

	message   string
	messageAt time.Time

	width  int
	height int
}

// Run starts the TUI over the given store.
func Run(ctx context.Context, st *store.Store, horizon time.Duration, logger *log.Logger) error {
	model := NewModel(st, horizon, logger, time.Now)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

// NewModel builds the initial model. A nil clock defaults to time.Now.
func NewModel(st *store.Store, horizon time.Duration, logger *log.Logger, now func() time.Time) *Model {
	if now == nil {
		now = time.Now
	}
	if horizon <= 0 {
		horizon = task.DefaultDueSoonHorizon
	}
	ti := textinput.New()
	ti.CharLimit = task.MaxDescriptionLen
	m := &Model{
		store:   st,
		logger:  logger,
		horizon: horizon,
		now:     now,
		params:  view.DefaultParams(),
		input:   ti,
		width:   80,
		height:  24,
	}
	m.refresh()
	return m
}

func (m *Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		// Redraw so overdue/due-soon marks and toast expiry track the
		// wall clock without a dedicated timer thread.
		if m.message != "" && m.now().Sub(m.messageAt) > toastTimeout {
			m.message = ""
		}
		return m, tickCmd()
	case tea.KeyMsg:
		switch m.mode {
		case modeInput:
			return m.updateInput(msg)
		case modeSearch:
			return m.updateSearch(msg)
		case modePriority:
			return m.updatePriority(msg)
		case modeConfirmDelete:
			return m.updateConfirmDelete(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case "n":
		m.openInput(inputNew, "", " New task: ")
	case "e", "enter":
		if t, ok := m.selected(); ok {
			m.targetID = t.ID
			m.openInput(inputEdit, t.Description, " Edit: ")
		}
	case "d":
		if t, ok := m.selected(); ok {
			m.targetID = t.ID
			m.confirmYes = false
			m.mode = modeConfirmDelete
		}
	case " ":
		if t, ok := m.selected(); ok {
			toggled, err := m.store.ToggleStatus(t.ID)
			if m.reportErr(err) {
				if toggled.Status == task.StatusDone {
					m.toast("Task completed")
				} else {
					m.toast("Task reopened")
				}
			}
			m.refresh()
		}
	case "p":
		if t, ok := m.selected(); ok {
			m.targetID = t.ID
			m.prioIndex = 0
			m.mode = modePriority
		}
	case "u":
		if t, ok := m.selected(); ok {
			m.targetID = t.ID
			m.openInput(inputDue, "", " Due date (YYYY-MM-DD or 'none'): ")
		}
	case "s":
		m.params.Query = ""
		m.input.SetValue("")
		m.input.Prompt = " Search: "
		m.input.Focus()
		m.cursor = 0
		m.mode = modeSearch
		m.refresh()
	case "tab":
		m.params.Filter = m.params.Filter.Next()
		m.cursor = 0
		m.toast(fmt.Sprintf("Filter: %s", m.params.Filter))
		m.refresh()
	case "r":
		m.params.Sort = m.params.Sort.Next()
		m.toast(fmt.Sprintf("Sort: %s", m.params.Sort))
		m.refresh()
	case "R":
		m.params.Descending = !m.params.Descending
		if m.params.Descending {
			m.toast("Order: desc")
		} else {
			m.toast("Order: asc")
		}
		m.refresh()
	case "m":
		removed, err := m.store.ArchiveDone()
		if m.reportErr(err) {
			if removed == 0 {
				m.toast("No done tasks to archive")
			} else {
				m.toast(fmt.Sprintf("Archived %d task(s)", removed))
			}
		}
		m.cursor = 0
		m.refresh()
	}
	return m, nil
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		// Aborting an in-progress edit never mutates the store.
		m.closeInput()
		return m, nil
	case "enter":
		value := m.input.Value()
		m.closeInput()
		m.commitInput(value)
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) commitInput(value string) {
	switch m.kind {
	case inputNew:
		if value == "" {
			return
		}
		t, err := m.store.Add(value, task.PriorityMedium)
		if m.reportErr(err) {
			m.params.Filter = view.FilterAll
			m.params.Query = ""
			m.cursor = 0
			m.toast(fmt.Sprintf("Added: %s", truncate(t.Description, 20)))
		}
	case inputEdit:
		if value == "" {
			return
		}
		_, err := m.store.SetDescription(m.targetID, value)
		if m.reportErr(err) {
			m.toast("Task updated")
		}
	case inputDue:
		m.commitDueDate(value)
	}
}

func (m *Model) commitDueDate(value string) {
	if value == "" {
		return
	}
	if value == "none" {
		_, err := m.store.SetDueDate(m.targetID, nil)
		if m.reportErr(err) {
			m.toast("Due date cleared")
		}
		return
	}
	due, err := task.ParseDueDate(value)
	if err != nil {
		m.toast(err.Error())
		return
	}
	_, err = m.store.SetDueDate(m.targetID, &due)
	if m.reportErr(err) {
		m.toast(fmt.Sprintf("Due: %s", due.Format("2006-01-02")))
	}
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.params.Query = ""
		m.input.Blur()
		m.mode = modeList
		m.cursor = 0
		m.refresh()
		return m, nil
	case "enter":
		m.input.Blur()
		m.mode = modeList
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	// Search is incremental: the list narrows on every keystroke.
	m.params.Query = m.input.Value()
	m.cursor = 0
	m.refresh()
	return m, cmd
}

var priorityChoices = []task.Priority{task.PriorityLow, task.PriorityMedium, task.PriorityHigh}

func (m *Model) updatePriority(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "ctrl+c":
		m.mode = modeList
	case "up", "k":
		if m.prioIndex > 0 {
			m.prioIndex--
		}
	case "down", "j":
		if m.prioIndex < len(priorityChoices) {
			m.prioIndex++
		}
	case "enter":
		m.mode = modeList
		if m.prioIndex >= len(priorityChoices) {
			return m, nil // Cancel entry
		}
		p := priorityChoices[m.prioIndex]
		_, err := m.store.SetPriority(m.targetID, p)
		if m.reportErr(err) {
			m.toast(fmt.Sprintf("Priority: %s", p))
		}
		m.refresh()
	}
	return m, nil
}

func (m *Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "n", "ctrl+c":
		m.mode = modeList
	case "up", "k", "down", "j", "tab":
		m.confirmYes = !m.confirmYes
	case "y":
		m.confirmYes = true
		m.deleteTarget()
	case "enter":
		if m.confirmYes {
			m.deleteTarget()
		} else {
			m.mode = modeList
		}
	}
	return m, nil
}

func (m *Model) deleteTarget() {
	m.mode = modeList
	if m.reportErr(m.store.Remove(m.targetID)) {
		m.toast("Task deleted")
	}
	m.refresh()
	if m.cursor >= len(m.visible) && m.cursor > 0 {
		m.cursor--
	}
}

// refresh recomputes the display list and clamps the cursor.
func (m *Model) refresh() {
	m.visible = m.store.View(m.params)
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) selected() (task.Task, bool) {
	if len(m.visible) == 0 || m.cursor >= len(m.visible) {
		return task.Task{}, false
	}
	return m.visible[m.cursor], true
}

func (m *Model) openInput(kind inputKind, value, prompt string) {
	m.kind = kind
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Prompt = prompt
	m.input.Focus()
	m.mode = modeInput
}

func (m *Model) closeInput() {
	m.input.Blur()
	m.input.SetValue("")
	m.mode = modeList
}

func (m *Model) toast(message string) {
	m.message = message
	m.messageAt = m.now()
}

// reportErr surfaces an operation error as a toast and returns true on
// success. A persistence failure is logged too; the mutation already
// applied stands for the session.
func (m *Model) reportErr(err error) bool {
	if err == nil {
		return true
	}
	var perr *task.PersistenceError
	if errors.As(err, &perr) {
		if m.logger != nil {
			m.logger.Error("write-through failed", "err", perr.Err)
		}
		m.toast(fmt.Sprintf("Save failed: %v", perr.Err))
		return false
	}
	m.toast(err.Error())
	return false
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
