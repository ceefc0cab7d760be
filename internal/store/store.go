// Package store owns the authoritative task collection. Every mutation
// goes through it so persistence and invariants stay centralized.
package store

import (
	"time"

	"github.com/nibzard/taskmaster/internal/storage"
	"github.com/nibzard/taskmaster/internal/task"
	"github.com/nibzard/taskmaster/internal/view"
)

// Store holds the in-memory collection and writes through to a
// repository after every mutation. For the running session the
// in-memory state is the authority: a failed write is surfaced as a
// *task.PersistenceError but the mutation stands, except for
// ArchiveDone which is all-or-nothing.
//
// The store is not safe for concurrent use; one control loop owns it.
type Store struct {
	repo  storage.Repository
	now   func() time.Time
	tasks []task.Task
}

// New creates an empty store. A nil clock defaults to time.Now.
func New(repo storage.Repository, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{repo: repo, now: now}
}

// Open creates a store and loads the persisted collection. A load
// warning (corrupt or unreadable data file) is returned alongside a
// usable, empty store; it is never fatal.
func Open(repo storage.Repository, now func() time.Time) (*Store, error) {
	s := New(repo, now)
	tasks, err := repo.Load()
	s.tasks = tasks
	return s, err
}

// Tasks returns a copy of the collection in insertion order.
func (s *Store) Tasks() []task.Task {
	return append([]task.Task(nil), s.tasks...)
}

// Get returns the task with the given id.
func (s *Store) Get(id string) (task.Task, bool) {
	if i := s.index(id); i >= 0 {
		return s.tasks[i], true
	}
	return task.Task{}, false
}

// Len returns the number of active tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// View projects the collection through the view engine.
func (s *Store) View(params view.Params) []task.Task {
	return view.Apply(s.tasks, params)
}

// Add constructs and appends a new pending task.
func (s *Store) Add(description string, priority task.Priority) (task.Task, error) {
	t, err := task.New(description, priority, s.now())
	if err != nil {
		return task.Task{}, err
	}
	s.tasks = append(s.tasks, t)
	return t, s.persist("save")
}

// Remove deletes the task with the given id.
func (s *Store) Remove(id string) error {
	i := s.index(id)
	if i < 0 {
		return &task.NotFoundError{ID: id}
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return s.persist("save")
}

// ToggleStatus flips the task between PENDING and DONE.
func (s *Store) ToggleStatus(id string) (task.Task, error) {
	return s.mutate(id, func(t *task.Task) error {
		t.Toggle(s.now())
		return nil
	})
}

// SetPriority changes the task's priority.
func (s *Store) SetPriority(id string, priority task.Priority) (task.Task, error) {
	return s.mutate(id, func(t *task.Task) error {
		return t.SetPriority(priority, s.now())
	})
}

// SetDescription replaces the task's description.
func (s *Store) SetDescription(id, description string) (task.Task, error) {
	return s.mutate(id, func(t *task.Task) error {
		return t.SetDescription(description, s.now())
	})
}

// SetDueDate sets or clears (nil) the task's deadline.
func (s *Store) SetDueDate(id string, due *time.Time) (task.Task, error) {
	return s.mutate(id, func(t *task.Task) error {
		t.SetDueDate(due, s.now())
		return nil
	})
}

// ArchiveDone removes every DONE task from the active collection and
// returns the count removed. The sweep is all-or-nothing: on a
// persistence failure the in-memory collection is left untouched so it
// cannot diverge from the file. Calling it again immediately is a no-op.
func (s *Store) ArchiveDone() (int, error) {
	kept := make([]task.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.Status != task.StatusDone {
			kept = append(kept, t)
		}
	}
	removed := len(s.tasks) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := s.repo.Save(kept); err != nil {
		return 0, &task.PersistenceError{Op: "archive", Err: err}
	}
	s.tasks = kept
	return removed, nil
}

// Stats summarizes the active collection.
type Stats struct {
	Total           int
	Pending         int
	Done            int
	Overdue         int
	CompletionRatio float64
}

// Stats computes collection counters at the current time.
func (s *Store) Stats() Stats {
	now := s.now()
	st := Stats{Total: len(s.tasks)}
	for i := range s.tasks {
		if s.tasks[i].Status == task.StatusDone {
			st.Done++
		} else {
			st.Pending++
		}
		if s.tasks[i].IsOverdue(now) {
			st.Overdue++
		}
	}
	if st.Total > 0 {
		st.CompletionRatio = float64(st.Done) / float64(st.Total)
	}
	return st
}

// mutate applies fn to the task with the given id and writes through.
// Validation failures leave the task untouched and skip the write.
func (s *Store) mutate(id string, fn func(*task.Task) error) (task.Task, error) {
	i := s.index(id)
	if i < 0 {
		return task.Task{}, &task.NotFoundError{ID: id}
	}
	if err := fn(&s.tasks[i]); err != nil {
		return task.Task{}, err
	}
	return s.tasks[i], s.persist("save")
}

func (s *Store) persist(op string) error {
	if err := s.repo.Save(s.tasks); err != nil {
		return &task.PersistenceError{Op: op, Err: err}
	}
	return nil
}

func (s *Store) index(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
