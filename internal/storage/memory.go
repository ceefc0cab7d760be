package storage

import "github.com/nibzard/taskmaster/internal/task"

// MemoryRepository keeps the collection in memory. It backs ephemeral
// sessions and lets tests inject save failures.
type MemoryRepository struct {
	// FailSaves, when non-nil, is returned by every Save call.
	FailSaves error
	// Saves counts successful Save calls.
	Saves int

	tasks []task.Task
}

// NewMemoryRepository returns an empty in-memory repository.
func NewMemoryRepository(seed ...task.Task) *MemoryRepository {
	r := &MemoryRepository{}
	if len(seed) > 0 {
		r.tasks = append([]task.Task(nil), seed...)
	}
	return r
}

// Load returns a copy of the stored collection.
func (r *MemoryRepository) Load() ([]task.Task, error) {
	return append([]task.Task(nil), r.tasks...), nil
}

// Save replaces the stored collection with a copy of tasks.
func (r *MemoryRepository) Save(tasks []task.Task) error {
	if r.FailSaves != nil {
		return r.FailSaves
	}
	r.tasks = append([]task.Task(nil), tasks...)
	r.Saves++
	return nil
}
