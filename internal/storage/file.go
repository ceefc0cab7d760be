// Package storage persists the task collection to a JSON data file and
// provides an in-memory adapter for tests.
package storage

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/taskmaster/internal/task"
)

//go:embed schema.json
var schemaDoc string

// Repository is the persistence boundary the store writes through.
type Repository interface {
	// Load reads the full collection. A missing backing file is not an
	// error: it loads as an empty collection. Unreadable or malformed
	// content also loads as an empty collection, with a *DecodeWarning
	// describing what was rejected; the caller surfaces it and keeps
	// running.
	Load() ([]task.Task, error)
	// Save writes the full collection, atomically enough that a crash
	// mid-write never leaves content Load cannot recover from.
	Save(tasks []task.Task) error
}

// DecodeWarning reports a data file that could not be loaded. The
// collection degrades to empty; the warning must be surfaced, never
// treated as fatal.
type DecodeWarning struct {
	Path string
	Err  error
}

func (w *DecodeWarning) Error() string {
	return fmt.Sprintf("data file %s ignored: %s", w.Path, w.Err)
}

// Unwrap returns the underlying error.
func (w *DecodeWarning) Unwrap() error {
	return w.Err
}

// FileRepository stores tasks as a JSON array in a single file.
type FileRepository struct {
	path   string
	schema *jsonschema.Schema
}

// NewFileRepository creates a repository backed by the file at path,
// creating the parent directory if needed.
func NewFileRepository(path string) (*FileRepository, error) {
	if path == "" {
		return nil, fmt.Errorf("data file path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}
	return &FileRepository{path: path, schema: schema}, nil
}

// Path returns the backing file path.
func (r *FileRepository) Path() string {
	return r.path
}

// Load reads and strictly parses the data file. See Repository.Load for
// the recovery contract.
func (r *FileRepository) Load() ([]task.Task, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return []task.Task{}, &DecodeWarning{Path: r.path, Err: err}
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return []task.Task{}, &DecodeWarning{Path: r.path, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if err := r.schema.Validate(doc); err != nil {
		return []task.Task{}, &DecodeWarning{Path: r.path, Err: schemaCause(err)}
	}

	var tasks []task.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return []task.Task{}, &DecodeWarning{Path: r.path, Err: fmt.Errorf("parse tasks: %w", err)}
	}
	if err := checkInvariants(tasks); err != nil {
		return []task.Task{}, &DecodeWarning{Path: r.path, Err: err}
	}
	return tasks, nil
}

// Save writes the full collection with 2-space indentation via a temp
// file and rename in the data directory.
func (r *FileRepository) Save(tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, ".tasks-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write tasks: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource("tasks.schema.json", strings.NewReader(schemaDoc)); err != nil {
		return nil, fmt.Errorf("add embedded schema: %w", err)
	}
	schema, err := compiler.Compile("tasks.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile embedded schema: %w", err)
	}
	return schema, nil
}

// schemaCause digs out the most specific leaf failure so the warning
// names the offending path instead of the schema root.
func schemaCause(err error) error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := ve.InstanceLocation
	if loc == "" {
		loc = "#"
	}
	return fmt.Errorf("schema violation at %s: %s", loc, ve.Message)
}

// checkInvariants enforces collection-level rules the schema cannot
// express: unique ids and created_at <= updated_at.
func checkInvariants(tasks []task.Task) error {
	seen := make(map[string]struct{}, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("duplicate task id %q", t.ID)
		}
		seen[t.ID] = struct{}{}
		if t.UpdatedAt.Before(t.CreatedAt) {
			return fmt.Errorf("task %q updated_at precedes created_at", t.ID)
		}
	}
	return nil
}
