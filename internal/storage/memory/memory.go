// Package memory provides the default, process-local implementation of
// storage.Storage: one map per resource, plus a slice remembering the
// insertion order so listings come back in the order records were created.
//
// Each collection owns a single RWMutex. Every method holds it for its whole
// duration, which makes Update's read-merge-write atomic with respect to a
// concurrent Delete of the same id.
package memory

import (
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/aanand-mishra/student-course-api/internal/storage"
	"github.com/aanand-mishra/student-course-api/internal/types"
)

// Collection is a concurrency-safe keyed collection of records.
//
// clone copies a record so that callers never share memory (slices,
// pointers) with what is stored.
type Collection[T any] struct {
	mu    sync.RWMutex
	name  string
	items map[uuid.UUID]T
	order []uuid.UUID
	clone func(T) T
}

// NewCollection creates an empty collection. name is used in error messages.
func NewCollection[T any](name string, clone func(T) T) *Collection[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &Collection[T]{
		name:  name,
		items: make(map[uuid.UUID]T),
		clone: clone,
	}
}

func (c *Collection[T]) Insert(id uuid.UUID, rec T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[id]; ok {
		return fmt.Errorf("%s %s: %w", c.name, id, storage.ErrConflict)
	}
	c.items[id] = c.clone(rec)
	c.order = append(c.order, id)
	return nil
}

func (c *Collection[T]) Get(id uuid.UUID) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rec, ok := c.items[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s %s: %w", c.name, id, storage.ErrNotFound)
	}
	return c.clone(rec), nil
}

func (c *Collection[T]) List() ([]T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.clone(c.items[id]))
	}
	return out, nil
}

func (c *Collection[T]) Update(id uuid.UUID, fn func(rec *T) error) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	stored, ok := c.items[id]
	if !ok {
		return zero, fmt.Errorf("%s %s: %w", c.name, id, storage.ErrNotFound)
	}

	rec := c.clone(stored)
	if err := fn(&rec); err != nil {
		return zero, err
	}
	c.items[id] = c.clone(rec)
	return rec, nil
}

func (c *Collection[T]) Delete(id uuid.UUID) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.items[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s %s: %w", c.name, id, storage.ErrNotFound)
	}
	delete(c.items, id)
	if i := slices.Index(c.order, id); i >= 0 {
		c.order = slices.Delete(c.order, i, i+1)
	}
	return rec, nil
}

// Memory is the in-memory storage.Storage.
type Memory struct {
	courses  *Collection[types.CourseRead]
	students *Collection[types.StudentRead]
}

// New returns an empty in-memory store.
func New() *Memory {
	return &Memory{
		courses:  NewCollection("course", types.CourseRead.Clone),
		students: NewCollection("student", types.StudentRead.Clone),
	}
}

func (m *Memory) Courses() storage.Repository[types.CourseRead] {
	return m.courses
}

func (m *Memory) Students() storage.Repository[types.StudentRead] {
	return m.students
}

// Close is a no-op; there is nothing to release.
func (m *Memory) Close() error {
	return nil
}
