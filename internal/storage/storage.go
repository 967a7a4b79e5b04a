// Package storage defines the Storage interface: a contract that any
// backend must satisfy to work with this application.
//
// WHY AN INTERFACE?
// ─────────────────
// Handlers (HTTP layer) should not know or care where records live. By
// depending only on this interface:
//
//   - The default in-memory maps (package memory) and the SQLite backend
//     (package sqlite) are interchangeable: main.go picks one from config.
//
//   - Writing tests = pass a fake that satisfies the interface.
//
// Students and courses are two independent collections. Nothing here links
// a student's embedded courses to the course collection.
package storage

import (
	"errors"

	"github.com/google/uuid"

	"github.com/aanand-mishra/student-course-api/internal/types"
)

// Sentinel errors. Backends wrap them with context; callers match them
// with errors.Is.
var (
	// ErrNotFound means no record has the requested id.
	ErrNotFound = errors.New("record not found")

	// ErrConflict means a record with the id already exists.
	ErrConflict = errors.New("record with this id already exists")
)

// Repository is one keyed collection of records.
type Repository[T any] interface {
	// Insert stores rec under id. It fails with ErrConflict if id is taken.
	Insert(id uuid.UUID, rec T) error

	// Get returns the record stored under id, or ErrNotFound.
	Get(id uuid.UUID) (T, error)

	// List returns every record in insertion order. Returns an empty slice
	// (not nil) if the collection is empty.
	List() ([]T, error)

	// Update runs fn on a copy of the stored record and stores the result.
	// The read, fn, and write happen atomically: no other operation on the
	// collection interleaves with them. If fn returns an error nothing is
	// stored and that error is returned as-is. Returns ErrNotFound if id
	// is absent.
	Update(id uuid.UUID, fn func(rec *T) error) (T, error)

	// Delete removes the record stored under id and returns it, or
	// ErrNotFound.
	Delete(id uuid.UUID) (T, error)
}

// Storage is the backend contract: one repository per resource.
type Storage interface {
	Courses() Repository[types.CourseRead]
	Students() Repository[types.StudentRead]

	// Close releases backend resources.
	Close() error
}
