// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// Each resource gets its own table. A row holds the record id and the JSON
// encoding of the whole Read record; seq preserves insertion order for
// listings:
//
//	seq  INTEGER PRIMARY KEY AUTOINCREMENT
//	id   TEXT    NOT NULL UNIQUE
//	body TEXT    NOT NULL
//
// Importing go-sqlite3 registers the "sqlite3" driver with database/sql; we
// also use the package directly to recognise UNIQUE violations.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/aanand-mishra/student-course-api/internal/config"
	"github.com/aanand-mishra/student-course-api/internal/storage"
	"github.com/aanand-mishra/student-course-api/internal/types"
)

// SQLite is the concrete implementation of storage.Storage.
type SQLite struct {
	Db       *sql.DB
	courses  *Table[types.CourseRead]
	students *Table[types.StudentRead]
}

// New opens the SQLite database at cfg.Storage.Path (":memory:" by default),
// creates the tables if they do not already exist, and returns a ready-to-use
// *SQLite.
func New(cfg *config.Config) (*SQLite, error) {
	db, err := sql.Open("sqlite3", cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// One connection: SQLite allows a single writer anyway, and with
	// ":memory:" every connection would otherwise see its own database.
	db.SetMaxOpenConns(1)

	s := &SQLite{
		Db:       db,
		courses:  &Table[types.CourseRead]{db: db, name: "courses"},
		students: &Table[types.StudentRead]{db: db, name: "students"},
	}

	for _, t := range []string{s.courses.name, s.students.name} {
		_, err = db.Exec(fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				seq  INTEGER PRIMARY KEY AUTOINCREMENT,
				id   TEXT    NOT NULL UNIQUE,
				body TEXT    NOT NULL
			)
		`, t))
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite.New: create table %s: %w", t, err)
		}
	}

	return s, nil
}

func (s *SQLite) Courses() storage.Repository[types.CourseRead] {
	return s.courses
}

func (s *SQLite) Students() storage.Repository[types.StudentRead] {
	return s.students
}

func (s *SQLite) Close() error {
	return s.Db.Close()
}

// Table is one resource table holding JSON-encoded records of type T.
type Table[T any] struct {
	db   *sql.DB
	name string
}

// ─────────────────────────────────────────────────────────────────────────────
// Insert stores rec under id.
//
// The UNIQUE constraint on id does the duplicate check for us: a second
// insert of the same id fails with SQLITE_CONSTRAINT_UNIQUE, which we
// translate into storage.ErrConflict.
// ─────────────────────────────────────────────────────────────────────────────
func (t *Table[T]) Insert(id uuid.UUID, rec T) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("Insert %s: encode: %w", t.name, err)
	}

	_, err = t.db.Exec(
		fmt.Sprintf("INSERT INTO %s (id, body) VALUES (?, ?)", t.name),
		id.String(), string(body),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("Insert %s %s: %w", t.name, id, storage.ErrConflict)
		}
		return fmt.Errorf("Insert %s: exec: %w", t.name, err)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Get returns the record stored under id, or storage.ErrNotFound.
// ─────────────────────────────────────────────────────────────────────────────
func (t *Table[T]) Get(id uuid.UUID) (T, error) {
	return t.get(t.db, id)
}

// queryRower is satisfied by both *sql.DB and *sql.Tx.
type queryRower interface {
	QueryRow(query string, args ...any) *sql.Row
}

func (t *Table[T]) get(q queryRower, id uuid.UUID) (T, error) {
	var (
		rec  T
		body string
	)
	err := q.QueryRow(
		fmt.Sprintf("SELECT body FROM %s WHERE id = ? LIMIT 1", t.name),
		id.String(),
	).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, fmt.Errorf("%s %s: %w", t.name, id, storage.ErrNotFound)
		}
		return rec, fmt.Errorf("Get %s: scan: %w", t.name, err)
	}

	if err := json.Unmarshal([]byte(body), &rec); err != nil {
		return rec, fmt.Errorf("Get %s: decode: %w", t.name, err)
	}
	return rec, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// List returns every record in insertion order.
//
// out starts as an empty slice rather than nil so an empty table encodes
// as [] in the HTTP response.
// ─────────────────────────────────────────────────────────────────────────────
func (t *Table[T]) List() ([]T, error) {
	rows, err := t.db.Query(fmt.Sprintf("SELECT body FROM %s ORDER BY seq", t.name))
	if err != nil {
		return nil, fmt.Errorf("List %s: query: %w", t.name, err)
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("List %s: scan row: %w", t.name, err)
		}
		var rec T
		if err := json.Unmarshal([]byte(body), &rec); err != nil {
			return nil, fmt.Errorf("List %s: decode: %w", t.name, err)
		}
		out = append(out, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List %s: rows iteration: %w", t.name, err)
	}
	return out, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Update loads the record, hands it to fn and writes back the result, all
// inside one transaction. If fn returns an error nothing is written.
// ─────────────────────────────────────────────────────────────────────────────
func (t *Table[T]) Update(id uuid.UUID, fn func(rec *T) error) (T, error) {
	var zero T

	tx, err := t.db.Begin()
	if err != nil {
		return zero, fmt.Errorf("Update %s: begin: %w", t.name, err)
	}
	defer tx.Rollback() // no-op after Commit

	rec, err := t.get(tx, id)
	if err != nil {
		return zero, err
	}
	if err := fn(&rec); err != nil {
		return zero, err
	}

	body, err := json.Marshal(rec)
	if err != nil {
		return zero, fmt.Errorf("Update %s: encode: %w", t.name, err)
	}
	if _, err := tx.Exec(
		fmt.Sprintf("UPDATE %s SET body = ? WHERE id = ?", t.name),
		string(body), id.String(),
	); err != nil {
		return zero, fmt.Errorf("Update %s: exec: %w", t.name, err)
	}

	if err := tx.Commit(); err != nil {
		return zero, fmt.Errorf("Update %s: commit: %w", t.name, err)
	}
	return rec, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete removes the record and returns it as it was.
// ─────────────────────────────────────────────────────────────────────────────
func (t *Table[T]) Delete(id uuid.UUID) (T, error) {
	var zero T

	tx, err := t.db.Begin()
	if err != nil {
		return zero, fmt.Errorf("Delete %s: begin: %w", t.name, err)
	}
	defer tx.Rollback()

	rec, err := t.get(tx, id)
	if err != nil {
		return zero, err
	}
	if _, err := tx.Exec(
		fmt.Sprintf("DELETE FROM %s WHERE id = ?", t.name),
		id.String(),
	); err != nil {
		return zero, fmt.Errorf("Delete %s: exec: %w", t.name, err)
	}

	if err := tx.Commit(); err != nil {
		return zero, fmt.Errorf("Delete %s: commit: %w", t.name, err)
	}
	return rec, nil
}
