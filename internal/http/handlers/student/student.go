// Package student contains all HTTP handlers related to the Student resource.
//
// HANDLER PATTERN USED HERE: THE CLOSURE / FACTORY PATTERN
// ────────────────────────────────────────────────────────────
// Go's router expects handler functions with the signature:
//
//	func(http.ResponseWriter, *http.Request)
//
// That signature has no room for extra parameters like a store. To inject
// dependencies we use a factory function that:
//  1. Accepts dependencies (storage)
//  2. Returns a function with the exact signature the router needs
//
//	router.HandleFunc("POST /students", student.New(storage))
//	//                                  ^^^^^^^^^^^^^^^^^^^^
//	//                   New(storage) is called ONCE at startup.
//	//                   It returns a handler func which is called
//	//                   on EVERY incoming request.
package student

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/aanand-mishra/student-course-api/internal/filter"
	"github.com/aanand-mishra/student-course-api/internal/storage"
	"github.com/aanand-mishra/student-course-api/internal/types"
	"github.com/aanand-mishra/student-course-api/internal/utils/request"
	"github.com/aanand-mishra/student-course-api/internal/utils/response"
)

const notFound = "Student not found"

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /students
// Creates a new student from the JSON request body.
//
// Request body (JSON):
//
//	{ "uni": "abc1234", "first_name": "Ada", "last_name": "Lovelace",
//	  "major": "Computer Science", "grade": "Senior", "email": "ada@example.com",
//	  "phone": "+1-212-555-0199", "birth_date": "1815-12-10", "courses": [ ... ] }
//
// Success response (201 Created): the full student record.
//
// Error responses:
//
//	400 Bad Request           empty body, malformed JSON or trailing data
//	422 Unprocessable Entity  every missing field, bad UNI, bad email, wrong
//	                          type and client-supplied id / timestamp, listed
//	                          together
//
// ─────────────────────────────────────────────────────────────────────────────
func New(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		var in types.StudentBase
		if !request.DecodeAndValidate(w, r, &in) {
			return
		}

		// The id is checked against the student collection only.
		student := types.NewStudentRead(in, uuid.New(), time.Now())
		if err := storage.Students().Insert(student.ID, student); err != nil {
			slog.Error("error creating student", slog.String("error", err.Error()))
			response.StoreError(w, err, notFound)
			return
		}

		slog.Info("student created", slog.String("id", student.ID.String()))
		response.WriteJSON(w, http.StatusCreated, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /students
//
// Optional query parameters: uni, first_name, last_name, major, grade,
// email, phone, birth_date, department_code, instructor. The last two match
// if at least one of the student's embedded courses matches.
//
// Returns an empty array [] (not null) when nothing matches.
// ─────────────────────────────────────────────────────────────────────────────
func GetList(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("listing students", slog.String("query", r.URL.RawQuery))

		students, err := storage.Students().List()
		if err != nil {
			slog.Error("error listing students", slog.String("error", err.Error()))
			response.StoreError(w, err, notFound)
			return
		}

		response.WriteJSON(w, http.StatusOK, filter.ParseStudentFilter(r.URL.Query()).Apply(students))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /students/{id}
//
// Error responses:
//
//	400 Bad Request  id is not a UUID
//	404 Not Found    no such student
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := request.PathID(w, r)
		if !ok {
			return
		}
		slog.Info("getting a student", slog.String("id", id.String()))

		student, err := storage.Students().Get(id)
		if err != nil {
			response.StoreError(w, err, notFound)
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PATCH /students/{id}
// Changes only the fields present in the body. "courses", when present,
// replaces the whole embedded list.
//
//	{ "last_name": "Byron", "phone": null }
//
// Success response (200 OK): the updated student, updated_at refreshed.
// ─────────────────────────────────────────────────────────────────────────────
func Update(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := request.PathID(w, r)
		if !ok {
			return
		}
		slog.Info("updating a student", slog.String("id", id.String()))

		var patch types.StudentUpdate
		if !request.DecodeAndValidate(w, r, &patch) {
			return
		}

		// Merge, stamp and re-validate inside the store's critical section
		// so a concurrent delete can't slip in between read and write.
		updated, err := storage.Students().Update(id, func(s *types.StudentRead) error {
			patch.Apply(&s.StudentBase)
			s.UpdatedAt = types.Touch(s.UpdatedAt, time.Now())
			return types.Validate(s)
		})
		if err != nil {
			slog.Error("error updating student",
				slog.String("id", id.String()),
				slog.String("error", err.Error()))
			response.StoreError(w, err, notFound)
			return
		}

		slog.Info("student updated", slog.String("id", id.String()))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /students/{id}
//
// Success response (200 OK): the student as it was before removal.
// ─────────────────────────────────────────────────────────────────────────────
func Delete(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := request.PathID(w, r)
		if !ok {
			return
		}
		slog.Info("deleting a student", slog.String("id", id.String()))

		student, err := storage.Students().Delete(id)
		if err != nil {
			slog.Error("error deleting student",
				slog.String("id", id.String()),
				slog.String("error", err.Error()))
			response.StoreError(w, err, notFound)
			return
		}

		slog.Info("student deleted", slog.String("id", id.String()))
		response.WriteJSON(w, http.StatusOK, student)
	}
}
