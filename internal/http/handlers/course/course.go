// Package course contains all HTTP handlers related to the Course resource.
//
// Same closure / factory pattern as package student: each exported function
// is called ONCE at startup with the storage dependency and returns the
// handler that runs on every request.
package course

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

const notFound = "Course not found"

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /courses
// Creates a new course from the JSON request body.
//
// Request body (JSON):
//
//	{ "department_code": "COMS", "course_code": "4153", "title": "Cloud Computing",
//	  "instructor": "Donald Ferguson", "days": "F", "start_time": "1:10PM",
//	  "end_time": "3:45PM", "location": "501 NORTHWEST CORNER", "size": 100, "credit": 3 }
//
// Success response (201 Created): the full course record, including the
// server-generated id, created_at and updated_at.
//
// Error responses:
//
//	400 Bad Request           empty body, malformed JSON or trailing data
//	422 Unprocessable Entity  every missing field, wrongly typed value and
//	                          client-supplied id / timestamp, in one list
//
// ─────────────────────────────────────────────────────────────────────────────
func New(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a course")

		var in types.CourseBase
		if !request.DecodeAndValidate(w, r, &in) {
			return
		}

		course := types.NewCourseRead(in, uuid.New(), time.Now())
		if err := storage.Courses().Insert(course.ID, course); err != nil {
			slog.Error("error creating course", slog.String("error", err.Error()))
			response.StoreError(w, err, notFound)
			return
		}

		slog.Info("course created", slog.String("id", course.ID.String()))
		response.WriteJSON(w, http.StatusCreated, course)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /courses
//
// Optional query parameters: department_code, course_code, title,
// instructor, days, start_time, end_time. See package filter for the
// matching rules.
//
// Returns an empty array [] (not null) when nothing matches.
// ─────────────────────────────────────────────────────────────────────────────
func GetList(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("listing courses", slog.String("query", r.URL.RawQuery))

		courses, err := storage.Courses().List()
		if err != nil {
			slog.Error("error listing courses", slog.String("error", err.Error()))
			response.StoreError(w, err, notFound)
			return
		}

		response.WriteJSON(w, http.StatusOK, filter.ParseCourseFilter(r.URL.Query()).Apply(courses))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /courses/{id}
//
// Error responses:
//
//	400 Bad Request  id is not a UUID
//	404 Not Found    no such course
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := request.PathID(w, r)
		if !ok {
			return
		}
		slog.Info("getting a course", slog.String("id", id.String()))

		course, err := storage.Courses().Get(id)
		if err != nil {
			response.StoreError(w, err, notFound)
			return
		}

		response.WriteJSON(w, http.StatusOK, course)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PATCH /courses/{id}
//
// Only the keys present in the body are changed; updated_at is always
// refreshed. An empty object {} is a valid request that only touches
// updated_at.
//
//	200 OK                    the updated course
//	404 Not Found             no such course
//	422 Unprocessable Entity  a supplied field is invalid, or the merged
//	                          record is (e.g. a required field set to null)
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := request.PathID(w, r)
		if !ok {
			return
		}
		slog.Info("updating a course", slog.String("id", id.String()))

		var patch types.CourseUpdate
		if !request.DecodeAndValidate(w, r, &patch) {
			return
		}

		updated, err := storage.Courses().Update(id, func(c *types.CourseRead) error {
			patch.Apply(&c.CourseBase)
			c.UpdatedAt = types.Touch(c.UpdatedAt, time.Now())
			return types.Validate(c)
		})
		if err != nil {
			slog.Error("error updating course",
				slog.String("id", id.String()),
				slog.String("error", err.Error()))
			response.StoreError(w, err, notFound)
			return
		}

		slog.Info("course updated", slog.String("id", id.String()))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /courses/{id}
//
// Success response (200 OK): the course as it was before removal.
// ─────────────────────────────────────────────────────────────────────────────
func Delete(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := request.PathID(w, r)
		if !ok {
			return
		}
		slog.Info("deleting a course", slog.String("id", id.String()))

		course, err := storage.Courses().Delete(id)
		if err != nil {
			slog.Error("error deleting course",
				slog.String("id", id.String()),
				slog.String("error", err.Error()))
			response.StoreError(w, err, notFound)
			return
		}

		slog.Info("course deleted", slog.String("id", id.String()))
		response.WriteJSON(w, http.StatusOK, course)
	}
}
