// Package router wires every handler to its route.
package router

import (
	"net/http"

	"github.com/aanand-mishra/student-course-api/internal/http/handlers/course"
	"github.com/aanand-mishra/student-course-api/internal/http/handlers/docs"
	"github.com/aanand-mishra/student-course-api/internal/http/handlers/root"
	"github.com/aanand-mishra/student-course-api/internal/http/handlers/student"
	"github.com/aanand-mishra/student-course-api/internal/storage"
)

// New returns the application's HTTP handler.
//
// Route table:
//
//	GET    /                 → welcome message
//	GET    /openapi.json     → OpenAPI 3 description of everything below
//	POST   /courses          → create a course
//	GET    /courses          → list (filtered) courses
//	GET    /courses/{id}     → get one course
//	PATCH  /courses/{id}     → partially update a course
//	DELETE /courses/{id}     → delete a course
//	...and the same five routes under /students.
func New(storage storage.Storage) http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("GET /{$}", root.Welcome())
	router.HandleFunc("GET /openapi.json", docs.OpenAPI())

	router.HandleFunc("POST /courses", course.New(storage))
	router.HandleFunc("GET /courses", course.GetList(storage))
	router.HandleFunc("GET /courses/{id}", course.GetByID(storage))
	router.HandleFunc("PATCH /courses/{id}", course.Update(storage))
	router.HandleFunc("DELETE /courses/{id}", course.Delete(storage))

	router.HandleFunc("POST /students", student.New(storage))
	router.HandleFunc("GET /students", student.GetList(storage))
	router.HandleFunc("GET /students/{id}", student.GetByID(storage))
	router.HandleFunc("PATCH /students/{id}", student.Update(storage))
	router.HandleFunc("DELETE /students/{id}", student.Delete(storage))

	return router
}
