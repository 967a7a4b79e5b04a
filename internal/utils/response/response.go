// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every handler in this application sends JSON back to the client.
// Rather than repeating the same three lines (set header, set status,
// encode JSON) in every handler, we centralise them here.
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/student-course-api/internal/storage"
)

// Response is the standard envelope returned for error cases.
//
// Success responses return the resource itself. Error responses always
// look like:
//
//	{ "status": "error", "error": "field uni must be 2-3 lowercase letters followed by 1-4 digits",
//	  "fields": [ { "field": "uni", "issue": "pattern" } ] }
//
// Fields is only present for validation failures.
type Response struct {
	Status string       `json:"status"`
	Error  string       `json:"error"`
	Fields []FieldError `json:"fields,omitempty"`
}

// FieldError describes one violating input field.
type FieldError struct {
	// Field is the JSON path of the field, e.g. "courses[0].title".
	Field string `json:"field"`

	// Issue is one of the Issue* constants.
	Issue string `json:"issue"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Validation issue kinds.
const (
	IssueMissing = "missing"
	IssueType    = "type"
	IssuePattern = "pattern"
	IssueEmail   = "email"
	IssueInvalid = "invalid"
	IssueUnknown = "unknown"
)

// ─────────────────────────────────────────────────────────────────────────────
// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// ─────────────────────────────────────────────────────────────────────────────
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// ─────────────────────────────────────────────────────────────────────────────
// GeneralError wraps any Go error into our standard Response shape.
// Use this for unexpected errors and for not-found / conflict messages.
// ─────────────────────────────────────────────────────────────────────────────
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// StoreError maps a storage error onto an HTTP status:
//
//	storage.ErrNotFound         → 404 with notFound as the message
//	storage.ErrConflict         → 400
//	validator.ValidationErrors  → 422 (a merged record failed validation)
//	anything else               → 500
// ─────────────────────────────────────────────────────────────────────────────
func StoreError(w http.ResponseWriter, err error, notFound string) {
	var validateErrs validator.ValidationErrors
	switch {
	case errors.Is(err, storage.ErrNotFound):
		WriteJSON(w, http.StatusNotFound, GeneralError(errors.New(notFound)))
	case errors.Is(err, storage.ErrConflict):
		WriteJSON(w, http.StatusBadRequest, GeneralError(err))
	case errors.As(err, &validateErrs):
		WriteJSON(w, http.StatusUnprocessableEntity, ValidationError(validateErrs))
	default:
		slog.Error("storage failure", slog.String("error", err.Error()))
		WriteJSON(w, http.StatusInternalServerError, GeneralError(err))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Problems collects every violating field of one request body so they can
// all be reported in a single 422 response.
// ─────────────────────────────────────────────────────────────────────────────
type Problems struct {
	fields   []FieldError
	messages []string
}

// Add records one violation. message completes the sentence "field <name> ...".
func (p *Problems) Add(field, issue, message string) {
	p.fields = append(p.fields, FieldError{Field: field, Issue: issue})
	p.messages = append(p.messages, fmt.Sprintf("field %s %s", field, message))
}

// AddValidation records one violation per validator error. Errors on a
// field for which skip reports true are left out; skip may be nil.
func (p *Problems) AddValidation(errs validator.ValidationErrors, skip func(field string) bool) {
	for _, e := range errs {
		name := fieldPath(e.Namespace())
		if skip != nil && skip(name) {
			continue
		}

		switch e.ActualTag() {
		case "required":
			p.Add(name, IssueMissing, "is required")
		case "email":
			p.Add(name, IssueEmail, "must be a valid email address")
		case "uni":
			p.Add(name, IssuePattern, "must be 2-3 lowercase letters followed by 1-4 digits")
		default:
			p.Add(name, IssueInvalid, "is invalid")
		}
	}
}

// Empty reports whether nothing has been recorded.
func (p *Problems) Empty() bool {
	return len(p.fields) == 0
}

// Response renders the collected violations.
//
// Example output:
//
//	{ "status": "error",
//	  "error": "field size must be of type integer, field title is required",
//	  "fields": [ {"field":"size","issue":"type"}, {"field":"title","issue":"missing"} ] }
func (p *Problems) Response() Response {
	return Response{
		Status: StatusError,
		Error:  strings.Join(p.messages, ", "),
		Fields: p.fields,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// ValidationError converts validator.ValidationErrors into a Response that
// lists every failing field and what is wrong with it.
// ─────────────────────────────────────────────────────────────────────────────
func ValidationError(errs validator.ValidationErrors) Response {
	var p Problems
	p.AddValidation(errs, nil)
	return p.Response()
}

// fieldPath turns a validator namespace such as
// "StudentRead.StudentBase.courses[0].title" into "courses[0].title".
// JSON names are lower-case, so any segment starting with an upper-case
// letter is a Go type or embedded struct and gets dropped.
func fieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	kept := parts[:0]
	for _, p := range parts {
		if p == "" || unicode.IsUpper([]rune(p)[0]) {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, ".")
}
