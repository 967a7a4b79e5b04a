// Package request holds the input half of the handler plumbing: decoding
// JSON bodies and reading the {id} path segment. Failures are written to
// the client here, so a handler just returns when ok is false.
//
// A body is bound one key at a time rather than with a single Decode call.
// encoding/json stops at the first mismatched value, which would hide every
// other problem in the payload; binding per key lets a single 422 list all
// of them: wrong types, unknown keys, missing fields, bad patterns.
package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/aanand-mishra/student-course-api/internal/types"
	"github.com/aanand-mishra/student-course-api/internal/utils/response"
)

// MaxBodyBytes caps the size of a request body.
const MaxBodyBytes = 1 << 20

var (
	errNotObject    = errors.New("request body must be a JSON object")
	errTrailingData = errors.New("request body must contain a single JSON object")
)

// ─────────────────────────────────────────────────────────────────────────────
// DecodeAndValidate reads the JSON body into dst (a pointer to a struct) and
// runs the validator on it. Keys that dst does not declare, including id,
// created_at and updated_at, are rejected.
//
//	400 Bad Request           empty body, malformed JSON, not an object,
//	                          or anything after the object
//	413 Payload Too Large     body over MaxBodyBytes
//	422 Unprocessable Entity  every unknown key, wrongly typed value and
//	                          failed validation rule, reported together
// ─────────────────────────────────────────────────────────────────────────────
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	body, ok := readObject(w, r)
	if !ok {
		return false
	}

	var problems response.Problems
	failed := bind(body, dst, &problems)

	if err := types.Validate(dst); err != nil {
		var validateErrs validator.ValidationErrors
		if !errors.As(err, &validateErrs) {
			slog.Error("validator failed", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return false
		}
		// A key that could not be bound is already reported; its zero
		// value would only add a second, misleading "missing" entry.
		problems.AddValidation(validateErrs, func(field string) bool {
			return failed[rootKey(field)]
		})
	}

	if !problems.Empty() {
		response.WriteJSON(w, http.StatusUnprocessableEntity, problems.Response())
		return false
	}
	return true
}

// ─────────────────────────────────────────────────────────────────────────────
// PathID parses the {id} path segment as a UUID.
// ─────────────────────────────────────────────────────────────────────────────
func PathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("invalid id: must be a UUID")))
		return uuid.Nil, false
	}
	return id, true
}

// readObject decodes the body as exactly one JSON object, keeping each
// value raw for bind.
func readObject(w http.ResponseWriter, r *http.Request) (map[string]json.RawMessage, bool) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))

	var body map[string]json.RawMessage
	err := dec.Decode(&body)
	if err == nil && body == nil {
		err = errNotObject // a bare null
	}
	if err == nil {
		if extra := dec.Decode(&struct{}{}); !errors.Is(extra, io.EOF) {
			err = errTrailingData
			var maxErr *http.MaxBytesError
			if errors.As(extra, &maxErr) {
				err = extra
			}
		}
	}

	var (
		typeErr *json.UnmarshalTypeError
		maxErr  *http.MaxBytesError
	)
	switch {
	case err == nil:
		return body, true
	case errors.Is(err, io.EOF):
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("request body is empty")))
	case errors.As(err, &maxErr):
		response.WriteJSON(w, http.StatusRequestEntityTooLarge,
			response.GeneralError(errors.New("request body too large")))
	case errors.As(err, &typeErr):
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errNotObject))
	default:
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
	}
	return nil, false
}

// bind unmarshals every key of body into the matching field of dst and
// records unknown keys and wrongly typed values in problems. It returns the
// keys that could not be bound.
func bind(body map[string]json.RawMessage, dst any, problems *response.Problems) map[string]bool {
	v := reflect.ValueOf(dst).Elem()
	failed := make(map[string]bool)
	known := make(map[string]bool, len(body))

	for _, f := range fieldsOf(v.Type()) {
		known[f.name] = true
		raw, ok := body[f.name]
		if !ok {
			continue
		}

		field := v.FieldByIndex(f.index)
		if isNull(raw) && !acceptsNull(field.Type()) {
			problems.Add(f.name, response.IssueType, "must not be null")
			failed[f.name] = true
			continue
		}

		if name, issue, message, ok := decodeField(f.name, raw, field); !ok {
			problems.Add(name, issue, message)
			failed[f.name] = true
		}
	}

	unknown := make([]string, 0)
	for key := range body {
		if !known[key] {
			unknown = append(unknown, key)
		}
	}
	slices.Sort(unknown)
	for _, key := range unknown {
		problems.Add(key, response.IssueUnknown, "is not allowed")
	}

	return failed
}

// decodeField unmarshals raw into field. Nested objects such as the
// entries of courses are held to the same no-unknown-keys rule as the top
// level. On failure it returns the path, issue and message to report.
func decodeField(key string, raw json.RawMessage, field reflect.Value) (string, string, string, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	err := dec.Decode(field.Addr().Interface())
	if err == nil {
		return "", "", "", true
	}

	if rest, found := strings.CutPrefix(err.Error(), "json: unknown field "); found {
		if nested, uerr := strconv.Unquote(rest); uerr == nil {
			return key + "." + nested, response.IssueUnknown, "is not allowed", false
		}
	}

	want := typeName(field.Type())
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		key += "." + typeErr.Field
		if typeErr.Type != nil {
			want = typeName(typeErr.Type)
		}
	}
	return key, response.IssueType, "must be of type " + want, false
}

// jsonField is one key a request type accepts.
type jsonField struct {
	name  string
	index []int
}

var fieldCache sync.Map // reflect.Type -> []jsonField

// fieldsOf lists the JSON keys of struct type t in declaration order.
// Embedded structs without a json name are flattened, the same way
// encoding/json treats them.
func fieldsOf(t reflect.Type) []jsonField {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]jsonField)
	}
	var out []jsonField
	collectFields(t, nil, &out)
	fieldCache.Store(t, out)
	return out
}

func collectFields(t reflect.Type, prefix []int, out *[]jsonField) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		index := append(slices.Clone(prefix), i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")

		if f.Anonymous && name == "" && f.Type.Kind() == reflect.Struct {
			collectFields(f.Type, index, out)
			continue
		}
		if !f.IsExported() || name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		*out = append(*out, jsonField{name: name, index: index})
	}
}

// presence is implemented by types.Optional, whose UnmarshalJSON records
// an explicit null.
type presence interface{ Present() bool }

var (
	presenceType = reflect.TypeOf((*presence)(nil)).Elem()
	dateType     = reflect.TypeOf(types.Date{})
)

// acceptsNull reports whether a JSON null is a meaningful value for t.
// encoding/json silently skips null for everything else, which would turn
// "courses": null into an empty list.
func acceptsNull(t reflect.Type) bool {
	return t.Kind() == reflect.Pointer || t.Implements(presenceType)
}

func isNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}

// rootKey returns the top-level key of a field path: "courses[0].title"
// and "courses.size" both belong to "courses".
func rootKey(field string) string {
	if i := strings.IndexAny(field, ".["); i >= 0 {
		return field[:i]
	}
	return field
}

func typeName(t reflect.Type) string {
	if t.Implements(presenceType) {
		if f, ok := t.FieldByName("Value"); ok {
			t = f.Type
		}
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == dateType {
		return "date (YYYY-MM-DD)"
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "integer"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Struct, reflect.Map:
		return "object"
	}
	return t.Kind().String()
}
