// Package docs describes the API to machines: GET /openapi.json returns an
// OpenAPI 3 document covering every route and the three shapes (Base,
// Update, Read) of both resources.
//
// The document is built in code with kin-openapi's openapi3 builders rather
// than kept as a hand-written JSON file, so a field added to a model and
// forgotten here shows up as a failing test instead of stale docs.
package docs

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/aanand-mishra/student-course-api/internal/utils/response"
)

const (
	Title       = "Student/Course API"
	Description = "Demo Go service using validated Base, Update and Read models for Student and Course"
	Version     = "0.1.0"
)

// ─────────────────────────────────────────────────────────────────────────────
// OpenAPI handles GET /openapi.json
//
// The document never changes while the process runs, so it is built and
// encoded once, when the router is assembled.
// ─────────────────────────────────────────────────────────────────────────────
func OpenAPI() http.HandlerFunc {
	body, err := json.Marshal(Document())

	return func(w http.ResponseWriter, r *http.Request) {
		if err != nil {
			slog.Error("error encoding openapi document", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(body)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Document assembles the OpenAPI description of the whole API.
//
// Layout:
//
//	components.schemas   CourseBase, CourseUpdate, CourseRead,
//	                     StudentBase, StudentUpdate, StudentRead, Error
//	paths                /, then the five routes of each resource
// ─────────────────────────────────────────────────────────────────────────────
func Document() *openapi3.T {
	components := openapi3.NewComponents()
	components.Schemas = make(openapi3.Schemas, len(schemaNames))
	for _, name := range schemaNames {
		components.Schemas[name] = openapi3.NewSchemaRef("", schemaByName(name))
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       Title,
			Description: Description,
			Version:     Version,
		},
		Paths:      openapi3.NewPaths(),
		Components: &components,
	}

	welcome := openapi3.NewOperation()
	welcome.OperationID = "welcome"
	welcome.Summary = "Welcome message"
	welcome.AddResponse(http.StatusOK, openapi3.NewResponse().
		WithDescription("A short greeting pointing at these docs.").
		WithJSONSchema(openapi3.NewObjectSchema().
			WithProperty("message", openapi3.NewStringSchema())))
	doc.AddOperation("/", http.MethodGet, welcome)

	addResource(doc, resource{
		path:     "/courses",
		singular: "course",
		plural:   "courses",
		schema:   "Course",
		filters:  courseFilters,
	})
	addResource(doc, resource{
		path:     "/students",
		singular: "student",
		plural:   "students",
		schema:   "Student",
		filters:  studentFilters,
	})

	return doc
}

// resource is one collection served under path with the usual five routes.
type resource struct {
	path     string
	singular string
	plural   string
	schema   string // prefix of the component schema names
	filters  []filterParam
}

type filterParam struct {
	name, description string
}

var courseFilters = []filterParam{
	{"department_code", "Filter by department code (case-insensitive exact match)"},
	{"course_code", "Filter by course number (case-insensitive exact match)"},
	{"title", "Filter by course title (case-insensitive substring)"},
	{"instructor", "Filter by instructor (case-insensitive substring)"},
	{"days", "Filter by class days (case-insensitive substring)"},
	{"start_time", "Filter by start time (exact match)"},
	{"end_time", "Filter by end time (exact match)"},
}

var studentFilters = []filterParam{
	{"uni", "Filter by Columbia UNI"},
	{"first_name", "Filter by first name"},
	{"last_name", "Filter by last name"},
	{"major", "Filter by major"},
	{"grade", "Filter by grade"},
	{"email", "Filter by email (exact match)"},
	{"phone", "Filter by phone number (exact match)"},
	{"birth_date", "Filter by date of birth (YYYY-MM-DD)"},
	{"department_code", "Filter by department code of at least one course"},
	{"instructor", "Filter by instructor of at least one course"},
}

func addResource(doc *openapi3.T, res resource) {
	read := ref(res.schema + "Read")
	item := res.path + "/{id}"
	notFound := errorResponse("No " + res.singular + " with that id.")
	badID := errorResponse("The id is not a UUID.")
	invalid := errorResponse("One or more fields are missing, of the wrong type, not allowed or malformed. Every problem is listed.")

	create := operation("create_"+res.singular, "Create a "+res.singular)
	create.RequestBody = &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().
		WithRequired(true).
		WithJSONSchemaRef(ref(res.schema + "Base"))}
	create.AddResponse(http.StatusCreated, openapi3.NewResponse().
		WithDescription("The created "+res.singular+".").
		WithJSONSchemaRef(read))
	create.AddResponse(http.StatusBadRequest, errorResponse("Empty, malformed or trailing body, or an id collision."))
	create.AddResponse(http.StatusUnprocessableEntity, invalid)
	doc.AddOperation(res.path, http.MethodPost, create)

	list := operation("list_"+res.plural, "List "+res.plural)
	for _, f := range res.filters {
		list.AddParameter(openapi3.NewQueryParameter(f.name).
			WithDescription(f.description).
			WithSchema(openapi3.NewStringSchema()))
	}
	list.AddResponse(http.StatusOK, openapi3.NewResponse().
		WithDescription("Every "+res.singular+" matching all supplied filters, in creation order.").
		WithJSONSchema(&openapi3.Schema{Type: &openapi3.Types{openapi3.TypeArray}, Items: read}))
	doc.AddOperation(res.path, http.MethodGet, list)

	get := operation("get_"+res.singular, "Get a "+res.singular)
	get.AddParameter(idParam(res.singular))
	get.AddResponse(http.StatusOK, openapi3.NewResponse().
		WithDescription("The "+res.singular+".").
		WithJSONSchemaRef(read))
	get.AddResponse(http.StatusBadRequest, badID)
	get.AddResponse(http.StatusNotFound, notFound)
	doc.AddOperation(item, http.MethodGet, get)

	update := operation("update_"+res.singular, "Partially update a "+res.singular)
	update.AddParameter(idParam(res.singular))
	update.RequestBody = &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().
		WithRequired(true).
		WithDescription("Only the keys present are changed. null clears an optional field.").
		WithJSONSchemaRef(ref(res.schema + "Update"))}
	update.AddResponse(http.StatusOK, openapi3.NewResponse().
		WithDescription("The updated "+res.singular+".").
		WithJSONSchemaRef(read))
	update.AddResponse(http.StatusBadRequest, errorResponse("Bad id, or an empty, malformed or trailing body."))
	update.AddResponse(http.StatusNotFound, notFound)
	update.AddResponse(http.StatusUnprocessableEntity, invalid)
	doc.AddOperation(item, http.MethodPatch, update)

	del := operation("delete_"+res.singular, "Delete a "+res.singular)
	del.AddParameter(idParam(res.singular))
	del.AddResponse(http.StatusOK, openapi3.NewResponse().
		WithDescription("The "+res.singular+" as it was before removal.").
		WithJSONSchemaRef(read))
	del.AddResponse(http.StatusBadRequest, badID)
	del.AddResponse(http.StatusNotFound, notFound)
	doc.AddOperation(item, http.MethodDelete, del)
}

func operation(id, summary string) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = id
	op.Summary = summary
	return op
}

func idParam(singular string) *openapi3.Parameter {
	return openapi3.NewPathParameter("id").
		WithDescription("The " + singular + "'s id.").
		WithSchema(openapi3.NewUUIDSchema())
}

func errorResponse(description string) *openapi3.Response {
	return openapi3.NewResponse().
		WithDescription(description).
		WithJSONSchemaRef(ref("Error"))
}

// ref points at a component schema. The value is filled in as well so the
// document validates without a resolving load.
func ref(name string) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("#/components/schemas/"+name, schemaByName(name))
}

var schemaNames = []string{
	"CourseBase", "CourseUpdate", "CourseRead",
	"StudentBase", "StudentUpdate", "StudentRead",
	"Error",
}

func schemaByName(name string) *openapi3.Schema {
	switch name {
	case "CourseBase":
		return baseSchema(courseFields)
	case "CourseUpdate":
		return updateSchema(courseFields)
	case "CourseRead":
		return readSchema(courseFields, "Server-generated Course ID.")
	case "StudentBase":
		return baseSchema(studentFields)
	case "StudentUpdate":
		return updateSchema(studentFields)
	case "StudentRead":
		return readSchema(studentFields, "Server-generated Student ID.")
	case "Error":
		return errorSchema()
	}
	return nil
}

func errorSchema() *openapi3.Schema {
	field := openapi3.NewObjectSchema().
		WithProperty("field", openapi3.NewStringSchema()).
		WithProperty("issue", openapi3.NewStringSchema().
			WithEnum(response.IssueMissing, response.IssueType, response.IssuePattern,
				response.IssueEmail, response.IssueInvalid, response.IssueUnknown)).
		WithRequired([]string{"field", "issue"})

	return openapi3.NewObjectSchema().
		WithProperty("status", openapi3.NewStringSchema().WithEnum(response.StatusError)).
		WithProperty("error", openapi3.NewStringSchema()).
		WithProperty("fields", openapi3.NewArraySchema().WithItems(field)).
		WithRequired([]string{"status", "error"})
}
