package docs

import (
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/aanand-mishra/student-course-api/internal/types"
)

// field is one property shared by the Base, Update and Read shapes of a
// resource. required only matters for Base and Read: in an Update every
// key may be left out.
type field struct {
	name        string
	description string
	required    bool
	example     any
	schema      func() *openapi3.Schema
}

var courseFields = []field{
	{"department_code", "Department Code", true, "COMS", openapi3.NewStringSchema},
	{"course_code", "4-digit Course Number", true, "4153", openapi3.NewStringSchema},
	{"title", "Course Title", true, "Cloud Computing", openapi3.NewStringSchema},
	{"instructor", "Instructor Name", true, "Donald Ferguson", openapi3.NewStringSchema},
	{"days", "Class Days", true, "MW", openapi3.NewStringSchema},
	{"start_time", "Class Start Time", true, "1:10PM", openapi3.NewStringSchema},
	{"end_time", "Class End Time", true, "3:45PM", openapi3.NewStringSchema},
	{"location", "Class Location", true, "501 NORTHWEST CORNER", openapi3.NewStringSchema},
	{"size", "Class Size", true, 100, openapi3.NewIntegerSchema},
	{"credit", "Course Credit", true, 3, openapi3.NewIntegerSchema},
	{"section", "Course Section", false, "001", openapi3.NewStringSchema},
	{"enrollment", "Current Enrollment", false, 75, openapi3.NewIntegerSchema},
}

var studentFields = []field{
	{"uni", "Columbia University UNI (2-3 lowercase letters + 1-4 digits).", true, "abc1234", uniSchema},
	{"first_name", "Given name.", true, "Ada", openapi3.NewStringSchema},
	{"last_name", "Family name.", true, "Lovelace", openapi3.NewStringSchema},
	{"major", "Major field of study.", true, "Computer Science", openapi3.NewStringSchema},
	{"grade", "Current academic grade.", true, "Senior", openapi3.NewStringSchema},
	{"email", "Primary email address.", true, "ada@example.com", emailSchema},
	{"phone", "Contact phone number in any reasonable format.", false, "+1-212-555-0199", openapi3.NewStringSchema},
	{"birth_date", "Date of birth (YYYY-MM-DD).", false, "1815-12-10", dateSchema},
	{"courses", "Courses registered to this person for the current semester.", false, nil, coursesSchema},
}

func uniSchema() *openapi3.Schema {
	return openapi3.NewStringSchema().WithPattern(types.UNIPattern)
}

func emailSchema() *openapi3.Schema {
	return openapi3.NewStringSchema().WithFormat("email")
}

func dateSchema() *openapi3.Schema {
	return openapi3.NewStringSchema().WithFormat("date")
}

// coursesSchema is the embedded course list. It builds its CourseBase
// reference by hand: going through ref would make studentFields depend on
// itself during package initialisation.
func coursesSchema() *openapi3.Schema {
	s := openapi3.NewArraySchema()
	s.Items = openapi3.NewSchemaRef("#/components/schemas/CourseBase", baseSchema(courseFields))
	return s
}

// property renders f. Optional fields accept null everywhere except the
// course list, which may be left out of a create but not sent as null.
// nullable widens that to every field, as an Update needs.
func property(f field, nullable bool) *openapi3.Schema {
	s := f.schema()
	s.Description = f.description
	s.Example = f.example
	if nullable || (!f.required && f.name != "courses") {
		s.WithNullable()
	}
	return s
}

// baseSchema is the create body: required keys must be sent, unknown keys
// are refused. "" and 0 are legal values for required keys.
func baseSchema(fields []field) *openapi3.Schema {
	s := openapi3.NewObjectSchema().WithoutAdditionalProperties()
	var required []string
	for _, f := range fields {
		s.WithProperty(f.name, property(f, false))
		if f.required {
			required = append(required, f.name)
		}
	}
	return s.WithRequired(required)
}

// updateSchema is the PATCH body: every key optional, unknown keys refused.
// A null courses empties the list.
func updateSchema(fields []field) *openapi3.Schema {
	s := openapi3.NewObjectSchema().WithoutAdditionalProperties()
	s.Description = "Partial update. Only the keys present are changed; null clears an optional field and is refused on a required one."
	for _, f := range fields {
		s.WithProperty(f.name, property(f, true))
	}
	return s
}

// readSchema is the stored record: the Base fields plus the server-assigned
// id and timestamps.
func readSchema(fields []field, idDescription string) *openapi3.Schema {
	s := openapi3.NewObjectSchema()
	required := []string{"id", "created_at", "updated_at"}

	id := openapi3.NewUUIDSchema()
	id.Description = idDescription
	id.Example = "99999999-9999-4999-8999-999999999999"
	s.WithProperty("id", id)

	for _, f := range fields {
		s.WithProperty(f.name, property(f, false))
		if f.required || f.name == "courses" {
			required = append(required, f.name)
		}
	}

	created := openapi3.NewDateTimeSchema()
	created.Description = "Creation timestamp (UTC)."
	created.Example = "2025-01-15T10:20:30Z"
	s.WithProperty("created_at", created)

	updated := openapi3.NewDateTimeSchema()
	updated.Description = "Last update timestamp (UTC)."
	updated.Example = "2025-01-16T12:00:00Z"
	s.WithProperty("updated_at", updated)

	return s.WithRequired(required)
}
