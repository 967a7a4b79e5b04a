package request

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-course-api/internal/types"
	"github.com/aanand-mishra/student-course-api/internal/utils/response"
)

// decodeInto runs DecodeAndValidate on body and returns what it wrote.
func decodeInto(t *testing.T, body string, dst any) (bool, *httptest.ResponseRecorder) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	ok := DecodeAndValidate(rec, req, dst)
	return ok, rec
}

func problems(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestDecodeValidCourse(t *testing.T) {
	var c types.CourseBase
	ok, _ := decodeInto(t, `{"department_code":"","course_code":"4153","title":"Cloud Computing",
		"instructor":"Donald Ferguson","days":"F","start_time":"1:10PM","end_time":"3:45PM",
		"location":"501 NORTHWEST CORNER","size":0,"credit":3,"section":null}`, &c)
	require.True(t, ok)

	require.NotNil(t, c.DepartmentCode)
	assert.Equal(t, "", *c.DepartmentCode)
	assert.Equal(t, 0, *c.Size)
	assert.Nil(t, c.Section)
}

func TestDecodeListsTypeIssuesAndMissingTogether(t *testing.T) {
	var c types.CourseBase
	ok, rec := decodeInto(t, `{"size":"large","credit":"three"}`, &c)
	require.False(t, ok)

	body := problems(t, rec)
	require.Len(t, body.Fields, 10)
	assert.Equal(t, []response.FieldError{
		{Field: "size", Issue: response.IssueType},
		{Field: "credit", Issue: response.IssueType},
	}, body.Fields[:2])
	for _, f := range body.Fields[2:] {
		assert.Equal(t, response.IssueMissing, f.Issue, f.Field)
		assert.NotEqual(t, "size", f.Field)
		assert.NotEqual(t, "credit", f.Field)
	}
}

func TestDecodeStudentMixedIssues(t *testing.T) {
	var s types.StudentBase
	ok, rec := decodeInto(t, `{"uni":"a1","first_name":5,"email":"bad","birth_date":"10/12/1815","shoe_size":9}`, &s)
	require.False(t, ok)

	body := problems(t, rec)
	assert.ElementsMatch(t, []response.FieldError{
		{Field: "first_name", Issue: response.IssueType},
		{Field: "birth_date", Issue: response.IssueType},
		{Field: "shoe_size", Issue: response.IssueUnknown},
		{Field: "uni", Issue: response.IssuePattern},
		{Field: "email", Issue: response.IssueEmail},
		{Field: "last_name", Issue: response.IssueMissing},
		{Field: "major", Issue: response.IssueMissing},
		{Field: "grade", Issue: response.IssueMissing},
	}, body.Fields)
	assert.Contains(t, body.Error, "field birth_date must be of type date (YYYY-MM-DD)")
	assert.Contains(t, body.Error, "field shoe_size is not allowed")
}

func TestDecodeNullRules(t *testing.T) {
	t.Run("null courses on create", func(t *testing.T) {
		var s types.StudentBase
		ok, rec := decodeInto(t, `{"uni":"ab1","first_name":"A","last_name":"B","major":"M",
			"grade":"G","email":"a@b.co","courses":null}`, &s)
		require.False(t, ok)
		body := problems(t, rec)
		assert.Equal(t, []response.FieldError{{Field: "courses", Issue: response.IssueType}}, body.Fields)
		assert.Contains(t, body.Error, "must not be null")
	})

	t.Run("null courses on update", func(t *testing.T) {
		var u types.StudentUpdate
		ok, _ := decodeInto(t, `{"courses":null}`, &u)
		require.True(t, ok)
		assert.True(t, u.Courses.Set)
		assert.True(t, u.Courses.Null)
	})

	t.Run("null on a required create field is missing", func(t *testing.T) {
		var c types.CourseBase
		_, rec := decodeInto(t, `{"title":null}`, &c)
		assert.Contains(t, problems(t, rec).Fields, response.FieldError{Field: "title", Issue: response.IssueMissing})
	})
}

func TestDecodeUpdateTypeIssues(t *testing.T) {
	var u types.CourseUpdate
	ok, rec := decodeInto(t, `{"credit":"three","enrollment":true,"days":"MW"}`, &u)
	require.False(t, ok)

	body := problems(t, rec)
	assert.ElementsMatch(t, []response.FieldError{
		{Field: "credit", Issue: response.IssueType},
		{Field: "enrollment", Issue: response.IssueType},
	}, body.Fields)
	assert.Contains(t, body.Error, "field credit must be of type integer")
}

func TestDecodeNestedCourseIssues(t *testing.T) {
	var u types.StudentUpdate
	ok, rec := decodeInto(t, `{"courses":[{"room":"501"}]}`, &u)
	require.False(t, ok)
	assert.Contains(t, problems(t, rec).Fields, response.FieldError{Field: "courses.room", Issue: response.IssueUnknown})
}

func TestDecodeRejectsMalformedBodies(t *testing.T) {
	cases := []struct {
		name, body string
		want       int
	}{
		{"empty", "", http.StatusBadRequest},
		{"whitespace", "  \n", http.StatusBadRequest},
		{"truncated", `{"uni":`, http.StatusBadRequest},
		{"null", `null`, http.StatusBadRequest},
		{"array", `[{"uni":"ab1"}]`, http.StatusBadRequest},
		{"string", `"ab1"`, http.StatusBadRequest},
		{"trailing word", `{"uni":"ab1"} trailing`, http.StatusBadRequest},
		{"second object", `{"uni":"ab1"}{"uni":"cd2"}`, http.StatusBadRequest},
		{"too large", `{"major":"` + strings.Repeat("x", MaxBodyBytes) + `"}`, http.StatusRequestEntityTooLarge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var u types.StudentUpdate
			ok, rec := decodeInto(t, tc.body, &u)
			assert.False(t, ok)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
		})
	}

	t.Run("trailing whitespace is fine", func(t *testing.T) {
		var u types.StudentUpdate
		ok, _ := decodeInto(t, "{\"uni\":\"ab1\"}\n\t ", &u)
		assert.True(t, ok)
		assert.Equal(t, "ab1", u.UNI.Value)
	})
}

func TestPathID(t *testing.T) {
	mux := http.NewServeMux()
	var got string
	mux.HandleFunc("GET /things/{id}", func(w http.ResponseWriter, r *http.Request) {
		if id, ok := PathID(w, r); ok {
			got = id.String()
		}
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/things/11111111-1111-4111-8111-111111111111", nil))
	assert.Equal(t, "11111111-1111-4111-8111-111111111111", got)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/things/42", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRootKey(t *testing.T) {
	assert.Equal(t, "courses", rootKey("courses[0].title"))
	assert.Equal(t, "courses", rootKey("courses.size"))
	assert.Equal(t, "uni", rootKey("uni"))
}
