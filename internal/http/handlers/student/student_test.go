package student

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-course-api/internal/storage"
	"github.com/aanand-mishra/student-course-api/internal/storage/memory"
	"github.com/aanand-mishra/student-course-api/internal/types"
	"github.com/aanand-mishra/student-course-api/internal/utils/response"
)

const ada = `{
	"uni": "abc1234",
	"first_name": "Ada",
	"last_name": "Lovelace",
	"major": "Computer Science",
	"grade": "Senior",
	"email": "ada@example.com",
	"phone": "+1-212-555-0199",
	"birth_date": "1815-12-10",
	"courses": [{
		"department_code": "COMS",
		"course_code": "4153",
		"title": "Cloud Computing",
		"instructor": "Donald Ferguson",
		"days": "F",
		"start_time": "1:10PM",
		"end_time": "3:45PM",
		"location": "501 NORTHWEST CORNER",
		"size": 100,
		"credit": 3,
		"section": "001",
		"enrollment": 102
	}]
}`

func mount(store storage.Storage) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /students", New(store))
	mux.HandleFunc("GET /students", GetList(store))
	mux.HandleFunc("GET /students/{id}", GetByID(store))
	mux.HandleFunc("PATCH /students/{id}", Update(store))
	mux.HandleFunc("DELETE /students/{id}", Delete(store))
	return mux
}

// serve runs one request through the handlers and returns the recorder.
func serve(mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func create(t *testing.T, mux http.Handler, body string) types.StudentRead {
	t.Helper()
	rec := serve(mux, http.MethodPost, "/students", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[types.StudentRead](t, rec)
}

func TestCreate(t *testing.T) {
	mux := mount(memory.New())
	s := create(t, mux, ada)

	assert.NotEqual(t, uuid.Nil, s.ID)
	assert.Equal(t, "abc1234", *s.UNI)
	assert.Equal(t, "ada@example.com", *s.Email)
	require.NotNil(t, s.Phone)
	assert.Equal(t, "+1-212-555-0199", *s.Phone)
	require.NotNil(t, s.BirthDate)
	assert.Equal(t, "1815-12-10", s.BirthDate.String())
	require.Len(t, s.Courses, 1)
	assert.Equal(t, "Donald Ferguson", *s.Courses[0].Instructor)
	assert.True(t, s.CreatedAt.Equal(s.UpdatedAt))
}

func TestCreateMinimal(t *testing.T) {
	mux := mount(memory.New())
	rec := serve(mux, http.MethodPost, "/students", `{
		"uni": "ab1", "first_name": "Alan", "last_name": "Turing",
		"major": "Mathematics", "grade": "Junior", "email": "alan@example.com"
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"courses":[]`)
	assert.Contains(t, rec.Body.String(), `"phone":null`)
}

func TestCreateValidation(t *testing.T) {
	mux := mount(memory.New())

	cases := []struct {
		name  string
		body  string
		field string
		issue string
	}{
		{"uppercase uni", strings.Replace(ada, "abc1234", "ABCD1", 1), "uni", response.IssuePattern},
		{"five digits", strings.Replace(ada, "abc1234", "ab12345", 1), "uni", response.IssuePattern},
		{"one letter", strings.Replace(ada, "abc1234", "a1", 1), "uni", response.IssuePattern},
		{"bad email", strings.Replace(ada, "ada@example.com", "ada-at-example", 1), "email", response.IssueEmail},
		{"bad birth date", strings.Replace(ada, "1815-12-10", "12/10/1815", 1), "birth_date", response.IssueType},
		{"nested course missing title", strings.Replace(ada, `"title": "Cloud Computing",`, "", 1), "courses[0].title", response.IssueMissing},
		{"server-assigned timestamp", strings.Replace(ada, "{", `{"created_at": "2025-01-15T10:20:30Z",`, 1), "created_at", response.IssueUnknown},
		{"unknown key inside a course", strings.Replace(ada, `"section": "001"`, `"room": "501"`, 1), "courses.room", response.IssueUnknown},
		{"wrong type inside a course", strings.Replace(ada, `"size": 100`, `"size": "big"`, 1), "courses.size", response.IssueType},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(mux, http.MethodPost, "/students", tc.body)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

			body := decode[response.Response](t, rec)
			assert.Equal(t, response.StatusError, body.Status)
			assert.Contains(t, body.Fields, response.FieldError{Field: tc.field, Issue: tc.issue})
		})
	}

	rec := serve(mux, http.MethodGet, "/students", "")
	assert.JSONEq(t, `[]`, rec.Body.String(), "rejected payloads must not be stored")
}

func TestCreateReportsEveryProblem(t *testing.T) {
	mux := mount(memory.New())

	rec := serve(mux, http.MethodPost, "/students", `{"uni":"a1","first_name":5,"email":"bad"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

	body := decode[response.Response](t, rec)
	assert.ElementsMatch(t, []response.FieldError{
		{Field: "first_name", Issue: response.IssueType},
		{Field: "uni", Issue: response.IssuePattern},
		{Field: "email", Issue: response.IssueEmail},
		{Field: "last_name", Issue: response.IssueMissing},
		{Field: "major", Issue: response.IssueMissing},
		{Field: "grade", Issue: response.IssueMissing},
	}, body.Fields)
	assert.Contains(t, body.Error, "field first_name must be of type string")
}

func TestCreateRejectsNullCourses(t *testing.T) {
	mux := mount(memory.New())

	rec := serve(mux, http.MethodPost, "/students", `{
		"uni": "ab1", "first_name": "Alan", "last_name": "Turing",
		"major": "Mathematics", "grade": "Junior", "email": "alan@example.com",
		"courses": null
	}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

	body := decode[response.Response](t, rec)
	assert.Equal(t, []response.FieldError{{Field: "courses", Issue: response.IssueType}}, body.Fields)

	rec = serve(mux, http.MethodGet, "/students", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestListFilters(t *testing.T) {
	mux := mount(memory.New())
	first := create(t, mux, ada)
	create(t, mux, strings.NewReplacer(
		"abc1234", "gh1",
		"Ada", "Grace",
		"Lovelace", "Hopper",
		"COMS", "MATH",
		"Donald Ferguson", "Jane Doe",
	).Replace(ada))

	cases := []struct {
		query string
		want  int
	}{
		{"", 2},
		{"?uni=ABC1234", 1},
		{"?department_code=coms", 1},
		{"?instructor=donald%20ferguson", 1},
		{"?instructor=jane%20doe&first_name=ada", 0},
		{"?birth_date=1815-12-10", 2},
		{"?phone=%2B1-212-555-0199&grade=SENIOR", 2},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			rec := serve(mux, http.MethodGet, "/students"+tc.query, "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Len(t, decode[[]types.StudentRead](t, rec), tc.want)
		})
	}

	rec := serve(mux, http.MethodGet, "/students?department_code=COMS", "")
	got := decode[[]types.StudentRead](t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, first.ID, got[0].ID)
}

func TestPartialUpdate(t *testing.T) {
	mux := mount(memory.New())
	s := create(t, mux, ada)
	path := "/students/" + s.ID.String()

	rec := serve(mux, http.MethodPatch, path, `{"last_name":"Byron","phone":null}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[types.StudentRead](t, rec)

	assert.Equal(t, "Byron", *updated.LastName)
	assert.Nil(t, updated.Phone)
	assert.Equal(t, s.FirstName, updated.FirstName)
	assert.Equal(t, s.UNI, updated.UNI)
	assert.Equal(t, s.Courses, updated.Courses)
	assert.True(t, s.CreatedAt.Equal(updated.CreatedAt))
	assert.False(t, updated.UpdatedAt.Before(s.UpdatedAt))

	t.Run("courses replace the whole list", func(t *testing.T) {
		rec := serve(mux, http.MethodPatch, path, `{"courses":[]}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decode[types.StudentRead](t, rec).Courses)
	})

	t.Run("bad uni in patch", func(t *testing.T) {
		rec := serve(mux, http.MethodPatch, path, `{"uni":"ab12345"}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decode[response.Response](t, rec)
		assert.Contains(t, body.Fields, response.FieldError{Field: "uni", Issue: response.IssuePattern})
	})

	t.Run("empty string is a value", func(t *testing.T) {
		rec := serve(mux, http.MethodPatch, path, `{"first_name":""}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		got := decode[types.StudentRead](t, rec)
		require.NotNil(t, got.FirstName)
		assert.Equal(t, "", *got.FirstName)
	})

	t.Run("trailing data", func(t *testing.T) {
		rec := serve(mux, http.MethodPatch, path, `{"uni":"ab1"} trailing`)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		rec = serve(mux, http.MethodGet, path, "")
		assert.Equal(t, "abc1234", *decode[types.StudentRead](t, rec).UNI)
	})

	t.Run("null email", func(t *testing.T) {
		rec := serve(mux, http.MethodPatch, path, `{"email":null}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decode[response.Response](t, rec)
		assert.Contains(t, body.Fields, response.FieldError{Field: "email", Issue: response.IssueMissing})
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := serve(mux, http.MethodPatch, "/students/"+uuid.NewString(), `{}`)
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Student not found", decode[response.Response](t, rec).Error)
	})
}

func TestDeleteThenGet(t *testing.T) {
	mux := mount(memory.New())
	s := create(t, mux, ada)
	path := "/students/" + s.ID.String()

	rec := serve(mux, http.MethodDelete, path, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, s.ID, decode[types.StudentRead](t, rec).ID)

	rec = serve(mux, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(mux, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// conflictStore always reports an id collision on insert.
type conflictStore struct {
	*memory.Memory
}

func (c conflictStore) Students() storage.Repository[types.StudentRead] {
	return conflictRepo{c.Memory.Students()}
}

type conflictRepo struct {
	storage.Repository[types.StudentRead]
}

func (conflictRepo) Insert(id uuid.UUID, _ types.StudentRead) error {
	return fmt.Errorf("student %s: %w", id, storage.ErrConflict)
}

func TestCreateConflict(t *testing.T) {
	mux := mount(conflictStore{memory.New()})

	rec := serve(mux, http.MethodPost, "/students", ada)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[response.Response](t, rec).Error, "already exists")
}
