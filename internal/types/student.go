package types

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// StudentBase is the client-supplied shape of a student (POST /students).
//
// Pointer fields follow the same rule as CourseBase. Courses may be omitted
// but not null.
//
// Courses holds embedded copies of course data. Nothing ties them to the
// course collection: they may be stale, duplicated, or never have existed
// there at all.
type StudentBase struct {
	UNI       *string      `json:"uni"        validate:"required,uni"`
	FirstName *string      `json:"first_name" validate:"required"`
	LastName  *string      `json:"last_name"  validate:"required"`
	Major     *string      `json:"major"      validate:"required"`
	Grade     *string      `json:"grade"      validate:"required"`
	Email     *string      `json:"email"      validate:"required,email"`
	Phone     *string      `json:"phone"`
	BirthDate *Date        `json:"birth_date"`
	Courses   []CourseBase `json:"courses"    validate:"dive"`
}

// StudentUpdate is the PATCH /students/{id} body. A present "courses" key
// replaces the whole list.
type StudentUpdate struct {
	UNI       Optional[string]       `json:"uni"        validate:"omitempty,uni"`
	FirstName Optional[string]       `json:"first_name" validate:"omitempty"`
	LastName  Optional[string]       `json:"last_name"  validate:"omitempty"`
	Major     Optional[string]       `json:"major"      validate:"omitempty"`
	Grade     Optional[string]       `json:"grade"      validate:"omitempty"`
	Email     Optional[string]       `json:"email"      validate:"omitempty,email"`
	Phone     Optional[string]       `json:"phone"      validate:"omitempty"`
	BirthDate Optional[Date]         `json:"birth_date" validate:"omitempty"`
	Courses   Optional[[]CourseBase] `json:"courses"    validate:"omitempty,dive"`
}

// StudentRead is both the stored record and the response body.
type StudentRead struct {
	ID uuid.UUID `json:"id" validate:"required"`
	StudentBase
	CreatedAt time.Time `json:"created_at" validate:"required"`
	UpdatedAt time.Time `json:"updated_at" validate:"required,gtefield=CreatedAt"`
}

// NewStudentRead stamps a freshly created student with its identity.
func NewStudentRead(base StudentBase, id uuid.UUID, now time.Time) StudentRead {
	now = now.UTC()
	return StudentRead{
		ID:          id,
		StudentBase: base.Clone(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Clone returns a deep copy. Courses is always non-nil in the result so it
// encodes as [] rather than null.
func (s StudentBase) Clone() StudentBase {
	s.UNI = clonePtr(s.UNI)
	s.FirstName = clonePtr(s.FirstName)
	s.LastName = clonePtr(s.LastName)
	s.Major = clonePtr(s.Major)
	s.Grade = clonePtr(s.Grade)
	s.Email = clonePtr(s.Email)
	s.Phone = clonePtr(s.Phone)
	s.BirthDate = clonePtr(s.BirthDate)
	s.Courses = cloneCourses(s.Courses)
	return s
}

// Clone returns a deep copy of the record.
func (s StudentRead) Clone() StudentRead {
	s.StudentBase = s.StudentBase.Clone()
	return s
}

// Apply overlays the fields present in u onto s. A null "courses" empties
// the list.
func (u StudentUpdate) Apply(s *StudentBase) {
	apply(&s.UNI, u.UNI)
	apply(&s.FirstName, u.FirstName)
	apply(&s.LastName, u.LastName)
	apply(&s.Major, u.Major)
	apply(&s.Grade, u.Grade)
	apply(&s.Email, u.Email)
	apply(&s.Phone, u.Phone)
	apply(&s.BirthDate, u.BirthDate)
	if u.Courses.Set {
		s.Courses = cloneCourses(u.Courses.Value)
	}
}

func cloneCourses(courses []CourseBase) []CourseBase {
	out := make([]CourseBase, 0, len(courses))
	for _, c := range courses {
		out = append(out, c.Clone())
	}
	return out
}

// Touch returns the updated_at value for a modification happening at now.
// It never goes backwards relative to prev, even if the wall clock does.
func Touch(prev, now time.Time) time.Time {
	now = now.UTC()
	if now.Before(prev) {
		return prev
	}
	return now
}

// HasCourse reports whether any embedded course satisfies match.
func (s StudentBase) HasCourse(match func(CourseBase) bool) bool {
	return slices.ContainsFunc(s.Courses, match)
}
