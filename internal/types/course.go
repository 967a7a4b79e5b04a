package types

import (
	"time"

	"github.com/google/uuid"
)

// CourseBase is the client-supplied shape of a course. It is the body of
// POST /courses and also the element type of Student.Courses, where each
// entry is a full copy rather than a reference into the course collection.
//
// Every field is a pointer. For the required ones, "required" then means
// the key was sent with a non-null value: "" and 0 are legal values, a
// missing key or null is not.
type CourseBase struct {
	DepartmentCode *string `json:"department_code" validate:"required"`
	CourseCode     *string `json:"course_code"     validate:"required"`
	Title          *string `json:"title"           validate:"required"`
	Instructor     *string `json:"instructor"      validate:"required"`
	Days           *string `json:"days"            validate:"required"`
	StartTime      *string `json:"start_time"      validate:"required"`
	EndTime        *string `json:"end_time"        validate:"required"`
	Location       *string `json:"location"        validate:"required"`
	Size           *int    `json:"size"            validate:"required"`
	Credit         *int    `json:"credit"          validate:"required"`
	Section        *string `json:"section"`
	Enrollment     *int    `json:"enrollment"`
}

// CourseUpdate is the PATCH /courses/{id} body. Every field is optional;
// only the ones present in the JSON are applied.
type CourseUpdate struct {
	DepartmentCode Optional[string] `json:"department_code" validate:"omitempty"`
	CourseCode     Optional[string] `json:"course_code"     validate:"omitempty"`
	Title          Optional[string] `json:"title"           validate:"omitempty"`
	Instructor     Optional[string] `json:"instructor"      validate:"omitempty"`
	Days           Optional[string] `json:"days"            validate:"omitempty"`
	StartTime      Optional[string] `json:"start_time"      validate:"omitempty"`
	EndTime        Optional[string] `json:"end_time"        validate:"omitempty"`
	Location       Optional[string] `json:"location"        validate:"omitempty"`
	Size           Optional[int]    `json:"size"            validate:"omitempty"`
	Credit         Optional[int]    `json:"credit"          validate:"omitempty"`
	Section        Optional[string] `json:"section"         validate:"omitempty"`
	Enrollment     Optional[int]    `json:"enrollment"      validate:"omitempty"`
}

// CourseRead is both the stored record and the response body.
type CourseRead struct {
	ID uuid.UUID `json:"id" validate:"required"`
	CourseBase
	CreatedAt time.Time `json:"created_at" validate:"required"`
	UpdatedAt time.Time `json:"updated_at" validate:"required,gtefield=CreatedAt"`
}

// NewCourseRead stamps a freshly created course with its identity.
func NewCourseRead(base CourseBase, id uuid.UUID, now time.Time) CourseRead {
	now = now.UTC()
	return CourseRead{
		ID:         id,
		CourseBase: base.Clone(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Clone returns a copy that shares no pointers with c.
func (c CourseBase) Clone() CourseBase {
	c.DepartmentCode = clonePtr(c.DepartmentCode)
	c.CourseCode = clonePtr(c.CourseCode)
	c.Title = clonePtr(c.Title)
	c.Instructor = clonePtr(c.Instructor)
	c.Days = clonePtr(c.Days)
	c.StartTime = clonePtr(c.StartTime)
	c.EndTime = clonePtr(c.EndTime)
	c.Location = clonePtr(c.Location)
	c.Size = clonePtr(c.Size)
	c.Credit = clonePtr(c.Credit)
	c.Section = clonePtr(c.Section)
	c.Enrollment = clonePtr(c.Enrollment)
	return c
}

// Clone returns a deep copy of the record.
func (c CourseRead) Clone() CourseRead {
	c.CourseBase = c.CourseBase.Clone()
	return c
}

// Apply overlays the fields present in u onto c. An explicit null clears
// the field; on a required field the Read validation rejects that
// afterwards.
func (u CourseUpdate) Apply(c *CourseBase) {
	apply(&c.DepartmentCode, u.DepartmentCode)
	apply(&c.CourseCode, u.CourseCode)
	apply(&c.Title, u.Title)
	apply(&c.Instructor, u.Instructor)
	apply(&c.Days, u.Days)
	apply(&c.StartTime, u.StartTime)
	apply(&c.EndTime, u.EndTime)
	apply(&c.Location, u.Location)
	apply(&c.Size, u.Size)
	apply(&c.Credit, u.Credit)
	apply(&c.Section, u.Section)
	apply(&c.Enrollment, u.Enrollment)
}

func apply[T any](dst **T, src Optional[T]) {
	if !src.Set {
		return
	}
	if src.Null {
		*dst = nil
		return
	}
	v := src.Value
	*dst = &v
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Deref returns *p, or the zero value when p is nil.
func Deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
