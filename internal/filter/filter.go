// Package filter narrows listings by query parameters.
//
// Each supported parameter becomes one independent predicate. Parameters
// that are absent from the query add no constraint; a parameter that is
// present with an empty value ("?major=") still filters. The predicates are
// applied one after another (AND semantics), so the order only affects the
// size of intermediate lists, never the final result, and the relative
// order of the surviving records is preserved.
package filter

import (
	"net/url"
	"strings"

	"github.com/aanand-mishra/student-course-api/internal/types"
)

// CourseFilter holds the query parameters accepted by GET /courses.
// A nil field was not supplied.
type CourseFilter struct {
	DepartmentCode *string
	CourseCode     *string
	Title          *string
	Instructor     *string
	Days           *string
	StartTime      *string
	EndTime        *string
}

// StudentFilter holds the query parameters accepted by GET /students.
// DepartmentCode and Instructor match against the student's own embedded
// courses.
type StudentFilter struct {
	UNI            *string
	FirstName      *string
	LastName       *string
	Major          *string
	Grade          *string
	Email          *string
	Phone          *string
	BirthDate      *string
	DepartmentCode *string
	Instructor     *string
}

// ParseCourseFilter reads a CourseFilter from the URL query.
func ParseCourseFilter(q url.Values) CourseFilter {
	return CourseFilter{
		DepartmentCode: param(q, "department_code"),
		CourseCode:     param(q, "course_code"),
		Title:          param(q, "title"),
		Instructor:     param(q, "instructor"),
		Days:           param(q, "days"),
		StartTime:      param(q, "start_time"),
		EndTime:        param(q, "end_time"),
	}
}

// ParseStudentFilter reads a StudentFilter from the URL query.
func ParseStudentFilter(q url.Values) StudentFilter {
	return StudentFilter{
		UNI:            param(q, "uni"),
		FirstName:      param(q, "first_name"),
		LastName:       param(q, "last_name"),
		Major:          param(q, "major"),
		Grade:          param(q, "grade"),
		Email:          param(q, "email"),
		Phone:          param(q, "phone"),
		BirthDate:      param(q, "birth_date"),
		DepartmentCode: param(q, "department_code"),
		Instructor:     param(q, "instructor"),
	}
}

// Apply returns the courses that satisfy every supplied parameter.
func (f CourseFilter) Apply(courses []types.CourseRead) []types.CourseRead {
	if v := f.DepartmentCode; v != nil {
		courses = narrow(courses, func(c types.CourseRead) bool { return equalFold(types.Deref(c.DepartmentCode), *v) })
	}
	if v := f.CourseCode; v != nil {
		courses = narrow(courses, func(c types.CourseRead) bool { return types.Deref(c.CourseCode) == *v })
	}
	if v := f.Title; v != nil {
		courses = narrow(courses, func(c types.CourseRead) bool { return containsFold(types.Deref(c.Title), *v) })
	}
	if v := f.Instructor; v != nil {
		courses = narrow(courses, func(c types.CourseRead) bool { return containsFold(types.Deref(c.Instructor), *v) })
	}
	if v := f.Days; v != nil {
		courses = narrow(courses, func(c types.CourseRead) bool { return containsFold(types.Deref(c.Days), *v) })
	}
	if v := f.StartTime; v != nil {
		courses = narrow(courses, func(c types.CourseRead) bool { return equalFold(types.Deref(c.StartTime), *v) })
	}
	if v := f.EndTime; v != nil {
		courses = narrow(courses, func(c types.CourseRead) bool { return equalFold(types.Deref(c.EndTime), *v) })
	}
	return courses
}

// Apply returns the students that satisfy every supplied parameter.
func (f StudentFilter) Apply(students []types.StudentRead) []types.StudentRead {
	if v := f.UNI; v != nil {
		students = narrow(students, func(s types.StudentRead) bool { return equalFold(types.Deref(s.UNI), *v) })
	}
	if v := f.FirstName; v != nil {
		students = narrow(students, func(s types.StudentRead) bool { return equalFold(types.Deref(s.FirstName), *v) })
	}
	if v := f.LastName; v != nil {
		students = narrow(students, func(s types.StudentRead) bool { return equalFold(types.Deref(s.LastName), *v) })
	}
	if v := f.Major; v != nil {
		students = narrow(students, func(s types.StudentRead) bool { return equalFold(types.Deref(s.Major), *v) })
	}
	if v := f.Grade; v != nil {
		students = narrow(students, func(s types.StudentRead) bool { return equalFold(types.Deref(s.Grade), *v) })
	}
	if v := f.Email; v != nil {
		students = narrow(students, func(s types.StudentRead) bool { return types.Deref(s.Email) == *v })
	}
	if v := f.Phone; v != nil {
		students = narrow(students, func(s types.StudentRead) bool { return s.Phone != nil && *s.Phone == *v })
	}
	if v := f.BirthDate; v != nil {
		students = narrow(students, func(s types.StudentRead) bool {
			return s.BirthDate != nil && s.BirthDate.String() == *v
		})
	}
	if v := f.DepartmentCode; v != nil {
		students = narrow(students, func(s types.StudentRead) bool {
			return s.HasCourse(func(c types.CourseBase) bool { return equalFold(types.Deref(c.DepartmentCode), *v) })
		})
	}
	if v := f.Instructor; v != nil {
		students = narrow(students, func(s types.StudentRead) bool {
			return s.HasCourse(func(c types.CourseBase) bool { return equalFold(types.Deref(c.Instructor), *v) })
		})
	}
	return students
}

// narrow keeps the items for which keep returns true, in order. It never
// returns nil so an empty result still encodes as [].
func narrow[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func param(q url.Values, key string) *string {
	if !q.Has(key) {
		return nil
	}
	v := q.Get(key)
	return &v
}

// equalFold compares after lower-casing both sides.
func equalFold(have, want string) bool {
	return strings.ToLower(have) == strings.ToLower(want)
}

// containsFold reports whether needle occurs in haystack, ignoring case.
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
