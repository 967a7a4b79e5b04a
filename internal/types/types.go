// Package types holds all shared data structures (models) used across
// the application, together with the rules that validate them. Keeping
// them in one place prevents import cycles: handlers, storage, and the
// filter engine can all import types without depending on each other.
//
// Every resource has three shapes:
//
//	XBase    what a client sends on create (no id, no timestamps)
//	XUpdate  a PATCH body, every field wrapped in Optional
//	XRead    what we store and what we send back
package types

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// UNIPattern matches a Columbia UNI: 2-3 lowercase letters then 1-4 digits.
const UNIPattern = `^[a-z]{2,3}[0-9]{1,4}$`

var uniPattern = regexp.MustCompile(UNIPattern)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared, fully configured validator instance.
// validator.Validate caches struct metadata and is safe for concurrent use,
// so one instance serves the whole process.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()

		// Report errors using the JSON names clients actually send.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		// "uni" tag: Columbia UNI format.
		if err := v.RegisterValidation("uni", func(fl validator.FieldLevel) bool {
			return ValidUNI(fl.Field().String())
		}); err != nil {
			panic(err)
		}

		// Optional fields are validated as their wrapped value, or skipped
		// entirely when absent or null.
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if o, ok := field.Interface().(interface{ validationValue() any }); ok {
				return o.validationValue()
			}
			return nil
		},
			Optional[string]{},
			Optional[int]{},
			Optional[Date]{},
			Optional[[]CourseBase]{},
		)

		validate = v
	})
	return validate
}

// Validate checks every validate:"..." tag on v (recursing into embedded
// courses). It returns nil or a validator.ValidationErrors.
func Validate(v any) error {
	return Validator().Struct(v)
}

// ValidUNI reports whether s is a well-formed UNI.
func ValidUNI(s string) bool {
	return uniPattern.MatchString(s)
}
