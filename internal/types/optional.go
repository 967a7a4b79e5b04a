package types

import (
	"bytes"
	"encoding/json"
)

// Optional wraps a field of a PATCH payload so we can tell three cases apart:
//
//	{}                  → Set=false              (leave the stored value alone)
//	{"phone": null}     → Set=true,  Null=true   (clear / zero the value)
//	{"phone": "555"}    → Set=true,  Value="555" (overwrite)
//
// A plain pointer cannot do this: encoding/json leaves it nil for both an
// omitted key and an explicit null.
type Optional[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// Null returns an Optional that was explicitly set to null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// UnmarshalJSON is only invoked by encoding/json when the key is present in
// the object, which is what makes Set meaningful. Objects inside the value
// (the entries of courses) may not carry keys T does not declare.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(&o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Present reports whether the field carries a non-null value.
func (o Optional[T]) Present() bool {
	return o.Set && !o.Null
}

// validationValue feeds the validator: unset and null fields look like nil
// so "omitempty" skips them, present ones expose the wrapped value.
func (o Optional[T]) validationValue() any {
	if !o.Present() {
		return nil
	}
	return o.Value
}
