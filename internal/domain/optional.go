package domain

import (
	"bytes"
	"encoding/json"
)

// Optional distinguishes the three states of a JSON field in a partial update:
// absent (Present == false), explicitly null (Present && Null), and set to a value.
type Optional[T any] struct {
	Present bool
	Null    bool
	Value   T
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Present: true, Value: v}
}

// Null returns an Optional that is present but explicitly null.
func Null[T any]() Optional[T] {
	return Optional[T]{Present: true, Null: true}
}

// IsSet reports whether the field was present with a non-null value.
func (o Optional[T]) IsSet() bool {
	return o.Present && !o.Null
}

// UnmarshalJSON is only invoked by encoding/json when the key is present,
// which is what marks the field as Present.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}
