package validation

import (
	"bytes"
	"encoding/json"
)

// Optional is a JSON field that remembers whether it was sent and whether it was null.
// The zero value means the field was absent from the payload.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Of returns a present, non-null Optional.
func Of[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Null returns a present Optional carrying JSON null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Present reports whether the field was sent with a non-null value.
func (o Optional[T]) Present() bool {
	return o.Set && !o.Null
}
