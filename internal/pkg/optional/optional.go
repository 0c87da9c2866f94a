// internal/pkg/optional/optional.go
package optional

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Field distinguishes a JSON property that was absent from one explicitly set
// to null. Present is true whenever the key appeared in the payload.
type Field[T any] struct {
	Present bool
	Value   *T
}

// Of returns a present field holding v
func Of[T any](v T) Field[T] {
	return Field[T]{Present: true, Value: &v}
}

// Null returns a present field explicitly set to null
func Null[T any]() Field[T] {
	return Field[T]{Present: true}
}

// IsNull reports whether the key was sent with a null value
func (f Field[T]) IsNull() bool {
	return f.Present && f.Value == nil
}

// UnmarshalJSON is only invoked when the key exists in the payload
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.Value = &v
	return nil
}

// MarshalJSON renders the value or null
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if f.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Int decodes leniently. JSON integers and numeric strings are taken as is;
// any other value decodes to zero instead of failing the payload.
type Int int

// UnmarshalJSON never returns an error
func (i *Int) UnmarshalJSON(data []byte) error {
	*i = 0

	raw := strings.TrimSpace(string(data))
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}

	if n, err := strconv.Atoi(raw); err == nil {
		*i = Int(n)
	}
	return nil
}
