// Package patch models partial updates: a Field knows whether its JSON key
// was present, and Updates collects only the assignments that were asked for.
package patch

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Field is a JSON value that remembers whether it was supplied.
// Absent key: Set=false. Explicit null: Set=true, Valid=false.
type Field[T any] struct {
	Set   bool
	Valid bool
	Value T
}

func Of[T any](v T) Field[T] {
	return Field[T]{Set: true, Valid: true, Value: v}
}

func Null[T any]() Field[T] {
	return Field[T]{Set: true}
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	b = bytes.TrimSpace(b)
	// Forms post "" for an emptied date or number input; read it as null.
	_, isString := any(f.Value).(string)
	if bytes.Equal(b, []byte("null")) || (!isString && bytes.Equal(b, []byte(`""`))) {
		var zero T
		f.Valid, f.Value = false, zero
		return nil
	}
	if err := json.Unmarshal(b, &f.Value); err != nil {
		return err
	}
	f.Valid = true
	return nil
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Present reports whether the field carries a non-null value.
func (f Field[T]) Present() bool {
	return f.Set && f.Valid
}

// Assign copies a present value into dst and leaves dst alone otherwise,
// the COALESCE(new, old) rule.
func Assign[T any](dst *T, f Field[T]) {
	if f.Present() {
		*dst = f.Value
	}
}

// Updates is a column -> value assignment list for a single UPDATE.
type Updates map[string]any

// Value assigns a NOT NULL column; null is ignored.
func Value[T any](u Updates, column string, f Field[T]) {
	if f.Present() {
		u[column] = f.Value
	}
}

// Nullable assigns a nullable column; null stores NULL.
func Nullable[T any](u Updates, column string, f Field[T]) {
	if !f.Set {
		return
	}
	if !f.Valid {
		u[column] = nil
		return
	}
	u[column] = f.Value
}

// Text assigns a nullable text column; null and blank strings store NULL.
func Text(u Updates, column string, f Field[string]) {
	if f.Set && f.Valid && strings.TrimSpace(f.Value) == "" {
		u[column] = nil
		return
	}
	Nullable(u, column, f)
}
