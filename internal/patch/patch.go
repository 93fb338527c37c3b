// Package patch builds partial UPDATE statements.
//
// Every entity declares a Patch struct whose fields are Field values. A field
// is either absent (left untouched), null (column cleared) or set. The
// entity's Assignments method lists its columns in a fixed order and Build
// turns that list into one parameterized statement with the row id bound last.
package patch

import (
	"bytes"
	"encoding/json"
	"strings"
)

type state uint8

const (
	absent state = iota
	present
	null
)

// Field is an optional column value. The zero value is absent.
type Field[T any] struct {
	value T
	state state
}

func Set[T any](v T) Field[T] {
	return Field[T]{value: v, state: present}
}

func Null[T any]() Field[T] {
	return Field[T]{state: null}
}

// IsSet reports whether the field takes part in the update, null included.
func (f Field[T]) IsSet() bool {
	return f.state != absent
}

func (f Field[T]) IsNull() bool {
	return f.state == null
}

// Get returns the value and true only for a non-null set field.
func (f Field[T]) Get() (T, bool) {
	if f.state != present {
		var zero T
		return zero, false
	}
	return f.value, true
}

func (f Field[T]) OrElse(fallback T) T {
	if v, ok := f.Get(); ok {
		return v
	}
	return fallback
}

// UnmarshalJSON is only invoked for keys present in the document, so a
// missing key keeps the field absent while an explicit null clears it.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = Null[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Set(v)
	return nil
}

// Assignment is one "column = ?" pair of a SET clause.
type Assignment struct {
	Column string
	Value  any
}

// Append adds column to the list when the field is set, binding nil for null.
func Append[T any](list []Assignment, column string, f Field[T]) []Assignment {
	return AppendWith(list, column, f, func(v T) any { return v })
}

// AppendWith is Append with a conversion to the stored representation.
func AppendWith[T any](list []Assignment, column string, f Field[T], conv func(T) any) []Assignment {
	switch f.state {
	case absent:
		return list
	case null:
		return append(list, Assignment{Column: column})
	}
	return append(list, Assignment{Column: column, Value: conv(f.value)})
}

// Build renders UPDATE table SET ... WHERE id = ?. It returns false when
// there is nothing to update; extra assignments (modified_at) are only added
// when at least one real column changes.
func Build(table string, assignments []Assignment, id int, extra ...Assignment) (string, []any, bool) {
	if len(assignments) == 0 {
		return "", nil, false
	}
	all := append(append(make([]Assignment, 0, len(assignments)+len(extra)), assignments...), extra...)

	sets := make([]string, 0, len(all))
	args := make([]any, 0, len(all)+1)
	for _, a := range all {
		sets = append(sets, a.Column+" = ?")
		args = append(args, a.Value)
	}
	args = append(args, id)

	return "UPDATE " + table + " SET " + strings.Join(sets, ", ") + " WHERE id = ?", args, true
}

// Columns lists the column names of assignments, in order.
func Columns(assignments []Assignment) []string {
	columns := make([]string, 0, len(assignments))
	for _, a := range assignments {
		columns = append(columns, a.Column)
	}
	return columns
}
