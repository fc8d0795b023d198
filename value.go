package request

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type valueKind uint8

const (
	kindNone valueKind = iota
	kindString
	kindForm
)

// Value is a single request value: either a scalar string or a nested
// Form. The zero Value represents an absent value and is what accessors
// use as "no default".
type Value struct {
	kind valueKind
	str  string
	form *Form
}

// Scalar wraps a string.
func Scalar(s string) Value {
	return Value{kind: kindString, str: s}
}

// Nested wraps a Form.
func Nested(f *Form) Value {
	if f == nil {
		f = NewForm()
	}

	return Value{kind: kindForm, form: f}
}

// List builds a sequential Form out of the given strings.
func List(values ...string) Value {
	f := NewForm()
	for i, v := range values {
		f.Set(strconv.Itoa(i), Scalar(v))
	}

	return Nested(f)
}

// IsZero reports whether the value is absent.
func (v Value) IsZero() bool { return v.kind == kindNone }

// IsScalar reports whether the value holds a string.
func (v Value) IsScalar() bool { return v.kind == kindString }

// IsSequential reports whether the value is a Form encoding a list.
func (v Value) IsSequential() bool {
	return v.kind == kindForm && v.form.IsSequential()
}

// String returns the scalar value, or an empty string for absent and
// nested values.
func (v Value) String() string { return v.str }

// Form returns the nested form, or nil for scalar and absent values.
func (v Value) Form() *Form { return v.form }

// Strings returns the value as a list of strings. A scalar yields a one
// element list, a sequential form of scalars yields its elements in
// order. Anything else yields nil.
func (v Value) Strings() []string {
	switch v.kind {
	case kindString:
		return []string{v.str}
	case kindForm:
		if !v.form.IsSequential() {
			return nil
		}

		out := make([]string, 0, v.form.Len())

		for _, key := range v.form.keys {
			elem := v.form.values[key]
			if elem.kind != kindString {
				return nil
			}

			out = append(out, elem.str)
		}

		return out
	default:
		return nil
	}
}

// Convert value into plain Go data
//
// Currently supports:
//   - scalar: string
//   - sequential form: []any in key order
//   - other form: map[string]any
//   - absent: nil
func (v Value) Interface() any {
	switch v.kind {
	case kindString:
		return v.str
	case kindForm:
		if v.form.IsSequential() {
			out := make([]any, 0, v.form.Len())
			for _, key := range v.form.keys {
				out = append(out, v.form.values[key].Interface())
			}

			return out
		}

		return v.form.Interface()
	default:
		return nil
	}
}

func (v Value) scalar() (string, error) {
	if v.kind != kindString {
		return "", ErrNotScalar
	}

	return v.str, nil
}

// Int parses the scalar value as a base 10 integer.
func (v Value) Int() (int64, error) {
	s, err := v.scalar()
	if err != nil {
		return 0, err
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("error converting value to int: %w", err)
	}

	return n, nil
}

// Float parses the scalar value as a float64.
func (v Value) Float() (float64, error) {
	s, err := v.scalar()
	if err != nil {
		return 0, err
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("error converting value to float: %w", err)
	}

	return f, nil
}

// Bool parses the scalar value as a boolean.
//
// Many common boolean representations are supported:
//   - "true", "1", "yes", "on" (case insensitive)
//   - "false", "0", "no", "off" (case insensitive)
//   - Standard boolean parsing using strconv.ParseBool
func (v Value) Bool() (bool, error) {
	s, err := v.scalar()
	if err != nil {
		return false, err
	}

	switch s {
	case "true", "1", "yes", "on", "True", "TRUE", "YES", "ON":
		return true, nil
	case "false", "0", "no", "off", "False", "FALSE", "NO", "OFF":
		return false, nil
	}

	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("error converting value to bool: %w", err)
	}

	return b, nil
}

// UUID parses the scalar value as a UUID.
func (v Value) UUID() (uuid.UUID, error) {
	s, err := v.scalar()
	if err != nil {
		return uuid.Nil, err
	}

	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("error converting value to UUID: %w", err)
	}

	return id, nil
}

var timeLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"15:04:05",
}

// Parse scalar value as time.Time
//
// Layouts are tried in order:
//   - RFC 3339 (with and without nanoseconds)
//   - "2006-01-02T15:04:05"
//   - "2006-01-02 15:04:05"
//   - "2006-01-02"
//   - "15:04:05"
func (v Value) Time() (time.Time, error) {
	s, err := v.scalar()
	if err != nil {
		return time.Time{}, err
	}

	for _, layout := range timeLayouts {
		t, perr := time.Parse(layout, s)
		if perr == nil {
			return t, nil
		}

		err = perr
	}

	return time.Time{}, fmt.Errorf("error converting value to time.Time: %w", err)
}
