package request

import (
	"strconv"
)

// Form is an insertion-ordered mapping of field names to values. It is
// the container produced when decoding bracketed field names such as
// `user[address][city]` or `tags[]`.
//
// Forms returned by a Context are shared between calls and must be
// treated as read-only, the same way as http.Header.
type Form struct {
	keys   []string
	values map[string]Value
}

// NewForm returns an empty Form.
func NewForm() *Form {
	return &Form{values: make(map[string]Value)}
}

// Len returns the number of keys in the form. A nil form is empty.
func (f *Form) Len() int {
	if f == nil {
		return 0
	}

	return len(f.keys)
}

// Keys returns the keys in insertion order.
func (f *Form) Keys() []string {
	if f == nil {
		return nil
	}

	keys := make([]string, len(f.keys))
	copy(keys, f.keys)

	return keys
}

// Lookup returns the value stored under key and whether it exists.
func (f *Form) Lookup(key string) (Value, bool) {
	if f == nil {
		return Value{}, false
	}

	v, ok := f.values[key]

	return v, ok
}

// Get returns the value stored under key, or the zero Value.
func (f *Form) Get(key string) Value {
	v, _ := f.Lookup(key)

	return v
}

// Set stores v under key. Overwriting an existing key keeps its
// original position.
func (f *Form) Set(key string, v Value) {
	if _, exists := f.values[key]; !exists {
		f.keys = append(f.keys, key)
	}

	f.values[key] = v
}

// IsSequential reports whether the keys are exactly "0", "1", ... "n-1"
// in that order, i.e. the form encodes a list. An empty form is
// sequential.
func (f *Form) IsSequential() bool {
	for i, key := range f.Keys() {
		if key != strconv.Itoa(i) {
			return false
		}
	}

	return true
}

// Interface converts the form into plain Go data. Nested sequential forms
// become []any, other nested forms map[string]any.
func (f *Form) Interface() map[string]any {
	out := make(map[string]any, f.Len())
	for _, key := range f.Keys() {
		out[key] = f.values[key].Interface()
	}

	return out
}

// nextIndex returns the key `name[]` appends under: one past the largest
// non-negative integer key, or 0.
func (f *Form) nextIndex() string {
	next := 0

	for _, key := range f.keys {
		n, err := strconv.Atoi(key)
		if err != nil || n < 0 || strconv.Itoa(n) != key {
			continue
		}

		if n >= next {
			next = n + 1
		}
	}

	return strconv.Itoa(next)
}
