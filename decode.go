package request

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

type keySegment struct {
	name string
	push bool // `[]`, append under the next free index
}

type keyPath struct {
	base     string
	segments []keySegment
}

// parseKey splits a submitted field name like `user[address][]` into its
// base name and bracket segments.
//
// Spaces and dots in the base name become underscores. An unterminated
// first bracket is not an index and is kept in the name (with the bracket
// itself replaced by an underscore). Anything following the last closing
// bracket that does not open a new bracket is dropped.
func parseKey(name string) (keyPath, bool) {
	name = strings.TrimLeft(name, " ")

	base, rest := name, ""
	if open := strings.IndexByte(name, '['); open >= 0 {
		base, rest = name[:open], name[open:]
	}

	base = strings.Map(func(r rune) rune {
		if r == ' ' || r == '.' {
			return '_'
		}

		return r
	}, base)

	if base == "" {
		return keyPath{}, false
	}

	path := keyPath{base: base}

	for first := true; rest != ""; first = false {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			if first {
				path.base += "_" + rest[1:]
			}

			break
		}

		segment := rest[1:end]
		path.segments = append(path.segments, keySegment{name: segment, push: segment == ""})

		rest = rest[end+1:]
		if !strings.HasPrefix(rest, "[") {
			break
		}
	}

	return path, true
}

// Add stores value under the submitted field name, creating nested forms
// for bracketed segments. Names nested deeper than DefaultMaxDepth are
// rejected with ErrNestingTooDeep and leave the form untouched.
func (f *Form) Add(name, value string) error {
	return f.add(name, value, DefaultMaxDepth)
}

func (f *Form) add(name, value string, maxDepth int) error {
	path, ok := parseKey(name)
	if !ok {
		return nil
	}

	if len(path.segments) > maxDepth {
		return fmt.Errorf("%w: %q", ErrNestingTooDeep, name)
	}

	cur, key := f, path.base

	for _, seg := range path.segments {
		child := cur.Get(key).Form()
		if child == nil {
			child = NewForm()
			cur.Set(key, Nested(child))
		}

		cur = child

		if seg.push {
			key = cur.nextIndex()
		} else {
			key = seg.name
		}
	}

	cur.Set(key, Scalar(value))

	return nil
}

// DecodeQuery decodes an application/x-www-form-urlencoded string into a
// Form, keeping pairs in submission order and honouring bracketed field
// names. Pairs that cannot be stored are skipped; the returned error joins
// the reasons and the form holds every other pair.
func DecodeQuery(raw string) (*Form, error) {
	form := NewForm()
	err := decodePairs(raw, DefaultMaxDepth, form)

	return form, err
}

// ParseQuery is DecodeQuery for callers that only want the decoded pairs.
// Skipped pairs are not reported.
func ParseQuery(raw string) *Form {
	form, _ := DecodeQuery(raw)

	return form
}

// decodePairs adds every pair of raw to form and reports the pairs that
// had to be skipped.
func decodePairs(raw string, maxDepth int, form *Form) error {
	var errs []error

	for raw != "" {
		var pair string

		pair, raw, _ = strings.Cut(raw, "&")
		if pair == "" {
			continue
		}

		name, value, _ := strings.Cut(pair, "=")
		if err := form.add(unescape(name), unescape(value), maxDepth); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// unescape decodes a query component. Invalid escape sequences are kept
// literally.
func unescape(s string) string {
	decoded, err := url.QueryUnescape(s)
	if err != nil {
		return strings.ReplaceAll(s, "+", " ")
	}

	return decoded
}
