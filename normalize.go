package request

// Normalize returns a copy of form in which every associative nested form
// is itself normalized while scalars and sequential forms (keys exactly
// "0".."n-1" in order, the empty form included) are copied untouched.
//
// Recursion stops after DefaultMaxDepth levels; deeper forms are copied
// as they are.
func Normalize(form *Form) *Form {
	out, _ := normalize(form, DefaultMaxDepth)

	return out
}

// normalize reports whether the depth bound cut the traversal short.
func normalize(form *Form, depth int) (*Form, bool) {
	result := NewForm()
	truncated := false

	for _, key := range form.Keys() {
		v := form.values[key]

		if nested := v.Form(); nested != nil && !nested.IsSequential() {
			if depth > 0 {
				var cut bool

				nested, cut = normalize(nested, depth-1)
				truncated = truncated || cut
				v = Nested(nested)
			} else {
				truncated = true
			}
		}

		result.Set(key, v)
	}

	return result, truncated
}
