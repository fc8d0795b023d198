package request

import (
	"maps"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

var bearerPattern = regexp.MustCompile(`Bearer\s(\S+)`)

// Headers returns all request headers keyed by their canonical name.
// Repeated headers are joined with ", ".
func (c *Context) Headers() map[string]string {
	headers := make(map[string]string, len(c.header))
	for name, values := range c.header {
		headers[name] = strings.Join(values, ", ")
	}

	return headers
}

// Header returns a single header, looked up case-insensitively.
func (c *Context) Header(name string) string {
	return strings.Join(c.header.Values(name), ", ")
}

// IsJSON reports whether the Content-Type header mentions
// application/json. Parameters such as charset are ignored.
func (c *Context) IsJSON() bool {
	return strings.Contains(strings.ToLower(c.header.Get(HeaderContentType)), ContentTypeApplicationJSON)
}

// JSON returns the JSON object sent in the body of a POST, PUT, PATCH or
// DELETE request with a JSON content type. Anything else yields an empty
// map. That includes valid JSON whose top level is not an object, such as
// an array or a number; read those through Body.
func (c *Context) JSON() map[string]any {
	if !c.IsJSON() || !methodIn(c.method, jsonMethods) {
		return map[string]any{}
	}

	c.jsonOnce.Do(func() {
		c.jsonBody = map[string]any{}

		body := c.Body()
		if !gjson.ValidBytes(body) {
			c.logger.Debug().Err(ErrInvalidJSON).Msg("Ignoring request body")

			return
		}

		object, ok := gjson.ParseBytes(body).Value().(map[string]any)
		if !ok {
			c.logger.Debug().Err(ErrInvalidJSON).Msg("Ignoring request body")

			return
		}

		c.jsonBody = object
	})

	return maps.Clone(c.jsonBody)
}

// BearerToken extracts the token from an `Authorization: Bearer <token>`
// header. A header in any other shape is returned as is. The second
// return value is false if there is no Authorization header.
func (c *Context) BearerToken() (string, bool) {
	values := c.header.Values(HeaderAuthorization)
	if len(values) == 0 {
		return "", false
	}

	if match := bearerPattern.FindStringSubmatch(values[0]); match != nil {
		return match[1], true
	}

	return values[0], true
}

// Parameters returns the query parameters of a GET, PUT, PATCH or DELETE
// request. Requests with a JSON content type carry their parameters in
// the body, so they get an empty form here.
func (c *Context) Parameters() *Form {
	if !methodIn(c.method, parameterMethods) || c.IsJSON() {
		return NewForm()
	}

	c.queryOnce.Do(func() {
		c.query = NewForm()
		if err := decodePairs(c.rawQuery, c.opts.maxDepth, c.query); err != nil {
			c.logger.Debug().Err(err).Msg("Skipped malformed query parameters")
		}
	})

	return c.query
}

// Parameter returns the query parameter key, or def if Parameters does
// not hold it.
func (c *Context) Parameter(key string, def Value) Value {
	if v, ok := c.Parameters().Lookup(key); ok {
		return v
	}

	return def
}

// StringParameter is Parameter for scalar values. Nested values yield def.
func (c *Context) StringParameter(key, def string) string {
	if v := c.Parameter(key, Value{}); v.IsScalar() {
		return v.String()
	}

	return def
}

// Form returns the normalized form fields of a POST, PUT or PATCH
// request. Other methods get an empty form.
func (c *Context) Form() *Form {
	if !methodIn(c.method, formMethods) {
		return NewForm()
	}

	c.formOnce.Do(c.decodeBody)

	c.normalizedOnce.Do(func() {
		var truncated bool

		c.normalized, truncated = normalize(c.form, c.opts.maxDepth)
		if truncated {
			c.logger.Debug().Int("_max_depth", c.opts.maxDepth).
				Msg("Form nesting exceeds the maximum depth, deeper levels are kept as submitted")
		}
	})

	return c.normalized
}

// FormData returns the form field key, or def if Form does not hold it.
func (c *Context) FormData(key string, def Value) Value {
	if v, ok := c.Form().Lookup(key); ok {
		return v
	}

	return def
}

// StringFormValue is FormData for scalar values. Nested values yield def.
func (c *Context) StringFormValue(key, def string) string {
	if v := c.FormData(key, Value{}); v.IsScalar() {
		return v.String()
	}

	return def
}

// Files returns the uploaded files. Only multipart POST, PUT and PATCH
// requests carry files.
func (c *Context) Files() Files {
	c.formOnce.Do(c.decodeBody)

	return maps.Clone(c.files)
}

// File returns the upload sent under field.
func (c *Context) File(field string) (FileMetadata, bool) {
	c.formOnce.Do(c.decodeBody)

	meta, ok := c.files[field]

	return meta, ok
}
