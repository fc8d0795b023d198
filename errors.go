package request

import (
	"errors"
)

// None of these reach the callers of the accessors, which fall back to
// defaults instead. They are logged and returned by the lower level
// helpers (Form.Add, Value conversions, FileMetadata.Open, Close).
var (
	ErrBodyTooLarge       = errors.New("request body exceeds the configured limit")
	ErrMalformedMultipart = errors.New("malformed multipart body")
	ErrInvalidJSON        = errors.New("request body is not a JSON object")
	ErrNestingTooDeep     = errors.New("field name nesting exceeds the configured depth")
	ErrNotScalar          = errors.New("value is not a scalar")
	ErrNoUpload           = errors.New("no file was uploaded")
)
