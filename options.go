package request

import (
	"os"

	"github.com/inhies/go-bytesize"
	"github.com/rs/zerolog"
)

// DefaultMaxDepth bounds both the bracket nesting accepted in field
// names and the recursion of Normalize.
const DefaultMaxDepth = 64

const (
	defaultMaxBodySize = 8 * bytesize.MB
	defaultMaxFileSize = 2 * bytesize.MB
)

type options struct {
	maxBodySize bytesize.ByteSize
	maxFileSize bytesize.ByteSize
	maxDepth    int
	tempDir     string
	logger      *zerolog.Logger
}

// Option configures how a Context reads its request.
type Option func(*options)

func newOptions(opts ...Option) options {
	o := options{
		maxBodySize: defaultMaxBodySize,
		maxFileSize: defaultMaxFileSize,
		maxDepth:    DefaultMaxDepth,
		tempDir:     os.TempDir(),
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithMaxBodySize limits how much of the request body is read. Larger
// bodies are discarded as a whole.
func WithMaxBodySize(size bytesize.ByteSize) Option {
	return func(o *options) {
		if size > 0 {
			o.maxBodySize = size
		}
	}
}

// WithMaxFileSize limits the size of a single uploaded file.
func WithMaxFileSize(size bytesize.ByteSize) Option {
	return func(o *options) {
		if size > 0 {
			o.maxFileSize = size
		}
	}
}

// WithMaxDepth bounds field name nesting and normalization depth.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

// WithTempDir sets the directory uploaded files are spooled to.
func WithTempDir(dir string) Option {
	return func(o *options) {
		if len(dir) != 0 {
			o.tempDir = dir
		}
	}
}

// WithLogger sets the logger. Without it the logger attached to the
// request's context is used, if any.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}
