package request

import (
	"errors"
	"io"
	"io/fs"
	"maps"
	"net/http"
	"os"
	"sync"

	"github.com/elnormous/contenttype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Source carries request data a host has already parsed itself. It is
// the entry point for hosts that do not hand over an *http.Request.
type Source struct {
	Method string
	Header http.Header
	Query  *Form
	Form   *Form
	Files  Files
	Body   io.Reader
}

// Context is an immutable snapshot of one inbound request. It is built
// once per request and passed to whoever needs request data. All methods
// are safe for concurrent use.
//
// The body is read at most once. Query, form and JSON decoding happen on
// first use and are cached.
type Context struct {
	id        uuid.UUID
	method    string
	header    http.Header
	mediaType contenttype.MediaType
	rawQuery  string
	opts      options
	logger    zerolog.Logger

	body     io.Reader
	bodyOnce sync.Once
	bodyData []byte

	queryOnce sync.Once
	query     *Form

	formOnce sync.Once
	form     *Form
	files    Files

	normalizedOnce sync.Once
	normalized     *Form

	jsonOnce sync.Once
	jsonBody map[string]any

	mu        sync.Mutex
	tempFiles []string
}

// FromHTTP snapshots r. The request's body is consumed on first use of an
// accessor that needs it and must not be read by anyone else afterwards.
func FromHTTP(r *http.Request, opts ...Option) *Context {
	c := newContext(r.Method, r.Header, opts)

	if r.URL != nil {
		c.rawQuery = r.URL.RawQuery
	}

	if r.Body != nil && r.Body != http.NoBody {
		c.body = r.Body
	}

	if c.opts.logger == nil {
		c.logger = zerolog.Ctx(r.Context()).With().Str("_request_id", c.id.String()).Logger()
	}

	mediaType, err := contenttype.GetMediaType(r)
	if err != nil {
		c.logger.Debug().Err(err).Msg("Failed to parse content type")
	}

	c.mediaType = mediaType

	return c
}

// New builds a Context out of data the host parsed itself. Nil parts are
// treated as empty.
func New(src Source, opts ...Option) *Context {
	c := newContext(src.Method, src.Header, opts)
	c.body = src.Body

	c.queryOnce.Do(func() {
		c.query = src.Query
		if c.query == nil {
			c.query = NewForm()
		}
	})

	c.formOnce.Do(func() {
		c.form, c.files = src.Form, maps.Clone(src.Files)
		if c.form == nil {
			c.form = NewForm()
		}

		if c.files == nil {
			c.files = Files{}
		}
	})

	return c
}

func newContext(method string, header http.Header, opts []Option) *Context {
	if len(method) == 0 {
		method = http.MethodGet
	}

	// copy with canonical keys, hosts filling Source may not canonicalize
	canonical := make(http.Header, len(header))
	for name, values := range header {
		for _, value := range values {
			canonical.Add(name, value)
		}
	}

	c := &Context{
		id:     requestID(canonical),
		method: method,
		header: canonical,
		opts:   newOptions(opts...),
		logger: zerolog.Nop(),
	}

	if c.opts.logger != nil {
		c.logger = c.opts.logger.With().Str("_request_id", c.id.String()).Logger()
	}

	return c
}

// requestID reuses a UUID sent by the client or an upstream proxy.
func requestID(header http.Header) uuid.UUID {
	if id, err := uuid.Parse(header.Get(HeaderRequestID)); err == nil {
		return id
	}

	return uuid.New()
}

// ID identifies the request in log lines.
func (c *Context) ID() uuid.UUID { return c.id }

// Method returns the request method, GET if the host did not set one.
func (c *Context) Method() string { return c.method }

// Body returns the raw request body. It is read once; later calls return
// the cached bytes. Bodies above the configured limit are discarded and
// yield nil.
func (c *Context) Body() []byte {
	c.bodyOnce.Do(func() {
		if c.body == nil {
			return
		}

		limit := int64(c.opts.maxBodySize)

		data, err := io.ReadAll(io.LimitReader(c.body, limit+1))
		if err != nil {
			c.logger.Debug().Err(err).Msg("Failed to read request body")

			return
		}

		if int64(len(data)) > limit {
			c.logger.Debug().Err(ErrBodyTooLarge).Str("_limit", c.opts.maxBodySize.String()).
				Msg("Discarding request body")

			return
		}

		c.bodyData = data
	})

	return c.bodyData
}

// Close removes the temporary files uploads were spooled to. Files
// opened through FileMetadata.Open should be closed before.
func (c *Context) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error

	for _, path := range c.tempFiles {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}

	c.tempFiles = nil

	return errors.Join(errs...)
}

func (c *Context) trackTempFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tempFiles = append(c.tempFiles, path)
}
