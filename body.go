package request

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

func (c *Context) mediaTypeIs(mediaType string) bool {
	return strings.EqualFold(c.mediaType.Type+"/"+c.mediaType.Subtype, mediaType)
}

// decodeBody fills the form and file registry from the body. Only
// urlencoded and multipart bodies of POST, PUT and PATCH requests carry
// form fields.
func (c *Context) decodeBody() {
	c.form, c.files = NewForm(), Files{}

	if !methodIn(c.method, formMethods) {
		return
	}

	var err error

	switch {
	case c.mediaTypeIs(ContentTypeFormURLEncoded):
		err = decodePairs(string(c.Body()), c.opts.maxDepth, c.form)
	case c.mediaTypeIs(ContentTypeMultipartFormData):
		err = c.decodeMultipart()
	default:
		return
	}

	if err != nil {
		c.logger.Debug().Err(err).Msg("Skipped malformed form data")
	}
}

func (c *Context) decodeMultipart() error {
	// parameter values are case sensitive, read them off the raw header
	_, params, _ := mime.ParseMediaType(c.header.Get(HeaderContentType))

	boundary := params["boundary"]
	if len(boundary) == 0 {
		return fmt.Errorf("%w: missing boundary", ErrMalformedMultipart)
	}

	reader := multipart.NewReader(bytes.NewReader(c.Body()), boundary)

	var errs []error

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %w", ErrMalformedMultipart, err))

			break
		}

		if err = c.decodePart(part); err != nil {
			errs = append(errs, err)
		}

		part.Close()
	}

	return errors.Join(errs...)
}

func (c *Context) decodePart(part *multipart.Part) error {
	name := part.FormName()
	if len(name) == 0 {
		return nil
	}

	_, params, _ := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
	if _, isFile := params["filename"]; isFile {
		c.files.add(name, c.spool(part, part.FileName(), part.Header.Get(HeaderContentType)))

		return nil
	}

	value, err := io.ReadAll(part)
	if err != nil {
		return fmt.Errorf("%w: reading field %q: %w", ErrMalformedMultipart, name, err)
	}

	return c.form.add(name, string(value), c.opts.maxDepth)
}

// spool writes one uploaded file to the temp dir. Failures are reported
// through FileMetadata.Error.
func (c *Context) spool(content io.Reader, fileName, mimeType string) FileMetadata {
	meta := FileMetadata{Name: fileName, Type: mimeType}

	if len(fileName) == 0 {
		meta.Error = UploadErrNoFile

		return meta
	}

	path := filepath.Join(c.opts.tempDir, "upload-"+uuid.NewString())

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		meta.Error = UploadErrCantWrite
		if errors.Is(err, fs.ErrNotExist) {
			meta.Error = UploadErrNoTmpDir
		}

		c.logger.Debug().Err(err).Str("_file", fileName).Msg("Failed to create temporary file for upload")

		return meta
	}

	limit := int64(c.opts.maxFileSize)

	size, err := io.Copy(file, io.LimitReader(content, limit+1))
	if cerr := file.Close(); err == nil {
		err = cerr
	}

	switch {
	case err != nil:
		meta.Error = UploadErrPartial
	case size > limit:
		meta.Error = UploadErrIniSize
	}

	if meta.Error != UploadErrOK {
		c.logger.Debug().Err(err).Str("_file", fileName).Stringer("_reason", meta.Error).
			Msg("Rejected uploaded file")

		if rerr := os.Remove(path); rerr != nil {
			c.logger.Warn().Err(rerr).Str("_path", path).Msg("Failed to remove rejected upload")
		}

		return meta
	}

	c.trackTempFile(path)

	meta.TempPath, meta.Size = path, size

	return meta
}
