package request

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/inhies/go-bytesize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testField struct {
	name, value string
}

type testFile struct {
	field, name, content string
}

func createMultipartRequest(t *testing.T, method string, fields []testField, files []testFile) *http.Request {
	t.Helper()

	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	for _, f := range fields {
		require.NoError(t, writer.WriteField(f.name, f.value))
	}

	for _, f := range files {
		part, err := writer.CreateFormFile(f.field, f.name)
		require.NoError(t, err)

		_, err = io.WriteString(part, f.content)
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())

	req := httptest.NewRequest(method, "http://example.com/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return req
}

func readFile(t *testing.T, meta FileMetadata) string {
	t.Helper()

	file, err := meta.Open()
	require.NoError(t, err)

	defer file.Close()

	data, err := io.ReadAll(file)
	require.NoError(t, err)

	return string(data)
}

func TestContext_Multipart(t *testing.T) {
	dir := t.TempDir()

	req := createMultipartRequest(t, http.MethodPost,
		[]testField{
			{"user[name]", "Jane"},
			{"tags[]", "a"},
			{"tags[]", "b"},
		},
		[]testFile{
			{"avatar", "a.png", "png-bytes"},
			{"docs[]", "one.txt", "first"},
			{"docs[]", "two.txt", "second"},
		})

	rc := FromHTTP(req, WithTempDir(dir))

	assert.Equal(t, "Jane", rc.FormData("user", Value{}).Form().Get("name").String())
	assert.Equal(t, []string{"a", "b"}, rc.FormData("tags", Value{}).Strings())

	files := rc.Files()
	require.Len(t, files, 3)

	avatar := files["avatar"]
	assert.Equal(t, "a.png", avatar.Name)
	assert.Equal(t, "application/octet-stream", avatar.Type)
	assert.Equal(t, int64(len("png-bytes")), avatar.Size)
	assert.Equal(t, UploadErrOK, avatar.Error)
	assert.Equal(t, dir, filepath.Dir(avatar.TempPath))
	assert.Equal(t, "png-bytes", readFile(t, avatar))

	assert.Equal(t, "one.txt", files["docs[0]"].Name)
	assert.Equal(t, "second", readFile(t, files["docs[1]"]))

	meta, ok := rc.File("avatar")
	assert.True(t, ok)
	assert.Equal(t, avatar, meta)

	_, ok = rc.File("missing")
	assert.False(t, ok)

	// WHEN
	require.NoError(t, rc.Close())

	// THEN
	for _, meta := range files {
		_, err := os.Stat(meta.TempPath)
		assert.ErrorIs(t, err, os.ErrNotExist)
	}

	require.NoError(t, rc.Close())
}

func TestContext_Multipart_RejectedUploads(t *testing.T) {
	dir := t.TempDir()

	req := createMultipartRequest(t, http.MethodPut, nil,
		[]testFile{
			{"big", "big.bin", "hello world"},
			{"none", "", ""},
			{"small", "s.bin", "hey"},
		})

	rc := FromHTTP(req, WithTempDir(dir), WithMaxFileSize(bytesize.ByteSize(4)))
	files := rc.Files()

	assert.Equal(t, UploadErrIniSize, files["big"].Error)
	assert.Empty(t, files["big"].TempPath)
	assert.Equal(t, UploadErrNoFile, files["none"].Error)
	assert.Equal(t, UploadErrOK, files["small"].Error)

	_, err := files["big"].Open()
	assert.ErrorIs(t, err, ErrNoUpload)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, rc.Close())
}

func TestContext_Multipart_MissingTempDir(t *testing.T) {
	req := createMultipartRequest(t, http.MethodPost, nil, []testFile{{"f", "f.txt", "x"}})

	rc := FromHTTP(req, WithTempDir(filepath.Join(t.TempDir(), "missing")))

	meta, ok := rc.File("f")
	require.True(t, ok)
	assert.Equal(t, UploadErrNoTmpDir, meta.Error)
}

func TestContext_Multipart_OnlyForFormMethods(t *testing.T) {
	req := createMultipartRequest(t, http.MethodDelete, []testField{{"a", "1"}}, []testFile{{"f", "f.txt", "x"}})

	rc := FromHTTP(req, WithTempDir(t.TempDir()))

	assert.Empty(t, rc.Files())
	assert.Equal(t, 0, rc.Form().Len())
}

func TestContext_Multipart_Malformed(t *testing.T) {
	t.Run("MissingBoundary", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "http://example.com/upload", bytes.NewBufferString("a=1"))
		req.Header.Set("Content-Type", "multipart/form-data")

		rc := FromHTTP(req)

		assert.Equal(t, 0, rc.Form().Len())
		assert.Empty(t, rc.Files())
	})

	t.Run("TruncatedBody_KeepsCompleteParts", func(t *testing.T) {
		req := createMultipartRequest(t, http.MethodPost, []testField{{"a", "1"}, {"b", "2"}}, nil)

		body, err := io.ReadAll(req.Body)
		require.NoError(t, err)

		// cut off the closing boundary
		truncated := body[:len(body)-10]
		req.Body = io.NopCloser(bytes.NewReader(truncated))

		rc := FromHTTP(req)

		assert.Equal(t, "1", rc.StringFormValue("a", ""))
	})
}

func TestUploadError_String(t *testing.T) {
	assert.Equal(t, "ok", UploadErrOK.String())
	assert.Equal(t, "file exceeds the maximum file size", UploadErrIniSize.String())
	assert.Equal(t, "unknown upload error 5", UploadError(5).String())
}

func TestFiles_Add(t *testing.T) {
	files := Files{}

	files.add("a", FileMetadata{Name: "1"})
	files.add("a", FileMetadata{Name: "2"})
	files.add("b[]", FileMetadata{Name: "3"})
	files.add("b[]", FileMetadata{Name: "4"})
	files.add("c[x]", FileMetadata{Name: "5"})

	assert.Equal(t, Files{
		"a":    {Name: "2"},
		"b[0]": {Name: "3"},
		"b[1]": {Name: "4"},
		"c[x]": {Name: "5"},
	}, files)
}
