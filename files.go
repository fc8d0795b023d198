package request

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// UploadError describes why an uploaded file is not available. The
// numeric values follow the conventional upload error codes.
type UploadError int

const (
	UploadErrOK        UploadError = 0
	UploadErrIniSize   UploadError = 1
	UploadErrFormSize  UploadError = 2
	UploadErrPartial   UploadError = 3
	UploadErrNoFile    UploadError = 4
	UploadErrNoTmpDir  UploadError = 6
	UploadErrCantWrite UploadError = 7
	UploadErrExtension UploadError = 8
)

func (e UploadError) String() string {
	switch e {
	case UploadErrOK:
		return "ok"
	case UploadErrIniSize:
		return "file exceeds the maximum file size"
	case UploadErrFormSize:
		return "file exceeds the maximum form size"
	case UploadErrPartial:
		return "file was only partially uploaded"
	case UploadErrNoFile:
		return "no file was uploaded"
	case UploadErrNoTmpDir:
		return "missing temporary directory"
	case UploadErrCantWrite:
		return "failed to write file to disk"
	case UploadErrExtension:
		return "upload stopped by extension"
	default:
		return "unknown upload error " + strconv.Itoa(int(e))
	}
}

// FileMetadata describes one uploaded file.
type FileMetadata struct {
	Name     string      // file name as sent by the client
	TempPath string      // where the content was spooled, empty on error
	Size     int64       // bytes written to TempPath
	Type     string      // MIME type as sent by the client
	Error    UploadError // UploadErrOK if the file is available
}

// Open opens the spooled file for reading.
func (fm FileMetadata) Open() (*os.File, error) {
	if fm.Error != UploadErrOK || len(fm.TempPath) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoUpload, fm.Error)
	}

	return os.Open(fm.TempPath)
}

// Files maps field names to uploaded files. Fields submitted as `name[]`
// are stored as `name[0]`, `name[1]`, ... in submission order.
type Files map[string]FileMetadata

func (f Files) add(field string, meta FileMetadata) {
	base, isList := strings.CutSuffix(field, "[]")
	if !isList {
		f[field] = meta

		return
	}

	for i := 0; ; i++ {
		key := base + "[" + strconv.Itoa(i) + "]"
		if _, taken := f[key]; !taken {
			f[key] = meta

			return
		}
	}
}
