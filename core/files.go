package core

import (
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const timestampLayout = "20060102150405"

// Download is a binary payload as served by the backend.
type Download struct {
	Data        []byte
	ContentType string // as declared by the server
	Filename    string // from Content-Disposition, if any
}

// preferred extensions; mime.ExtensionsByType is unordered for some types
var knownExtensions = map[string]string{
	"application/pdf": "pdf",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": "xlsx",
	"text/csv":   "csv",
	"text/plain": "txt",
}

// TimestampedFilename returns "<base>_<YYYYMMDDHHMMSS>.<ext>" using the local wall clock of now.
func TimestampedFilename(base, ext string, now time.Time) string {
	return base + "_" + now.Local().Format(timestampLayout) + "." + strings.TrimPrefix(ext, ".")
}

// Extension guesses a file extension (without the dot) from a content type.
func Extension(contentType, fallback string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return fallback
	}
	if ext, ok := knownExtensions[mediaType]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(mediaType); err == nil && len(exts) > 0 {
		return strings.TrimPrefix(exts[0], ".")
	}
	return fallback
}

// SaveDownload writes dl's exact bytes to dir under a timestamped name and returns the file path.
// The extension follows the server declared content type, "pdf" if unknown.
func SaveDownload(dir, base string, dl Download, now time.Time) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "creating downloads dir")
	}
	path := filepath.Join(dir, TimestampedFilename(base, Extension(dl.ContentType, "pdf"), now))
	if err := os.WriteFile(path, dl.Data, 0o644); err != nil {
		return "", errors.Wrap(err, "writing download")
	}
	return path, nil
}
