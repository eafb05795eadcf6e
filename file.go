package radio

import (
	"context"
	"io"
	"path"
	"strings"
)

// File errors
const (
	ErrFilenameRequired = Error("filename required")
	ErrInvalidFilename  = Error("invalid filename")
	ErrFileNotFound     = Error("file not found")
)

// File represents a stored audio file.
type File struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// FileService represents a service for listing and retrieving audio files.
type FileService interface {
	// ListFiles returns the names of all playable files.
	ListFiles(ctx context.Context) ([]string, error)

	// FindFileByName returns a file and a reader to its contents.
	// Returns ErrFileNotFound if the file does not exist.
	FindFileByName(ctx context.Context, name string) (*File, io.ReadCloser, error)
}

// DefaultExtensions are the playable file extensions used when none are configured.
var DefaultExtensions = []string{".mp3"}

// IsValidFilename returns true if name refers to a single file inside the
// storage location. Names with separators or a leading dot are rejected.
func IsValidFilename(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") {
		return false
	}
	return !strings.ContainsAny(name, `/\`+"\x00")
}

// HasExtension returns true if name ends in one of exts, ignoring case.
func HasExtension(name string, exts []string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// ContentType returns the audio MIME type for a file name.
func ContentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".mp3":
		return "audio/mpeg"
	case ".m4a", ".mp4":
		return "audio/mp4"
	case ".aac":
		return "audio/aac"
	case ".ogg":
		return "audio/ogg"
	case ".flac":
		return "audio/flac"
	case ".wav":
		return "audio/wav"
	default:
		return "application/octet-stream"
	}
}
