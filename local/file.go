package local

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/middlemost/radio"
	"github.com/samber/lo"
)

// Ensure service implements interface.
var _ radio.FileService = &FileService{}

// FileService represents a service for serving audio files from a local directory.
type FileService struct {
	Path       string
	Extensions []string
}

// NewFileService returns a new instance of FileService.
func NewFileService() *FileService {
	return &FileService{
		Extensions: radio.DefaultExtensions,
	}
}

// ListFiles returns the names of playable files in the directory, sorted by
// name. A missing directory has no files.
func (s *FileService) ListFiles(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.Path)
	if os.IsNotExist(err) {
		return []string{}, nil
	} else if err != nil {
		return nil, err
	}

	names := lo.FilterMap(entries, func(e os.DirEntry, _ int) (string, bool) {
		return e.Name(), !e.IsDir() && s.IsPlayable(e.Name())
	})
	sort.Strings(names)
	return names, nil
}

// IsPlayable returns true if name is a valid file name with a playable extension.
func (s *FileService) IsPlayable(name string) bool {
	return radio.IsValidFilename(name) && radio.HasExtension(name, s.Extensions)
}

// FindFileByName returns a file and a reader to its contents.
// The reader must be closed by the caller.
func (s *FileService) FindFileByName(ctx context.Context, name string) (*radio.File, io.ReadCloser, error) {
	if name == "" {
		return nil, nil, radio.ErrFilenameRequired
	} else if !s.IsPlayable(name) {
		return nil, nil, radio.ErrInvalidFilename
	}

	// Open local file.
	path := filepath.Join(s.Path, name)
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil, radio.ErrFileNotFound
	} else if err != nil {
		return nil, nil, err
	}

	// Stat file.
	fi, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, err
	} else if !fi.Mode().IsRegular() {
		file.Close()
		return nil, nil, radio.ErrFileNotFound
	}

	return &radio.File{Name: name, Size: fi.Size()}, file, nil
}
