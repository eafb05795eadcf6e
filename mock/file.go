package mock

import (
	"context"
	"io"

	"github.com/middlemost/radio"
)

var _ radio.FileService = &FileService{}

type FileService struct {
	ListFilesFn      func(ctx context.Context) ([]string, error)
	FindFileByNameFn func(ctx context.Context, name string) (*radio.File, io.ReadCloser, error)
}

func (s *FileService) ListFiles(ctx context.Context) ([]string, error) {
	return s.ListFilesFn(ctx)
}

func (s *FileService) FindFileByName(ctx context.Context, name string) (*radio.File, io.ReadCloser, error) {
	return s.FindFileByNameFn(ctx, name)
}
