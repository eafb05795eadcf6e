package mock

import (
	"context"

	"github.com/middlemost/radio"
)

var _ radio.MetadataExtractor = &MetadataExtractor{}

type MetadataExtractor struct {
	ExtractFn func(ctx context.Context, data []byte) (*radio.Metadata, error)
}

func (e *MetadataExtractor) Extract(ctx context.Context, data []byte) (*radio.Metadata, error) {
	return e.ExtractFn(ctx, data)
}
