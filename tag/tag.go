package tag

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dhowden/tag"
	"github.com/middlemost/radio"
	"github.com/tcolgate/mp3"
)

// Ensure extractor implements interface.
var _ radio.MetadataExtractor = &Extractor{}

// ErrNoMetadata is returned when neither tags nor a duration could be read.
const ErrNoMetadata = radio.Error("no metadata found")

// Extractor reads tags and duration from audio content.
//
// Tags are read with github.com/dhowden/tag, which understands ID3v1/v2,
// MP4, FLAC and Ogg. The duration is computed by summing MPEG audio frames,
// so it is only available for MP3 content.
type Extractor struct{}

// NewExtractor returns a new instance of Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the metadata found in data. Missing tags or an unknown
// duration are not errors as long as one of them is present.
func (e *Extractor) Extract(ctx context.Context, data []byte) (*radio.Metadata, error) {
	var m radio.Metadata

	t, tagErr := tag.ReadFrom(bytes.NewReader(data))
	if tagErr == nil {
		m.Title = t.Title()
		m.Artist = t.Artist()
		if pic := t.Picture(); pic != nil && len(pic.Data) > 0 {
			m.Pictures = append(m.Pictures, radio.Picture{Format: pic.MIMEType, Data: pic.Data})
		}
	}

	d, durErr := Duration(ctx, bytes.NewReader(data))
	if durErr == nil {
		m.Duration = d
	}

	if tagErr != nil && d == 0 {
		if errors.Is(tagErr, tag.ErrNoTagsFound) {
			return nil, ErrNoMetadata
		}
		return nil, fmt.Errorf("read tags: %w", tagErr)
	}
	return &m, nil
}

// Duration returns the playing time of MPEG audio by summing the duration of
// every frame in r. Non-audio data between frames is skipped.
func Duration(ctx context.Context, r io.Reader) (time.Duration, error) {
	d := mp3.NewDecoder(r)

	var frame mp3.Frame
	var skipped int
	var total time.Duration
	for i := 0; ; i++ {
		// Check for cancellation periodically on long files.
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}

		if err := d.Decode(&frame, &skipped); err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		} else if err != nil {
			return 0, fmt.Errorf("decode frame: %w", err)
		}
		total += frame.Duration()
	}
	return total, nil
}
