package radio

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"path"
	"strings"
	"time"
)

// UnknownArtist is displayed when a track has no artist tag.
const UnknownArtist = "Unknown Artist"

// Track represents a playable audio track with display metadata.
// A Track is not modified after it has been built.
type Track struct {
	File     string  `json:"file"`
	URL      string  `json:"url"`
	Title    string  `json:"title"`
	Artist   string  `json:"artist"`
	Duration float64 `json:"duration"`        // seconds, zero when unknown
	Cover    string  `json:"cover,omitempty"` // data URI, empty when absent
}

// Picture represents an image embedded in an audio file.
type Picture struct {
	Format string // MIME type, e.g. "image/jpeg"
	Data   []byte
}

// Metadata represents the tags extracted from an audio file.
// Each field may be missing independently: empty strings, a zero duration
// and an empty picture list all mean "not present".
type Metadata struct {
	Title    string
	Artist   string
	Pictures []Picture
	Duration time.Duration
}

// MetadataExtractor extracts tags from raw audio content.
type MetadataExtractor interface {
	Extract(ctx context.Context, data []byte) (*Metadata, error)
}

// NewTrack builds a track for file from m. The metadata may be nil, in which
// case the title is derived from the file name and the artist is unknown.
// Tag values are used as read; only empty values fall back.
func NewTrack(file, url string, m *Metadata) *Track {
	t := &Track{
		File:   file,
		URL:    url,
		Title:  TitleFromFilename(file),
		Artist: UnknownArtist,
	}
	if m == nil {
		return t
	}

	if m.Title != "" {
		t.Title = m.Title
	}
	if m.Artist != "" {
		t.Artist = m.Artist
	}
	if m.Duration > 0 {
		t.Duration = m.Duration.Seconds()
	}
	for _, pic := range m.Pictures {
		if len(pic.Data) > 0 {
			t.Cover = EncodeCover(pic.Format, pic.Data)
			break
		}
	}
	return t
}

// TitleFromFilename returns file without a trailing lower-case extension.
// Names such as "Song.MP3" are returned unchanged.
func TitleFromFilename(file string) string {
	if ext := path.Ext(file); ext != "" && ext == strings.ToLower(ext) {
		return strings.TrimSuffix(file, ext)
	}
	return file
}

// TrackURL returns the address a track is fetched from: prefix followed by
// the escaped file name.
func TrackURL(prefix, file string) string {
	return prefix + url.PathEscape(file)
}

// FormatTime formats sec in MM:SS format. Zero, negative and non-finite
// values are formatted as "00:00".
func FormatTime(sec float64) string {
	if sec <= 0 || math.IsInf(sec, 0) || math.IsNaN(sec) {
		return "00:00"
	}
	s := int64(sec)
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}
