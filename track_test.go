package radio_test

import (
	"math"
	"testing"
	"time"

	"github.com/middlemost/radio"
)

// Ensure a track without metadata uses fallback values.
func TestNewTrack_NoMetadata(t *testing.T) {
	track := radio.NewTrack("song.mp3", "/music/song.mp3", nil)
	if track.File != "song.mp3" {
		t.Fatalf("unexpected file: %q", track.File)
	} else if track.URL != "/music/song.mp3" {
		t.Fatalf("unexpected url: %q", track.URL)
	} else if track.Title != "song" {
		t.Fatalf("unexpected title: %q", track.Title)
	} else if track.Artist != radio.UnknownArtist {
		t.Fatalf("unexpected artist: %q", track.Artist)
	} else if track.Duration != 0 {
		t.Fatalf("unexpected duration: %v", track.Duration)
	} else if track.Cover != "" {
		t.Fatalf("unexpected cover: %q", track.Cover)
	}
}

// Ensure each metadata field falls back independently.
func TestNewTrack_PartialMetadata(t *testing.T) {
	t.Run("TitleOnly", func(t *testing.T) {
		track := radio.NewTrack("a.mp3", "", &radio.Metadata{Title: "Alpha"})
		if track.Title != "Alpha" || track.Artist != "Unknown Artist" || track.Duration != 0 || track.Cover != "" {
			t.Fatalf("unexpected track: %#v", track)
		}
	})

	t.Run("ArtistOnly", func(t *testing.T) {
		track := radio.NewTrack("b.mp3", "", &radio.Metadata{Artist: "Band"})
		if track.Title != "b" || track.Artist != "Band" {
			t.Fatalf("unexpected track: %#v", track)
		}
	})

	t.Run("EmptyTitle", func(t *testing.T) {
		track := radio.NewTrack("c.mp3", "", &radio.Metadata{Title: ""})
		if track.Title != "c" {
			t.Fatalf("unexpected title: %q", track.Title)
		}
	})

	t.Run("WhitespaceKept", func(t *testing.T) {
		track := radio.NewTrack("c.mp3", "", &radio.Metadata{Title: " Foo ", Artist: "  "})
		if track.Title != " Foo " {
			t.Fatalf("unexpected title: %q", track.Title)
		} else if track.Artist != "  " {
			t.Fatalf("unexpected artist: %q", track.Artist)
		}
	})

	t.Run("Duration", func(t *testing.T) {
		track := radio.NewTrack("d.mp3", "", &radio.Metadata{Duration: 90500 * time.Millisecond})
		if track.Duration != 90.5 {
			t.Fatalf("unexpected duration: %v", track.Duration)
		}
	})

	t.Run("NegativeDuration", func(t *testing.T) {
		track := radio.NewTrack("e.mp3", "", &radio.Metadata{Duration: -time.Second})
		if track.Duration != 0 {
			t.Fatalf("unexpected duration: %v", track.Duration)
		}
	})

	t.Run("Cover", func(t *testing.T) {
		track := radio.NewTrack("f.mp3", "", &radio.Metadata{Pictures: []radio.Picture{
			{Format: "image/png"},
			{Format: "image/png", Data: []byte("PNG")},
		}})
		if track.Cover != "data:image/png;base64,UE5H" {
			t.Fatalf("unexpected cover: %q", track.Cover)
		}
	})
}

// Ensure only a lower-case extension is stripped from the fallback title.
func TestNewTrack_TitleFallback(t *testing.T) {
	for file, title := range map[string]string{
		"song.mp3":        "song",
		"my.mp3.song.mp3": "my.mp3.song",
		"track.flac":      "track",
		"noext":           "noext",
		"Song.MP3":        "Song.MP3",
		"Song.Mp3":        "Song.Mp3",
	} {
		if track := radio.NewTrack(file, "", &radio.Metadata{}); track.Title != title {
			t.Fatalf("unexpected title: file=%q title=%q", file, track.Title)
		}
	}
}

// Ensure track URLs escape file names.
func TestTrackURL(t *testing.T) {
	if s := radio.TrackURL("/music/", "My Song #1.mp3"); s != "/music/My%20Song%20%231.mp3" {
		t.Fatalf("unexpected url: %q", s)
	}
}

// Ensure seconds are formatted as MM:SS.
func TestFormatTime(t *testing.T) {
	for sec, s := range map[float64]string{
		0:           "00:00",
		-5:          "00:00",
		math.Inf(1): "00:00",
		math.NaN():  "00:00",
		9.9:         "00:09",
		61:          "01:01",
		3599:        "59:59",
		3600:        "60:00",
	} {
		if other := radio.FormatTime(sec); other != s {
			t.Fatalf("unexpected format: sec=%v got=%q want=%q", sec, other, s)
		}
	}
}
