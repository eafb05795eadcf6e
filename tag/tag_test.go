package tag_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"
	"time"

	"github.com/middlemost/radio/tag"
)

// Ensure content without tags or audio frames returns an error.
func TestExtractor_Extract_NoMetadata(t *testing.T) {
	data := bytes.Repeat([]byte("x"), 512)
	if _, err := tag.NewExtractor().Extract(context.Background(), data); err != tag.ErrNoMetadata {
		t.Fatalf("unexpected error: %v", err)
	}
}

// Ensure ID3v2 tags are extracted.
func TestExtractor_Extract_ID3v2(t *testing.T) {
	data := MustID3v2(
		TextFrame("TIT2", "Hello"),
		TextFrame("TPE1", "World"),
		Frame("APIC", []byte("\x00image/png\x00\x03\x00PNG")),
	)

	m, err := tag.NewExtractor().Extract(context.Background(), data)
	if err != nil {
		t.Fatal(err)
	} else if m.Title != "Hello" {
		t.Fatalf("unexpected title: %q", m.Title)
	} else if m.Artist != "World" {
		t.Fatalf("unexpected artist: %q", m.Artist)
	} else if len(m.Pictures) != 1 {
		t.Fatalf("unexpected pictures: %d", len(m.Pictures))
	} else if pic := m.Pictures[0]; pic.Format != "image/png" || string(pic.Data) != "PNG" {
		t.Fatalf("unexpected picture: %#v", pic)
	}
}

// Ensure untagged MPEG audio still reports a duration.
func TestExtractor_Extract_Duration(t *testing.T) {
	m, err := tag.NewExtractor().Extract(context.Background(), MPEGFrames(10))
	if err != nil {
		t.Fatal(err)
	} else if m.Title != "" || m.Artist != "" {
		t.Fatalf("unexpected tags: %#v", m)
	} else if m.Duration <= 0 || m.Duration > time.Second {
		t.Fatalf("unexpected duration: %s", m.Duration)
	}
}

// Ensure duration is the sum of frame durations.
func TestDuration(t *testing.T) {
	d1, err := tag.Duration(context.Background(), bytes.NewReader(MPEGFrames(10)))
	if err != nil {
		t.Fatal(err)
	}
	d2, err := tag.Duration(context.Background(), bytes.NewReader(MPEGFrames(20)))
	if err != nil {
		t.Fatal(err)
	}
	if d1 <= 0 || d2 <= d1 {
		t.Fatalf("unexpected durations: %s, %s", d1, d2)
	}
}

// Ensure a cancelled context stops decoding.
func TestDuration_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := tag.Duration(ctx, bytes.NewReader(MPEGFrames(1))); err != context.Canceled {
		t.Fatalf("unexpected error: %v", err)
	}
}

// MPEGFrames returns n silent MPEG-1 Layer III frames at 128kbps/44.1kHz.
func MPEGFrames(n int) []byte {
	const frameSize = 417
	var buf bytes.Buffer
	for i := 0; i < n; i++ {
		frame := make([]byte, frameSize)
		copy(frame, []byte{0xFF, 0xFB, 0x90, 0x64})
		buf.Write(frame)
	}
	return buf.Bytes()
}

// MustID3v2 returns an ID3v2.3 tag containing frames.
func MustID3v2(frames ...[]byte) []byte {
	body := bytes.Join(frames, nil)

	var buf bytes.Buffer
	buf.WriteString("ID3")
	buf.Write([]byte{0x03, 0x00, 0x00})
	buf.Write(syncsafe(len(body)))
	buf.Write(body)
	return buf.Bytes()
}

// TextFrame returns an ID3v2.3 text frame with ISO-8859-1 encoding.
func TextFrame(id, text string) []byte {
	return Frame(id, append([]byte{0x00}, text...))
}

// Frame returns an ID3v2.3 frame.
func Frame(id string, data []byte) []byte {
	buf := make([]byte, 10+len(data))
	copy(buf, id)
	binary.BigEndian.PutUint32(buf[4:8], uint32(len(data)))
	copy(buf[10:], data)
	return buf
}

func syncsafe(n int) []byte {
	return []byte{
		byte(n>>21&0x7F),
		byte(n>>14&0x7F),
		byte(n>>7&0x7F),
		byte(n & 0x7F),
	}
}
