package local_test

import (
	"testing"
	"time"

	"github.com/middlemost/radio/local"
)

// Ensure the watcher reports files added after it opens.
func TestWatcher(t *testing.T) {
	s := NewFileService()
	defer s.MustClose()
	s.MustWriteFile("a.mp3", "A")

	w := local.NewWatcher(s.FileService)
	w.SettleDelay = 20 * time.Millisecond
	if err := w.Open(); err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	s.MustWriteFile("notes.txt", "X")
	s.MustWriteFile("b.mp3", "B")

	select {
	case name := <-w.C():
		if name != "b.mp3" {
			t.Fatalf("unexpected name: %q", name)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for file")
	}

	// Rewriting a reported file does not report it again.
	s.MustWriteFile("b.mp3", "BB")
	select {
	case name := <-w.C():
		t.Fatalf("unexpected name: %q", name)
	case <-time.After(100 * time.Millisecond):
	}
}

// Ensure closing the watcher closes its channel.
func TestWatcher_Close(t *testing.T) {
	s := NewFileService()
	defer s.MustClose()

	w := local.NewWatcher(s.FileService)
	if err := w.Open(); err != nil {
		t.Fatal(err)
	} else if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	select {
	case _, ok := <-w.C():
		if ok {
			t.Fatal("expected closed channel")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for close")
	}
}
