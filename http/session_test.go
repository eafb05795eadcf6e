package http_test

import (
	"net/http"
	"testing"

	"github.com/middlemost/radio"
)

// Ensure an empty session state is returned.
func TestServer_GetSession_Empty(t *testing.T) {
	s := NewServer()

	w := Do(s, http.MethodGet, "/api/session", "")
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", w.Code)
	} else if body := w.Body.String(); body != `{"current":null,"progress":0,"tracks":[]}`+"\n" {
		t.Fatalf("unexpected body: %q", body)
	}
}

// Ensure the session state is returned while playing.
func TestServer_GetSession(t *testing.T) {
	s := NewServer()
	s.Session.PublishInitialPlaylist(NewTracks("a.mp3", "b.mp3"))
	s.Session.SetProgress(12.5)

	w := Do(s, http.MethodGet, "/api/session", "")
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", w.Code)
	}

	var state radio.SessionState
	MustDecodeJSON(t, w, &state)
	if state.Current == nil || state.Current.File != "a.mp3" {
		t.Fatalf("unexpected current: %#v", state.Current)
	} else if state.Current.URL != "/music/a.mp3" {
		t.Fatalf("unexpected url: %s", state.Current.URL)
	} else if state.Progress != 12.5 {
		t.Fatalf("unexpected progress: %v", state.Progress)
	} else if len(state.Tracks) != 2 {
		t.Fatalf("unexpected track count: %d", len(state.Tracks))
	}
}

// Ensure skip and track-finished signals advance the session.
func TestServer_PostSessionNext(t *testing.T) {
	for _, path := range []string{"/api/session/next", "/api/session/ended"} {
		s := NewServer()
		s.Session.PublishInitialPlaylist(NewTracks("a.mp3", "b.mp3"))
		s.Session.SetProgress(30)

		w := Do(s, http.MethodPost, path, "")
		if w.Code != http.StatusOK {
			t.Fatalf("%s: unexpected status: %d", path, w.Code)
		}

		var state radio.SessionState
		MustDecodeJSON(t, w, &state)
		if state.Current == nil || state.Current.File != "b.mp3" {
			t.Fatalf("%s: unexpected current: %#v", path, state.Current)
		} else if state.Progress != 0 {
			t.Fatalf("%s: unexpected progress: %v", path, state.Progress)
		}

		// Wraps around to the first track.
		Do(s, http.MethodPost, path, "")
		if cur := s.Session.Current(); cur.File != "a.mp3" {
			t.Fatalf("%s: unexpected current after wrap: %s", path, cur.File)
		}
	}
}

// Ensure advancing an empty session is a no-op.
func TestServer_PostSessionNext_Empty(t *testing.T) {
	s := NewServer()

	if w := Do(s, http.MethodPost, "/api/session/next", ""); w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", w.Code)
	} else if s.Session.Current() != nil {
		t.Fatal("expected no current track")
	}
}

// Ensure progress reports update the session.
func TestServer_PostSessionProgress(t *testing.T) {
	s := NewServer()
	s.Session.PublishInitialPlaylist(NewTracks("a.mp3"))

	w := Do(s, http.MethodPost, "/api/session/progress", `{"progress":42.5}`)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", w.Code)
	} else if body := w.Body.String(); body != `{"progress":42.5}`+"\n" {
		t.Fatalf("unexpected body: %q", body)
	} else if v := s.Session.Progress(); v != 42.5 {
		t.Fatalf("unexpected progress: %v", v)
	}
}

// Ensure malformed progress reports are rejected.
func TestServer_PostSessionProgress_Error(t *testing.T) {
	for body, want := range map[string]string{
		`{`:  "invalid json body",
		`{}`: "progress required",
	} {
		s := NewServer()

		w := Do(s, http.MethodPost, "/api/session/progress", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: unexpected status: %d", body, w.Code)
		} else if other := w.Body.String(); other != want {
			t.Errorf("%s: unexpected body: %q", body, other)
		}
	}
}
