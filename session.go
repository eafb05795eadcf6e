package radio

import (
	"fmt"
	"io"
	"io/ioutil"
	"sync"
)

// Session holds the playback state of a listening session: the playlist, the
// current track and the elapsed time of the current track.
//
// A session starts empty. It begins playing once the initial playlist is
// published and then only moves forward through Advance.
type Session struct {
	mu       sync.Mutex
	playlist *Playlist
	current  *Track
	progress float64

	c chan struct{}

	LogOutput io.Writer
}

// NewSession returns a new, empty session.
func NewSession() *Session {
	return &Session{
		playlist:  NewPlaylist(nil),
		c:         make(chan struct{}, 1),
		LogOutput: ioutil.Discard,
	}
}

// SessionState is a point-in-time copy of a session.
type SessionState struct {
	Current  *Track   `json:"current"`
	Progress float64  `json:"progress"`
	Tracks   []*Track `json:"tracks"`
}

// C returns a channel that receives a notification after the playlist or the
// current track changes. Progress updates do not notify.
func (s *Session) C() <-chan struct{} { return s.c }

// State returns a snapshot of the session.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionState{
		Current:  s.current,
		Progress: s.progress,
		Tracks:   s.playlist.Tracks(),
	}
}

// Current returns the track being played, or nil before the first publish.
func (s *Session) Current() *Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Progress returns the elapsed seconds of the current track.
func (s *Session) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

// Tracks returns a copy of the playlist.
func (s *Session) Tracks() []*Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playlist.Tracks()
}

// Playing returns true once the session has a current track.
func (s *Session) Playing() bool {
	return s.Current() != nil
}

// PublishInitialPlaylist replaces the playlist with tracks and starts playing
// the first one. Publishing an empty list leaves the session empty.
func (s *Session) PublishInitialPlaylist(tracks []*Track) {
	s.mu.Lock()
	s.playlist = NewPlaylist(tracks)
	s.current = nil
	if len(tracks) > 0 {
		s.current = tracks[0]
	}
	s.progress = 0
	current := s.current
	s.mu.Unlock()

	if current != nil {
		fmt.Fprintf(s.LogOutput, "session: playlist published: n=%d current=%q\n", len(tracks), current.File)
	} else {
		fmt.Fprintf(s.LogOutput, "session: empty playlist published\n")
	}
	s.notify()
}

// Contains returns true if the playlist has a track for file.
func (s *Session) Contains(file string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playlist.Index(file) != -1
}

// AppendTrack adds t to the end of the playlist. The current track and
// progress are not affected, except on an empty session where t becomes the
// current track.
//
// Returns false without changes if the playlist already has a track for the
// same file.
func (s *Session) AppendTrack(t *Track) bool {
	s.mu.Lock()
	if s.playlist.Index(t.File) != -1 {
		s.mu.Unlock()
		fmt.Fprintf(s.LogOutput, "session: duplicate track ignored: file=%q\n", t.File)
		return false
	}
	s.playlist.Append(t)
	n := s.playlist.Len()
	started := s.current == nil
	if started {
		s.current, s.progress = t, 0
	}
	s.mu.Unlock()

	fmt.Fprintf(s.LogOutput, "session: track appended: file=%q n=%d\n", t.File, n)
	if started {
		fmt.Fprintf(s.LogOutput, "session: playback started: file=%q\n", t.File)
	}
	s.notify()
	return true
}

// Advance moves to the track after the current one, wrapping to the first
// track at the end of the playlist, and resets progress.
//
// Advance is a no-op if the playlist is empty, if nothing is playing or if
// the current track is no longer part of the playlist. Returns the new
// current track, or nil when nothing changed.
func (s *Session) Advance() *Track {
	s.mu.Lock()
	if s.current == nil || s.playlist.Len() == 0 {
		s.mu.Unlock()
		return nil
	}
	prev := s.current
	next := s.playlist.Next(prev.File)
	if next == nil {
		s.mu.Unlock()
		fmt.Fprintf(s.LogOutput, "session: current track not in playlist, ignoring advance: file=%q\n", prev.File)
		return nil
	}
	s.current, s.progress = next, 0
	s.mu.Unlock()

	fmt.Fprintf(s.LogOutput, "session: advanced: from=%q to=%q duration=%s\n", prev.File, next.File, FormatTime(next.Duration))
	s.notify()
	return next
}

// SetProgress stores the elapsed time of the current track as reported by
// the playback surface. The value is stored verbatim.
func (s *Session) SetProgress(sec float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = sec
}

// notify signals a change without blocking.
func (s *Session) notify() {
	select {
	case s.c <- struct{}{}:
	default:
	}
}
