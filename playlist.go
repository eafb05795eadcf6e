package radio

// Playlist represents an ordered list of tracks. Tracks are only appended;
// the playlist never reorders existing entries.
type Playlist struct {
	tracks []*Track
}

// NewPlaylist returns a playlist holding tracks in the given order.
func NewPlaylist(tracks []*Track) *Playlist {
	return &Playlist{tracks: append([]*Track(nil), tracks...)}
}

// Len returns the number of tracks.
func (p *Playlist) Len() int { return len(p.tracks) }

// Tracks returns a copy of the track list.
func (p *Playlist) Tracks() []*Track {
	other := make([]*Track, len(p.tracks))
	copy(other, p.tracks)
	return other
}

// Append adds t to the end of the playlist.
func (p *Playlist) Append(t *Track) {
	p.tracks = append(p.tracks, t)
}

// Index returns the position of the track with the given file name, or -1.
func (p *Playlist) Index(file string) int {
	for i, t := range p.tracks {
		if t.File == file {
			return i
		}
	}
	return -1
}

// Next returns the track following the one with the given file name.
// The last track is followed by the first. Returns nil if file is not found.
func (p *Playlist) Next(file string) *Track {
	i := p.Index(file)
	if i == -1 {
		return nil
	}
	return p.tracks[(i+1)%len(p.tracks)]
}

// TotalDuration returns the sum of all known track durations, in seconds.
func (p *Playlist) TotalDuration() float64 {
	var total float64
	for _, t := range p.tracks {
		total += t.Duration
	}
	return total
}
