package radio

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"sync"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// Loader defaults.
const (
	DefaultPreloadSize   = 3
	DefaultDeferredDelay = 1 * time.Second
	DefaultURLPrefix     = "/music/"
)

// Loader builds a session's playlist from the files of a FileService.
//
// Loading happens in two waves. The first few files are loaded in parallel,
// shuffled and published so playback can start. The remaining files are then
// loaded one at a time in the background and appended in listing order.
type Loader struct {
	once    sync.Once
	closing chan struct{}
	wg      sync.WaitGroup

	FileService       FileService
	MetadataExtractor MetadataExtractor // nil disables metadata
	Session           *Session

	// Number of files loaded before playback starts.
	PreloadSize int

	// Time to wait after publishing before loading the remaining files.
	DeferredDelay time.Duration

	// Prefix used to build each track's URL.
	URLPrefix string

	// Reorders the preloaded tracks in place.
	Shuffle func(a []*Track)

	// Returns a channel that fires once d has elapsed.
	After func(d time.Duration) <-chan time.Time

	LogOutput io.Writer
}

// NewLoader returns a new instance of Loader.
func NewLoader() *Loader {
	return &Loader{
		closing:       make(chan struct{}),
		PreloadSize:   DefaultPreloadSize,
		DeferredDelay: DefaultDeferredDelay,
		URLPrefix:     DefaultURLPrefix,
		Shuffle:       func(a []*Track) { lo.Shuffle(a) },
		After:         time.After,
		LogOutput:     ioutil.Discard,
	}
}

// Close abandons any background loading and waits for it to stop.
// A file being loaded when Close is called is not appended.
func (l *Loader) Close() error {
	l.once.Do(func() { close(l.closing) })
	l.wg.Wait()
	return nil
}

// Wait blocks until background loading has finished.
func (l *Loader) Wait() { l.wg.Wait() }

// Load lists all files and loads them into the session. A listing failure
// is treated as an empty listing: an empty playlist is published and the
// listing error is returned.
func (l *Loader) Load(ctx context.Context) error {
	files, err := l.FileService.ListFiles(ctx)
	if err != nil {
		fmt.Fprintf(l.LogOutput, "loader: list files error: err=%s\n", err)
		l.LoadPlaylist(ctx, nil)
		return err
	}
	fmt.Fprintf(l.LogOutput, "loader: files listed: n=%d\n", len(files))

	l.LoadPlaylist(ctx, files)
	return nil
}

// LoadPlaylist loads the preload set of files in parallel, publishes them in
// random order and returns. The deferred set continues loading in the
// background after DeferredDelay.
func (l *Loader) LoadPlaylist(ctx context.Context, files []string) {
	if l.MetadataExtractor == nil {
		fmt.Fprintf(l.LogOutput, "loader: metadata extractor unavailable, loading without metadata\n")
	}

	n := l.PreloadSize
	if n < 1 {
		n = 1
	}
	preload, deferred := SplitPreload(files, n)

	// Load preload set in parallel. Failed files are skipped.
	tracks := make([]*Track, len(preload))
	var g errgroup.Group
	for i, file := range preload {
		i, file := i, file
		g.Go(func() error {
			t, err := l.LoadTrack(ctx, file)
			if err != nil {
				fmt.Fprintf(l.LogOutput, "loader: load error, skipping: file=%q err=%q\n", file, err)
				return nil
			}
			tracks[i] = t
			return nil
		})
	}
	g.Wait()

	tracks = lo.Filter(tracks, func(t *Track, _ int) bool { return t != nil })
	l.Shuffle(tracks)
	l.Session.PublishInitialPlaylist(tracks)

	if len(deferred) == 0 {
		return
	}

	l.wg.Add(1)
	go func() { defer l.wg.Done(); l.loadDeferred(ctx, deferred) }()
}

// loadDeferred loads files sequentially and appends each to the session.
func (l *Loader) loadDeferred(ctx context.Context, files []string) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-l.closing:
			cancel()
		case <-ctx.Done():
		}
	}()

	// Give the first tracks a head start.
	select {
	case <-ctx.Done():
		return
	case <-l.After(l.DeferredDelay):
	}

	fmt.Fprintf(l.LogOutput, "loader: deferred load started: n=%d\n", len(files))
	for _, file := range files {
		err := l.AppendFile(ctx, file)
		if ctx.Err() != nil {
			fmt.Fprintf(l.LogOutput, "loader: deferred load abandoned: file=%q\n", file)
			return
		} else if err != nil {
			fmt.Fprintf(l.LogOutput, "loader: load error, skipping: file=%q err=%q\n", file, err)
		}
	}
	fmt.Fprintf(l.LogOutput, "loader: deferred load completed: n=%d\n", len(files))
}

// Follow appends each file received on names until names is closed or the
// loader is closed. Failed files are skipped.
func (l *Loader) Follow(ctx context.Context, names <-chan string) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		for {
			select {
			case <-l.closing:
				return
			case <-ctx.Done():
				return
			case name, ok := <-names:
				if !ok {
					return
				} else if err := l.AppendFile(ctx, name); err != nil {
					fmt.Fprintf(l.LogOutput, "loader: load error, skipping: file=%q err=%q\n", name, err)
				}
			}
		}
	}()
}

// AppendFile loads a single file and appends it to the session.
// Files already in the session are skipped.
func (l *Loader) AppendFile(ctx context.Context, file string) error {
	if l.Session.Contains(file) {
		return nil
	}

	t, err := l.LoadTrack(ctx, file)
	if err != nil {
		return err
	} else if err := ctx.Err(); err != nil {
		return err
	}
	l.Session.AppendTrack(t)
	return nil
}

// LoadTrack fetches a file and builds its track. Only fetch errors are
// returned; a metadata failure falls back to a track without metadata.
func (l *Loader) LoadTrack(ctx context.Context, file string) (*Track, error) {
	f, rc, err := l.FileService.FindFileByName(ctx, file)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := ioutil.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(l.LogOutput, "loader: file fetched: file=%q size=%d\n", f.Name, len(data))

	var m *Metadata
	if l.MetadataExtractor != nil {
		if m, err = l.MetadataExtractor.Extract(ctx, data); err != nil {
			fmt.Fprintf(l.LogOutput, "loader: metadata error: file=%q err=%q\n", file, err)
			m = nil
		}
	}

	return NewTrack(file, TrackURL(l.URLPrefix, file), m), nil
}

// SplitPreload splits files into the first n entries and the remainder.
// Both sets keep their original order.
func SplitPreload(files []string, n int) (preload, deferred []string) {
	if n < 0 {
		n = 0
	}
	if n > len(files) {
		n = len(files)
	}
	return files[:n:n], files[n:]
}
