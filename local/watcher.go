package local

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultSettleDelay is how long a new file must go without writes before it
// is reported.
const DefaultSettleDelay = 2 * time.Second

// Watcher reports playable files added to a FileService's directory.
// Each name is reported once; files present when the watcher opens are not
// reported.
type Watcher struct {
	watcher *fsnotify.Watcher
	once    sync.Once
	closing chan struct{}
	wg      sync.WaitGroup

	c       chan string
	seen    map[string]struct{}
	pending map[string]time.Time

	FileService *FileService
	SettleDelay time.Duration

	Now       func() time.Time
	LogOutput io.Writer
}

// NewWatcher returns a new instance of Watcher for s.
func NewWatcher(s *FileService) *Watcher {
	return &Watcher{
		closing:     make(chan struct{}),
		c:           make(chan string, 64),
		seen:        make(map[string]struct{}),
		pending:     make(map[string]time.Time),
		FileService: s,
		SettleDelay: DefaultSettleDelay,
		Now:         time.Now,
		LogOutput:   ioutil.Discard,
	}
}

// C returns a channel of newly added file names.
// The channel is closed when the watcher is closed.
func (w *Watcher) C() <-chan string { return w.c }

// Open starts watching the directory.
func (w *Watcher) Open() error {
	names, err := w.FileService.ListFiles(context.Background())
	if err != nil {
		return err
	}
	for _, name := range names {
		w.seen[name] = struct{}{}
	}

	if w.watcher, err = fsnotify.NewWatcher(); err != nil {
		return err
	} else if err := w.watcher.Add(w.FileService.Path); err != nil {
		w.watcher.Close()
		return err
	}
	fmt.Fprintf(w.LogOutput, "watcher: watching: path=%s\n", w.FileService.Path)

	w.wg.Add(1)
	go func() { defer w.wg.Done(); w.monitor() }()
	return nil
}

// Close stops watching and closes the channel returned by C.
func (w *Watcher) Close() error {
	w.once.Do(func() { close(w.closing) })
	w.wg.Wait()
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}

// monitor collects filesystem events and reports files once they settle.
func (w *Watcher) monitor() {
	defer close(w.c)

	interval := w.SettleDelay / 2
	if interval <= 0 {
		interval = 10 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.closing:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(w.LogOutput, "watcher: error: err=%s\n", err)

		case <-ticker.C:
			if !w.flush() {
				return
			}
		}
	}
}

// handleEvent records activity on a playable file.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	name := filepath.Base(event.Name)
	if !w.FileService.IsPlayable(name) {
		return
	} else if _, ok := w.seen[name]; ok {
		return
	}
	w.pending[name] = w.Now()
}

// flush reports pending files that have not changed for SettleDelay.
// Returns false if the watcher closed while reporting.
func (w *Watcher) flush() bool {
	now := w.Now()
	for name, t := range w.pending {
		if now.Sub(t) < w.SettleDelay {
			continue
		}
		delete(w.pending, name)
		w.seen[name] = struct{}{}

		fmt.Fprintf(w.LogOutput, "watcher: file added: name=%q\n", name)
		select {
		case w.c <- name:
		case <-w.closing:
			return false
		}
	}
	return true
}
