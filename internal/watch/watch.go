// Package watch re-runs a callback when a file's content changes.
//
// Changes are detected with fsnotify on the file's directory, so editors
// that save by rename are still seen. Bursts of events are debounced, and
// the content is hashed with xxHash so a save that leaves the bytes
// unchanged does not trigger a run.
package watch

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
)

const defaultDebounce = 200 * time.Millisecond

// Watcher watches a single file.
type Watcher struct {
	path     string
	fs       afero.Fs
	debounce time.Duration
	logger   *log.Logger

	sum  uint64
	seen bool
}

type Option func(*Watcher)

// WithFs sets the filesystem used to read the file for hashing.
// Notifications always come from the OS.
func WithFs(fs afero.Fs) Option {
	return func(w *Watcher) {
		w.fs = fs
	}
}

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

func WithLogger(l *log.Logger) Option {
	return func(w *Watcher) {
		w.logger = l
	}
}

func New(path string, opts ...Option) *Watcher {
	w := &Watcher{
		path:     filepath.Clean(path),
		fs:       afero.NewOsFs(),
		debounce: defaultDebounce,
		logger:   log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Changed hashes the file and reports whether it differs from the last
// call. The first call always reports a change.
func (w *Watcher) Changed() (bool, error) {
	f, err := w.fs.Open(w.path)
	if err != nil {
		return false, fmt.Errorf("open %s: %w", w.path, err)
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return false, fmt.Errorf("hash %s: %w", w.path, err)
	}

	sum := h.Sum64()
	changed := !w.seen || sum != w.sum
	w.sum, w.seen = sum, true
	return changed, nil
}

// Run calls fn once, then again after each change to the file, until ctx
// is done. Errors from fn are logged and watching continues.
func (w *Watcher) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to initialize watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	w.fire(ctx, fn)

	trigger := make(chan struct{}, 1)
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			// Debounce to run only once for a burst of writes
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounce, func() {
				select {
				case trigger <- struct{}{}:
				default:
				}
			})
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Printf("watch %s: %v", w.path, err)
		case <-trigger:
			w.fire(ctx, fn)
		}
	}
}

func (w *Watcher) fire(ctx context.Context, fn func(ctx context.Context) error) {
	changed, err := w.Changed()
	if err != nil {
		w.logger.Printf("watch: %v", err)
		return
	}
	if !changed {
		w.logger.Printf("%s unchanged, skipped", w.path)
		return
	}
	if err := fn(ctx); err != nil {
		w.logger.Printf("%s: %v", w.path, err)
	}
}
