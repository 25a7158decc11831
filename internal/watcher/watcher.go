// Package watcher reruns work when source files change on disk.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher watches files and calls back once per burst of changes.
//
// The parent directory is watched rather than the file itself so that
// editors which save by renaming a temp file over the original are seen.
// Callbacks run on the goroutine calling Run, one at a time.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	log      *zap.Logger

	ready     chan string
	done      chan struct{}
	closeOnce sync.Once

	mu        sync.Mutex
	callbacks map[string]func(string)
	dirs      map[string]bool
	timers    map[string]*time.Timer
	queued    map[string]bool
}

// New creates a watcher. log may be nil.
func New(debounce time.Duration, log *zap.Logger) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		fs:        fs,
		debounce:  debounce,
		log:       log,
		ready:     make(chan string),
		done:      make(chan struct{}),
		callbacks: make(map[string]func(string)),
		dirs:      make(map[string]bool),
		timers:    make(map[string]*time.Timer),
		queued:    make(map[string]bool),
	}, nil
}

// Watch registers fn for changes to any of files.
func (w *Watcher) Watch(files []string, fn func(path string)) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", file, err)
		}
		dir := filepath.Dir(abs)
		if !w.dirs[dir] {
			if err := w.fs.Add(dir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			w.dirs[dir] = true
		}
		w.callbacks[abs] = fn
	}
	return nil
}

// Run dispatches change events until ctx is done or the watcher is closed.
// A change that lands while a callback runs is delivered after it returns.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case path := <-w.ready:
			w.mu.Lock()
			delete(w.queued, path)
			fn := w.callbacks[path]
			w.mu.Unlock()
			if fn != nil {
				fn(path)
			}

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.changed(event.Name)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", zap.Error(err))
		}
	}
}

// changed schedules the callback for path, restarting its debounce timer.
func (w *Watcher) changed(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.callbacks[path]; !ok {
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.log.Debug("file changed", zap.String("path", path))
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.enqueue(path)
	})
}

// enqueue hands path to Run, at most once until Run picks it up.
func (w *Watcher) enqueue(path string) {
	w.mu.Lock()
	if w.queued[path] {
		w.mu.Unlock()
		return
	}
	w.queued[path] = true
	w.mu.Unlock()

	select {
	case w.ready <- path:
	case <-w.done:
	}
}

// Close stops watching and cancels pending callbacks.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() { close(w.done) })
	w.mu.Lock()
	for _, t := range w.timers {
		t.Stop()
	}
	w.mu.Unlock()
	return w.fs.Close()
}
