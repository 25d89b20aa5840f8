// Package watcher triggers a callback when catalog files change on disk.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hyperjump/assessly/internal/catalog"
	"github.com/hyperjump/assessly/pkg/utils"
	"go.uber.org/zap"
)

const defaultDebounce = 400 * time.Millisecond

// Watcher watches catalog files and calls onChange once per burst of changes. A path
// may name a file or a directory; for a directory every catalog file inside it counts.
//
// Parent directories are watched rather than the files themselves so that editors
// replacing a file by rename keep being observed.
type Watcher struct {
	files    map[string]bool // watched file paths
	dirs     map[string]bool // directories whose catalog files are all watched
	onChange func()
	debounce time.Duration
	logger   *zap.Logger

	runMu    sync.Mutex // held while onChange runs
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	timer    *time.Timer
	done     chan struct{}
	started  bool
	stopOnce sync.Once
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) WatcherOption {
	return func(w *Watcher) { w.logger = l }
}

// WithDebounce sets how long the watcher waits for changes to settle.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// NewWatcher creates a watcher for paths. onChange runs on its own goroutine, never
// concurrently with itself.
func NewWatcher(paths []string, onChange func(), opts ...WatcherOption) (*Watcher, error) {
	w := &Watcher{
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		onChange: onChange,
		debounce: defaultDebounce,
		done:     make(chan struct{}),
	}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			w.dirs[abs] = true
		} else {
			w.files[abs] = true
		}
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = utils.OrNop(w.logger)
	return w, nil
}

// Start begins watching. It runs until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return nil
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	for _, dir := range w.watchDirs() {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.watcher = fw
	w.started = true
	w.logger.Debug("catalog watcher started", zap.Strings("dirs", w.watchDirs()), zap.Duration("debounce", w.debounce))

	go w.run(ctx, fw)
	return nil
}

func (w *Watcher) watchDirs() []string {
	seen := make(map[string]bool)
	var out []string
	for dir := range w.dirs {
		if !seen[dir] {
			seen[dir] = true
			out = append(out, dir)
		}
	}
	for file := range w.files {
		dir := filepath.Dir(file)
		if !seen[dir] {
			seen[dir] = true
			out = append(out, dir)
		}
	}
	return out
}

func (w *Watcher) run(ctx context.Context, fw *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("catalog watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if ev.Op == fsnotify.Chmod || !w.relevant(ev.Name) {
		return
	}
	w.logger.Debug("catalog file event", zap.String("op", ev.Op.String()), zap.String("path", ev.Name))

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.started {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

// relevant reports whether path is one of the watched files or a catalog file in a
// watched directory.
func (w *Watcher) relevant(path string) bool {
	clean := filepath.Clean(path)
	if w.files[clean] {
		return true
	}
	return w.dirs[filepath.Dir(clean)] && catalog.IsCatalogFile(clean)
}

func (w *Watcher) fire() {
	w.runMu.Lock()
	defer w.runMu.Unlock()

	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	w.timer = nil
	w.mu.Unlock()

	w.logger.Info("catalog changed")
	if w.onChange != nil {
		w.onChange()
	}
}

// Stop stops the watcher and releases resources. Pending callbacks are dropped.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	_ = w.watcher.Close()
	w.watcher = nil
	w.started = false
	w.mu.Unlock()
	w.stopOnce.Do(func() { close(w.done) })
}
