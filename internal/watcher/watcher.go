// Package watcher rebuilds the keyword dictionary when catalog files change.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher watches catalog directories and calls onChange once per burst of relevant events.
type Watcher struct {
	roots      map[string]struct{}
	extensions []string
	recursive  bool
	onChange   func(ctx context.Context)
	debounce   time.Duration

	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	timer    *time.Timer
	ctx      context.Context
	done     chan struct{}
	started  bool
	stopOnce sync.Once
	logger   *zap.Logger // optional; when set, logs debug events
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) WatcherOption {
	return func(w *Watcher) { w.logger = l }
}

// WithDebounce sets how long the watcher waits for events to settle before calling onChange.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// NewWatcher creates a watcher over roots. extensions filter which files count (empty = all).
func NewWatcher(roots []string, extensions []string, recursive bool, onChange func(ctx context.Context), opts ...WatcherOption) *Watcher {
	w := &Watcher{
		roots:      make(map[string]struct{}),
		extensions: extensions,
		recursive:  recursive,
		onChange:   onChange,
		debounce:   defaultDebounce,
		done:       make(chan struct{}),
	}
	for _, r := range roots {
		w.roots[filepath.Clean(r)] = struct{}{}
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
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
	w.watcher = fw
	w.ctx = ctx
	for root := range w.roots {
		if err := os.MkdirAll(root, 0755); err != nil {
			_ = fw.Close()
			w.watcher = nil
			return err
		}
		if err := w.watchTreeLocked(root); err != nil {
			_ = fw.Close()
			w.watcher = nil
			return err
		}
	}
	w.started = true
	w.debug("watcher started", zap.Strings("roots", w.directoriesLocked()), zap.Bool("recursive", w.recursive))
	go w.run(ctx)
	return nil
}

func (w *Watcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.debug("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.underRootLocked(ev.Name) {
		return
	}
	w.debug("watcher event", zap.String("op", ev.Op.String()), zap.String("path", ev.Name))

	if ev.Has(fsnotify.Create) && w.recursive {
		if isDir(ev.Name) {
			if err := w.watchTreeLocked(ev.Name); err != nil {
				w.debug("failed to watch new directory", zap.String("path", ev.Name), zap.Error(err))
			}
			w.scheduleLocked()
			return
		}
	}
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
		return
	}
	if matchExtension(ev.Name, w.extensions) {
		w.scheduleLocked()
	}
}

// scheduleLocked (re)arms the debounce timer.
func (w *Watcher) scheduleLocked() {
	if w.timer != nil {
		w.timer.Stop()
	}
	ctx := w.ctx
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case <-w.done:
			return
		default:
		}
		w.debug("catalog changed, rebuilding")
		if w.onChange != nil {
			w.onChange(ctx)
		}
	})
}

// AddDirectory starts watching root. When trigger is true onChange is scheduled so the
// directory's existing files are picked up.
func (w *Watcher) AddDirectory(root string, trigger bool) error {
	root = filepath.Clean(root)
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.roots[root]; ok {
		return nil
	}
	if w.started {
		if err := w.watchTreeLocked(root); err != nil {
			return err
		}
	}
	w.roots[root] = struct{}{}
	w.debug("watcher directory added", zap.String("root", root))
	if trigger && w.started {
		w.scheduleLocked()
	}
	return nil
}

// RemoveDirectory stops watching root and schedules onChange so its keywords are dropped.
func (w *Watcher) RemoveDirectory(root string) error {
	root = filepath.Clean(root)
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.roots[root]; !ok {
		return nil
	}
	delete(w.roots, root)
	if w.started {
		for _, p := range w.watcher.WatchList() {
			if inDir(root, p) && !w.underRootLocked(p) {
				_ = w.watcher.Remove(p)
			}
		}
		w.scheduleLocked()
	}
	w.debug("watcher directory removed", zap.String("root", root))
	return nil
}

// Directories returns the watched roots, sorted.
func (w *Watcher) Directories() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.directoriesLocked()
}

func (w *Watcher) directoriesLocked() []string {
	out := make([]string, 0, len(w.roots))
	for r := range w.roots {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// Stop stops the watcher and cancels a pending rebuild.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.timer != nil {
			w.timer.Stop()
		}
		if w.watcher != nil {
			_ = w.watcher.Close()
		}
		w.debug("watcher stopped")
	})
}

func (w *Watcher) watchTreeLocked(root string) error {
	if err := w.watcher.Add(root); err != nil {
		return err
	}
	if !w.recursive {
		return nil
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() || path == root {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

func (w *Watcher) underRootLocked(path string) bool {
	for root := range w.roots {
		if inDir(root, path) {
			return true
		}
	}
	return false
}

func inDir(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func matchExtension(path string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	for _, e := range extensions {
		if strings.ToLower(strings.TrimPrefix(e, ".")) == ext {
			return true
		}
	}
	return false
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (w *Watcher) debug(msg string, fields ...zap.Field) {
	if w.logger != nil {
		w.logger.Debug(msg, fields...)
	}
}
