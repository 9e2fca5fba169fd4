package trust

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// StoreWatcher reloads a key directory when its contents change, debouncing
// bursts of file events into a single reload. It is optional infrastructure
// around the store: nothing in this package starts a watcher unless the
// caller asks for one.
type StoreWatcher struct {
	dir      string
	debounce time.Duration
	logger   *slog.Logger
	onReload func(*KeyStore)

	watcher *fsnotify.Watcher
	mu      sync.Mutex
	timer   *time.Timer
	closed  bool
}

// WatchOption is a functional option for configuring a StoreWatcher.
type WatchOption func(*StoreWatcher)

// WithWatchLogger sets the logger used for watch and reload errors.
func WithWatchLogger(l *slog.Logger) WatchOption {
	return func(w *StoreWatcher) { w.logger = l }
}

// WithDebounce sets the quiet interval that must elapse after the last file
// event before a reload fires.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *StoreWatcher) { w.debounce = d }
}

// WatchKeyDirectory watches dir (which must exist) and calls onReload with
// a freshly loaded store after each burst of changes settles. The callback
// runs on a timer goroutine, never on the caller's. Close stops the watcher.
// Defaults: 500ms debounce, slog.Default().
func WatchKeyDirectory(dir string, onReload func(*KeyStore), opts ...WatchOption) (*StoreWatcher, error) {
	w := &StoreWatcher{
		dir:      dir,
		debounce: 500 * time.Millisecond,
		logger:   slog.Default(),
		onReload: onReload,
	}
	for _, opt := range opts {
		opt(w)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: creating watcher: %w", ErrIO, err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("%w: watching %s: %w", ErrIO, dir, err)
	}
	w.watcher = fw

	go w.loop()
	return w, nil
}

// Close stops watching and cancels any pending reload.
func (w *StoreWatcher) Close() error {
	w.mu.Lock()
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}

func (w *StoreWatcher) loop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				w.scheduleReload()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("key directory watch error", "dir", w.dir, "error", err)
		}
	}
}

func (w *StoreWatcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *StoreWatcher) reload() {
	store, err := LoadKeyStore(w.dir)
	if err != nil {
		w.logger.Error("reloading key store", "dir", w.dir, "error", err)
		return
	}
	w.onReload(store)
}
