package catalog

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a catalog file whenever it changes on disk and hands the
// new catalog to a callback. Catalogs are immutable, so the callback is
// expected to swap whatever it builds from them (for example a dialog engine)
// for new conversations only.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange func(*Catalog)

	mu       sync.Mutex
	lastHash [sha256.Size]byte
}

// WatcherOption configures a [Watcher].
type WatcherOption func(*Watcher)

// WithDebounce sets how long the watcher waits after the last file event
// before reloading. Editors commonly emit several events per save. The
// default is 200ms.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// NewWatcher creates a watcher for the catalog at path. onChange is called
// from the [Watcher.Run] goroutine after every successful reload whose
// content differs from the previous one.
func NewWatcher(path string, onChange func(*Catalog), opts ...WatcherOption) *Watcher {
	w := &Watcher{
		path:     filepath.Clean(path),
		debounce: 200 * time.Millisecond,
		onChange: onChange,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches the catalog's parent directory until ctx is cancelled. The
// directory is watched instead of the file so that atomic replace-by-rename
// saves are picked up.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("catalog: create watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("catalog: watch dir %q: %w", dir, err)
	}
	base := filepath.Base(w.path)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.reload()
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("catalog watcher: fsnotify error", "path", w.path, "err", err)
		}
	}
}

// reload reads the file and, if its content changed, parses it and calls
// onChange. A catalog that fails to yield any intent is discarded so a
// half-written file never replaces a working one.
func (w *Watcher) reload() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		slog.Warn("catalog watcher: cannot read file", "path", w.path, "err", err)
		return
	}

	hash := sha256.Sum256(data)
	w.mu.Lock()
	if hash == w.lastHash {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	cat, err := LoadFromReader(bytes.NewReader(data))
	if cat.Len() == 0 {
		slog.Warn("catalog watcher: reload produced no intents, keeping previous catalog", "path", w.path, "err", err)
		return
	}
	if err != nil {
		slog.Warn("catalog watcher: some intents were skipped", "path", w.path, "err", err)
	}

	w.mu.Lock()
	w.lastHash = hash
	w.mu.Unlock()

	slog.Info("catalog watcher: catalog reloaded", "path", w.path, "intents", cat.Len())
	if w.onChange != nil {
		w.onChange(cat)
	}
}
