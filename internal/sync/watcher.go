package sync

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FsWatcher abstracts filesystem event monitoring. Satisfied by
// *fsnotify.Watcher; tests inject a mock implementation.
type FsWatcher interface {
	Add(name string) error
	Remove(name string) error
	Close() error
	Events() <-chan fsnotify.Event
	Errors() <-chan error
}

// fsnotifyWrapper adapts *fsnotify.Watcher to FsWatcher. fsnotify exposes
// Events and Errors as public fields rather than methods.
type fsnotifyWrapper struct {
	w *fsnotify.Watcher
}

func (fw *fsnotifyWrapper) Add(name string) error         { return fw.w.Add(name) }
func (fw *fsnotifyWrapper) Remove(name string) error      { return fw.w.Remove(name) }
func (fw *fsnotifyWrapper) Close() error                  { return fw.w.Close() }
func (fw *fsnotifyWrapper) Events() <-chan fsnotify.Event { return fw.w.Events }
func (fw *fsnotifyWrapper) Errors() <-chan error          { return fw.w.Errors }

// Watcher is the Filesystem Watcher (C8): it subscribes recursively to a
// sync root, coalesces bursts of events behind a debounce window, and
// posts a cycle request on the channel passed to Run. It never performs
// sync work itself.
type Watcher struct {
	root           string
	debounce       time.Duration
	logger         *slog.Logger
	watcherFactory func() (FsWatcher, error)
}

// NewWatcher creates a Watcher over root with the given debounce window.
func NewWatcher(root string, debounce time.Duration, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		root:     root,
		debounce: debounce,
		logger:   logger,
		watcherFactory: func() (FsWatcher, error) {
			w, err := fsnotify.NewWatcher()
			if err != nil {
				return nil, err
			}

			return &fsnotifyWrapper{w: w}, nil
		},
	}
}

// Run subscribes to root recursively and sends on trigger every time the
// debounce window elapses after a burst of non-hidden-path events. Run
// blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context, trigger chan<- struct{}) error {
	fw, err := w.watcherFactory()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := w.addRecursive(fw, w.root); err != nil {
		return err
	}

	var debounceTimer *time.Timer
	var debounceC <-chan time.Time

	resetDebounce := func() {
		if debounceTimer == nil {
			debounceTimer = time.NewTimer(w.debounce)
		} else {
			if !debounceTimer.Stop() {
				select {
				case <-debounceTimer.C:
				default:
				}
			}

			debounceTimer.Reset(w.debounce)
		}

		debounceC = debounceTimer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events():
			if !ok {
				return nil
			}

			if isHiddenPath(ev.Name, w.root) {
				continue
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := w.addRecursive(fw, ev.Name); addErr != nil {
						w.logger.Warn("watcher: failed to watch new directory", "path", ev.Name, "error", addErr)
					}
				}
			}

			resetDebounce()

		case err, ok := <-fw.Errors():
			if !ok {
				return nil
			}

			w.logger.Warn("watcher: fsnotify error", "error", err)

		case <-debounceC:
			debounceC = nil

			select {
			case trigger <- struct{}{}:
			default:
			}
		}
	}
}

// addRecursive registers root and every subdirectory beneath it with fw,
// skipping hidden directories.
func (w *Watcher) addRecursive(fw FsWatcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // best-effort: skip unreadable entries
		}

		if !d.IsDir() {
			return nil
		}

		if isHiddenPath(path, w.root) && path != root {
			return filepath.SkipDir
		}

		if addErr := fw.Add(path); addErr != nil {
			w.logger.Warn("watcher: failed to watch directory", "path", path, "error", addErr)
		}

		return nil
	})
}

// isHiddenPath reports whether path, relative to root, contains a segment
// beginning with a dot.
func isHiddenPath(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}

	return hasHiddenSegment("/" + filepath.ToSlash(rel))
}
