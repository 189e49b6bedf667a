// Package watch re-runs a callback whenever files under the examples tree change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/ariel-frischer/examplecheck/internal/logging"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period that ends a burst of events.
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches a directory tree.
type Watcher struct {
	Root     string
	SkipDirs []string      // Directory names never watched, e.g. build output
	Debounce time.Duration // 0 means DefaultDebounce
	Logger   *zap.Logger
}

// Run watches w.Root and calls fn once per burst of changes until ctx is cancelled. fn runs
// on the watching goroutine, so events arriving while it runs are coalesced into the next
// burst.
func (w *Watcher) Run(ctx context.Context, fn func()) error {
	logger := logging.OrNop(w.Logger)
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := w.addTree(watcher, w.Root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.Root, err)
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.Relevant(event) {
				continue
			}
			logger.Debug("change detected", zap.String("path", event.Name), zap.Stringer("op", event.Op))

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(watcher, event.Name); err != nil {
						logger.Warn("failed to watch new directory", zap.String("path", event.Name), zap.Error(err))
					}
				}
			}
			timer.Reset(debounce)

		case <-timer.C:
			fn()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		}
	}
}

// Relevant reports whether event should trigger a run. Attribute-only changes and paths
// inside skipped directories are ignored.
func (w *Watcher) Relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	return !w.Skipped(event.Name)
}

// Skipped reports whether path lies in a skipped directory below the root.
func (w *Watcher) Skipped(path string) bool {
	rel, err := filepath.Rel(w.Root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if slices.Contains(w.SkipDirs, part) {
			return true
		}
	}
	return false
}

// addTree adds dir and every directory below it that is not skipped.
func (w *Watcher) addTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.Root && w.Skipped(path) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
