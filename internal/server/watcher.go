package server

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/coursefind-cli/internal/logger"
)

// rebuildDebounce coalesces the burst of write events an editor or
// scraper emits while replacing the courses file.
const rebuildDebounce = 500 * time.Millisecond

// WatchCourses watches the course file and calls rebuild when it
// changes. Rebuild failures are logged and the watch continues; the
// previous index stays live until a rebuild succeeds. Blocks until the
// context is cancelled.
func WatchCourses(ctx context.Context, path string, rebuild func(context.Context) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors and atomic writers
	// replace the file, which drops a direct watch.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	target := filepath.Clean(path)
	logger.Info("watching %s for changes", target)

	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(rebuildDebounce)
				timerCh = timer.C
			} else {
				// A fired-but-unread tick left in the channel would
				// trigger a second rebuild right after the reset one.
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(rebuildDebounce)
			}

		case <-timerCh:
			timer = nil
			timerCh = nil
			logger.Section("Rebuilding Index")
			if err := rebuild(ctx); err != nil {
				logger.Error("rebuild failed, keeping previous index: %v", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: %v", err)
		}
	}
}
