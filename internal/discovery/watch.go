package discovery

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ramonehamilton/pauper-combos/internal/cards/features"
)

// reloadDelay lets a burst of events for one snapshot rewrite settle.
const reloadDelay = 250 * time.Millisecond

// Watch reloads the card pool whenever the file at path is rewritten, until
// ctx is done. The parent directory is watched because snapshots are
// replaced by rename. onReload, when set, is called after each attempt.
func (e *Explorer) Watch(ctx context.Context, path string, load func() ([]features.Record, error), onReload func(n int, err error)) (err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}
	target := filepath.Clean(path)

	timer := time.NewTimer(reloadDelay)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

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
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				timer.Reset(reloadDelay)
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.logger().Warn("File watcher error", "error", werr)
		case <-timer.C:
			records, lerr := load()
			if lerr != nil {
				e.logger().Warn("Failed to reload cards", "path", path, "error", lerr)
			} else {
				e.Replace(records)
				e.logger().Info("Reloaded cards", "path", path, "count", len(records))
			}
			if onReload != nil {
				onReload(len(records), lerr)
			}
		}
	}
}
