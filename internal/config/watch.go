package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 250 * time.Millisecond

// Watch reloads path whenever it or one of its included files changes and
// passes each successfully validated result to onChange. Invalid edits are
// logged and skipped. Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, path string, logger *slog.Logger, onChange func(*LoadResult)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer watcher.Close()

	// Directories are watched rather than files because editors usually
	// replace a file by renaming over it.
	watched := map[string]struct{}{}
	watchDirs := func(files []string) {
		for _, f := range files {
			dir := filepath.Dir(f)
			if _, ok := watched[dir]; ok {
				continue
			}
			if err := watcher.Add(dir); err != nil {
				logger.Warn("config watch failed", "dir", dir, "error", err)
				continue
			}
			watched[dir] = struct{}{}
		}
	}

	relevant := map[string]struct{}{}
	track := func(files []string) {
		for _, f := range files {
			relevant[filepath.Clean(f)] = struct{}{}
		}
		watchDirs(files)
	}
	track([]string{path})
	if res, err := LoadFromPath(path); err == nil {
		track(res.Files)
	}

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if _, ok := relevant[filepath.Clean(ev.Name)]; !ok {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			fire = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher error", "error", err)
		case <-fire:
			fire = nil
			res, err := LoadFromPath(path)
			if err != nil {
				logger.Warn("config reload rejected", "error", err)
				continue
			}
			track(res.Files)
			logger.Info("config reloaded", "files", len(res.Files))
			onChange(res)
		}
	}
}
