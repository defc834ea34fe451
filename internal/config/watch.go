package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/opencode-ai/opencode-client/internal/logging"
)

// Watch reloads the configuration whenever one of its files changes and
// invokes fn with the result. It blocks until ctx is cancelled. Directories
// that do not exist yet are skipped; the watcher does not create them.
func Watch(ctx context.Context, directory string, fn func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	watched := make(map[string]bool)
	for _, path := range configPaths(directory) {
		dir := filepath.Dir(path)
		if watched[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			logging.Debug().Str("dir", dir).Err(err).Msg("skipping config watch dir")
			continue
		}
		watched[dir] = true
	}

	relevant := make(map[string]bool)
	for _, path := range configPaths(directory) {
		relevant[path] = true
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant[ev.Name] {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			cfg, err := Load(directory)
			if err != nil {
				logging.Warn().Err(err).Msg("config reload failed")
				continue
			}
			logging.Info().Str("file", ev.Name).Msg("config reloaded")
			fn(cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warn().Err(err).Msg("config watcher error")
		}
	}
}
