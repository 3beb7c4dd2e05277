package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/reusee/tailambda/logs"
	"github.com/samber/lo"
)

const debounce = 100 * time.Millisecond

// watch calls onChange with a path after the file is written, until ctx is
// done. Bursts of events within debounce yield one call.
func watch(ctx context.Context, paths []string, logger logs.Logger, onChange func(path string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return wrap(err)
	}
	defer watcher.Close()

	watched := make(map[string]string)
	for _, path := range paths {
		if path == "-" {
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return wrap(err)
		}
		watched[abs] = path
	}
	// directories, since editors often replace the file on save
	dirs := lo.Uniq(lo.Map(lo.Keys(watched), func(path string, _ int) string {
		return filepath.Dir(path)
	}))
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return wrap(err)
		}
	}
	logger.InfoContext(ctx, "watching", "files", lo.Values(watched))

	pending := make(map[string]bool)
	var fire <-chan time.Time
	for {
		select {

		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			path, ok := watched[abs]
			if !ok {
				continue
			}
			pending[path] = true
			fire = time.After(debounce)

		case <-fire:
			fire = nil
			for path := range pending {
				logger.DebugContext(ctx, "changed", "path", path)
				onChange(path)
			}
			clear(pending)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.WarnContext(ctx, "watch", "error", err)
		}
	}
}
