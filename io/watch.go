package io

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"holo-engine/effects"
)

// WatchParams reloads the parameter file at path whenever it is written and
// sends the new constants on out. Editors that save by renaming a temp file
// over the original are handled by watching the directory. Files that fail
// to parse are logged and skipped. WatchParams blocks until ctx is done.
func WatchParams(ctx context.Context, path string, out chan<- effects.HoloParams) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch params: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch params: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch params: %w", err)
	}
	slog.Debug("watching params file", "path", abs)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			file, err := LoadParams(abs)
			if err != nil {
				slog.Warn("ignoring params file change", "path", abs, "err", err)
				continue
			}
			slog.Info("params file reloaded", "path", abs, "name", file.Name)
			select {
			case out <- file.Holo.ToParams():
			case <-ctx.Done():
				return nil
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("params watcher error", "err", err)
		}
	}
}
