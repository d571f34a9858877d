package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/sensemill/logweave/internal/registry"
)

// Watch reloads the template table at path whenever the file changes and
// hands the fresh rows to apply. A reload that fails to load or apply is
// logged and skipped; the previous table stays in effect. Blocks until
// ctx is cancelled.
//
// The parent directory is watched, not the file itself: editors and
// atomic writers replace the file, which would drop a file-level watch.
func Watch(ctx context.Context, path string, apply func([]registry.Row) error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("catalog: watch: %w", err)
	}
	defer w.Close()

	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("catalog: watch %s: %w", dir, err)
	}
	target := filepath.Clean(path)
	slog.Info("watching template table", "path", target)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			rows, err := Load(path)
			if err != nil {
				slog.Error("template table reload failed", "error", err)
				continue
			}
			if err := apply(rows); err != nil {
				slog.Error("template table rejected", "error", err)
				continue
			}
			slog.Info("template table reloaded", "types", len(rows))
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Error("template table watch error", "error", err)
		}
	}
}
