package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchSettle delays a replay until editors have finished writing.
const watchSettle = 150 * time.Millisecond

// RunWatch replays the scenarios every time one of them changes on disk,
// until ctx is cancelled. Failing scenarios are reported and do not stop
// the watcher.
func RunWatch(ctx context.Context, opts SimulateOptions, out io.Writer, logger *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	dirs, files, err := watchTargets(opts.Paths)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	logger.Info("Starting Watcher", "dirs", dirs)

	replay := func() {
		if err := Simulate(ctx, opts, out, logger); err != nil && !isInterrupted(err) {
			printSystemMessage(out, "%v", err)
		}
		printSystemMessage(out, "Waiting for changes...")
	}
	replay()

	var settle <-chan time.Time
	var changed string
	for {
		select {
		case <-ctx.Done():
			logger.Info("Stopping watcher", "reason", ctx.Err())
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(ev, files) {
				continue
			}
			changed = ev.Name
			settle = time.After(watchSettle)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "err", err)
		case <-settle:
			settle = nil
			logger.Info("Change detected, triggering replay", "file", changed)
			printSystemMessage(out, "Change detected in '%s'.", changed)
			replay()
		}
	}
}

// watchTargets returns the directories to watch and, when individual files
// were given, the set of files whose changes matter. Directories given
// directly match any scenario file inside them.
func watchTargets(paths []string) ([]string, map[string]bool, error) {
	dirSet := make(map[string]bool)
	files := make(map[string]bool)
	var dirs []string
	anyDir := false
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, nil, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, nil, err
		}
		dir := abs
		if !info.IsDir() {
			dir = filepath.Dir(abs)
			files[abs] = true
		} else {
			anyDir = true
		}
		if !dirSet[dir] {
			dirSet[dir] = true
			dirs = append(dirs, dir)
		}
	}
	if anyDir {
		files = nil
	}
	return dirs, files, nil
}

func relevant(ev fsnotify.Event, files map[string]bool) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	if !isScenarioFile(ev.Name) {
		return false
	}
	if files == nil {
		return true
	}
	abs, err := filepath.Abs(ev.Name)
	return err == nil && files[abs]
}
