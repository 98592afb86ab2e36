package engine

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits for changes to settle.
const DefaultDebounce = 100 * time.Millisecond

// Watch runs once, then again whenever a module under paths is written or
// created, until ctx is cancelled. Each run is handed to onRun.
func (e *Engine) Watch(ctx context.Context, paths []string, debounce time.Duration, onRun func(*Report, error)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	for _, p := range paths {
		if err := e.watchPath(watcher, p); err != nil {
			return err
		}
	}

	onRun(e.Run(ctx, paths))

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := e.watchPath(watcher, event.Name); err != nil {
						e.logger.Error("failed to watch directory", "dir", event.Name, "error", err)
					}
					continue
				}
			}
			if !e.relevant(event) {
				continue
			}
			e.logger.Debug("file changed", "file", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			onRun(e.Run(ctx, paths))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.logger.Error("watcher error", "error", err)
		}
	}
}

func (e *Engine) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	if filepath.Ext(event.Name) != ".py" {
		return false
	}
	if e.outDir != "" {
		if abs, err := filepath.Abs(event.Name); err == nil && within(abs, e.outDir) {
			return false
		}
	}
	return true
}

// watchPath adds a directory and its subdirectories, or the directory
// holding a file, to the watcher.
func (e *Engine) watchPath(watcher *fsnotify.Watcher, p string) error {
	info, err := os.Stat(p)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return watcher.Add(filepath.Dir(p))
	}
	return filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != p && (d.Name()[0] == '.' || d.Name() == "__pycache__") {
			return filepath.SkipDir
		}
		if e.outDir != "" {
			if abs, err := filepath.Abs(path); err == nil && within(abs, e.outDir) {
				return filepath.SkipDir
			}
		}
		return watcher.Add(path)
	})
}
