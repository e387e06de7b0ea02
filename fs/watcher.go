package fs

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/xiaoyuanzhu-com/project-import/log"
)

// WatchOptions configures Watch
type WatchOptions struct {
	Filter *PathFilter
	Delay  time.Duration
}

// watcher keeps an fsnotify watch on every non-excluded directory of a tree
type watcher struct {
	root      string
	filter    *PathFilter
	watcher   *fsnotify.Watcher
	debouncer *debouncer
}

// Watch calls onChange with each batch of changes under root until ctx is
// cancelled. Excluded paths (node_modules, .git, ...) never trigger a batch.
func Watch(ctx context.Context, root string, opts WatchOptions, onChange func(changes []Change)) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	w := &watcher{
		root:    abs,
		filter:  opts.Filter,
		watcher: fw,
	}
	if w.filter == nil {
		w.filter = DefaultPathFilter()
	}
	delay := opts.Delay
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}
	w.debouncer = newDebouncer(delay, onChange)
	defer w.debouncer.Stop()

	if err := w.watchRecursive(abs); err != nil {
		return err
	}

	log.Info().Str("root", abs).Msg("watching folder for changes")

	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("watcher error")

		case <-ctx.Done():
			return nil
		}
	}
}

// watchRecursive adds all directories under dir to the watcher
func (w *watcher) watchRecursive(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if path != w.root && w.filter.IsExcludedName(info.Name()) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("failed to watch directory")
		}
		return nil
	})
}

func (w *watcher) handleEvent(event fsnotify.Event) {
	relPath, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return
	}
	if w.filter.IsExcluded(relPath) {
		return
	}
	relPath = filepath.ToSlash(relPath)

	info, err := os.Stat(event.Name)
	if err != nil {
		// Remove and Rename both mean the path is gone
		if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
			w.debouncer.Queue(relPath, EventDelete)
		}
		return
	}

	if info.IsDir() {
		if event.Op&fsnotify.Create != 0 {
			// Files created inside before the watch lands are picked up by
			// the re-walk that the batch triggers.
			if err := w.watchRecursive(event.Name); err != nil {
				log.Warn().Err(err).Str("path", event.Name).Msg("failed to watch new directory")
			}
			w.debouncer.Queue(relPath, EventCreate)
		}
		return
	}

	switch {
	case event.Op&fsnotify.Create != 0:
		w.debouncer.Queue(relPath, EventCreate)
	case event.Op&fsnotify.Write != 0:
		w.debouncer.Queue(relPath, EventWrite)
	}
}
