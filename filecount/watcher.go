package filecount

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Invalidator is the part of the cache the watcher needs.
type Invalidator interface {
	Invalidate(key string) bool
}

/*
Watcher invalidates a cache key whenever anything under Root is created,
written, removed or renamed. fsnotify is not recursive, so every directory
is added on start and new directories are added as they appear.
*/
type Watcher struct {
	root    string
	key     string
	cache   Invalidator
	watcher *fsnotify.Watcher
	logger  *log.Logger
}

// NewWatcher starts watching root. Call Run to process events and Close when done.
func NewWatcher(root, key string, cache Invalidator, logger *log.Logger) (*Watcher, error) {
	if logger == nil {
		logger = log.Default()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{root: root, key: key, cache: cache, watcher: fw, logger: logger}
	if err := w.addTree(root); err != nil {
		_ = fw.Close()
		return nil, err
	}
	logger.Info("watching scan root", "dir", root, "key", key)
	return w, nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return w.watcher.Add(path)
	})
}

// Run handles events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("fsnotify error", "dir", w.root, "error", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	if event.Has(fsnotify.Create) {
		if err := w.addTree(event.Name); err != nil {
			w.logger.Debug("unable to watch new path", "path", event.Name, "error", err)
		}
	}

	if w.cache.Invalidate(w.key) {
		w.logger.Info("scan root changed, cached count invalidated", "file", event.Name, "op", event.Op, "key", w.key)
		return
	}
	w.logger.Debug("fsnotify event", "file", event.Name, "op", event.Op)
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}
