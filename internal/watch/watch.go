// File: watch.go
// Title: Source File Watching
// Description: Calls back after a watched file was written, coalescing
//              bursts of events with a debounce delay.
// Created: 2026-10-17

package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	mserror "github.com/msto63/microscheme/pkg/core/error"
	"github.com/msto63/microscheme/pkg/core/logging"
)

// DefaultDebounce is used when Options.Debounce is zero
const DefaultDebounce = 300 * time.Millisecond

// Options configures a Watcher
type Options struct {
	Debounce time.Duration
	Logger   *logging.Logger
}

// Watcher watches a single file. The parent directory is watched so that
// editors replacing the file through a rename are still noticed.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *logging.Logger
}

// New creates a watcher for path
func New(path string, opts Options) *Watcher {
	w := &Watcher{
		path:     filepath.Clean(path),
		debounce: opts.Debounce,
		logger:   opts.Logger,
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.logger == nil {
		w.logger = logging.New("watch")
	}
	return w
}

// Run blocks until ctx is done, calling onChange once per burst of writes
// to the file. onChange runs on the watcher goroutine.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return mserror.Wrap(err, "failed to create watcher").
			WithCode(mserror.CodeInternal).
			WithOperation("watch.Run")
	}
	defer watcher.Close()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return mserror.Wrap(err, "failed to watch directory").
			WithCode(mserror.CodeFileRead).
			WithOperation("watch.Run").
			WithDetail("dir", dir)
	}
	w.logger.Info("watching file", "path", w.path, "debounce", w.debounce.String())

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("stopping watcher", "path", w.path)
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("file event", "path", event.Name, "op", event.Op.String())
			timer.Reset(w.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "path", w.path, "error", err)

		case <-timer.C:
			onChange()
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}
