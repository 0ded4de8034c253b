// Package filewatcher provides file system monitoring adapters.
// Clean Architecture: Adapter implementing ports.FileWatcher.
package filewatcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/0xcro3dile/prism/internal/domain/ports"
	"github.com/0xcro3dile/prism/internal/logger"
)

// FSNotifyWatcher implements ports.FileWatcher using fsnotify.
type FSNotifyWatcher struct {
	watcher    *fsnotify.Watcher
	extensions []string      // File extensions to watch (e.g., ".pdf", ".txt")
	debounce   time.Duration // Quiet period before a burst of events is emitted
	log        logger.Logger
}

// NewFSNotifyWatcher creates a new file watcher.
func NewFSNotifyWatcher(extensions []string, debounce time.Duration, log logger.Logger) (*FSNotifyWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if len(extensions) == 0 {
		extensions = []string{".pdf", ".txt", ".md", ".markdown"}
	}
	if log == nil {
		log = logger.GetDefault()
	}

	return &FSNotifyWatcher{
		watcher:    w,
		extensions: extensions,
		debounce:   debounce,
		log:        log,
	}, nil
}

// Watch monitors a directory, or a single file. A file is watched through
// its parent directory so editors that replace the file on save keep
// producing events.
func (w *FSNotifyWatcher) Watch(ctx context.Context, path string) (<-chan ports.FileEvent, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	dir, only := path, ""
	if !info.IsDir() {
		dir, only = filepath.Dir(path), filepath.Clean(path)
	}
	if err := w.watcher.Add(dir); err != nil {
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	events := make(chan ports.FileEvent, 100)
	go w.loop(ctx, only, events)
	return events, nil
}

func (w *FSNotifyWatcher) loop(ctx context.Context, only string, events chan<- ports.FileEvent) {
	defer close(events)

	pending := make(map[string]ports.FileOperation)
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	flush := func() bool {
		paths := make([]string, 0, len(pending))
		for p := range pending {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		for _, p := range paths {
			select {
			case events <- ports.FileEvent{Path: p, Operation: pending[p]}:
			case <-ctx.Done():
				return false
			}
			delete(pending, p)
		}
		return true
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			if !flush() {
				return
			}
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			// A watched file is matched by path alone, whatever its extension.
			if only != "" {
				if filepath.Clean(event.Name) != only {
					continue
				}
			} else if !w.isWatchedExtension(event.Name) {
				continue
			}

			var op ports.FileOperation
			switch {
			case event.Op&fsnotify.Create == fsnotify.Create:
				op = ports.FileCreated
			case event.Op&fsnotify.Write == fsnotify.Write:
				op = ports.FileModified
			case event.Op&fsnotify.Remove == fsnotify.Remove, event.Op&fsnotify.Rename == fsnotify.Rename:
				op = ports.FileDeleted
			default:
				continue
			}
			w.log.Debug("file event", "path", event.Name, "op", op)

			// A create followed by writes is still a create.
			if prev, seen := pending[event.Name]; !seen || prev != ports.FileCreated || op == ports.FileDeleted {
				pending[event.Name] = op
			}
			if w.debounce <= 0 {
				if !flush() {
					return
				}
				continue
			}
			timer.Reset(w.debounce)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("file watcher error", "error", err)
		}
	}
}

// Stop stops the watcher.
func (w *FSNotifyWatcher) Stop() error {
	return w.watcher.Close()
}

// isWatchedExtension checks if the file has a watched extension.
func (w *FSNotifyWatcher) isWatchedExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range w.extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}
