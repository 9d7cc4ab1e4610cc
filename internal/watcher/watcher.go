// Package watcher observes the Claude Code data directory and triggers an
// early refresh when new usage data appears, so the dashboard does not wait
// a full polling interval after activity.
package watcher

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/d-hallet/ccwatch-tui/internal/logger"
)

// debounceInterval coalesces the burst of writes a single session produces.
const debounceInterval = 2 * time.Second

// Watcher triggers a callback after (debounced) changes under a directory.
type Watcher struct {
	dir           string
	onActivity    func()
	debounce      time.Duration
	watcher       *fsnotify.Watcher
	debounceTimer *time.Timer
	stopChan      chan struct{}
}

// New creates a watcher for dir. onActivity runs on the watcher goroutine
// after changes settle; it should hand off real work elsewhere.
func New(dir string, onActivity func()) *Watcher {
	return &Watcher{
		dir:        dir,
		onActivity: onActivity,
		debounce:   debounceInterval,
		stopChan:   make(chan struct{}),
	}
}

// Start begins watching the directory and its immediate subdirectories.
// fsnotify does not recurse; project data lives one level down.
func (w *Watcher) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = watcher

	if err := watcher.Add(w.dir); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	entries, err := os.ReadDir(w.dir)
	if err == nil {
		for _, entry := range entries {
			if entry.IsDir() {
				_ = watcher.Add(filepath.Join(w.dir, entry.Name()))
			}
		}
	}

	go w.watchLoop()
	return nil
}

// watchLoop handles file system events with debouncing.
func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			// A new project directory needs its own watch
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.watcher.Add(event.Name)
				}
			}

			if w.debounceTimer != nil {
				w.debounceTimer.Stop()
			}
			w.debounceTimer = time.AfterFunc(w.debounce, w.onActivity)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("data directory watch error", "error", err)

		case <-w.stopChan:
			return
		}
	}
}

// Close stops the watcher and cleans up resources.
func (w *Watcher) Close() error {
	close(w.stopChan)

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}

	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}
