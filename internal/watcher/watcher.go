// Package watcher reloads configuration snapshots when they change on disk.
//
// It is used by `nagmodel watch`.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/aidanlsb/nagmodel/internal/logging"
)

// Watcher monitors snapshot files and runs a reload callback once writes settle.
type Watcher struct {
	paths map[string]bool
	dirs  []string

	// Configuration
	debounceDelay time.Duration
	log           logrus.FieldLogger

	// Internal state
	fsWatcher *fsnotify.Watcher
	pending   map[string]time.Time
	mu        sync.Mutex

	// Callbacks
	onChange func(path string) error
	onReload func(path string, err error)
}

// Config holds configuration options for the Watcher.
type Config struct {
	// Paths are the snapshot files to watch. Their directories are
	// watched so atomic rename-over writes are seen.
	Paths         []string
	DebounceDelay time.Duration // Default: 100ms
	Log           logrus.FieldLogger

	// OnChange reloads a changed file. Required.
	OnChange func(path string) error
	// OnReload reports the outcome of each OnChange call. Optional.
	OnReload func(path string, err error)
}

// New creates a new Watcher with the given configuration.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Paths) == 0 {
		return nil, fmt.Errorf("at least one path is required")
	}
	if cfg.OnChange == nil {
		return nil, fmt.Errorf("change callback is required")
	}

	debounce := cfg.DebounceDelay
	if debounce == 0 {
		debounce = 100 * time.Millisecond
	}
	log := cfg.Log
	if log == nil {
		log = logging.Discard()
	}

	w := &Watcher{
		paths:         make(map[string]bool),
		debounceDelay: debounce,
		log:           log,
		pending:       make(map[string]time.Time),
		onChange:      cfg.OnChange,
		onReload:      cfg.OnReload,
	}
	seenDirs := make(map[string]bool)
	for _, p := range cfg.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		w.paths[abs] = true
		dir := filepath.Dir(abs)
		if !seenDirs[dir] {
			seenDirs[dir] = true
			w.dirs = append(w.dirs, dir)
		}
	}
	return w, nil
}

// Start begins watching for file changes.
// It blocks until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	var err error
	w.fsWatcher, err = fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer w.fsWatcher.Close()

	for _, dir := range w.dirs {
		if err := w.fsWatcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		w.log.WithField("dir", dir).Debug("watching directory")
	}

	go w.processDebounced(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.log.WithError(err).Warn("watcher error")
		}
	}
}

// handleEvent processes a single filesystem event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	path, err := filepath.Abs(event.Name)
	if err != nil || !w.paths[path] {
		return
	}

	w.log.WithFields(logrus.Fields{"op": event.Op.String(), "path": path}).Debug("file event")

	// Remove and Rename are the first half of an atomic replace; the
	// following Create schedules the reload.
	if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
		w.schedule(path)
	}
}

// schedule adds a file to the pending reload queue with debouncing.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[path] = time.Now()
}

// processDebounced processes pending reloads after the debounce delay.
func (w *Watcher) processDebounced(ctx context.Context) {
	ticker := time.NewTicker(w.tick())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.processPending()
		}
	}
}

func (w *Watcher) tick() time.Duration {
	if d := w.debounceDelay / 2; d > 0 && d < 50*time.Millisecond {
		return d
	}
	return 50 * time.Millisecond
}

// processPending reloads files whose last event is older than the debounce delay.
func (w *Watcher) processPending() {
	w.mu.Lock()
	now := time.Now()
	ready := make([]string, 0)

	for path, scheduledAt := range w.pending {
		if now.Sub(scheduledAt) >= w.debounceDelay {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range ready {
		err := w.onChange(path)
		if w.onReload != nil {
			w.onReload(path, err)
		}
		entry := w.log.WithField("path", path)
		if err != nil {
			entry.WithError(err).Warn("reload failed")
		} else {
			entry.Debug("reloaded")
		}
	}
}
