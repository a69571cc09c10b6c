// Package watcher reports debounced changes to a single file.
//
// The directory holding the file is watched rather than the file itself, so
// editors and atomic saves that replace the file by rename keep being seen.
package watcher

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/rawline/internal/log"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 250 * time.Millisecond

// Config holds watcher configuration options.
type Config struct {
	Path     string
	Debounce time.Duration
}

// DefaultConfig watches path with DefaultDebounce.
func DefaultConfig(path string) Config {
	return Config{Path: path, Debounce: DefaultDebounce}
}

// Watcher sends on its channel once per burst of changes to the file.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	name      string
	debounce  time.Duration
	changed   chan struct{}
	done      chan struct{}
	stopped   chan struct{}
	started   bool
}

// New creates a watcher for cfg.Path. Nothing is watched until Start.
func New(cfg Config) (*Watcher, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("watcher: empty path")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		path:      cfg.Path,
		name:      filepath.Base(cfg.Path),
		debounce:  cfg.Debounce,
		changed:   make(chan struct{}, 1),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}, nil
}

// Start watches the file's directory and returns the change channel.
func (w *Watcher) Start() (<-chan struct{}, error) {
	dir := filepath.Dir(w.path)
	if err := w.fsWatcher.Add(dir); err != nil {
		return nil, fmt.Errorf("watching directory %s: %w", dir, err)
	}
	log.Debug(log.CatConfig, "Watching file", "path", w.path)

	w.started = true
	go w.loop()
	return w.changed, nil
}

// Stop terminates the watcher and waits for its goroutine to exit. It is safe
// to call more than once.
func (w *Watcher) Stop() error {
	select {
	case <-w.done:
		return nil
	default:
	}
	close(w.done)
	err := w.fsWatcher.Close()
	if w.started {
		<-w.stopped
	}
	return err
}

func (w *Watcher) loop() {
	defer close(w.stopped)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.isRelevant(event) {
				continue
			}
			// Restart the window on every event so a burst fires once.
			timer.Stop()
			select {
			case <-timer.C:
			default:
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			select {
			case w.changed <- struct{}{}:
			default:
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatConfig, "File watch error", err, "path", w.path)

		case <-w.done:
			return
		}
	}
}

// isRelevant matches writes and creates of the watched file. A rename onto
// the path arrives as a create.
func (w *Watcher) isRelevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}
	return filepath.Base(event.Name) == w.name
}
