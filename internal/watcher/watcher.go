// Package watcher reloads the bar when the configuration file changes
// on disk.
//
// It watches the file's directory rather than the file itself, since
// most editors replace files by rename, and debounces rapid write
// bursts into a single change callback.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/conneroisu/barcore/internal/logging"
)

// ChangeHandler runs after the watched file settles.
type ChangeHandler func()

// ConfigWatcher watches one configuration file.
type ConfigWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	handler  ChangeHandler
	log      logging.Logger
	done     chan struct{}
}

// New creates a watcher for the given file path.
func New(path string, debounce time.Duration, handler ChangeHandler, log logging.Logger) (*ConfigWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	if log == nil {
		log = logging.Nop()
	}

	return &ConfigWatcher{
		watcher:  fsw,
		path:     abs,
		debounce: debounce,
		handler:  handler,
		log:      log.WithComponent("watcher"),
		done:     make(chan struct{}),
	}, nil
}

// Start runs the watch loop until the context is cancelled or Stop is
// called.
func (w *ConfigWatcher) Start(ctx context.Context) {
	go w.loop(ctx)
}

func (w *ConfigWatcher) loop(ctx context.Context) {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debug("config file changed", "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error(err, "watch error")
		case <-fire:
			fire = nil
			w.log.Info("configuration changed, refreshing")
			w.handler()
		}
	}
}

func (w *ConfigWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// Stop shuts the watcher down.
func (w *ConfigWatcher) Stop() {
	close(w.done)
	w.watcher.Close()
}
