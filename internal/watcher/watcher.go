// Package watcher surfaces newly written network documents from the input
// directory.
package watcher

import (
	"context"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a directory for new or rewritten .inp documents
type Watcher struct {
	dir      string
	onInput  func(path string)
	debounce time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// New creates a directory watcher; onInput receives the absolute path of
// each settled document
func New(dir string, onInput func(path string)) *Watcher {
	return &Watcher{
		dir:      dir,
		onInput:  onInput,
		debounce: 500 * time.Millisecond,
		timers:   make(map[string]*time.Timer),
	}
}

// WithDebounce sets the debounce duration
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// Watch starts watching the directory for changes.
// It blocks until the context is cancelled or an error occurs.
func (w *Watcher) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return err
	}

	log.Printf("Watching %s for network documents", w.dir)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !isInputDocument(event.Name) {
				continue
			}

			// Writers emit bursts of events; editors often replace via
			// rename. Debounce per path until the file settles.
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.schedule(event.Name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Watcher error: %v", err)

		case <-ctx.Done():
			w.stopTimers()
			return ctx.Err()
		}
	}
}

// schedule arms (or re-arms) the debounce timer for one path
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, exists := w.timers[path]; exists {
		timer.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		log.Printf("Input document changed: %s", path)
		w.onInput(path)

		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, timer := range w.timers {
		timer.Stop()
	}
}

// isInputDocument reports whether path names a network document
func isInputDocument(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".inp")
}
