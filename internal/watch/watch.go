// Package watch signals when the database file is changed by another process,
// so an open TUI can pick up logs written from the command line.
package watch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"
)

type Watcher struct {
	watcher  *fsnotify.Watcher
	names    map[string]bool
	debounce time.Duration
	events   chan struct{}
	logger   hclog.Logger
	wg       sync.WaitGroup
}

// New watches the directory of dbPath and reports writes to the database and
// its WAL/journal files, coalescing bursts within debounce.
func New(dbPath string, debounce time.Duration, logger hclog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(dbPath)); err != nil {
		fsw.Close()
		return nil, err
	}

	base := filepath.Base(dbPath)
	w := &Watcher{
		watcher:  fsw,
		names:    map[string]bool{base: true, base + "-wal": true, base + "-journal": true},
		debounce: debounce,
		events:   make(chan struct{}, 1),
		logger:   logger.Named("watch"),
	}
	w.wg.Add(1)
	go w.processEvents()
	return w, nil
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()
	defer close(w.events)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.names[filepath.Base(event.Name)] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			select {
			case w.events <- struct{}{}:
			default:
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Log error but continue running
			w.logger.Warn("file watch error", "error", err)
		}
	}
}

// Events delivers one value per settled burst of changes. It is closed by Close.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

func (w *Watcher) Close() error {
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}
