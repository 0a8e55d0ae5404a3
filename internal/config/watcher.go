package config

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultReloadDelay coalesces the burst of events editors produce on save.
const DefaultReloadDelay = 200 * time.Millisecond

// Event reports that one of the watched files changed.
type Event struct {
	Name string
	Path string
}

// Watcher watches the config directory and emits one Event per file per
// quiet period.
type Watcher struct {
	fsw    *fsnotify.Watcher
	events chan Event
	delay  time.Duration
	names  map[string]bool

	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool
	done   chan struct{}
}

// Watch starts watching dir for changes to the given base names. The
// directory is watched rather than the files so atomic renames are seen.
func Watch(dir string, delay time.Duration, names ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}
	w := &Watcher{
		fsw:    fsw,
		events: make(chan Event, 8),
		delay:  delay,
		names:  make(map[string]bool, len(names)),
		timers: make(map[string]*time.Timer),
		done:   make(chan struct{}),
	}
	for _, n := range names {
		w.names[n] = true
	}
	go w.loop()
	return w, nil
}

// Events delivers debounced change notifications. It is closed by Close.
func (w *Watcher) Events() <-chan Event { return w.events }

// Close stops the watcher.
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	<-w.done
	return err
}

func (w *Watcher) loop() {
	defer func() {
		w.mu.Lock()
		w.closed = true
		for _, t := range w.timers {
			t.Stop()
		}
		w.mu.Unlock()
		close(w.events)
		close(w.done)
	}()

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			name := filepath.Base(ev.Name)
			if !w.names[name] {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.arm(name, ev.Name)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("config watcher error", slog.Any("err", err))
		}
	}
}

func (w *Watcher) arm(name, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t := w.timers[name]; t != nil {
		t.Stop()
	}
	w.timers[name] = time.AfterFunc(w.delay, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.closed {
			return
		}
		select {
		case w.events <- Event{Name: name, Path: path}:
		default:
		}
	})
}
