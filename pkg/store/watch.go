package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType describes the nature of a storage change notification.
type EventType int

const (
	// EventReportsChanged indicates the persisted report mapping was written,
	// possibly by another process.
	EventReportsChanged EventType = iota

	// EventWatchError signals the watcher could not classify a change and
	// callers should re-check the store.
	EventWatchError
)

// Event is emitted by Watch when the storage directory changes.
type Event struct {
	Type EventType
	Err  error
}

// Watch streams change events for the report mapping stored under dir until
// ctx is cancelled. Bursts of writes are coalesced. The channel is closed
// once ctx is done or the watcher fails.
func Watch(ctx context.Context, dir string) (<-chan Event, error) {
	if dir == "" {
		return nil, errors.New("store: watch directory unknown")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			if err := watcher.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "store: watcher close: %v\n", err)
			}
		})
	}

	if err := watcher.Add(dir); err != nil {
		closeWatcher()
		return nil, fmt.Errorf("store: watch %s: %w", dir, err)
	}

	target := filepath.Join(filepath.Clean(dir), StorageKey)
	events := make(chan Event, 8)

	go func() {
		defer close(events)
		defer closeWatcher()

		send := func(ev Event) {
			select {
			case events <- ev:
			default:
				// The consumer re-reads the store on any event, so a dropped
				// duplicate loses nothing.
			}
		}

		throttle := newEventThrottle(100 * time.Millisecond)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				throttle.Enqueue(Event{Type: EventWatchError, Err: err}, send)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != target {
					continue
				}
				if evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				throttle.Enqueue(Event{Type: EventReportsChanged}, send)
			}
		}
	}()

	return events, nil
}

// Stale reports whether the persisted mapping no longer matches what this
// store last wrote or loaded, meaning another writer touched it.
func (s *Store) Stale() bool {
	if s.kv == nil {
		return false
	}
	disk, err := s.kv.Read(StorageKey)
	if err != nil {
		disk = nil
	}
	s.mu.RLock()
	mine, err := json.Marshal(s.reports)
	empty := len(s.reports) == 0
	s.mu.RUnlock()
	if err != nil {
		return false
	}
	if len(disk) == 0 {
		return !empty
	}
	if bytes.Equal(bytes.TrimSpace(disk), mine) {
		return false
	}
	// Tolerate formatting differences from other writers.
	return !sameMapping(disk, s.Reports())
}

func sameMapping(disk []byte, mine Reports) bool {
	other, _, err := decodeReports(disk)
	if err != nil || len(other) != len(mine) {
		return false
	}
	for k, v := range mine {
		o, ok := other[k]
		if !ok || !o.Equal(v) {
			return false
		}
	}
	return true
}

// eventThrottle coalesces rapid change notifications so the UI reacts once
// per burst of filesystem activity.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[EventType]Event
	delay   time.Duration
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[EventType]Event),
	}
}

func (t *eventThrottle) Enqueue(ev Event, send func(Event)) {
	t.mu.Lock()
	t.pending[ev.Type] = ev
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
	t.mu.Unlock()
}

func (t *eventThrottle) flush(send func(Event)) {
	t.mu.Lock()
	pending := t.pending
	t.pending = make(map[EventType]Event)
	t.timer = nil
	t.mu.Unlock()

	for _, ev := range pending {
		send(ev)
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
