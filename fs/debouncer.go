package fs

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// EventType represents the type of filesystem event
type EventType int

const (
	EventCreate EventType = iota
	EventWrite
	EventDelete
)

// DefaultDebounceDelay is long enough to absorb an editor's save burst
// (write temp, rename, chmod) and a `git checkout` touching many files.
const DefaultDebounceDelay = 300 * time.Millisecond

// String returns the string representation of an EventType
func (e EventType) String() string {
	switch e {
	case EventCreate:
		return "create"
	case EventWrite:
		return "write"
	case EventDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Change is one path that changed during a quiet period
type Change struct {
	Path string
	Type EventType
}

// debouncer collects events for a whole tree and flushes them as one batch
// once no new event has arrived for the delay period. A re-import is
// expensive, so every event resets the single shared timer.
type debouncer struct {
	pending  map[string]EventType
	mu       sync.Mutex
	timer    *time.Timer
	delay    time.Duration
	onFlush  func(changes []Change)
	stopping atomic.Bool
}

func newDebouncer(delay time.Duration, onFlush func(changes []Change)) *debouncer {
	return &debouncer{
		pending: make(map[string]EventType),
		delay:   delay,
		onFlush: onFlush,
	}
}

// Queue records an event and restarts the quiet period.
// Returns false if the debouncer is stopping and the event was ignored.
func (d *debouncer) Queue(path string, eventType EventType) bool {
	if d.stopping.Load() {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopping.Load() {
		return false
	}

	// CREATE then WRITE stays a create; anything then DELETE is a delete
	if prev, ok := d.pending[path]; !ok || eventType != EventWrite || prev == EventDelete {
		d.pending[path] = eventType
	}

	if d.timer == nil {
		d.timer = time.AfterFunc(d.delay, d.flush)
	} else {
		d.timer.Reset(d.delay)
	}
	return true
}

func (d *debouncer) flush() {
	d.mu.Lock()
	if len(d.pending) == 0 || d.stopping.Load() {
		d.mu.Unlock()
		return
	}
	changes := make([]Change, 0, len(d.pending))
	for p, t := range d.pending {
		changes = append(changes, Change{Path: p, Type: t})
	}
	d.pending = make(map[string]EventType)
	d.mu.Unlock()

	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	d.onFlush(changes)
}

// Stop cancels the pending batch and prevents new events from being queued
func (d *debouncer) Stop() {
	d.stopping.Store(true)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = make(map[string]EventType)
}

// PendingCount returns the number of paths waiting for the next flush
func (d *debouncer) PendingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}
