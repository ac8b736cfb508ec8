package lifecycle

import (
	"sort"
	"sync"
	"time"
)

// Well-known event names.
const (
	EventScroll = "scroll"
	EventResize = "resize"
)

// Event carries the payload of an emitted event.
type Event struct {
	Name    string
	ScrollY int
	Width   int
	Height  int
}

// Events is a small synchronous listener registry, the Go stand-in for window events.
type Events struct {
	mu        sync.Mutex
	next      int
	listeners map[string]map[int]func(Event)
}

// NewEvents returns an empty registry.
func NewEvents() *Events {
	return &Events{listeners: map[string]map[int]func(Event){}}
}

// On registers fn for the named event and returns the disposer removing it.
func (e *Events) On(name string, fn func(Event)) Disposer {
	if fn == nil {
		return func() {}
	}
	e.mu.Lock()
	id := e.next
	e.next++
	if e.listeners[name] == nil {
		e.listeners[name] = map[int]func(Event){}
	}
	e.listeners[name][id] = fn
	e.mu.Unlock()

	return Once(func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.listeners[name], id)
		if len(e.listeners[name]) == 0 {
			delete(e.listeners, name)
		}
	})
}

// Emit calls every listener registered for ev.Name in registration order.
func (e *Events) Emit(ev Event) {
	e.mu.Lock()
	set := e.listeners[ev.Name]
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Event), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, set[id])
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Count returns the number of listeners for name.
func (e *Events) Count(name string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners[name])
}

// Timer is the handle of a scheduled callback.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. Tests substitute a manual implementation.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemClock schedules on the runtime timer heap.
type SystemClock struct{}

// AfterFunc implements Clock.
func (SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
