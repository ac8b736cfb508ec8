package layout

import (
	"sync"

	"finitefield.org/konstruksi-web/internal/lifecycle"
)

// ScrollThreshold is the scroll offset in pixels past which the navbar turns solid.
const ScrollThreshold = 44

// Shell holds the per-render presentational state of the page chrome.
type Shell struct {
	mu       sync.Mutex
	scrolled bool
	mounted  bool
}

// Mount registers the scroll listener. The listener is removed when scope closes.
// Mounting twice is a no-op.
func (s *Shell) Mount(scope *lifecycle.Scope, events *lifecycle.Events) {
	s.mu.Lock()
	if s.mounted {
		s.mu.Unlock()
		return
	}
	s.mounted = true
	s.mu.Unlock()

	off := events.On(lifecycle.EventScroll, func(ev lifecycle.Event) {
		s.mu.Lock()
		s.scrolled = ev.ScrollY > ScrollThreshold
		s.mu.Unlock()
	})
	scope.Add(func() {
		off()
		s.mu.Lock()
		s.mounted = false
		s.mu.Unlock()
	})
}

// Scrolled reports whether the last scroll event was past ScrollThreshold.
func (s *Shell) Scrolled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scrolled
}
