// Package lifecycle ties timers, listeners and other per-render resources to an owner.
// Every registration returns a Disposer; the owning Scope runs them exactly once on Close.
package lifecycle

import (
	"context"
	"sync"
)

// Disposer releases one resource. Calling it more than once has no further effect
// when it was obtained from Once or from a Scope.
type Disposer func()

// Once wraps d so that it runs at most once.
func Once(d Disposer) Disposer {
	if d == nil {
		return func() {}
	}
	var once sync.Once
	return func() { once.Do(d) }
}

// Scope collects disposers and releases them in reverse registration order.
type Scope struct {
	mu        sync.Mutex
	disposers []Disposer
	closed    bool
}

// NewScope returns an open scope.
func NewScope() *Scope {
	return &Scope{}
}

// Add registers d with the scope. If the scope is already closed d runs immediately.
func (s *Scope) Add(d Disposer) {
	if d == nil {
		return
	}
	d = Once(d)
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		d()
		return
	}
	s.disposers = append(s.disposers, d)
	s.mu.Unlock()
}

// Len reports how many disposers are pending.
func (s *Scope) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.disposers)
}

// Closed reports whether Close has been called.
func (s *Scope) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close runs every pending disposer, last registered first. Subsequent calls are no-ops.
func (s *Scope) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	pending := s.disposers
	s.disposers = nil
	s.mu.Unlock()

	for i := len(pending) - 1; i >= 0; i-- {
		pending[i]()
	}
}

type scopeKey struct{}

// WithScope stores the scope on the context.
func WithScope(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

// FromContext returns the scope stored on ctx, if any.
func FromContext(ctx context.Context) (*Scope, bool) {
	s, ok := ctx.Value(scopeKey{}).(*Scope)
	return s, ok && s != nil
}
