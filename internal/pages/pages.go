// Package pages maps server page identifiers such as "Projects/Index" to page units.
package pages

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"finitefield.org/konstruksi-web/internal/i18n"
	"finitefield.org/konstruksi-web/internal/layout"
	"finitefield.org/konstruksi-web/internal/lifecycle"
)

// ErrPageNotFound matches every *NotFoundError.
var ErrPageNotFound = errors.New("page not found")

// NotFoundError reports an identifier with no registered unit.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string { return "page not found: " + e.ID }

// Is makes errors.Is(err, ErrPageNotFound) hold.
func (e *NotFoundError) Is(target error) bool { return target == ErrPageNotFound }

// Props is the opaque, page-specific data supplied for one render.
type Props map[string]any

// Input is everything a unit receives for one render.
type Input struct {
	Props  Props
	Locale i18n.Service
	Path   string
	// Scope owns timers and listeners created while composing. It is closed by the caller.
	Scope *lifecycle.Scope
}

// Unit renders one page.
type Unit interface {
	Compose(ctx context.Context, in Input) (layout.Document, error)
}

// UnitFunc adapts a function to Unit.
type UnitFunc func(ctx context.Context, in Input) (layout.Document, error)

// Compose implements Unit.
func (f UnitFunc) Compose(ctx context.Context, in Input) (layout.Document, error) {
	return f(ctx, in)
}

// Loader produces a unit on demand.
type Loader func(ctx context.Context) (Unit, error)

// IndexSuffix is appended to an identifier when no exact registration exists.
const IndexSuffix = "/Index"

type entry struct {
	eager Unit
	load  Loader

	mu      sync.Mutex
	unit    Unit
	loading *Pending
}

// Registry is the startup-built table of page identifiers.
type Registry struct {
	home    string
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewRegistry registers homeUnit eagerly under the home identifier.
func NewRegistry(home string, homeUnit Unit) *Registry {
	r := &Registry{home: home, entries: map[string]*entry{}}
	r.entries[home] = &entry{eager: homeUnit}
	return r
}

// Home returns the eagerly registered identifier.
func (r *Registry) Home() string { return r.home }

// RegisterLazy adds id with a loader run on first resolution. Re-registering id
// replaces the previous entry.
func (r *Registry) RegisterLazy(id string, load Loader) {
	id = strings.TrimSpace(id)
	if id == "" || load == nil {
		return
	}
	r.mu.Lock()
	r.entries[id] = &entry{load: load}
	r.mu.Unlock()
}

// IDs returns the registered identifiers in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Resolve looks id up, trying the exact identifier first and then id+"/Index".
// The home unit is returned already resolved; lazy units load on a goroutine.
func (r *Registry) Resolve(ctx context.Context, id string) (*Pending, error) {
	e, ok := r.lookup(id)
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	if e.eager != nil {
		return resolved(e.eager), nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.unit != nil {
		return resolved(e.unit), nil
	}
	if e.loading != nil {
		return e.loading, nil
	}
	p := newPending()
	e.loading = p
	go func() {
		unit, err := e.load(context.WithoutCancel(ctx))
		if err == nil && unit == nil {
			err = fmt.Errorf("page %s: loader returned no unit", id)
		}
		e.mu.Lock()
		if err == nil {
			e.unit = unit
		}
		e.loading = nil
		e.mu.Unlock()
		p.complete(unit, err)
	}()
	return p, nil
}

func (r *Registry) lookup(id string) (*entry, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[id]; ok {
		return e, true
	}
	e, ok := r.entries[id+IndexSuffix]
	return e, ok
}

// Pending is a unit that may still be loading.
type Pending struct {
	done chan struct{}
	unit Unit
	err  error
}

func newPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

func resolved(u Unit) *Pending {
	p := newPending()
	p.complete(u, nil)
	return p
}

func (p *Pending) complete(u Unit, err error) {
	p.unit, p.err = u, err
	close(p.done)
}

// Done is closed once the unit is available or loading failed.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Ready reports whether Wait would return without blocking.
func (p *Pending) Ready() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the unit is loaded or ctx is done.
func (p *Pending) Wait(ctx context.Context) (Unit, error) {
	select {
	case <-p.done:
		return p.unit, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
