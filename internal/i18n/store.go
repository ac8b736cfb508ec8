package i18n

import (
	"sync"

	"finitefield.org/konstruksi-web/internal/lifecycle"
)

// Service is what rendering units depend on for language state and text lookup.
type Service interface {
	Locale() Locale
	SetLocale(Locale)
	T(key string) string
}

// Preference is the durable storage of the language choice: one plain string.
type Preference interface {
	Load() (string, bool)
	Save(value string) error
}

// MemoryPreference keeps the preference in memory.
type MemoryPreference struct {
	mu    sync.Mutex
	value string
	set   bool
	saves int
}

// Load implements Preference.
func (p *MemoryPreference) Load() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value, p.set
}

// Save implements Preference.
func (p *MemoryPreference) Save(value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value = value
	p.set = true
	p.saves++
	return nil
}

// Saves returns how many writes have been made.
func (p *MemoryPreference) Saves() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saves
}

// Store is the Locale Store: current locale, persistence and subscribers.
type Store struct {
	bundle *Bundle
	pref   Preference

	mu     sync.RWMutex
	locale Locale
	next   int
	subs   map[int]func(Locale)

	// OnSaveError is called when persisting the preference fails. The in-memory
	// locale is updated regardless.
	OnSaveError func(error)
}

// NewStore restores the persisted preference, falling back to Primary when it is
// absent or not a supported locale.
func NewStore(bundle *Bundle, pref Preference) *Store {
	s := &Store{bundle: bundle, pref: pref, locale: Primary, subs: map[int]func(Locale){}}
	if pref != nil {
		if raw, ok := pref.Load(); ok {
			if l, ok := ParseLocale(raw); ok {
				s.locale = l
			}
		}
	}
	return s
}

// Locale returns the active locale.
func (s *Store) Locale() Locale {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.locale
}

// SetLocale switches to l and persists it. Unsupported values are ignored and
// setting the current value again does nothing.
func (s *Store) SetLocale(l Locale) {
	if !l.Valid() {
		return
	}
	s.mu.Lock()
	if s.locale == l {
		s.mu.Unlock()
		return
	}
	s.locale = l
	subs := make([]func(Locale), 0, len(s.subs))
	for i := 0; i < s.next; i++ {
		if fn, ok := s.subs[i]; ok {
			subs = append(subs, fn)
		}
	}
	s.mu.Unlock()

	if s.pref != nil {
		if err := s.pref.Save(string(l)); err != nil && s.OnSaveError != nil {
			s.OnSaveError(err)
		}
	}
	for _, fn := range subs {
		fn(l)
	}
}

// T translates key for the active locale.
func (s *Store) T(key string) string {
	return s.bundle.T(s.Locale(), key)
}

// Bundle returns the underlying dictionary.
func (s *Store) Bundle() *Bundle { return s.bundle }

// Subscribe registers fn to be called after every locale change.
func (s *Store) Subscribe(fn func(Locale)) lifecycle.Disposer {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	s.mu.Unlock()
	return lifecycle.Once(func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	})
}

// Fixed is a read-only Service pinned to one locale, used where no preference
// storage is involved (admin views, fragment rendering in tests).
type Fixed struct {
	Bundle *Bundle
	Lang   Locale
}

// Locale implements Service.
func (f Fixed) Locale() Locale {
	if !f.Lang.Valid() {
		return Primary
	}
	return f.Lang
}

// SetLocale implements Service; Fixed ignores changes.
func (Fixed) SetLocale(Locale) {}

// T implements Service.
func (f Fixed) T(key string) string { return f.Bundle.T(f.Locale(), key) }
