package sections

import "sync"

// Lightbox tracks which photo of a gallery is open, if any.
type Lightbox struct {
	mu       sync.Mutex
	n        int
	selected int
}

// NewLightbox returns a closed lightbox over n photos.
func NewLightbox(n int) *Lightbox {
	if n < 0 {
		n = 0
	}
	return &Lightbox{n: n, selected: -1}
}

// Len returns the number of photos.
func (l *Lightbox) Len() int { return l.n }

// HasControls reports whether prev/next affordances are shown.
func (l *Lightbox) HasControls() bool { return l.n > 1 }

// Open selects photo i. Out-of-range indices leave the state unchanged.
func (l *Lightbox) Open(i int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i < 0 || i >= l.n {
		return
	}
	l.selected = i
}

// Close clears the selection.
func (l *Lightbox) Close() {
	l.mu.Lock()
	l.selected = -1
	l.mu.Unlock()
}

// Selected returns the open photo.
func (l *Lightbox) Selected() (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.selected, l.selected >= 0
}

// Next advances the open photo, wrapping. It does nothing when closed or with a
// single photo.
func (l *Lightbox) Next() { l.move(1) }

// Prev goes back one photo, wrapping.
func (l *Lightbox) Prev() { l.move(-1) }

func (l *Lightbox) move(delta int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.selected < 0 || l.n <= 1 {
		return
	}
	l.selected = ((l.selected+delta)%l.n + l.n) % l.n
}
