package sections

import (
	"sync"
	"time"

	"finitefield.org/konstruksi-web/internal/lifecycle"
)

// Interval is the hero auto-advance period.
const Interval = 6 * time.Second

// Carousel operations accepted by Apply.
const (
	OpNext   = "next"
	OpPrev   = "prev"
	OpToggle = "toggle"
	OpTick   = "tick"
)

// Carousel is the hero slide state machine: slide 0..N-1 times playing or paused.
// It starts on slide 0, playing. With zero slides every operation is a no-op.
type Carousel struct {
	mu     sync.Mutex
	n      int
	index  int
	paused bool

	clock   lifecycle.Clock
	timer   lifecycle.Timer
	running bool
}

// NewCarousel returns a carousel over n slides.
func NewCarousel(n int) *Carousel {
	if n < 0 {
		n = 0
	}
	return &Carousel{n: n}
}

// RestoreCarousel rebuilds the state carried by a fragment request.
func RestoreCarousel(n, index int, paused bool) *Carousel {
	c := NewCarousel(n)
	c.GoTo(index)
	if n > 0 {
		c.paused = paused
	}
	return c
}

// Len returns the number of slides.
func (c *Carousel) Len() int { return c.n }

// Index returns the current slide.
func (c *Carousel) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Paused reports whether auto-advance is suspended.
func (c *Carousel) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// Next moves one slide forward, wrapping. The play state is unchanged.
func (c *Carousel) Next() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.step(1)
}

// Prev moves one slide back, wrapping. The play state is unchanged.
func (c *Carousel) Prev() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.step(-1)
}

// GoTo jumps to slide i. Out-of-range indices are ignored.
func (c *Carousel) GoTo(i int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= c.n {
		return
	}
	c.index = i
}

// Tick is the timer transition: it advances only while playing.
func (c *Carousel) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		return
	}
	c.step(1)
}

// TogglePause flips the play state and suspends or resumes the timer.
func (c *Carousel) TogglePause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.n == 0 {
		return
	}
	c.paused = !c.paused
	if !c.running {
		return
	}
	if c.paused {
		c.stopTimer()
	} else {
		c.schedule()
	}
}

// Apply performs one named operation and reports whether op was recognised.
func (c *Carousel) Apply(op string) bool {
	switch op {
	case OpNext:
		c.Next()
	case OpPrev:
		c.Prev()
	case OpToggle:
		c.TogglePause()
	case OpTick:
		c.Tick()
	default:
		return false
	}
	return true
}

// Start schedules auto-advance on clock. The timer is cancelled when scope closes.
func (c *Carousel) Start(scope *lifecycle.Scope, clock lifecycle.Clock) {
	c.mu.Lock()
	if c.running || c.n == 0 {
		c.mu.Unlock()
		return
	}
	c.clock = clock
	c.running = true
	if !c.paused {
		c.schedule()
	}
	c.mu.Unlock()

	scope.Add(c.stop)
}

// Running reports whether a timer is owned by the carousel.
func (c *Carousel) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *Carousel) stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	c.stopTimer()
}

func (c *Carousel) step(delta int) {
	if c.n == 0 {
		return
	}
	c.index = ((c.index+delta)%c.n + c.n) % c.n
}

// schedule arms the next tick. Callers hold c.mu.
func (c *Carousel) schedule() {
	c.stopTimer()
	var t lifecycle.Timer
	t = c.clock.AfterFunc(Interval, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if !c.running || c.paused || c.timer != t {
			return
		}
		c.step(1)
		c.schedule()
	})
	c.timer = t
}

func (c *Carousel) stopTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
