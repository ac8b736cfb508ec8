package testutil

import (
	"sort"
	"sync"
	"time"

	"finitefield.org/konstruksi-web/internal/lifecycle"
)

// ManualClock is a lifecycle.Clock whose time only moves when Advance is called.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	clock   *ManualClock
	at      time.Duration
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

// NewManualClock returns a clock at offset zero.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// AfterFunc implements lifecycle.Clock.
func (c *ManualClock) AfterFunc(d time.Duration, f func()) lifecycle.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &manualTimer{clock: c, at: c.now + d, seq: c.seq, fn: f}
	c.timers = append(c.timers, t)
	return t
}

// Stop implements lifecycle.Timer.
func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Pending returns the number of timers that have neither fired nor been stopped.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d, firing due timers in deadline order.
// Timers scheduled by fired callbacks are honoured within the same advance.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var due []*manualTimer
		for _, t := range c.timers {
			if !t.stopped && !t.fired && t.at <= target {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			c.now = target
			c.mu.Unlock()
			return
		}
		sort.Slice(due, func(i, j int) bool {
			if due[i].at == due[j].at {
				return due[i].seq < due[j].seq
			}
			return due[i].at < due[j].at
		})
		next := due[0]
		next.fired = true
		c.now = next.at
		c.mu.Unlock()
		next.fn()
	}
}
