// Package debouncetest provides a manually advanced clock for tests.
package debouncetest

import (
	"sort"
	"sync"
	"time"

	"github.com/colonyops/mappicker/pkg/debounce"
)

var _ debounce.Clock = (*Clock)(nil)

// Clock is a fake debounce.Clock. Timers only fire from Advance, on the
// calling goroutine, in due order.
type Clock struct {
	mu     sync.Mutex
	now    time.Duration
	nextID int
	timers []*timer
}

type timer struct {
	clock   *Clock
	id      int
	due     time.Duration
	fn      func()
	stopped bool
}

// New creates a fake clock at elapsed time zero.
func New() *Clock {
	return &Clock{}
}

// AfterFunc registers fn to run once the clock has advanced by d.
func (c *Clock) AfterFunc(d time.Duration, fn func()) debounce.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	t := &timer{clock: c, id: c.nextID, due: c.now + d, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (t *timer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	for i, other := range t.clock.timers {
		if other == t {
			t.clock.timers = append(t.clock.timers[:i], t.clock.timers[i+1:]...)
			t.stopped = true
			return true
		}
	}
	return false
}

// Advance moves the clock forward by d and fires every timer that became due,
// including timers scheduled by the fired functions themselves.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		t := c.nextDueLocked(target)
		if t == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.now = t.due
		c.removeLocked(t)
		c.mu.Unlock()

		t.fn()
	}
}

// Pending returns how many timers are waiting to fire.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// Elapsed returns the total time the clock has been advanced.
func (c *Clock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) nextDueLocked(target time.Duration) *timer {
	due := make([]*timer, 0, len(c.timers))
	for _, t := range c.timers {
		if t.due <= target {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.SliceStable(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].id < due[j].id
	})
	return due[0]
}

func (c *Clock) removeLocked(t *timer) {
	for i, other := range c.timers {
		if other == t {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return
		}
	}
}
