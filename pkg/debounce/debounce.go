// Package debounce provides a single-slot debouncer: scheduling a call
// cancels whatever call was still waiting.
package debounce

import (
	"sync"
	"time"
)

// Debouncer holds at most one pending call.
type Debouncer struct {
	clock Clock

	mu    sync.Mutex
	timer Timer
	seq   uint64
}

// New creates a Debouncer. A nil clock uses RealClock.
func New(clock Clock) *Debouncer {
	if clock == nil {
		clock = RealClock{}
	}
	return &Debouncer{clock: clock}
}

// Schedule runs fn after delay unless Schedule or Cancel is called first.
// A previously scheduled call that has not fired yet is dropped; the return
// value reports whether that happened.
func (d *Debouncer) Schedule(delay time.Duration, fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	replaced := d.timer != nil
	d.stopLocked()
	d.seq++
	seq := d.seq

	d.timer = d.clock.AfterFunc(delay, func() {
		d.mu.Lock()
		// A Stop that lost the race with the timer goroutine still bumps seq,
		// so a superseded call never runs.
		if seq != d.seq || d.timer == nil {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()

		fn()
	})

	return replaced
}

// Cancel drops the pending call. It reports whether a call was pending.
// Canceling after the call fired is a no-op.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	pending := d.timer != nil
	d.stopLocked()
	d.seq++
	return pending
}

// Pending reports whether a call is waiting to fire.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
