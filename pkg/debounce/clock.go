package debounce

import "time"

// Timer is a scheduled call that can be stopped before it fires.
type Timer interface {
	// Stop prevents the timer from firing. It returns false if the timer
	// already fired or was already stopped.
	Stop() bool
}

// Clock schedules functions to run after a delay.
type Clock interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// RealClock schedules with time.AfterFunc. fn runs on its own goroutine.
type RealClock struct{}

func (RealClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
