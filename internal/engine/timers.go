package engine

import "time"

// Timers schedules callbacks. The callback runs on an arbitrary goroutine and
// must only enqueue work. The returned stop function prevents the callback
// from running and reports whether it did so.
//
// Implemented by WallTimers (production) and testutil.ManualTimers (tests).
type Timers interface {
	AfterFunc(d time.Duration, f func()) (stop func() bool)
}

// WallTimers schedules callbacks on the wall clock.
type WallTimers struct{}

// AfterFunc wraps time.AfterFunc.
func (WallTimers) AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}
