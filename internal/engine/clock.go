package engine

import "sync/atomic"

// Clock is a monotonic logical clock for event ordering.
//
// Every input and tick the engine processes is stamped with a strictly
// increasing seq from this clock, so listeners see a total order that does
// not depend on wall time. Calls are not stamped.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock whose first Next returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// Next advances the clock and returns the new seq.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last seq handed out, or 0.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
