package testutil

import (
	"sort"
	"sync"
	"time"
)

// ManualTimers is a virtual-time timer factory for tests.
//
// Callbacks run only when Advance moves virtual time past their deadline, in
// deadline order, ties broken by scheduling order. Implements engine.Timers.
//
// Thread-safety: All methods are safe for concurrent use. Callbacks run on
// the goroutine calling Advance, outside the internal lock.
type ManualTimers struct {
	mu     sync.Mutex
	now    time.Duration
	nextID int
	timers map[int]*manualTimer
}

type manualTimer struct {
	id       int
	deadline time.Duration
	f        func()
}

// NewManualTimers creates a timer factory at virtual time 0.
func NewManualTimers() *ManualTimers {
	return &ManualTimers{timers: make(map[int]*manualTimer)}
}

// AfterFunc schedules f to run once virtual time reaches now+d.
func (m *ManualTimers) AfterFunc(d time.Duration, f func()) func() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID
	m.timers[id] = &manualTimer{id: id, deadline: m.now + d, f: f}

	return func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.timers[id]; !ok {
			return false
		}
		delete(m.timers, id)
		return true
	}
}

// Advance moves virtual time forward by d, running every callback that
// becomes due. Returns how many callbacks ran.
func (m *ManualTimers) Advance(d time.Duration) int {
	m.mu.Lock()
	m.now += d
	var due []*manualTimer
	for id, t := range m.timers {
		if t.deadline <= m.now {
			due = append(due, t)
			delete(m.timers, id)
		}
	}
	m.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].deadline != due[j].deadline {
			return due[i].deadline < due[j].deadline
		}
		return due[i].id < due[j].id
	})
	for _, t := range due {
		t.f()
	}
	return len(due)
}

// Now returns the current virtual time.
func (m *ManualTimers) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending returns how many timers are scheduled.
func (m *ManualTimers) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}
