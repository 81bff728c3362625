// Package trackertest provides a manually driven scheduler for tests of code
// built on the tracker.
package trackertest

import (
	"sync"
	"time"
)

type timer struct {
	fn       func()
	interval time.Duration
	active   bool
}

// ManualScheduler fires timers only when told to. It counts recurring timers
// so tests can assert that no two are ever armed at once.
type ManualScheduler struct {
	mu        sync.Mutex
	recurring []*timer
	delayed   []*timer
	maxActive int
	armed     int
}

// NewManualScheduler creates a scheduler with no timers
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Every registers a recurring timer
func (s *ManualScheduler) Every(d time.Duration, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &timer{fn: fn, interval: d, active: true}
	s.recurring = append(s.recurring, t)
	s.armed++
	if n := s.activeLocked(); n > s.maxActive {
		s.maxActive = n
	}
	return s.canceller(t)
}

// After registers a one-shot timer
func (s *ManualScheduler) After(d time.Duration, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &timer{fn: fn, interval: d, active: true}
	s.delayed = append(s.delayed, t)
	return s.canceller(t)
}

func (s *ManualScheduler) canceller(t *timer) func() {
	return func() {
		s.mu.Lock()
		t.active = false
		s.mu.Unlock()
	}
}

// Tick runs every active recurring timer once and returns how many ran
func (s *ManualScheduler) Tick() int {
	s.mu.Lock()
	timers := append([]*timer(nil), s.recurring...)
	s.mu.Unlock()

	fired := 0
	for _, t := range timers {
		s.mu.Lock()
		active := t.active
		s.mu.Unlock()
		if !active {
			continue
		}
		t.fn()
		fired++
	}
	return fired
}

// TickN calls Tick n times and returns the total number of runs
func (s *ManualScheduler) TickN(n int) int {
	total := 0
	for i := 0; i < n; i++ {
		total += s.Tick()
	}
	return total
}

// FireDelayed runs and retires every pending one-shot timer
func (s *ManualScheduler) FireDelayed() int {
	s.mu.Lock()
	var due []*timer
	for _, t := range s.delayed {
		if t.active {
			t.active = false
			due = append(due, t)
		}
	}
	s.delayed = nil
	s.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
	return len(due)
}

// Active returns the number of armed recurring timers
func (s *ManualScheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeLocked()
}

// MaxActive returns the highest Active count ever observed
func (s *ManualScheduler) MaxActive() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxActive
}

// Armed returns how many recurring timers were ever created
func (s *ManualScheduler) Armed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.armed
}

// Pending returns the number of one-shot timers not yet fired or cancelled
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.delayed {
		if t.active {
			n++
		}
	}
	return n
}

func (s *ManualScheduler) activeLocked() int {
	n := 0
	for _, t := range s.recurring {
		if t.active {
			n++
		}
	}
	return n
}
