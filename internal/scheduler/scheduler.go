// Package scheduler coalesces bursts of edits into a single recompute.
package scheduler

import (
	"sync"
	"time"

	"github.com/zjrosen/splitdiff/internal/log"
)

// DefaultDebounce is the quiet period used for a negative debounce.
const DefaultDebounce = 400 * time.Millisecond

// Timer is a pending callback that can be stopped.
type Timer interface {
	Stop() bool
}

// Clock arms callbacks. Use the real clock in production and
// testutil.FakeClock in tests.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Scheduler runs onReady once the input has been quiet for the debounce
// duration. It holds at most one timer; every Trigger replaces it.
//
// onReady runs on the clock's goroutine, never while the scheduler's lock
// is held, so it may call back into the scheduler. It receives the
// generation of the trigger that armed it; Current tells whether a later
// Trigger, Cancel or Flush has superseded that generation.
type Scheduler struct {
	mu       sync.Mutex
	clock    Clock
	debounce time.Duration
	onReady  func(gen uint64)

	timer   Timer
	gen     uint64 // bumped on every arm/cancel; stale fires compare against it
	pending bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// New creates an idle scheduler. A zero debounce fires on the next clock
// tick; a negative one uses DefaultDebounce.
func New(onReady func(), debounce time.Duration, opts ...Option) *Scheduler {
	return NewStamped(func(uint64) { onReady() }, debounce, opts...)
}

// NewStamped is New with a callback that receives the firing generation.
func NewStamped(onReady func(gen uint64), debounce time.Duration, opts ...Option) *Scheduler {
	if debounce < 0 {
		debounce = DefaultDebounce
	}
	s := &Scheduler{
		clock:    realClock{},
		debounce: debounce,
		onReady:  onReady,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Debounce returns the configured quiet period.
func (s *Scheduler) Debounce() time.Duration { return s.debounce }

// Trigger records an input change and (re)arms the timer.
func (s *Scheduler) Trigger() {
	s.mu.Lock()
	defer s.mu.Unlock()

	rearmed := s.stopLocked()
	s.gen++
	gen := s.gen
	s.pending = true
	s.timer = s.clock.AfterFunc(s.debounce, func() { s.fire(gen) })

	log.Debug(log.CatSched, "armed", "debounce", s.debounce, "rearmed", rearmed)
}

// Cancel drops any pending recompute.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopLocked() {
		log.Debug(log.CatSched, "cancelled")
	}
	s.gen++
}

// Pending reports whether a recompute is armed.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Current reports whether gen is still the latest generation, i.e. no
// Trigger, Cancel or Flush happened after the timer of gen fired.
func (s *Scheduler) Current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen == s.gen
}

// Flush runs a pending recompute immediately. It reports whether one ran.
func (s *Scheduler) Flush() bool {
	s.mu.Lock()
	if !s.pending {
		s.mu.Unlock()
		return false
	}
	s.stopLocked()
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	log.Debug(log.CatSched, "flushed")
	s.onReady(gen)
	return true
}

// stopLocked stops the timer and clears the pending flag, reporting
// whether a recompute was pending.
func (s *Scheduler) stopLocked() bool {
	was := s.pending
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = false
	return was
}

func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || !s.pending {
		s.mu.Unlock()
		return
	}
	s.pending = false
	s.timer = nil
	s.mu.Unlock()

	log.Debug(log.CatSched, "fired")
	s.onReady(gen)
}
