// Package task provides a debounced, cancellable, single-flight job slot.
//
// Every Schedule call bumps the slot's generation, stops any pending timer
// and cancels any running job. Consumers compare the generation delivered
// with a result against the latest one they scheduled and drop anything
// older.
package task

import (
	"context"
	"sync"
	"time"
)

// Func is the unit of work run by a Slot. It should check ctx between
// units of work and return promptly once ctx is done.
type Func func(ctx context.Context, gen uint64)

// Slot runs at most one job at a time; newer schedules replace older ones.
type Slot struct {
	mu     sync.Mutex
	delay  time.Duration
	gen    uint64
	timer  *time.Timer
	cancel context.CancelFunc
}

// NewSlot returns a slot that waits delay before starting each job. A zero
// delay starts jobs immediately on their own goroutine.
func NewSlot(delay time.Duration) *Slot {
	return &Slot{delay: delay}
}

// Delay returns the debounce delay.
func (s *Slot) Delay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delay
}

// SetDelay changes the debounce delay for future schedules.
func (s *Slot) SetDelay(d time.Duration) {
	s.mu.Lock()
	s.delay = d
	s.mu.Unlock()
}

// Schedule supersedes whatever the slot was doing with fn and returns the
// generation fn will be called with.
func (s *Slot) Schedule(fn Func) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	s.gen++
	gen := s.gen
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	run := func() {
		if ctx.Err() != nil {
			return
		}
		fn(ctx, gen)
	}
	if s.delay <= 0 {
		go run()
		return gen
	}
	s.timer = time.AfterFunc(s.delay, run)
	return gen
}

// Cancel stops the pending timer and the running job, and bumps the
// generation so late results are recognisably stale.
func (s *Slot) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.gen++
}

// Generation returns the latest generation handed out or invalidated.
func (s *Slot) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// IsCurrent reports whether gen is still the latest generation.
func (s *Slot) IsCurrent(gen uint64) bool {
	return gen == s.Generation()
}

func (s *Slot) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
