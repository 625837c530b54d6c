// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"sync"
	"time"
)

// FrameRequester arranges for a callback to run on the next frame
// boundary. The host UI typically wires this to its vsync or animation
// callback mechanism; IntervalRequester provides a timer-based fallback.
//
// A nil FrameRequester puts a Scheduler in headless mode: requests
// execute synchronously, so tests and batch export never depend on a
// frame clock.
type FrameRequester func(func())

// IntervalRequester returns a FrameRequester that fires after a fixed
// delay. Use the display refresh interval for an approximate frame clock.
func IntervalRequester(d time.Duration) FrameRequester {
	return func(f func()) {
		time.AfterFunc(d, f)
	}
}

// SchedulerState identifies the scheduler's position in its state machine.
type SchedulerState uint8

// Scheduler states.
const (
	// StateIdle means nothing is scheduled or running.
	StateIdle SchedulerState = iota
	// StateScheduled means a run is arranged for the next frame boundary.
	StateScheduled
	// StateRunning means the render function is executing.
	StateRunning
)

// Scheduler coalesces bursts of render requests into frame-aligned runs
// of a single render function.
//
// With trailing mode enabled (the usual configuration), the newest
// requested args always win: requests landing while a run is scheduled
// replace the pending args, and requests landing during the run itself
// re-schedule immediately after it completes. Intermediate states are
// dropped by design — only the last requested state is guaranteed to
// render. With trailing disabled, requests made while scheduled or
// running are simply discarded.
//
// Scheduler is safe for concurrent use, though the engine normally
// drives it from a single goroutine.
type Scheduler[T any] struct {
	run          func(T)
	requestFrame FrameRequester
	trailing     bool

	mu          sync.Mutex
	state       SchedulerState
	pending     T
	hasTrailing bool
	// gen invalidates frame callbacks queued before a Cancel or Flush.
	gen uint64
}

// NewScheduler creates a scheduler for the given render function.
func NewScheduler[T any](run func(T), trailing bool, requestFrame FrameRequester) *Scheduler[T] {
	return &Scheduler[T]{
		run:          run,
		requestFrame: requestFrame,
		trailing:     trailing,
	}
}

// Request asks for the render function to run with args on the next
// frame boundary. See the type docs for coalescing semantics.
func (s *Scheduler[T]) Request(args T) {
	s.mu.Lock()
	switch s.state {
	case StateIdle:
		s.pending = args
		s.state = StateScheduled
		s.gen++
		g := s.gen
		fr := s.requestFrame
		s.mu.Unlock()
		if fr == nil {
			s.fire(g)
			return
		}
		fr(func() { s.fire(g) })

	case StateScheduled:
		if s.trailing {
			s.pending = args
		}
		s.mu.Unlock()

	case StateRunning:
		if s.trailing {
			s.pending = args
			s.hasTrailing = true
		}
		s.mu.Unlock()
	}
}

// fire executes one scheduled run, then either returns to idle or
// re-schedules with trailing args.
func (s *Scheduler[T]) fire(g uint64) {
	for {
		s.mu.Lock()
		if g != s.gen || s.state != StateScheduled {
			s.mu.Unlock()
			return
		}
		args := s.pending
		s.state = StateRunning
		s.mu.Unlock()

		s.run(args)

		s.mu.Lock()
		if g != s.gen {
			// Canceled or flushed during the run; whoever bumped
			// gen owns the state now.
			s.mu.Unlock()
			return
		}
		if s.hasTrailing {
			s.hasTrailing = false
			s.state = StateScheduled
			s.gen++
			g2 := s.gen
			fr := s.requestFrame
			s.mu.Unlock()
			if fr == nil {
				g = g2
				continue
			}
			fr(func() { s.fire(g2) })
			return
		}
		s.state = StateIdle
		s.mu.Unlock()
		return
	}
}

// Flush forces immediate synchronous execution with the latest pending
// args, bypassing the frame boundary, then clears all pending state.
// A flush with nothing scheduled is a no-op. Used on teardown so a final
// requested render is never silently dropped.
func (s *Scheduler[T]) Flush() {
	s.mu.Lock()
	if s.state != StateScheduled {
		// Running: the run is already producing output; drop any
		// trailing request per "clears all pending state".
		if s.state == StateRunning {
			s.hasTrailing = false
			s.gen++
			s.state = StateIdle
		}
		s.mu.Unlock()
		return
	}
	args := s.pending
	s.gen++
	s.state = StateRunning
	s.mu.Unlock()

	s.run(args)

	s.mu.Lock()
	s.hasTrailing = false
	s.state = StateIdle
	s.mu.Unlock()
}

// Cancel clears all pending state without executing. Idempotent: calling
// it when nothing is scheduled is a no-op.
func (s *Scheduler[T]) Cancel() {
	s.mu.Lock()
	s.gen++
	s.hasTrailing = false
	s.state = StateIdle
	s.mu.Unlock()
}

// State returns the current scheduler state.
func (s *Scheduler[T]) State() SchedulerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
