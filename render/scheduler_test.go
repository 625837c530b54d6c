// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "testing"

// manualClock is a FrameRequester whose frame boundaries fire only when
// the test steps it, so coalescing windows are fully deterministic.
type manualClock struct {
	queued []func()
}

func (m *manualClock) requester() FrameRequester {
	return func(f func()) { m.queued = append(m.queued, f) }
}

// step fires every queued frame callback once.
func (m *manualClock) step() {
	q := m.queued
	m.queued = nil
	for _, f := range q {
		f()
	}
}

func TestSchedulerCoalescesBurst(t *testing.T) {
	var clock manualClock
	var got []int
	s := NewScheduler(func(v int) { got = append(got, v) }, true, clock.requester())

	for i := 1; i <= 100; i++ {
		s.Request(i)
	}
	if len(got) != 0 {
		t.Fatalf("ran %d times before the frame boundary, want 0", len(got))
	}
	if len(clock.queued) != 1 {
		t.Fatalf("queued %d frame callbacks, want 1", len(clock.queued))
	}
	if s.State() != StateScheduled {
		t.Errorf("State() = %v, want StateScheduled", s.State())
	}

	clock.step()

	if len(got) != 1 || got[0] != 100 {
		t.Errorf("runs = %v, want exactly one run with the final args [100]", got)
	}
	if s.State() != StateIdle {
		t.Errorf("State() after run = %v, want StateIdle", s.State())
	}
}

func TestSchedulerNonTrailingKeepsFirstArgs(t *testing.T) {
	var clock manualClock
	var got []int
	s := NewScheduler(func(v int) { got = append(got, v) }, false, clock.requester())

	s.Request(1)
	s.Request(2)
	s.Request(3)
	clock.step()

	if len(got) != 1 || got[0] != 1 {
		t.Errorf("runs = %v, want one run with the first args [1]", got)
	}
}

func TestSchedulerTrailingDuringRun(t *testing.T) {
	var clock manualClock
	var got []int
	var s *Scheduler[int]
	s = NewScheduler(func(v int) {
		got = append(got, v)
		if v == 1 {
			// A request landing mid-run must re-schedule, not recurse.
			s.Request(2)
		}
	}, true, clock.requester())

	s.Request(1)
	clock.step()

	if len(got) != 1 {
		t.Fatalf("runs after first frame = %v, want [1]", got)
	}
	if len(clock.queued) != 1 {
		t.Fatalf("queued %d frame callbacks for the trailing run, want 1", len(clock.queued))
	}

	clock.step()
	if len(got) != 2 || got[1] != 2 {
		t.Errorf("runs = %v, want [1 2]", got)
	}
}

func TestSchedulerNonTrailingDropsMidRunRequest(t *testing.T) {
	var clock manualClock
	var got []int
	var s *Scheduler[int]
	s = NewScheduler(func(v int) {
		got = append(got, v)
		if v == 1 {
			s.Request(2)
		}
	}, false, clock.requester())

	s.Request(1)
	clock.step()
	clock.step()

	if len(got) != 1 {
		t.Errorf("runs = %v, want only [1] without trailing mode", got)
	}
}

func TestSchedulerFlush(t *testing.T) {
	var clock manualClock
	var got []int
	s := NewScheduler(func(v int) { got = append(got, v) }, true, clock.requester())

	t.Run("runs pending synchronously", func(t *testing.T) {
		s.Request(7)
		s.Request(8)
		s.Flush()
		if len(got) != 1 || got[0] != 8 {
			t.Errorf("runs = %v, want one synchronous run with [8]", got)
		}
		if s.State() != StateIdle {
			t.Errorf("State() = %v, want StateIdle", s.State())
		}
	})

	t.Run("stale frame callback is inert", func(t *testing.T) {
		clock.step()
		if len(got) != 1 {
			t.Errorf("runs = %v, the pre-flush frame callback must not fire again", got)
		}
	})

	t.Run("flush with nothing pending is a no-op", func(t *testing.T) {
		s.Flush()
		if len(got) != 1 {
			t.Errorf("runs = %v, want no additional runs", got)
		}
	})
}

func TestSchedulerCancel(t *testing.T) {
	var clock manualClock
	var got []int
	s := NewScheduler(func(v int) { got = append(got, v) }, true, clock.requester())

	s.Request(1)
	s.Cancel()
	clock.step()

	if len(got) != 0 {
		t.Errorf("runs = %v, want none after Cancel", got)
	}
	if s.State() != StateIdle {
		t.Errorf("State() = %v, want StateIdle", s.State())
	}

	// Cancel is idempotent.
	s.Cancel()
	s.Cancel()

	// And the scheduler still works afterwards.
	s.Request(5)
	clock.step()
	if len(got) != 1 || got[0] != 5 {
		t.Errorf("runs = %v, want [5] after a post-cancel request", got)
	}
}

func TestSchedulerHeadlessRunsSynchronously(t *testing.T) {
	var got []int
	s := NewScheduler(func(v int) { got = append(got, v) }, true, nil)

	s.Request(1)
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("runs = %v, want an immediate synchronous run", got)
	}
	s.Request(2)
	if len(got) != 2 || got[1] != 2 {
		t.Errorf("runs = %v, want [1 2]", got)
	}
}

func TestSchedulerHeadlessTrailingLoop(t *testing.T) {
	var got []int
	var s *Scheduler[int]
	s = NewScheduler(func(v int) {
		got = append(got, v)
		if v < 3 {
			s.Request(v + 1)
		}
	}, true, nil)

	s.Request(1)

	want := []int{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("runs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("runs = %v, want %v", got, want)
		}
	}
}
