package model

import (
	"testing"
	"time"
)

func TestRequestModel_BasicLifecycle(t *testing.T) {
	m := NewRequestModel()
	base := time.Unix(0, 0)

	// Request starts at t0 and runs for 2s.
	m.OnTick(true, base)
	m.OnTick(true, base.Add(2*time.Second))
	elapsed, last := m.Values()
	if elapsed != 2*time.Second || last != 0 {
		t.Fatalf("expected elapsed=2s last=0; got elapsed=%v last=%v", elapsed, last)
	}

	// Completes at 3s.
	m.OnTick(false, base.Add(3*time.Second))
	elapsed, last = m.Values()
	if elapsed != 0 || last != 3*time.Second {
		t.Fatalf("after completion expected elapsed=0 last=3s; got elapsed=%v last=%v", elapsed, last)
	}

	// Idle ticks change nothing.
	m.OnTick(false, base.Add(9*time.Second))
	if e2, l2 := m.Values(); e2 != elapsed || l2 != last {
		t.Fatalf("idle tick should not change durations: got elapsed=%v last=%v", e2, l2)
	}

	// Second request of 1s.
	m.OnTick(true, base.Add(10*time.Second))
	m.OnTick(false, base.Add(11*time.Second))
	n, mean := m.Completed()
	if n != 2 || mean != 2*time.Second {
		t.Fatalf("expected 2 requests with 2s mean; got n=%d mean=%v", n, mean)
	}
}

func TestRequestModel_NilSafe(t *testing.T) {
	var m *RequestModel
	m.OnTick(true, time.Now())
	if e, l := m.Values(); e != 0 || l != 0 {
		t.Fatalf("nil model should report zeros")
	}
	if n, _ := m.Completed(); n != 0 {
		t.Fatalf("nil model should report no completions")
	}
}
