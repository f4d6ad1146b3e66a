package model

import (
	"time"
)

// RequestModel tracks the duration of the in-flight prediction request, the
// latency of the last completed one and how many completed.
// It is decoupled from the UI; presenters should poll Values() and update views.
// The zero value is ready to use.
type RequestModel struct {
	active      bool
	started     time.Time
	elapsed     time.Duration
	last        time.Duration
	completed   int
	accumulated time.Duration
}

// NewRequestModel returns a pointer to a ready-to-use RequestModel.
func NewRequestModel() *RequestModel { return &RequestModel{} }

// OnTick updates the model using the current in-flight flag and timestamp.
// Call periodically (for example, from a presenter tick).
func (m *RequestModel) OnTick(inFlight bool, now time.Time) {
	if m == nil {
		return
	}
	if inFlight {
		if !m.active { // idle -> in flight
			m.active = true
			m.started = now
		}
		m.elapsed = now.Sub(m.started)
	} else if m.active { // in flight -> done
		m.elapsed = now.Sub(m.started)
		m.last = m.elapsed
		m.accumulated += m.elapsed
		m.completed++
		m.active = false
		m.elapsed = 0
	}
}

// Values returns the elapsed time of the current request (zero when idle) and
// the latency of the last completed request.
func (m *RequestModel) Values() (elapsed, last time.Duration) {
	if m == nil {
		return 0, 0
	}
	return m.elapsed, m.last
}

// Completed returns the number of finished requests and their mean latency.
func (m *RequestModel) Completed() (n int, mean time.Duration) {
	if m == nil || m.completed == 0 {
		return 0, 0
	}
	return m.completed, m.accumulated / time.Duration(m.completed)
}
