package presenter

import "time"

// Loop aggregates feature presenters and drives periodic updates.
//
// It calls Tick on the sub-presenters and invokes a scheduler callback.
// The zero value is usable (methods are nil-safe).
type Loop struct {
	Upload   *UploadPresenter
	State    *StatePresenter
	Request  *RequestPresenter
	Schedule func()
}

func NewLoop(upload *UploadPresenter, state *StatePresenter, request *RequestPresenter, schedule func()) *Loop {
	return &Loop{Upload: upload, State: state, Request: request, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	// Apply a finished request first so state and timing reflect it this tick.
	if l.Upload != nil {
		l.Upload.Tick(now)
	}
	if l.State != nil {
		l.State.Tick(now)
	}
	if l.Request != nil {
		l.Request.Tick(now)
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}
