package presenter

import (
	"time"

	"github.com/soocke/predict-client-go/domain/upload"
)

// StateView sets the state label and locks settings while an image is held.
type StateView interface {
	SetStateLabel(string)
	SettingsEditable(bool)
}

// StatePresenter receives machine transitions and updates the view.
type StatePresenter struct {
	view    StateView
	latest  upload.State
	seen    bool
	pending []upload.State
}

func NewStatePresenter(view StateView) *StatePresenter {
	return &StatePresenter{view: view}
}

// OnState queues a transitioned state from the machine listener.
//
// The latest queued state will be reflected on the next Tick.
func (p *StatePresenter) OnState(prev upload.State, next upload.Snapshot) {
	if p == nil {
		return
	}
	p.pending = append(p.pending, next.State)
}

// Tick processes queued states and updates the view with the most recent state.
func (p *StatePresenter) Tick(now time.Time) {
	if p == nil || p.view == nil {
		return
	}
	if len(p.pending) == 0 {
		return
	}
	last := p.pending[len(p.pending)-1]
	p.pending = p.pending[:0]
	if p.seen && last == p.latest {
		return
	}
	p.seen = true
	p.latest = last
	p.view.SetStateLabel("State: " + last.String())
	p.view.SettingsEditable(last == upload.StateEmpty)
}
