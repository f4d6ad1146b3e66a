package presenter

import (
	"time"

	"github.com/soocke/predict-client-go/ui/model"
)

// InFlightSource reports whether a prediction request is outstanding.
type InFlightSource interface{ InFlight() bool }

// RequestView displays request timing.
type RequestView interface {
	SetRequest(elapsed, last time.Duration, completed int)
}

// RequestPresenter advances the request model and pushes its values to the view.
type RequestPresenter struct {
	req  *model.RequestModel
	src  InFlightSource
	view RequestView
}

// NewRequestPresenter returns a new RequestPresenter.
func NewRequestPresenter(req *model.RequestModel, src InFlightSource, view RequestView) *RequestPresenter {
	return &RequestPresenter{req: req, src: src, view: view}
}

// Tick advances the request model and pushes values to the view.
func (p *RequestPresenter) Tick(now time.Time) {
	if p == nil || p.req == nil || p.src == nil || p.view == nil {
		return
	}
	p.req.OnTick(p.src.InFlight(), now)
	elapsed, last := p.req.Values()
	n, _ := p.req.Completed()
	p.view.SetRequest(elapsed, last, n)
}
