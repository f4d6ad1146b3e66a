package presenter

import (
	"testing"
	"time"

	"github.com/soocke/predict-client-go/domain/upload"
	"github.com/soocke/predict-client-go/ui/model"
)

type mockInFlight struct{ on bool }

func (m *mockInFlight) InFlight() bool { return m.on }

type mockRequestView struct {
	elapsed, last time.Duration
	completed     int
	calls         int
}

func (v *mockRequestView) SetRequest(elapsed, last time.Duration, completed int) {
	v.elapsed, v.last, v.completed = elapsed, last, completed
	v.calls++
}

func TestRequestPresenter_Tick(t *testing.T) {
	src := &mockInFlight{on: true}
	v := &mockRequestView{}
	p := NewRequestPresenter(model.NewRequestModel(), src, v)

	t0 := time.Unix(0, 0)
	p.Tick(t0)
	p.Tick(t0.Add(300 * time.Millisecond))
	if v.elapsed != 300*time.Millisecond || v.completed != 0 {
		t.Fatalf("in flight: elapsed=%v completed=%d", v.elapsed, v.completed)
	}
	src.on = false
	p.Tick(t0.Add(500 * time.Millisecond))
	if v.elapsed != 0 || v.last != 500*time.Millisecond || v.completed != 1 {
		t.Fatalf("done: elapsed=%v last=%v completed=%d", v.elapsed, v.last, v.completed)
	}
}

func TestLoop_TickSchedules(t *testing.T) {
	scheduled := 0
	v := &mockStateView{}
	state := NewStatePresenter(v)
	state.OnState(upload.StateEmpty, upload.Snapshot{State: upload.StatePreviewing})
	l := NewLoop(nil, state, nil, func() { scheduled++ })
	l.Tick()
	if scheduled != 1 || len(v.labels) != 1 {
		t.Fatalf("scheduled=%d labels=%v", scheduled, v.labels)
	}
	var nilLoop *Loop
	nilLoop.Tick()
}
