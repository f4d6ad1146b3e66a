package presenter

import (
	"testing"
	"time"

	"github.com/soocke/predict-client-go/domain/upload"
)

type mockStateView struct {
	labels   []string
	editable []bool
}

func (v *mockStateView) SetStateLabel(s string)  { v.labels = append(v.labels, s) }
func (v *mockStateView) SettingsEditable(b bool) { v.editable = append(v.editable, b) }

func TestStatePresenter_ReflectsLatest(t *testing.T) {
	v := &mockStateView{}
	p := NewStatePresenter(v)

	p.Tick(time.Now())
	if len(v.labels) != 0 {
		t.Fatalf("no pending state should not update view")
	}

	p.OnState(upload.StateEmpty, upload.Snapshot{State: upload.StatePreviewing})
	p.OnState(upload.StatePreviewing, upload.Snapshot{State: upload.StatePredicting})
	p.Tick(time.Now())
	if len(v.labels) != 1 || v.labels[0] != "State: predicting" || v.editable[0] {
		t.Fatalf("labels=%v editable=%v", v.labels, v.editable)
	}

	// Same state again is not re-rendered.
	p.OnState(upload.StatePredicting, upload.Snapshot{State: upload.StatePredicting})
	p.Tick(time.Now())
	if len(v.labels) != 1 {
		t.Fatalf("duplicate state re-rendered: %v", v.labels)
	}

	p.OnState(upload.StateResulted, upload.Snapshot{State: upload.StateEmpty})
	p.Tick(time.Now())
	if v.labels[len(v.labels)-1] != "State: empty" || !v.editable[len(v.editable)-1] {
		t.Fatalf("labels=%v editable=%v", v.labels, v.editable)
	}
}

func TestStatePresenter_NilSafe(t *testing.T) {
	var p *StatePresenter
	p.OnState(upload.StateEmpty, upload.Snapshot{})
	p.Tick(time.Now())
}
