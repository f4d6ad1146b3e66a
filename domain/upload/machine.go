package upload

import (
	"log/slog"
	"sync"
)

// Machine coordinates the upload → preview → predict → result/error cycle.
// All transitions are expected on the UI goroutine; the mutex keeps the
// read-only queries safe from any goroutine. Listeners run after the lock
// is released and may query the machine.
type Machine struct {
	mu        sync.Mutex
	state     State
	selected  *SelectedImage
	result    *PredictionResult
	errMsg    string
	logger    *slog.Logger
	listeners []Listener
	pending   []notice
}

type notice struct {
	prev State
	snap Snapshot
}

// NewMachine creates a machine in StateEmpty.
func NewMachine(logger *slog.Logger) *Machine {
	return &Machine{state: StateEmpty, logger: logger}
}

// AddListener registers a listener for changes.
func (m *Machine) AddListener(l Listener) {
	if l == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Snapshot returns a copy of the current state, selection, result and banner.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Machine) snapshotLocked() Snapshot {
	s := Snapshot{State: m.state, Err: m.errMsg, Result: m.result}
	if m.selected != nil {
		cp := *m.selected
		s.Selected = &cp
	}
	return s
}

// ActionLabel returns the current submit/reset button label.
func (m *Machine) ActionLabel() string { return m.Snapshot().ActionLabel() }

// ActionEnabled reports whether the submit/reset button is enabled.
func (m *Machine) ActionEnabled() bool { return m.Snapshot().ActionEnabled() }

// DropEnabled reports whether a new image may be selected.
func (m *Machine) DropEnabled() bool { return m.Snapshot().DropEnabled() }

// Loading reports whether a prediction is in flight.
func (m *Machine) Loading() bool { return m.Snapshot().Loading() }

// Select stores img and moves to Previewing. Only an Empty machine accepts a
// selection; non-image files are rejected with the banner set.
func (m *Machine) Select(img SelectedImage) error {
	m.mu.Lock()
	defer m.unlockAndNotify()
	if m.state != StateEmpty {
		m.report(ErrSelectionLocked)
		return ErrSelectionLocked
	}
	if !img.IsImage() {
		if m.logger != nil {
			m.logger.Info("rejected non-image file", "name", img.Name, "media_type", img.MediaType)
		}
		m.report(ErrInvalidFileType)
		return ErrInvalidFileType
	}
	cp := img
	m.selected = &cp
	m.result = nil
	m.errMsg = ""
	m.transition(StatePreviewing)
	return nil
}

// Submit moves to Predicting and returns the image to send.
func (m *Machine) Submit() (SelectedImage, error) {
	m.mu.Lock()
	defer m.unlockAndNotify()
	switch m.state {
	case StatePredicting:
		return SelectedImage{}, ErrRequestInFlight
	case StateResulted:
		return SelectedImage{}, ErrResultShown
	}
	if m.selected == nil {
		m.report(ErrNoFileSelected)
		return SelectedImage{}, ErrNoFileSelected
	}
	m.errMsg = ""
	m.transition(StatePredicting)
	return *m.selected, nil
}

// Complete stores the result and moves from Predicting to Resulted.
func (m *Machine) Complete(res *PredictionResult) error {
	m.mu.Lock()
	defer m.unlockAndNotify()
	if m.state != StatePredicting {
		return ErrNotPredicting
	}
	m.result = res
	m.errMsg = ""
	m.transition(StateResulted)
	return nil
}

// Fail records err as the banner and moves from Predicting to Errored. The
// selection is kept so the user can submit again.
func (m *Machine) Fail(err error) error {
	m.mu.Lock()
	defer m.unlockAndNotify()
	if m.state != StatePredicting {
		return ErrNotPredicting
	}
	msg := "prediction failed"
	if err != nil {
		msg = err.Error()
	}
	m.errMsg = msg
	m.transition(StateErrored)
	return nil
}

// Reset clears selection, result and banner and returns to Empty.
func (m *Machine) Reset() error {
	m.mu.Lock()
	defer m.unlockAndNotify()
	switch m.state {
	case StatePredicting:
		return ErrRequestInFlight
	case StateEmpty:
		if m.errMsg != "" {
			m.errMsg = ""
			m.notify(m.state)
		}
		return nil
	}
	m.selected = nil
	m.result = nil
	m.errMsg = ""
	m.transition(StateEmpty)
	return nil
}

// Report shows err on the banner without changing state. Used for local
// failures outside the machine (unreadable file, failed screen grab).
func (m *Machine) Report(err error) {
	if err == nil {
		return
	}
	m.mu.Lock()
	defer m.unlockAndNotify()
	m.report(err)
}

// report sets the banner without changing state.
func (m *Machine) report(err error) {
	m.errMsg = err.Error()
	m.notify(m.state)
}

func (m *Machine) transition(next State) {
	prev := m.state
	m.state = next
	if m.logger != nil {
		m.logger.Debug("upload state transition", "from", prev.String(), "to", next.String())
	}
	m.notify(prev)
}

// notify queues a listener call; unlockAndNotify delivers it.
func (m *Machine) notify(prev State) {
	m.pending = append(m.pending, notice{prev: prev, snap: m.snapshotLocked()})
}

func (m *Machine) unlockAndNotify() {
	pending := m.pending
	m.pending = nil
	listeners := append([]Listener(nil), m.listeners...)
	m.mu.Unlock()
	for _, n := range pending {
		for _, l := range listeners {
			l(n.prev, n.snap)
		}
	}
}

// Ensure contract satisfaction
var _ Contract = (*Machine)(nil)
