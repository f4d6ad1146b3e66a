package upload

import (
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"strings"
)

// State enumerates the finite states of the upload/predict cycle.
type State int

const (
	StateEmpty State = iota
	StatePreviewing
	StatePredicting
	StateResulted
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePreviewing:
		return "previewing"
	case StatePredicting:
		return "predicting"
	case StateResulted:
		return "resulted"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Action button labels.
const (
	LabelSubmit = "Submit"
	LabelReset  = "Reset"
)

// Machine errors. Local errors (invalid type, no file) leave the state unchanged.
var (
	ErrInvalidFileType = errors.New("invalid file type: please select an image")
	ErrNoFileSelected  = errors.New("no file selected: choose an image first")
	ErrSelectionLocked = errors.New("an image is already selected: reset first")
	ErrRequestInFlight = errors.New("a prediction is already in progress")
	ErrResultShown     = errors.New("a result is shown: reset first")
	ErrNotPredicting   = errors.New("no prediction in progress")
)

// SelectedImage is the user's chosen file and its declared media type.
type SelectedImage struct {
	Name      string
	MediaType string
	Data      []byte
}

// IsImage reports whether the declared media type is an image type.
func (s SelectedImage) IsImage() bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(s.MediaType)), "image/")
}

// Empty reports whether no image is held.
func (s SelectedImage) Empty() bool { return s.Name == "" && len(s.Data) == 0 }

// Detection is one object reported by the prediction endpoint.
type Detection struct {
	ClassID    int     `json:"class_id"`
	ClassName  string  `json:"class_name"`
	Confidence float64 `json:"confidence"`
	BBox       [4]int  `json:"bbox"`
}

// Label renders the detection the way the annotated image captions it.
func (d Detection) Label() string {
	return fmt.Sprintf("%s %d%%", d.ClassName, int(d.Confidence*100))
}

// PredictionResult is the decoded endpoint response.
type PredictionResult struct {
	Annotated   image.Image
	PNG         []byte
	Predictions []Detection
	Filename    string
}

// DataURI returns the annotated image as a data:image/png;base64 URI.
func (r *PredictionResult) DataURI() string {
	if r == nil {
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(r.PNG)
}

// Summary returns one line per detection, or a note when nothing was found.
func (r *PredictionResult) Summary() []string {
	if r == nil || len(r.Predictions) == 0 {
		return []string{"No objects detected"}
	}
	out := make([]string, 0, len(r.Predictions))
	for _, d := range r.Predictions {
		out = append(out, fmt.Sprintf("%s [%d,%d,%d,%d]", d.Label(), d.BBox[0], d.BBox[1], d.BBox[2], d.BBox[3]))
	}
	return out
}

// Snapshot is a read-only copy of the machine at one point in time.
type Snapshot struct {
	State    State
	Selected *SelectedImage
	Result   *PredictionResult
	Err      string
}

// ActionLabel is the label of the submit/reset button for this snapshot.
func (s Snapshot) ActionLabel() string {
	if s.State == StateResulted {
		return LabelReset
	}
	return LabelSubmit
}

// ActionEnabled reports whether the submit/reset button accepts clicks.
func (s Snapshot) ActionEnabled() bool { return s.State != StatePredicting }

// DropEnabled reports whether a new image may be selected or dropped.
func (s Snapshot) DropEnabled() bool { return s.State == StateEmpty }

// Loading reports whether the loading indicator is shown.
func (s Snapshot) Loading() bool { return s.State == StatePredicting }

// Listener is called after every change of state or error banner.
type Listener func(prev State, next Snapshot)

// Interface slices for consumers (presenters).
type StateSource interface {
	State() State
	Snapshot() Snapshot
}
type Selector interface {
	Select(SelectedImage) error
}
type Submitter interface {
	Submit() (SelectedImage, error)
	Complete(*PredictionResult) error
	Fail(error) error
}
type Resetter interface{ Reset() error }
type Reporter interface{ Report(error) }

// Contract aggregate for DI.
type Contract interface {
	StateSource
	Selector
	Submitter
	Resetter
	Reporter
	AddListener(Listener)
}
