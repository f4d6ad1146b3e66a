// Package console renders the upload cycle as text lines for the headless
// predict command.
package console

import (
	"fmt"
	"image"
	"io"
	"strings"
	"sync"
	"time"
)

// View writes one line per visible change. It satisfies the presenter
// upload, state and request views.
type View struct {
	mu      sync.Mutex
	w       io.Writer
	err     string
	loading bool
	label   string
	image   image.Image
	lines   []string
}

// New returns a view writing to w.
func New(w io.Writer) *View { return &View{w: w} }

func (v *View) printf(format string, args ...any) {
	if v.w == nil {
		return
	}
	fmt.Fprintf(v.w, format+"\n", args...)
}

func (v *View) SetPrompt(text string) {}

func (v *View) ShowImage(img image.Image) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if img == nil || img == v.image {
		return
	}
	v.image = img
	b := img.Bounds()
	v.printf("image: %dx%d", b.Dx(), b.Dy())
}

func (v *View) HideImage() {
	v.mu.Lock()
	v.image = nil
	v.mu.Unlock()
}

func (v *View) SetAction(label string, enabled bool) {
	v.mu.Lock()
	v.label = label
	v.mu.Unlock()
}

func (v *View) SetLoading(loading bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if loading && !v.loading {
		v.printf("predicting...")
	}
	v.loading = loading
}

func (v *View) SetError(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if msg != "" && msg != v.err {
		v.printf("error: %s", msg)
	}
	v.err = msg
}

func (v *View) SetDropEnabled(enabled bool) {}

func (v *View) SetDetections(lines []string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if strings.Join(lines, "\n") == strings.Join(v.lines, "\n") {
		return
	}
	v.lines = append(v.lines[:0], lines...)
	for _, l := range lines {
		v.printf("  %s", l)
	}
}

func (v *View) SetStateLabel(text string) { v.printf("%s", text) }

func (v *View) SettingsEditable(bool) {}

func (v *View) SetRequest(elapsed, last time.Duration, completed int) {
	if last > 0 && elapsed == 0 {
		v.printf("request took %s", last.Round(time.Millisecond))
	}
}

// Err returns the banner currently shown.
func (v *View) Err() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

// ActionLabel returns the action button label currently shown.
func (v *View) ActionLabel() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.label
}
