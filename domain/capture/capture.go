package capture

import (
	"fmt"
	"image"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/vova616/screenshot"

	"github.com/soocke/predict-client-go/domain/upload"
	"github.com/soocke/predict-client-go/ui/images"
)

// GrabFunc captures the whole screen (nil rect) or the given rectangle.
type GrabFunc func(rect *image.Rectangle) (*image.RGBA, error)

// ScreenGrab captures with vova616/screenshot.
func ScreenGrab(rect *image.Rectangle) (*image.RGBA, error) {
	if rect == nil || rect.Empty() {
		return screenshot.CaptureScreen()
	}
	screen, err := screenshot.ScreenRect()
	if err != nil {
		return nil, err
	}
	r := rect.Intersect(screen)
	if r.Empty() {
		return nil, fmt.Errorf("capture: selection out of bounds sel=%v screen=%v", *rect, screen)
	}
	return screenshot.CaptureRect(r)
}

// Stats summarises grab outcomes for instrumentation.
type Stats struct {
	Captures uint64
	Failures uint64
	Last     time.Duration
}

// Service turns screen grabs into SelectedImages so a screenshot can be
// submitted like a chosen file.
type Service struct {
	grab     GrabFunc
	logger   *slog.Logger
	now      func() time.Time
	captures atomic.Uint64
	failures atomic.Uint64
	lastNano atomic.Int64
}

// NewService constructs a service; a nil grab uses ScreenGrab.
func NewService(logger *slog.Logger, grab GrabFunc) *Service {
	if grab == nil {
		grab = ScreenGrab
	}
	return &Service{grab: grab, logger: logger, now: time.Now}
}

// Grab captures rect (nil = full screen) and encodes it as a PNG image.
func (s *Service) Grab(rect *image.Rectangle) (upload.SelectedImage, error) {
	start := s.now()
	img, err := s.grab(rect)
	if err == nil && img == nil {
		err = fmt.Errorf("capture: empty frame")
	}
	if err != nil {
		s.failures.Add(1)
		if s.logger != nil {
			s.logger.Error("capture screen", "error", err)
		}
		return upload.SelectedImage{}, fmt.Errorf("capture screen: %w", err)
	}
	data := images.EncodePNG(img)
	if len(data) == 0 {
		s.failures.Add(1)
		return upload.SelectedImage{}, fmt.Errorf("capture screen: png encode failed")
	}
	elapsed := s.now().Sub(start)
	s.captures.Add(1)
	s.lastNano.Store(int64(elapsed))
	if s.logger != nil {
		s.logger.Debug("capture.grab", "w", img.Bounds().Dx(), "h", img.Bounds().Dy(), "bytes", len(data), "elapsed", elapsed)
	}
	name := "screenshot-" + start.Format("20060102-150405") + ".png"
	return upload.SelectedImage{Name: name, MediaType: "image/png", Data: data}, nil
}

// Stats returns counters since construction.
func (s *Service) Stats() Stats {
	return Stats{
		Captures: s.captures.Load(),
		Failures: s.failures.Load(),
		Last:     time.Duration(s.lastNano.Load()),
	}
}
