package presenter

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/soocke/predict-client-go/domain/upload"
	"github.com/soocke/predict-client-go/ui/images"
)

// PromptText is shown on the drop target while nothing is selected.
const PromptText = "Drag and drop an image here, or click to select one"

// Predictor sends one image to the prediction endpoint.
type Predictor interface {
	Predict(ctx context.Context, img upload.SelectedImage) (*upload.PredictionResult, error)
}

// ScreenSource produces a screenshot as a selectable image.
type ScreenSource interface {
	Grab(rect *image.Rectangle) (upload.SelectedImage, error)
}

// UploadView is the surface rendered from machine snapshots.
type UploadView interface {
	SetPrompt(text string)
	ShowImage(img image.Image)
	HideImage()
	SetAction(label string, enabled bool)
	SetLoading(loading bool)
	SetError(msg string)
	SetDropEnabled(enabled bool)
	SetDetections(lines []string)
}

type predictJob struct {
	img  upload.SelectedImage
	pred Predictor
}

type predictOutcome struct {
	result   *upload.PredictionResult
	err      error
	duration time.Duration
}

// UploadPresenter drives the upload machine from user intents and renders
// every resulting snapshot. Intents and Tick run on the UI goroutine; the
// request itself runs on a worker and its outcome is applied on Tick.
type UploadPresenter struct {
	machine   upload.Contract
	predictor Predictor
	screen    ScreenSource
	view      UploadView
	logger    *slog.Logger
	maxBytes  int64

	ctx    context.Context
	cancel context.CancelFunc

	workerOnce sync.Once
	workCh     chan predictJob
	resultCh   chan predictOutcome

	preview image.Image
}

// NewUploadPresenter constructs the presenter. screen may be nil when screen
// capture is unavailable.
func NewUploadPresenter(machine upload.Contract, predictor Predictor, screen ScreenSource, view UploadView, maxBytes int64, logger *slog.Logger) *UploadPresenter {
	ctx, cancel := context.WithCancel(context.Background())
	return &UploadPresenter{
		machine:   machine,
		predictor: predictor,
		screen:    screen,
		view:      view,
		logger:    logger,
		maxBytes:  maxBytes,
		ctx:       ctx,
		cancel:    cancel,
		workCh:    make(chan predictJob, 1),
		resultCh:  make(chan predictOutcome, 1),
	}
}

// Refresh renders the current snapshot.
func (p *UploadPresenter) Refresh() {
	if p == nil || p.machine == nil {
		return
	}
	p.render(p.machine.Snapshot())
}

// SelectPath loads the file at path and selects it.
func (p *UploadPresenter) SelectPath(path string) error {
	if p == nil || p.machine == nil {
		return nil
	}
	if !p.machine.Snapshot().DropEnabled() {
		return p.SelectImage(upload.SelectedImage{})
	}
	img, err := upload.LoadFile(path, p.maxBytes)
	if err != nil {
		if p.logger != nil {
			p.logger.Warn("load image", "path", path, "error", err)
		}
		p.machine.Report(err)
		p.Refresh()
		return err
	}
	return p.SelectImage(img)
}

// SelectImage hands img to the machine and prepares its preview.
func (p *UploadPresenter) SelectImage(img upload.SelectedImage) error {
	if p == nil || p.machine == nil {
		return nil
	}
	err := p.machine.Select(img)
	if err == nil {
		p.preview = decodePreview(img, p.logger)
	}
	p.Refresh()
	return err
}

// CaptureScreen grabs the full screen and selects it.
func (p *UploadPresenter) CaptureScreen() error {
	if p == nil || p.machine == nil || p.screen == nil {
		return nil
	}
	if !p.machine.Snapshot().DropEnabled() {
		return p.SelectImage(upload.SelectedImage{})
	}
	img, err := p.screen.Grab(nil)
	if err != nil {
		p.machine.Report(err)
		p.Refresh()
		return err
	}
	return p.SelectImage(img)
}

// Action handles the submit/reset button: Reset when a result is shown,
// otherwise submit the selected image.
func (p *UploadPresenter) Action() error {
	if p == nil || p.machine == nil {
		return nil
	}
	switch p.machine.State() {
	case upload.StateResulted:
		return p.Reset()
	case upload.StatePredicting:
		return upload.ErrRequestInFlight
	}
	img, err := p.machine.Submit()
	p.Refresh()
	if err != nil {
		return err
	}
	if p.logger != nil {
		p.logger.Info("submit prediction", "name", img.Name, "media_type", img.MediaType, "bytes", len(img.Data))
	}
	p.dispatch(img)
	return nil
}

// Reset clears selection, result and banner.
func (p *UploadPresenter) Reset() error {
	if p == nil || p.machine == nil {
		return nil
	}
	err := p.machine.Reset()
	if err == nil {
		p.preview = nil
	}
	p.Refresh()
	return err
}

// Tick applies a finished request, if any. Call from the UI loop.
func (p *UploadPresenter) Tick(now time.Time) {
	if p == nil {
		return
	}
	select {
	case out := <-p.resultCh:
		p.apply(out)
	default:
	}
}

// Await blocks until the in-flight request finishes and applies it. It
// returns the request error, or ctx.Err() when ctx ends first.
func (p *UploadPresenter) Await(ctx context.Context) error {
	if p == nil {
		return nil
	}
	if p.machine.State() != upload.StatePredicting {
		return upload.ErrNotPredicting
	}
	select {
	case out := <-p.resultCh:
		p.apply(out)
		return out.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// InFlight reports whether a request is outstanding.
func (p *UploadPresenter) InFlight() bool {
	return p != nil && p.machine != nil && p.machine.Snapshot().Loading()
}

// Close cancels an in-flight request and stops the worker.
func (p *UploadPresenter) Close() {
	if p == nil {
		return
	}
	p.cancel()
}

// SetPredictor replaces the predictor used by the next submit. A request
// already in flight keeps the predictor it started with.
func (p *UploadPresenter) SetPredictor(pred Predictor) {
	if p == nil || pred == nil {
		return
	}
	p.predictor = pred
}

// SetMaxBytes replaces the upload size limit for the next selection.
func (p *UploadPresenter) SetMaxBytes(n int64) {
	if p == nil {
		return
	}
	p.maxBytes = n
}

// ReportError shows err on the banner without a state change.
func (p *UploadPresenter) ReportError(err error) {
	if p == nil || p.machine == nil || err == nil {
		return
	}
	p.machine.Report(err)
	p.Refresh()
}

func (p *UploadPresenter) dispatch(img upload.SelectedImage) {
	p.workerOnce.Do(func() { go p.runWorker() })
	p.workCh <- predictJob{img: img, pred: p.predictor}
}

func (p *UploadPresenter) runWorker() {
	for {
		select {
		case <-p.ctx.Done():
			return
		case job := <-p.workCh:
			start := time.Now()
			res, err := job.pred.Predict(p.ctx, job.img)
			if err == nil && res == nil {
				err = errors.New("prediction returned no result")
			}
			out := predictOutcome{result: res, err: err, duration: time.Since(start)}
			select {
			case p.resultCh <- out:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

func (p *UploadPresenter) apply(out predictOutcome) {
	if out.err != nil {
		if p.logger != nil {
			p.logger.Error("prediction failed", "error", out.err, "elapsed", out.duration)
		}
		_ = p.machine.Fail(out.err)
	} else {
		if p.logger != nil {
			p.logger.Info("prediction complete", "detections", len(out.result.Predictions), "elapsed", out.duration)
		}
		_ = p.machine.Complete(out.result)
	}
	p.Refresh()
}

func (p *UploadPresenter) render(s upload.Snapshot) {
	if p.view == nil {
		return
	}
	p.view.SetError(s.Err)
	p.view.SetAction(s.ActionLabel(), s.ActionEnabled())
	p.view.SetLoading(s.Loading())
	p.view.SetDropEnabled(s.DropEnabled())
	switch s.State {
	case upload.StateEmpty:
		p.view.SetPrompt(PromptText)
		p.view.HideImage()
		p.view.SetDetections(nil)
	case upload.StateResulted:
		p.view.SetPrompt("")
		if s.Result != nil && s.Result.Annotated != nil {
			p.view.ShowImage(s.Result.Annotated)
		}
		p.view.SetDetections(s.Result.Summary())
	default:
		p.view.SetPrompt("")
		if p.preview != nil {
			p.view.ShowImage(p.preview)
		} else {
			p.view.HideImage()
		}
		p.view.SetDetections(nil)
	}
}

// decodePreview decodes img for display; formats Go cannot decode still
// submit but show no preview.
func decodePreview(img upload.SelectedImage, logger *slog.Logger) image.Image {
	decoded, format, err := images.Decode(img.Data)
	if err != nil {
		if logger != nil {
			logger.Debug("preview decode", "name", img.Name, "error", err)
		}
		return nil
	}
	if logger != nil {
		logger.Debug("preview decoded", "name", img.Name, "format", format, "w", decoded.Bounds().Dx(), "h", decoded.Bounds().Dy())
	}
	return decoded
}
