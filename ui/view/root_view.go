package view

import (
	"image"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/soocke/predict-client-go/config"
	"github.com/soocke/predict-client-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Handlers are the user intents the root view forwards.
type Handlers struct {
	Browse  func(path string)
	Action  func()
	Clear   func()
	Capture func()
	Exit    func()
	Apply   func(*config.Config)
	Report  func(error)
}

// RootView composes the top-level application layout and wires UI callbacks.
// It owns high-level subviews but exposes minimal exported fields for presenters.
type RootView struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger

	// Subviews
	Request  RequestStats
	Settings SettingsPanel
	Surface  ImageSurface

	// Widgets
	StateLabel  *LabelWidget
	PromptLabel *LabelWidget
	ActionBtn   *ButtonWidget
	ClearBtn    *ButtonWidget
	CaptureBtn  *ButtonWidget
	LoadingLbl  *LabelWidget
	BannerLabel *LabelWidget
	Detections  *TextWidget

	dropEnabled bool
	prompt      string
	banner      string
	action      string
	actionOn    bool
	loading     bool
	detections  string
}

// UI abstracts the subset of view operations needed by presenters, enabling decoupling
// from the concrete RootView implementation.
type UI interface {
	SetPrompt(text string)
	ShowImage(img image.Image)
	HideImage()
	SetAction(label string, enabled bool)
	SetLoading(loading bool)
	SetError(msg string)
	SetDropEnabled(enabled bool)
	SetDetections(lines []string)
	SetStateLabel(text string)
	SettingsEditable(enabled bool)
	SetRequest(elapsed, last time.Duration, completed int)
}

var _ UI = (*RootView)(nil)

func NewRootView(cfg *config.Config, cfgPath string, logger *slog.Logger) *RootView {
	return &RootView{cfg: cfg, cfgPath: cfgPath, logger: logger, dropEnabled: true}
}

// Build constructs the layout. Handlers are invoked on user actions.
func (rv *RootView) Build(h Handlers) {
	if rv == nil {
		return
	}
	pal := theme.CurrentPalette()

	// Row 0: state label, request stats, capture and exit buttons
	rv.StateLabel = Label(Txt("State: empty"), Borderwidth(1), Relief("ridge"), Background(pal.Accent), Foreground("white"))
	Grid(rv.StateLabel, Row(0), Column(0), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	statsFrame := Frame()
	Grid(statsFrame, Row(0), Column(1), Columnspan(2), Sticky("w"), Padx("0.3m"), Pady("0.3m"))
	rv.Request = NewRequestStats(statsFrame, 0, 0)

	btnFrame := Frame()
	Grid(btnFrame, Row(0), Column(3), Sticky("ne"), Padx("0.3m"), Pady("0.3m"))
	rv.CaptureBtn = Button(Txt("Capture Screen"), Command(orNoop(h.Capture)))
	Grid(rv.CaptureBtn, In(btnFrame), Row(0), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	exitBtn := Button(Txt("Exit"), Command(orNoop(h.Exit)))
	Grid(exitBtn, In(btnFrame), Row(0), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.2m"))

	// Row 1: drop target. Clicking opens the file dialog while no image is held.
	rv.prompt = "-"
	rv.PromptLabel = Label(Txt(""), Borderwidth(2), Relief("groove"), Padx("4m"), Pady("3m"), Foreground(pal.TextMuted))
	Grid(rv.PromptLabel, Row(1), Column(0), Columnspan(4), Sticky("we"), Padx("0.4m"), Pady("0.4m"))
	browse := func() {
		if !rv.dropEnabled || h.Browse == nil {
			return
		}
		if path := rv.chooseFile(); path != "" {
			h.Browse(path)
		}
	}
	Bind(rv.PromptLabel, "<Button-1>", Command(browse))

	// Row 2: preview/result surface
	w, hgt := 640, 420
	if rv.cfg != nil {
		w, hgt = rv.cfg.PreviewW, rv.cfg.PreviewH
	}
	rv.Surface = NewImageSurface(2, w, hgt)
	Bind(rv.Surface.Widget(), "<Button-1>", Command(browse))

	// Row 3: action, clear, loading indicator
	actFrame := Frame()
	Grid(actFrame, Row(3), Column(0), Columnspan(4), Sticky("we"), Padx("0.3m"), Pady("0.3m"))
	rv.ActionBtn = Button(Txt("Submit"), Width(10), Command(orNoop(h.Action)))
	Grid(rv.ActionBtn, In(actFrame), Row(0), Column(0), Sticky("w"), Padx("0.2m"))
	rv.ClearBtn = Button(Txt("Clear"), Width(10), Command(orNoop(h.Clear)))
	Grid(rv.ClearBtn, In(actFrame), Row(0), Column(1), Sticky("w"), Padx("0.2m"))
	rv.LoadingLbl = Label(Txt(""), Width(16), Foreground(pal.Primary))
	Grid(rv.LoadingLbl, In(actFrame), Row(0), Column(2), Sticky("w"), Padx("0.4m"))
	rv.action, rv.actionOn = "Submit", true
	Bind(App, "<Escape>", Command(orNoop(h.Clear)))
	Bind(App, "<Return>", Command(orNoop(h.Action)))

	// Row 4: error banner
	rv.BannerLabel = Label(Txt(""), Anchor("w"), Foreground(pal.Danger))
	Grid(rv.BannerLabel, Row(4), Column(0), Columnspan(4), Sticky("we"), Padx("0.4m"), Pady("0.2m"))

	// Row 5: detections
	rv.Detections = Text(Height(5), Width(60))
	Grid(rv.Detections, Row(5), Column(0), Columnspan(4), Sticky("we"), Padx("0.4m"), Pady("0.2m"))
	rv.Detections.Configure(State("disabled"))

	// Settings rows
	rv.Settings = NewSettingsPanel(rv.cfg, rv.cfgPath, rv.logger, h.Apply, h.Report)
	rv.Settings.Build(6)
}

func (rv *RootView) chooseFile() string {
	opts := []Opt{Title("Select an image")}
	if rv.cfg != nil && rv.cfg.LastDir != "" {
		opts = append(opts, Initialdir(rv.cfg.LastDir))
	}
	files := GetOpenFile(opts...)
	if len(files) == 0 {
		return ""
	}
	path := strings.TrimSpace(files[0])
	if path != "" && rv.cfg != nil {
		rv.cfg.LastDir = filepath.Dir(path)
	}
	return path
}

// SetPrompt shows text on the drop target; empty text leaves only the frame.
func (rv *RootView) SetPrompt(text string) {
	if rv == nil || rv.PromptLabel == nil || text == rv.prompt {
		return
	}
	rv.prompt = text
	if text == "" {
		text = "Image selected. Clear to choose another."
	}
	rv.PromptLabel.Configure(Txt(text))
}

func (rv *RootView) ShowImage(img image.Image) {
	if rv != nil && rv.Surface != nil {
		rv.Surface.Show(img)
	}
}

func (rv *RootView) HideImage() {
	if rv != nil && rv.Surface != nil {
		rv.Surface.Reset()
	}
}

func (rv *RootView) SetAction(label string, enabled bool) {
	if rv == nil || rv.ActionBtn == nil || (label == rv.action && enabled == rv.actionOn) {
		return
	}
	rv.action, rv.actionOn = label, enabled
	rv.ActionBtn.Configure(Txt(label), State(stateOpt(enabled)))
	if rv.ClearBtn != nil {
		rv.ClearBtn.Configure(State(stateOpt(enabled)))
	}
}

func (rv *RootView) SetLoading(loading bool) {
	if rv == nil || rv.LoadingLbl == nil || loading == rv.loading {
		return
	}
	rv.loading = loading
	text := ""
	if loading {
		text = "Predicting..."
	}
	rv.LoadingLbl.Configure(Txt(text))
}

func (rv *RootView) SetError(msg string) {
	if rv == nil || rv.BannerLabel == nil || msg == rv.banner {
		return
	}
	rv.banner = msg
	if msg != "" {
		msg = "Error: " + msg
	}
	rv.BannerLabel.Configure(Txt(msg))
}

func (rv *RootView) SetDropEnabled(enabled bool) {
	if rv == nil {
		return
	}
	rv.dropEnabled = enabled
	if rv.CaptureBtn != nil {
		rv.CaptureBtn.Configure(State(stateOpt(enabled)))
	}
}

func (rv *RootView) SetDetections(lines []string) {
	if rv == nil || rv.Detections == nil {
		return
	}
	text := strings.Join(lines, "\n")
	if text == rv.detections {
		return
	}
	rv.detections = text
	rv.Detections.Configure(State("normal"))
	rv.Detections.Delete("1.0", END)
	rv.Detections.Insert("1.0", text)
	rv.Detections.Configure(State("disabled"))
}

// SetStateLabel updates the state label text.
func (rv *RootView) SetStateLabel(text string) {
	if rv != nil && rv.StateLabel != nil {
		rv.StateLabel.Configure(Txt(text))
	}
}

// SettingsEditable toggles settings panel editability.
func (rv *RootView) SettingsEditable(enabled bool) {
	if rv != nil && rv.Settings != nil {
		rv.Settings.SetEditable(enabled)
	}
}

func (rv *RootView) SetRequest(elapsed, last time.Duration, completed int) {
	if rv != nil && rv.Request != nil {
		rv.Request.SetRequest(elapsed, last, completed)
	}
}

func stateOpt(enabled bool) string {
	if enabled {
		return "normal"
	}
	return "disabled"
}

func orNoop(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	return fn
}
