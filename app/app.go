package app

import (
	"fmt"
	"log/slog"
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/soocke/predict-client-go/config"
	"github.com/soocke/predict-client-go/ui/theme"
	"github.com/soocke/predict-client-go/ui/view"
)

const (
	tick = 100 * time.Millisecond
)

type app struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger
	afterID string

	root      *view.RootView
	container *AppContainer
}

// NewApp prepares the main window.
func NewApp(title string, cfg *config.Config, cfgPath string, logger *slog.Logger) *app {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	a := &app{cfg: cfg, cfgPath: cfgPath, logger: logger}

	App.WmTitle(title)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", cfg.WindowW, cfg.WindowH))
	return a
}

// Start builds the UI, optionally preselects initialPath and runs the Tk
// event loop until the window closes.
func (a *app) Start(initialPath string) {
	theme.SetDark(a.cfg.DarkMode)

	a.root = view.NewRootView(a.cfg, a.cfgPath, a.logger)
	a.container = BuildContainer(a.cfg, a.logger, a.root, a.scheduleUpdate)
	up := a.container.UploadPresenter
	a.root.Build(view.Handlers{
		Browse: func(path string) {
			_ = up.SelectPath(path)
			a.saveConfig()
		},
		Action:  func() { _ = up.Action() },
		Clear:   func() { _ = up.Reset() },
		Capture: func() { _ = up.CaptureScreen() },
		Exit:    a.exitHandler,
		Apply:   a.container.ApplyConfig,
		Report:  up.ReportError,
	})
	up.Refresh()
	if initialPath != "" {
		_ = up.SelectPath(initialPath)
	}

	a.scheduleUpdate()
	App.Wait()
}

func (a *app) saveConfig() {
	if err := a.cfg.Save(a.cfgPath); err != nil && a.logger != nil {
		a.logger.Error("config save failed", "error", err)
	}
}

func (a *app) exitHandler() {
	// Cancel scheduled after event if any.
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
	}
	a.container.Close()
	Destroy(App)
}

func (a *app) scheduleUpdate() {
	// Schedule the next update using TclAfter to stay on Tk's event loop thread.
	a.afterID = TclAfter(tick, func() { a.container.Loop.Tick() })
}
