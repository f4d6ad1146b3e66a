package view

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/soocke/predict-client-go/config"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// SettingsPanel edits the endpoint settings. Changes are written back into
// *config.Config, persisted, and reported through onApply; rejected changes
// go to onError.
type SettingsPanel interface {
	Build(startRow int) (endRow int) // constructs widgets starting at startRow, returns next free row
	SetEditable(enabled bool)
	ApplyChanges()
}

type settingsPanel struct {
	cfg      *config.Config
	cfgPath  string
	logger   *slog.Logger
	onApply  func(*config.Config)
	onError  func(error)
	applyBtn *ButtonWidget
	widgets  map[string]*TextWidget
}

// NewSettingsPanel creates the view bound to cfg.
func NewSettingsPanel(cfg *config.Config, cfgPath string, logger *slog.Logger, onApply func(*config.Config), onError func(error)) SettingsPanel {
	return &settingsPanel{cfg: cfg, cfgPath: cfgPath, logger: logger, onApply: onApply, onError: onError, widgets: make(map[string]*TextWidget)}
}

func (v *settingsPanel) Build(startRow int) (row int) {
	c := v.cfg
	row = startRow
	makeRow := func(id, label, value string, width int) {
		lbl := Label(Txt(label), Anchor("w"))
		Grid(lbl, Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := Text(Height(1), Width(width))
		Grid(w, Row(row), Column(1), Columnspan(3), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		w.Delete("1.0", END)
		w.Insert("1.0", value)
		v.widgets[id] = w
		row++
	}
	makeRow("endpoint", "Endpoint URL", c.Endpoint, 48)
	makeRow("baseURL", "Base URL (when no endpoint)", c.BaseURL, 48)
	makeRow("path", "Predict Path", c.PredictPath, 16)
	makeRow("field", "Form Field", c.FieldName, 16)
	makeRow("timeout", "Timeout Seconds (0 = none)", fmt.Sprintf("%d", c.TimeoutSeconds), 8)
	makeRow("maxUpload", "Max Upload MB", fmt.Sprintf("%d", c.MaxUploadMB), 8)
	v.applyBtn = Button(Txt("Apply Settings"), Command(func() { v.ApplyChanges() }))
	Grid(v.applyBtn, Row(row), Column(0), Columnspan(4), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++
	return row
}

func (v *settingsPanel) SetEditable(enabled bool) {
	state := "disabled"
	if enabled {
		state = "normal"
	}
	for _, w := range v.widgets {
		if w != nil {
			w.Configure(State(state))
		}
	}
	if v.applyBtn != nil {
		v.applyBtn.Configure(State(state))
	}
}

func (v *settingsPanel) text(id string) (string, bool) {
	w := v.widgets[id]
	if w == nil {
		return "", false
	}
	return strings.TrimSpace(strings.Join(w.Get("1.0", END), "")), true
}

func (v *settingsPanel) ApplyChanges() {
	if v.cfg == nil {
		return
	}
	fields := make(map[string]string, len(v.widgets))
	for id := range v.widgets {
		if s, ok := v.text(id); ok {
			fields[id] = s
		}
	}
	cfg, err := applySettings(*v.cfg, fields)
	if err != nil {
		if v.logger != nil {
			v.logger.Warn("settings rejected", "error", err)
		}
		if v.onError != nil {
			v.onError(err)
		}
		return
	}
	*v.cfg = cfg
	if err := v.cfg.Save(v.cfgPath); err != nil {
		if v.logger != nil {
			v.logger.Error("config save failed", "error", err)
		}
		if v.onError != nil {
			v.onError(fmt.Errorf("save settings: %w", err))
		}
	} else if v.logger != nil {
		v.logger.Info("config saved", "path", v.cfgPath)
	}
	if v.onApply != nil {
		v.onApply(v.cfg)
	}
}

// applySettings merges the form fields into cfg. Empty path and field keep
// their current values; numbers that do not parse are rejected.
func applySettings(cfg config.Config, fields map[string]string) (config.Config, error) {
	if s, ok := fields["endpoint"]; ok {
		cfg.Endpoint = s
	}
	if s, ok := fields["baseURL"]; ok {
		cfg.BaseURL = s
	}
	if s, ok := fields["path"]; ok && s != "" {
		cfg.PredictPath = s
	}
	if s, ok := fields["field"]; ok && s != "" {
		cfg.FieldName = s
	}
	if s, ok := fields["timeout"]; ok {
		i, ok := parseIntField(s)
		if !ok || i < 0 {
			return cfg, fmt.Errorf("settings: timeout %q must be a whole number of seconds", s)
		}
		cfg.TimeoutSeconds = i
	}
	if s, ok := fields["maxUpload"]; ok {
		i, ok := parseIntField(s)
		if !ok || i <= 0 {
			return cfg, fmt.Errorf("settings: max upload %q must be a positive number of MB", s)
		}
		cfg.MaxUploadMB = i
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("settings: %w", err)
	}
	if err := cfg.CheckEndpoint(); err != nil {
		return cfg, fmt.Errorf("settings: %w", err)
	}
	return cfg, nil
}

func parseIntField(s string) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return i, true
}
