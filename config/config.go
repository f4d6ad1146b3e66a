package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// DefaultEndpoint is the local development prediction endpoint.
const DefaultEndpoint = "http://localhost:8000/predict"

// Endpoint sources reported by ResolveEndpoint.
const (
	SourceExplicit = "endpoint"
	SourceBaseURL  = "base_url"
	SourceDefault  = "default"
)

// Config holds runtime configuration for the prediction client and UI.
// Fields are loaded from a JSON file, then overridden by PREDICT_* environment
// variables and finally by command-line flags.
type Config struct {
	Debug bool `json:"debug" env:"DEBUG"`

	// Endpoint resolution
	Endpoint    string `json:"endpoint" env:"ENDPOINT"`
	BaseURL     string `json:"base_url" env:"BASE_URL"`
	PredictPath string `json:"predict_path" env:"PATH"`

	// Request shape
	FieldName      string `json:"field_name" env:"FIELD"`
	TimeoutSeconds int    `json:"timeout_seconds" env:"TIMEOUT_SECONDS"`
	MaxUploadMB    int    `json:"max_upload_mb" env:"MAX_UPLOAD_MB"`

	// Window & preview
	WindowW  int  `json:"window_w"`
	WindowH  int  `json:"window_h"`
	PreviewW int  `json:"preview_w"`
	PreviewH int  `json:"preview_h"`
	DarkMode bool `json:"dark_mode" env:"DARK_MODE"`

	// Last directory used by the browse dialog.
	LastDir string `json:"last_dir"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:          false,
		Endpoint:       "",
		BaseURL:        "",
		PredictPath:    "/predict",
		FieldName:      "file",
		TimeoutSeconds: 60,
		MaxUploadMB:    15,
		WindowW:        820,
		WindowH:        680,
		PreviewW:       640,
		PreviewH:       420,
		DarkMode:       false,
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	c.Endpoint = strings.TrimSpace(c.Endpoint)
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.PredictPath = strings.TrimSpace(c.PredictPath)
	if c.PredictPath == "" {
		c.PredictPath = "/predict"
	}
	if !strings.HasPrefix(c.PredictPath, "/") {
		c.PredictPath = "/" + c.PredictPath
	}
	if strings.TrimSpace(c.FieldName) == "" {
		c.FieldName = "file"
	}
	if c.TimeoutSeconds < 0 {
		c.TimeoutSeconds = 60
	}
	if c.MaxUploadMB <= 0 {
		c.MaxUploadMB = 15
	}
	if c.WindowW < 320 {
		c.WindowW = 820
	}
	if c.WindowH < 240 {
		c.WindowH = 680
	}
	if c.PreviewW < 50 {
		c.PreviewW = 640
	}
	if c.PreviewH < 50 {
		c.PreviewH = 420
	}
	return nil
}

// Timeout returns the request timeout; zero means no timeout.
func (c *Config) Timeout() time.Duration {
	if c == nil || c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// MaxUploadBytes returns the upload size limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	if c == nil || c.MaxUploadMB <= 0 {
		return 15 << 20
	}
	return int64(c.MaxUploadMB) << 20
}

// ResolveEndpoint returns the prediction URL and which setting produced it.
// An explicit endpoint wins, then base_url joined with predict_path, then the
// local development default.
func (c *Config) ResolveEndpoint() (string, string) {
	if c == nil {
		return DefaultEndpoint, SourceDefault
	}
	if c.Endpoint != "" {
		return c.Endpoint, SourceExplicit
	}
	if c.BaseURL != "" {
		path := c.PredictPath
		if path == "" {
			path = "/predict"
		}
		return strings.TrimRight(c.BaseURL, "/") + path, SourceBaseURL
	}
	return DefaultEndpoint, SourceDefault
}

// CheckEndpoint reports whether the resolved endpoint is an absolute http(s) URL.
func (c *Config) CheckEndpoint() error {
	raw, _ := c.ResolveEndpoint()
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse endpoint %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("endpoint %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("endpoint %q: missing host", raw)
	}
	return nil
}

// ApplyEnv overrides fields from PREDICT_* environment variables. environ may
// be nil to read the process environment.
func (c *Config) ApplyEnv(environ map[string]string) error {
	opts := env.Options{Prefix: "PREDICT_"}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(c, opts); err != nil {
		return fmt.Errorf("config env: %w", err)
	}
	return c.Validate()
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("decode %s: %w", path, err)
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	if path == "" {
		return nil
	}
	_ = c.Validate()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
