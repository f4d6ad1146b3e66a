package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/soocke/predict-client-go/app"
	"github.com/soocke/predict-client-go/config"
	"github.com/soocke/predict-client-go/debug"
)

const defaultConfigFile = "predict-client.json"

type cliOptions struct {
	configPath string
	endpoint   string
	timeout    time.Duration
	debug      bool
	out        string

	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	o := &cliOptions{stdout: stdout, stderr: stderr}
	root := &cobra.Command{
		Use:           "predict-client [image]",
		Short:         "Send images to an object-detection endpoint and view the annotated result",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := o.setup(cmd)
			if err != nil {
				return err
			}
			initial := ""
			if len(args) > 0 {
				initial = args[0]
			}
			app.NewApp("Predict Client", cfg, o.configPath, logger).Start(initial)
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVarP(&o.configPath, "config", "c", defaultConfigPath(), "Path to the JSON config file")
	root.PersistentFlags().StringVarP(&o.endpoint, "endpoint", "e", "", "Prediction endpoint URL (overrides config and PREDICT_ENDPOINT)")
	root.PersistentFlags().DurationVarP(&o.timeout, "timeout", "t", 0, "Request timeout, e.g. 30s (0 keeps the configured value)")
	root.PersistentFlags().BoolVar(&o.debug, "debug", false, "Debug logging and runtime stats")

	predictCmd := &cobra.Command{
		Use:   "predict <image>",
		Short: "Run one prediction without a window",
		Long:  `The predict command selects the image, submits it, waits for the response, prints the detections and writes the annotated PNG to --out.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := o.setup(cmd)
			if err != nil {
				return err
			}
			return o.runPredict(cmd.Context(), cfg, logger, args[0])
		},
	}
	predictCmd.Flags().StringVarP(&o.out, "out", "o", "", "Where to write the annotated PNG (default <image>.annotated.png)")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration and endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := o.setup(cmd)
			if err != nil {
				return err
			}
			return o.printConfig(cfg)
		},
	}

	root.AddCommand(predictCmd, configCmd)
	return root
}

// setup loads the config file, applies environment and flag overrides and
// builds the logger.
func (o *cliOptions) setup(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		fmt.Fprintf(o.stderr, "config: %v (using defaults)\n", err)
	}
	if err := cfg.ApplyEnv(nil); err != nil {
		return nil, nil, err
	}
	if o.endpoint != "" {
		cfg.Endpoint = o.endpoint
	}
	if cmd.Flags().Changed("timeout") {
		cfg.TimeoutSeconds = int(o.timeout.Round(time.Second) / time.Second)
	}
	if o.debug {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if err := cfg.CheckEndpoint(); err != nil {
		return nil, nil, err
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := NewLogger(o.stderr, level)
	if cfg.Debug {
		debug.Start(cmd.Context(), 2*time.Second, logger)
	}
	return cfg, logger, nil
}

func (o *cliOptions) runPredict(ctx context.Context, cfg *config.Config, logger *slog.Logger, path string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := app.Predict(ctx, cfg, logger, path, o.stdout)
	if err != nil {
		return err
	}
	out := o.out
	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + ".annotated.png"
	}
	if err := os.WriteFile(out, res.PNG, 0o644); err != nil {
		return fmt.Errorf("write annotated image: %w", err)
	}
	fmt.Fprintf(o.stdout, "annotated image written to %s\n", out)
	return nil
}

func (o *cliOptions) printConfig(cfg *config.Config) error {
	endpoint, source := cfg.ResolveEndpoint()
	view := struct {
		*config.Config
		ResolvedEndpoint string `json:"resolved_endpoint"`
		EndpointSource   string `json:"endpoint_source"`
		ConfigPath       string `json:"config_path"`
	}{cfg, endpoint, source, o.configPath}
	enc := json.NewEncoder(o.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}

func defaultConfigPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "predict-client", defaultConfigFile)
	}
	return defaultConfigFile
}
