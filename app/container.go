package app

import (
	"log/slog"

	"github.com/soocke/predict-client-go/config"
	"github.com/soocke/predict-client-go/domain/capture"
	"github.com/soocke/predict-client-go/domain/predict"
	"github.com/soocke/predict-client-go/domain/upload"
	"github.com/soocke/predict-client-go/ui/model"
	"github.com/soocke/predict-client-go/ui/presenter"
)

// UserAgent is sent with every prediction request.
const UserAgent = "predict-client-go/1.0"

// Views is the surface the presenters render to.
type Views interface {
	presenter.UploadView
	presenter.StateView
	presenter.RequestView
}

// AppContainer assembles the machine, services, presenters and loop.
type AppContainer struct {
	Config   *config.Config
	Logger   *slog.Logger
	Machine  *upload.Machine
	Client   *predict.Client
	Capture  *capture.Service
	Request  *model.RequestModel
	Endpoint string

	// Presenters
	UploadPresenter  *presenter.UploadPresenter
	StatePresenter   *presenter.StatePresenter
	RequestPresenter *presenter.RequestPresenter
	Loop             *presenter.Loop
}

// BuildContainer constructs all components rendering to views. schedule is
// invoked at the end of every loop tick and may be nil.
func BuildContainer(cfg *config.Config, logger *slog.Logger, views Views, schedule func()) *AppContainer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	c := &AppContainer{Config: cfg, Logger: logger}
	c.Machine = upload.NewMachine(logger)
	c.Client = NewPredictClient(cfg, logger)
	c.Endpoint = c.Client.Endpoint()
	c.Capture = capture.NewService(logger, nil)
	c.Request = model.NewRequestModel()

	c.UploadPresenter = presenter.NewUploadPresenter(c.Machine, c.Client, c.Capture, views, cfg.MaxUploadBytes(), logger)
	c.StatePresenter = presenter.NewStatePresenter(views)
	c.RequestPresenter = presenter.NewRequestPresenter(c.Request, c.UploadPresenter, views)
	c.Machine.AddListener(c.StatePresenter.OnState)
	c.Loop = presenter.NewLoop(c.UploadPresenter, c.StatePresenter, c.RequestPresenter, schedule)
	return c
}

// NewPredictClient builds the endpoint client from the resolved config.
func NewPredictClient(cfg *config.Config, logger *slog.Logger) *predict.Client {
	endpoint, source := cfg.ResolveEndpoint()
	if logger != nil {
		if source == config.SourceDefault {
			logger.Info("no endpoint configured, using local default", "endpoint", endpoint)
		} else {
			logger.Info("prediction endpoint", "endpoint", endpoint, "source", source)
		}
	}
	return predict.NewClient(predict.Options{
		Endpoint:  endpoint,
		FieldName: cfg.FieldName,
		Timeout:   cfg.Timeout(),
		UserAgent: UserAgent,
	}, logger)
}

// ApplyConfig rebuilds the client and upload limit after settings changed.
// Only the next selection and submit use them.
func (c *AppContainer) ApplyConfig(cfg *config.Config) {
	if c == nil || cfg == nil {
		return
	}
	c.Config = cfg
	c.Client = NewPredictClient(cfg, c.Logger)
	c.Endpoint = c.Client.Endpoint()
	c.UploadPresenter.SetPredictor(c.Client)
	c.UploadPresenter.SetMaxBytes(cfg.MaxUploadBytes())
}

// Close stops the request worker.
func (c *AppContainer) Close() {
	if c != nil && c.UploadPresenter != nil {
		c.UploadPresenter.Close()
	}
}
