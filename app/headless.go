package app

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/soocke/predict-client-go/config"
	"github.com/soocke/predict-client-go/domain/upload"
	"github.com/soocke/predict-client-go/ui/console"
)

// Predict runs one select, submit, await cycle without a window and reports
// progress as text lines on w.
func Predict(ctx context.Context, cfg *config.Config, logger *slog.Logger, path string, w io.Writer) (*upload.PredictionResult, error) {
	v := console.New(w)
	c := BuildContainer(cfg, logger, v, nil)
	defer c.Close()

	up := c.UploadPresenter
	// No Tk loop here: flush queued state changes after every step.
	flush := func() { c.StatePresenter.Tick(time.Now()) }
	defer flush()

	up.Refresh()
	err := up.SelectPath(path)
	flush()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	err = up.Action()
	flush()
	if err != nil {
		return nil, err
	}
	if err := up.Await(ctx); err != nil {
		return nil, err
	}
	v.SetRequest(0, time.Since(start), 1)
	return c.Machine.Snapshot().Result, nil
}
