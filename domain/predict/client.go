package predict

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image/png"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/soocke/predict-client-go/domain/upload"
)

// Options configures a Client.
type Options struct {
	Endpoint  string
	FieldName string        // multipart field carrying the image, default "file"
	Timeout   time.Duration // per request; zero means none
	UserAgent string
}

// Client posts images to a prediction endpoint as multipart form data.
type Client struct {
	http    *resty.Client
	opts    Options
	logger  *slog.Logger
	nowFunc func() time.Time
}

// NewClient constructs a client. Retries are left off: one submit is one request.
func NewClient(opts Options, logger *slog.Logger) *Client {
	if opts.FieldName == "" {
		opts.FieldName = "file"
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "predict-client-go"
	}
	rc := resty.New().
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", opts.UserAgent)
	if logger != nil {
		rc.SetLogger(restyLogger{logger})
	}
	return &Client{http: rc, opts: opts, logger: logger, nowFunc: time.Now}
}

// Endpoint returns the configured URL.
func (c *Client) Endpoint() string { return c.opts.Endpoint }

// Predict uploads img and decodes the annotated image from the response.
func (c *Client) Predict(ctx context.Context, img upload.SelectedImage) (*upload.PredictionResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}
	reqID := uuid.NewString()
	start := c.nowFunc()
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", reqID).
		SetMultipartField(c.opts.FieldName, img.Name, img.MediaType, bytes.NewReader(img.Data)).
		Post(c.opts.Endpoint)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("predict transport", "request_id", reqID, "endpoint", c.opts.Endpoint, "error", err)
		}
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if c.logger != nil {
		c.logger.Info("predict response",
			"request_id", reqID,
			"status", resp.StatusCode(),
			"bytes", len(resp.Body()),
			"elapsed", c.nowFunc().Sub(start),
		)
	}
	if !resp.IsSuccess() {
		return nil, &HTTPError{StatusCode: resp.StatusCode(), Detail: parseErrorDetail(resp.Body())}
	}
	return decodeResult(resp.Body())
}

// decodeResult parses a success body into a PredictionResult.
func decodeResult(body []byte) (*upload.PredictionResult, error) {
	var pr predictResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if pr.AnnotatedImage == nil || *pr.AnnotatedImage == "" {
		return nil, fmt.Errorf("%w: missing annotated_image_base64", ErrMalformedResponse)
	}
	raw := strings.TrimSpace(*pr.AnnotatedImage)
	raw = strings.TrimPrefix(raw, "data:image/png;base64,")
	pngBytes, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: annotated image: %v", ErrMalformedResponse, err)
	}
	img, err := png.Decode(bytes.NewReader(pngBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: annotated image: %v", ErrMalformedResponse, err)
	}
	return &upload.PredictionResult{
		Annotated:   img,
		PNG:         pngBytes,
		Predictions: pr.Predictions,
		Filename:    pr.Filename,
	}, nil
}

// restyLogger forwards resty's printf-style logs to slog.
type restyLogger struct{ l *slog.Logger }

func (r restyLogger) Errorf(format string, v ...interface{}) {
	r.l.Error(fmt.Sprintf(format, v...), "component", "resty")
}
func (r restyLogger) Warnf(format string, v ...interface{}) {
	r.l.Warn(fmt.Sprintf(format, v...), "component", "resty")
}
func (r restyLogger) Debugf(format string, v ...interface{}) {
	r.l.Debug(fmt.Sprintf(format, v...), "component", "resty")
}

var _ Predictor = (*Client)(nil)
