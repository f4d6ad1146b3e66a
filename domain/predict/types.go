package predict

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/soocke/predict-client-go/domain/upload"
)

var (
	// ErrTransport wraps network-level failures (dial, TLS, timeout, reset).
	ErrTransport = errors.New("prediction request failed")
	// ErrMalformedResponse is returned when a 2xx body cannot be decoded.
	ErrMalformedResponse = errors.New("malformed prediction response")
)

// Predictor sends one image to the prediction endpoint.
type Predictor interface {
	Predict(ctx context.Context, img upload.SelectedImage) (*upload.PredictionResult, error)
}

// HTTPError is a non-2xx response from the endpoint.
type HTTPError struct {
	StatusCode int
	Detail     string
}

func (e *HTTPError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("HTTP error %d", e.StatusCode)
}

// predictResponse is the success body of POST /predict.
type predictResponse struct {
	Predictions    []upload.Detection `json:"predictions"`
	AnnotatedImage *string            `json:"annotated_image_base64"`
	Filename       string             `json:"filename"`
}

// errorBody covers the error shapes seen from detection servers:
// {"detail": "..."}, {"detail": [{"msg": "..."}]}, {"error": "..."}, {"message": "..."}.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

// parseErrorDetail extracts a human message from an error body, or "".
func parseErrorDetail(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	if d := detailText(eb.Detail); d != "" {
		return d
	}
	if s := strings.TrimSpace(eb.Error); s != "" {
		return s
	}
	return strings.TrimSpace(eb.Message)
}

func detailText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
