package app

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/predict-client-go/config"
	"github.com/soocke/predict-client-go/domain/predict"
	"github.com/soocke/predict-client-go/domain/upload"
	"github.com/soocke/predict-client-go/ui/console"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func writePNG(t *testing.T, dir string) (string, []byte) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 6, 4))))
	path := filepath.Join(dir, "plate.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path, buf.Bytes()
}

func predictServer(t *testing.T, annotated []byte) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.Close()
		assert.Equal(t, "image/png", hdr.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"predictions":            []map[string]any{{"class_id": 1, "class_name": "metal", "confidence": 0.8, "bbox": []int{1, 1, 5, 3}}},
			"annotated_image_base64": base64.StdEncoding.EncodeToString(annotated),
			"filename":               hdr.Filename,
		})
	}))
}

func TestPredict_Headless(t *testing.T) {
	path, data := writePNG(t, t.TempDir())
	srv := predictServer(t, data)
	defer srv.Close()

	cfg := config.DefaultConfig()
	cfg.Endpoint = srv.URL
	var out bytes.Buffer
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := Predict(ctx, cfg, discardLogger, path, &out)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "plate.png", res.Filename)
	assert.Equal(t, []string{"metal 80% [1,1,5,3]"}, res.Summary())
	assert.Contains(t, out.String(), "predicting...")
	assert.Contains(t, out.String(), "metal 80%")
	assert.Contains(t, out.String(), "State: previewing")
	assert.Contains(t, out.String(), "State: predicting")
	assert.Contains(t, out.String(), "State: resulted")
}

func TestPredict_HeadlessServerError(t *testing.T) {
	path, _ := writePNG(t, t.TempDir())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"detail":"model unavailable"}`))
	}))
	defer srv.Close()

	cfg := config.DefaultConfig()
	cfg.Endpoint = srv.URL
	var out bytes.Buffer
	_, err := Predict(context.Background(), cfg, discardLogger, path, &out)
	var httpErr *predict.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
	assert.Contains(t, out.String(), "error: model unavailable")
	assert.Contains(t, out.String(), "State: errored")
}

func TestPredict_HeadlessRejectsNonImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))
	_, err := Predict(context.Background(), config.DefaultConfig(), discardLogger, path, io.Discard)
	assert.ErrorIs(t, err, upload.ErrInvalidFileType)
}

func TestBuildContainer_EndpointAndApply(t *testing.T) {
	cfg := config.DefaultConfig()
	c := BuildContainer(cfg, discardLogger, console.New(io.Discard), nil)
	defer c.Close()
	assert.Equal(t, config.DefaultEndpoint, c.Endpoint)

	next := *cfg
	next.BaseURL = "https://api.example.com"
	c.ApplyConfig(&next)
	assert.Equal(t, "https://api.example.com/predict", c.Endpoint)
	assert.Equal(t, upload.StateEmpty, c.Machine.State())
}

func TestApplyConfig_UploadLimit(t *testing.T) {
	dir := t.TempDir()
	big := filepath.Join(dir, "big.png")
	require.NoError(t, os.WriteFile(big, bytes.Repeat([]byte{0}, 2<<20), 0o644))

	cfg := config.DefaultConfig()
	c := BuildContainer(cfg, discardLogger, console.New(io.Discard), nil)
	defer c.Close()

	next := *cfg
	next.MaxUploadMB = 1
	c.ApplyConfig(&next)

	err := c.UploadPresenter.SelectPath(big)
	assert.ErrorIs(t, err, upload.ErrFileTooLarge)
	assert.Equal(t, upload.StateEmpty, c.Machine.State())
	assert.Contains(t, c.Machine.Snapshot().Err, "file")
}
