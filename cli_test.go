package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestConfigCommand_ResolvesEndpoint(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"base_url":"https://api.example.com/","timeout_seconds":5}`), 0o644))

	out, _, err := runCLI(t, "config", "--config", cfgPath)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "https://api.example.com/predict", got["resolved_endpoint"])
	assert.Equal(t, "base_url", got["endpoint_source"])
	assert.EqualValues(t, 5, got["timeout_seconds"])

	out, _, err = runCLI(t, "config", "--config", cfgPath, "--endpoint", "http://gpu-box:9000/v1/predict", "--timeout", "90s")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "http://gpu-box:9000/v1/predict", got["resolved_endpoint"])
	assert.Equal(t, "endpoint", got["endpoint_source"])
	assert.EqualValues(t, 90, got["timeout_seconds"])
}

func TestConfigCommand_RejectsBadEndpoint(t *testing.T) {
	_, _, err := runCLI(t, "config", "--config", "", "--endpoint", "ftp://example.com/predict")
	assert.ErrorContains(t, err, "scheme must be http or https")
}

func TestPredictCommand_WritesAnnotatedImage(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 3, 3))))
	imgPath := filepath.Join(dir, "plate.png")
	require.NoError(t, os.WriteFile(imgPath, buf.Bytes(), 0o644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"predictions":            []any{},
			"annotated_image_base64": base64.StdEncoding.EncodeToString(buf.Bytes()),
			"filename":               "plate.png",
		})
	}))
	defer srv.Close()

	outPath := filepath.Join(dir, "result.png")
	out, _, err := runCLI(t, "predict", imgPath, "--config", "", "--endpoint", srv.URL, "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No objects detected")
	assert.Contains(t, out, "annotated image written to "+outPath)

	written, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, buf.Bytes(), written)
}

func TestPredictCommand_RequiresImage(t *testing.T) {
	_, _, err := runCLI(t, "predict")
	assert.Error(t, err)
}
