package capture

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_GrabEncodesPNG(t *testing.T) {
	var gotRect *image.Rectangle
	svc := NewService(nil, func(rect *image.Rectangle) (*image.RGBA, error) {
		gotRect = rect
		return image.NewRGBA(image.Rect(0, 0, 8, 6)), nil
	})
	svc.now = func() time.Time { return time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC) }

	sel := image.Rect(10, 10, 18, 16)
	img, err := svc.Grab(&sel)
	require.NoError(t, err)
	assert.Equal(t, &sel, gotRect)
	assert.Equal(t, "screenshot-20261014-093000.png", img.Name)
	assert.Equal(t, "image/png", img.MediaType)
	assert.True(t, img.IsImage())

	decoded, err := png.Decode(bytes.NewReader(img.Data))
	require.NoError(t, err)
	assert.Equal(t, 8, decoded.Bounds().Dx())
	assert.Equal(t, uint64(1), svc.Stats().Captures)
}

func TestService_GrabFailure(t *testing.T) {
	svc := NewService(nil, func(*image.Rectangle) (*image.RGBA, error) {
		return nil, errors.New("no display")
	})
	_, err := svc.Grab(nil)
	assert.ErrorContains(t, err, "no display")

	svc = NewService(nil, func(*image.Rectangle) (*image.RGBA, error) { return nil, nil })
	_, err = svc.Grab(nil)
	assert.Error(t, err)
	assert.Equal(t, uint64(1), svc.Stats().Failures)
}
