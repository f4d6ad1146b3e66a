package images

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaleToFit_KeepsAspect(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 200))
	out := ScaleToFit(src, 100, 100)
	require.NotNil(t, out)
	assert.Equal(t, 100, out.Bounds().Dx())
	assert.Equal(t, 50, out.Bounds().Dy())
}

func TestScaleToFit_ReturnsOriginalWhenFits(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 40, 20))
	assert.Same(t, src, ScaleToFit(src, 100, 100))
	assert.Nil(t, ScaleToFit(nil, 10, 10))
}

func TestEncodeDecode(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.Set(0, 0, color.RGBA{G: 200, A: 255})
	data := EncodePNG(src)
	require.NotEmpty(t, data)
	img, format, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 3, img.Bounds().Dx())

	_, _, err = Decode([]byte("not an image"))
	assert.Error(t, err)
	assert.Nil(t, EncodePNG(nil))
}

func TestPlaceholder_MinSize(t *testing.T) {
	p := Placeholder(0, -4, nil)
	assert.Equal(t, image.Rect(0, 0, 1, 1), p.Bounds())
	p = Placeholder(20, 10, color.White)
	assert.Equal(t, 20, p.Bounds().Dx())
}
