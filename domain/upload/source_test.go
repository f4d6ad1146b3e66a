package upload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestMediaTypeFor(t *testing.T) {
	assert.Equal(t, "image/jpeg", MediaTypeFor("IMG_0001.JPG", nil))
	assert.Equal(t, "image/webp", MediaTypeFor("a.webp", nil))
	assert.Equal(t, "application/pdf", MediaTypeFor("invoice.pdf", nil))
	assert.Equal(t, "image/png", MediaTypeFor("noext", pngHeader))
	assert.Equal(t, "application/octet-stream", MediaTypeFor("noext", nil))
}

func TestFromBytes_DeclaredTypeWins(t *testing.T) {
	img := FromBytes("/tmp/x/scan.bin", "image/png", []byte("data"))
	assert.Equal(t, "scan.bin", img.Name)
	assert.True(t, img.IsImage())

	anon := FromBytes("", "", pngHeader)
	assert.Equal(t, "uploaded_image", anon.Name)
	assert.Equal(t, "image/png", anon.MediaType)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plate.png")
	require.NoError(t, os.WriteFile(path, pngHeader, 0o644))

	img, err := LoadFile(path, 1<<20)
	require.NoError(t, err)
	assert.Equal(t, "plate.png", img.Name)
	assert.Equal(t, "image/png", img.MediaType)
	assert.Equal(t, pngHeader, img.Data)

	_, err = LoadFile(path, 4)
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = LoadFile(dir, 0)
	assert.ErrorIs(t, err, ErrInvalidFileType)

	_, err = LoadFile(filepath.Join(dir, "missing.png"), 0)
	assert.Error(t, err)
}
