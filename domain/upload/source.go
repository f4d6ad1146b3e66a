package upload

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// ErrFileTooLarge is returned when a file exceeds the upload limit.
var ErrFileTooLarge = errors.New("file too large")

// imageExts maps file extensions to MIME types for common image formats.
// mime.TypeByExtension depends on the host's mime tables, so these are pinned.
var imageExts = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
}

// MediaTypeFor derives the declared media type of a file from its extension,
// falling back to content sniffing of the first 512 bytes.
func MediaTypeFor(name string, head []byte) string {
	ext := strings.ToLower(filepath.Ext(name))
	if mt, ok := imageExts[ext]; ok {
		return mt
	}
	if mt := mime.TypeByExtension(ext); mt != "" {
		if base, _, err := mime.ParseMediaType(mt); err == nil {
			return base
		}
		return mt
	}
	if len(head) == 0 {
		return "application/octet-stream"
	}
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)
	if base, _, err := mime.ParseMediaType(ct); err == nil {
		return base
	}
	return ct
}

// FromBytes builds a SelectedImage from dropped data. An empty mediaType is
// derived from name and content.
func FromBytes(name, mediaType string, data []byte) SelectedImage {
	if strings.TrimSpace(mediaType) == "" {
		mediaType = MediaTypeFor(name, data)
	}
	if name == "" {
		name = "uploaded_image"
	}
	return SelectedImage{Name: filepath.Base(name), MediaType: mediaType, Data: data}
}

// LoadFile reads path into a SelectedImage. maxBytes <= 0 disables the limit.
func LoadFile(path string, maxBytes int64) (SelectedImage, error) {
	info, err := os.Stat(path)
	if err != nil {
		return SelectedImage{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return SelectedImage{}, fmt.Errorf("%s is a directory: %w", path, ErrInvalidFileType)
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		return SelectedImage{}, fmt.Errorf("%s is %.1f MB: %w", filepath.Base(path), float64(info.Size())/(1<<20), ErrFileTooLarge)
	}
	f, err := os.Open(path)
	if err != nil {
		return SelectedImage{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	var r io.Reader = f
	if maxBytes > 0 {
		r = io.LimitReader(f, maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return SelectedImage{}, fmt.Errorf("read %s: %w", path, err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return SelectedImage{}, fmt.Errorf("%s: %w", filepath.Base(path), ErrFileTooLarge)
	}
	return FromBytes(path, "", data), nil
}
