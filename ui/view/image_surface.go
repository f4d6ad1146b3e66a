package view

import (
	"image"

	"github.com/soocke/predict-client-go/ui/images"
	"github.com/soocke/predict-client-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ImageSurface shows either the selected image preview or the annotated
// result; never both.
type ImageSurface interface {
	Show(img image.Image)
	Reset()
	Widget() *LabelWidget
}

type imageSurface struct {
	label     *LabelWidget
	targetW   int
	targetH   int
	prevPhoto *Img // disposed before replacement
	shown     image.Image
}

// NewImageSurface creates the surface label and grids it at row.
func NewImageSurface(row, maxW, maxH int) ImageSurface {
	s := &imageSurface{}
	s.setTargetSize(maxW, maxH)
	s.prevPhoto = NewPhoto(Data(s.placeholder()))
	s.label = Label(Image(s.prevPhoto), Borderwidth(1), Relief("sunken"))
	Grid(s.label, Row(row), Column(0), Columnspan(4), Sticky("nswe"), Padx("0.4m"), Pady("0.4m"))
	return s
}

func (s *imageSurface) Widget() *LabelWidget { return s.label }

func (s *imageSurface) Show(img image.Image) {
	if s.label == nil || img == nil || img == s.shown {
		return
	}
	// Scale for display only; the bytes sent to the endpoint are untouched.
	scaled := images.ScaleToFit(img, s.targetW, s.targetH)
	s.replace(images.EncodePNG(scaled))
	s.shown = img
}

func (s *imageSurface) Reset() {
	if s.label == nil || (s.shown == nil && s.prevPhoto != nil) {
		return
	}
	s.replace(s.placeholder())
	s.shown = nil
}

func (s *imageSurface) replace(pngBytes []byte) {
	if len(pngBytes) == 0 {
		return
	}
	if s.prevPhoto != nil {
		s.prevPhoto.Delete()
	}
	s.prevPhoto = NewPhoto(Data(pngBytes))
	s.label.Configure(Image(s.prevPhoto))
}

func (s *imageSurface) placeholder() []byte {
	return images.EncodePNG(images.Placeholder(s.targetW, s.targetH/2, theme.SurfaceColor()))
}

func (s *imageSurface) setTargetSize(w, h int) {
	if w < 50 {
		w = 50
	}
	if h < 50 {
		h = 50
	}
	s.targetW, s.targetH = w, h
}
