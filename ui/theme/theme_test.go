package theme

import "testing"

func TestPaletteFor_Modes(t *testing.T) {
	if paletteFor(false) == paletteFor(true) {
		t.Fatalf("light and dark palettes should differ")
	}
	if got := paletteFor(true).AppBg; got != "#0f172a" {
		t.Fatalf("unexpected dark background %q", got)
	}
	if CurrentPalette() != paletteFor(IsDark()) {
		t.Fatalf("current palette does not follow mode")
	}
}
