package theme

// Palette for the predict client window. InitStyles activates the base theme
// and the app background; views color their widgets from CurrentPalette.

import (
	"image/color"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// PaletteSnapshot represents resolved colors for the active mode.
type PaletteSnapshot struct {
	AppBg     string
	Surface   string
	Border    string
	Primary   string
	Danger    string
	Accent    string
	Text      string
	TextMuted string
}

var (
	light = PaletteSnapshot{
		AppBg:     "#f7f9fb",
		Surface:   "#ffffff",
		Border:    "#d0d7de",
		Primary:   "#2563eb",
		Danger:    "#dc2626",
		Accent:    "#10b981",
		Text:      "#1e293b",
		TextMuted: "#64748b",
	}
	dark = PaletteSnapshot{
		AppBg:     "#0f172a",
		Surface:   "#1e293b",
		Border:    "#334155",
		Primary:   "#3b82f6",
		Danger:    "#ef4444",
		Accent:    "#10b981",
		Text:      "#f1f5f9",
		TextMuted: "#94a3b8",
	}
)

var darkMode bool

func paletteFor(isDark bool) PaletteSnapshot {
	if isDark {
		return dark
	}
	return light
}

// CurrentPalette returns colors for the current mode.
func CurrentPalette() PaletteSnapshot { return paletteFor(darkMode) }

// SurfaceColor is the placeholder fill for empty image surfaces.
func SurfaceColor() color.Color {
	if darkMode {
		return color.RGBA{0x1e, 0x29, 0x3b, 0xff}
	}
	return color.RGBA{0xee, 0xf2, 0xf6, 0xff}
}

// InitStyles (re)applies the base theme for the current mode.
func InitStyles() { applyStyles(CurrentPalette()) }

// SetDark sets the mode and reapplies styles. Returns the new mode.
func SetDark(isDark bool) bool {
	darkMode = isDark
	InitStyles()
	return darkMode
}

// IsDark reports the current mode.
func IsDark() bool { return darkMode }

func applyStyles(p PaletteSnapshot) {
	_ = ActivateTheme("azure light")
	App.Configure(Background(p.AppBg))
}
