package theme

import (
	"encoding/hex"
	"errors"
	"fmt"
	"image/color"
	"slices"
	"strings"

	"github.com/kie/cyclescroll/backend"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

const (
	ColorNamePageIndicator        fyne.ThemeColorName = "PageIndicator"
	ColorNamePageIndicatorCurrent fyne.ThemeColorName = "PageIndicatorCurrent"
	ColorNameSlidePlaceholder     fyne.ThemeColorName = "SlidePlaceholder"

	SizeNamePageIndicatorDot fyne.ThemeSizeName = "pageIndicatorDot"
)

type AppearanceMode string

const (
	AppearanceLight AppearanceMode = "Light"
	AppearanceDark  AppearanceMode = "Dark"
	AppearanceAuto  AppearanceMode = "Auto"

	DefaultAppearance AppearanceMode = AppearanceDark
)

var (
	defaultPageIndicatorColor        color.Color = color.NRGBA{R: 0xd3, G: 0xd3, B: 0xd3, A: 0xff} // light gray
	defaultPageIndicatorCurrentColor color.Color = color.White
)

type MyTheme struct {
	config *backend.ThemeConfig
}

var _ fyne.Theme = (*MyTheme)(nil)

func NewMyTheme(config *backend.ThemeConfig) *MyTheme {
	return &MyTheme{config: config}
}

func (m *MyTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	variant := m.getVariant()
	switch name {
	case ColorNamePageIndicator:
		return colorOrDefault(m.config.PageIndicatorColor, defaultPageIndicatorColor)
	case ColorNamePageIndicatorCurrent:
		return colorOrDefault(m.config.PageIndicatorCurrentColor, defaultPageIndicatorCurrentColor)
	case ColorNameSlidePlaceholder:
		bg := theme.DefaultTheme().Color(theme.ColorNameBackground, variant)
		if variant == theme.VariantDark {
			return brightenColor(bg, 0.6)
		}
		return darkenColor(bg, 0.08)
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func colorOrDefault(colorStr string, def color.Color) color.Color {
	if colorStr == "" {
		return def
	}
	if c, err := ColorStringToColor(colorStr); err == nil {
		return c
	}
	return def
}

func (m *MyTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (m *MyTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (m *MyTheme) Size(name fyne.ThemeSizeName) float32 {
	if name == SizeNamePageIndicatorDot {
		return 7
	}
	return theme.DefaultTheme().Size(name)
}

// PageIndicatorDotSize returns the dot diameter of the current app theme.
// Themes other than MyTheme are not asked for the custom size name.
func PageIndicatorDotSize() float32 {
	if m, ok := fyne.CurrentApp().Settings().Theme().(*MyTheme); ok {
		return m.Size(SizeNamePageIndicatorDot)
	}
	return theme.IconInlineSize() / 3
}

func (m *MyTheme) getVariant() fyne.ThemeVariant {
	v := DefaultAppearance // default if config has invalid or missing setting
	if slices.Contains(
		[]string{string(AppearanceLight), string(AppearanceDark), string(AppearanceAuto)},
		m.config.Appearance) {
		v = AppearanceMode(m.config.Appearance)
	}

	if v == AppearanceDark {
		return theme.VariantDark
	} else if v == AppearanceLight {
		return theme.VariantLight
	}
	return fyne.CurrentApp().Settings().ThemeVariant()
}

// ColorStringToColor parses "#RRGGBB" or "#RRGGBBAA".
func ColorStringToColor(colorStr string) (color.Color, error) {
	if !strings.HasPrefix(colorStr, "#") || !slices.Contains([]int{7, 9}, len(colorStr)) {
		return color.Black, errors.New("invalid color string")
	}
	colorBytes := make([]byte, 4)
	n, err := hex.Decode(colorBytes, []byte(colorStr[1:]))
	if err != nil {
		return color.Black, fmt.Errorf("invalid color string: %w", err)
	}
	if n == 3 {
		colorBytes[3] = 255 // opaque alpha
	}
	return color.RGBA{R: colorBytes[0], G: colorBytes[1], B: colorBytes[2], A: colorBytes[3]}, nil
}

func brightenColor(c color.Color, fraction float64) color.Color {
	r, g, b, a := c.RGBA()
	r, g, b = brightenComponent(r, fraction), brightenComponent(g, fraction), brightenComponent(b, fraction)
	return color.RGBA{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
		A: uint8(a >> 8),
	}
}

func darkenColor(c color.Color, fraction float64) color.Color {
	r, g, b, a := c.RGBA()
	r, g, b = darkenComponent(r, fraction), darkenComponent(g, fraction), darkenComponent(b, fraction)
	return color.RGBA{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
		A: uint8(a >> 8),
	}
}

func brightenComponent(component uint32, fraction float64) uint32 {
	brightened := component + uint32(float64(component)*fraction)
	if brightened > 0xffff {
		brightened = 0xffff
	}
	return brightened
}

func darkenComponent(component uint32, fraction float64) uint32 {
	i := uint32(float64(component) * fraction)
	if i > component {
		return 0
	}
	return component - i
}
