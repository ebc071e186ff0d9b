package theme

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// ThemedRectangle is a rectangle filled with a theme color, unless
// an explicit FillColor override is set.
type ThemedRectangle struct {
	widget.BaseWidget

	rect *canvas.Rectangle

	ColorName fyne.ThemeColorName
	// overrides ColorName when non-nil
	FillColor    color.Color
	CornerRadius float32
}

func NewThemedRectangle(colorName fyne.ThemeColorName) *ThemedRectangle {
	t := &ThemedRectangle{
		ColorName: colorName,
		rect:      canvas.NewRectangle(CurrentColor(colorName)),
	}
	t.ExtendBaseWidget(t)
	return t
}

func (t *ThemedRectangle) Refresh() {
	if t.FillColor != nil {
		t.rect.FillColor = t.FillColor
	} else {
		t.rect.FillColor = CurrentColor(t.ColorName)
	}
	t.rect.CornerRadius = t.CornerRadius
	t.BaseWidget.Refresh()
}

func (t *ThemedRectangle) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(t.rect)
}

// CurrentColor returns the named color of the current app theme and variant.
func CurrentColor(name fyne.ThemeColorName) color.Color {
	settings := fyne.CurrentApp().Settings()
	return settings.Theme().Color(name, settings.ThemeVariant())
}
