package widgets

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// TappableImage is a tappable wrapper of canvas.Image
type TappableImage struct {
	widget.BaseWidget
	canvas.Image

	OnTapped func()
}

func NewTappableImage(fillMode canvas.ImageFill) *TappableImage {
	t := &TappableImage{}
	t.FillMode = fillMode
	t.ScaleMode = canvas.ImageScaleSmooth
	t.ExtendBaseWidget(t)
	return t
}

// SetImage replaces the displayed image; nil clears it.
func (t *TappableImage) SetImage(img image.Image) {
	t.Image.Image = img
	t.Refresh()
}

func (t *TappableImage) HasImage() bool {
	return t.Image.Image != nil
}

func (t *TappableImage) Cursor() desktop.Cursor {
	if t.OnTapped == nil {
		return desktop.DefaultCursor
	}
	return desktop.PointerCursor
}

func (t *TappableImage) Tapped(e *fyne.PointEvent) {
	if t.OnTapped != nil {
		t.OnTapped()
	}
}

func (t *TappableImage) Hide() {
	t.BaseWidget.Hide()
}

func (t *TappableImage) Show() {
	t.BaseWidget.Show()
}

func (t *TappableImage) Move(pos fyne.Position) {
	t.BaseWidget.Move(pos)
}

func (t *TappableImage) MinSize() fyne.Size {
	return t.BaseWidget.MinSize()
}

func (t *TappableImage) Refresh() {
	t.BaseWidget.Refresh()
}

func (t *TappableImage) Resize(size fyne.Size) {
	t.BaseWidget.Resize(size)
}

var _ fyne.Widget = (*TappableImage)(nil)

func (t *TappableImage) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(&t.Image)
}
