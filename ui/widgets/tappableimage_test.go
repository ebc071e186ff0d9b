package widgets

import (
	"image"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/test"
)

func TestTappableImage_ActsAsWidget(t *testing.T) {
	test.NewTempApp(t)
	img := NewTappableImage(canvas.ImageFillContain)
	test.TempWidgetRenderer(t, img)

	img.Move(fyne.NewPos(10, 20))
	img.Resize(fyne.NewSize(40, 30))
	if got := img.Position(); got != fyne.NewPos(10, 20) {
		t.Errorf("Position() = %v", got)
	}
	if got := img.Size(); got != fyne.NewSize(40, 30) {
		t.Errorf("Size() = %v", got)
	}
	img.Hide()
	if img.Visible() {
		t.Error("expected image to be hidden")
	}
	img.Show()
	if !img.Visible() {
		t.Error("expected image to be visible")
	}
}

func TestTappableImage_Tapped(t *testing.T) {
	test.NewTempApp(t)
	img := NewTappableImage(canvas.ImageFillContain)
	taps := 0
	img.OnTapped = func() { taps++ }

	img.SetImage(image.NewRGBA(image.Rect(0, 0, 2, 2)))
	if !img.HasImage() {
		t.Error("expected image to be set")
	}
	test.Tap(img)
	if taps != 1 {
		t.Errorf("taps = %d, want 1", taps)
	}
	img.SetImage(nil)
	if img.HasImage() {
		t.Error("expected nil image to clear")
	}
}
