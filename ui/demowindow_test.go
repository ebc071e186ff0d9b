package ui

import (
	"context"
	"slices"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/kie/cyclescroll/backend"
	"github.com/kie/cyclescroll/ui/widgets"
)

func newTestDemoWindow(t *testing.T, overrides backend.CarouselOverrides) *DemoWindow {
	t.Helper()
	a := test.NewTempApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := backend.DefaultConfig("v1")
	dir := t.TempDir()
	cfg.Carousel.Images = []string{"file://" + dir + "/a.png", "file://" + dir + "/b.png"}
	cfg.Carousel.IntervalSeconds = 0
	app := &backend.App{Config: cfg, ImageManager: backend.NewImageManager(ctx, "", time.Second)}

	d := NewDemoWindow(a, "demo", app, overrides, fyne.NewSize(480, 320))
	t.Cleanup(d.Carousel.Stop)
	return d
}

func TestDemoWindow_OverridesAreNotPersisted(t *testing.T) {
	d := newTestDemoWindow(t, backend.CarouselOverrides{IntervalSeconds: -1, Vertical: true, NoScroll: true})

	if d.Carousel.Direction() != backend.ScrollVertical {
		t.Errorf("Direction() = %q, want vertical", d.Carousel.Direction())
	}
	if d.Carousel.ScrollEnabled() {
		t.Error("expected scrolling to be disabled by override")
	}
	if d.App.Config.Carousel.Direction != string(backend.ScrollHorizontal) || !d.App.Config.Carousel.ScrollEnabled {
		t.Errorf("overrides leaked into the app config: %+v", d.App.Config.Carousel)
	}
}

func TestDemoWindow_ApplyConfig(t *testing.T) {
	d := newTestDemoWindow(t, backend.CarouselOverrides{IntervalSeconds: -1})

	cfg := backend.DefaultConfig("v1")
	cfg.Carousel.Images = []string{"", "", ""}
	cfg.Carousel.IntervalSeconds = 3
	cfg.Carousel.Direction = string(backend.ScrollVertical)
	cfg.Carousel.ScrollEnabled = false
	cfg.Carousel.Width = 300
	d.applyConfig(cfg)

	if !slices.Equal(d.Carousel.Images(), cfg.Carousel.Images) {
		t.Errorf("Images() = %v", d.Carousel.Images())
	}
	if d.Carousel.Interval() != 3*time.Second || !d.Carousel.TimerRunning() {
		t.Errorf("Interval() = %v, running = %v", d.Carousel.Interval(), d.Carousel.TimerRunning())
	}
	if d.Carousel.Direction() != backend.ScrollVertical || d.Carousel.ScrollEnabled() {
		t.Error("expected direction and scroll settings to be applied")
	}
	if d.carouselSize != fyne.NewSize(300, 200) {
		t.Errorf("carousel size = %v", d.carouselSize)
	}
	if d.App.Config.Carousel.IntervalSeconds != 3 {
		t.Error("expected app config to track the reloaded file")
	}
}

func TestDemoWindow_SlideSelectionLabel(t *testing.T) {
	d := newTestDemoWindow(t, backend.CarouselOverrides{IntervalSeconds: -1})
	d.onSlideSelected(widgets.SlideSelection{RenderedIndex: 2, LogicalIndex: 0})
	if got, want := d.selection.Text, "Selected slide 2 (image 0)"; got != want {
		t.Errorf("label = %q, want %q", got, want)
	}
}
