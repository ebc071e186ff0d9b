package ui

import (
	"fmt"
	"log"
	"math"
	"slices"

	"github.com/kie/cyclescroll/backend"
	"github.com/kie/cyclescroll/ui/theme"
	"github.com/kie/cyclescroll/ui/widgets"

	fynetooltip "github.com/dweymouth/fyne-tooltip"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// DemoWindow hosts a single carousel configured from the app config.
type DemoWindow struct {
	Window   fyne.Window
	App      *backend.App
	Carousel *widgets.CycleScrollView

	theme     *theme.MyTheme
	overrides backend.CarouselOverrides
	selection *widget.Label

	carouselSize fyne.Size
	sizer        *fyne.Container
}

func NewDemoWindow(fyneApp fyne.App, displayAppName string, app *backend.App, overrides backend.CarouselOverrides, size fyne.Size) *DemoWindow {
	d := &DemoWindow{
		App:       app,
		Window:    fyneApp.NewWindow(displayAppName),
		theme:     theme.NewMyTheme(&app.Config.Theme),
		overrides: overrides,
		selection: widget.NewLabel("Tap a slide"),
	}
	fyneApp.Settings().SetTheme(d.theme)

	cfg := d.effectiveCarouselConfig(app.Config.Carousel)
	d.Carousel = widgets.NewCycleScrollView(app.ImageManager, widgets.CycleScrollOptions{
		Direction:      backend.ParseScrollDirection(cfg.Direction),
		Interval:       cfg.Interval(),
		ScrollDisabled: !cfg.ScrollEnabled,
		Delegate:       widgets.SlideSelectedFunc(d.onSlideSelected),
	})
	d.Carousel.SetImages(cfg.Images)

	d.carouselSize = carouselSize(cfg)
	d.sizer = container.NewGridWrap(d.carouselSize, d.Carousel)
	content := container.NewBorder(d.sizer, nil, nil, nil, container.NewCenter(d.selection))
	d.Window.SetContent(fynetooltip.AddWindowToolTipLayer(content, d.Window.Canvas()))
	d.Window.Resize(size)

	app.OnConfigChanged(func(c *backend.Config) {
		fyne.Do(func() { d.applyConfig(c) })
	})
	return d
}

func (d *DemoWindow) Show() {
	d.Window.Show()
}

func (d *DemoWindow) onSlideSelected(s widgets.SlideSelection) {
	log.Printf("slide selected: rendered=%d logical=%d", s.RenderedIndex, s.LogicalIndex)
	d.selection.SetText(fmt.Sprintf("Selected slide %d (image %d)", s.RenderedIndex, s.LogicalIndex))
}

// command line overrides win over the config file but are never persisted
func (d *DemoWindow) effectiveCarouselConfig(c backend.CarouselConfig) backend.CarouselConfig {
	c.Images = slices.Clone(c.Images)
	d.overrides.Apply(&c)
	return c
}

func (d *DemoWindow) applyConfig(c *backend.Config) {
	d.App.Config.Carousel = c.Carousel
	d.App.Config.Theme = c.Theme
	fyne.CurrentApp().Settings().SetTheme(d.theme)

	cfg := d.effectiveCarouselConfig(c.Carousel)
	if !slices.Equal(cfg.Images, d.Carousel.Images()) {
		d.Carousel.SetImages(cfg.Images)
	}
	d.Carousel.SetDirection(backend.ParseScrollDirection(cfg.Direction))
	if cfg.Interval() != d.Carousel.Interval() {
		d.Carousel.SetInterval(cfg.Interval())
	}
	d.Carousel.SetScrollEnabled(cfg.ScrollEnabled)

	if s := carouselSize(cfg); s != d.carouselSize {
		d.carouselSize = s
		d.sizer.Layout = layout.NewGridWrapLayout(s)
		d.sizer.Refresh()
	}
}

func (d *DemoWindow) SaveWindowSize() {
	// round sizes to even to avoid Wayland issues with 2x scaling factor
	d.App.Config.Application.WindowHeight = int(math.RoundToEven(float64(d.Window.Canvas().Size().Height)))
	d.App.Config.Application.WindowWidth = int(math.RoundToEven(float64(d.Window.Canvas().Size().Width)))
}

func carouselSize(c backend.CarouselConfig) fyne.Size {
	w, h := float32(c.Width), float32(c.Height)
	if w <= 1 {
		w = 400
	}
	if h <= 1 {
		h = 200
	}
	return fyne.NewSize(w, h)
}
