package widgets

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
	"github.com/kie/cyclescroll/backend"
	myTheme "github.com/kie/cyclescroll/ui/theme"
	"github.com/kie/cyclescroll/ui/util"
)

const SlideCellType util.ReuseIdentifier = "SlideCell"

// DominantColorer is optionally implemented by an ImageFetcher
// to tint a slide's backdrop with its image's dominant color.
// impl: backend.ImageManager
type DominantColorer interface {
	DominantColor(url string, img image.Image) color.Color
}

// SlideCell renders one carousel slide.
type SlideCell struct {
	ttwidget.ToolTipWidget

	// called with the rendered index of the slide
	OnTapped func(int)

	index    int
	imageRef string

	backdrop *myTheme.ThemedRectangle
	image    *TappableImage
	loader   util.ImageLoader
	colorer  DominantColorer

	container *fyne.Container
}

var _ fyne.Widget = (*SlideCell)(nil)

func NewSlideCell(fetcher util.ImageFetcher) *SlideCell {
	c := &SlideCell{
		backdrop: myTheme.NewThemedRectangle(myTheme.ColorNameSlidePlaceholder),
		image:    NewTappableImage(canvas.ImageFillContain),
	}
	c.colorer, _ = fetcher.(DominantColorer)
	c.image.OnTapped = c.onTapped
	c.loader = util.NewImageLoader(fetcher, c.setImage)
	c.ExtendBaseWidget(c)
	return c
}

// Update binds the cell to the rendered slide index and its image reference.
// An unparseable reference leaves the slide blank.
func (c *SlideCell) Update(index int, imageRef string) {
	c.index = index
	if imageRef == c.imageRef {
		return
	}
	c.imageRef = imageRef
	c.SetToolTip(imageRef)
	if _, err := backend.ParseImageURL(imageRef); err != nil {
		c.loader.Load("")
		return
	}
	c.loader.Load(imageRef)
}

func (c *SlideCell) Index() int {
	return c.index
}

func (c *SlideCell) ImageRef() string {
	return c.imageRef
}

func (c *SlideCell) setImage(img image.Image) {
	c.backdrop.FillColor = nil
	if img != nil && c.colorer != nil {
		c.backdrop.FillColor = c.colorer.DominantColor(c.imageRef, img)
	}
	c.backdrop.Refresh()
	c.image.SetImage(img)
}

func (c *SlideCell) onTapped() {
	if c.OnTapped != nil {
		c.OnTapped(c.index)
	}
}

func (c *SlideCell) CreateRenderer() fyne.WidgetRenderer {
	if c.container == nil {
		c.container = container.NewStack(c.backdrop, c.image)
	}
	return widget.NewSimpleRenderer(c.container)
}
