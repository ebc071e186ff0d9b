package widgets

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/kie/cyclescroll/sharedutil"
	myTheme "github.com/kie/cyclescroll/ui/theme"
)

// PageIndicator shows one dot per page with the current page highlighted.
type PageIndicator struct {
	widget.BaseWidget

	pageCount   int
	currentPage int

	dots      []*indicatorDot
	container *fyne.Container
}

func NewPageIndicator() *PageIndicator {
	p := &PageIndicator{}
	p.ExtendBaseWidget(p)
	return p
}

func (p *PageIndicator) PageCount() int {
	return p.pageCount
}

func (p *PageIndicator) CurrentPage() int {
	return p.currentPage
}

// SetPageCount sets the number of dots. The current page is clamped
// to the new range.
func (p *PageIndicator) SetPageCount(n int) {
	n = max(n, 0)
	if n == p.pageCount {
		return
	}
	p.pageCount = n
	p.currentPage = sharedutil.Clamp(p.currentPage, 0, max(n-1, 0))
	p.Refresh()
}

func (p *PageIndicator) SetCurrentPage(page int) {
	page = sharedutil.Clamp(page, 0, max(p.pageCount-1, 0))
	if page == p.currentPage {
		return
	}
	p.currentPage = page
	p.Refresh()
}

func (p *PageIndicator) Refresh() {
	p.updateDots()
	p.BaseWidget.Refresh()
}

func (p *PageIndicator) updateDots() {
	if p.container == nil {
		return
	}
	if len(p.dots) != p.pageCount {
		p.dots = make([]*indicatorDot, p.pageCount)
		objs := make([]fyne.CanvasObject, p.pageCount)
		padded := layout.NewCustomPaddedLayout(0, 0, 3, 3)
		for i := range p.dots {
			p.dots[i] = newIndicatorDot()
			objs[i] = container.New(padded, p.dots[i])
		}
		p.container.Objects = objs
	}
	current := myTheme.CurrentColor(myTheme.ColorNamePageIndicatorCurrent)
	other := myTheme.CurrentColor(myTheme.ColorNamePageIndicator)
	for i, d := range p.dots {
		if i == p.currentPage {
			d.Circle.FillColor = current
		} else {
			d.Circle.FillColor = other
		}
		d.Refresh()
	}
	p.container.Refresh()
}

func (p *PageIndicator) CreateRenderer() fyne.WidgetRenderer {
	if p.container == nil {
		p.container = container.NewHBox()
		p.updateDots()
	}
	return widget.NewSimpleRenderer(p.container)
}

type indicatorDot struct {
	widget.BaseWidget
	Circle canvas.Circle
}

func newIndicatorDot() *indicatorDot {
	d := &indicatorDot{}
	d.ExtendBaseWidget(d)
	return d
}

func (d *indicatorDot) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(&d.Circle)
}

func (d *indicatorDot) Refresh() {
	d.Circle.Refresh()
	d.BaseWidget.Refresh()
}

func (d *indicatorDot) MinSize() fyne.Size {
	return fyne.NewSquareSize(myTheme.PageIndicatorDotSize())
}
