package widgets

import (
	"slices"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/kie/cyclescroll/backend"
	"github.com/kie/cyclescroll/ui/layouts"
	"github.com/kie/cyclescroll/ui/util"
)

const defaultSlideAnimationDuration = 300 * time.Millisecond

// SlideSelection identifies a tapped slide. RenderedIndex is the raw index
// in the rendered slide list, so the duplicate of the first slide at the end
// reports the logical image count. LogicalIndex maps it back to the image.
type SlideSelection struct {
	RenderedIndex int
	LogicalIndex  int
}

type SlideSelectionDelegate interface {
	SlideSelected(SlideSelection)
}

// SlideSelectedFunc adapts a func to a SlideSelectionDelegate.
type SlideSelectedFunc func(SlideSelection)

func (f SlideSelectedFunc) SlideSelected(s SlideSelection) {
	f(s)
}

type CycleScrollOptions struct {
	// ScrollHorizontal if unset
	Direction backend.ScrollDirection
	// auto-advance period; 0 disables auto-advance
	Interval time.Duration
	// disables manual dragging
	ScrollDisabled bool
	Delegate       SlideSelectionDelegate
	// used to run the auto-advance timer; util.ScheduleRepeating if nil
	Scheduler util.Scheduler
}

// CycleScrollView is an image carousel that loops forever: it auto-advances
// on a timer, pages under drag along either axis, and shows a page indicator.
type CycleScrollView struct {
	widget.BaseWidget

	fetcher  util.ImageFetcher
	schedule util.Scheduler
	delegate SlideSelectionDelegate

	images        []string
	interval      time.Duration
	direction     backend.ScrollDirection
	scrollEnabled bool

	pager        loopPager
	task         util.TaskHandle
	anim         *fyne.Animation
	animDuration time.Duration
	dragging     bool
	reloads      int // number of full re-renders

	cellPool  util.WidgetPool
	cells     map[int]*SlideCell // by rendered index
	slides    *fyne.Container
	indicator *PageIndicator
}

var _ fyne.Draggable = (*CycleScrollView)(nil)

func NewCycleScrollView(fetcher util.ImageFetcher, opts CycleScrollOptions) *CycleScrollView {
	c := &CycleScrollView{
		fetcher:       fetcher,
		schedule:      opts.Scheduler,
		delegate:      opts.Delegate,
		interval:      max(opts.Interval, 0),
		direction:     backend.ParseScrollDirection(string(opts.Direction)),
		scrollEnabled: !opts.ScrollDisabled,
		animDuration:  defaultSlideAnimationDuration,
		cellPool:      util.NewWidgetPool(),
		cells:         make(map[int]*SlideCell),
		slides:        container.NewWithoutLayout(),
		indicator:     NewPageIndicator(),
	}
	if c.schedule == nil {
		c.schedule = util.ScheduleRepeating
	}
	c.ExtendBaseWidget(c)
	return c
}

// SetImages replaces the slides and returns to the first one.
func (c *CycleScrollView) SetImages(images []string) {
	c.images = slices.Clone(images)
	c.stopAnimation()
	c.pager.reset(len(c.images), 0)
	c.indicator.SetPageCount(len(c.images))
	c.indicator.SetCurrentPage(0)
	c.reload()
	c.restartTimer()
}

func (c *CycleScrollView) Images() []string {
	return slices.Clone(c.images)
}

// SetInterval sets the auto-advance period. 0 disables auto-advance.
func (c *CycleScrollView) SetInterval(d time.Duration) {
	c.interval = max(d, 0)
	c.restartTimer()
}

func (c *CycleScrollView) Interval() time.Duration {
	return c.interval
}

// SetScrollEnabled sets whether the slides can be dragged.
// Auto-advance is unaffected.
func (c *CycleScrollView) SetScrollEnabled(enabled bool) {
	if !enabled && c.dragging {
		c.DragEnd()
	}
	c.scrollEnabled = enabled
}

func (c *CycleScrollView) ScrollEnabled() bool {
	return c.scrollEnabled
}

// SetDirection sets the scroll axis, staying on the current slide.
func (c *CycleScrollView) SetDirection(d backend.ScrollDirection) {
	d = backend.ParseScrollDirection(string(d))
	if d == c.direction {
		return
	}
	slide := c.pager.currentSlide()
	c.stopAnimation()
	c.direction = d
	c.pager.extent = c.extentOf(c.Size())
	c.pager.reset(c.pager.count, slide)
	c.indicator.SetCurrentPage(c.pager.page)
	c.reload()
}

func (c *CycleScrollView) Direction() backend.ScrollDirection {
	return c.direction
}

func (c *CycleScrollView) SetDelegate(d SlideSelectionDelegate) {
	c.delegate = d
}

// CurrentPage returns the page shown by the page indicator.
func (c *CycleScrollView) CurrentPage() int {
	return c.indicator.CurrentPage()
}

// RenderedCount returns the number of rendered slides,
// including the duplicate of the first slide when there is more than one.
func (c *CycleScrollView) RenderedCount() int {
	return c.pager.renderedCount()
}

func (c *CycleScrollView) TimerRunning() bool {
	return c.task != nil
}

// Stop cancels auto-advance and any slide animation.
// It is called automatically when the widget is destroyed.
func (c *CycleScrollView) Stop() {
	c.stopTimer()
	c.stopAnimation()
	c.dragging = false
}

func (c *CycleScrollView) Dragged(e *fyne.DragEvent) {
	if !c.scrollEnabled || c.pager.count == 0 {
		return
	}
	if !c.dragging {
		c.dragging = true
		c.stopTimer()
		c.stopAnimation()
	}
	delta := e.Dragged.DX
	if c.direction == backend.ScrollVertical {
		delta = e.Dragged.DY
	}
	c.setOffset(c.pager.offset - delta)
}

func (c *CycleScrollView) DragEnd() {
	if !c.dragging {
		return
	}
	c.dragging = false
	c.indicator.SetCurrentPage(c.pager.pageAt(c.pager.offset))
	c.restartTimer()
	c.animateTo(c.pager.offsetOf(c.pager.nearestSlide(c.pager.offset)), c.animDuration)
}

func (c *CycleScrollView) autoAdvance() {
	if c.pager.count <= 1 || c.interval <= 0 || c.dragging || c.pager.extent <= 0 {
		return
	}
	c.animateTo(c.pager.tickTarget(), min(c.animDuration, c.interval/2))
}

func (c *CycleScrollView) restartTimer() {
	c.stopTimer()
	if c.interval > 0 && c.pager.count > 1 && !c.dragging {
		c.task = c.schedule(c.interval, c.autoAdvance)
	}
}

func (c *CycleScrollView) stopTimer() {
	if c.task != nil {
		c.task.Cancel()
		c.task = nil
	}
}

func (c *CycleScrollView) animateTo(target float32, d time.Duration) {
	c.stopAnimation()
	if d <= 0 {
		c.setOffset(target)
		c.animationFinished()
		return
	}
	from := c.pager.offset
	var anim *fyne.Animation
	anim = fyne.NewAnimation(d, func(f float32) {
		if c.anim != anim {
			return // stopped or superseded
		}
		c.setOffset(from + (target-from)*f)
		if f == 1 {
			c.animationFinished()
		}
	})
	anim.Curve = fyne.AnimationEaseInOut
	c.anim = anim
	anim.Start()
}

func (c *CycleScrollView) stopAnimation() {
	if c.anim != nil {
		c.anim.Stop()
		c.anim = nil
	}
}

// coming to rest on the duplicate slide is equivalent to resting on slide 0
func (c *CycleScrollView) animationFinished() {
	c.anim = nil
	if c.pager.count > 1 && c.pager.offset == c.pager.offsetOf(c.pager.wrapSlide()) {
		c.setOffset(0)
	}
}

func (c *CycleScrollView) setOffset(offset float32) {
	if snapTo, snap := c.pager.scrolled(offset); snap {
		c.stopAnimation()
		c.pager.scrolled(snapTo)
	}
	c.indicator.SetCurrentPage(c.pager.page)
	c.layoutSlides()
}

func (c *CycleScrollView) extentOf(size fyne.Size) float32 {
	if c.direction == backend.ScrollVertical {
		return size.Height
	}
	return size.Width
}

func (c *CycleScrollView) resized(size fyne.Size) {
	if ext := c.extentOf(size); ext != c.pager.extent {
		slide := c.pager.currentSlide()
		c.stopAnimation()
		c.pager.extent = ext
		c.pager.reset(c.pager.count, slide)
		c.indicator.SetCurrentPage(c.pager.page)
	}
	c.layoutSlides()
}

// reload re-binds every visible slide from scratch.
func (c *CycleScrollView) reload() {
	c.reloads++
	for i, cell := range c.cells {
		c.releaseCell(i, cell)
	}
	c.layoutSlides()
}

// layoutSlides binds and positions a cell for each visible slide,
// returning cells that scrolled out of view to the pool.
func (c *CycleScrollView) layoutSlides() {
	visible := c.pager.visibleSlides()
	for i, cell := range c.cells {
		if !slices.Contains(visible, i) {
			c.releaseCell(i, cell)
		}
	}
	size := c.Size()
	for _, i := range visible {
		cell, ok := c.cells[i]
		if !ok {
			cell = c.obtainCell()
			c.cells[i] = cell
			c.slides.Add(cell)
		}
		cell.Update(i, c.images[c.pager.logicalIndex(i)])
		pos := c.pager.offsetOf(i) - c.pager.offset
		if c.direction == backend.ScrollVertical {
			cell.Move(fyne.NewPos(0, pos))
		} else {
			cell.Move(fyne.NewPos(pos, 0))
		}
		cell.Resize(size)
	}
}

func (c *CycleScrollView) obtainCell() *SlideCell {
	if w := c.cellPool.Obtain(SlideCellType); w != nil {
		return w.(*SlideCell)
	}
	cell := NewSlideCell(c.fetcher)
	cell.OnTapped = c.onSlideTapped
	return cell
}

func (c *CycleScrollView) releaseCell(i int, cell *SlideCell) {
	delete(c.cells, i)
	c.slides.Remove(cell)
	c.cellPool.Release(SlideCellType, cell)
}

func (c *CycleScrollView) onSlideTapped(rendered int) {
	if c.delegate == nil {
		return
	}
	c.delegate.SlideSelected(SlideSelection{
		RenderedIndex: rendered,
		LogicalIndex:  c.pager.logicalIndex(rendered),
	})
}

func (c *CycleScrollView) CreateRenderer() fyne.WidgetRenderer {
	scroll := container.NewScroll(c.slides)
	scroll.Direction = container.ScrollNone
	r := &cycleScrollViewRenderer{
		c:         c,
		scroll:    scroll,
		indicator: container.New(layouts.NewBottomCenterLayout(indicatorPadBottom), c.indicator),
		surface:   newDragSurface(c),
	}
	return r
}

const indicatorPadBottom = 10

type cycleScrollViewRenderer struct {
	c         *CycleScrollView
	scroll    *container.Scroll
	indicator *fyne.Container
	surface   *dragSurface
}

func (r *cycleScrollViewRenderer) Layout(size fyne.Size) {
	r.scroll.Resize(size)
	r.indicator.Resize(size)
	r.surface.Resize(size)
	r.c.resized(size)
}

func (r *cycleScrollViewRenderer) MinSize() fyne.Size {
	return r.indicator.MinSize()
}

func (r *cycleScrollViewRenderer) Refresh() {
	r.indicator.Refresh()
	r.scroll.Refresh()
}

// the drag surface sits above the indicator so drags
// anywhere on the carousel page the slides
func (r *cycleScrollViewRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.scroll, r.indicator, r.surface}
}

func (r *cycleScrollViewRenderer) Destroy() {
	r.c.Stop()
}

// dragSurface forwards drags to the carousel. It implements nothing else,
// so taps and hovers reach the slides underneath it.
type dragSurface struct {
	widget.BaseWidget

	c *CycleScrollView
}

var _ fyne.Draggable = (*dragSurface)(nil)

func newDragSurface(c *CycleScrollView) *dragSurface {
	d := &dragSurface{c: c}
	d.ExtendBaseWidget(d)
	return d
}

func (d *dragSurface) Dragged(e *fyne.DragEvent) {
	d.c.Dragged(e)
}

func (d *dragSurface) DragEnd() {
	d.c.DragEnd()
}

func (d *dragSurface) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewWithoutLayout())
}
