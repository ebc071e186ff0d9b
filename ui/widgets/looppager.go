package widgets

import (
	"math"

	"github.com/kie/cyclescroll/sharedutil"
)

// loopPager holds the scroll arithmetic of an infinitely looping pager.
// The rendered slides are the logical slides plus, when there is more than
// one, a copy of the first slide appended at the end. Reaching that copy
// and jumping back to slide 0 without animation fakes the loop.
// All offsets are along the scroll axis, in canvas units.
type loopPager struct {
	count  int     // logical slide count
	extent float32 // length of one page

	offset     float32
	prevOffset float32
	page       int
}

func (p *loopPager) renderedCount() int {
	if p.count > 1 {
		return p.count + 1
	}
	return p.count
}

func (p *loopPager) totalExtent() float32 {
	return float32(p.renderedCount()) * p.extent
}

// the offset of the last rendered slide
func (p *loopPager) maxOffset() float32 {
	return p.totalExtent() - p.extent
}

func (p *loopPager) offsetOf(slide int) float32 {
	return float32(slide) * p.extent
}

// wrapSlide is the rendered index of the duplicate of slide 0,
// or 0 if there is none.
func (p *loopPager) wrapSlide() int {
	if p.count > 1 {
		return p.count
	}
	return 0
}

// logicalIndex maps a rendered slide index to the image it shows.
func (p *loopPager) logicalIndex(rendered int) int {
	if p.count > 1 && rendered == p.count {
		return 0
	}
	return rendered
}

// tickTarget is the offset an auto-advance tick animates to.
// Landing exactly on the duplicate slide is nudged one unit past it
// so the boundary snap takes the pager back to slide 0.
func (p *loopPager) tickTarget() float32 {
	target := p.offset + p.extent
	if target == p.maxOffset() {
		target++
	}
	return target
}

// scrolled records a new offset. If the offset crossed a loop boundary
// it returns the offset to jump to without animation, and the caller must
// report that jump back through scrolled.
func (p *loopPager) scrolled(current float32) (snapTo float32, snap bool) {
	prev := p.prevOffset
	p.offset = current
	if p.count > 0 && p.extent > 0 {
		if prev > current && current < 0 {
			snapTo, snap = p.offsetOf(p.wrapSlide()), true
		} else if current > p.maxOffset() {
			snapTo, snap = 0, true
		}
	}
	p.page = p.pageAt(current)
	p.prevOffset = current
	return snapTo, snap
}

// pageAt returns the indicator page for an offset. Anything past the
// last real slide is the duplicate of slide 0.
func (p *loopPager) pageAt(offset float32) int {
	if p.count == 0 || p.extent <= 0 {
		return 0
	}
	if offset > p.offsetOf(p.count-1) {
		return 0
	}
	page := int(math.Floor(float64(offset / p.extent)))
	return sharedutil.Clamp(page, 0, p.count-1)
}

// nearestSlide returns the rendered slide whose page start is closest to offset.
func (p *loopPager) nearestSlide(offset float32) int {
	if p.renderedCount() == 0 || p.extent <= 0 {
		return 0
	}
	slide := int(math.Round(float64(offset / p.extent)))
	return sharedutil.Clamp(slide, 0, p.renderedCount()-1)
}

// currentSlide returns the rendered slide at the start of the viewport.
func (p *loopPager) currentSlide() int {
	if p.renderedCount() == 0 || p.extent <= 0 {
		return 0
	}
	slide := int(math.Floor(float64(p.offset / p.extent)))
	return sharedutil.Clamp(slide, 0, p.renderedCount()-1)
}

// visibleSlides returns the rendered slides intersecting the viewport,
// at most two.
func (p *loopPager) visibleSlides() []int {
	n := p.renderedCount()
	if n == 0 {
		return nil
	}
	if p.extent <= 0 {
		return []int{0}
	}
	first := p.currentSlide()
	visible := []int{first}
	if p.offset-p.offsetOf(first) > 0 && first+1 < n {
		visible = append(visible, first+1)
	}
	return visible
}

// reset repositions the pager at a slide after a structural change
// without treating it as a scroll.
func (p *loopPager) reset(count int, slide int) {
	p.count = count
	slide = sharedutil.Clamp(slide, 0, max(p.renderedCount()-1, 0))
	p.offset = p.offsetOf(slide)
	p.prevOffset = p.offset
	p.page = p.pageAt(p.offset)
}
