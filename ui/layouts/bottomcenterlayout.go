package layouts

import (
	"fyne.io/fyne/v2"
)

var _ fyne.Layout = (*BottomCenterLayout)(nil)

// BottomCenterLayout places its objects at their min size,
// centered horizontally and PadBottom above the bottom edge.
type BottomCenterLayout struct {
	PadBottom float32
}

func NewBottomCenterLayout(padBottom float32) *BottomCenterLayout {
	return &BottomCenterLayout{PadBottom: padBottom}
}

func (b *BottomCenterLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	var min fyne.Size
	for _, o := range objects {
		if !o.Visible() {
			continue
		}
		min = min.Max(o.MinSize())
	}
	if min.IsZero() {
		return min
	}
	return min.AddWidthHeight(0, b.PadBottom)
}

func (b *BottomCenterLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	for _, child := range objects {
		if !child.Visible() {
			continue
		}
		objSize := child.MinSize()
		child.Move(fyne.NewPos((size.Width-objSize.Width)/2, size.Height-objSize.Height-b.PadBottom))
		child.Resize(objSize)
	}
}
