package util

import (
	"time"

	"fyne.io/fyne/v2"
)

// ReuseIdentifier names a kind of reusable widget.
type ReuseIdentifier string

const pooledWidgetExpiry = 2 * time.Minute

// A pool of widgets released by a view for later reuse, so that scrolling
// rebinds existing widgets instead of creating new ones.
// It is not thread-safe; use it from the UI goroutine only.
type WidgetPool struct {
	pools map[ReuseIdentifier][]pooledWidget
	now   func() time.Time
}

type pooledWidget struct {
	widget     fyne.CanvasObject
	releasedAt int64 // unixMillis
}

func NewWidgetPool() WidgetPool {
	return WidgetPool{
		pools: make(map[ReuseIdentifier][]pooledWidget),
		now:   time.Now,
	}
}

// Obtain obtains a widget with the given reuse identifier from the pool, if one exists.
// Returns nil if there is no available widget.
func (w *WidgetPool) Obtain(id ReuseIdentifier) fyne.CanvasObject {
	ws := w.pools[id]
	if len(ws) == 0 {
		return nil
	}
	i := len(ws) - 1
	wid := ws[i].widget
	ws[i].widget = nil
	w.pools[id] = ws[:i]
	return wid
}

// Release releases a widget into the pool.
// The widget must not be modified by the releaser after release,
// since it may be Obtained for a new use at any time.
func (w *WidgetPool) Release(id ReuseIdentifier, wid fyne.CanvasObject) {
	w.cleanUpExpiredItems()
	w.pools[id] = append(w.pools[id], pooledWidget{
		widget:     wid,
		releasedAt: w.now().UnixMilli(),
	})
}

// Len returns the number of pooled widgets with the given identifier.
func (w *WidgetPool) Len(id ReuseIdentifier) int {
	return len(w.pools[id])
}

// drops widgets that have sat unused for longer than pooledWidgetExpiry,
// always keeping at least one of each kind
func (w *WidgetPool) cleanUpExpiredItems() {
	cutoff := w.now().Add(-pooledWidgetExpiry).UnixMilli()
	for id, ws := range w.pools {
		keep := ws[:0]
		for i, pw := range ws {
			if pw.releasedAt >= cutoff || (len(keep) == 0 && i == len(ws)-1) {
				keep = append(keep, pw)
			}
		}
		clear(ws[len(keep):])
		w.pools[id] = keep
	}
}
