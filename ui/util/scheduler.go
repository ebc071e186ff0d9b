package util

import (
	"context"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
)

// TaskHandle is an explicitly cancellable scheduled task.
type TaskHandle interface {
	Cancel()
}

// Scheduler starts fn repeating every interval until the returned
// handle is cancelled.
type Scheduler func(interval time.Duration, fn func()) TaskHandle

var _ Scheduler = ScheduleRepeating

type repeatingTask struct {
	cancel    context.CancelFunc
	cancelled atomic.Bool
}

// ScheduleRepeating runs fn on the Fyne UI goroutine every interval.
// Once Cancel returns, fn is never invoked again, even for a tick
// that was already queued to the UI goroutine.
func ScheduleRepeating(interval time.Duration, fn func()) TaskHandle {
	ctx, cancel := context.WithCancel(context.Background())
	t := &repeatingTask{cancel: cancel}
	go t.run(ctx, interval, fn)
	return t
}

func (t *repeatingTask) Cancel() {
	t.cancelled.Store(true)
	t.cancel()
}

func (t *repeatingTask) run(ctx context.Context, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fyne.Do(func() {
				if !t.cancelled.Load() {
					fn()
				}
			})
		}
	}
}
