package backend

import (
	"context"
	"image"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache(minSize, maxSize int, clock *fakeClock) *ImageCache {
	c := &ImageCache{MinSize: minSize, MaxSize: maxSize, DefaultTTL: time.Minute, now: clock.Now}
	c.Init(context.Background(), 0)
	return c
}

func testImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 2, 2))
}

func TestImageCache_GetSet(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	c := newTestCache(1, 5, clock)

	if _, err := c.Get("a"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	img := testImage()
	c.Set("a", img)
	got, err := c.Get("a")
	if err != nil || got != img {
		t.Errorf("Get after Set: got %v, %v", got, err)
	}
	if !c.Has("a") || c.Has("b") {
		t.Error("Has reported wrong membership")
	}
}

func TestImageCache_EvictsLRUWhenFull(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	c := newTestCache(1, 2, clock)

	c.Set("a", testImage())
	clock.Advance(time.Second)
	c.Set("b", testImage())
	clock.Advance(time.Second)
	_, _ = c.Get("a") // b is now least recently used
	clock.Advance(time.Second)
	c.Set("c", testImage())

	if c.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", c.Len())
	}
	if c.Has("b") {
		t.Error("expected b to be evicted")
	}
	if !c.Has("a") || !c.Has("c") {
		t.Error("expected a and c to remain")
	}
}

func TestImageCache_EvictsExpiredBeforeLRU(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	c := newTestCache(0, 2, clock)

	c.SetWithTTL("old", testImage(), time.Hour)
	clock.Advance(time.Second)
	c.SetWithTTL("short", testImage(), time.Second)
	clock.Advance(5 * time.Second)
	c.Set("new", testImage())

	if c.Has("short") {
		t.Error("expected expired item to be evicted first")
	}
	if !c.Has("old") {
		t.Error("expected unexpired LRU item to remain")
	}
}

func TestImageCache_EvictExpiredRespectsMinSize(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	c := newTestCache(2, 10, clock)

	for _, k := range []string{"a", "b", "c", "d"} {
		c.SetWithTTL(k, testImage(), time.Second)
		clock.Advance(time.Millisecond)
	}
	clock.Advance(time.Minute)
	c.EvictExpired()

	if c.Len() != 2 {
		t.Errorf("expected cache to shrink to MinSize 2, got %d", c.Len())
	}
	if !c.Has("c") || !c.Has("d") {
		t.Error("expected most recently used items to survive")
	}
}
