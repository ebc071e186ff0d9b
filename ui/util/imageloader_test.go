package util

import (
	"context"
	"errors"
	"image"
	"slices"
	"testing"

	"fyne.io/fyne/v2/test"
)

type fakeFetcher struct {
	cache     map[string]image.Image
	pending   map[string][]func(image.Image, error)
	requests  []string
	cancelled []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		cache:   make(map[string]image.Image),
		pending: make(map[string][]func(image.Image, error)),
	}
}

func (f *fakeFetcher) GetImageFromCache(url string) (image.Image, bool) {
	img, ok := f.cache[url]
	return img, ok
}

func (f *fakeFetcher) GetImageAsync(url string, cb func(image.Image, error)) context.CancelFunc {
	f.requests = append(f.requests, url)
	f.pending[url] = append(f.pending[url], cb)
	return func() { f.cancelled = append(f.cancelled, url) }
}

func (f *fakeFetcher) complete(url string, img image.Image, err error) {
	cbs := f.pending[url]
	delete(f.pending, url)
	for _, cb := range cbs {
		cb(img, err)
	}
}

func newImage(w int) image.Image {
	return image.NewRGBA(image.Rect(0, 0, w, w))
}

func TestImageLoader_CacheHitLoadsImmediately(t *testing.T) {
	test.NewTempApp(t)
	f := newFakeFetcher()
	img := newImage(1)
	f.cache["a"] = img

	var got image.Image
	beforeCalled := false
	l := NewImageLoader(f, func(i image.Image) { got = i })
	l.OnBeforeLoad = func() { beforeCalled = true }
	l.Load("a")

	if got != img {
		t.Error("expected cached image to be delivered synchronously")
	}
	if beforeCalled || len(f.requests) != 0 {
		t.Error("expected no async fetch for a cache hit")
	}
}

func TestImageLoader_EmptyURLClears(t *testing.T) {
	test.NewTempApp(t)
	f := newFakeFetcher()
	calls := 0
	var got image.Image = newImage(1)
	l := NewImageLoader(f, func(i image.Image) { calls++; got = i })
	l.Load("")
	if calls != 1 || got != nil {
		t.Errorf("expected a single nil delivery, got %d calls, image %v", calls, got)
	}
	if len(f.requests) != 0 {
		t.Error("expected no fetch for empty url")
	}
}

func TestImageLoader_DropsStaleResults(t *testing.T) {
	test.NewTempApp(t)
	f := newFakeFetcher()
	var loaded []image.Image
	l := NewImageLoader(f, func(i image.Image) { loaded = append(loaded, i) })

	l.Load("a")
	genA := l.Generation()
	l.Load("b")
	if l.Generation() <= genA {
		t.Fatal("expected generation to increase on each Load")
	}
	if !slices.Equal(f.cancelled, []string{"a"}) {
		t.Errorf("expected load of a to be cancelled, got %v", f.cancelled)
	}
	if len(loaded) != 2 || loaded[0] != nil || loaded[1] != nil {
		t.Fatalf("expected the surface to be cleared on each cache miss, got %v", loaded)
	}

	imgA, imgB := newImage(1), newImage(2)
	f.complete("a", imgA, nil)
	if len(loaded) != 2 {
		t.Fatal("stale result for a must not be applied")
	}
	f.complete("b", imgB, nil)
	if len(loaded) != 3 || loaded[2] != imgB {
		t.Errorf("expected image b to be applied, got %v", loaded)
	}
}

func TestImageLoader_MissClearsPreviousImage(t *testing.T) {
	test.NewTempApp(t)
	f := newFakeFetcher()
	f.cache["a"] = newImage(1)
	var got image.Image
	l := NewImageLoader(f, func(i image.Image) { got = i })

	l.Load("a")
	if got == nil {
		t.Fatal("expected cached image a")
	}
	l.Load("b")
	if got != nil {
		t.Error("expected image a to be cleared while b is pending")
	}
}

func TestImageLoader_OnBeforeLoadReplacesClear(t *testing.T) {
	test.NewTempApp(t)
	f := newFakeFetcher()
	calls, before := 0, 0
	l := NewImageLoader(f, func(image.Image) { calls++ })
	l.OnBeforeLoad = func() { before++ }
	l.Load("a")
	if before != 1 || calls != 0 {
		t.Errorf("before = %d, loaded = %d; want 1, 0", before, calls)
	}
}

func TestImageLoader_ErrorClearsSurface(t *testing.T) {
	test.NewTempApp(t)
	f := newFakeFetcher()
	var got image.Image
	l := NewImageLoader(f, func(i image.Image) { got = i })
	l.OnBeforeLoad = func() {} // keep whatever was shown
	got = newImage(1)

	l.Load("a")
	f.complete("a", nil, errors.New("boom"))
	if got != nil {
		t.Error("expected a failed fetch to leave the surface empty")
	}
}

func TestImageLoader_StaleErrorIgnored(t *testing.T) {
	test.NewTempApp(t)
	f := newFakeFetcher()
	f.cache["b"] = newImage(2)
	var got image.Image
	l := NewImageLoader(f, func(i image.Image) { got = i })

	l.Load("a")
	l.Load("b")
	f.complete("a", nil, errors.New("boom"))
	if got == nil {
		t.Error("a failure for a superseded load must not clear the current image")
	}
}
