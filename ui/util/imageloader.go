package util

import (
	"context"
	"image"
	"log"

	"fyne.io/fyne/v2"
)

// ImageLoader is a utility type that exposes a single API to load
// a slide image by URL. If the image is immediately available in
// the cache, OnLoaded will be called immediately. If it is not,
// OnBeforeLoad will be called first (OnLoaded(nil) if OnBeforeLoad is unset),
// then OnLoaded will be called async once the image is available,
// or with nil if the fetch fails.
// Any subsequent call to Load cancels the previous load, and a result that
// arrives for a superseded load is dropped, so a reused surface never shows
// a stale image.
type ImageLoader struct {
	im             ImageFetcher
	prevLoadCancel context.CancelFunc
	generation     uint64

	OnBeforeLoad func()
	OnLoaded     func(image.Image)
}

// Image backend interface for the ImageLoader
// impl: backend.ImageManager
type ImageFetcher interface {
	GetImageFromCache(string) (image.Image, bool)
	GetImageAsync(string, func(image.Image, error)) context.CancelFunc
}

func NewImageLoader(im ImageFetcher, onLoaded func(image.Image)) ImageLoader {
	return ImageLoader{im: im, OnLoaded: onLoaded}
}

// Load must be called on the UI goroutine.
// An empty url clears the image.
func (i *ImageLoader) Load(url string) {
	if i.prevLoadCancel != nil {
		i.prevLoadCancel()
		i.prevLoadCancel = nil
	}
	i.generation++
	if url == "" || i.im == nil {
		i.callOnLoaded(nil)
		return
	}
	if img, ok := i.im.GetImageFromCache(url); ok {
		i.callOnLoaded(img)
		return
	}
	if i.OnBeforeLoad != nil {
		i.OnBeforeLoad()
	} else {
		i.callOnLoaded(nil)
	}
	gen := i.generation
	i.prevLoadCancel = i.im.GetImageAsync(url, func(img image.Image, err error) {
		if err != nil {
			log.Printf("Error loading slide image: %s", err.Error())
			img = nil
		}
		fyne.Do(func() {
			if gen == i.generation {
				i.callOnLoaded(img)
			}
		})
	})
}

// Generation returns the token of the most recent Load call.
func (i *ImageLoader) Generation() uint64 {
	return i.generation
}

func (i *ImageLoader) callOnLoaded(im image.Image) {
	if i.OnLoaded != nil {
		i.OnLoaded(im)
	}
}
