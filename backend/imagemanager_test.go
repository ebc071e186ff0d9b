package backend

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 20, B: 20, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newImageServer(t *testing.T, body []byte) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestImageManager_FetchesAndCachesInMemory(t *testing.T) {
	srv, hits := newImageServer(t, pngBytes(t, 8, 4))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	im := NewImageManager(ctx, t.TempDir(), 5*time.Second)

	url := srv.URL + "/a.png"
	img, err := im.GetImage(ctx, url)
	if err != nil {
		t.Fatalf("GetImage: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 4 {
		t.Errorf("unexpected bounds %v", b)
	}
	if _, ok := im.GetImageFromCache(url); !ok {
		t.Error("expected image to be cached in memory")
	}
	if _, err := im.GetImage(ctx, url); err != nil {
		t.Fatal(err)
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("expected 1 request, got %d", n)
	}
}

func TestImageManager_LoadsFromDiskCache(t *testing.T) {
	srv, _ := newImageServer(t, pngBytes(t, 4, 4))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dir := t.TempDir()
	url := srv.URL + "/b.png"

	if _, err := NewImageManager(ctx, dir, 5*time.Second).GetImage(ctx, url); err != nil {
		t.Fatal(err)
	}
	srv.Close()

	im := NewImageManager(ctx, dir, 5*time.Second)
	if _, err := im.GetImage(ctx, url); err != nil {
		t.Errorf("expected disk cache hit after server shutdown, got %v", err)
	}
}

func TestImageManager_Errors(t *testing.T) {
	srv, _ := newImageServer(t, []byte("not an image"))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	im := NewImageManager(ctx, "", 5*time.Second)

	if _, err := im.GetImage(ctx, "not a url"); !errors.Is(err, ErrInvalidImageURL) {
		t.Errorf("expected ErrInvalidImageURL, got %v", err)
	}
	if _, err := im.GetImage(ctx, srv.URL+"/missing.png"); err == nil {
		t.Error("expected error for 404")
	}
	if _, err := im.GetImage(ctx, srv.URL+"/garbage.png"); err == nil {
		t.Error("expected decode error")
	}
}

func TestImageManager_GetImageAsync(t *testing.T) {
	srv, _ := newImageServer(t, pngBytes(t, 2, 2))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	im := NewImageManager(ctx, "", 5*time.Second)

	done := make(chan error, 1)
	im.GetImageAsync(srv.URL+"/c.png", func(img image.Image, err error) {
		if err == nil && img == nil {
			err = errors.New("nil image")
		}
		done <- err
	})
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("async load failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for async load")
	}
}

func TestImageManager_LoadsFileURL(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	path := filepath.Join(t.TempDir(), "local.png")
	if err := os.WriteFile(path, pngBytes(t, 3, 3), 0644); err != nil {
		t.Fatal(err)
	}
	im := NewImageManager(ctx, "", time.Second)
	if _, err := im.GetImage(ctx, "file://"+path); err != nil {
		t.Errorf("GetImage(file): %v", err)
	}
}

func TestImageManager_DominantColorMemoized(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	im := NewImageManager(ctx, "", time.Second)

	img, _, err := image.Decode(bytes.NewReader(pngBytes(t, 6, 6)))
	if err != nil {
		t.Fatal(err)
	}
	c1 := im.DominantColor("x", img)
	c2 := im.DominantColor("x", image.NewRGBA(image.Rect(0, 0, 1, 1)))
	if c1 != c2 {
		t.Errorf("expected memoized color, got %v then %v", c1, c2)
	}
}

func TestImageManager_PruneOnDiskCache(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	im := NewImageManager(ctx, t.TempDir(), time.Second)

	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	old := im.filePathForImage("http://example.com/old.jpg")
	recent := im.filePathForImage("http://example.com/new.jpg")
	if err := im.writeJpeg(img, old); err != nil {
		t.Fatal(err)
	}
	if err := im.writeJpeg(img, recent); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-time.Hour)
	os.Chtimes(old, past, past)

	st, _ := os.Stat(recent)
	if err := im.pruneOnDiskCacheTo(st.Size()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("expected oldest cached image to be pruned")
	}
	if _, err := os.Stat(recent); err != nil {
		t.Error("expected most recent cached image to remain")
	}
	if err := im.pruneOnDiskCacheTo(0); err != errPruneSkipped {
		t.Errorf("expected prune to be skipped with no new writes, got %v", err)
	}
}

func TestImageManager_ConcurrentCacheWritesStayDecodable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	im := NewImageManager(ctx, t.TempDir(), time.Second)

	path := im.filePathForImage("http://example.com/same.jpg")
	var wg sync.WaitGroup
	for n := 0; n < 8; n++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			if err := im.writeJpeg(image.NewRGBA(image.Rect(0, 0, 32+w, 32)), path); err != nil {
				t.Error(err)
			}
		}(n)
	}
	wg.Wait()

	if _, ok := loadLocalImage(path); !ok {
		t.Error("expected the cached file to be a complete image")
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected only the cached image, found %v", names)
	}
}
