package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/20after4/configdir"
	"github.com/boxes-ltd/imaging"
	"github.com/cenkalti/dominantcolor"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/kie/cyclescroll/backend/util"
	_ "golang.org/x/image/webp"
)

const CachedImageValidTime = 24 * time.Hour

const (
	// decoded slides are downscaled to fit within this box before caching
	maxSlideImageWidth  = 1280
	maxSlideImageHeight = 1280

	defaultDiskCacheSizeBytes = 50 * 1_048_576
	maxResponseBytes          = 20 * 1_048_576
)

// The ImageManager is responsible for retrieving slide images for the UI layer.
// It maintains an in-memory cache of recently used images for immediate future access,
// and a larger on-disc cache of images that is periodically re-requested from the origin.
type ImageManager struct {
	cacheDir string
	client   *retryablehttp.Client
	memCache ImageCache

	maxOnDiskCacheSizeBytes    atomic.Int64
	filesWrittenSinceLastPrune atomic.Bool

	colorsMu       sync.Mutex
	dominantColors map[string]color.Color
}

// NewImageManager creates an ImageManager that caches images under baseCacheDir.
// An empty baseCacheDir disables the on-disk cache.
func NewImageManager(ctx context.Context, baseCacheDir string, requestTimeout time.Duration) *ImageManager {
	cacheDir := ""
	if baseCacheDir != "" {
		cacheDir = filepath.Join(baseCacheDir, "images")
		if err := configdir.MakePath(cacheDir); err != nil {
			log.Printf("failed to create image cache dir: %v", err)
			cacheDir = ""
		}
	}

	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.Logger = nil
	client.HTTPClient.Timeout = requestTimeout

	i := &ImageManager{
		cacheDir: cacheDir,
		client:   client,
		memCache: ImageCache{
			MinSize:    8,
			MaxSize:    64,
			DefaultTTL: 2 * time.Minute,
		},
		dominantColors: make(map[string]color.Color),
	}
	i.maxOnDiskCacheSizeBytes.Store(defaultDiskCacheSizeBytes)
	i.memCache.OnEvictTaskRan = i.pruneOnDiskCache
	i.memCache.Init(ctx, 2*time.Minute)
	return i
}

func (i *ImageManager) SetMaxOnDiskCacheSizeBytes(size int64) {
	i.maxOnDiskCacheSizeBytes.Store(size)
}

func (i *ImageManager) GetImageFromCache(imgURL string) (image.Image, bool) {
	img, err := i.memCache.Get(imgURL)
	if err == nil && img != nil {
		return img, true
	}
	return nil, false
}

// GetImage returns the image for imgURL from the in-memory cache,
// the on-disc cache, or the origin, in that order.
func (i *ImageManager) GetImage(ctx context.Context, imgURL string) (image.Image, error) {
	if img, ok := i.GetImageFromCache(imgURL); ok {
		return img, nil
	}
	u, err := ParseImageURL(imgURL)
	if err != nil {
		return nil, err
	}

	if path := i.filePathForImage(imgURL); path != "" {
		if s, err := os.Stat(path); err == nil {
			if img, ok := loadLocalImage(path); ok {
				if time.Since(s.ModTime()) > CachedImageValidTime {
					go i.refreshCachedImage(imgURL)
				}
				i.memCache.Set(imgURL, img)
				return img, nil
			}
		}
	}

	var img image.Image
	if u.Scheme == "file" {
		img, err = i.loadFileImage(u.Path)
	} else {
		img, err = i.fetchRemoteImage(ctx, u.String())
	}
	if err != nil {
		return nil, err
	}
	if path := i.filePathForImage(imgURL); path != "" && u.Scheme != "file" {
		_ = i.writeJpeg(img, path)
	}
	i.memCache.Set(imgURL, img)
	return img, nil
}

// GetImageAsync fetches the image in a background goroutine and invokes cb
// with the result. cb is not invoked if the returned CancelFunc is called first.
func (i *ImageManager) GetImageAsync(imgURL string, cb func(image.Image, error)) context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		img, err := i.GetImage(ctx, imgURL)
		if ctx.Err() != nil {
			return
		}
		cb(img, err)
	}()
	return cancel
}

// DominantColor returns the dominant color of img, memoized by imgURL.
func (i *ImageManager) DominantColor(imgURL string, img image.Image) color.Color {
	i.colorsMu.Lock()
	defer i.colorsMu.Unlock()
	if c, ok := i.dominantColors[imgURL]; ok {
		return c
	}
	c := dominantcolor.Find(img)
	i.dominantColors[imgURL] = c
	return c
}

func (i *ImageManager) fetchRemoteImage(ctx context.Context, imgURL string) (image.Image, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, imgURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := i.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", imgURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: bad status: %s", imgURL, resp.Status)
	}
	return decodeAndFit(util.NewBoundedReader(ctx, resp.Body, maxResponseBytes))
}

func (i *ImageManager) loadFileImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeAndFit(f)
}

func decodeAndFit(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	b := img.Bounds()
	if b.Dx() > maxSlideImageWidth || b.Dy() > maxSlideImageHeight {
		img = imaging.Fit(img, maxSlideImageWidth, maxSlideImageHeight, imaging.Lanczos)
	}
	return img, nil
}

func (i *ImageManager) refreshCachedImage(imgURL string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	img, err := i.fetchRemoteImage(ctx, imgURL)
	if err != nil {
		log.Printf("failed to refresh cached image: %v", err)
		return
	}
	_ = i.writeJpeg(img, i.filePathForImage(imgURL))
	i.memCache.Set(imgURL, img)
}

// filePathForImage returns "" if the on-disc cache is disabled.
func (i *ImageManager) filePathForImage(imgURL string) string {
	if i.cacheDir == "" {
		return ""
	}
	name := uuid.NewSHA1(uuid.NameSpaceURL, []byte(imgURL)).String()
	return filepath.Join(i.cacheDir, name+".jpg")
}

// writeJpeg replaces the file at path atomically, since slide 0 and its
// duplicate can fetch the same URL concurrently.
func (i *ImageManager) writeJpeg(img image.Image, path string) error {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		log.Printf("failed to cache image: %s", err.Error())
		return err
	}
	if err := util.WriteFileAtomic(path, buf.Bytes(), 0644); err != nil {
		log.Printf("failed to cache image: %s", err.Error())
		return err
	}
	i.filesWrittenSinceLastPrune.Store(true)
	return nil
}

func loadLocalImage(path string) (image.Image, bool) {
	if f, err := os.Open(path); err == nil {
		defer f.Close()
		if img, _, err := image.Decode(f); err == nil {
			return img, true
		}
	}
	return nil, false
}

var errPruneSkipped = errors.New("nothing written since last prune")

func (i *ImageManager) pruneOnDiskCache() {
	if err := i.pruneOnDiskCacheTo(i.maxOnDiskCacheSizeBytes.Load()); err != nil && err != errPruneSkipped {
		log.Printf("failed to prune image cache: %v", err)
	}
}

// pruneOnDiskCacheTo deletes the least recently modified cached images
// until the cache is no larger than maxBytes.
// modTime is a proxy for last access since images are refreshed after a fixed interval.
func (i *ImageManager) pruneOnDiskCacheTo(maxBytes int64) error {
	if i.cacheDir == "" || !i.filesWrittenSinceLastPrune.Swap(false) {
		return errPruneSkipped
	}

	type fileInfo struct {
		path    string
		size    int64
		modTime int64
	}
	var all []fileInfo
	var totalSize int64
	err := filepath.WalkDir(i.cacheDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".jpg") {
			return nil
		}
		if info, err := d.Info(); err == nil {
			all = append(all, fileInfo{path: path, size: info.Size(), modTime: info.ModTime().UnixMilli()})
			totalSize += info.Size()
		}
		return nil
	})
	if err != nil {
		return err
	}

	if totalSize > maxBytes {
		sort.Slice(all, func(a, b int) bool {
			return all[a].modTime < all[b].modTime
		})
		for n := 0; n < len(all) && totalSize > maxBytes; n++ {
			if err := os.Remove(all[n].path); err == nil {
				totalSize -= all[n].size
			}
		}
	}
	return nil
}
