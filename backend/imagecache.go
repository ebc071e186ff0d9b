package backend

import (
	"container/heap"
	"context"
	"errors"
	"image"
	"sync"
	"time"
)

type cacheItem struct {
	img image.Image
	ttl time.Duration

	// unix millis
	expiresAt    int64
	lastAccessed int64
}

// An in-memory cache for decoded slide images, keyed by image URL.
// Eviction strategy:
//  1. If there are fewer than MinSize items in the cache, none will be evicted
//  2. If a new addition would make the cache exceed MaxSize, an item is evicted immediately:
//     the LRU expired item, or if none expired, the LRU item
//  3. Between MinSize and MaxSize, expired items are evicted periodically,
//     least recently used first
type ImageCache struct {
	MinSize    int
	MaxSize    int
	DefaultTTL time.Duration

	// called after each periodic eviction pass
	OnEvictTaskRan func()

	mu    sync.Mutex
	cache map[string]*cacheItem
	now   func() time.Time
}

var ErrNotFound = errors.New("item not found")

// Init prepares the cache and, if evictionInterval > 0, starts a goroutine
// that evicts expired items until ctx is done.
func (c *ImageCache) Init(ctx context.Context, evictionInterval time.Duration) {
	c.cache = make(map[string]*cacheItem)
	if c.now == nil {
		c.now = time.Now
	}
	if evictionInterval > 0 {
		go c.periodicallyEvict(ctx, evictionInterval)
	}
}

func (c *ImageCache) SetWithTTL(key string, img image.Image, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if v, ok := c.cache[key]; ok {
		v.img = img
		v.ttl = ttl
		v.expiresAt = now.Add(ttl).UnixMilli()
		v.lastAccessed = now.UnixMilli()
		return
	}
	if c.MaxSize > 0 && len(c.cache) >= c.MaxSize {
		c.evictOne(now.UnixMilli())
	}
	c.cache[key] = &cacheItem{
		img:          img,
		ttl:          ttl,
		expiresAt:    now.Add(ttl).UnixMilli(),
		lastAccessed: now.UnixMilli(),
	}
}

func (c *ImageCache) Set(key string, img image.Image) {
	c.SetWithTTL(key, img, c.DefaultTTL)
}

func (c *ImageCache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.cache[key]
	return ok
}

func (c *ImageCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}

// Get returns the image and extends its expiry to now + its TTL
// iff it would expire before then.
func (c *ImageCache) Get(key string) (image.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.cache[key]
	if !ok {
		return nil, ErrNotFound
	}
	now := c.now()
	v.lastAccessed = now.UnixMilli()
	if exp := now.Add(v.ttl).UnixMilli(); v.expiresAt < exp {
		v.expiresAt = exp
	}
	return v.img, nil
}

func (c *ImageCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.cache)
}

// must be called with c.mu held
func (c *ImageCache) evictOne(now int64) {
	var lruKey, lruExpiredKey string
	lruTime, lruExpiredTime := now+1, now+1
	for k, v := range c.cache {
		if v.expiresAt < now && v.lastAccessed < lruExpiredTime {
			lruExpiredTime = v.lastAccessed
			lruExpiredKey = k
		}
		if v.lastAccessed < lruTime {
			lruTime = v.lastAccessed
			lruKey = k
		}
	}
	if lruExpiredKey != "" {
		delete(c.cache, lruExpiredKey)
	} else {
		delete(c.cache, lruKey)
	}
}

func (c *ImageCache) periodicallyEvict(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			c.EvictExpired()
			if c.OnEvictTaskRan != nil {
				c.OnEvictTaskRan()
			}
		}
	}
}

type expiredItem struct {
	key          string
	lastAccessed int64
}

type expiredHeap []expiredItem

func (h expiredHeap) Len() int           { return len(h) }
func (h expiredHeap) Less(i, j int) bool { return h[i].lastAccessed < h[j].lastAccessed }
func (h expiredHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *expiredHeap) Push(x any) {
	*h = append(*h, x.(expiredItem))
}

func (h *expiredHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// EvictExpired evicts least recently used expired items from the cache
// until there are no more expired items or the cache contains MinSize elements.
func (c *ImageCache) EvictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := len(c.cache)
	if count <= c.MinSize {
		return
	}
	now := c.now().UnixMilli()
	expired := make(expiredHeap, 0, count-c.MinSize)
	for k, v := range c.cache {
		if v.expiresAt < now {
			expired = append(expired, expiredItem{key: k, lastAccessed: v.lastAccessed})
		}
	}
	heap.Init(&expired)
	for count > c.MinSize && expired.Len() > 0 {
		delete(c.cache, heap.Pop(&expired).(expiredItem).key)
		count--
	}
}
