package competitor

import (
	"sync"
	"time"

	"github.com/sells-group/aeo-monitor/internal/model"
)

// Cache memoizes identification results. Implementations must be safe for
// concurrent use.
type Cache interface {
	Get(key string) (*model.IdentificationResult, bool)
	Put(key string, value *model.IdentificationResult, ttl time.Duration)
}

type cacheEntry struct {
	value     *model.IdentificationResult
	expiresAt time.Time
}

// MemoryCache is a process-local TTL cache. The clock is injectable so tests
// can expire entries without sleeping.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	now     func() time.Time
}

// MemoryCacheOption configures a MemoryCache.
type MemoryCacheOption func(*MemoryCache)

// WithClock overrides the cache's time source.
func WithClock(now func() time.Time) MemoryCacheOption {
	return func(c *MemoryCache) {
		c.now = now
	}
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache(opts ...MemoryCacheOption) *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *MemoryCache) Get(key string) (*model.IdentificationResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

func (c *MemoryCache) Put(key string, value *model.IdentificationResult, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, expiresAt: c.now().Add(ttl)}
}
