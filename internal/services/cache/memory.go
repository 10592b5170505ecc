package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const defaultMemoryTTL = 30 * time.Second

type memoryEntry struct {
	value   []byte
	expires time.Time
}

// MemoryCache is a size-bounded in-process LRU. Each entry expires after
// the TTL given to Set, capped at the cache's maxTTL; the LRU sweeps
// anything older than maxTTL on its own.
type MemoryCache struct {
	lru     *expirable.LRU[string, memoryEntry]
	maxTTL  time.Duration
	maxSize int
	now     func() time.Time
	stats   CacheStats
}

var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache creates an LRU holding at most maxEntries values whose
// entries live no longer than maxTTL. maxEntries <= 0 means unbounded.
func NewMemoryCache(maxEntries int, maxTTL time.Duration) *MemoryCache {
	if maxTTL <= 0 {
		maxTTL = defaultMemoryTTL
	}
	return &MemoryCache{
		lru:     expirable.NewLRU[string, memoryEntry](maxEntries, nil, maxTTL),
		maxTTL:  maxTTL,
		maxSize: maxEntries,
		now:     time.Now,
	}
}

// Get retrieves a value from the cache
func (mc *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	e, ok := mc.lru.Get(key)
	if ok && !mc.now().Before(e.expires) {
		mc.lru.Remove(key)
		ok = false
	}
	if !ok {
		atomic.AddInt64(&mc.stats.Misses, 1)
		return nil, false
	}
	atomic.AddInt64(&mc.stats.Hits, 1)
	return e.value, true
}

// Set stores a value for ttl. A ttl <= 0 or above maxTTL means maxTTL.
func (mc *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 || ttl > mc.maxTTL {
		ttl = mc.maxTTL
	}
	mc.lru.Add(key, memoryEntry{value: value, expires: mc.now().Add(ttl)})
	atomic.AddInt64(&mc.stats.Sets, 1)
	return nil
}

// Delete removes a value from the cache
func (mc *MemoryCache) Delete(_ context.Context, key string) error {
	if mc.lru.Remove(key) {
		atomic.AddInt64(&mc.stats.Deletes, 1)
	}
	return nil
}

// Clear removes all values from the cache
func (mc *MemoryCache) Clear(_ context.Context) error {
	mc.lru.Purge()
	return nil
}

// Close is a no-op for the in-process cache
func (mc *MemoryCache) Close() error {
	return nil
}

// Stats returns cache statistics
func (mc *MemoryCache) Stats() CacheStats {
	return CacheStats{
		Hits:    atomic.LoadInt64(&mc.stats.Hits),
		Misses:  atomic.LoadInt64(&mc.stats.Misses),
		Sets:    atomic.LoadInt64(&mc.stats.Sets),
		Deletes: atomic.LoadInt64(&mc.stats.Deletes),
		Size:    int64(mc.lru.Len()),
		MaxSize: int64(mc.maxSize),
	}
}
