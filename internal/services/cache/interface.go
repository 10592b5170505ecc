package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/killallgit/blog-discovery-api/pkg/config"
)

// Backend names accepted by New
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Cache defines the interface for cache implementations
type Cache interface {
	// Get retrieves a value from the cache
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores a value in the cache with a TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache
	Delete(ctx context.Context, key string) error

	// Clear removes all values from the cache
	Clear(ctx context.Context) error

	// Close releases any connection the cache holds
	Close() error
}

// CacheStats provides statistics about cache usage
type CacheStats struct {
	Hits    int64
	Misses  int64
	Sets    int64
	Deletes int64
	Size    int64
	MaxSize int64
}

// StatsProvider interface for caches that provide statistics
type StatsProvider interface {
	Stats() CacheStats
}

// New builds the cache selected by cfg. The "none" backend yields a nil
// Cache, which callers treat as caching disabled.
func New(cfg config.CacheConfig) (Cache, error) {
	switch cfg.Backend {
	case BackendNone, "":
		return nil, nil
	case BackendMemory:
		return NewMemoryCache(cfg.MaxEntries, LongestTTL(cfg)), nil
	case BackendRedis:
		rc, err := NewRedisCacheFromURL(cfg.RedisURL, cfg.KeyPrefix)
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// LongestTTL is the longest lifetime any response may be stored for: the
// default TTL or the longest per-path override
func LongestTTL(cfg config.CacheConfig) time.Duration {
	longest := cfg.TTL
	for _, ttl := range cfg.TTLByPath {
		longest = max(longest, ttl)
	}
	return longest
}
