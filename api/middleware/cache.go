package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/blog-discovery-api/internal/services/cache"
	"github.com/killallgit/blog-discovery-api/pkg/logger"
)

// Cache lookup results reported in X-Cache and to the recorder
const (
	CacheHit    = "HIT"
	CacheMiss   = "MISS"
	CacheBypass = "BYPASS"
)

// CacheRecorder receives one observation per cacheable request
type CacheRecorder interface {
	ObserveCache(result string)
}

// CacheConfig holds configuration for cache middleware
type CacheConfig struct {
	Cache      cache.Cache
	DefaultTTL time.Duration
	TTLByPath  map[string]time.Duration
	Recorder   CacheRecorder
}

// CachedResponse is the stored form of a successful response
type CachedResponse struct {
	Status      int       `json:"status"`
	ContentType string    `json:"contentType"`
	Body        []byte    `json:"body"`
	CachedAt    time.Time `json:"cachedAt"`
	ETag        string    `json:"etag"`
}

// responseWriter captures response for caching
type responseWriter struct {
	gin.ResponseWriter
	body   *bytes.Buffer
	status int
}

func (w *responseWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *responseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// CacheMiddleware serves repeated GET requests from the cache. A nil Cache
// disables the middleware entirely.
func CacheMiddleware(config CacheConfig) gin.HandlerFunc {
	log := logger.Named("http.cache")

	observe := func(result string) {
		if config.Recorder != nil {
			config.Recorder.ObserveCache(strings.ToLower(result))
		}
	}

	return func(c *gin.Context) {
		if config.Cache == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()

		if shouldBypassCache(c.Request) {
			c.Header("X-Cache", CacheBypass)
			observe(CacheBypass)
			c.Next()
			return
		}

		key := generateCacheKey(c.Request)

		if data, found := config.Cache.Get(ctx, key); found {
			var cached CachedResponse
			if err := json.Unmarshal(data, &cached); err == nil {
				observe(CacheHit)
				c.Header("X-Cache", CacheHit)
				c.Header("Age", strconv.Itoa(int(time.Since(cached.CachedAt).Seconds())))
				c.Header("ETag", cached.ETag)
				c.Data(cached.Status, cached.ContentType, cached.Body)
				c.Abort()
				return
			}
			logger.C(ctx, log).Warn().Str("key", key).Msg("discarding unreadable cache entry")
			_ = config.Cache.Delete(ctx, key)
		}

		observe(CacheMiss)
		c.Header("X-Cache", CacheMiss)

		w := &responseWriter{
			ResponseWriter: c.Writer,
			body:           bytes.NewBuffer(nil),
			status:         http.StatusOK,
		}
		c.Writer = w

		c.Next()

		if w.status != http.StatusOK || w.body.Len() == 0 {
			return
		}

		cached := CachedResponse{
			Status:      w.status,
			ContentType: w.Header().Get("Content-Type"),
			Body:        w.body.Bytes(),
			CachedAt:    time.Now(),
			ETag:        generateETag(w.body.Bytes()),
		}
		data, err := json.Marshal(cached)
		if err != nil {
			return
		}
		if err := config.Cache.Set(ctx, key, data, ttlFor(config, c.Request.URL.Path)); err != nil {
			logger.C(ctx, log).Warn().Err(err).Str("key", key).Msg("failed to store response")
		}
	}
}

func ttlFor(config CacheConfig, path string) time.Duration {
	if ttl, ok := config.TTLByPath[path]; ok {
		return ttl
	}
	// longest prefix wins
	best, ttl := -1, config.DefaultTTL
	for prefix, t := range config.TTLByPath {
		if strings.HasPrefix(path, prefix) && len(prefix) > best {
			best, ttl = len(prefix), t
		}
	}
	return ttl
}

// shouldBypassCache checks if cache should be bypassed based on request headers
func shouldBypassCache(req *http.Request) bool {
	for _, directive := range strings.Split(strings.ToLower(req.Header.Get("Cache-Control")), ",") {
		directive = strings.TrimSpace(directive)
		if directive == "no-cache" || directive == "no-store" || directive == "max-age=0" {
			return true
		}
	}
	return strings.EqualFold(req.Header.Get("Pragma"), "no-cache")
}

// generateCacheKey builds a key from the path and the escaped query,
// with keys and repeated values sorted so ?a=1&b=2 and ?b=2&a=1 share an
// entry. Escaping keeps values containing separators from colliding with
// other parameter sets.
func generateCacheKey(req *http.Request) string {
	params := req.URL.Query()
	for _, values := range params {
		sort.Strings(values)
	}

	key := "http:" + req.URL.Path
	if encoded := params.Encode(); encoded != "" {
		key += "?" + encoded
	}
	return key
}

// generateETag creates an ETag for the response body
func generateETag(body []byte) string {
	hash := sha256.Sum256(body)
	return fmt.Sprintf(`"%s"`, hex.EncodeToString(hash[:16]))
}
