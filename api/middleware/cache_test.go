package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/killallgit/blog-discovery-api/internal/services/cache"
	"github.com/stretchr/testify/assert"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type recorderStub struct {
	results []string
}

func (r *recorderStub) ObserveCache(result string) {
	r.results = append(r.results, result)
}

func setupRouter(cfg CacheConfig, calls *int32, status int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CacheMiddleware(cfg))
	router.GET("/api/v1/search", func(c *gin.Context) {
		atomic.AddInt32(calls, 1)
		c.JSON(status, gin.H{"q": c.Query("q")})
	})
	router.GET("/api/v1/categories", func(c *gin.Context) {
		atomic.AddInt32(calls, 1)
		c.JSON(status, gin.H{"categories": []string{"AI"}})
	})
	router.POST("/api/v1/search", func(c *gin.Context) {
		atomic.AddInt32(calls, 1)
		c.JSON(http.StatusOK, gin.H{})
	})
	return router
}

func get(router *gin.Engine, target string, headers map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestCacheMiddleware_MissThenHit(t *testing.T) {
	var calls int32
	rec := &recorderStub{}
	router := setupRouter(CacheConfig{
		Cache:      cache.NewMemoryCache(10, time.Minute),
		DefaultTTL: time.Minute,
		Recorder:   rec,
	}, &calls, http.StatusOK)

	first := get(router, "/api/v1/search?q=go&page=1", nil)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, CacheMiss, first.Header().Get("X-Cache"))

	second := get(router, "/api/v1/search?page=1&q=go", nil)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, CacheHit, second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Contains(t, second.Header().Get("Content-Type"), "application/json")
	assert.NotEmpty(t, second.Header().Get("ETag"))

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, []string{"miss", "hit"}, rec.results)
}

func TestCacheMiddleware_Bypass(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
	}{
		{name: "no-cache", headers: map[string]string{"Cache-Control": "no-cache"}},
		{name: "no-store mixed case", headers: map[string]string{"Cache-Control": "private, No-Store"}},
		{name: "max-age zero", headers: map[string]string{"Cache-Control": "max-age=0"}},
		{name: "pragma", headers: map[string]string{"Pragma": "no-cache"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			rec := &recorderStub{}
			router := setupRouter(CacheConfig{
				Cache:    cache.NewMemoryCache(10, time.Minute),
				Recorder: rec,
			}, &calls, http.StatusOK)

			get(router, "/api/v1/search?q=go", nil)
			w := get(router, "/api/v1/search?q=go", tt.headers)

			assert.Equal(t, CacheBypass, w.Header().Get("X-Cache"))
			assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
			assert.Equal(t, []string{"miss", "bypass"}, rec.results)
		})
	}
}

func TestCacheMiddleware_SkipsErrorsAndNonGet(t *testing.T) {
	var calls int32
	c := cache.NewMemoryCache(10, time.Minute)
	router := setupRouter(CacheConfig{Cache: c}, &calls, http.StatusInternalServerError)

	get(router, "/api/v1/search?q=boom", nil)
	w := get(router, "/api/v1/search?q=boom", nil)
	assert.Equal(t, CacheMiss, w.Header().Get("X-Cache"))
	assert.Equal(t, int64(0), c.Stats().Size)

	pw := httptest.NewRecorder()
	router.ServeHTTP(pw, httptest.NewRequest(http.MethodPost, "/api/v1/search", nil))
	assert.Empty(t, pw.Header().Get("X-Cache"))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestCacheMiddleware_NilCacheDisabled(t *testing.T) {
	var calls int32
	router := setupRouter(CacheConfig{}, &calls, http.StatusOK)

	get(router, "/api/v1/search?q=go", nil)
	w := get(router, "/api/v1/search?q=go", nil)

	assert.Empty(t, w.Header().Get("X-Cache"))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCacheMiddleware_CorruptEntryIsDropped(t *testing.T) {
	var calls int32
	c := cache.NewMemoryCache(10, time.Minute)
	router := setupRouter(CacheConfig{Cache: c}, &calls, http.StatusOK)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=go", nil)
	require.NoError(t, c.Set(context.Background(), generateCacheKey(req), []byte("not json"), 0))

	w := get(router, "/api/v1/search?q=go", nil)
	assert.Equal(t, CacheMiss, w.Header().Get("X-Cache"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	w = get(router, "/api/v1/search?q=go", nil)
	assert.Equal(t, CacheHit, w.Header().Get("X-Cache"))
}

func TestCacheMiddleware_EscapedValuesDoNotCollide(t *testing.T) {
	var calls int32
	router := setupRouter(CacheConfig{Cache: cache.NewMemoryCache(10, time.Minute)}, &calls, http.StatusOK)

	first := get(router, "/api/v1/search?category=AI%3Aq%3Dreact", nil)
	require.Equal(t, CacheMiss, first.Header().Get("X-Cache"))

	second := get(router, "/api/v1/search?category=AI&q=react", nil)
	assert.Equal(t, CacheMiss, second.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"q":"react"}`, second.Body.String())
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCacheMiddleware_TTLByPath(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := cache.NewRedisCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "t:")
	t.Cleanup(func() { _ = rc.Close() })

	var calls int32
	router := setupRouter(CacheConfig{
		Cache:      rc,
		DefaultTTL: 30 * time.Second,
		TTLByPath:  map[string]time.Duration{"/api/v1/categories": 24 * time.Hour},
	}, &calls, http.StatusOK)

	get(router, "/api/v1/categories", nil)
	get(router, "/api/v1/search?q=go", nil)

	assert.Equal(t, 24*time.Hour, mr.TTL("t:http:/api/v1/categories"))
	assert.Equal(t, 30*time.Second, mr.TTL("t:http:/api/v1/search?q=go"))
	assert.Equal(t, CacheHit, get(router, "/api/v1/categories", nil).Header().Get("X-Cache"))
}

func TestGenerateCacheKey(t *testing.T) {
	key := func(target string) string {
		return generateCacheKey(httptest.NewRequest(http.MethodGet, target, nil))
	}

	tests := []struct {
		name  string
		a, b  string
		equal bool
	}{
		{name: "parameter order", a: "/api/v1/search?q=go&page=2", b: "/api/v1/search?page=2&q=go", equal: true},
		{name: "repeated value order", a: "/api/v1/search?tag=b&tag=a", b: "/api/v1/search?tag=a&tag=b", equal: true},
		{name: "different values", a: "/api/v1/search?q=go", b: "/api/v1/search?q=rust"},
		{name: "separator inside a value", a: "/api/v1/search?category=AI%3Aq%3Dreact", b: "/api/v1/search?category=AI&q=react"},
		{name: "ampersand inside a value", a: "/api/v1/search?q=a%26page%3D2", b: "/api/v1/search?q=a&page=2"},
		{name: "different paths", a: "/api/v1/search", b: "/api/v1/categories"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.equal {
				assert.Equal(t, key(tt.a), key(tt.b))
			} else {
				assert.NotEqual(t, key(tt.a), key(tt.b))
			}
		})
	}

	assert.Equal(t, "http:/api/v1/search", key("/api/v1/search"))
	assert.Equal(t, "http:/api/v1/search?page=2&q=go", key("/api/v1/search?q=go&page=2"))
}

func TestTTLFor(t *testing.T) {
	cfg := CacheConfig{
		DefaultTTL: time.Minute,
		TTLByPath: map[string]time.Duration{
			"/api":           10 * time.Second,
			"/api/v1/search": 30 * time.Second,
		},
	}

	assert.Equal(t, 30*time.Second, ttlFor(cfg, "/api/v1/search"))
	assert.Equal(t, 30*time.Second, ttlFor(cfg, "/api/v1/search/extra"))
	assert.Equal(t, 10*time.Second, ttlFor(cfg, "/api/v1/categories"))
	assert.Equal(t, time.Minute, ttlFor(cfg, "/health"))
}
