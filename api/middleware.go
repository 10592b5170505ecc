package api

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/killallgit/blog-discovery-api/api/types"
	apperrors "github.com/killallgit/blog-discovery-api/pkg/errors"
	"github.com/killallgit/blog-discovery-api/pkg/logger"
	"golang.org/x/time/rate"
)

// RequestIDHeader carries the per-request correlation id
const RequestIDHeader = "X-Request-ID"

const (
	limiterIdleAfter    = 10 * time.Minute
	limiterSweepEvery   = 5 * time.Minute
	maxRequestIDLength  = 128
	defaultRequestLimit = 1024 * 1024
)

// clientLimiter holds a rate limiter and its last accessed time
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

func (cl *clientLimiter) touch(now time.Time) {
	cl.lastSeen.Store(now.UnixNano())
}

func (cl *clientLimiter) idle(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, cl.lastSeen.Load()))
}

// RequestID reuses an inbound X-Request-ID or mints a uuid, echoes it on the
// response and stores it on the request context for logger.C
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// AccessLog writes one structured line per request to the "http" logger
func AccessLog() gin.HandlerFunc {
	return AccessLogTo(logger.Named("http"))
}

// AccessLogTo is AccessLog writing to log
func AccessLogTo(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		l := logger.C(c.Request.Context(), log)
		ev := l.Info()
		switch {
		case status >= http.StatusInternalServerError:
			ev = l.Error()
		case status >= http.StatusBadRequest:
			ev = l.Warn()
		}
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}
		ev.Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Int("size", c.Writer.Size()).
			Str("client_ip", c.ClientIP()).
			Dur("latency", time.Since(start)).
			Str("cache", c.Writer.Header().Get("X-Cache")).
			Msg("request")
	}
}

func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Cache-Control, "+RequestIDHeader)
		c.Header("Access-Control-Expose-Headers", "X-Cache, "+RequestIDHeader)
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func RequestSizeLimit() gin.HandlerFunc {
	return RequestSizeLimitWithSize(defaultRequestLimit)
}

func RequestSizeLimitWithSize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "request body too large",
				Error:   string(apperrors.ErrCodeInvalidInput),
			})
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// PerClientRateLimit applies an independent token bucket per client IP.
// The sweeper that drops idle limiters is started once per rateLimiters map.
func PerClientRateLimit(rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once, rps int, burst int) gin.HandlerFunc {
	cleanupInitialized.Do(func() {
		go cleanupOldRateLimiters(rateLimiters, cleanupStop, limiterSweepEvery, limiterIdleAfter)
	})

	if rps < 1 {
		rps = 1
	}
	if burst < 1 {
		burst = 1
	}

	return func(c *gin.Context) {
		now := time.Now()
		v, ok := rateLimiters.Load(c.ClientIP())
		if !ok {
			fresh := &clientLimiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
			v, _ = rateLimiters.LoadOrStore(c.ClientIP(), fresh)
		}
		cl := v.(*clientLimiter)
		cl.touch(now)

		if !cl.limiter.AllowN(now, 1) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "rate limit exceeded, slow down your requests",
				Error:   string(apperrors.ErrCodeAPIRateLimit),
			})
			return
		}
		c.Next()
	}
}

func cleanupOldRateLimiters(rateLimiters *sync.Map, cleanupStop chan struct{}, every, idleAfter time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			sweepRateLimiters(rateLimiters, now, idleAfter)
		case <-cleanupStop:
			return
		}
	}
}

func sweepRateLimiters(rateLimiters *sync.Map, now time.Time, idleAfter time.Duration) {
	rateLimiters.Range(func(key, value any) bool {
		if cl, ok := value.(*clientLimiter); !ok || cl.idle(now) > idleAfter {
			rateLimiters.Delete(key)
		}
		return true
	})
}
