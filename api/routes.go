package api

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/killallgit/blog-discovery-api/api/categories"
	"github.com/killallgit/blog-discovery-api/api/health"
	"github.com/killallgit/blog-discovery-api/api/middleware"
	"github.com/killallgit/blog-discovery-api/api/search"
	"github.com/killallgit/blog-discovery-api/api/types"
	"github.com/killallgit/blog-discovery-api/api/version"
	_ "github.com/killallgit/blog-discovery-api/docs/swagger"
	"github.com/killallgit/blog-discovery-api/pkg/config"
)

const (
	defaultSearchRPS   = 5
	defaultSearchBurst = 10
	defaultMetricsPath = "/metrics"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once) error {
	if deps == nil {
		return fmt.Errorf("dependencies are nil")
	}
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.Config{}
	}

	// Register public routes (no rate limiting)
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	// Register Swagger documentation route
	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/docs/index.html")
	})
	docsGroup := engine.Group("/docs")
	docsGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if deps.Metrics != nil && (deps.Config == nil || cfg.Monitoring.Enabled) {
		path := cfg.Monitoring.MetricsPath
		if path == "" {
			path = defaultMetricsPath
		}
		engine.GET(path, gin.WrapH(deps.Metrics.Handler()))
	}

	// Setup 404 handler
	engine.NoRoute(NotFoundHandler())

	// API v1 routes
	v1 := engine.Group("/api/v1")

	responseCache := middleware.CacheMiddleware(middleware.CacheConfig{
		Cache:      deps.Cache,
		DefaultTTL: cacheTTL(cfg),
		TTLByPath:  cfg.Cache.TTLByPath,
		Recorder:   deps.Metrics,
	})

	categoriesGroup := v1.Group("/categories")
	categoriesGroup.Use(responseCache)
	categories.RegisterRoutes(categoriesGroup)

	// Search gets a dedicated per-client limit (5 req/s, burst of 10 by default)
	searchGroup := v1.Group("/search")
	if cfg.RateLimiting.Enabled || deps.Config == nil {
		rps, burst := cfg.RateLimiting.SearchRPS, cfg.RateLimiting.SearchBurst
		if rps <= 0 {
			rps = defaultSearchRPS
		}
		if burst <= 0 {
			burst = defaultSearchBurst
		}
		searchGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, rps, burst))
	}
	searchGroup.Use(responseCache)
	search.RegisterRoutes(searchGroup, deps)

	return nil
}

func cacheTTL(cfg *config.Config) time.Duration {
	if cfg.Cache.TTL > 0 {
		return cfg.Cache.TTL
	}
	return 30 * time.Second
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Status:  types.StatusError,
			Message: "the requested endpoint was not found: " + c.Request.URL.Path,
			Error:   "NOT_FOUND",
		})
	}
}
