package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/blog-discovery-api/api/types"
)

const pingTimeout = 2 * time.Second

// pinger is implemented by caches that can report reachability
type pinger interface {
	Ping(ctx context.Context) error
}

// Get handles health check requests
// @Summary      Health check
// @Description  Reports service status and the state of the database and response cache.
// @Description  Returns 503 when the database cannot be reached.
// @Tags         health
// @Produce      json
// @Success      200 {object} types.HealthResponse "Service healthy"
// @Failure      503 {object} types.HealthResponse "Database unreachable"
// @Router       /health [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()

		response := types.HealthResponse{
			Status:    types.StatusOK,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Services: map[string]types.ComponentStatus{
				"database": databaseStatus(deps),
				"cache":    cacheStatus(ctx, deps),
			},
		}

		status := http.StatusOK
		if response.Services["database"].Status == types.StatusUnhealthy {
			response.Status = types.StatusUnhealthy
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, response)
	}
}

func databaseStatus(deps *types.Dependencies) types.ComponentStatus {
	if deps == nil || deps.DB == nil || deps.DB.DB == nil {
		return types.ComponentStatus{Status: "not configured"}
	}
	if err := deps.DB.HealthCheck(); err != nil {
		return types.ComponentStatus{Status: types.StatusUnhealthy, Error: err.Error()}
	}
	return types.ComponentStatus{Status: types.StatusHealthy}
}

// cacheStatus never fails the health check; a dead cache only costs hits
func cacheStatus(ctx context.Context, deps *types.Dependencies) types.ComponentStatus {
	if deps == nil || deps.Cache == nil {
		return types.ComponentStatus{Status: "disabled"}
	}
	if p, ok := deps.Cache.(pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return types.ComponentStatus{Status: types.StatusUnhealthy, Error: err.Error()}
		}
	}
	return types.ComponentStatus{Status: types.StatusHealthy}
}
