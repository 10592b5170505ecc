package types

import (
	"github.com/killallgit/blog-discovery-api/internal/database"
	"github.com/killallgit/blog-discovery-api/internal/metrics"
	"github.com/killallgit/blog-discovery-api/internal/services/cache"
	"github.com/killallgit/blog-discovery-api/internal/services/search"
	"github.com/killallgit/blog-discovery-api/pkg/config"
	"github.com/killallgit/blog-discovery-api/pkg/logger"
)

// BuildInfo identifies the running binary
type BuildInfo struct {
	Version   string
	GitCommit string
	BuildTime string
}

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB            *database.DB
	SearchService search.Searcher
	Cache         cache.Cache
	Metrics       *metrics.Metrics
	Config        *config.Config
	Build         BuildInfo
	Logger        *logger.Logger
}

// Log returns the handler logger. Without one the root logger is used,
// tagged with component.
func (d *Dependencies) Log(component string) *logger.Logger {
	if d == nil || d.Logger == nil {
		return logger.Named(component)
	}
	return d.Logger
}

// SearchLimits returns the page size limits handlers apply when parsing
// search parameters
func (d *Dependencies) SearchLimits() search.Limits {
	if d == nil || d.Config == nil {
		return search.DefaultLimits
	}
	return search.Limits{
		Default: d.Config.Search.DefaultLimit,
		Max:     d.Config.Search.MaxLimit,
	}
}
