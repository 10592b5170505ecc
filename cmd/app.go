package cmd

import (
	"fmt"

	"github.com/killallgit/blog-discovery-api/api/types"
	"github.com/killallgit/blog-discovery-api/internal/database"
	"github.com/killallgit/blog-discovery-api/internal/metrics"
	"github.com/killallgit/blog-discovery-api/internal/models"
	"github.com/killallgit/blog-discovery-api/internal/services/cache"
	"github.com/killallgit/blog-discovery-api/internal/services/search"
	"github.com/killallgit/blog-discovery-api/pkg/config"
	"github.com/killallgit/blog-discovery-api/pkg/logger"
)

// openDatabase opens the configured store and brings its schema up to date
func openDatabase(cfg *config.Config) (*database.DB, error) {
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	if err := models.BackfillFolded(db.DB); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to backfill search columns: %w", err)
	}
	return db, nil
}

// newSearchService builds the search engine over db with the configured
// limits. A nil recorder disables metrics.
func newSearchService(db *database.DB, cfg *config.Config, recorder search.Recorder) *search.Service {
	opts := []search.ServiceOption{
		search.WithTimeout(cfg.Search.Timeout),
		search.WithFacetLimit(cfg.Search.FacetLimit),
		search.WithExcerptLength(cfg.Search.ExcerptLength),
		search.WithIncludeDrafts(cfg.Search.IncludeDrafts),
		search.WithLogger(logger.Named("search")),
	}
	if recorder != nil {
		opts = append(opts, search.WithRecorder(recorder))
	}
	return search.NewService(search.NewRepository(db.DB), opts...)
}

// buildDependencies wires everything the HTTP handlers need. The caller
// owns the returned cleanup.
func buildDependencies(cfg *config.Config) (*types.Dependencies, func(), error) {
	db, err := openDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}

	c, err := cache.New(cfg.Cache)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	var m *metrics.Metrics
	var recorder search.Recorder
	if cfg.Monitoring.Enabled {
		m = metrics.New()
		recorder = m
	}

	deps := &types.Dependencies{
		DB:            db,
		SearchService: newSearchService(db, cfg, recorder),
		Cache:         c,
		Metrics:       m,
		Config:        cfg,
		Build:         types.BuildInfo{Version: Version, GitCommit: GitCommit, BuildTime: BuildTime},
		Logger:        logger.Named("http"),
	}

	cleanup := func() {
		log := logger.Named("serve")
		if c != nil {
			if err := c.Close(); err != nil {
				log.Warn().Err(err).Msg("closing cache")
			}
		}
		if err := db.Close(); err != nil {
			log.Warn().Err(err).Msg("closing database")
		}
	}
	return deps, cleanup, nil
}
