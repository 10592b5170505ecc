package search

import (
	"context"
	"time"

	"github.com/killallgit/blog-discovery-api/internal/models"
)

// Store is the read-only document store the engine runs against
type Store interface {
	FindContents(ctx context.Context, spec Spec, offset, limit int) ([]models.Content, error)
	CountContents(ctx context.Context, spec Spec) (int64, error)
	FindAuthors(ctx context.Context, spec Spec, offset, limit int) ([]models.Author, error)
	CountAuthors(ctx context.Context, spec Spec) (int64, error)

	// Facets are ordered by count descending and truncated to limit
	CategoryFacets(ctx context.Context, spec Spec, limit int) ([]Facet, error)
	TagFacets(ctx context.Context, spec Spec, limit int) ([]Facet, error)
}

// Searcher runs a parsed query end to end
type Searcher interface {
	Search(ctx context.Context, q Query) (*Response, error)
}

// Recorder receives search instrumentation
type Recorder interface {
	ObserveSearch(contentType string, d time.Duration, err error)
	ObserveEmptyQuery()
}
