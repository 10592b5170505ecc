package search

import (
	"context"
	"fmt"
	"time"

	"github.com/killallgit/blog-discovery-api/internal/models"
	apperrors "github.com/killallgit/blog-discovery-api/pkg/errors"
	"github.com/killallgit/blog-discovery-api/pkg/logger"
	"github.com/killallgit/blog-discovery-api/pkg/textutil"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultTimeout       = 5 * time.Second
	DefaultFacetLimit    = 10
	DefaultExcerptLength = 200
)

// Service runs the content branch, the author branch and the facet
// summary concurrently and merges them into one Response
type Service struct {
	store         Store
	builder       Builder
	stripper      *textutil.Stripper
	timeout       time.Duration
	facetLimit    int
	excerptLength int
	log           *logger.Logger
	recorder      Recorder
}

// Ensure Service implements Searcher interface
var _ Searcher = (*Service)(nil)

// ServiceOption is a functional option for configuring the service
type ServiceOption func(*Service)

// WithTimeout sets the deadline applied to the whole fan-out
func WithTimeout(timeout time.Duration) ServiceOption {
	return func(s *Service) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithFacetLimit sets how many categories and tags are suggested
func WithFacetLimit(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.facetLimit = n
		}
	}
}

// WithExcerptLength sets the excerpt length in runes
func WithExcerptLength(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.excerptLength = n
		}
	}
}

// WithIncludeDrafts makes draft content searchable
func WithIncludeDrafts(include bool) ServiceOption {
	return func(s *Service) {
		s.builder.IncludeDrafts = include
	}
}

// WithLogger sets the logger failures are reported on
func WithLogger(l *logger.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRecorder sets the instrumentation sink
func WithRecorder(r Recorder) ServiceOption {
	return func(s *Service) {
		s.recorder = r
	}
}

// NewService creates a new search service with optional configuration
func NewService(store Store, opts ...ServiceOption) *Service {
	s := &Service{
		store:         store,
		stripper:      textutil.NewStripper(),
		timeout:       DefaultTimeout,
		facetLimit:    DefaultFacetLimit,
		excerptLength: DefaultExcerptLength,
		log:           logger.Named("search"),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Search executes q. A query with no term, category or tag returns an
// empty response without touching the store. Any store error, panic or
// deadline expiry fails the whole search with SEARCH_FAILED.
func (s *Service) Search(ctx context.Context, q Query) (*Response, error) {
	q = normalize(q)

	if q.IsEmpty() {
		if s.recorder != nil {
			s.recorder.ObserveEmptyQuery()
		}
		return EmptyResponse(q.Page), nil
	}

	start := time.Now()
	resp, err := s.run(ctx, q)
	if s.recorder != nil {
		s.recorder.ObserveSearch(string(q.Type), time.Since(start), err)
	}
	if err != nil {
		logger.C(ctx, s.log).Error().
			Err(err).
			Str("type", string(q.Type)).
			Str("term", q.Term).
			Str("category", q.Category).
			Str("tag", q.Tag).
			Int("page", q.Page).
			Int("limit", q.Limit).
			Dur("elapsed", time.Since(start)).
			Msg("search failed")
		return nil, apperrors.SearchFailed(err)
	}
	return resp, nil
}

func (s *Service) run(ctx context.Context, q Query) (*Response, error) {
	plan := s.builder.Build(q)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	var (
		contents     []models.Content
		contentTotal int64
		authors      []models.Author
		authorTotal  int64
		categories   []Facet
		tags         []Facet
	)

	if plan.RunContent {
		g.Go(guard("content", func() error {
			var err error
			if contents, err = s.store.FindContents(gctx, plan.Content, q.Offset(), q.Limit); err != nil {
				return fmt.Errorf("finding contents: %w", err)
			}
			if contentTotal, err = s.store.CountContents(gctx, plan.Content); err != nil {
				return fmt.Errorf("counting contents: %w", err)
			}
			return nil
		}))

		g.Go(guard("facets", func() error {
			var err error
			if categories, err = s.store.CategoryFacets(gctx, plan.Facets, s.facetLimit); err != nil {
				return fmt.Errorf("summarising categories: %w", err)
			}
			if tags, err = s.store.TagFacets(gctx, plan.Facets, s.facetLimit); err != nil {
				return fmt.Errorf("summarising tags: %w", err)
			}
			return nil
		}))
	}

	if plan.RunAuthors {
		g.Go(guard("authors", func() error {
			var err error
			if authors, err = s.store.FindAuthors(gctx, plan.Authors, q.Offset(), q.Limit); err != nil {
				return fmt.Errorf("finding authors: %w", err)
			}
			if authorTotal, err = s.store.CountAuthors(gctx, plan.Authors); err != nil {
				return fmt.Errorf("counting authors: %w", err)
			}
			return nil
		}))
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	// A store that ignores cancellation must not sneak a late answer through
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("search deadline: %w", err)
	}

	if len(contents) > q.Limit {
		contents = contents[:q.Limit]
	}
	if len(authors) > q.Limit {
		authors = authors[:q.Limit]
	}

	results := make([]Result, 0, len(contents)+len(authors))
	for i := range contents {
		results = append(results, s.blogResult(&contents[i]))
	}
	for i := range authors {
		results = append(results, userResult(&authors[i]))
	}

	total := contentTotal + authorTotal
	return &Response{
		Results:     results,
		TotalCount:  total,
		TotalPages:  TotalPages(total, q.Limit),
		CurrentPage: q.Page,
		Suggestions: Suggestions{
			Categories: nonNil(categories),
			Tags:       nonNil(tags),
		},
	}, nil
}

func (s *Service) blogResult(c *models.Content) BlogResult {
	return BlogResult{
		ID:           c.ID,
		Title:        c.Title,
		Excerpt:      s.stripper.Excerpt(c.Body, s.excerptLength),
		Category:     c.Category,
		Tags:         c.TagValues(),
		CreatedAt:    c.CreatedAt,
		AuthorHandle: c.Author.Handle,
		ViewCount:    c.ViewCount,
		LikeCount:    c.LikeCount,
	}
}

func userResult(a *models.Author) UserResult {
	return UserResult{
		ID:     a.ID,
		Name:   a.Name,
		Handle: a.Handle,
		Bio:    a.Bio,
		Avatar: a.AvatarURL,
	}
}

// guard turns a panic inside a branch into an ordinary error
func guard(branch string, fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%s branch panicked: %v", branch, r)
			}
		}()
		return fn()
	}
}

// normalize applies the defaults to a Query built by hand rather than by Parse
func normalize(q Query) Query {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	switch q.Type {
	case TypeAll, TypeContent, TypeAuthors:
	default:
		q.Type = TypeAll
	}
	return q
}

func nonNil(f []Facet) []Facet {
	if f == nil {
		return []Facet{}
	}
	return f
}
