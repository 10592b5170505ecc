package search

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/blog-discovery-api/api/types"
	searchsvc "github.com/killallgit/blog-discovery-api/internal/services/search"
	apperrors "github.com/killallgit/blog-discovery-api/pkg/errors"
	"github.com/killallgit/blog-discovery-api/pkg/logger"
)

// Get handles blog and author discovery
// @Summary      Search content and authors
// @Description  Substring search over published blog posts (title, body, tags, category) and authors (name, handle, bio).
// @Description  Filters combine with AND. Requests without q, category or tag return an empty result set.
// @Description  Suggestions summarize the top categories and tags across the matching posts, ignoring the category and tag filters.
// @Tags         search
// @Produce      json
// @Param        q         query string false "Search term, matched case-insensitively as a substring"
// @Param        type      query string false "Result kinds: all, blogs or users" Enums(all, blogs, content, users, authors) default(all)
// @Param        category  query string false "Exact category" example(AI)
// @Param        tag       query string false "Exact tag" example(llm)
// @Param        from      query string false "Earliest creation date (YYYY-MM-DD or RFC3339)"
// @Param        to        query string false "Latest creation date, inclusive (YYYY-MM-DD or RFC3339)"
// @Param        sort      query string false "Ordering" Enums(recent, popular, liked, oldest) default(recent)
// @Param        page      query int    false "1-based page number" minimum(1) default(1)
// @Param        limit     query int    false "Page size" minimum(1) maximum(50) default(10)
// @Success      200 {object} searchsvc.Response "Merged results, pagination and facet suggestions"
// @Failure      429 {object} types.ErrorResponse "Rate limit exceeded"
// @Failure      500 {object} types.ErrorResponse "Search failed"
// @Router       /api/v1/search [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps == nil || deps.SearchService == nil {
			types.SendError(c, apperrors.New(apperrors.ErrCodeInternal, "search service not available"))
			return
		}

		// anything unparseable falls back to its default in Parse
		var params searchsvc.Params
		if err := c.ShouldBindQuery(&params); err != nil {
			logger.C(c.Request.Context(), deps.Log("http.search")).Debug().
				Err(err).
				Str("query", c.Request.URL.RawQuery).
				Msg("query binding failed, using defaults")
		}

		query := deps.SearchLimits().Parse(params)

		resp, err := deps.SearchService.Search(c.Request.Context(), query)
		if err != nil {
			types.SendError(c, err)
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}
