package categories

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/blog-discovery-api/api/types"
	"github.com/killallgit/blog-discovery-api/internal/models"
)

// Get returns the closed set of content categories
// @Summary      List content categories
// @Description  Every category a post can carry. Use a value from this list as the category filter of a search.
// @Tags         categories
// @Produce      json
// @Success      200 {object} types.CategoriesResponse "Category names"
// @Router       /api/v1/categories [get]
func Get() gin.HandlerFunc {
	return func(c *gin.Context) {
		categories := append([]string(nil), models.Categories...)

		// the set only changes with a deploy
		c.Header("Cache-Control", "public, max-age=86400")
		c.JSON(http.StatusOK, types.CategoriesResponse{
			Status:     types.StatusOK,
			Categories: categories,
			Count:      len(categories),
		})
	}
}
