package version

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/blog-discovery-api/api/types"
)

// Name is the service name reported by the root endpoint
const Name = "Blog Discovery API"

// Get handles version requests
// @Summary      Service version
// @Description  Name, version and build commit of the running service.
// @Tags         version
// @Produce      json
// @Success      200 {object} types.VersionResponse "Version information"
// @Router       / [get]
func Get(build types.BuildInfo) gin.HandlerFunc {
	version := build.Version
	if version == "" {
		version = "dev"
	}
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, types.VersionResponse{
			Name:        Name,
			Version:     version,
			Commit:      build.GitCommit,
			Description: "Search and discovery over blog posts and their authors",
			Status:      "running",
		})
	}
}
