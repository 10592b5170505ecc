package version

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/blog-discovery-api/api/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		deps     *types.Dependencies
		expected types.VersionResponse
	}{
		{
			name: "build info",
			deps: &types.Dependencies{Build: types.BuildInfo{Version: "1.2.0", GitCommit: "abc123"}},
			expected: types.VersionResponse{
				Name:        "Blog Discovery API",
				Version:     "1.2.0",
				Commit:      "abc123",
				Description: "Search and discovery over blog posts and their authors",
				Status:      "running",
			},
		},
		{
			name: "no dependencies",
			deps: nil,
			expected: types.VersionResponse{
				Name:        "Blog Discovery API",
				Version:     "dev",
				Description: "Search and discovery over blog posts and their authors",
				Status:      "running",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			RegisterRoutes(router, tt.deps)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, http.StatusOK, w.Code)

			var response types.VersionResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.expected, response)
		})
	}
}
