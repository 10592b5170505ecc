package types

// Status constants for API responses
const (
	StatusOK        = "ok"
	StatusError     = "error"
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// ErrorResponse is the body of every failed request. Error carries the
// machine-readable code, Message the human-readable summary.
type ErrorResponse struct {
	Status  string `json:"status" example:"error"`
	Message string `json:"message" example:"search failed"`
	Error   string `json:"error,omitempty" example:"SEARCH_FAILED"`
}

// ComponentStatus reports the state of one dependency
type ComponentStatus struct {
	Status string `json:"status" example:"healthy"`
	Error  string `json:"error,omitempty"`
}

// HealthResponse for health check endpoint
type HealthResponse struct {
	Status    string                     `json:"status" example:"ok"`
	Timestamp string                     `json:"timestamp" example:"2025-01-01T00:00:00Z"`
	Services  map[string]ComponentStatus `json:"services"`
}

// VersionResponse for the root endpoint
type VersionResponse struct {
	Name        string `json:"name" example:"Blog Discovery API"`
	Version     string `json:"version" example:"1.0.0"`
	Commit      string `json:"commit,omitempty"`
	Description string `json:"description"`
	Status      string `json:"status" example:"running"`
}

// CategoriesResponse lists the closed set of content categories
type CategoriesResponse struct {
	Status     string   `json:"status" example:"ok"`
	Categories []string `json:"categories"`
	Count      int      `json:"count" example:"10"`
}
