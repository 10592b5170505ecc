package search

import (
	"encoding/json"
	"time"
)

// Result discriminators
const (
	ResultTypeBlog = "blog"
	ResultTypeUser = "user"
)

// Result is one item of a merged result list: a BlogResult or a UserResult
type Result interface {
	ResultType() string
}

// BlogResult is the projection of a Content record
type BlogResult struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Excerpt      string    `json:"excerpt"`
	Category     string    `json:"category"`
	Tags         []string  `json:"tags"`
	CreatedAt    time.Time `json:"createdAt"`
	AuthorHandle string    `json:"authorHandle"`
	ViewCount    int64     `json:"viewCount"`
	LikeCount    int64     `json:"likeCount"`
}

// UserResult is the projection of an Author record
type UserResult struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Handle string `json:"handle"`
	Bio    string `json:"bio"`
	Avatar string `json:"avatar"`
}

func (BlogResult) ResultType() string { return ResultTypeBlog }
func (UserResult) ResultType() string { return ResultTypeUser }

// MarshalJSON adds the "type" discriminator
func (r BlogResult) MarshalJSON() ([]byte, error) {
	type plain BlogResult
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{ResultTypeBlog, plain(r)})
}

// MarshalJSON adds the "type" discriminator
func (r UserResult) MarshalJSON() ([]byte, error) {
	type plain UserResult
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{ResultTypeUser, plain(r)})
}

// Facet is one suggestion bucket
type Facet struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// Suggestions holds the top categories and tags for the current filter
type Suggestions struct {
	Categories []Facet `json:"categories"`
	Tags       []Facet `json:"tags"`
}

// Response is the outcome of a successful search. Zero matches is a
// Response with TotalCount 0, never an error.
type Response struct {
	Results     []Result    `json:"results"`
	TotalCount  int64       `json:"totalCount"`
	TotalPages  int         `json:"totalPages"`
	CurrentPage int         `json:"currentPage"`
	Suggestions Suggestions `json:"suggestions"`
}

// EmptyResponse is the response for a query with nothing to match
func EmptyResponse(page int) *Response {
	if page < 1 {
		page = 1
	}
	return &Response{
		Results:     []Result{},
		CurrentPage: page,
		Suggestions: Suggestions{Categories: []Facet{}, Tags: []Facet{}},
	}
}

// TotalPages is ceil(total / limit)
func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
