package search

import (
	"strconv"
	"strings"
	"time"
)

// ContentType selects which search branches run
type ContentType string

const (
	TypeAll     ContentType = "all"
	TypeContent ContentType = "content"
	TypeAuthors ContentType = "authors"
)

// SortMode selects the result ordering
type SortMode string

const (
	SortRecent  SortMode = "recent"
	SortPopular SortMode = "popular"
	SortLiked   SortMode = "liked"
	SortOldest  SortMode = "oldest"
)

const (
	DefaultLimit = 10
	MaxLimit     = 50
)

const dateOnly = "2006-01-02"

// Query is one parsed search request
type Query struct {
	Term     string
	Type     ContentType
	Category string
	Tag      string
	From     *time.Time
	To       *time.Time
	Sort     SortMode
	Page     int
	Limit    int
}

// IsEmpty reports whether the query carries nothing to filter on
func (q Query) IsEmpty() bool {
	return q.Term == "" && q.Category == "" && q.Tag == ""
}

// Offset is the number of records skipped for the requested page
func (q Query) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Params holds the raw request parameters exactly as received
type Params struct {
	Q        string `form:"q"`
	Type     string `form:"type"`
	Category string `form:"category"`
	Tag      string `form:"tag"`
	From     string `form:"from"`
	To       string `form:"to"`
	Page     string `form:"page"`
	Limit    string `form:"limit"`
	Sort     string `form:"sort"`
}

// Limits bounds the page size accepted from callers
type Limits struct {
	Default int
	Max     int
}

// DefaultLimits are the page size bounds used when none are configured
var DefaultLimits = Limits{Default: DefaultLimit, Max: MaxLimit}

// ParseParams converts raw parameters into a Query using DefaultLimits
func ParseParams(p Params) Query {
	return DefaultLimits.Parse(p)
}

// Parse converts raw parameters into a Query. It never fails: anything
// unparseable falls back to its default.
func (l Limits) Parse(p Params) Query {
	def, ceiling := l.Default, l.Max
	if ceiling <= 0 {
		ceiling = MaxLimit
	}
	if def <= 0 || def > ceiling {
		def = min(DefaultLimit, ceiling)
	}

	q := Query{
		Term:     strings.TrimSpace(p.Q),
		Type:     parseType(p.Type),
		Category: strings.TrimSpace(p.Category),
		Tag:      strings.TrimSpace(p.Tag),
		From:     parseDate(p.From, false),
		To:       parseDate(p.To, true),
		Sort:     parseSort(p.Sort),
		Page:     1,
		Limit:    def,
	}

	if page, err := strconv.Atoi(strings.TrimSpace(p.Page)); err == nil && page >= 1 {
		q.Page = page
	}
	if limit, err := strconv.Atoi(strings.TrimSpace(p.Limit)); err == nil && limit >= 1 {
		q.Limit = min(limit, ceiling)
	}

	return q
}

func parseType(s string) ContentType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "blogs", "content":
		return TypeContent
	case "users", "authors":
		return TypeAuthors
	default:
		return TypeAll
	}
}

func parseSort(s string) SortMode {
	switch SortMode(strings.ToLower(strings.TrimSpace(s))) {
	case SortPopular:
		return SortPopular
	case SortLiked:
		return SortLiked
	case SortOldest:
		return SortOldest
	default:
		return SortRecent
	}
}

// parseDate accepts RFC 3339 timestamps or bare dates. A bare upper bound
// covers the whole day. Anything else is an absent bound.
func parseDate(s string, upper bool) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		t = t.UTC()
		return &t
	}
	t, err := time.Parse(dateOnly, s)
	if err != nil {
		return nil
	}
	if upper {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t
}
