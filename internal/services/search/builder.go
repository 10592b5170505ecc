package search

import (
	"time"

	"github.com/killallgit/blog-discovery-api/internal/models"
	"github.com/killallgit/blog-discovery-api/pkg/textutil"
)

// Searchable fields. The store maps these onto its own columns.
const (
	FieldTitle         = "title"
	FieldBody          = "body"
	FieldTags          = "tags"
	FieldCategory      = "category"
	FieldStatus        = "status"
	FieldCreatedAt     = "created_at"
	FieldViewCount     = "view_count"
	FieldLikeCount     = "like_count"
	FieldID            = "id"
	FieldName          = "name"
	FieldHandle        = "handle"
	FieldBio           = "bio"
	FieldFollowerCount = "follower_count"
)

var (
	contentTermFields = []string{FieldTitle, FieldBody, FieldTags, FieldCategory}
	authorTermFields  = []string{FieldName, FieldHandle, FieldBio}
)

// Condition is one constraint of a Spec. All conditions of a Spec are ANDed.
type Condition interface {
	condition()
}

// AnyOf matches when Term is a case-insensitive substring of any of Fields
type AnyOf struct {
	Fields []string
	Term   string
}

// Equals matches when Field equals Value exactly
type Equals struct {
	Field string
	Value any
}

// HasTag matches when the record's tag set contains Tag
type HasTag struct {
	Tag string
}

// Between bounds Field inclusively. Either bound may be nil.
type Between struct {
	Field string
	From  *time.Time
	To    *time.Time
}

func (AnyOf) condition()   {}
func (Equals) condition()  {}
func (HasTag) condition()  {}
func (Between) condition() {}

// Order is one sort key
type Order struct {
	Field string
	Desc  bool
}

// Spec is a store-neutral filter plus sort for one entity type
type Spec struct {
	Conditions []Condition
	Order      []Order
}

// Without returns a copy of s lacking every condition drop matches
func (s Spec) Without(drop func(Condition) bool) Spec {
	out := Spec{Order: s.Order}
	for _, c := range s.Conditions {
		if !drop(c) {
			out.Conditions = append(out.Conditions, c)
		}
	}
	return out
}

// Plan is everything the aggregator needs to execute one Query
type Plan struct {
	Content    Spec
	Authors    Spec
	Facets     Spec
	RunContent bool
	RunAuthors bool
}

// Builder turns a Query into a Plan. It performs no I/O and accepts any Query.
type Builder struct {
	// IncludeDrafts lifts the published-only visibility constraint
	IncludeDrafts bool
}

// Build translates q into per-entity filter and sort specs
func (b Builder) Build(q Query) Plan {
	// Authors only carry text fields, so without a term there is nothing to match
	plan := Plan{
		RunContent: q.Type != TypeAuthors,
		RunAuthors: q.Type != TypeContent && q.Term != "",
	}

	var content []Condition
	if !b.IncludeDrafts {
		content = append(content, Equals{Field: FieldStatus, Value: models.StatusPublished})
	}
	if q.Term != "" {
		content = append(content, AnyOf{Fields: contentTermFields, Term: q.Term})
	}
	if q.Category != "" {
		content = append(content, Equals{Field: FieldCategory, Value: q.Category})
	}
	if tag := textutil.NormalizeTag(q.Tag); tag != "" {
		content = append(content, HasTag{Tag: tag})
	}
	if q.From != nil || q.To != nil {
		content = append(content, Between{Field: FieldCreatedAt, From: q.From, To: q.To})
	}
	plan.Content = Spec{Conditions: content, Order: contentOrder(q.Sort)}

	// Facets show what else is available, so the current selection is ignored
	plan.Facets = plan.Content.Without(func(c Condition) bool {
		switch c := c.(type) {
		case HasTag:
			return true
		case Equals:
			return c.Field == FieldCategory
		}
		return false
	})

	var authors []Condition
	if q.Term != "" {
		authors = append(authors, AnyOf{Fields: authorTermFields, Term: q.Term})
	}
	plan.Authors = Spec{Conditions: authors, Order: authorOrder(q.Sort)}

	return plan
}

func contentOrder(mode SortMode) []Order {
	var primary Order
	switch mode {
	case SortPopular:
		primary = Order{Field: FieldViewCount, Desc: true}
	case SortLiked:
		primary = Order{Field: FieldLikeCount, Desc: true}
	case SortOldest:
		return []Order{{Field: FieldCreatedAt}, {Field: FieldID}}
	default:
		primary = Order{Field: FieldCreatedAt, Desc: true}
	}
	return []Order{primary, {Field: FieldID, Desc: true}}
}

// Authors carry no view or like counters, so popularity means followers
func authorOrder(mode SortMode) []Order {
	switch mode {
	case SortPopular, SortLiked:
		return []Order{{Field: FieldFollowerCount, Desc: true}, {Field: FieldID, Desc: true}}
	case SortOldest:
		return []Order{{Field: FieldCreatedAt}, {Field: FieldID}}
	default:
		return []Order{{Field: FieldCreatedAt, Desc: true}, {Field: FieldID, Desc: true}}
	}
}
