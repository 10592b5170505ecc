package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/killallgit/blog-discovery-api/internal/models"
	apperrors "github.com/killallgit/blog-discovery-api/pkg/errors"
	"github.com/killallgit/blog-discovery-api/pkg/textutil"
	"gorm.io/gorm"
)

const (
	tagContainsClause = `EXISTS (SELECT 1 FROM content_tags ct WHERE ct.content_id = contents.id AND ct.tag LIKE ? ESCAPE '\')`
	tagEqualsClause   = `EXISTS (SELECT 1 FROM content_tags ct WHERE ct.content_id = contents.id AND ct.tag = ?)`
)

// tables map fields onto qualified columns; tags are handled separately
type table struct {
	columns map[string]string
	// free-text matching runs on case-folded copies, since SQLite LIKE
	// only folds ASCII
	termColumns map[string]string
	tagged      bool
}

var (
	contentTable = table{
		columns: map[string]string{
			FieldID:        "contents.id",
			FieldTitle:     "contents.title",
			FieldBody:      "contents.body",
			FieldCategory:  "contents.category",
			FieldStatus:    "contents.status",
			FieldCreatedAt: "contents.created_at",
			FieldViewCount: "contents.view_count",
			FieldLikeCount: "contents.like_count",
		},
		termColumns: map[string]string{
			FieldTitle:    "contents.title_folded",
			FieldBody:     "contents.body_folded",
			FieldCategory: "contents.category",
		},
		tagged: true,
	}
	authorTable = table{
		columns: map[string]string{
			FieldID:            "authors.id",
			FieldName:          "authors.name",
			FieldHandle:        "authors.handle",
			FieldBio:           "authors.bio",
			FieldCreatedAt:     "authors.created_at",
			FieldFollowerCount: "authors.follower_count",
		},
		termColumns: map[string]string{
			FieldName:   "authors.name_folded",
			FieldHandle: "authors.handle",
			FieldBio:    "authors.bio_folded",
		},
	}
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns term into a LIKE pattern matching it literally
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

type Repository struct {
	db *gorm.DB
}

// Ensure Repository implements Store interface
var _ Store = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindContents(ctx context.Context, spec Spec, offset, limit int) ([]models.Content, error) {
	q, err := where(r.db.WithContext(ctx).Model(&models.Content{}), contentTable, spec.Conditions)
	if err != nil {
		return nil, err
	}
	if q, err = orderBy(q, contentTable.columns, spec.Order); err != nil {
		return nil, err
	}

	var contents []models.Content
	err = q.Preload("Tags", func(db *gorm.DB) *gorm.DB {
		return db.Order("content_tags.id ASC")
	}).
		Preload("Author").
		Offset(offset).
		Limit(limit).
		Find(&contents).Error
	if err != nil {
		return nil, apperrors.DatabaseError("find contents", err)
	}
	return contents, nil
}

func (r *Repository) CountContents(ctx context.Context, spec Spec) (int64, error) {
	q, err := where(r.db.WithContext(ctx).Model(&models.Content{}), contentTable, spec.Conditions)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, apperrors.DatabaseError("count contents", err)
	}
	return n, nil
}

func (r *Repository) FindAuthors(ctx context.Context, spec Spec, offset, limit int) ([]models.Author, error) {
	q, err := where(r.db.WithContext(ctx).Model(&models.Author{}), authorTable, spec.Conditions)
	if err != nil {
		return nil, err
	}
	if q, err = orderBy(q, authorTable.columns, spec.Order); err != nil {
		return nil, err
	}

	var authors []models.Author
	if err := q.Offset(offset).Limit(limit).Find(&authors).Error; err != nil {
		return nil, apperrors.DatabaseError("find authors", err)
	}
	return authors, nil
}

func (r *Repository) CountAuthors(ctx context.Context, spec Spec) (int64, error) {
	q, err := where(r.db.WithContext(ctx).Model(&models.Author{}), authorTable, spec.Conditions)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, apperrors.DatabaseError("count authors", err)
	}
	return n, nil
}

// CategoryFacets groups matching contents by category. Uncategorised
// records are left out. Ties are ordered by value.
func (r *Repository) CategoryFacets(ctx context.Context, spec Spec, limit int) ([]Facet, error) {
	q, err := where(r.db.WithContext(ctx).Model(&models.Content{}), contentTable, spec.Conditions)
	if err != nil {
		return nil, err
	}
	q = q.Select("contents.category AS value, COUNT(*) AS count").
		Where("contents.category <> ''").
		Group("contents.category").
		Order("count DESC, value ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	facets := []Facet{}
	if err := q.Scan(&facets).Error; err != nil {
		return nil, apperrors.DatabaseError("category facets", err)
	}
	return facets, nil
}

// TagFacets groups matching contents by tag. A record contributes once
// per tag it carries.
func (r *Repository) TagFacets(ctx context.Context, spec Spec, limit int) ([]Facet, error) {
	q := r.db.WithContext(ctx).
		Table("content_tags").
		Joins("JOIN contents ON contents.id = content_tags.content_id AND contents.deleted_at IS NULL")
	q, err := where(q, contentTable, spec.Conditions)
	if err != nil {
		return nil, err
	}
	q = q.Select("content_tags.tag AS value, COUNT(*) AS count").
		Group("content_tags.tag").
		Order("count DESC, value ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	facets := []Facet{}
	if err := q.Scan(&facets).Error; err != nil {
		return nil, apperrors.DatabaseError("tag facets", err)
	}
	return facets, nil
}

// where ANDs every condition onto q. Tag conditions are only meaningful
// for tagged tables.
func where(q *gorm.DB, t table, conds []Condition) (*gorm.DB, error) {
	for _, c := range conds {
		switch c := c.(type) {
		case AnyOf:
			if c.Term == "" || len(c.Fields) == 0 {
				continue
			}
			pattern := containsPattern(textutil.Fold(c.Term))
			clauses := make([]string, 0, len(c.Fields))
			args := make([]any, 0, len(c.Fields))
			for _, f := range c.Fields {
				if f == FieldTags && t.tagged {
					clauses = append(clauses, tagContainsClause)
					args = append(args, pattern)
					continue
				}
				col, ok := t.termColumns[f]
				if !ok {
					return nil, unsupportedField(f)
				}
				clauses = append(clauses, col+` LIKE ? ESCAPE '\'`)
				args = append(args, pattern)
			}
			q = q.Where("("+strings.Join(clauses, " OR ")+")", args...)

		case Equals:
			col, ok := t.columns[c.Field]
			if !ok {
				return nil, unsupportedField(c.Field)
			}
			q = q.Where(col+" = ?", c.Value)

		case HasTag:
			if !t.tagged {
				return nil, unsupportedField(FieldTags)
			}
			q = q.Where(tagEqualsClause, c.Tag)

		case Between:
			col, ok := t.columns[c.Field]
			if !ok {
				return nil, unsupportedField(c.Field)
			}
			if c.From != nil {
				q = q.Where(col+" >= ?", *c.From)
			}
			if c.To != nil {
				q = q.Where(col+" <= ?", *c.To)
			}

		default:
			return nil, apperrors.Newf(apperrors.ErrCodeInvalidInput, "unsupported condition %T", c)
		}
	}
	return q, nil
}

func orderBy(q *gorm.DB, columns map[string]string, order []Order) (*gorm.DB, error) {
	for _, o := range order {
		col, ok := columns[o.Field]
		if !ok {
			return nil, unsupportedField(o.Field)
		}
		if o.Desc {
			col += " DESC"
		} else {
			col += " ASC"
		}
		q = q.Order(col)
	}
	return q, nil
}

func unsupportedField(field string) error {
	return apperrors.New(apperrors.ErrCodeInvalidInput, fmt.Sprintf("unsupported field %q", field))
}
