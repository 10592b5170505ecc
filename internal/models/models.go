package models

import (
	"regexp"

	"github.com/killallgit/blog-discovery-api/pkg/textutil"
	"gorm.io/gorm"
)

// Content statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Categories is the closed set a Content category is drawn from
var Categories = []string{
	"Technology",
	"Programming",
	"AI",
	"Design",
	"Business",
	"Lifestyle",
	"Science",
	"Health",
	"Travel",
	"Other",
}

var handlePattern = regexp.MustCompile(`^[a-z0-9_-]{3,30}$`)

// Content represents a blog post
type Content struct {
	gorm.Model
	Title     string       `json:"title" gorm:"not null"`
	Body      string       `json:"body" gorm:"type:text"`
	Category  string       `json:"category" gorm:"index"`
	Tags      []ContentTag `json:"tags,omitempty" gorm:"foreignKey:ContentID;constraint:OnDelete:CASCADE"`
	AuthorID  uint         `json:"author_id" gorm:"not null;index"`
	Author    Author       `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Status    string       `json:"status" gorm:"not null;default:draft;index"`
	ViewCount int64        `json:"view_count" gorm:"not null;default:0"`
	LikeCount int64        `json:"like_count" gorm:"not null;default:0"`

	// case-folded copies matched by free-text search
	TitleFolded string `json:"-" gorm:"not null;default:''"`
	BodyFolded  string `json:"-" gorm:"type:text;not null;default:''"`
}

// ContentTag is one tag on one Content record. Tags are stored
// case-folded, one row per tag, so grouping by tag explodes tag sets.
type ContentTag struct {
	ID        uint   `json:"-" gorm:"primarykey"`
	ContentID uint   `json:"-" gorm:"not null;uniqueIndex:idx_content_tag"`
	Tag       string `json:"tag" gorm:"not null;uniqueIndex:idx_content_tag;index"`
}

// Author represents a user able to author Content
type Author struct {
	gorm.Model
	Name           string `json:"name" gorm:"not null"`
	Handle         string `json:"handle" gorm:"uniqueIndex;not null"`
	Bio            string `json:"bio"`
	AvatarURL      string `json:"avatar_url"`
	FollowerCount  int64  `json:"follower_count" gorm:"not null;default:0"`
	FollowingCount int64  `json:"following_count" gorm:"not null;default:0"`
	ContentCount   int64  `json:"content_count" gorm:"not null;default:0"`

	NameFolded string `json:"-" gorm:"not null;default:''"`
	BioFolded  string `json:"-" gorm:"not null;default:''"`
}

// BeforeSave keeps the folded copies in step with the text they shadow
func (c *Content) BeforeSave(*gorm.DB) error {
	c.TitleFolded = textutil.Fold(c.Title)
	c.BodyFolded = textutil.Fold(c.Body)
	return nil
}

// BeforeSave keeps the folded copies in step with the text they shadow
func (a *Author) BeforeSave(*gorm.DB) error {
	a.NameFolded = textutil.Fold(a.Name)
	a.BioFolded = textutil.Fold(a.Bio)
	return nil
}

// BackfillFolded fills the folded copies of rows written before the
// columns existed. Rows that already carry them are left alone.
func BackfillFolded(db *gorm.DB) error {
	var contents []Content
	err := db.Select("id", "title", "body").
		Where("title_folded = '' AND (title <> '' OR body <> '')").
		Find(&contents).Error
	if err != nil {
		return err
	}
	for _, c := range contents {
		err := db.Model(&Content{}).Where("id = ?", c.ID).UpdateColumns(map[string]any{
			"title_folded": textutil.Fold(c.Title),
			"body_folded":  textutil.Fold(c.Body),
		}).Error
		if err != nil {
			return err
		}
	}

	var authors []Author
	err = db.Select("id", "name", "bio").
		Where("name_folded = '' AND (name <> '' OR bio <> '')").
		Find(&authors).Error
	if err != nil {
		return err
	}
	for _, a := range authors {
		err := db.Model(&Author{}).Where("id = ?", a.ID).UpdateColumns(map[string]any{
			"name_folded": textutil.Fold(a.Name),
			"bio_folded":  textutil.Fold(a.Bio),
		}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// TagValues returns the plain tag strings of c
func (c *Content) TagValues() []string {
	out := make([]string, 0, len(c.Tags))
	for _, t := range c.Tags {
		out = append(out, t.Tag)
	}
	return out
}

// IsValidCategory reports whether category belongs to the closed set.
// An empty category is allowed.
func IsValidCategory(category string) bool {
	if category == "" {
		return true
	}
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// IsValidHandle reports whether handle is URL-safe
func IsValidHandle(handle string) bool {
	return handlePattern.MatchString(handle)
}

// All returns every model for auto-migration
func All() []any {
	return []any{&Author{}, &Content{}, &ContentTag{}}
}
