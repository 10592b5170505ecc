// Package seed imports authors and posts from a JSON fixture file.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/killallgit/blog-discovery-api/internal/models"
	apperrors "github.com/killallgit/blog-discovery-api/pkg/errors"
	"github.com/killallgit/blog-discovery-api/pkg/logger"
	"github.com/killallgit/blog-discovery-api/pkg/textutil"
	"gorm.io/gorm"
)

// Fixture is the file format accepted by Load
type Fixture struct {
	Authors  []Author  `json:"authors" validate:"dive"`
	Contents []Content `json:"contents" validate:"dive"`
}

// Author is one author entry of a fixture
type Author struct {
	Name          string `json:"name" validate:"required"`
	Handle        string `json:"handle" validate:"required,handle"`
	Bio           string `json:"bio"`
	AvatarURL     string `json:"avatarUrl" validate:"omitempty,url"`
	FollowerCount int64  `json:"followerCount" validate:"min=0"`
}

// Content is one post entry of a fixture. AuthorHandle must name an author
// from the same fixture or one already stored.
type Content struct {
	Title        string     `json:"title" validate:"required"`
	Body         string     `json:"body"`
	Category     string     `json:"category" validate:"category"`
	Tags         []string   `json:"tags"`
	AuthorHandle string     `json:"authorHandle" validate:"required"`
	Status       string     `json:"status" validate:"omitempty,oneof=draft published"`
	ViewCount    int64      `json:"viewCount" validate:"min=0"`
	LikeCount    int64      `json:"likeCount" validate:"min=0"`
	CreatedAt    *time.Time `json:"createdAt"`
}

// Result summarizes one import
type Result struct {
	AuthorsCreated  int
	AuthorsExisting int
	Contents        int
	Tags            int
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json names in errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return models.IsValidCategory(fl.Field().String())
	})
	_ = v.RegisterValidation("handle", func(fl validator.FieldLevel) bool {
		return models.IsValidHandle(fl.Field().String())
	})
	return v
}

// Load decodes and validates a fixture. Unknown fields are rejected.
func Load(r io.Reader) (*Fixture, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var f Fixture
	if err := dec.Decode(&f); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInvalidInput, "malformed fixture")
	}
	if err := validate.Struct(&f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return nil, apperrors.ValidationError(fe.Namespace(), fmt.Sprintf("failed on '%s'", fe.Tag()))
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid fixture")
	}
	return &f, nil
}

// Import stores f in a single transaction. Authors are matched by handle,
// so importing the same fixture twice adds its posts again but never
// duplicates authors.
func Import(ctx context.Context, db *gorm.DB, f *Fixture) (Result, error) {
	var res Result
	log := logger.C(ctx, logger.Named("seed"))

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make(map[string]uint, len(f.Authors))

		for _, a := range f.Authors {
			var existing models.Author
			found := tx.Where(models.Author{Handle: a.Handle}).Limit(1).Find(&existing)
			if found.Error != nil {
				return apperrors.DatabaseError("find author", found.Error)
			}
			if found.RowsAffected > 0 {
				ids[a.Handle] = existing.ID
				res.AuthorsExisting++
				continue
			}

			author := models.Author{
				Name:          strings.TrimSpace(a.Name),
				Handle:        a.Handle,
				Bio:           a.Bio,
				AvatarURL:     a.AvatarURL,
				FollowerCount: a.FollowerCount,
			}
			if err := tx.Create(&author).Error; err != nil {
				return apperrors.DatabaseError("create author", err)
			}
			ids[a.Handle] = author.ID
			res.AuthorsCreated++
		}

		for i, c := range f.Contents {
			authorID, ok := ids[c.AuthorHandle]
			if !ok {
				var existing models.Author
				found := tx.Where(models.Author{Handle: c.AuthorHandle}).Limit(1).Find(&existing)
				if found.Error != nil {
					return apperrors.DatabaseError("find author", found.Error)
				}
				if found.RowsAffected == 0 {
					return apperrors.ValidationError(fmt.Sprintf("contents[%d].authorHandle", i), "unknown author "+c.AuthorHandle)
				}
				authorID = existing.ID
				ids[c.AuthorHandle] = authorID
			}

			content := models.Content{
				Title:     strings.TrimSpace(c.Title),
				Body:      c.Body,
				Category:  c.Category,
				AuthorID:  authorID,
				Status:    c.Status,
				ViewCount: c.ViewCount,
				LikeCount: c.LikeCount,
			}
			if content.Status == "" {
				content.Status = models.StatusPublished
			}
			if c.CreatedAt != nil {
				content.CreatedAt = c.CreatedAt.UTC()
			}
			for _, tag := range textutil.NormalizeTags(c.Tags) {
				content.Tags = append(content.Tags, models.ContentTag{Tag: tag})
			}

			if err := tx.Create(&content).Error; err != nil {
				return apperrors.DatabaseError("create content", err)
			}
			if err := tx.Model(&models.Author{}).Where("id = ?", authorID).
				UpdateColumn("content_count", gorm.Expr("content_count + 1")).Error; err != nil {
				return apperrors.DatabaseError("update author", err)
			}
			res.Contents++
			res.Tags += len(content.Tags)
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	log.Info().
		Int("authors_created", res.AuthorsCreated).
		Int("authors_existing", res.AuthorsExisting).
		Int("contents", res.Contents).
		Int("tags", res.Tags).
		Msg("fixture imported")
	return res, nil
}
