package services

import (
	"strings"

	"mblog/errors"
	"mblog/models"
	"mblog/utils"

	"gorm.io/gorm"
)

const maxTagNameLength = 50

type TagService struct {
	db *gorm.DB
}

func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

// ResolveOrCreate returns the tag with exactly the given name, creating it
// with a derived slug when it does not exist yet. The call is idempotent:
// repeated calls with the same name yield the same row. Concurrent creators
// race on the name uniqueness constraint; the loser re-fetches the winner's
// row instead of surfacing the conflict.
func (s *TagService) ResolveOrCreate(name string) (*models.Tag, error) {
	return resolveOrCreateTag(s.db, name)
}

// Create is the explicit creation path. Unlike ResolveOrCreate it fails with
// a conflict when the name is already taken.
func (s *TagService) Create(req *models.CreateTagRequest) (*models.Tag, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errors.Validation("tag name is required")
	}
	if len(name) > maxTagNameLength {
		return nil, errors.Validation("tag name must be at most %d characters", maxTagNameLength)
	}

	slug := utils.Slugify(name)
	if slug == "" {
		return nil, errors.Validation("tag name %q has no usable characters", name)
	}

	tag := models.Tag{
		Name:        name,
		Slug:        slug,
		Description: optional(req.Description),
		Color:       optional(req.Color),
	}
	if err := s.db.Create(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.Conflict("tag %q already exists", name)
		}
		return nil, errors.Store("failed to create tag", err)
	}
	return &tag, nil
}

// List returns tags ordered alphabetically, or by descending post count when
// popular is set. PostCount comes from a correlated subquery on the join
// table, so each post is counted once per tag.
func (s *TagService) List(popular bool, limit int) ([]models.Tag, error) {
	q := s.db.Model(&models.Tag{}).
		Select("tags.*, (SELECT COUNT(*) FROM post_tags WHERE post_tags.tag_id = tags.id) AS post_count")
	if popular {
		q = q.Order("post_count DESC").Order("name ASC")
	} else {
		q = q.Order("name ASC")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var tags []models.Tag
	if err := q.Find(&tags).Error; err != nil {
		return nil, errors.Store("failed to list tags", err)
	}
	return tags, nil
}

// resolveOrCreateTag implements get-or-create keyed on the exact name. It
// accepts either the service handle or an open transaction, so post writes
// can resolve tags inside their own transaction. The create runs in a nested
// transaction (a savepoint when db is already transactional) so a duplicate
// key error does not poison the caller's transaction before the re-fetch.
func resolveOrCreateTag(db *gorm.DB, name string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.Validation("tag name is required")
	}
	if len(name) > maxTagNameLength {
		return nil, errors.Validation("tag name must be at most %d characters", maxTagNameLength)
	}

	var tag models.Tag
	err := db.Where("name = ?", name).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Store("failed to look up tag", err)
	}

	slug := utils.Slugify(name)
	if slug == "" {
		return nil, errors.Validation("tag name %q has no usable characters", name)
	}

	tag = models.Tag{Name: name, Slug: slug}
	createErr := db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&tag).Error
	})
	if createErr == nil {
		return &tag, nil
	}
	if !errors.Is(createErr, gorm.ErrDuplicatedKey) {
		return nil, errors.Store("failed to create tag", createErr)
	}

	// Lost the race on the name constraint: the winner's row is our tag.
	if err := db.Where("name = ?", name).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The collision was on the derived slug, not the name.
			return nil, errors.Conflict("tag slug %q is already in use", slug)
		}
		return nil, errors.Store("failed to look up tag", err)
	}
	return &tag, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
