package services

import (
	"strings"
	"time"

	"mblog/errors"
	"mblog/models"
	"mblog/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

type PostService struct {
	db *gorm.DB
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db}
}

// Create stores a new post with derived metrics and resolved tags. The post
// insert and the tag associations commit together, so readers never see a
// half-created post.
func (s *PostService) Create(req *models.CreatePostRequest) (*models.Post, error) {
	wordCount, readingTime := utils.ContentMetrics(req.Content)

	post := models.Post{
		Slug:        req.Slug,
		Title:       req.Title,
		Excerpt:     optional(req.Excerpt),
		Content:     req.Content,
		CoverImage:  optional(req.CoverImage),
		Published:   req.Published,
		WordCount:   wordCount,
		ReadingTime: readingTime,
	}
	if req.Published {
		now := time.Now()
		post.PublishedAt = &now
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		tags, err := resolveTags(tx, req.Tags)
		if err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errors.Conflict("slug %q is already taken", req.Slug)
			}
			return errors.Store("failed to create post", err)
		}
		return createPostTags(tx, post.ID, tags)
	})
	if err != nil {
		return nil, err
	}

	return s.getByID(post.ID)
}

// Update applies only the supplied fields. A supplied tag list replaces the
// entire association set; the delete and recreate of join rows happen in one
// transaction with the field update, so a concurrent reader never observes
// the post with its tags half-replaced.
func (s *PostService) Update(id string, req *models.UpdatePostRequest) (*models.Post, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Where("id = ?", id).First(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.NotFound("post not found")
			}
			return errors.Store("failed to load post", err)
		}

		if req.Title != nil {
			post.Title = *req.Title
		}
		if req.Excerpt != nil {
			post.Excerpt = optional(*req.Excerpt)
		}
		if req.CoverImage != nil {
			post.CoverImage = optional(*req.CoverImage)
		}
		if req.Content != nil {
			// Both metrics come from the same content snapshot.
			post.Content = *req.Content
			post.WordCount, post.ReadingTime = utils.ContentMetrics(post.Content)
		}
		if req.Published != nil {
			// PublishedAt is stamped once, on the first transition to
			// published, and survives unpublish/republish cycles.
			if *req.Published && post.PublishedAt == nil {
				now := time.Now()
				post.PublishedAt = &now
			}
			post.Published = *req.Published
		}

		// The view counter belongs to IncrementViews alone; writing the
		// value read at load time would rewind bumps that landed since.
		if err := tx.Omit(clause.Associations, "views").Save(&post).Error; err != nil {
			return errors.Store("failed to update post", err)
		}

		if req.Tags != nil {
			tags, err := resolveTags(tx, *req.Tags)
			if err != nil {
				return err
			}
			if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostTag{}).Error; err != nil {
				return errors.Store("failed to clear post tags", err)
			}
			if err := createPostTags(tx, post.ID, tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.getByID(id)
}

// Delete removes the post together with its reactions and join rows. Tags
// referenced by the post are left standing.
func (s *PostService) Delete(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Where("id = ?", id).First(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.NotFound("post not found")
			}
			return errors.Store("failed to load post", err)
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Reaction{}).Error; err != nil {
			return errors.Store("failed to delete reactions", err)
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostTag{}).Error; err != nil {
			return errors.Store("failed to delete post tags", err)
		}
		if err := tx.Delete(&post).Error; err != nil {
			return errors.Store("failed to delete post", err)
		}
		return nil
	})
}

// GetBySlug fetches a post with its tags resolved. With requirePublished set,
// drafts are reported as not found.
func (s *PostService) GetBySlug(slug string, requirePublished bool) (*models.Post, error) {
	q := s.db.Preload("Tags").Where("slug = ?", slug)
	if requirePublished {
		q = q.Where("published = ?", true)
	}

	var post models.Post
	if err := q.First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("post not found")
		}
		return nil, errors.Store("failed to load post", err)
	}
	return &post, nil
}

// List returns a page of published posts ordered by publish date descending.
// Tag and search filters are a conjunction, and the total is counted under
// the same filter as the page.
func (s *PostService) List(q *models.ListPostsQuery) (*models.PostPage, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	filtered := func() *gorm.DB {
		tx := s.db.Model(&models.Post{}).Where("posts.published = ?", true)
		if q.Tag != "" {
			tx = tx.Joins("JOIN post_tags ON post_tags.post_id = posts.id").
				Joins("JOIN tags ON tags.id = post_tags.tag_id").
				Where("tags.slug = ?", q.Tag)
		}
		if q.Search != "" {
			pattern := "%" + strings.ToLower(q.Search) + "%"
			tx = tx.Where("LOWER(posts.title) LIKE ? OR LOWER(COALESCE(posts.excerpt, '')) LIKE ?", pattern, pattern)
		}
		return tx
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, errors.Store("failed to count posts", err)
	}

	var posts []models.Post
	err := filtered().
		Preload("Tags").
		Order("posts.published_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, errors.Store("failed to list posts", err)
	}

	return &models.PostPage{
		Posts:  posts,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}

// ListAll returns every post including drafts, newest first.
func (s *PostService) ListAll() ([]models.Post, error) {
	var posts []models.Post
	err := s.db.Preload("Tags").Order("created_at DESC").Find(&posts).Error
	if err != nil {
		return nil, errors.Store("failed to list posts", err)
	}
	return posts, nil
}

// IncrementViews bumps the view counter with a single atomic UPDATE, so
// concurrent increments on the same post never lose updates.
func (s *PostService) IncrementViews(id string) error {
	res := s.db.Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return errors.Store("failed to increment views", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.NotFound("post not found")
	}
	return nil
}

func (s *PostService) getByID(id string) (*models.Post, error) {
	var post models.Post
	if err := s.db.Preload("Tags").Where("id = ?", id).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("post not found")
		}
		return nil, errors.Store("failed to load post", err)
	}
	return &post, nil
}

// resolveTags resolves each distinct name through the tag get-or-create
// path. Duplicate names in the input collapse to a single association.
func resolveTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	seen := make(map[string]struct{}, len(names))
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		tag, err := resolveOrCreateTag(tx, name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}

func createPostTags(tx *gorm.DB, postID string, tags []models.Tag) error {
	for _, tag := range tags {
		join := models.PostTag{PostID: postID, TagID: tag.ID}
		if err := tx.Create(&join).Error; err != nil {
			return errors.Store("failed to associate tag", err)
		}
	}
	return nil
}
