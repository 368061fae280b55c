package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Post struct {
	ID          string     `json:"id" gorm:"primaryKey;size:36"`
	Slug        string     `json:"slug" gorm:"uniqueIndex;size:200;not null"`
	Title       string     `json:"title" gorm:"size:200;not null"`
	Excerpt     *string    `json:"excerpt,omitempty" gorm:"size:300"`
	Content     string     `json:"content" gorm:"type:text;not null"`
	CoverImage  *string    `json:"cover_image,omitempty"`
	Published   bool       `json:"published" gorm:"not null;default:false;index"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	WordCount   int        `json:"word_count" gorm:"not null;default:0"`
	ReadingTime int        `json:"reading_time" gorm:"not null;default:0"`
	Views       int64      `json:"views" gorm:"not null;default:0"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Tags        []Tag      `json:"tags" gorm:"many2many:post_tags;"`
	Reactions   []Reaction `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// PostTag is the explicit join row binding a post to a tag. Join rows are
// owned by their post and removed with it; tags themselves are never deleted
// through this association.
type PostTag struct {
	PostID    string    `json:"post_id" gorm:"primaryKey;size:36"`
	TagID     string    `json:"tag_id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time `json:"created_at"`
}

type CreatePostRequest struct {
	Title      string   `json:"title" binding:"required,min=1,max=200"`
	Slug       string   `json:"slug" binding:"required,min=1,max=200"`
	Excerpt    string   `json:"excerpt" binding:"omitempty,max=300"`
	Content    string   `json:"content" binding:"required"`
	CoverImage string   `json:"cover_image" binding:"omitempty,url"`
	Tags       []string `json:"tags"`
	Published  bool     `json:"published"`
}

// UpdatePostRequest carries a partial update; nil fields are left untouched.
// Tags is a pointer so an absent list (keep associations) can be told apart
// from an empty list (remove all associations).
type UpdatePostRequest struct {
	Title      *string   `json:"title" binding:"omitempty,min=1,max=200"`
	Excerpt    *string   `json:"excerpt" binding:"omitempty,max=300"`
	Content    *string   `json:"content" binding:"omitempty,min=1"`
	CoverImage *string   `json:"cover_image" binding:"omitempty,url"`
	Tags       *[]string `json:"tags"`
	Published  *bool     `json:"published"`
}

type ListPostsQuery struct {
	Slug   string `form:"slug"`
	Tag    string `form:"tag"`
	Search string `form:"search"`
	Limit  int    `form:"limit,default=10" binding:"omitempty,min=1,max=50"`
	Offset int    `form:"offset" binding:"omitempty,min=0"`
}

// PostPage is one page of a filtered listing plus the total number of posts
// matching the same filter, for pagination UIs.
type PostPage struct {
	Posts  []Post `json:"posts"`
	Total  int64  `json:"total"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}
