package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Tag struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" gorm:"uniqueIndex;size:50;not null"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;size:50;not null"`
	Description *string   `json:"description,omitempty" gorm:"size:200"`
	Color       *string   `json:"color,omitempty" gorm:"size:20"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// PostCount is filled by aggregation queries; it is not a column.
	PostCount int64 `json:"post_count" gorm:"->;-:migration"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

type CreateTagRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=50"`
	Description string `json:"description" binding:"omitempty,max=200"`
	Color       string `json:"color" binding:"omitempty,max=20"`
}

type ListTagsQuery struct {
	Popular bool `form:"popular"`
	Limit   int  `form:"limit,default=50" binding:"omitempty,min=1,max=200"`
}
