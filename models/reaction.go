package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReactionType is the closed set of engagement kinds a reader can register.
type ReactionType string

const (
	ReactionLike ReactionType = "like"
	ReactionLove ReactionType = "love"
	ReactionClap ReactionType = "clap"
	ReactionSave ReactionType = "save"
)

// Valid reports whether t is one of the known reaction types.
func (t ReactionType) Valid() bool {
	switch t {
	case ReactionLike, ReactionLove, ReactionClap, ReactionSave:
		return true
	}
	return false
}

// Reaction records one engagement event. The (PostID, UserHash, Type) triple
// is unique: a pseudonymous user gets at most one reaction of each type per
// post. UserHash is a best-effort dedup signal (client token or hashed
// address), not an authenticated identity.
type Reaction struct {
	ID        string       `json:"id" gorm:"primaryKey;size:36"`
	PostID    string       `json:"post_id" gorm:"size:36;not null;uniqueIndex:idx_reactions_post_user_type"`
	UserHash  string       `json:"user_hash" gorm:"size:64;not null;uniqueIndex:idx_reactions_post_user_type"`
	Type      ReactionType `json:"type" gorm:"size:10;not null;uniqueIndex:idx_reactions_post_user_type"`
	UserAgent *string      `json:"user_agent,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

func (r *Reaction) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

type AddReactionRequest struct {
	PostID   string `json:"post_id" binding:"required"`
	Type     string `json:"type" binding:"required"`
	UserHash string `json:"user_hash"`
}

// ReactionCounts maps each reaction type present on a post to its count.
// Types with zero reactions are absent from the map.
type ReactionCounts struct {
	Counts map[ReactionType]int64 `json:"counts"`
	Total  int64                  `json:"total"`
}
