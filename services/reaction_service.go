package services

import (
	"mblog/errors"
	"mblog/models"

	"gorm.io/gorm"
)

type ReactionService struct {
	db *gorm.DB
}

func NewReactionService(db *gorm.DB) *ReactionService {
	return &ReactionService{db: db}
}

// Add records one reaction for the (post, user hash, type) triple and returns
// it together with the post's fresh per-type counts. The composite uniqueness
// constraint is the source of truth for the "already reacted" rule; there is
// no pre-insert existence check to race against.
func (s *ReactionService) Add(postID string, rtype models.ReactionType, userHash, userAgent string) (*models.Reaction, *models.ReactionCounts, error) {
	if !rtype.Valid() {
		return nil, nil, errors.Validation("unknown reaction type %q", string(rtype))
	}
	if userHash == "" {
		return nil, nil, errors.Validation("user hash is required")
	}

	var exists int64
	if err := s.db.Model(&models.Post{}).Where("id = ?", postID).Count(&exists).Error; err != nil {
		return nil, nil, errors.Store("failed to look up post", err)
	}
	if exists == 0 {
		return nil, nil, errors.NotFound("post not found")
	}

	reaction := models.Reaction{
		PostID:    postID,
		Type:      rtype,
		UserHash:  userHash,
		UserAgent: optional(userAgent),
	}
	if err := s.db.Create(&reaction).Error; err != nil {
		return nil, nil, reactionInsertError(err)
	}

	counts, err := s.CountsFor(postID)
	if err != nil {
		return nil, nil, err
	}
	return &reaction, counts, nil
}

// reactionInsertError maps insert failures to domain errors. A post deleted
// after the existence check trips the foreign key; that race degrades to the
// same not-found signal as the fast path.
func reactionInsertError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errors.Conflict("already reacted")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return errors.NotFound("post not found")
	default:
		return errors.Store("failed to add reaction", err)
	}
}

// CountsFor returns the per-type reaction counts for a post. Types nobody has
// used are absent from the map; callers treat missing keys as zero.
func (s *ReactionService) CountsFor(postID string) (*models.ReactionCounts, error) {
	var rows []struct {
		Type  models.ReactionType
		Count int64
	}
	err := s.db.Model(&models.Reaction{}).
		Select("type, COUNT(*) AS count").
		Where("post_id = ?", postID).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Store("failed to count reactions", err)
	}

	counts := models.ReactionCounts{Counts: make(map[models.ReactionType]int64, len(rows))}
	for _, row := range rows {
		counts.Counts[row.Type] = row.Count
		counts.Total += row.Count
	}
	return &counts, nil
}
