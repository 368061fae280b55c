package controllers

import (
	"net/http"

	"mblog/models"
	"mblog/services"
	"mblog/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ReactionController struct {
	reactionService *services.ReactionService
}

func NewReactionController(db *gorm.DB) *ReactionController {
	return &ReactionController{
		reactionService: services.NewReactionService(db),
	}
}

// AddReaction records an engagement event. The pseudonymous user identity is
// the client-supplied hash when present, otherwise a hash of the client
// address.
func (rc *ReactionController) AddReaction(c *gin.Context) {
	var req models.AddReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userHash := req.UserHash
	if userHash == "" {
		userHash = utils.HashVisitor(c.ClientIP())
	}

	reaction, counts, err := rc.reactionService.Add(
		req.PostID,
		models.ReactionType(req.Type),
		userHash,
		c.Request.UserAgent(),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":   reaction,
		"counts": counts.Counts,
		"total":  counts.Total,
	})
}

// GetReactions returns the per-type reaction counts for a post.
func (rc *ReactionController) GetReactions(c *gin.Context) {
	postID := c.Query("postId")
	if postID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "postId is required"})
		return
	}

	counts, err := rc.reactionService.CountsFor(postID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"counts": counts.Counts,
		"total":  counts.Total,
	})
}
