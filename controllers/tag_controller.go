package controllers

import (
	"net/http"

	"mblog/models"
	"mblog/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TagController struct {
	tagService *services.TagService
}

func NewTagController(db *gorm.DB) *TagController {
	return &TagController{
		tagService: services.NewTagService(db),
	}
}

func (tc *TagController) GetTags(c *gin.Context) {
	var query models.ListTagsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tags, err := tc.tagService.List(query.Popular, query.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": tags})
}

func (tc *TagController) CreateTag(c *gin.Context) {
	var req models.CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tag, err := tc.tagService.Create(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": tag})
}
