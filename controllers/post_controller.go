package controllers

import (
	"log"
	"net/http"

	"mblog/errors"
	"mblog/markdown"
	"mblog/models"
	"mblog/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PostController struct {
	postService *services.PostService
	renderer    *markdown.Renderer
}

func NewPostController(db *gorm.DB) *PostController {
	return &PostController{
		postService: services.NewPostService(db),
		renderer:    markdown.NewRenderer(),
	}
}

// GetPosts serves the published listing with optional tag and search filters.
// With ?slug= it degrades to the single-post fetch, mirroring GetPost.
func (pc *PostController) GetPosts(c *gin.Context) {
	var query models.ListPostsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if query.Slug != "" {
		pc.respondSinglePost(c, query.Slug)
		return
	}

	page, err := pc.postService.List(&query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": page})
}

// GetPost serves a single published post by slug, with rendered HTML.
func (pc *PostController) GetPost(c *gin.Context) {
	pc.respondSinglePost(c, c.Param("slug"))
}

func (pc *PostController) respondSinglePost(c *gin.Context, slug string) {
	post, err := pc.postService.GetBySlug(slug, true)
	if err != nil {
		respondError(c, err)
		return
	}

	// A fetch counts as a view. The increment is atomic at the store, so a
	// failure here is logged rather than failing the read.
	if err := pc.postService.IncrementViews(post.ID); err != nil {
		log.Printf("Failed to increment views for %s: %v", post.ID, err)
	} else {
		post.Views++
	}

	html, err := pc.renderer.Render(post.Content)
	if err != nil {
		respondError(c, errors.Store("failed to render content", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": post, "html": html})
}

func (pc *PostController) CreatePost(c *gin.Context) {
	var req models.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := pc.postService.Create(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": post})
}

func (pc *PostController) UpdatePost(c *gin.Context) {
	var req models.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := pc.postService.Update(c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": post})
}

func (pc *PostController) DeletePost(c *gin.Context) {
	if err := pc.postService.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// GetDrafts lists every post including unpublished drafts, for the admin
// editing surface.
func (pc *PostController) GetDrafts(c *gin.Context) {
	posts, err := pc.postService.ListAll()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": posts})
}
