package routes

import (
	"net/http"

	"mblog/config"
	"mblog/controllers"
	"mblog/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	r *gin.Engine,
	cfg *config.Config,
	postController *controllers.PostController,
	tagController *controllers.TagController,
	reactionController *controllers.ReactionController,
	statsController *controllers.StatsController,
) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	admin := middleware.AdminRequired(cfg.AdminToken)

	api := r.Group("/api/v1")
	{
		posts := api.Group("/posts")
		{
			posts.GET("", postController.GetPosts)
			posts.GET("/:slug", postController.GetPost)
			posts.POST("", admin, postController.CreatePost)
		}

		// Id-keyed admin operations live under /drafts, covering drafts and
		// published posts alike.
		drafts := api.Group("/drafts")
		drafts.Use(admin)
		{
			drafts.GET("", postController.GetDrafts)
			drafts.PUT("/:id", postController.UpdatePost)
			drafts.DELETE("/:id", postController.DeletePost)
		}

		tags := api.Group("/tags")
		{
			tags.GET("", tagController.GetTags)
			tags.POST("", admin, tagController.CreateTag)
		}

		reactions := api.Group("/reactions")
		{
			reactions.POST("", reactionController.AddReaction)
			reactions.GET("", reactionController.GetReactions)
		}

		api.GET("/search", statsController.Search)
		api.GET("/stats", statsController.GetStats)
		api.GET("/archive", statsController.GetArchive)
	}
}
