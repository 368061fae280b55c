package main

import (
	"log"

	"mblog/config"
	"mblog/controllers"
	"mblog/database"
	"mblog/middleware"
	"mblog/routes"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Minimalist Blog API
// @version 1.0
// @description Content publishing platform: posts, tags, reactions, and engagement statistics.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the admin token.

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg := config.Load()

	db := database.Connect(cfg)
	database.Migrate(db)

	r := gin.Default()

	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.Logger())

	postController := controllers.NewPostController(db)
	tagController := controllers.NewTagController(db)
	reactionController := controllers.NewReactionController(db)
	statsController := controllers.NewStatsController(db)

	routes.SetupRoutes(r, cfg, postController, tagController, reactionController, statsController)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		// log.Fatal exits without running defers, so close the store first.
		database.Close(db)
		log.Fatal("Failed to start server:", err)
	}
	database.Close(db)
}
