package services

import (
	"testing"

	"mblog/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an isolated in-memory database with the production
// schema. TranslateError matches the real connection so constraint
// violations surface the same way.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A pooled second connection would see a different in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.SetupJoinTable(&models.Post{}, "Tags", &models.PostTag{}))
	require.NoError(t, db.AutoMigrate(&models.Tag{}, &models.Post{}, &models.Reaction{}))
	return db
}

func createTestPost(t *testing.T, svc *PostService, slug string, published bool, tags ...string) *models.Post {
	t.Helper()

	post, err := svc.Create(&models.CreatePostRequest{
		Title:     "Post " + slug,
		Slug:      slug,
		Content:   "some words of content here",
		Tags:      tags,
		Published: published,
	})
	require.NoError(t, err)
	return post
}
