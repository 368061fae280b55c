package services

import (
	"strings"
	"testing"
	"time"

	"mblog/errors"
	"mblog/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

func tagsPtr(names ...string) *[]string { return &names }

func TestCreatePostDerivesMetricsAndTags(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db)

	post, err := svc.Create(&models.CreatePostRequest{
		Title:     "Counting Words",
		Slug:      "counting-words",
		Content:   strings.TrimSpace(strings.Repeat("word ", 400)),
		Tags:      []string{"Go", "Testing"},
		Published: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 400, post.WordCount)
	assert.Equal(t, 2, post.ReadingTime)
	require.NotNil(t, post.PublishedAt)
	assert.WithinDuration(t, time.Now(), *post.PublishedAt, time.Minute)
	require.Len(t, post.Tags, 2)
}

func TestCreatePostSlugConflict(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db)

	createTestPost(t, svc, "taken", true)

	_, err := svc.Create(&models.CreatePostRequest{
		Title:   "Another",
		Slug:    "taken",
		Content: "content",
	})
	assert.ErrorIs(t, err, errors.ErrConflict)
}

func TestCreateDraftHasNoPublishedAt(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db)

	post := createTestPost(t, svc, "draft", false)
	assert.False(t, post.Published)
	assert.Nil(t, post.PublishedAt)
}

func TestUpdatePublishLifecycle(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db)

	post := createTestPost(t, svc, "lifecycle", false)

	// Publishing a never-published post stamps PublishedAt.
	published, err := svc.Update(post.ID, &models.UpdatePostRequest{Published: boolPtr(true)})
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)
	firstStamp := *published.PublishedAt

	// Unpublishing never clears it.
	unpublished, err := svc.Update(post.ID, &models.UpdatePostRequest{Published: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, unpublished.Published)
	require.NotNil(t, unpublished.PublishedAt)

	// Re-publishing leaves the original stamp untouched.
	republished, err := svc.Update(post.ID, &models.UpdatePostRequest{Published: boolPtr(true)})
	require.NoError(t, err)
	require.NotNil(t, republished.PublishedAt)
	assert.True(t, republished.PublishedAt.Equal(firstStamp))
}

func TestUpdateRecomputesMetricsTogether(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db)

	post := createTestPost(t, svc, "metrics", true)

	updated, err := svc.Update(post.ID, &models.UpdatePostRequest{
		Content: strPtr(strings.TrimSpace(strings.Repeat("word ", 250))),
	})
	require.NoError(t, err)
	assert.Equal(t, 250, updated.WordCount)
	assert.Equal(t, 2, updated.ReadingTime)
}

func TestUpdateReplacesTagSet(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db)

	post := createTestPost(t, svc, "retag", true, "A", "C")

	// Replace with ["A","B"] where A pre-existed and B did not: exactly two
	// associations and exactly one new tag row.
	updated, err := svc.Update(post.ID, &models.UpdatePostRequest{Tags: tagsPtr("A", "B")})
	require.NoError(t, err)
	require.Len(t, updated.Tags, 2)

	names := []string{updated.Tags[0].Name, updated.Tags[1].Name}
	assert.ElementsMatch(t, []string{"A", "B"}, names)

	var tagCount int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&tagCount).Error)
	assert.Equal(t, int64(3), tagCount, "C persists as standing taxonomy")

	// Replace with the empty list removes every association.
	cleared, err := svc.Update(post.ID, &models.UpdatePostRequest{Tags: tagsPtr()})
	require.NoError(t, err)
	assert.Empty(t, cleared.Tags)

	// An absent list leaves associations alone.
	untouched, err := svc.Update(post.ID, &models.UpdatePostRequest{Title: strPtr("New Title")})
	require.NoError(t, err)
	assert.Equal(t, "New Title", untouched.Title)
	assert.Empty(t, untouched.Tags)
}

func TestUpdateNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db)

	_, err := svc.Update("missing-id", &models.UpdatePostRequest{Title: strPtr("x")})
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestDeleteCascadesButSparesTags(t *testing.T) {
	db := setupTestDB(t)
	postSvc := NewPostService(db)
	reactionSvc := NewReactionService(db)

	post := createTestPost(t, postSvc, "doomed", true, "a", "b", "c")
	for i, user := range []string{"u1", "u2", "u3", "u4", "u5"} {
		rtype := []models.ReactionType{models.ReactionLike, models.ReactionLove}[i%2]
		_, _, err := reactionSvc.Add(post.ID, rtype, user, "")
		require.NoError(t, err)
	}

	require.NoError(t, postSvc.Delete(post.ID))

	var reactions, joins, tags int64
	require.NoError(t, db.Model(&models.Reaction{}).Where("post_id = ?", post.ID).Count(&reactions).Error)
	require.NoError(t, db.Model(&models.PostTag{}).Where("post_id = ?", post.ID).Count(&joins).Error)
	require.NoError(t, db.Model(&models.Tag{}).Count(&tags).Error)
	assert.Zero(t, reactions)
	assert.Zero(t, joins)
	assert.Equal(t, int64(3), tags)

	assert.ErrorIs(t, postSvc.Delete(post.ID), errors.ErrNotFound)
}

func TestGetBySlugPublishedGate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db)

	createTestPost(t, svc, "hidden", false)

	_, err := svc.GetBySlug("hidden", true)
	assert.ErrorIs(t, err, errors.ErrNotFound)

	post, err := svc.GetBySlug("hidden", false)
	require.NoError(t, err)
	assert.Equal(t, "hidden", post.Slug)

	_, err = svc.GetBySlug("absent", false)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestListFiltersAndTotal(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db)

	_, err := svc.Create(&models.CreatePostRequest{
		Title: "Go Concurrency Patterns", Slug: "go-concurrency",
		Content: "words", Tags: []string{"go"}, Published: true,
	})
	require.NoError(t, err)
	_, err = svc.Create(&models.CreatePostRequest{
		Title: "Intro to SQL", Slug: "intro-sql", Excerpt: "databases for Go developers",
		Content: "words", Tags: []string{"databases"}, Published: true,
	})
	require.NoError(t, err)
	_, err = svc.Create(&models.CreatePostRequest{
		Title: "Go Draft", Slug: "go-draft",
		Content: "words", Tags: []string{"go"}, Published: false,
	})
	require.NoError(t, err)

	// Drafts never appear.
	page, err := svc.List(&models.ListPostsQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Len(t, page.Posts, 2)

	// Tag filter.
	page, err = svc.List(&models.ListPostsQuery{Tag: "go"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "go-concurrency", page.Posts[0].Slug)

	// Case-insensitive substring search over title or excerpt.
	page, err = svc.List(&models.ListPostsQuery{Search: "DATABASES"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "intro-sql", page.Posts[0].Slug)

	// Conjunction: both filters must match.
	page, err = svc.List(&models.ListPostsQuery{Tag: "go", Search: "databases"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total)
	assert.Empty(t, page.Posts)

	// The total covers the whole filter, not just the page.
	page, err = svc.List(&models.ListPostsQuery{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Len(t, page.Posts, 1)
}

func TestIncrementViews(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db)

	post := createTestPost(t, svc, "counted", true)

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.IncrementViews(post.ID))
	}

	got, err := svc.GetBySlug("counted", true)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Views)

	assert.ErrorIs(t, svc.IncrementViews("missing-id"), errors.ErrNotFound)
}

// TestUpdateLeavesViewCounterAlone injects a view bump between Update's load
// and its write, the ordering a reader hitting the post mid-edit produces.
// The bump must survive the edit rather than be overwritten by the stale
// value read at load time.
func TestUpdateLeavesViewCounterAlone(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db)

	post := createTestPost(t, svc, "edited-under-traffic", true)

	bumped := false
	err := db.Callback().Update().Before("gorm:update").Register("view_bump_midflight", func(tx *gorm.DB) {
		if bumped || tx.Statement.Schema == nil || tx.Statement.Schema.Table != "posts" {
			return
		}
		bumped = true
		_, execErr := tx.Statement.ConnPool.ExecContext(tx.Statement.Context,
			"UPDATE posts SET views = views + 1 WHERE id = ?", post.ID)
		require.NoError(t, execErr)
	})
	require.NoError(t, err)

	updated, err := svc.Update(post.ID, &models.UpdatePostRequest{Title: strPtr("Edited")})
	require.NoError(t, err)
	require.True(t, bumped)

	assert.Equal(t, "Edited", updated.Title)
	assert.Equal(t, int64(1), updated.Views)
}
