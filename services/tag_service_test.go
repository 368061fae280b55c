package services

import (
	"testing"

	"mblog/errors"
	"mblog/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveOrCreateIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTagService(db)

	first, err := svc.ResolveOrCreate("Open Source")
	require.NoError(t, err)
	assert.Equal(t, "Open Source", first.Name)
	assert.Equal(t, "open-source", first.Slug)

	second, err := svc.ResolveOrCreate("Open Source")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "no second row may be created")
}

func TestResolveOrCreateDistinguishesExactNames(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTagService(db)

	lower, err := svc.ResolveOrCreate("golang")
	require.NoError(t, err)
	// Name identity is the exact case-sensitive value; "Golang" is a
	// different tag but collides on the derived slug.
	_, err = svc.ResolveOrCreate("Golang")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrConflict)
	assert.NotEmpty(t, lower.ID)
}

func TestResolveOrCreateValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTagService(db)

	_, err := svc.ResolveOrCreate("   ")
	assert.ErrorIs(t, err, errors.ErrValidation)

	_, err = svc.ResolveOrCreate("!!!")
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestCreateTagConflict(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTagService(db)

	tag, err := svc.Create(&models.CreateTagRequest{Name: "Technology", Color: "#3B82F6"})
	require.NoError(t, err)
	assert.Equal(t, "technology", tag.Slug)
	require.NotNil(t, tag.Color)
	assert.Equal(t, "#3B82F6", *tag.Color)

	_, err = svc.Create(&models.CreateTagRequest{Name: "Technology"})
	assert.ErrorIs(t, err, errors.ErrConflict)
}

func TestListTagsByPopularity(t *testing.T) {
	db := setupTestDB(t)
	tagSvc := NewTagService(db)
	postSvc := NewPostService(db)

	createTestPost(t, postSvc, "first", true, "go", "web")
	createTestPost(t, postSvc, "second", true, "go")
	createTestPost(t, postSvc, "third", true, "go", "design")

	tags, err := tagSvc.List(true, 0)
	require.NoError(t, err)
	require.Len(t, tags, 3)
	assert.Equal(t, "go", tags[0].Name)
	assert.Equal(t, int64(3), tags[0].PostCount)
	assert.Equal(t, int64(1), tags[1].PostCount)

	byName, err := tagSvc.List(false, 0)
	require.NoError(t, err)
	assert.Equal(t, "design", byName[0].Name)
	assert.Equal(t, "go", byName[1].Name)
	assert.Equal(t, "web", byName[2].Name)

	limited, err := tagSvc.List(true, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
