package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tastebase/recipe-api/internal/dto"
	"github.com/tastebase/recipe-api/internal/models"
)

func TestTagListScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTagService(db)
	user := createUser(t, db, "a@example.com")
	other := createUser(t, db, "b@example.com")

	createTag(t, db, user, "Vegan")
	createTag(t, db, other, "Dessert")

	tags, err := svc.List(user.ID, false)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "Vegan", tags[0].Name)
}

func TestTagListOrderedByNameDesc(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTagService(db)
	user := createUser(t, db, "a@example.com")

	createTag(t, db, user, "Breakfast")
	createTag(t, db, user, "Vegan")
	createTag(t, db, user, "Dessert")

	tags, err := svc.List(user.ID, false)
	require.NoError(t, err)
	require.Len(t, tags, 3)
	assert.Equal(t, "Vegan", tags[0].Name)
	assert.Equal(t, "Dessert", tags[1].Name)
	assert.Equal(t, "Breakfast", tags[2].Name)
}

func TestTagListAssignedOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTagService(db)
	user := createUser(t, db, "a@example.com")

	assigned := createTag(t, db, user, "Lunch")
	createTag(t, db, user, "Unused")
	recipe := createRecipe(t, db, user, "Sandwich")
	attachTags(t, db, &recipe, assigned)

	tags, err := svc.List(user.ID, true)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, assigned.ID, tags[0].ID)
}

func TestTagListAssignedOnlyUnique(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTagService(db)
	user := createUser(t, db, "a@example.com")

	tag := createTag(t, db, user, "Breakfast")
	r1 := createRecipe(t, db, user, "Pancakes")
	r2 := createRecipe(t, db, user, "Porridge")
	attachTags(t, db, &r1, tag)
	attachTags(t, db, &r2, tag)

	// Attached to two recipes, returned once.
	tags, err := svc.List(user.ID, true)
	require.NoError(t, err)
	require.Len(t, tags, 1)
}

func TestTagListAssignedOnlyAnyRecipeOwner(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTagService(db)
	user := createUser(t, db, "a@example.com")
	other := createUser(t, db, "b@example.com")

	tag := createTag(t, db, user, "Shared")
	foreign := createRecipe(t, db, other, "Their dish")
	attachTags(t, db, &foreign, tag)

	// Attachment to another user's recipe counts as assigned; the tag
	// itself still only shows up for its owner.
	tags, err := svc.List(user.ID, true)
	require.NoError(t, err)
	require.Len(t, tags, 1)

	otherTags, err := svc.List(other.ID, true)
	require.NoError(t, err)
	assert.Empty(t, otherTags)
}

func TestTagCreate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTagService(db)
	user := createUser(t, db, "a@example.com")

	resp, err := svc.Create(user.ID, &dto.CreateTagRequest{Name: "Comfort food"})
	require.NoError(t, err)
	assert.NotZero(t, resp.ID)

	var tag models.Tag
	require.NoError(t, db.First(&tag, resp.ID).Error)
	assert.Equal(t, user.ID, tag.UserID)
}

func TestTagCreateEmptyName(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTagService(db)
	user := createUser(t, db, "a@example.com")

	_, err := svc.Create(user.ID, &dto.CreateTagRequest{Name: ""})
	var ve dto.ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve, "name")

	var count int64
	db.Model(&models.Tag{}).Count(&count)
	assert.Zero(t, count)
}

func TestTagUpdateForeignTagNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTagService(db)
	user := createUser(t, db, "a@example.com")
	other := createUser(t, db, "b@example.com")

	theirs := createTag(t, db, other, "Theirs")

	_, err := svc.Update(user.ID, theirs.ID, &dto.CreateTagRequest{Name: "Hijacked"})
	assert.True(t, errors.Is(err, ErrTagNotFound))

	var tag models.Tag
	require.NoError(t, db.First(&tag, theirs.ID).Error)
	assert.Equal(t, "Theirs", tag.Name)
}

func TestTagDeleteRemovesJoinRows(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTagService(db)
	user := createUser(t, db, "a@example.com")

	tag := createTag(t, db, user, "Doomed")
	recipe := createRecipe(t, db, user, "Dish")
	attachTags(t, db, &recipe, tag)

	require.NoError(t, svc.Delete(user.ID, tag.ID))

	var count int64
	db.Table("recipe_tags").Count(&count)
	assert.Zero(t, count)
	db.Model(&models.Tag{}).Count(&count)
	assert.Zero(t, count)
}
