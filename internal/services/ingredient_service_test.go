package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tastebase/recipe-api/internal/dto"
	"github.com/tastebase/recipe-api/internal/models"
)

func TestIngredientListScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	svc := NewIngredientService(db)
	user := createUser(t, db, "a@example.com")
	other := createUser(t, db, "b@example.com")

	createIngredient(t, db, user, "Salt")
	createIngredient(t, db, other, "Sugar")

	ingredients, err := svc.List(user.ID, false)
	require.NoError(t, err)
	require.Len(t, ingredients, 1)
	assert.Equal(t, "Salt", ingredients[0].Name)
}

func TestIngredientListAssignedOnlySubsetAndUnique(t *testing.T) {
	db := setupTestDB(t)
	svc := NewIngredientService(db)
	user := createUser(t, db, "a@example.com")

	used := createIngredient(t, db, user, "Flour")
	createIngredient(t, db, user, "Saffron")
	r1 := createRecipe(t, db, user, "Bread")
	r2 := createRecipe(t, db, user, "Cake")
	attachIngredients(t, db, &r1, used)
	attachIngredients(t, db, &r2, used)

	all, err := svc.List(user.ID, false)
	require.NoError(t, err)
	assigned, err := svc.List(user.ID, true)
	require.NoError(t, err)

	require.Len(t, all, 2)
	require.Len(t, assigned, 1)
	assert.Equal(t, used.ID, assigned[0].ID)
}

func TestIngredientListOrderedByNameDesc(t *testing.T) {
	db := setupTestDB(t)
	svc := NewIngredientService(db)
	user := createUser(t, db, "a@example.com")

	createIngredient(t, db, user, "Apple")
	createIngredient(t, db, user, "Zucchini")

	ingredients, err := svc.List(user.ID, false)
	require.NoError(t, err)
	require.Len(t, ingredients, 2)
	assert.Equal(t, "Zucchini", ingredients[0].Name)
}

func TestIngredientCreateEmptyName(t *testing.T) {
	db := setupTestDB(t)
	svc := NewIngredientService(db)
	user := createUser(t, db, "a@example.com")

	_, err := svc.Create(user.ID, &dto.CreateIngredientRequest{Name: ""})
	var ve dto.ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve, "name")

	var count int64
	db.Model(&models.Ingredient{}).Count(&count)
	assert.Zero(t, count)
}

func TestIngredientDeleteForeignNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewIngredientService(db)
	user := createUser(t, db, "a@example.com")
	other := createUser(t, db, "b@example.com")

	theirs := createIngredient(t, db, other, "Theirs")

	err := svc.Delete(user.ID, theirs.ID)
	assert.True(t, errors.Is(err, ErrIngredientNotFound))

	var count int64
	db.Model(&models.Ingredient{}).Count(&count)
	assert.EqualValues(t, 1, count)
}
