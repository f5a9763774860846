package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tastebase/recipe-api/internal/dto"
	"github.com/tastebase/recipe-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestRegisterSuccess(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, testConfig())

	resp, err := svc.Register(&dto.RegisterRequest{
		Email:    "New@Example.COM",
		Password: "secret",
		Name:     "New User",
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", resp.Email)
	assert.Equal(t, "New User", resp.Name)

	var user models.User
	require.NoError(t, db.First(&user, "email = ?", "new@example.com").Error)
	assert.NotEqual(t, "secret", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret")))
}

func TestRegisterShortPassword(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, testConfig())

	_, err := svc.Register(&dto.RegisterRequest{Email: "a@b.com", Password: "pw"})
	var ve dto.ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve, "password")

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Zero(t, count)
}

func TestRegisterMissingEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, testConfig())

	_, err := svc.Register(&dto.RegisterRequest{Password: "secret"})
	var ve dto.ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve, "email")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, testConfig())

	_, err := svc.Register(&dto.RegisterRequest{Email: "dup@example.com", Password: "secret"})
	require.NoError(t, err)

	// Same address with different casing still collides.
	_, err = svc.Register(&dto.RegisterRequest{Email: "DUP@example.com", Password: "secret"})
	var ve dto.ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve, "email")

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.EqualValues(t, 1, count)

	// The first registration still authenticates.
	_, err = svc.Token(&dto.TokenRequest{Email: "dup@example.com", Password: "secret"})
	assert.NoError(t, err)
}

func TestRegisterDuplicateEmailRace(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, testConfig())

	// Slip a conflicting row in after the existence check has passed,
	// right before the INSERT, so the unique index fires.
	var injected bool
	err := db.Callback().Create().Before("gorm:create").Register("test:inject_conflict", func(tx *gorm.DB) {
		if injected {
			return
		}
		if _, ok := tx.Statement.Dest.(*models.User); !ok {
			return
		}
		injected = true
		rival := models.User{
			ID:       uuid.New(),
			Email:    "race@example.com",
			Password: "hash",
			IsActive: true,
		}
		require.NoError(t, tx.Session(&gorm.Session{NewDB: true}).Create(&rival).Error)
	})
	require.NoError(t, err)

	_, err = svc.Register(&dto.RegisterRequest{Email: "race@example.com", Password: "secret"})
	var ve dto.ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve, "email")

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestTokenSuccess(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, testConfig())
	user := createUser(t, db, "login@example.com")

	resp, err := svc.Token(&dto.TokenRequest{Email: "login@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, user.ID, resp.User.ID)
}

func TestTokenWrongPassword(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, testConfig())
	createUser(t, db, "login@example.com")

	_, err := svc.Token(&dto.TokenRequest{Email: "login@example.com", Password: "wrong"})
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
}

func TestTokenUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, testConfig())

	_, err := svc.Token(&dto.TokenRequest{Email: "nobody@example.com", Password: "whatever"})
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
}

func TestRefreshRotation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, testConfig())
	createUser(t, db, "rotate@example.com")

	resp, err := svc.Token(&dto.TokenRequest{Email: "rotate@example.com", Password: "password123"})
	require.NoError(t, err)

	rotated, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, rotated.RefreshToken)

	// The old token is revoked after one use.
	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestUpdateProfile(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, testConfig())
	user := createUser(t, db, "me@example.com")

	name := "Renamed"
	password := "newsecret"
	_, err := svc.Update(user.ID, &dto.UpdateMeRequest{Name: &name, Password: &password})
	require.NoError(t, err)

	var updated models.User
	require.NoError(t, db.First(&updated, "id = ?", user.ID).Error)
	assert.Equal(t, "Renamed", updated.Name)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("newsecret")))
}

func TestUpdateProfileShortPassword(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, testConfig())
	user := createUser(t, db, "me@example.com")

	password := "pw"
	_, err := svc.Update(user.ID, &dto.UpdateMeRequest{Password: &password})
	var ve dto.ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve, "password")
}

func TestDeleteAccountCascades(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, testConfig())
	user := createUser(t, db, "gone@example.com")
	other := createUser(t, db, "stays@example.com")

	tag := createTag(t, db, user, "Vegan")
	createIngredient(t, db, user, "Salt")
	recipe := createRecipe(t, db, user, "Soup")
	attachTags(t, db, &recipe, tag)
	keep := createTag(t, db, other, "Keep")

	require.NoError(t, svc.Delete(user.ID, "password123"))

	var count int64
	db.Model(&models.User{}).Where("id = ?", user.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.Tag{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.Ingredient{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.Recipe{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Zero(t, count)
	db.Table("recipe_tags").Count(&count)
	assert.Zero(t, count)

	// The other account is untouched.
	db.Model(&models.Tag{}).Where("id = ?", keep.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestDeleteAccountWrongPassword(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, testConfig())
	user := createUser(t, db, "safe@example.com")

	err := svc.Delete(user.ID, "wrong")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))

	var count int64
	db.Model(&models.User{}).Where("id = ?", user.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}
