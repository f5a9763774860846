package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/tastebase/recipe-api/internal/config"
	"github.com/tastebase/recipe-api/internal/database"
	"github.com/tastebase/recipe-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 24 * time.Hour,
	}
}

func createUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{
		ID:       uuid.New(),
		Email:    email,
		Name:     "Test User",
		Password: string(hash),
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createTag(t *testing.T, db *gorm.DB, owner models.User, name string) models.Tag {
	t.Helper()
	tag := models.Tag{Name: name, UserID: owner.ID}
	require.NoError(t, db.Create(&tag).Error)
	return tag
}

func createIngredient(t *testing.T, db *gorm.DB, owner models.User, name string) models.Ingredient {
	t.Helper()
	ing := models.Ingredient{Name: name, UserID: owner.ID}
	require.NoError(t, db.Create(&ing).Error)
	return ing
}

func createRecipe(t *testing.T, db *gorm.DB, owner models.User, title string) models.Recipe {
	t.Helper()
	recipe := models.Recipe{
		UserID:      owner.ID,
		Title:       title,
		TimeMinutes: 10,
		Price:       5.50,
	}
	require.NoError(t, db.Create(&recipe).Error)
	return recipe
}

func attachTags(t *testing.T, db *gorm.DB, recipe *models.Recipe, tags ...models.Tag) {
	t.Helper()
	require.NoError(t, db.Model(recipe).Association("Tags").Append(&tags))
}

func attachIngredients(t *testing.T, db *gorm.DB, recipe *models.Recipe, ingredients ...models.Ingredient) {
	t.Helper()
	require.NoError(t, db.Model(recipe).Association("Ingredients").Append(&ingredients))
}
