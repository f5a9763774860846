package services

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tastebase/recipe-api/internal/dto"
	"github.com/tastebase/recipe-api/internal/models"
	"github.com/tastebase/recipe-api/internal/scope"
	"github.com/tastebase/recipe-api/internal/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrRecipeNotFound = errors.New("recipe not found")

type RecipeService struct {
	db     *gorm.DB
	images *storage.ImageStore
}

func NewRecipeService(db *gorm.DB, images *storage.ImageStore) *RecipeService {
	return &RecipeService{db: db, images: images}
}

// List returns the caller's recipes, newest first. Optional tag and
// ingredient id sets narrow the result to recipes attached to at least one
// of the given tags and, independently, at least one of the given
// ingredients. Filters are join-table subqueries, so a recipe matching
// several ids still appears once. Ownership scoping is applied before
// either filter.
func (s *RecipeService) List(userID uuid.UUID, tagIDs, ingredientIDs []uint) ([]dto.RecipeResponse, error) {
	query := s.db.Scopes(scope.OwnedBy(userID))
	if len(tagIDs) > 0 {
		query = query.Where("id IN (?)",
			s.db.Table("recipe_tags").Select("recipe_id").Where("tag_id IN ?", tagIDs))
	}
	if len(ingredientIDs) > 0 {
		query = query.Where("id IN (?)",
			s.db.Table("recipe_ingredients").Select("recipe_id").Where("ingredient_id IN ?", ingredientIDs))
	}

	var recipes []models.Recipe
	if err := query.Preload("Tags").Preload("Ingredients").Order("id DESC").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	out := make([]dto.RecipeResponse, 0, len(recipes))
	for i := range recipes {
		out = append(out, *mapRecipeToResponse(&recipes[i]))
	}
	return out, nil
}

func (s *RecipeService) Get(userID uuid.UUID, id uint) (*dto.RecipeDetailResponse, error) {
	recipe, err := s.load(userID, id)
	if err != nil {
		return nil, err
	}
	return mapRecipeToDetail(recipe), nil
}

func (s *RecipeService) Create(userID uuid.UUID, req *dto.CreateRecipeRequest) (*dto.RecipeDetailResponse, error) {
	if err := validateRecipe(req); err != nil {
		return nil, err
	}

	tags, ingredients, err := s.resolveRelations(req.Tags, req.Ingredients)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		UserID:      userID,
		Title:       req.Title,
		TimeMinutes: *req.TimeMinutes,
		Price:       *req.Price,
		Link:        req.Link,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return err
		}
		return replaceRelations(tx, &recipe, tags, ingredients)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	recipe.Tags = tags
	recipe.Ingredients = ingredients
	return mapRecipeToDetail(&recipe), nil
}

// Replace implements PUT semantics: required fields are revalidated and
// every omitted field resets to its default. In particular an absent tags
// or ingredients list clears the relation, unlike Patch which leaves it
// untouched.
func (s *RecipeService) Replace(userID uuid.UUID, id uint, req *dto.CreateRecipeRequest) (*dto.RecipeDetailResponse, error) {
	if err := validateRecipe(req); err != nil {
		return nil, err
	}

	recipe, err := s.load(userID, id)
	if err != nil {
		return nil, err
	}

	tags, ingredients, err := s.resolveRelations(req.Tags, req.Ingredients)
	if err != nil {
		return nil, err
	}

	recipe.Title = req.Title
	recipe.TimeMinutes = *req.TimeMinutes
	recipe.Price = *req.Price
	recipe.Link = req.Link

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(recipe).Error; err != nil {
			return err
		}
		return replaceRelations(tx, recipe, tags, ingredients)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}

	recipe.Tags = tags
	recipe.Ingredients = ingredients
	return mapRecipeToDetail(recipe), nil
}

// Patch implements merge semantics: only fields present in the payload
// change; nil relation lists leave the existing sets as they are.
func (s *RecipeService) Patch(userID uuid.UUID, id uint, req *dto.PatchRecipeRequest) (*dto.RecipeDetailResponse, error) {
	recipe, err := s.load(userID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if *req.Title == "" {
			ve := dto.ValidationErrors{}
			ve.Add("title", "title must not be blank")
			return nil, ve
		}
		recipe.Title = *req.Title
	}
	if req.TimeMinutes != nil {
		recipe.TimeMinutes = *req.TimeMinutes
	}
	if req.Price != nil {
		recipe.Price = *req.Price
	}
	if req.Link != nil {
		recipe.Link = *req.Link
	}

	var tags []models.Tag
	var ingredients []models.Ingredient
	if req.Tags != nil {
		if tags, err = s.resolveTags(*req.Tags); err != nil {
			return nil, err
		}
	}
	if req.Ingredients != nil {
		if ingredients, err = s.resolveIngredients(*req.Ingredients); err != nil {
			return nil, err
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(recipe).Error; err != nil {
			return err
		}
		if req.Tags != nil {
			if err := replaceTagRelation(tx, recipe, tags); err != nil {
				return err
			}
		}
		if req.Ingredients != nil {
			if err := replaceIngredientRelation(tx, recipe, ingredients); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}

	if req.Tags != nil {
		recipe.Tags = tags
	}
	if req.Ingredients != nil {
		recipe.Ingredients = ingredients
	}
	return mapRecipeToDetail(recipe), nil
}

func (s *RecipeService) Delete(userID uuid.UUID, id uint) error {
	recipe, err := s.load(userID, id)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Model(recipe).Association("Ingredients").Clear(); err != nil {
			return err
		}
		return tx.Delete(recipe).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	if recipe.Image != "" {
		if err := s.images.Remove(recipe.Image); err != nil {
			slog.Warn("failed to remove recipe image file", "recipe_id", recipe.ID, "error", err)
		}
	}
	return nil
}

// AttachImage validates and stores the uploaded file, then points the
// recipe at it. The previous image file, if any, is removed afterwards.
// No other recipe field changes.
func (s *RecipeService) AttachImage(userID uuid.UUID, id uint, r io.Reader, filename string) (*dto.RecipeDetailResponse, error) {
	recipe, err := s.load(userID, id)
	if err != nil {
		return nil, err
	}

	path, err := s.images.Save(r, filename)
	if err != nil {
		if errors.Is(err, storage.ErrNotImage) {
			ve := dto.ValidationErrors{}
			ve.Add("image", "upload a valid image")
			return nil, ve
		}
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	previous := recipe.Image
	if err := s.db.Model(recipe).Update("image", path).Error; err != nil {
		// The file was never attached; don't leave it orphaned on disk.
		if rmErr := s.images.Remove(path); rmErr != nil {
			slog.Warn("failed to remove unattached image file", "recipe_id", recipe.ID, "error", rmErr)
		}
		return nil, fmt.Errorf("failed to attach image: %w", err)
	}
	recipe.Image = path

	if previous != "" {
		if err := s.images.Remove(previous); err != nil {
			slog.Warn("failed to remove replaced image file", "recipe_id", recipe.ID, "error", err)
		}
	}

	return mapRecipeToDetail(recipe), nil
}

func (s *RecipeService) load(userID uuid.UUID, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.Scopes(scope.OwnedBy(userID)).
		Preload("Tags").Preload("Ingredients").
		First(&recipe, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	return &recipe, nil
}

func validateRecipe(req *dto.CreateRecipeRequest) error {
	ve := dto.ValidationErrors{}
	if req.Title == "" {
		ve.Add("title", "title is required")
	}
	if req.TimeMinutes == nil {
		ve.Add("time_minutes", "time_minutes is required")
	}
	if req.Price == nil {
		ve.Add("price", "price is required")
	}
	if len(ve) > 0 {
		return ve
	}
	return nil
}

// resolveTags looks referenced tags up by id. Tags are not required to
// belong to the recipe's owner; an unknown id is a validation error.
func (s *RecipeService) resolveTags(ids []uint) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []models.Tag
	if err := s.db.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve tags: %w", err)
	}
	if missing := missingIDs(ids, tagIDSet(tags)); len(missing) > 0 {
		ve := dto.ValidationErrors{}
		for _, id := range missing {
			ve.Add("tags", fmt.Sprintf("invalid tag id %d", id))
		}
		return nil, ve
	}
	return tags, nil
}

func (s *RecipeService) resolveIngredients(ids []uint) ([]models.Ingredient, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var ingredients []models.Ingredient
	if err := s.db.Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve ingredients: %w", err)
	}
	found := make(map[uint]struct{}, len(ingredients))
	for _, ing := range ingredients {
		found[ing.ID] = struct{}{}
	}
	if missing := missingIDs(ids, found); len(missing) > 0 {
		ve := dto.ValidationErrors{}
		for _, id := range missing {
			ve.Add("ingredients", fmt.Sprintf("invalid ingredient id %d", id))
		}
		return nil, ve
	}
	return ingredients, nil
}

func (s *RecipeService) resolveRelations(tagIDs, ingredientIDs []uint) ([]models.Tag, []models.Ingredient, error) {
	tags, err := s.resolveTags(tagIDs)
	if err != nil {
		return nil, nil, err
	}
	ingredients, err := s.resolveIngredients(ingredientIDs)
	if err != nil {
		return nil, nil, err
	}
	return tags, ingredients, nil
}

func replaceRelations(tx *gorm.DB, recipe *models.Recipe, tags []models.Tag, ingredients []models.Ingredient) error {
	if err := replaceTagRelation(tx, recipe, tags); err != nil {
		return err
	}
	return replaceIngredientRelation(tx, recipe, ingredients)
}

func replaceTagRelation(tx *gorm.DB, recipe *models.Recipe, tags []models.Tag) error {
	assoc := tx.Model(recipe).Association("Tags")
	if len(tags) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(&tags)
}

func replaceIngredientRelation(tx *gorm.DB, recipe *models.Recipe, ingredients []models.Ingredient) error {
	assoc := tx.Model(recipe).Association("Ingredients")
	if len(ingredients) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(&ingredients)
}

func tagIDSet(tags []models.Tag) map[uint]struct{} {
	set := make(map[uint]struct{}, len(tags))
	for _, t := range tags {
		set[t.ID] = struct{}{}
	}
	return set
}

func missingIDs(requested []uint, found map[uint]struct{}) []uint {
	var missing []uint
	seen := make(map[uint]struct{}, len(requested))
	for _, id := range requested {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

func mapRecipeToResponse(r *models.Recipe) *dto.RecipeResponse {
	tags := make([]uint, 0, len(r.Tags))
	for _, t := range r.Tags {
		tags = append(tags, t.ID)
	}
	ingredients := make([]uint, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		ingredients = append(ingredients, ing.ID)
	}
	return &dto.RecipeResponse{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Link:        r.Link,
		Image:       r.Image,
		Tags:        tags,
		Ingredients: ingredients,
	}
}

func mapRecipeToDetail(r *models.Recipe) *dto.RecipeDetailResponse {
	tags := make([]dto.TagResponse, 0, len(r.Tags))
	for _, t := range r.Tags {
		tags = append(tags, dto.TagResponse{ID: t.ID, Name: t.Name})
	}
	ingredients := make([]dto.IngredientResponse, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		ingredients = append(ingredients, dto.IngredientResponse{ID: ing.ID, Name: ing.Name})
	}
	return &dto.RecipeDetailResponse{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Link:        r.Link,
		Image:       r.Image,
		Tags:        tags,
		Ingredients: ingredients,
	}
}
