package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tastebase/recipe-api/internal/dto"
	"github.com/tastebase/recipe-api/internal/models"
	"github.com/tastebase/recipe-api/internal/scope"
	"gorm.io/gorm"
)

var ErrIngredientNotFound = errors.New("ingredient not found")

type IngredientService struct {
	db *gorm.DB
}

func NewIngredientService(db *gorm.DB) *IngredientService {
	return &IngredientService{db: db}
}

// List mirrors TagService.List: owned ingredients, name descending, with
// assignedOnly narrowing to ingredients used by at least one recipe.
func (s *IngredientService) List(userID uuid.UUID, assignedOnly bool) ([]dto.IngredientResponse, error) {
	query := s.db.Model(&models.Ingredient{}).Scopes(scope.OwnedBy(userID))
	if assignedOnly {
		query = query.Where("id IN (?)", s.db.Table("recipe_ingredients").Select("ingredient_id"))
	}

	var ingredients []models.Ingredient
	if err := query.Order("name DESC").Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}

	out := make([]dto.IngredientResponse, 0, len(ingredients))
	for _, ing := range ingredients {
		out = append(out, dto.IngredientResponse{ID: ing.ID, Name: ing.Name})
	}
	return out, nil
}

func (s *IngredientService) Create(userID uuid.UUID, req *dto.CreateIngredientRequest) (*dto.IngredientResponse, error) {
	if err := validateName(req.Name); err != nil {
		return nil, err
	}

	ing := models.Ingredient{Name: req.Name, UserID: userID}
	if err := s.db.Create(&ing).Error; err != nil {
		return nil, fmt.Errorf("failed to create ingredient: %w", err)
	}

	return &dto.IngredientResponse{ID: ing.ID, Name: ing.Name}, nil
}

func (s *IngredientService) Update(userID uuid.UUID, id uint, req *dto.CreateIngredientRequest) (*dto.IngredientResponse, error) {
	if err := validateName(req.Name); err != nil {
		return nil, err
	}

	var ing models.Ingredient
	if err := s.db.Scopes(scope.OwnedBy(userID)).First(&ing, id).Error; err != nil {
		return nil, ErrIngredientNotFound
	}

	if err := s.db.Model(&ing).Update("name", req.Name).Error; err != nil {
		return nil, fmt.Errorf("failed to update ingredient: %w", err)
	}

	return &dto.IngredientResponse{ID: ing.ID, Name: ing.Name}, nil
}

func (s *IngredientService) Delete(userID uuid.UUID, id uint) error {
	var ing models.Ingredient
	if err := s.db.Scopes(scope.OwnedBy(userID)).First(&ing, id).Error; err != nil {
		return ErrIngredientNotFound
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM recipe_ingredients WHERE ingredient_id = ?", ing.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&ing).Error
	})
}
