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

var ErrTagNotFound = errors.New("tag not found")

type TagService struct {
	db *gorm.DB
}

func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

// List returns the caller's tags ordered by name descending. With
// assignedOnly set, only tags attached to at least one recipe are returned.
// The membership test goes through a join-table subquery, so a tag attached
// to several recipes still appears once. Assignment is checked against any
// recipe, not just the caller's own; ownership scoping already guarantees
// only the caller's tags can match.
func (s *TagService) List(userID uuid.UUID, assignedOnly bool) ([]dto.TagResponse, error) {
	query := s.db.Model(&models.Tag{}).Scopes(scope.OwnedBy(userID))
	if assignedOnly {
		query = query.Where("id IN (?)", s.db.Table("recipe_tags").Select("tag_id"))
	}

	var tags []models.Tag
	if err := query.Order("name DESC").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	out := make([]dto.TagResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, dto.TagResponse{ID: t.ID, Name: t.Name})
	}
	return out, nil
}

func (s *TagService) Create(userID uuid.UUID, req *dto.CreateTagRequest) (*dto.TagResponse, error) {
	if err := validateName(req.Name); err != nil {
		return nil, err
	}

	tag := models.Tag{Name: req.Name, UserID: userID}
	if err := s.db.Create(&tag).Error; err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	return &dto.TagResponse{ID: tag.ID, Name: tag.Name}, nil
}

func (s *TagService) Update(userID uuid.UUID, id uint, req *dto.CreateTagRequest) (*dto.TagResponse, error) {
	if err := validateName(req.Name); err != nil {
		return nil, err
	}

	var tag models.Tag
	if err := s.db.Scopes(scope.OwnedBy(userID)).First(&tag, id).Error; err != nil {
		return nil, ErrTagNotFound
	}

	if err := s.db.Model(&tag).Update("name", req.Name).Error; err != nil {
		return nil, fmt.Errorf("failed to update tag: %w", err)
	}

	return &dto.TagResponse{ID: tag.ID, Name: tag.Name}, nil
}

func (s *TagService) Delete(userID uuid.UUID, id uint) error {
	var tag models.Tag
	if err := s.db.Scopes(scope.OwnedBy(userID)).First(&tag, id).Error; err != nil {
		return ErrTagNotFound
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM recipe_tags WHERE tag_id = ?", tag.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
}

func validateName(name string) error {
	if name == "" {
		ve := dto.ValidationErrors{}
		ve.Add("name", "name is required")
		return ve
	}
	if len(name) > 255 {
		ve := dto.ValidationErrors{}
		ve.Add("name", "name must be at most 255 characters")
		return ve
	}
	return nil
}
