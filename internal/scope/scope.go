package scope

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OwnedBy returns a GORM scope restricting a query to rows owned by the
// given user. Every list and detail query on tags, ingredients and recipes
// goes through this scope before any other filter, so foreign-owned rows
// are invisible rather than forbidden.
func OwnedBy(userID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}
