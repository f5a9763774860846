package models

import (
	"time"

	"github.com/google/uuid"
)

// Tag labels recipes (e.g. "vegan", "dessert"). Each tag belongs to exactly
// one user, stamped at creation from the authenticated caller.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:255" json:"name"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Ingredient is a recipe component, owned per-user like Tag.
type Ingredient struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:255" json:"name"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Recipe is the aggregate entity. Tag and ingredient sets may be empty and
// are not required to share the recipe's owner.
type Recipe struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	UserID      uuid.UUID    `gorm:"type:uuid;not null;index" json:"-"`
	User        User         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Title       string       `gorm:"not null;size:255" json:"title"`
	TimeMinutes int          `gorm:"not null" json:"time_minutes"`
	Price       float64      `gorm:"not null;type:decimal(5,2)" json:"price"`
	Link        string       `gorm:"size:255" json:"link"`
	Image       string       `gorm:"size:255" json:"image"`
	Tags        []Tag        `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE" json:"-"`
	Ingredients []Ingredient `gorm:"many2many:recipe_ingredients;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time    `json:"-"`
	UpdatedAt   time.Time    `json:"-"`
}
