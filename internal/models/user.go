package models

import (
	"time"

	"github.com/google/uuid"
)

// User authenticates by email. The staff/superuser flags gate the admin
// endpoints; they are never settable through the public API.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email       string    `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Name        string    `gorm:"size:255" json:"name"`
	Password    string    `gorm:"not null" json:"-"`
	IsActive    bool      `gorm:"default:true" json:"-"`
	IsStaff     bool      `gorm:"default:false" json:"-"`
	IsSuperuser bool      `gorm:"default:false" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
