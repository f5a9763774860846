package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tastebase/recipe-api/internal/dto"
	"github.com/tastebase/recipe-api/internal/models"
	"github.com/tastebase/recipe-api/internal/scope"
	"gorm.io/gorm"
)

// StaffRequired allows only users with the is_staff flag through. It runs
// after JWTProtected, so an unauthenticated request never reaches it.
func StaffRequired(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := scope.CurrentUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil || !user.IsStaff {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Staff access required",
			})
		}

		return c.Next()
	}
}
