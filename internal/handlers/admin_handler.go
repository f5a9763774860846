package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/tastebase/recipe-api/internal/models"
	"gorm.io/gorm"
)

// AdminHandler exposes staff-only operational endpoints.
type AdminHandler struct {
	db *gorm.DB
}

func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

// ListLogs returns recent persisted error logs, newest first. Optional
// level and limit query parameters narrow the result.
func (h *AdminHandler) ListLogs(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "100"))
	if limit < 1 || limit > 500 {
		limit = 100
	}

	query := h.db.Model(&models.SystemLog{})
	if level := c.Query("level"); level != "" {
		query = query.Where("level = ?", level)
	}

	var logs []models.SystemLog
	if err := query.Order("timestamp DESC").Limit(limit).Find(&logs).Error; err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to fetch logs")
	}

	return c.JSON(logs)
}
