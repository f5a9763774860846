package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tastebase/recipe-api/internal/dto"
)

// respondValidation renders a ValidationErrors as the 400 body, or reports
// false when err is some other kind of failure.
func respondValidation(c *fiber.Ctx, err error) (bool, error) {
	var ve dto.ValidationErrors
	if !errors.As(err, &ve) {
		return false, nil
	}
	return true, c.Status(fiber.StatusBadRequest).JSON(dto.ValidationErrorResponse{Errors: ve})
}

func respondError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return respondError(c, fiber.StatusBadRequest, msg)
}

func unauthorized(c *fiber.Ctx) error {
	return respondError(c, fiber.StatusUnauthorized, "Unauthorized")
}
