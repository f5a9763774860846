package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tastebase/recipe-api/internal/dto"
	"github.com/tastebase/recipe-api/internal/scope"
	"github.com/tastebase/recipe-api/internal/services"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) Create(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.users.Register(&req)
	if err != nil {
		if handled, werr := respondValidation(c, err); handled {
			return werr
		}
		return respondError(c, fiber.StatusInternalServerError, "Failed to create user")
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *UserHandler) Token(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.users.Token(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return respondError(c, fiber.StatusUnauthorized, err.Error())
		}
		return respondError(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(resp)
}

func (h *UserHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.users.Refresh(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			return respondError(c, fiber.StatusUnauthorized, err.Error())
		}
		return respondError(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(resp)
}

func (h *UserHandler) Me(c *fiber.Ctx) error {
	userID, err := scope.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	resp, err := h.users.Get(userID)
	if err != nil {
		return respondError(c, fiber.StatusNotFound, "User not found")
	}

	return c.JSON(resp)
}

func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	userID, err := scope.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.UpdateMeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.users.Update(userID, &req)
	if err != nil {
		if handled, werr := respondValidation(c, err); handled {
			return werr
		}
		if errors.Is(err, services.ErrUserNotFound) {
			return respondError(c, fiber.StatusNotFound, "User not found")
		}
		return respondError(c, fiber.StatusInternalServerError, "Failed to update user")
	}

	return c.JSON(resp)
}

func (h *UserHandler) DeleteMe(c *fiber.Ctx) error {
	userID, err := scope.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.DeleteAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.users.Delete(userID, req.Password); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return respondError(c, fiber.StatusUnauthorized, "Incorrect password")
		}
		if errors.Is(err, services.ErrUserNotFound) {
			return respondError(c, fiber.StatusNotFound, "User not found")
		}
		return respondError(c, fiber.StatusInternalServerError, "Failed to delete account")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
