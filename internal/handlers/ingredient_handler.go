package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tastebase/recipe-api/internal/dto"
	"github.com/tastebase/recipe-api/internal/scope"
	"github.com/tastebase/recipe-api/internal/services"
)

type IngredientHandler struct {
	ingredients *services.IngredientService
}

func NewIngredientHandler(ingredients *services.IngredientService) *IngredientHandler {
	return &IngredientHandler{ingredients: ingredients}
}

func (h *IngredientHandler) List(c *fiber.Ctx) error {
	userID, err := scope.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	assignedOnly, err := parseAssignedOnly(c)
	if err != nil {
		_, werr := respondValidation(c, err)
		return werr
	}

	resp, err := h.ingredients.List(userID, assignedOnly)
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to list ingredients")
	}

	return c.JSON(resp)
}

func (h *IngredientHandler) Create(c *fiber.Ctx) error {
	userID, err := scope.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateIngredientRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.ingredients.Create(userID, &req)
	if err != nil {
		if handled, werr := respondValidation(c, err); handled {
			return werr
		}
		return respondError(c, fiber.StatusInternalServerError, "Failed to create ingredient")
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *IngredientHandler) Update(c *fiber.Ctx) error {
	userID, err := scope.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid ingredient ID")
	}

	var req dto.CreateIngredientRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.ingredients.Update(userID, id, &req)
	if err != nil {
		if handled, werr := respondValidation(c, err); handled {
			return werr
		}
		if errors.Is(err, services.ErrIngredientNotFound) {
			return respondError(c, fiber.StatusNotFound, err.Error())
		}
		return respondError(c, fiber.StatusInternalServerError, "Failed to update ingredient")
	}

	return c.JSON(resp)
}

func (h *IngredientHandler) Delete(c *fiber.Ctx) error {
	userID, err := scope.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid ingredient ID")
	}

	if err := h.ingredients.Delete(userID, id); err != nil {
		if errors.Is(err, services.ErrIngredientNotFound) {
			return respondError(c, fiber.StatusNotFound, err.Error())
		}
		return respondError(c, fiber.StatusInternalServerError, "Failed to delete ingredient")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
