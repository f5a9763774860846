package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/tastebase/recipe-api/internal/dto"
	"github.com/tastebase/recipe-api/internal/scope"
	"github.com/tastebase/recipe-api/internal/services"
)

type RecipeHandler struct {
	recipes *services.RecipeService
}

func NewRecipeHandler(recipes *services.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes}
}

func (h *RecipeHandler) List(c *fiber.Ctx) error {
	userID, err := scope.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	tagIDs, err := parseIDList(c.Query("tags"), "tags")
	if err != nil {
		_, werr := respondValidation(c, err)
		return werr
	}
	ingredientIDs, err := parseIDList(c.Query("ingredients"), "ingredients")
	if err != nil {
		_, werr := respondValidation(c, err)
		return werr
	}

	resp, err := h.recipes.List(userID, tagIDs, ingredientIDs)
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to list recipes")
	}

	return c.JSON(resp)
}

func (h *RecipeHandler) Get(c *fiber.Ctx) error {
	userID, err := scope.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid recipe ID")
	}

	resp, err := h.recipes.Get(userID, id)
	if err != nil {
		if errors.Is(err, services.ErrRecipeNotFound) {
			return respondError(c, fiber.StatusNotFound, err.Error())
		}
		return respondError(c, fiber.StatusInternalServerError, "Failed to fetch recipe")
	}

	return c.JSON(resp)
}

func (h *RecipeHandler) Create(c *fiber.Ctx) error {
	userID, err := scope.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateRecipeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.recipes.Create(userID, &req)
	if err != nil {
		if handled, werr := respondValidation(c, err); handled {
			return werr
		}
		return respondError(c, fiber.StatusInternalServerError, "Failed to create recipe")
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Replace handles PUT: omitted fields reset, including the relation sets.
func (h *RecipeHandler) Replace(c *fiber.Ctx) error {
	userID, err := scope.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid recipe ID")
	}

	var req dto.CreateRecipeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.recipes.Replace(userID, id, &req)
	if err != nil {
		if handled, werr := respondValidation(c, err); handled {
			return werr
		}
		if errors.Is(err, services.ErrRecipeNotFound) {
			return respondError(c, fiber.StatusNotFound, err.Error())
		}
		return respondError(c, fiber.StatusInternalServerError, "Failed to update recipe")
	}

	return c.JSON(resp)
}

// Patch handles merge updates: only fields present in the payload change.
func (h *RecipeHandler) Patch(c *fiber.Ctx) error {
	userID, err := scope.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid recipe ID")
	}

	var req dto.PatchRecipeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.recipes.Patch(userID, id, &req)
	if err != nil {
		if handled, werr := respondValidation(c, err); handled {
			return werr
		}
		if errors.Is(err, services.ErrRecipeNotFound) {
			return respondError(c, fiber.StatusNotFound, err.Error())
		}
		return respondError(c, fiber.StatusInternalServerError, "Failed to update recipe")
	}

	return c.JSON(resp)
}

func (h *RecipeHandler) Delete(c *fiber.Ctx) error {
	userID, err := scope.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid recipe ID")
	}

	if err := h.recipes.Delete(userID, id); err != nil {
		if errors.Is(err, services.ErrRecipeNotFound) {
			return respondError(c, fiber.StatusNotFound, err.Error())
		}
		return respondError(c, fiber.StatusInternalServerError, "Failed to delete recipe")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *RecipeHandler) UploadImage(c *fiber.Ctx) error {
	userID, err := scope.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid recipe ID")
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		ve := dto.ValidationErrors{}
		ve.Add("image", "no image file provided")
		_, werr := respondValidation(c, ve)
		return werr
	}

	file, err := fileHeader.Open()
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to read upload")
	}
	defer file.Close()

	resp, err := h.recipes.AttachImage(userID, id, file, fileHeader.Filename)
	if err != nil {
		if handled, werr := respondValidation(c, err); handled {
			return werr
		}
		if errors.Is(err, services.ErrRecipeNotFound) {
			return respondError(c, fiber.StatusNotFound, err.Error())
		}
		return respondError(c, fiber.StatusInternalServerError, "Failed to store image")
	}

	return c.JSON(resp)
}

// parseIDList parses a comma-separated id list query parameter. A malformed
// token fails the request rather than being silently skipped.
func parseIDList(raw, field string) ([]uint, error) {
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		id, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			ve := dto.ValidationErrors{}
			ve.Add(field, "must be a comma-separated list of numeric ids")
			return nil, ve
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
