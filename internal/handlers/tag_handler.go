package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/tastebase/recipe-api/internal/dto"
	"github.com/tastebase/recipe-api/internal/scope"
	"github.com/tastebase/recipe-api/internal/services"
)

type TagHandler struct {
	tags *services.TagService
}

func NewTagHandler(tags *services.TagService) *TagHandler {
	return &TagHandler{tags: tags}
}

func (h *TagHandler) List(c *fiber.Ctx) error {
	userID, err := scope.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	assignedOnly, err := parseAssignedOnly(c)
	if err != nil {
		_, werr := respondValidation(c, err)
		return werr
	}

	resp, err := h.tags.List(userID, assignedOnly)
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to list tags")
	}

	return c.JSON(resp)
}

func (h *TagHandler) Create(c *fiber.Ctx) error {
	userID, err := scope.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateTagRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.tags.Create(userID, &req)
	if err != nil {
		if handled, werr := respondValidation(c, err); handled {
			return werr
		}
		return respondError(c, fiber.StatusInternalServerError, "Failed to create tag")
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *TagHandler) Update(c *fiber.Ctx) error {
	userID, err := scope.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid tag ID")
	}

	var req dto.CreateTagRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.tags.Update(userID, id, &req)
	if err != nil {
		if handled, werr := respondValidation(c, err); handled {
			return werr
		}
		if errors.Is(err, services.ErrTagNotFound) {
			return respondError(c, fiber.StatusNotFound, err.Error())
		}
		return respondError(c, fiber.StatusInternalServerError, "Failed to update tag")
	}

	return c.JSON(resp)
}

func (h *TagHandler) Delete(c *fiber.Ctx) error {
	userID, err := scope.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid tag ID")
	}

	if err := h.tags.Delete(userID, id); err != nil {
		if errors.Is(err, services.ErrTagNotFound) {
			return respondError(c, fiber.StatusNotFound, err.Error())
		}
		return respondError(c, fiber.StatusInternalServerError, "Failed to delete tag")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// parseAssignedOnly reads the assigned_only query parameter. Absent means
// false; an unparsable value is a caller error rather than silently false.
func parseAssignedOnly(c *fiber.Ctx) (bool, error) {
	raw := c.Query("assigned_only")
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		ve := dto.ValidationErrors{}
		ve.Add("assigned_only", "must be a boolean value")
		return false, ve
	}
	return v, nil
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
