package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/restaurant-site/internal/api/dto"
	"github.com/spec-kit/restaurant-site/internal/service"
	apperrors "github.com/spec-kit/restaurant-site/pkg/util/errorutil"
)

// MenuHandler manages public menu reads and admin menu editing.
type MenuHandler struct {
	service *service.MenuService
}

// NewMenuHandler constructs handler.
func NewMenuHandler(menuService *service.MenuService) *MenuHandler {
	return &MenuHandler{service: menuService}
}

// PublicCategories GET /categories.
func (h *MenuHandler) PublicCategories(c *fiber.Ctx) error {
	categories, err := h.service.PublicCategories(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(categories)
}

// AdminCategories GET /admin/categories.
func (h *MenuHandler) AdminCategories(c *fiber.Ctx) error {
	categories, err := h.service.AdminCategories(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(categories)
}

// CreateCategory POST /admin/categories.
func (h *MenuHandler) CreateCategory(c *fiber.Ctx) error {
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	category, err := h.service.CreateCategory(c.UserContext(), adminID(c), req.ToDomain())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// UpdateCategory PUT /admin/categories/:id.
func (h *MenuHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := categoryID(c)
	if err != nil {
		return err
	}
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	category, err := h.service.UpdateCategory(c.UserContext(), adminID(c), id, req.ToDomain())
	if err != nil {
		return err
	}
	return c.JSON(category)
}

// DeleteCategory DELETE /admin/categories/:id.
func (h *MenuHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := categoryID(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteCategory(c.UserContext(), adminID(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateItem POST /admin/categories/:id/items.
func (h *MenuHandler) CreateItem(c *fiber.Ctx) error {
	id, err := categoryID(c)
	if err != nil {
		return err
	}
	var req dto.ItemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	item, err := h.service.CreateItem(c.UserContext(), adminID(c), id, req.ToDomain())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// UpdateItem PUT /admin/categories/:id/items/:name.
func (h *MenuHandler) UpdateItem(c *fiber.Ctx) error {
	id, err := categoryID(c)
	if err != nil {
		return err
	}
	name, err := itemName(c)
	if err != nil {
		return err
	}
	var req dto.ItemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	item, err := h.service.UpdateItem(c.UserContext(), adminID(c), id, name, req.ToDomain())
	if err != nil {
		return err
	}
	return c.JSON(item)
}

// DeleteItem DELETE /admin/categories/:id/items/:name.
func (h *MenuHandler) DeleteItem(c *fiber.Ctx) error {
	id, err := categoryID(c)
	if err != nil {
		return err
	}
	name, err := itemName(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteItem(c.UserContext(), adminID(c), id, name); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ReorderItems PUT /admin/categories/:id/reorder-items.
func (h *MenuHandler) ReorderItems(c *fiber.Ctx) error {
	id, err := categoryID(c)
	if err != nil {
		return err
	}
	var req dto.ReorderItemsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ItemNamesInOrder == nil {
		return apperrors.NewValidationError("itemNamesInOrder required", nil)
	}
	if err := h.service.ReorderItems(c.UserContext(), adminID(c), id, req.ItemNamesInOrder); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func categoryID(c *fiber.Ctx) (string, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return "", apperrors.NewNotFound("category", nil)
	}
	return id.String(), nil
}

func itemName(c *fiber.Ctx) (string, error) {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil || name == "" {
		return "", apperrors.NewValidationError("invalid item name", nil)
	}
	return name, nil
}
