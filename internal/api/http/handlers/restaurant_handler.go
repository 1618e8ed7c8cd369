package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/restaurant-site/internal/api/dto"
	"github.com/spec-kit/restaurant-site/internal/service"
	apperrors "github.com/spec-kit/restaurant-site/pkg/util/errorutil"
)

// RestaurantHandler serves the hero/about/location metadata.
type RestaurantHandler struct {
	service *service.RestaurantService
}

// NewRestaurantHandler constructs handler.
func NewRestaurantHandler(restaurantService *service.RestaurantService) *RestaurantHandler {
	return &RestaurantHandler{service: restaurantService}
}

// Public GET /restaurant.
func (h *RestaurantHandler) Public(c *fiber.Ctx) error {
	info, err := h.service.Public(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(info)
}

// Get GET /admin/restaurant.
func (h *RestaurantHandler) Get(c *fiber.Ctx) error {
	info, err := h.service.Get(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(info)
}

// Update PUT /admin/restaurant.
func (h *RestaurantHandler) Update(c *fiber.Ctx) error {
	var req dto.RestaurantRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	info, err := h.service.Update(c.UserContext(), adminID(c), req.ToDomain())
	if err != nil {
		return err
	}
	return c.JSON(info)
}
