package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/restaurant-site/internal/api/http/handlers"
	"github.com/spec-kit/restaurant-site/internal/auth"
	"github.com/spec-kit/restaurant-site/internal/service"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Menu           *handlers.MenuHandler
	Restaurant     *handlers.RestaurantHandler
	Images         *handlers.ImageHandler
	AuthMiddleware *auth.AuthMiddleware
	UploadsDir     string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	if cfg.UploadsDir != "" {
		app.Static(service.UploadPath, cfg.UploadsDir)
	}

	app.Post("/login", cfg.Auth.Login)
	app.Get("/categories", cfg.Menu.PublicCategories)
	app.Get("/restaurant", cfg.Restaurant.Public)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle)
	admin.Post("/logout", cfg.Auth.Logout)

	admin.Get("/categories", cfg.Menu.AdminCategories)
	admin.Post("/categories", cfg.Menu.CreateCategory)
	admin.Put("/categories/:id", cfg.Menu.UpdateCategory)
	admin.Delete("/categories/:id", cfg.Menu.DeleteCategory)
	admin.Put("/categories/:id/reorder-items", cfg.Menu.ReorderItems)
	admin.Post("/categories/:id/items", cfg.Menu.CreateItem)
	admin.Put("/categories/:id/items/:name", cfg.Menu.UpdateItem)
	admin.Delete("/categories/:id/items/:name", cfg.Menu.DeleteItem)

	admin.Get("/restaurant", cfg.Restaurant.Get)
	admin.Put("/restaurant", cfg.Restaurant.Update)

	admin.Get("/images", cfg.Images.List)
	admin.Post("/images", cfg.Images.Upload)
}
