package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/autoclose-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Rules     *handlers.RulesHandler
	AutoClose *handlers.AutoCloseHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	admin := app.Group("/admin/autoclose")
	admin.Post("/run", cfg.AutoClose.Run)
	admin.Get("/preview", cfg.AutoClose.Preview)
	admin.Get("/stats", cfg.AutoClose.Stats)

	admin.Get("/rules", cfg.Rules.List)
	admin.Post("/rules", cfg.Rules.Create)
	admin.Get("/rules/:id", cfg.Rules.Get)
	admin.Put("/rules/:id", cfg.Rules.Update)
	admin.Delete("/rules/:id", cfg.Rules.Delete)
}
