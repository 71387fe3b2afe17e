package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/autoclose-service/internal/api/dto"
	"github.com/spec-kit/autoclose-service/internal/observability"
	"github.com/spec-kit/autoclose-service/internal/service"
)

// AutoCloseHandler exposes the engine's run and preview entry points.
type AutoCloseHandler struct {
	engine  *service.AutoCloseService
	metrics *observability.Metrics
}

// NewAutoCloseHandler constructs handler.
func NewAutoCloseHandler(engine *service.AutoCloseService, metrics *observability.Metrics) *AutoCloseHandler {
	return &AutoCloseHandler{engine: engine, metrics: metrics}
}

// Run POST /admin/autoclose/run.
func (h *AutoCloseHandler) Run(c *fiber.Ctx) error {
	result := h.engine.Process(c.UserContext())
	return c.JSON(fiber.Map{"data": dto.RunFromDomain(result)})
}

// Preview GET /admin/autoclose/preview.
func (h *AutoCloseHandler) Preview(c *fiber.Ctx) error {
	result, err := h.engine.Preview(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.PreviewFromDomain(result)})
}

// Stats GET /admin/autoclose/stats.
func (h *AutoCloseHandler) Stats(c *fiber.Ctx) error {
	stats := h.metrics.EngineStats()
	return c.JSON(fiber.Map{"data": fiber.Map{
		"runs":              stats.Runs,
		"tickets_processed": stats.TicketsProcessed,
		"tickets_closed":    stats.TicketsClosed,
		"errors":            stats.Errors,
		"last_run_duration": stats.LastRunDuration.String(),
	}})
}
