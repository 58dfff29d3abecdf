package insights

import (
	"errors"

	"inventory-tracker/core/logger"
	"inventory-tracker/core/middleware/auth"
	"inventory-tracker/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for insights.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the insights route.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/insights", h.HandleInsights)
}

// HandleInsights generates the insight report for the caller's inventory.
// @Summary Inventory Insights
// @Description Returns expiring soon, low stock and summary sections for the owner's inventory.
// @Tags insights
// @Produce json
// @Success 200 {object} Report "Insight report"
// @Failure 401 {object} map[string]string "Missing owner"
// @Failure 502 {object} map[string]string "Provider failure"
// @Router /insights [get]
func (h *Handler) HandleInsights(c *fiber.Ctx) error {
	report, err := h.service.Generate(c.Context(), auth.UserID(c))
	if err != nil {
		if errors.Is(err, reconcile.ErrMissingOwner) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		}
		logger.WithRayID(h.service.logger, c).Error("Insights failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "failed to generate insights"})
	}
	return c.JSON(report)
}
