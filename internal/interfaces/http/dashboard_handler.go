package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/refacciones-ledger/internal/application/analytics"
)

// DashboardHandler maneja el endpoint del dashboard.
type DashboardHandler struct {
	uc *appanalytics.UseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.UseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve las ventas del día y del mes en curso y el top de categorías del mes.
// GET /api/ledger/dashboard
//
// No requiere parámetros; las fechas se calculan en el servidor con APP_TIMEZONE.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.Dashboard(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}
