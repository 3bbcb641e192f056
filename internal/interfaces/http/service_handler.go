package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/refacciones-ledger/internal/application/report"
)

// ServiceHandler documentos de las órdenes de servicio.
type ServiceHandler struct {
	costNote *report.CostNoteUseCase
}

// NewServiceHandler construye el handler.
func NewServiceHandler(costNote *report.CostNoteUseCase) *ServiceHandler {
	return &ServiceHandler{costNote: costNote}
}

// DownloadCostNote godoc
// @Summary      Nota de costos en PDF
// @Description  Snapshot de la última venta de servicio registrada para la orden.
// @Tags         services
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  int  true  "Orden de servicio"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/services/{id}/cost-note.pdf [get]
func (h *ServiceHandler) DownloadCostNote(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	pdf, filename, err := h.costNote.Download(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s"`, filename))
	return c.Send(pdf)
}
