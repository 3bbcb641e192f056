package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/refacciones-ledger/internal/application/dto"
	"github.com/jhoicas/refacciones-ledger/internal/domain"
)

// statusByKind código HTTP de cada tipo de error de dominio.
var statusByKind = map[domain.ErrorKind]int{
	domain.KindValidation:        fiber.StatusBadRequest,
	domain.KindInsufficientStock: fiber.StatusConflict,
	domain.KindConflict:          fiber.StatusConflict,
	domain.KindNotFound:          fiber.StatusNotFound,
	domain.KindExportIncomplete:  fiber.StatusBadGateway,
	domain.KindUnauthorized:      fiber.StatusUnauthorized,
	domain.KindForbidden:         fiber.StatusForbidden,
	domain.KindInternal:          fiber.StatusInternalServerError,
}

var messageByKind = map[domain.ErrorKind]string{
	domain.KindValidation:        "datos inválidos",
	domain.KindInsufficientStock: "stock insuficiente",
	domain.KindConflict:          "modificación concurrente, intente de nuevo",
	domain.KindNotFound:          "recurso no encontrado",
	domain.KindExportIncomplete:  "la exportación no pudo completarse",
	domain.KindUnauthorized:      "no autorizado",
	domain.KindForbidden:         "acceso denegado",
	domain.KindInternal:          "error interno",
}

// writeError responde con el status y el cuerpo correspondientes al tipo de err.
func writeError(c *fiber.Ctx, err error) error {
	kind := domain.KindOf(err)
	status, ok := statusByKind[kind]
	if !ok {
		status = fiber.StatusInternalServerError
	}
	return c.Status(status).JSON(dto.ErrorResponse{
		Code:    string(kind),
		Message: messageByKind[kind],
		Details: errorDetails(err),
	})
}

// errorDetails payload estructurado de los errores tipados. Los INTERNAL no exponen detalles.
func errorDetails(err error) map[string]any {
	var (
		ve *domain.ValidationError
		se *domain.InsufficientStockError
		ce *domain.ConflictError
		ne *domain.NotFoundError
		xe *domain.ExportIncompleteError
	)
	switch {
	case errors.As(err, &ve):
		d := map[string]any{"field": ve.Field, "value": ve.Value, "rule": ve.Rule}
		if ve.Limit != nil {
			d["limit"] = ve.Limit
		}
		return d
	case errors.As(err, &se):
		return map[string]any{"part_id": se.PartID, "requested": se.Requested, "available": se.Available}
	case errors.As(err, &ce):
		return map[string]any{"resource": ce.Resource, "id": ce.ID}
	case errors.As(err, &ne):
		return map[string]any{"resource": ne.Resource, "id": ne.ID}
	case errors.As(err, &xe):
		return map[string]any{"pages_fetched": xe.PagesFetched, "pages_expected": xe.PagesExpected}
	}
	return nil
}

// ErrorHandler handler de errores de Fiber: los *fiber.Error conservan su código, el resto pasa
// por writeError.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
	}
	return writeError(c, err)
}
