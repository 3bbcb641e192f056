package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/refacciones-ledger/internal/application/dto"
	"github.com/jhoicas/refacciones-ledger/internal/application/usecase"
)

// ProductHandler consultas del catálogo de refacciones (solo lectura).
type ProductHandler struct {
	uc *usecase.CatalogUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.CatalogUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// List godoc
// @Summary      Listar refacciones
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        category_id  query  int     false  "Categoría"
// @Param        search       query  string  false  "id, código, nombre o marca"
// @Param        limit        query  int     false  "máx. 100"
// @Param        offset       query  int     false  "desplazamiento"
// @Success      200  {object}  dto.PartListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/parts [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var req dto.ListPartsRequest
	if ok, err := bindQuery(c, &req); !ok {
		return err
	}
	out, err := h.uc.ListParts(c.Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/parts/:id
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetPart(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListCategories GET /api/categories
func (h *ProductHandler) ListCategories(c *fiber.Ctx) error {
	out, err := h.uc.ListCategories(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
