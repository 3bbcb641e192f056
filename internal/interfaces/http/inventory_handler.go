package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/refacciones-ledger/internal/application/dto"
	"github.com/jhoicas/refacciones-ledger/internal/application/inventory"
	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
)

// InventoryHandler maneja las peticiones HTTP de movimientos e inventario (protegido).
type InventoryHandler struct {
	uc *inventory.RegisterMovementUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.RegisterMovementUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "type (ENTRY, EXIT, RETURN), part_id, quantity, unit_price"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	mov, err := h.uc.Register(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementFromEntity(mov))
}

// ListMovements godoc
// @Summary      Listar movimientos
// @Description  Filtra por categoría y por id, código o nombre de refacción (sin acentos ni mayúsculas).
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        category_id  query  int     false  "Categoría"
// @Param        search       query  string  false  "id, código o nombre"
// @Param        ordering     query  string  false  "fecha | -fecha | cantidad | -cantidad | precio_unitario | -precio_unitario"
// @Param        limit        query  int     false  "máx. 100"
// @Param        offset       query  int     false  "desplazamiento"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var req dto.ListMovementsRequest
	if ok, err := bindQuery(c, &req); !ok {
		return err
	}
	req.DefaultPage()
	page, err := h.uc.ListMovements(c.Context(), entity.MovementFilter{
		CategoryID: req.CategoryID,
		Search:     req.Search,
		Ordering:   req.Ordering,
		Limit:      req.Limit,
		Offset:     req.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.MovementResponse, 0, len(page.Items))
	for _, m := range page.Items {
		items = append(items, dto.MovementFromEntity(m))
	}
	return c.JSON(dto.MovementListResponse{
		Items:    items,
		Ordering: page.Ordering,
		Page:     dto.PageResponse{Limit: req.Limit, Offset: req.Offset, Total: page.Total},
	})
}

// GetStock godoc
// @Summary      Stock actual de una refacción
// @Description  Compara el stock persistido con el que resulta de reproducir su historial de movimientos.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "Refacción"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/parts/{id}/stock [get]
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	rep, err := h.uc.StockReport(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StockResponse{
		PartID:       rep.Part.ID,
		PartName:     rep.Part.Name,
		CurrentStock: rep.Part.CurrentStock,
		Replayed:     rep.Replay.Stock,
		Entries:      rep.Replay.Entries,
		Exits:        rep.Replay.Exits,
		Returns:      rep.Replay.Returns,
		AverageCost:  rep.Replay.AverageCost.Value,
		Consistent:   rep.Consistent,
	})
}
