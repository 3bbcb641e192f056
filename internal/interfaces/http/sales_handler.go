package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/refacciones-ledger/internal/application/dto"
	"github.com/jhoicas/refacciones-ledger/internal/application/sales"
	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
)

// SalesHandler registra ventas. Las rutas normales usan el flujo compuesto (venta + movimiento);
// las de /admin escriben solo el ledger de ventas.
type SalesHandler struct {
	workflow *sales.Workflow
	uc       *sales.SalesUseCase
}

// NewSalesHandler construye el handler.
func NewSalesHandler(workflow *sales.Workflow, uc *sales.SalesUseCase) *SalesHandler {
	return &SalesHandler{workflow: workflow, uc: uc}
}

// SellPart godoc
// @Summary      Vender refacción
// @Description  Registra la venta y la salida de inventario en una sola transacción.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PartSaleRequest  true  "part_id, quantity, unit_price (opcional)"
// @Success      201   {object}  dto.PartSaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/parts [post]
func (h *SalesHandler) SellPart(c *fiber.Ctx) error {
	var in dto.PartSaleRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	line, err := h.workflow.SellPart(c.Context(), GetUserID(c), partSaleInput(in))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(soldLineResponse(*line))
}

// RecordServiceSale godoc
// @Summary      Registrar venta de servicio
// @Description  Mano de obra más refacciones; guarda la nota de costos en la orden de servicio.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ServiceSaleRequest  true  "service_id, labor_cost, parts"
// @Success      201   {object}  dto.SaleTransactionDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sales/services [post]
func (h *SalesHandler) RecordServiceSale(c *fiber.Ctx) error {
	var in dto.ServiceSaleRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	parts := make([]entity.ServicePart, 0, len(in.Parts))
	for _, p := range in.Parts {
		parts = append(parts, entity.ServicePart{Name: p.Name, Quantity: p.Quantity, Price: p.Price, Total: p.Total})
	}
	sale, err := h.uc.RecordServiceSale(c.Context(), GetUserID(c), sales.ServiceSaleInput{
		ServiceID:     in.ServiceID,
		LaborCost:     in.LaborCost,
		PartsCost:     in.PartsCost,
		Parts:         parts,
		Observations:  in.Observations,
		Technician:    in.Technician,
		WarrantyDays:  in.WarrantyDays,
		PaymentStatus: entity.PaymentStatus(in.PaymentStatus),
		Total:         in.Total,
		SaleDate:      in.SaleDate,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SaleFromEntity(sale))
}

// ReturnPart godoc
// @Summary      Devolución de refacción
// @Description  Registra la devolución y repone el stock en una sola transacción.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReturnRequest  true  "part_id, quantity, related_sale_id"
// @Success      201   {object}  dto.ReturnResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sales/returns [post]
func (h *SalesHandler) ReturnPart(c *fiber.Ctx) error {
	var in dto.ReturnRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	line, err := h.workflow.ReturnPart(c.Context(), GetUserID(c), returnInput(in))
	if err != nil {
		return writeError(c, err)
	}
	mov := dto.MovementFromEntity(line.Movement)
	return c.Status(fiber.StatusCreated).JSON(dto.ReturnResponse{Return: dto.SaleFromEntity(line.Return), Movement: &mov})
}

// RecordPartSale corrección administrativa: venta sin salida de inventario.
// POST /api/sales/admin/parts (solo admin)
func (h *SalesHandler) RecordPartSale(c *fiber.Ctx) error {
	var in dto.PartSaleRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	sale, err := h.uc.RecordPartSale(c.Context(), GetUserID(c), partSaleInput(in))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PartSaleResponse{Sale: dto.SaleFromEntity(sale)})
}

// RecordReturn corrección administrativa: devolución sin movimiento de inventario.
// POST /api/sales/admin/returns (solo admin)
func (h *SalesHandler) RecordReturn(c *fiber.Ctx) error {
	var in dto.ReturnRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	ret, err := h.uc.RecordReturn(c.Context(), GetUserID(c), returnInput(in))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ReturnResponse{Return: dto.SaleFromEntity(ret)})
}

func partSaleInput(in dto.PartSaleRequest) sales.PartSaleInput {
	return sales.PartSaleInput{
		PartID:    in.PartID,
		Quantity:  in.Quantity,
		UnitPrice: in.UnitPrice,
		Total:     in.Total,
		SaleDate:  in.SaleDate,
	}
}

func returnInput(in dto.ReturnRequest) sales.ReturnSaleInput {
	return sales.ReturnSaleInput{
		PartID:        in.PartID,
		Quantity:      in.Quantity,
		UnitPrice:     in.UnitPrice,
		RelatedSaleID: in.RelatedSaleID,
		Reason:        in.Reason,
		SaleDate:      in.SaleDate,
	}
}

func soldLineResponse(l sales.SoldLine) dto.PartSaleResponse {
	mov := dto.MovementFromEntity(l.Movement)
	return dto.PartSaleResponse{Sale: dto.SaleFromEntity(l.Sale), Movement: &mov}
}

func multiSaleResponse(res *sales.MultiSale) dto.PartSalesResponse {
	lines := make([]dto.PartSaleResponse, 0, len(res.Lines))
	for _, l := range res.Lines {
		lines = append(lines, soldLineResponse(l))
	}
	return dto.PartSalesResponse{TransactionID: res.TransactionID, Lines: lines, Total: res.Total}
}
