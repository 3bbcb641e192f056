package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/refacciones-ledger/internal/application/cart"
	"github.com/jhoicas/refacciones-ledger/internal/application/dto"
	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
)

// CartHandler carrito de la sesión del usuario del token.
type CartHandler struct {
	uc *cart.UseCase
}

// NewCartHandler construye el handler.
func NewCartHandler(uc *cart.UseCase) *CartHandler {
	return &CartHandler{uc: uc}
}

// Get GET /api/cart
func (h *CartHandler) Get(c *fiber.Ctx) error {
	ct, err := h.uc.Get(c.Context(), GetUserID(c))
	return h.respond(c, fiber.StatusOK, ct, err)
}

// AddItem godoc
// @Summary      Agregar refacción al carrito
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddCartItemRequest  true  "part_id, quantity, unit_price (opcional)"
// @Success      200   {object}  dto.CartResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cart/items [post]
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddCartItemRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	ct, err := h.uc.AddItem(c.Context(), GetUserID(c), in.PartID, in.Quantity, in.UnitPrice)
	return h.respond(c, fiber.StatusOK, ct, err)
}

// SetQuantity PUT /api/cart/items/:partId. quantity=0 elimina la línea.
func (h *CartHandler) SetQuantity(c *fiber.Ctx) error {
	partID, err := paramID(c, "partId")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.SetCartItemRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	ct, err := h.uc.SetQuantity(c.Context(), GetUserID(c), partID, in.Quantity)
	return h.respond(c, fiber.StatusOK, ct, err)
}

// RemoveItem DELETE /api/cart/items/:partId
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	partID, err := paramID(c, "partId")
	if err != nil {
		return writeError(c, err)
	}
	ct, err := h.uc.RemoveItem(c.Context(), GetUserID(c), partID)
	return h.respond(c, fiber.StatusOK, ct, err)
}

// Clear DELETE /api/cart
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	if err := h.uc.Clear(c.Context(), GetUserID(c)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Checkout godoc
// @Summary      Cobrar el carrito
// @Description  Vende todas las líneas en una sola transacción; si una no tiene stock no se registra ninguna y el carrito se conserva.
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Success      201  {object}  dto.PartSalesResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/cart/checkout [post]
func (h *CartHandler) Checkout(c *fiber.Ctx) error {
	res, err := h.uc.Checkout(c.Context(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(multiSaleResponse(res))
}

func (h *CartHandler) respond(c *fiber.Ctx, status int, ct *entity.Cart, err error) error {
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(status).JSON(dto.CartFromEntity(ct))
}
