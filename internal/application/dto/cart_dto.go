package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
)

// AddCartItemRequest body para POST /api/cart/items.
type AddCartItemRequest struct {
	PartID    int64            `json:"part_id" validate:"required,gt=0"`
	Quantity  int              `json:"quantity" validate:"required,gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty" validate:"omitempty,min=0"`
}

// SetCartItemRequest body para PUT /api/cart/items/:partId. 0 elimina la línea.
type SetCartItemRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

// CartItemResponse línea del carrito.
type CartItemResponse struct {
	PartID    int64            `json:"part_id"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// CartResponse carrito de la sesión.
type CartResponse struct {
	Items     []CartItemResponse `json:"items"`
	Units     int                `json:"units"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// CartFromEntity mapea entidad a respuesta.
func CartFromEntity(c *entity.Cart) CartResponse {
	items := make([]CartItemResponse, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, CartItemResponse{PartID: it.PartID, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	return CartResponse{Items: items, Units: c.Units(), UpdatedAt: c.UpdatedAt}
}
