package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart carrito de compra de una sesión. Es efímero: solo entra al ledger en el checkout.
type Cart struct {
	UserID    string     `json:"user_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem línea del carrito. UnitPrice nil = precio de catálogo al momento del checkout.
type CartItem struct {
	PartID    int64            `json:"part_id"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// Add suma quantity a la línea de partID o agrega una línea nueva.
func (c *Cart) Add(partID int64, quantity int, unitPrice *decimal.Decimal) {
	for i := range c.Items {
		if c.Items[i].PartID == partID {
			c.Items[i].Quantity += quantity
			if unitPrice != nil {
				c.Items[i].UnitPrice = unitPrice
			}
			return
		}
	}
	c.Items = append(c.Items, CartItem{PartID: partID, Quantity: quantity, UnitPrice: unitPrice})
}

// Set fija la cantidad de partID; 0 elimina la línea. Devuelve false si la línea no existe.
func (c *Cart) Set(partID int64, quantity int) bool {
	for i := range c.Items {
		if c.Items[i].PartID == partID {
			if quantity == 0 {
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
			} else {
				c.Items[i].Quantity = quantity
			}
			return true
		}
	}
	return false
}

// Remove elimina la línea de partID.
func (c *Cart) Remove(partID int64) bool {
	return c.Set(partID, 0)
}

// Units total de unidades en el carrito.
func (c *Cart) Units() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}
