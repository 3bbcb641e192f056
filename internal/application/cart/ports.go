// Package cart implementa el carrito de venta de mostrador: agregado efímero por sesión que solo
// toca el ledger en el checkout.
package cart

import (
	"context"

	"github.com/jhoicas/refacciones-ledger/internal/application/sales"
	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
)

// Store persiste el carrito de cada usuario.
type Store interface {
	// Get devuelve (nil, nil) si el usuario no tiene carrito.
	Get(ctx context.Context, userID string) (*entity.Cart, error)
	Save(ctx context.Context, c *entity.Cart) error
	Delete(ctx context.Context, userID string) error
}

// Seller venta multilínea todo-o-nada (sales.Workflow).
type Seller interface {
	SellParts(ctx context.Context, userID string, lines []sales.PartSaleInput) (*sales.MultiSale, error)
}
