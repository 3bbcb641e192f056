package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/refacciones-ledger/internal/application/sales"
	"github.com/jhoicas/refacciones-ledger/internal/domain"
	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
	"github.com/jhoicas/refacciones-ledger/internal/domain/repository"
	"github.com/jhoicas/refacciones-ledger/pkg/logger"
)

// UseCase operaciones del carrito.
type UseCase struct {
	store    Store
	partRepo repository.PartRepository
	seller   Seller
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(store Store, partRepo repository.PartRepository, seller Seller, log *logger.Logger) *UseCase {
	return &UseCase{
		store:    store,
		partRepo: partRepo,
		seller:   seller,
		log:      log.Named("cart"),
		now:      time.Now,
	}
}

// Get carrito del usuario; vacío si no existe.
func (uc *UseCase) Get(ctx context.Context, userID string) (*entity.Cart, error) {
	c, err := uc.store.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("cart: obtener: %w", err)
	}
	if c == nil {
		c = &entity.Cart{UserID: userID, Items: []entity.CartItem{}}
	}
	return c, nil
}

// AddItem agrega quantity de partID; si la refacción ya está en el carrito acumula la cantidad.
// Rechaza con InsufficientStockError si el carrito pediría más de lo que hay en stock ahora.
func (uc *UseCase) AddItem(ctx context.Context, userID string, partID int64, quantity int, unitPrice *decimal.Decimal) (*entity.Cart, error) {
	if quantity <= 0 {
		return nil, domain.Invalid("quantity", quantity, "positive")
	}
	if unitPrice != nil && unitPrice.IsNegative() {
		return nil, domain.Invalid("unit_price", unitPrice.String(), "non_negative")
	}
	part, err := uc.partRepo.GetByID(ctx, partID)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, domain.NotFound("part", partID)
	}

	c, err := uc.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.Add(partID, quantity, unitPrice)
	if want := quantityOf(c, partID); want > part.CurrentStock {
		return nil, &domain.InsufficientStockError{PartID: partID, Requested: want, Available: part.CurrentStock}
	}
	return uc.save(ctx, c)
}

// SetQuantity fija la cantidad de una línea existente; 0 la elimina.
func (uc *UseCase) SetQuantity(ctx context.Context, userID string, partID int64, quantity int) (*entity.Cart, error) {
	if quantity < 0 {
		return nil, domain.Invalid("quantity", quantity, "non_negative")
	}
	c, err := uc.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !c.Set(partID, quantity) {
		return nil, domain.NotFound("cart_item", partID)
	}
	return uc.save(ctx, c)
}

// RemoveItem elimina la línea de partID.
func (uc *UseCase) RemoveItem(ctx context.Context, userID string, partID int64) (*entity.Cart, error) {
	return uc.SetQuantity(ctx, userID, partID, 0)
}

// Clear vacía el carrito.
func (uc *UseCase) Clear(ctx context.Context, userID string) error {
	if err := uc.store.Delete(ctx, userID); err != nil {
		return fmt.Errorf("cart: vaciar: %w", err)
	}
	return nil
}

// Checkout registra todas las líneas como una venta multilínea (mismo TransactionID) y vacía el
// carrito. Si alguna línea no tiene stock no se registra nada y el carrito queda intacto.
func (uc *UseCase) Checkout(ctx context.Context, userID string) (*sales.MultiSale, error) {
	c, err := uc.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(c.Items) == 0 {
		return nil, domain.Invalid("items", 0, "required")
	}

	lines := make([]sales.PartSaleInput, 0, len(c.Items))
	for _, it := range c.Items {
		lines = append(lines, sales.PartSaleInput{PartID: it.PartID, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	res, err := uc.seller.SellParts(ctx, userID, lines)
	if err != nil {
		return nil, err
	}
	if err := uc.store.Delete(ctx, userID); err != nil {
		// La venta ya quedó registrada: solo se avisa.
		uc.log.Warn().Err(err).Str("user_id", userID).Str("transaction_id", res.TransactionID).Msg("no se pudo vaciar el carrito tras el checkout")
	}
	return res, nil
}

func (uc *UseCase) save(ctx context.Context, c *entity.Cart) (*entity.Cart, error) {
	c.UpdatedAt = uc.now()
	if err := uc.store.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("cart: guardar: %w", err)
	}
	return c, nil
}

func quantityOf(c *entity.Cart, partID int64) int {
	for _, it := range c.Items {
		if it.PartID == partID {
			return it.Quantity
		}
	}
	return 0
}
