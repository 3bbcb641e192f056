package repository

import (
	"context"

	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
)

// SaleRepository puerto del ledger de ventas: tres tablas append-only, una por clase.
// Los listados van de la más reciente a la más antigua (sale_date DESC, id DESC) y devuelven el total filtrado.
type SaleRepository interface {
	CreatePartSale(ctx context.Context, s *entity.SalePart) error
	CreateServiceSale(ctx context.Context, s *entity.SaleService) error
	CreateReturn(ctx context.Context, r *entity.Return) error

	// GetPartSale devuelve (nil, nil) si no existe.
	GetPartSale(ctx context.Context, id int64) (*entity.SalePart, error)
	// SumReturnsForSale suma las cantidades ya devueltas contra la venta saleID (0 si no hay).
	SumReturnsForSale(ctx context.Context, saleID int64) (int, error)

	ListPartSales(ctx context.Context, filter entity.SaleFilter) ([]*entity.SalePart, int, error)
	ListServiceSales(ctx context.Context, filter entity.SaleFilter) ([]*entity.SaleService, int, error)
	ListReturns(ctx context.Context, filter entity.SaleFilter) ([]*entity.Return, int, error)
}
