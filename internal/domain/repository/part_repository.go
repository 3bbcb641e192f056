package repository

import (
	"context"

	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
)

// PartRepository puerto de lectura del catálogo de refacciones (DIP).
// El ledger solo escribe CurrentStock, y solo a través de UpdateStock.
// GetByID y GetForUpdate devuelven (nil, nil) si la refacción no existe.
type PartRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Part, error)
	// GetForUpdate lee la refacción bloqueando la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id int64) (*entity.Part, error)
	UpdateStock(ctx context.Context, id int64, stock int) error
	List(ctx context.Context, filter entity.PartFilter) ([]*entity.Part, error)
}
