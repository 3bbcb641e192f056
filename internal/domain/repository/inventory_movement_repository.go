package repository

import (
	"context"

	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
)

// MovementRepository puerto de persistencia del ledger de movimientos. Solo agrega: no hay Update ni Delete.
type MovementRepository interface {
	// Create inserta el movimiento y asigna ID.
	Create(ctx context.Context, m *entity.Movement) error
	// List aplica filtro y orden; devuelve la página y el total filtrado.
	List(ctx context.Context, filter entity.MovementFilter) ([]*entity.Movement, int, error)
	// ListByPart historial completo de una refacción en orden cronológico (timestamp, id).
	ListByPart(ctx context.Context, partID int64) ([]*entity.Movement, error)
}
