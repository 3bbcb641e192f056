package repository

import (
	"context"

	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
)

// ServiceRepository puerto hacia el almacén de órdenes de servicio (colaborador externo).
type ServiceRepository interface {
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id int64) (*entity.Service, error)
	// UpdateCostNote guarda el snapshot de la nota de costos (optimización de lectura).
	UpdateCostNote(ctx context.Context, id int64, note entity.CostNote) error
}
