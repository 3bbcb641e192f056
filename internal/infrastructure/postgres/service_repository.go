package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/refacciones-ledger/internal/domain"
	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
	"github.com/jhoicas/refacciones-ledger/internal/domain/repository"
)

var _ repository.ServiceRepository = (*ServiceRepo)(nil)

// ServiceRepo órdenes de servicio. El ledger solo lee la orden y escribe el snapshot de la nota de costos.
type ServiceRepo struct {
	q Querier
}

// NewServiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewServiceRepository(q Querier) *ServiceRepo {
	return &ServiceRepo{q: q}
}

// GetByID obtiene una orden de servicio por ID.
func (r *ServiceRepo) GetByID(ctx context.Context, id int64) (*entity.Service, error) {
	var s entity.Service
	err := r.q.QueryRow(ctx, `
		SELECT id, device_label, customer_name, cost_note, updated_at
		FROM services WHERE id = $1`, id,
	).Scan(&s.ID, &s.DeviceLabel, &s.CustomerName, &s.CostNote, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service: %w", err)
	}
	return &s, nil
}

// UpdateCostNote reemplaza el snapshot JSONB de la nota de costos.
func (r *ServiceRepo) UpdateCostNote(ctx context.Context, id int64, note entity.CostNote) error {
	cmd, err := r.q.Exec(ctx, `UPDATE services SET cost_note = $2, updated_at = now() WHERE id = $1`, id, note)
	if err != nil {
		return fmt.Errorf("update cost note: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("service", id)
	}
	return nil
}
