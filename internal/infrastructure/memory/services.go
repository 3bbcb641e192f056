package memory

import (
	"context"
	"time"

	"github.com/jhoicas/refacciones-ledger/internal/domain"
	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
	"github.com/jhoicas/refacciones-ledger/internal/domain/repository"
)

var _ repository.ServiceRepository = (*ServiceRepo)(nil)

// ServiceRepo órdenes de servicio en memoria.
type ServiceRepo struct {
	v view
}

func (r *ServiceRepo) GetByID(_ context.Context, id int64) (*entity.Service, error) {
	var out *entity.Service
	r.v.read(func(st *state) {
		if sv, ok := st.services[id]; ok {
			cp := *sv
			out = &cp
		}
	})
	return out, nil
}

func (r *ServiceRepo) UpdateCostNote(_ context.Context, id int64, note entity.CostNote) error {
	return r.v.write(func(st *state) error {
		sv, ok := st.services[id]
		if !ok {
			return domain.NotFound("service", id)
		}
		n := note
		sv.CostNote = &n
		sv.UpdatedAt = time.Now()
		return nil
	})
}
