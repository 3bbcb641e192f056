// Package memory implementa todos los puertos de persistencia en memoria (tests y STORAGE_DRIVER=memory).
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/refacciones-ledger/internal/application/inventory"
	"github.com/jhoicas/refacciones-ledger/internal/application/sales"
	"github.com/jhoicas/refacciones-ledger/internal/domain"
	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
	"github.com/jhoicas/refacciones-ledger/internal/domain/repository"
)

var (
	_ inventory.TxRunner = (*Store)(nil)
	_ sales.TxRunner     = (*Store)(nil)
)

type state struct {
	parts        map[int64]*entity.Part
	categories   []*entity.Category
	services     map[int64]*entity.Service
	movements    []*entity.Movement
	partSales    []*entity.SalePart
	serviceSales []*entity.SaleService
	returns      []*entity.Return
	seq          int64
}

func newState() *state {
	return &state{
		parts:    make(map[int64]*entity.Part),
		services: make(map[int64]*entity.Service),
	}
}

// clone copia lo mutable (refacciones y servicios); las filas del ledger son inmutables
// y basta con copiar los slices.
func (s *state) clone() *state {
	c := &state{
		parts:        make(map[int64]*entity.Part, len(s.parts)),
		services:     make(map[int64]*entity.Service, len(s.services)),
		categories:   s.categories,
		movements:    append([]*entity.Movement(nil), s.movements...),
		partSales:    append([]*entity.SalePart(nil), s.partSales...),
		serviceSales: append([]*entity.SaleService(nil), s.serviceSales...),
		returns:      append([]*entity.Return(nil), s.returns...),
		seq:          s.seq,
	}
	for id, p := range s.parts {
		cp := *p
		c.parts[id] = &cp
	}
	for id, sv := range s.services {
		cp := *sv
		c.services[id] = &cp
	}
	return c
}

func (s *state) nextID() int64 {
	s.seq++
	return s.seq
}

// Store almacén en memoria. Las transacciones se serializan con un mutex y trabajan sobre una
// copia del estado que solo se publica en el commit (rollback = descartar la copia).
type Store struct {
	mu        sync.Mutex
	st        *state
	conflicts int
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// InjectConflicts hace que las próximas n transacciones fallen con ConflictError al confirmar.
// Simula la carrera que en PostgreSQL detecta el CHECK o la serialización.
func (s *Store) InjectConflicts(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conflicts = n
}

// AddCategory agrega una categoría al catálogo (seed).
func (s *Store) AddCategory(c entity.Category) *entity.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.st.nextID()
	}
	cp := c
	s.st.categories = append(append([]*entity.Category(nil), s.st.categories...), &cp)
	return &cp
}

// AddPart agrega una refacción al catálogo (seed).
func (s *Store) AddPart(p entity.Part) *entity.Part {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.st.nextID()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now()
	}
	cp := p
	s.st.parts[p.ID] = &cp
	out := cp
	return &out
}

// AddService agrega una orden de servicio (seed).
func (s *Store) AddService(sv entity.Service) *entity.Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sv.ID == 0 {
		sv.ID = s.st.nextID()
	}
	cp := sv
	s.st.services[sv.ID] = &cp
	out := cp
	return &out
}

// Parts repositorio de refacciones fuera de transacción.
func (s *Store) Parts() *PartRepo { return &PartRepo{v: s.view()} }

// Categories repositorio de categorías.
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{v: s.view()} }

// Movements repositorio de movimientos fuera de transacción.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{v: s.view()} }

// Sales repositorio de ventas fuera de transacción.
func (s *Store) Sales() *SaleRepo { return &SaleRepo{v: s.view()} }

// Services repositorio de órdenes de servicio fuera de transacción.
func (s *Store) Services() *ServiceRepo { return &ServiceRepo{v: s.view()} }

// Analytics consultas de agregación.
func (s *Store) Analytics() *AnalyticsRepo { return &AnalyticsRepo{v: s.view()} }

// Run implementa inventory.TxRunner.
func (s *Store) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	partRepo repository.PartRepository,
) error) error {
	return s.tx(ctx, func(v view) error {
		return fn(&MovementRepo{v: v}, &PartRepo{v: v})
	})
}

// RunLedger implementa sales.TxRunner.
func (s *Store) RunLedger(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	partRepo repository.PartRepository,
	saleRepo repository.SaleRepository,
	serviceRepo repository.ServiceRepository,
) error) error {
	return s.tx(ctx, func(v view) error {
		return fn(&MovementRepo{v: v}, &PartRepo{v: v}, &SaleRepo{v: v}, &ServiceRepo{v: v})
	})
}

func (s *Store) tx(ctx context.Context, fn func(v view) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(view{store: s, tx: work}); err != nil {
		return err
	}
	if s.conflicts > 0 {
		s.conflicts--
		return &domain.ConflictError{Resource: "part"}
	}
	s.st = work
	return nil
}

func (s *Store) view() view { return view{store: s} }

// view da acceso al estado: dentro de una tx trabaja sobre la copia (el mutex ya está tomado);
// fuera, toma el mutex para cada operación.
type view struct {
	store *Store
	tx    *state
}

func (v view) read(fn func(st *state)) {
	if v.tx != nil {
		fn(v.tx)
		return
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	fn(v.store.st)
}

// write fuera de transacción publica los cambios directamente (autocommit).
func (v view) write(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	work := v.store.st.clone()
	if err := fn(work); err != nil {
		return err
	}
	v.store.st = work
	return nil
}
