package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/refacciones-ledger/internal/domain"
	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
	"github.com/jhoicas/refacciones-ledger/internal/domain/repository"
	"github.com/jhoicas/refacciones-ledger/internal/domain/search"
)

var (
	_ repository.PartRepository     = (*PartRepo)(nil)
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
)

// PartRepo catálogo de refacciones en memoria.
type PartRepo struct {
	v view
}

func (r *PartRepo) GetByID(_ context.Context, id int64) (*entity.Part, error) {
	var out *entity.Part
	r.v.read(func(st *state) {
		if p, ok := st.parts[id]; ok {
			cp := *p
			cp.Category = categoryName(st, cp.CategoryID)
			out = &cp
		}
	})
	return out, nil
}

// GetForUpdate en memoria equivale a GetByID: la transacción ya tiene el mutex.
func (r *PartRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Part, error) {
	return r.GetByID(ctx, id)
}

func (r *PartRepo) UpdateStock(_ context.Context, id int64, stock int) error {
	return r.v.write(func(st *state) error {
		p, ok := st.parts[id]
		if !ok {
			return domain.NotFound("part", id)
		}
		// Equivalente al CHECK (current_stock >= 0) de la tabla.
		if stock < 0 {
			return &domain.ConflictError{Resource: "part", ID: id}
		}
		p.CurrentStock = stock
		p.UpdatedAt = time.Now()
		return nil
	})
}

func (r *PartRepo) List(_ context.Context, f entity.PartFilter) ([]*entity.Part, error) {
	var out []*entity.Part
	r.v.read(func(st *state) {
		want := make(map[int64]bool, len(f.IDs))
		for _, id := range f.IDs {
			want[id] = true
		}
		term := search.Normalize(f.Search)
		for _, p := range st.parts {
			if len(want) > 0 && !want[p.ID] {
				continue
			}
			if f.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *f.CategoryID) {
				continue
			}
			if !search.Match(term, []string{p.Name, p.PartCode, p.Brand}, p.ID) {
				continue
			}
			cp := *p
			cp.Category = categoryName(st, cp.CategoryID)
			out = append(out, &cp)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, f.Limit, f.Offset), nil
}

func categoryName(st *state, id *int64) string {
	if id == nil {
		return ""
	}
	for _, c := range st.categories {
		if c.ID == *id {
			return c.Name
		}
	}
	return ""
}

// CategoryRepo categorías en memoria.
type CategoryRepo struct {
	v view
}

func (r *CategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	var out []*entity.Category
	r.v.read(func(st *state) {
		for _, c := range st.categories {
			cp := *c
			out = append(out, &cp)
		}
	})
	return out, nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
