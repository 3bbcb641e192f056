package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
	"github.com/jhoicas/refacciones-ledger/internal/domain/repository"
	"github.com/jhoicas/refacciones-ledger/internal/domain/search"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo ledger de movimientos en memoria (append-only).
type MovementRepo struct {
	v view
}

func (r *MovementRepo) Create(_ context.Context, m *entity.Movement) error {
	return r.v.write(func(st *state) error {
		m.ID = st.nextID()
		cp := *m
		st.movements = append(st.movements, &cp)
		return nil
	})
}

func (r *MovementRepo) List(_ context.Context, f entity.MovementFilter) ([]*entity.Movement, int, error) {
	var out []*entity.Movement
	r.v.read(func(st *state) {
		for _, m := range st.movements {
			p := st.parts[m.PartID]
			if f.PartID != nil && m.PartID != *f.PartID {
				continue
			}
			if f.CategoryID != nil && (p == nil || p.CategoryID == nil || *p.CategoryID != *f.CategoryID) {
				continue
			}
			if f.From != nil && m.Timestamp.Before(*f.From) {
				continue
			}
			if f.To != nil && !m.Timestamp.Before(*f.To) {
				continue
			}
			if f.Search != "" {
				fields := []string{}
				if p != nil {
					fields = append(fields, p.Name, p.PartCode)
				}
				if !search.Match(f.Search, fields, m.PartID) {
					continue
				}
			}
			cp := *m
			out = append(out, &cp)
		}
	})
	sortMovements(out, f.Ordering)
	total := len(out)
	return paginate(out, f.Limit, f.Offset), total, nil
}

func (r *MovementRepo) ListByPart(_ context.Context, partID int64) ([]*entity.Movement, error) {
	var out []*entity.Movement
	r.v.read(func(st *state) {
		for _, m := range st.movements {
			if m.PartID == partID {
				cp := *m
				out = append(out, &cp)
			}
		}
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID < out[j].ID
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

func sortMovements(items []*entity.Movement, ordering string) {
	desc := len(ordering) > 0 && ordering[0] == '-'
	field := ordering
	if desc {
		field = ordering[1:]
	}
	cmp := func(a, b *entity.Movement) int {
		switch field {
		case "cantidad":
			return a.Quantity - b.Quantity
		case "precio_unitario":
			return priceOf(a).Cmp(priceOf(b))
		default:
			return a.Timestamp.Compare(b.Timestamp)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		c := cmp(items[i], items[j])
		if c == 0 {
			c = int(items[i].ID - items[j].ID)
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func priceOf(m *entity.Movement) decimal.Decimal {
	if m.UnitPrice == nil {
		return decimal.Zero
	}
	return *m.UnitPrice
}
