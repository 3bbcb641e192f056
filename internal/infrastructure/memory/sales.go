package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
	"github.com/jhoicas/refacciones-ledger/internal/domain/repository"
	"github.com/jhoicas/refacciones-ledger/internal/domain/search"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ledger de ventas en memoria: una lista por clase.
type SaleRepo struct {
	v view
}

func (r *SaleRepo) CreatePartSale(_ context.Context, s *entity.SalePart) error {
	return r.v.write(func(st *state) error {
		s.ID = st.nextID()
		cp := *s
		st.partSales = append(st.partSales, &cp)
		return nil
	})
}

func (r *SaleRepo) CreateServiceSale(_ context.Context, s *entity.SaleService) error {
	return r.v.write(func(st *state) error {
		s.ID = st.nextID()
		cp := *s
		cp.Parts = append([]entity.ServicePart(nil), s.Parts...)
		st.serviceSales = append(st.serviceSales, &cp)
		return nil
	})
}

func (r *SaleRepo) CreateReturn(_ context.Context, rt *entity.Return) error {
	return r.v.write(func(st *state) error {
		rt.ID = st.nextID()
		cp := *rt
		st.returns = append(st.returns, &cp)
		return nil
	})
}

func (r *SaleRepo) GetPartSale(_ context.Context, id int64) (*entity.SalePart, error) {
	var out *entity.SalePart
	r.v.read(func(st *state) {
		for _, s := range st.partSales {
			if s.ID == id {
				cp := *s
				out = &cp
				return
			}
		}
	})
	return out, nil
}

func (r *SaleRepo) SumReturnsForSale(_ context.Context, saleID int64) (int, error) {
	var n int
	r.v.read(func(st *state) {
		for _, rt := range st.returns {
			if rt.RelatedSaleID != nil && *rt.RelatedSaleID == saleID {
				n += rt.Quantity
			}
		}
	})
	return n, nil
}

func (r *SaleRepo) ListPartSales(_ context.Context, f entity.SaleFilter) ([]*entity.SalePart, int, error) {
	var out []*entity.SalePart
	r.v.read(func(st *state) {
		for _, s := range st.partSales {
			if inWindow(s.SaleDate, f) && search.Match(f.Search, []string{s.PartName, s.BrandName}, s.ID, s.PartID) {
				cp := *s
				out = append(out, &cp)
			}
		}
	})
	sortNewestFirst(out)
	total := len(out)
	return paginate(out, f.Limit, f.Offset), total, nil
}

func (r *SaleRepo) ListServiceSales(_ context.Context, f entity.SaleFilter) ([]*entity.SaleService, int, error) {
	var out []*entity.SaleService
	r.v.read(func(st *state) {
		for _, s := range st.serviceSales {
			if inWindow(s.SaleDate, f) && search.Match(f.Search, []string{s.DeviceLabel, s.Technician}, s.ID, s.ServiceID) {
				cp := *s
				cp.Parts = append([]entity.ServicePart(nil), s.Parts...)
				out = append(out, &cp)
			}
		}
	})
	sortNewestFirst(out)
	total := len(out)
	return paginate(out, f.Limit, f.Offset), total, nil
}

func (r *SaleRepo) ListReturns(_ context.Context, f entity.SaleFilter) ([]*entity.Return, int, error) {
	var out []*entity.Return
	r.v.read(func(st *state) {
		for _, s := range st.returns {
			if inWindow(s.SaleDate, f) && search.Match(f.Search, []string{s.PartName}, s.ID, s.PartID) {
				cp := *s
				out = append(out, &cp)
			}
		}
	})
	sortNewestFirst(out)
	total := len(out)
	return paginate(out, f.Limit, f.Offset), total, nil
}

func inWindow(t time.Time, f entity.SaleFilter) bool {
	if f.From != nil && t.Before(*f.From) {
		return false
	}
	if f.To != nil && !t.Before(*f.To) {
		return false
	}
	return true
}

func sortNewestFirst[T entity.SaleTransaction](items []T) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Date().Equal(b.Date()) {
			return a.SaleID() > b.SaleID()
		}
		return a.Date().After(b.Date())
	})
}
