package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
	"github.com/jhoicas/refacciones-ledger/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo agregaciones sobre el estado en memoria. Read-only.
type AnalyticsRepo struct {
	v view
}

func (r *AnalyticsRepo) SaleTotals(_ context.Context, kind entity.SaleKind, from, to time.Time) (decimal.Decimal, int, error) {
	total, count := decimal.Zero, 0
	r.v.read(func(st *state) {
		for _, tx := range salesOf(st, kind) {
			if d := tx.Date(); !d.Before(from) && d.Before(to) {
				total = total.Add(tx.Amount())
				count++
			}
		}
	})
	return total, count, nil
}

func (r *AnalyticsRepo) SaleBuckets(_ context.Context, kind entity.SaleKind, g repository.Granularity, from, to time.Time) ([]repository.BucketRow, error) {
	byStart := map[time.Time]*repository.BucketRow{}
	r.v.read(func(st *state) {
		for _, tx := range salesOf(st, kind) {
			d := tx.Date()
			if d.Before(from) || !d.Before(to) {
				continue
			}
			d = d.In(from.Location())
			start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
			if g == repository.GranularityMonth {
				start = time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
			}
			row, ok := byStart[start]
			if !ok {
				row = &repository.BucketRow{Start: start, Total: decimal.Zero}
				byStart[start] = row
			}
			row.Total = row.Total.Add(tx.Amount())
			row.Count++
		}
	})
	out := make([]repository.BucketRow, 0, len(byStart))
	for _, row := range byStart {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func salesOf(st *state, kind entity.SaleKind) []entity.SaleTransaction {
	var out []entity.SaleTransaction
	switch kind {
	case entity.SaleKindPart:
		for _, s := range st.partSales {
			out = append(out, s)
		}
	case entity.SaleKindService:
		for _, s := range st.serviceSales {
			out = append(out, s)
		}
	case entity.SaleKindReturn:
		for _, s := range st.returns {
			out = append(out, s)
		}
	}
	return out
}
