package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/refacciones-ledger/internal/application/dto"
	"github.com/jhoicas/refacciones-ledger/internal/domain"
	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
	"github.com/jhoicas/refacciones-ledger/internal/domain/repository"
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

// ComputeTimeSeries agrupa las ventas por día (dentro de un mes) o por mes (dentro de un año).
// Sin Fill la serie es dispersa: las cubetas sin actividad se omiten.
func (uc *UseCase) ComputeTimeSeries(ctx context.Context, req dto.TimeSeriesRequest) ([]dto.TimeSeriesBucket, error) {
	g := repository.Granularity(req.Granularity)
	var period, layout string
	switch g {
	case repository.GranularityDay:
		period, layout = PeriodMonth, dayLayout
	case repository.GranularityMonth:
		period, layout = PeriodYear, monthLayout
	default:
		return nil, domain.Invalid("granularity", req.Granularity, "one_of")
	}
	from, to, err := PeriodRange(period, req.Year, req.Month, nil, uc.now().In(uc.loc))
	if err != nil {
		return nil, err
	}

	type bucketsResult struct {
		kind entity.SaleKind
		rows []repository.BucketRow
		err  error
	}
	ch := make(chan bucketsResult, len(entity.SaleKinds))
	for _, k := range entity.SaleKinds {
		go func(k entity.SaleKind) {
			rows, err := uc.analyticsRepo.SaleBuckets(ctx, k, g, from, to)
			ch <- bucketsResult{k, rows, err}
		}(k)
	}

	var series []dto.TimeSeriesBucket
	if req.Fill {
		for t := from; t.Before(to); t = step(t, g) {
			series = append(series, zeroBucket(t.Format(layout)))
		}
	}
	byLabel := make(map[string]*dto.TimeSeriesBucket)
	var firstErr error
	for range entity.SaleKinds {
		r := <-ch
		if r.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("timeseries: %s: %w", r.kind, r.err)
			}
			continue
		}
		for _, row := range r.rows {
			label := row.Start.In(uc.loc).Format(layout)
			b, ok := byLabel[label]
			if !ok {
				zb := zeroBucket(label)
				b = &zb
				byLabel[label] = b
			}
			switch r.kind {
			case entity.SaleKindPart:
				b.PartSalesTotal = b.PartSalesTotal.Add(row.Total)
			case entity.SaleKindService:
				b.ServiceSalesTotal = b.ServiceSalesTotal.Add(row.Total)
			case entity.SaleKindReturn:
				b.ReturnsTotal = b.ReturnsTotal.Add(row.Total)
			}
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	// Las cubetas con datos van después de las de relleno: en la normalización gana la última.
	for _, b := range byLabel {
		series = append(series, *b)
	}
	return NormalizeSeries(series), nil
}

// NormalizeSeries ordena ascendente por cubeta y elimina duplicados: si dos entradas caen en la
// misma cubeta gana la que aparece después. Tolera series dispersas y fuera de orden.
func NormalizeSeries(in []dto.TimeSeriesBucket) []dto.TimeSeriesBucket {
	last := make(map[string]int, len(in))
	for i, b := range in {
		last[b.Bucket] = i
	}
	out := make([]dto.TimeSeriesBucket, 0, len(last))
	for i, b := range in {
		if last[b.Bucket] == i {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Bucket < out[j].Bucket })
	return out
}

func step(t time.Time, g repository.Granularity) time.Time {
	if g == repository.GranularityMonth {
		return t.AddDate(0, 1, 0)
	}
	return t.AddDate(0, 0, 1)
}

func zeroBucket(label string) dto.TimeSeriesBucket {
	return dto.TimeSeriesBucket{
		Bucket:            label,
		PartSalesTotal:    decimal.Zero,
		ServiceSalesTotal: decimal.Zero,
		ReturnsTotal:      decimal.Zero,
	}
}
