package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/refacciones-ledger/internal/application/dto"
	"github.com/jhoicas/refacciones-ledger/internal/domain"
	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
)

// Períodos de ComputeStatistics.
const (
	PeriodDay   = "day"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

// PeriodRange resuelve [from, to) del período. Los componentes omitidos toman la fecha de now,
// salvo el día de un período diario con año o mes explícitos, que es obligatorio.
func PeriodRange(period string, year, month, day *int, now time.Time) (time.Time, time.Time, error) {
	if period == PeriodDay && day == nil && (year != nil || month != nil) {
		return time.Time{}, time.Time{}, domain.Invalid("day", nil, "required")
	}
	y, m, d := now.Year(), int(now.Month()), now.Day()
	if year != nil {
		if *year < 1970 || *year > 9999 {
			return time.Time{}, time.Time{}, &domain.ValidationError{Field: "year", Value: *year, Rule: "range", Limit: "1970..9999"}
		}
		y = *year
	}
	if month != nil {
		if *month < 1 || *month > 12 {
			return time.Time{}, time.Time{}, &domain.ValidationError{Field: "month", Value: *month, Rule: "range", Limit: "1..12"}
		}
		m = *month
	}
	if day != nil {
		d = *day
	}
	loc := now.Location()
	switch period {
	case PeriodDay:
		from := time.Date(y, time.Month(m), d, 0, 0, 0, 0, loc)
		if d < 1 || from.Day() != d {
			last := daysIn(y, time.Month(m), loc)
			return time.Time{}, time.Time{}, &domain.ValidationError{Field: "day", Value: d, Rule: "range", Limit: fmt.Sprintf("1..%d", last)}
		}
		return from, from.AddDate(0, 0, 1), nil
	case PeriodMonth:
		from := time.Date(y, time.Month(m), 1, 0, 0, 0, 0, loc)
		return from, from.AddDate(0, 1, 0), nil
	case PeriodYear:
		from := time.Date(y, 1, 1, 0, 0, 0, 0, loc)
		return from, from.AddDate(1, 0, 0), nil
	}
	return time.Time{}, time.Time{}, domain.Invalid("period", period, "one_of")
}

func daysIn(y int, m time.Month, loc *time.Location) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, loc).Day()
}

// ComputeStatistics suma y cuenta las ventas de cada clase en el período. Un período sin
// actividad da {0, 0} en las tres clases, nunca error.
func (uc *UseCase) ComputeStatistics(ctx context.Context, req dto.StatisticsRequest) (*dto.StatisticsSnapshot, error) {
	from, to, err := PeriodRange(req.Period, req.Year, req.Month, req.Day, uc.now().In(uc.loc))
	if err != nil {
		return nil, err
	}
	return uc.statistics(ctx, req.Period, from, to)
}

func (uc *UseCase) statistics(ctx context.Context, period string, from, to time.Time) (*dto.StatisticsSnapshot, error) {
	type totalsResult struct {
		kind  entity.SaleKind
		total decimal.Decimal
		count int
		err   error
	}

	// ── Una goroutine por clase ────────────────────────────────────────────────
	ch := make(chan totalsResult, len(entity.SaleKinds))
	for _, k := range entity.SaleKinds {
		go func(k entity.SaleKind) {
			total, count, err := uc.analyticsRepo.SaleTotals(ctx, k, from, to)
			ch <- totalsResult{k, total, count, err}
		}(k)
	}

	snap := &dto.StatisticsSnapshot{
		Period:       period,
		From:         from,
		To:           to,
		PartSales:    dto.KindTotals{Total: decimal.Zero},
		ServiceSales: dto.KindTotals{Total: decimal.Zero},
		Returns:      dto.KindTotals{Total: decimal.Zero},
	}
	var firstErr error
	for range entity.SaleKinds {
		r := <-ch
		if r.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("statistics: %s: %w", r.kind, r.err)
			}
			continue
		}
		kt := dto.KindTotals{Total: r.total.Round(2), Count: r.count}
		switch r.kind {
		case entity.SaleKindPart:
			snap.PartSales = kt
		case entity.SaleKindService:
			snap.ServiceSales = kt
		case entity.SaleKindReturn:
			snap.Returns = kt
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return snap, nil
}
