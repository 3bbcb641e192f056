package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/refacciones-ledger/internal/application/dto"
	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
)

// Dashboard resumen del día y del mes en curso más el top de categorías del mes.
//
// Tres llamadas en paralelo:
//  1. estadísticas de hoy
//  2. estadísticas del mes
//  3. top categorías por volumen de movimientos del mes
func (uc *UseCase) Dashboard(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now().In(uc.loc)

	// ── Rangos de fecha ────────────────────────────────────────────────────────
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	type statsResult struct {
		snap *dto.StatisticsSnapshot
		err  error
	}
	type topResult struct {
		top []dto.CategoryVolume
		err error
	}

	todayCh := make(chan statsResult, 1)
	monthCh := make(chan statsResult, 1)
	topCh := make(chan topResult, 1)

	go func() {
		s, err := uc.statistics(ctx, PeriodDay, todayStart, todayStart.AddDate(0, 0, 1))
		todayCh <- statsResult{s, err}
	}()
	go func() {
		s, err := uc.statistics(ctx, PeriodMonth, monthStart, monthStart.AddDate(0, 1, 0))
		monthCh <- statsResult{s, err}
	}()
	go func() {
		monthEnd := monthStart.AddDate(0, 1, 0)
		top, err := uc.TopCategories(ctx, entity.MovementFilter{From: &monthStart, To: &monthEnd}, DefaultTopN)
		topCh <- topResult{top, err}
	}()

	today := <-todayCh
	month := <-monthCh
	top := <-topCh

	if today.err != nil {
		return nil, fmt.Errorf("dashboard: estadísticas de hoy: %w", today.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: estadísticas del mes: %w", month.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("dashboard: top categorías: %w", top.err)
	}

	return &dto.DashboardSummaryDTO{
		Today:         *today.snap,
		Month:         *month.snap,
		TopCategories: top.top,
		DateLabel:     monthLabel(now),
	}, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
