package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/refacciones-ledger/internal/application/analytics"
	"github.com/jhoicas/refacciones-ledger/internal/application/dto"
	"github.com/jhoicas/refacciones-ledger/internal/application/inventory"
	"github.com/jhoicas/refacciones-ledger/internal/application/sales"
	"github.com/jhoicas/refacciones-ledger/internal/domain"
	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
	"github.com/jhoicas/refacciones-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/refacciones-ledger/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var clock = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func newUseCase(store *memory.Store, now time.Time) *analytics.UseCase {
	return analytics.NewUseCase(store.Analytics(), store.Movements(), store.Parts(), logger.Nop(),
		analytics.WithClock(func() time.Time { return now }),
		analytics.WithLocation(time.UTC),
	)
}

// ──────────────────────────────────────────────────────────────────────────────
// Estadísticas
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeStatistics_PeriodoVacioEsCero(t *testing.T) {
	uc := newUseCase(memory.NewStore(), clock)

	snap, err := uc.ComputeStatistics(context.Background(), dto.StatisticsRequest{Period: analytics.PeriodYear, Year: ptr(2001)})
	require.NoError(t, err)

	for _, kt := range []dto.KindTotals{snap.PartSales, snap.ServiceSales, snap.Returns} {
		assert.True(t, kt.Total.IsZero())
		assert.Equal(t, 0, kt.Count)
	}
	assert.Equal(t, time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC), snap.From)
	assert.Equal(t, time.Date(2002, 1, 1, 0, 0, 0, 0, time.UTC), snap.To)
}

func TestComputeStatistics_DiaConEntradaSalidaYDevolucion(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	part := store.AddPart(entity.Part{Name: "Bomba de agua", Price: d(250)})

	inv := inventory.NewRegisterMovementUseCase(store, store.Parts(), store.Movements(), logger.Nop())
	_, err := inv.RegisterEntry(ctx, "u", inventory.EntryInput{PartID: part.ID, Quantity: 10, UnitPrice: ptr(d(180))})
	require.NoError(t, err)

	wf := sales.NewWorkflow(store, logger.Nop())
	sold, err := wf.SellPart(ctx, "u", sales.PartSaleInput{PartID: part.ID, Quantity: 3, SaleDate: ptr(clock)})
	require.NoError(t, err)
	saleID := sold.Sale.ID
	_, err = wf.ReturnPart(ctx, "u", sales.ReturnSaleInput{PartID: part.ID, Quantity: 1, RelatedSaleID: &saleID, SaleDate: ptr(clock.Add(time.Hour))})
	require.NoError(t, err)
	// Venta de otro día: no debe contar.
	_, err = wf.SellPart(ctx, "u", sales.PartSaleInput{PartID: part.ID, Quantity: 1, SaleDate: ptr(clock.AddDate(0, 0, -1))})
	require.NoError(t, err)

	uc := newUseCase(store, clock)
	snap, err := uc.ComputeStatistics(ctx, dto.StatisticsRequest{Period: analytics.PeriodDay})
	require.NoError(t, err)

	assert.True(t, d(750).Equal(snap.PartSales.Total), "got %s", snap.PartSales.Total)
	assert.Equal(t, 1, snap.PartSales.Count)
	assert.True(t, d(250).Equal(snap.Returns.Total), "got %s", snap.Returns.Total)
	assert.Equal(t, 1, snap.Returns.Count)
	assert.Equal(t, 0, snap.ServiceSales.Count)

	p, err := store.Parts().GetByID(ctx, part.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, p.CurrentStock)
}

func TestComputeStatistics_Mes(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := store.AddService(entity.Service{DeviceLabel: "Refrigerador LG"})
	uc := sales.NewSalesUseCase(store, store.Parts(), store.Sales(), store.Services(), logger.Nop())
	_, err := uc.RecordServiceSale(ctx, "u", sales.ServiceSaleInput{ServiceID: svc.ID, LaborCost: d(400), SaleDate: ptr(clock)})
	require.NoError(t, err)
	_, err = uc.RecordServiceSale(ctx, "u", sales.ServiceSaleInput{ServiceID: svc.ID, LaborCost: d(100), SaleDate: ptr(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))})
	require.NoError(t, err)
	_, err = uc.RecordServiceSale(ctx, "u", sales.ServiceSaleInput{ServiceID: svc.ID, LaborCost: d(999), SaleDate: ptr(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))})
	require.NoError(t, err)

	snap, err := newUseCase(store, clock).ComputeStatistics(ctx, dto.StatisticsRequest{Period: analytics.PeriodMonth})
	require.NoError(t, err)
	assert.Equal(t, 2, snap.ServiceSales.Count)
	assert.True(t, d(500).Equal(snap.ServiceSales.Total))
}

func TestComputeStatistics_Validacion(t *testing.T) {
	uc := newUseCase(memory.NewStore(), clock)
	ctx := context.Background()

	cases := []struct {
		name  string
		req   dto.StatisticsRequest
		field string
	}{
		{"período desconocido", dto.StatisticsRequest{Period: "week"}, "period"},
		{"mes fuera de rango", dto.StatisticsRequest{Period: analytics.PeriodMonth, Month: ptr(13)}, "month"},
		{"30 de febrero", dto.StatisticsRequest{Period: analytics.PeriodDay, Month: ptr(2), Day: ptr(30)}, "day"},
		{"día cero", dto.StatisticsRequest{Period: analytics.PeriodDay, Day: ptr(0)}, "day"},
		{"mes sin día", dto.StatisticsRequest{Period: analytics.PeriodDay, Month: ptr(2)}, "day"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.ComputeStatistics(ctx, tc.req)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestPeriodRange_DiaObligatorioConMesExplicito(t *testing.T) {
	// el 31 del mes actual no debe colarse como día de febrero
	endOfMonth := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)

	_, _, err := analytics.PeriodRange(analytics.PeriodDay, nil, ptr(2), nil, endOfMonth)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "day", ve.Field)
	assert.Equal(t, "required", ve.Rule)

	from, _, err := analytics.PeriodRange(analytics.PeriodDay, nil, nil, nil, endOfMonth)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), from)
}

func TestPeriodRange_BisiestoAceptaVeintinueveDeFebrero(t *testing.T) {
	from, to, err := analytics.PeriodRange(analytics.PeriodDay, ptr(2028), ptr(2), ptr(29), clock)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2028, 2, 29, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2028, 3, 1, 0, 0, 0, 0, time.UTC), to)
}

// ──────────────────────────────────────────────────────────────────────────────
// Serie temporal
// ──────────────────────────────────────────────────────────────────────────────

func seedSeries(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	part := store.AddPart(entity.Part{Name: "Termostato", Price: d(100), CurrentStock: 50})
	svc := store.AddService(entity.Service{DeviceLabel: "Estufa Mabe"})
	uc := sales.NewSalesUseCase(store, store.Parts(), store.Sales(), store.Services(), logger.Nop())

	day := func(m time.Month, dd int) *time.Time { return ptr(time.Date(2026, m, dd, 10, 0, 0, 0, time.UTC)) }
	_, err := uc.RecordPartSale(ctx, "u", sales.PartSaleInput{PartID: part.ID, Quantity: 2, SaleDate: day(3, 7)})
	require.NoError(t, err)
	_, err = uc.RecordPartSale(ctx, "u", sales.PartSaleInput{PartID: part.ID, Quantity: 1, SaleDate: day(3, 7)})
	require.NoError(t, err)
	_, err = uc.RecordServiceSale(ctx, "u", sales.ServiceSaleInput{ServiceID: svc.ID, LaborCost: d(300), SaleDate: day(3, 2)})
	require.NoError(t, err)
	_, err = uc.RecordReturn(ctx, "u", sales.ReturnSaleInput{PartID: part.ID, Quantity: 1, SaleDate: day(3, 9)})
	require.NoError(t, err)
	_, err = uc.RecordPartSale(ctx, "u", sales.PartSaleInput{PartID: part.ID, Quantity: 5, SaleDate: day(1, 20)})
	require.NoError(t, err)
	return store
}

func TestComputeTimeSeries_DiariaDispersa(t *testing.T) {
	uc := newUseCase(seedSeries(t), clock)

	series, err := uc.ComputeTimeSeries(context.Background(), dto.TimeSeriesRequest{Granularity: "day"})
	require.NoError(t, err)

	require.Len(t, series, 3)
	assert.Equal(t, "2026-03-02", series[0].Bucket)
	assert.True(t, d(300).Equal(series[0].ServiceSalesTotal))
	assert.Equal(t, "2026-03-07", series[1].Bucket)
	assert.True(t, d(300).Equal(series[1].PartSalesTotal))
	assert.Equal(t, "2026-03-09", series[2].Bucket)
	assert.True(t, d(100).Equal(series[2].ReturnsTotal))
}

func TestComputeTimeSeries_DiariaConRelleno(t *testing.T) {
	uc := newUseCase(seedSeries(t), clock)

	series, err := uc.ComputeTimeSeries(context.Background(), dto.TimeSeriesRequest{Granularity: "day", Fill: true})
	require.NoError(t, err)

	require.Len(t, series, 31)
	assert.Equal(t, "2026-03-01", series[0].Bucket)
	assert.True(t, series[0].PartSalesTotal.IsZero())
	assert.Equal(t, "2026-03-07", series[6].Bucket)
	assert.True(t, d(300).Equal(series[6].PartSalesTotal))
	assert.Equal(t, "2026-03-31", series[30].Bucket)
}

func TestComputeTimeSeries_Mensual(t *testing.T) {
	uc := newUseCase(seedSeries(t), clock)

	series, err := uc.ComputeTimeSeries(context.Background(), dto.TimeSeriesRequest{Granularity: "month", Year: ptr(2026)})
	require.NoError(t, err)

	require.Len(t, series, 2)
	assert.Equal(t, "2026-01", series[0].Bucket)
	assert.True(t, d(500).Equal(series[0].PartSalesTotal))
	assert.Equal(t, "2026-03", series[1].Bucket)
	assert.True(t, d(300).Equal(series[1].PartSalesTotal))
	assert.True(t, d(300).Equal(series[1].ServiceSalesTotal))
	assert.True(t, d(100).Equal(series[1].ReturnsTotal))
}

func TestComputeTimeSeries_GranularidadInvalida(t *testing.T) {
	uc := newUseCase(memory.NewStore(), clock)
	_, err := uc.ComputeTimeSeries(context.Background(), dto.TimeSeriesRequest{Granularity: "week"})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestNormalizeSeries_OrdenaYGanaLaUltima(t *testing.T) {
	in := []dto.TimeSeriesBucket{
		{Bucket: "2026-03", PartSalesTotal: d(1)},
		{Bucket: "2026-01", PartSalesTotal: d(2)},
		{Bucket: "2026-03", PartSalesTotal: d(3)},
	}
	out := analytics.NormalizeSeries(in)

	require.Len(t, out, 2)
	assert.Equal(t, "2026-01", out[0].Bucket)
	assert.Equal(t, "2026-03", out[1].Bucket)
	assert.True(t, d(3).Equal(out[1].PartSalesTotal))
}

// ──────────────────────────────────────────────────────────────────────────────
// Top categorías
// ──────────────────────────────────────────────────────────────────────────────

func TestTopCategoriesByVolume_OrdenEstableYSinCategoria(t *testing.T) {
	cats := map[int64]string{1: "Compresores", 2: "Motores", 3: "Compresores", 4: "Filtros"}
	resolve := func(id int64) string { return cats[id] }
	movs := []*entity.Movement{
		{PartID: 2, Quantity: 4},
		{PartID: 1, Quantity: 3},
		{PartID: 9, Quantity: 2}, // sin categoría
		{PartID: 3, Quantity: 1},
		{PartID: 4, Quantity: 4},
	}

	top := analytics.TopCategoriesByVolume(movs, resolve, 3)

	require.Len(t, top, 3)
	assert.Equal(t, dto.CategoryVolume{Category: "Motores", Volume: 4}, top[0])
	assert.Equal(t, dto.CategoryVolume{Category: "Compresores", Volume: 4}, top[1])
	assert.Equal(t, dto.CategoryVolume{Category: "Filtros", Volume: 4}, top[2])

	all := analytics.TopCategoriesByVolume(movs, resolve, 10)
	require.Len(t, all, 4)
	assert.Equal(t, entity.UncategorizedLabel, all[3].Category)
}

func TestTopCategoriesByVolume_SinMovimientos(t *testing.T) {
	top := analytics.TopCategoriesByVolume(nil, func(int64) string { return "" }, 0)
	assert.NotNil(t, top)
	assert.Empty(t, top)
}

func TestTopCategories_DesdeMovimientos(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	comp := store.AddCategory(entity.Category{Name: "Compresores"})
	a := store.AddPart(entity.Part{Name: "Compresor 1/4", CategoryID: &comp.ID, Price: d(900)})
	b := store.AddPart(entity.Part{Name: "Relay genérico", Price: d(40)})

	inv := inventory.NewRegisterMovementUseCase(store, store.Parts(), store.Movements(), logger.Nop())
	_, err := inv.RegisterEntry(ctx, "u", inventory.EntryInput{PartID: a.ID, Quantity: 3})
	require.NoError(t, err)
	_, err = inv.RegisterEntry(ctx, "u", inventory.EntryInput{PartID: b.ID, Quantity: 8})
	require.NoError(t, err)
	_, err = inv.RegisterExit(ctx, "u", inventory.ExitInput{PartID: a.ID, Quantity: 2})
	require.NoError(t, err)

	top, err := newUseCase(store, clock).TopCategories(ctx, entity.MovementFilter{}, 0)
	require.NoError(t, err)

	require.Len(t, top, 2)
	assert.Equal(t, dto.CategoryVolume{Category: entity.UncategorizedLabel, Volume: 8}, top[0])
	assert.Equal(t, dto.CategoryVolume{Category: "Compresores", Volume: 5}, top[1])
}

// ──────────────────────────────────────────────────────────────────────────────
// Dashboard
// ──────────────────────────────────────────────────────────────────────────────

func TestDashboard_ResumenDelMes(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	store := memory.NewStore()
	part := store.AddPart(entity.Part{Name: "Capacitor", Price: d(60), CurrentStock: 10})

	wf := sales.NewWorkflow(store, logger.Nop())
	_, err := wf.SellPart(ctx, "u", sales.PartSaleInput{PartID: part.ID, Quantity: 2, SaleDate: ptr(now)})
	require.NoError(t, err)

	summary, err := newUseCase(store, now).Dashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Today.PartSales.Count)
	assert.Equal(t, 1, summary.Month.PartSales.Count)
	assert.True(t, d(120).Equal(summary.Month.PartSales.Total))
	require.Len(t, summary.TopCategories, 1)
	assert.Equal(t, 2, summary.TopCategories[0].Volume)
	assert.Contains(t, summary.DateLabel, now.Format("2006"))
}
