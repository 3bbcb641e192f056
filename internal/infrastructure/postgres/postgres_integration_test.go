//go:build integration

package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/jhoicas/refacciones-ledger/internal/application/analytics"
	"github.com/jhoicas/refacciones-ledger/internal/application/dto"
	"github.com/jhoicas/refacciones-ledger/internal/application/inventory"
	"github.com/jhoicas/refacciones-ledger/internal/application/ledger"
	"github.com/jhoicas/refacciones-ledger/internal/application/sales"
	"github.com/jhoicas/refacciones-ledger/internal/domain"
	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
	"github.com/jhoicas/refacciones-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/refacciones-ledger/pkg/config"
	"github.com/jhoicas/refacciones-ledger/pkg/logger"
)

// Ejecutar con: go test -tags integration ./internal/infrastructure/postgres/...

// ── Setup ────────────────────────────────────────────────────────────────────

func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcPostgres.WithDatabase("refacciones_test"),
		tcPostgres.WithUsername("ledger"),
		tcPostgres.WithPassword("ledger"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	url, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url, AutoMigrate: true})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	// Segunda aplicación del esquema: debe ser idempotente.
	require.NoError(t, postgres.Migrate(ctx, pool))
	return pool
}

func seedPart(t *testing.T, pool *pgxpool.Pool, name, category string, price int64, stock int) int64 {
	t.Helper()
	ctx := context.Background()
	var catID *int64
	if category != "" {
		var id int64
		require.NoError(t, pool.QueryRow(ctx,
			`INSERT INTO categories (name) VALUES ($1) ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name RETURNING id`,
			category).Scan(&id))
		catID = &id
	}
	var id int64
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO parts (name, part_code, brand, category_id, price, current_stock) VALUES ($1, $2, 'Genérica', $3, $4, $5) RETURNING id`,
		name, "RC-"+name, catID, decimal.NewFromInt(price), stock).Scan(&id))
	return id
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestPostgres_FlujoCompleto(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	log := logger.Nop()

	partID := seedPart(t, pool, "Válvula de agua", "Válvulas", 180, 0)
	var serviceID int64
	require.NoError(t, pool.QueryRow(ctx, `INSERT INTO services (device_label, customer_name) VALUES ('Lavadora LG', 'Rosa') RETURNING id`).Scan(&serviceID))

	txRunner := postgres.NewTxRunner(pool)
	parts := postgres.NewPartRepository(pool)
	movs := postgres.NewMovementRepository(pool)
	salesRepo := postgres.NewSaleRepository(pool)
	services := postgres.NewServiceRepository(pool)

	inv := inventory.NewRegisterMovementUseCase(txRunner, parts, movs, log)
	_, err := inv.RegisterEntry(ctx, "u", inventory.EntryInput{PartID: partID, Quantity: 10, UnitPrice: ptr(decimal.NewFromInt(120))})
	require.NoError(t, err)

	wf := sales.NewWorkflow(txRunner, log)
	sold, err := wf.SellPart(ctx, "u", sales.PartSaleInput{PartID: partID, Quantity: 3})
	require.NoError(t, err)
	saleID := sold.Sale.ID
	_, err = wf.ReturnPart(ctx, "u", sales.ReturnSaleInput{PartID: partID, Quantity: 1, RelatedSaleID: &saleID, Reason: "defecto"})
	require.NoError(t, err)

	returned, err := salesRepo.SumReturnsForSale(ctx, saleID)
	require.NoError(t, err)
	assert.Equal(t, 1, returned)
	_, err = wf.ReturnPart(ctx, "u", sales.ReturnSaleInput{PartID: partID, Quantity: 3, RelatedSaleID: &saleID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "solo quedan 2 por devolver")

	_, err = wf.SellPart(ctx, "u", sales.PartSaleInput{PartID: partID, Quantity: 50})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	su := sales.NewSalesUseCase(txRunner, parts, salesRepo, services, log)
	_, err = su.RecordServiceSale(ctx, "u", sales.ServiceSaleInput{
		ServiceID: serviceID,
		LaborCost: decimal.NewFromInt(300),
		Parts:     []entity.ServicePart{{Name: "Válvula", Quantity: 1, Price: decimal.NewFromInt(180)}},
	})
	require.NoError(t, err)

	// Stock y replay
	report, err := inv.StockReport(ctx, partID)
	require.NoError(t, err)
	assert.Equal(t, 8, report.Part.CurrentStock)
	assert.True(t, report.Consistent)

	// Nota de costos
	svc, err := services.GetByID(ctx, serviceID)
	require.NoError(t, err)
	require.NotNil(t, svc.CostNote)
	assert.True(t, decimal.NewFromInt(480).Equal(svc.CostNote.Total))
	require.Len(t, svc.CostNote.Parts, 1)

	// Feed unificado con búsqueda sin acentos
	q := ledger.NewQueryUseCase(salesRepo, log)
	page, err := q.QueryLedger(ctx, ledger.LedgerQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Count)
	assert.Equal(t, entity.SaleKindService, page.Results[0].Kind())

	page, err = q.QueryLedger(ctx, ledger.LedgerQuery{Search: "VALVULA"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Count)

	// Estadísticas del día
	an := analytics.NewUseCase(postgres.NewAnalyticsRepository(pool), movs, parts, log, analytics.WithLocation(time.UTC))
	snap, err := an.ComputeStatistics(ctx, dto.StatisticsRequest{Period: analytics.PeriodDay})
	require.NoError(t, err)
	assert.Equal(t, 1, snap.PartSales.Count)
	assert.True(t, decimal.NewFromInt(540).Equal(snap.PartSales.Total))
	assert.Equal(t, 1, snap.Returns.Count)

	series, err := an.ComputeTimeSeries(ctx, dto.TimeSeriesRequest{Granularity: "day"})
	require.NoError(t, err)
	require.Len(t, series, 1)

	top, err := an.TopCategories(ctx, entity.MovementFilter{}, 5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, dto.CategoryVolume{Category: "Válvulas", Volume: 14}, top[0])

	// Append-only
	_, err = pool.Exec(ctx, `DELETE FROM inventory_movements`)
	assert.Error(t, err)
}

func TestPostgres_SalidasConcurrentesNoSobregiran(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	partID := seedPart(t, pool, "Relay", "", 40, 5)

	inv := inventory.NewRegisterMovementUseCase(postgres.NewTxRunner(pool), postgres.NewPartRepository(pool), postgres.NewMovementRepository(pool), logger.Nop())

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := inv.RegisterExit(ctx, "u", inventory.ExitInput{PartID: partID, Quantity: 1}); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, ok)
	p, err := postgres.NewPartRepository(pool).GetByID(ctx, partID)
	require.NoError(t, err)
	assert.Equal(t, 0, p.CurrentStock)

	_, err = pool.Exec(ctx, `UPDATE parts SET current_stock = -1 WHERE id = $1`, partID)
	assert.Error(t, err, "el CHECK debe rechazar stock negativo")
}

func ptr[T any](v T) *T { return &v }
