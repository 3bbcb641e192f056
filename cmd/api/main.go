package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/refacciones-ledger/internal/application/analytics"
	"github.com/jhoicas/refacciones-ledger/internal/application/cart"
	"github.com/jhoicas/refacciones-ledger/internal/application/inventory"
	"github.com/jhoicas/refacciones-ledger/internal/application/ledger"
	"github.com/jhoicas/refacciones-ledger/internal/application/report"
	"github.com/jhoicas/refacciones-ledger/internal/application/sales"
	"github.com/jhoicas/refacciones-ledger/internal/application/usecase"
	"github.com/jhoicas/refacciones-ledger/internal/domain/repository"
	"github.com/jhoicas/refacciones-ledger/internal/infrastructure/excel"
	"github.com/jhoicas/refacciones-ledger/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/refacciones-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/refacciones-ledger/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/refacciones-ledger/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/refacciones-ledger/internal/interfaces/http"
	"github.com/jhoicas/refacciones-ledger/pkg/config"
	"github.com/jhoicas/refacciones-ledger/pkg/logger"
)

// txRunner lo implementan postgres.TxRunner y memory.Store.
type txRunner interface {
	inventory.TxRunner
	sales.TxRunner
}

// stores adaptadores de persistencia según STORAGE_DRIVER.
type stores struct {
	tx         txRunner
	parts      repository.PartRepository
	categories repository.CategoryRepository
	movements  repository.MovementRepository
	sales      repository.SaleRepository
	services   repository.ServiceRepository
	analytics  repository.AnalyticsRepository
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.StorageDriver).
		Str("timezone", cfg.App.Timezone).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET requerido")
	}

	ctx := context.Background()
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer st.close()

	var cartStore cart.Store = memory.NewCartStore()
	if cfg.Redis.URL != "" {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		cartStore = infraredis.NewCartStore(rdb, cfg.Redis.CartTTL())
	}

	registerMovementUC := inventory.NewRegisterMovementUseCase(st.tx, st.parts, st.movements, log)
	workflow := sales.NewWorkflow(st.tx, log)
	salesUC := sales.NewSalesUseCase(st.tx, st.parts, st.sales, st.services, log)
	ledgerUC := ledger.NewQueryUseCase(st.sales, log)
	analyticsUC := appanalytics.NewUseCase(st.analytics, st.movements, st.parts, log,
		appanalytics.WithLocation(cfg.App.Location()))
	exporter := report.NewExporter(ledgerUC, cfg.Export.PageSize, cfg.Export.MaxPages, log)

	// PDF: nota de costos de la orden de servicio
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)
	costNoteUC := report.NewCostNoteUseCase(st.services, pdfGenerator)
	cartUC := cart.NewUseCase(cartStore, st.parts, workflow, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	if cfg.Docs.SwaggerEnabled {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.Docs.SwaggerFile,
			Path:     "docs",
			Title:    "Refacciones Ledger API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Catalog:          usecase.NewCatalogUseCase(st.parts, st.categories),
		RegisterMovement: registerMovementUC,
		Workflow:         workflow,
		Sales:            salesUC,
		Ledger:           ledgerUC,
		Analytics:        analyticsUC,
		Exporter:         exporter,
		Encoders: map[string]report.Encoder{
			"csv":  report.CSVEncoder{},
			"xlsx": excel.Encoder{},
		},
		CostNote:  costNoteUC,
		Cart:      cartUC,
		Metrics:   httpRouter.NewMetrics(),
		Location:  cfg.App.Location(),
		AppName:   cfg.App.Name,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	if cfg.App.StorageDriver == config.StorageMemory {
		log.Warn().Msg("STORAGE_DRIVER=memory: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return &stores{
			tx:         store,
			parts:      store.Parts(),
			categories: store.Categories(),
			movements:  store.Movements(),
			sales:      store.Sales(),
			services:   store.Services(),
			analytics:  store.Analytics(),
			close:      func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &stores{
		tx:         postgres.NewTxRunner(pool),
		parts:      postgres.NewPartRepository(pool),
		categories: postgres.NewCategoryRepository(pool),
		movements:  postgres.NewMovementRepository(pool),
		sales:      postgres.NewSaleRepository(pool),
		services:   postgres.NewServiceRepository(pool),
		analytics:  postgres.NewAnalyticsRepository(pool),
		close:      pool.Close,
	}, nil
}
