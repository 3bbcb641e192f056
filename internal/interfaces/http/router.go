package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/refacciones-ledger/internal/application/analytics"
	"github.com/jhoicas/refacciones-ledger/internal/application/cart"
	"github.com/jhoicas/refacciones-ledger/internal/application/inventory"
	"github.com/jhoicas/refacciones-ledger/internal/application/ledger"
	"github.com/jhoicas/refacciones-ledger/internal/application/report"
	"github.com/jhoicas/refacciones-ledger/internal/application/sales"
	"github.com/jhoicas/refacciones-ledger/internal/application/usecase"
	"github.com/jhoicas/refacciones-ledger/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Catalog          *usecase.CatalogUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	Workflow         *sales.Workflow
	Sales            *sales.SalesUseCase
	Ledger           *ledger.QueryUseCase
	Analytics        *appanalytics.UseCase
	Exporter         *report.Exporter
	Encoders         map[string]report.Encoder
	CostNote         *report.CostNoteUseCase
	Cart             *cart.UseCase
	Metrics          *Metrics
	Location         *time.Location
	AppName          string
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Use(deps.Metrics.Middleware())
		app.Get("/metrics", deps.Metrics.Handler())
	}
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	productHandler := NewProductHandler(deps.Catalog)
	protected.Get("/parts", productHandler.List)
	protected.Get("/parts/:id", productHandler.GetByID)
	protected.Get("/categories", productHandler.ListCategories)

	inv := protected.Group("/inventory")
	invHandler := NewInventoryHandler(deps.RegisterMovement)
	inv.Post("/movements", invHandler.RegisterMovement)
	inv.Get("/movements", invHandler.ListMovements)
	inv.Get("/parts/:id/stock", invHandler.GetStock)

	salesGroup := protected.Group("/sales")
	salesHandler := NewSalesHandler(deps.Workflow, deps.Sales)
	salesGroup.Post("/parts", salesHandler.SellPart)
	salesGroup.Post("/services", salesHandler.RecordServiceSale)
	salesGroup.Post("/returns", salesHandler.ReturnPart)
	admin := salesGroup.Group("/admin", RequireRole(jwt.RoleAdmin))
	admin.Post("/parts", salesHandler.RecordPartSale)
	admin.Post("/returns", salesHandler.RecordReturn)

	ledgerGroup := protected.Group("/ledger")
	ledgerHandler := NewLedgerHandler(deps.Ledger, deps.Exporter, deps.Encoders, deps.Location)
	analyticsHandler := NewAnalyticsHandler(deps.Analytics)
	dashboardHandler := NewDashboardHandler(deps.Analytics)
	ledgerGroup.Get("/", ledgerHandler.Query)
	ledgerGroup.Get("/export", ledgerHandler.Export)
	ledgerGroup.Get("/statistics", analyticsHandler.GetStatistics)
	ledgerGroup.Get("/timeseries", analyticsHandler.GetTimeSeries)
	ledgerGroup.Get("/top-categories", analyticsHandler.GetTopCategories)
	ledgerGroup.Get("/dashboard", dashboardHandler.GetSummary)

	services := protected.Group("/services")
	serviceHandler := NewServiceHandler(deps.CostNote)
	services.Get("/:id/cost-note.pdf", serviceHandler.DownloadCostNote)

	cartGroup := protected.Group("/cart")
	cartHandler := NewCartHandler(deps.Cart)
	cartGroup.Get("/", cartHandler.Get)
	cartGroup.Delete("/", cartHandler.Clear)
	cartGroup.Post("/items", cartHandler.AddItem)
	cartGroup.Put("/items/:partId", cartHandler.SetQuantity)
	cartGroup.Delete("/items/:partId", cartHandler.RemoveItem)
	cartGroup.Post("/checkout", cartHandler.Checkout)
}
