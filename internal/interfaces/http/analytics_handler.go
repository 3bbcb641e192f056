package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/refacciones-ledger/internal/application/analytics"
	"github.com/jhoicas/refacciones-ledger/internal/application/dto"
	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
)

// AnalyticsHandler estadísticas, series de tiempo y ranking de categorías.
type AnalyticsHandler struct {
	uc *appanalytics.UseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(uc *appanalytics.UseCase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// GetStatistics godoc
// @Summary      Totales del período por clase de venta
// @Description  Los componentes de fecha omitidos toman la fecha actual. Un período sin ventas es todo ceros.
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        period  query  string  true   "day | month | year"
// @Param        year    query  int     false  "Año"
// @Param        month   query  int     false  "Mes (1-12)"
// @Param        day     query  int     false  "Día"
// @Success      200  {object}  dto.StatisticsSnapshot
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/statistics [get]
func (h *AnalyticsHandler) GetStatistics(c *fiber.Ctx) error {
	var req dto.StatisticsRequest
	if ok, err := bindQuery(c, &req); !ok {
		return err
	}
	snap, err := h.uc.ComputeStatistics(c.Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(snap)
}

// GetTimeSeries godoc
// @Summary      Serie de ventas por día (de un mes) o por mes (de un año)
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        granularity  query  string  true   "day | month"
// @Param        year         query  int     false  "Año"
// @Param        month        query  int     false  "Mes (granularity=day)"
// @Param        fill         query  bool    false  "Incluir cubetas vacías"
// @Success      200  {array}   dto.TimeSeriesBucket
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/timeseries [get]
func (h *AnalyticsHandler) GetTimeSeries(c *fiber.Ctx) error {
	var req dto.TimeSeriesRequest
	if ok, err := bindQuery(c, &req); !ok {
		return err
	}
	series, err := h.uc.ComputeTimeSeries(c.Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(series)
}

// GetTopCategories godoc
// @Summary      Categorías con mayor volumen de movimientos
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        n            query  int     false  "Tamaño del ranking (default 5)"
// @Param        category_id  query  int     false  "Categoría"
// @Param        search       query  string  false  "id, código o nombre de refacción"
// @Success      200  {array}   dto.CategoryVolume
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/top-categories [get]
func (h *AnalyticsHandler) GetTopCategories(c *fiber.Ctx) error {
	var req dto.TopCategoriesRequest
	if ok, err := bindQuery(c, &req); !ok {
		return err
	}
	top, err := h.uc.TopCategories(c.Context(), entity.MovementFilter{
		CategoryID: req.CategoryID,
		Search:     req.Search,
	}, req.N)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(top)
}
