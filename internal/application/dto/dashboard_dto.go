package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatisticsRequest query de GET /api/ledger/statistics. Componentes omitidos = fecha actual.
type StatisticsRequest struct {
	Period string `query:"period" validate:"required,oneof=day month year"`
	Year   *int   `query:"year" validate:"omitempty,min=1970,max=9999"`
	Month  *int   `query:"month" validate:"omitempty,min=1,max=12"`
	Day    *int   `query:"day" validate:"omitempty,min=1,max=31"`
}

// KindTotals total y número de ventas de una clase.
type KindTotals struct {
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// StatisticsSnapshot resumen de un período por clase de venta. Un período vacío es todo ceros.
type StatisticsSnapshot struct {
	Period       string     `json:"period"`
	From         time.Time  `json:"from"`
	To           time.Time  `json:"to"`
	PartSales    KindTotals `json:"part_sales"`
	ServiceSales KindTotals `json:"service_sales"`
	Returns      KindTotals `json:"returns"`
}

// TimeSeriesRequest query de GET /api/ledger/timeseries.
type TimeSeriesRequest struct {
	Granularity string `query:"granularity" validate:"required,oneof=day month"`
	Year        *int   `query:"year" validate:"omitempty,min=1970,max=9999"`
	Month       *int   `query:"month" validate:"omitempty,min=1,max=12"`
	Fill        bool   `query:"fill"`
}

// TimeSeriesBucket una cubeta de la serie (día "2026-03-07" o mes "2026-03").
type TimeSeriesBucket struct {
	Bucket            string          `json:"bucket"`
	PartSalesTotal    decimal.Decimal `json:"part_sales_total"`
	ServiceSalesTotal decimal.Decimal `json:"service_sales_total"`
	ReturnsTotal      decimal.Decimal `json:"returns_total"`
}

// TopCategoriesRequest query de GET /api/ledger/top-categories.
type TopCategoriesRequest struct {
	N          int    `query:"n" validate:"omitempty,min=1,max=50"`
	CategoryID *int64 `query:"category_id"`
	Search     string `query:"search"`
}

// CategoryVolume volumen de movimientos (suma de cantidades) de una categoría.
type CategoryVolume struct {
	Category string `json:"category"`
	Volume   int    `json:"volume"`
}

// DashboardSummaryDTO respuesta de GET /api/ledger/dashboard: hoy, mes en curso y top categorías.
type DashboardSummaryDTO struct {
	Today         StatisticsSnapshot `json:"today"`
	Month         StatisticsSnapshot `json:"month"`
	TopCategories []CategoryVolume   `json:"top_categories"`
	DateLabel     string             `json:"date_label"` // ej: "Febrero 2026"
}
