package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
)

// Granularity unidad de agrupación temporal.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityMonth Granularity = "month"
)

// BucketRow resultado crudo de una cubeta temporal para una clase de venta.
// Lo produce la DB; el use case lo convierte en DTO.
type BucketRow struct {
	Start time.Time // inicio de la cubeta (día o primer día del mes)
	Total decimal.Decimal
	Count int
}

// AnalyticsRepository consultas de lectura para agregación. Read-only.
// Los rangos son [from, to).
type AnalyticsRepository interface {
	// SaleTotals suma total y cuenta filas de una clase en el rango.
	// Usa COALESCE: un rango sin ventas devuelve (0, 0, nil).
	SaleTotals(ctx context.Context, kind entity.SaleKind, from, to time.Time) (decimal.Decimal, int, error)

	// SaleBuckets agrupa por día o mes. Solo devuelve cubetas con actividad.
	SaleBuckets(ctx context.Context, kind entity.SaleKind, g Granularity, from, to time.Time) ([]BucketRow, error)
}
