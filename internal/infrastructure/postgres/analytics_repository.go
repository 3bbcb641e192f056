package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/refacciones-ledger/internal/domain"
	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
	"github.com/jhoicas/refacciones-ledger/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura sobre las tablas de ventas.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

func saleTable(kind entity.SaleKind) (string, error) {
	switch kind {
	case entity.SaleKindPart:
		return "sale_parts", nil
	case entity.SaleKindService:
		return "sale_services", nil
	case entity.SaleKindReturn:
		return "sale_returns", nil
	}
	return "", domain.Invalid("tipo", kind, "one_of")
}

// SaleTotals suma y cuenta las ventas de kind en [from, to).
// Usa COALESCE para devolver cero si no hay filas (período sin ventas).
func (r *AnalyticsRepo) SaleTotals(ctx context.Context, kind entity.SaleKind, from, to time.Time) (decimal.Decimal, int, error) {
	table, err := saleTable(kind)
	if err != nil {
		return decimal.Zero, 0, err
	}
	query := `
	SELECT COALESCE(SUM(total), 0), COUNT(*)
	FROM ` + table + `
	WHERE sale_date >= $1 AND sale_date < $2`

	var total decimal.Decimal
	var count int
	if err := r.pool.QueryRow(ctx, query, from, to).Scan(&total, &count); err != nil {
		return decimal.Zero, 0, fmt.Errorf("analytics.SaleTotals: %w", err)
	}
	return total, count, nil
}

// SaleBuckets agrupa por día o mes en la zona horaria de from. Solo devuelve cubetas con ventas,
// en orden ascendente.
func (r *AnalyticsRepo) SaleBuckets(
	ctx context.Context,
	kind entity.SaleKind,
	g repository.Granularity,
	from, to time.Time,
) ([]repository.BucketRow, error) {
	table, err := saleTable(kind)
	if err != nil {
		return nil, err
	}
	if g != repository.GranularityDay && g != repository.GranularityMonth {
		return nil, domain.Invalid("granularity", g, "one_of")
	}
	loc := from.Location()
	const query = `
	SELECT
	    date_trunc($1, sale_date AT TIME ZONE $2) AS bucket,
	    SUM(total)                                AS total,
	    COUNT(*)                                  AS cnt
	FROM %s
	WHERE sale_date >= $3 AND sale_date < $4
	GROUP BY 1
	ORDER BY 1`

	rows, err := r.pool.Query(ctx, fmt.Sprintf(query, table), string(g), zoneName(loc), from, to)
	if err != nil {
		return nil, fmt.Errorf("analytics.SaleBuckets: %w", err)
	}
	defer rows.Close()

	var results []repository.BucketRow
	for rows.Next() {
		var wall time.Time
		var row repository.BucketRow
		if err := rows.Scan(&wall, &row.Total, &row.Count); err != nil {
			return nil, fmt.Errorf("analytics.SaleBuckets scan: %w", err)
		}
		// date_trunc sobre timestamp sin zona: la hora de pared corresponde a loc.
		row.Start = time.Date(wall.Year(), wall.Month(), wall.Day(), 0, 0, 0, 0, loc)
		results = append(results, row)
	}
	return results, rows.Err()
}

// zoneName nombre IANA para AT TIME ZONE. "Local" no lo entiende PostgreSQL: se usa UTC.
func zoneName(loc *time.Location) string {
	name := loc.String()
	if name == "" || name == "Local" {
		return "UTC"
	}
	return name
}
