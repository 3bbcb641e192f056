package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/refacciones-ledger/internal/application/ledger"
	"github.com/jhoicas/refacciones-ledger/internal/domain"
	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
	"github.com/jhoicas/refacciones-ledger/pkg/logger"
)

// LedgerQuerier la consulta paginada que recorre el export.
type LedgerQuerier interface {
	QueryLedger(ctx context.Context, q ledger.LedgerQuery) (*ledger.LedgerPage, error)
}

// Export archivo listo para descargar.
type Export struct {
	Data        []byte
	Filename    string
	ContentType string
	Rows        int
}

// Exporter exporta todas las páginas de una consulta.
type Exporter struct {
	query    LedgerQuerier
	pageSize int
	maxPages int
	columns  []ColumnSpec
	log      *logger.Logger
	now      func() time.Time
}

// NewExporter construye el exportador. pageSize y maxPages vienen de EXPORT_PAGE_SIZE y EXPORT_MAX_PAGES.
func NewExporter(query LedgerQuerier, pageSize, maxPages int, log *logger.Logger) *Exporter {
	if pageSize <= 0 || pageSize > ledger.MaxPageSize {
		pageSize = ledger.MaxPageSize
	}
	if maxPages <= 0 {
		maxPages = 1
	}
	return &Exporter{
		query:    query,
		pageSize: pageSize,
		maxPages: maxPages,
		columns:  DefaultColumns,
		log:      log.Named("export"),
		now:      time.Now,
	}
}

// ExportAll recorre todas las páginas de q y las serializa con enc. El fin de la ventana se fija
// al inicio (el menor entre q.To y ahora) y la primera página fija cuántas filas y páginas se
// esperan. Si una página falla, llega vacía antes de tiempo, reporta otro total (el conjunto
// cambió a mitad del recorrido) o se excede EXPORT_MAX_PAGES, devuelve ExportIncompleteError
// en lugar de un archivo truncado o con filas repetidas.
func (e *Exporter) ExportAll(ctx context.Context, q ledger.LedgerQuery, enc Encoder) (*Export, error) {
	q.Page = 1
	q.PageSize = e.pageSize
	// una ventana que empieza en el futuro se deja tal cual: recortarla la invertiría
	if now := e.now(); (q.To == nil || now.Before(*q.To)) && (q.From == nil || q.From.Before(now)) {
		q.To = &now
	}

	first, err := e.query.QueryLedger(ctx, q)
	if err != nil {
		if domain.KindOf(err) == domain.KindValidation {
			return nil, err
		}
		return nil, e.incomplete(0, 0, err)
	}
	expected := (first.Count + e.pageSize - 1) / e.pageSize
	if expected > e.maxPages {
		return nil, e.incomplete(0, expected, fmt.Errorf("%d páginas exceden el máximo de %d", expected, e.maxPages))
	}

	txs := make([]entity.SaleTransaction, 0, first.Count)
	txs = append(txs, first.Results...)
	for page := 2; page <= expected; page++ {
		if err := ctx.Err(); err != nil {
			return nil, e.incomplete(page-1, expected, err)
		}
		q.Page = page
		p, err := e.query.QueryLedger(ctx, q)
		if err != nil {
			return nil, e.incomplete(page-1, expected, err)
		}
		if len(p.Results) == 0 {
			return nil, e.incomplete(page-1, expected, fmt.Errorf("página %d vacía", page))
		}
		if p.Count != first.Count {
			return nil, e.incomplete(page-1, expected, fmt.Errorf("el total cambió de %d a %d durante el export", first.Count, p.Count))
		}
		txs = append(txs, p.Results...)
	}

	data, err := enc.Encode(e.columns, BuildTable(txs, e.columns))
	if err != nil {
		return nil, fmt.Errorf("export: serializar: %w", err)
	}
	return &Export{
		Data:        data,
		Filename:    e.filename(q, enc),
		ContentType: enc.ContentType(),
		Rows:        len(txs),
	}, nil
}

func (e *Exporter) incomplete(fetched, expected int, cause error) error {
	e.log.Warn().
		Int("pages_fetched", fetched).
		Int("pages_expected", expected).
		Err(cause).
		Msg("export incompleto")
	return &domain.ExportIncompleteError{PagesFetched: fetched, PagesExpected: expected, Cause: cause}
}

// filename ej: "ventas_20260315_1200.csv", "ventas_servicio_20260315_1200.xlsx".
func (e *Exporter) filename(q ledger.LedgerQuery, enc Encoder) string {
	prefix := "ventas"
	if q.Kind != "" {
		prefix += "_" + string(q.Kind)
	}
	return fmt.Sprintf("%s_%s.%s", prefix, e.now().Format("20060102_1504"), enc.Extension())
}
