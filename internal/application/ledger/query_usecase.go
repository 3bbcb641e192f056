// Package ledger une las tres clases de venta en un solo feed ordenado, filtrable y paginado.
package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/refacciones-ledger/internal/domain"
	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
	"github.com/jhoicas/refacciones-ledger/internal/domain/repository"
	"github.com/jhoicas/refacciones-ledger/internal/domain/search"
	"github.com/jhoicas/refacciones-ledger/pkg/logger"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// LedgerQuery parámetros del feed. Kind vacío = las tres clases.
type LedgerQuery struct {
	Page     int
	PageSize int
	Kind     entity.SaleKind
	Search   string
	From     *time.Time
	To       *time.Time // exclusivo
}

// LedgerPage una página del feed. Count es el total del conjunto filtrado.
type LedgerPage struct {
	Results  []entity.SaleTransaction
	Count    int
	Page     int
	PageSize int
	Next     *int
	Previous *int
}

// QueryUseCase motor de conciliación.
type QueryUseCase struct {
	saleRepo repository.SaleRepository
	log      *logger.Logger
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(saleRepo repository.SaleRepository, log *logger.Logger) *QueryUseCase {
	return &QueryUseCase{saleRepo: saleRepo, log: log.Named("ledger")}
}

// Normalize aplica valores por defecto y valida la consulta.
func (q LedgerQuery) Normalize() (LedgerQuery, error) {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Page < 0 {
		return q, domain.Invalid("page", q.Page, "positive")
	}
	if q.PageSize == 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize < 0 || q.PageSize > MaxPageSize {
		return q, &domain.ValidationError{Field: "page_size", Value: q.PageSize, Rule: "range", Limit: MaxPageSize}
	}
	if q.Kind != "" && !q.Kind.Valid() {
		return q, domain.Invalid("tipo", q.Kind, "one_of")
	}
	if q.From != nil && q.To != nil && !q.From.Before(*q.To) {
		return q, domain.Invalid("from", q.From.Format(time.RFC3339), "range")
	}
	q.Search = search.Normalize(q.Search)
	return q, nil
}

type kindResult struct {
	kind  entity.SaleKind
	items []entity.SaleTransaction
	total int
	err   error
}

// QueryLedger devuelve la página pedida del feed unificado, más reciente primero en todas las clases.
//
// Cada clase se consulta en paralelo trayendo sus primeras offset+pageSize filas (las únicas que
// pueden caer en la página); luego se mezclan globalmente y se corta la página. El filtro de clase
// se aplica antes de paginar, así que Count refleja el conjunto filtrado.
func (uc *QueryUseCase) QueryLedger(ctx context.Context, q LedgerQuery) (*LedgerPage, error) {
	q, err := q.Normalize()
	if err != nil {
		return nil, err
	}
	offset := (q.Page - 1) * q.PageSize
	filter := entity.SaleFilter{Search: q.Search, From: q.From, To: q.To, Limit: offset + q.PageSize}

	kinds := entity.SaleKinds
	if q.Kind != "" {
		kinds = []entity.SaleKind{q.Kind}
	}

	ch := make(chan kindResult, len(kinds))
	for _, k := range kinds {
		go func(k entity.SaleKind) {
			items, total, err := uc.fetch(ctx, k, filter)
			ch <- kindResult{kind: k, items: items, total: total, err: err}
		}(k)
	}

	lists := make([][]entity.SaleTransaction, 0, len(kinds))
	count := 0
	for range kinds {
		r := <-ch
		if r.err != nil {
			err = fmt.Errorf("ledger: %s: %w", r.kind, r.err)
			continue
		}
		lists = append(lists, r.items)
		count += r.total
	}
	if err != nil {
		return nil, err
	}

	merged := MergeNewestFirst(lists...)
	page := &LedgerPage{Count: count, Page: q.Page, PageSize: q.PageSize, Results: []entity.SaleTransaction{}}
	if offset < len(merged) {
		end := min(offset+q.PageSize, len(merged))
		page.Results = merged[offset:end]
	}
	if offset+q.PageSize < count {
		next := q.Page + 1
		page.Next = &next
	}
	if q.Page > 1 {
		prev := q.Page - 1
		page.Previous = &prev
	}
	return page, nil
}

func (uc *QueryUseCase) fetch(ctx context.Context, k entity.SaleKind, f entity.SaleFilter) ([]entity.SaleTransaction, int, error) {
	switch k {
	case entity.SaleKindPart:
		items, total, err := uc.saleRepo.ListPartSales(ctx, f)
		return asTransactions(items), total, err
	case entity.SaleKindService:
		items, total, err := uc.saleRepo.ListServiceSales(ctx, f)
		return asTransactions(items), total, err
	case entity.SaleKindReturn:
		items, total, err := uc.saleRepo.ListReturns(ctx, f)
		return asTransactions(items), total, err
	}
	return nil, 0, domain.Invalid("tipo", k, "one_of")
}

func asTransactions[T entity.SaleTransaction](items []T) []entity.SaleTransaction {
	out := make([]entity.SaleTransaction, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

// Newer orden global del feed: fecha descendente; empate por id descendente y luego por clase
// (refaccion, servicio, devolucion).
func Newer(a, b entity.SaleTransaction) bool {
	if !a.Date().Equal(b.Date()) {
		return a.Date().After(b.Date())
	}
	if a.SaleID() != b.SaleID() {
		return a.SaleID() > b.SaleID()
	}
	return a.Kind().Rank() < b.Kind().Rank()
}

// MergeNewestFirst mezcla listas (cada una ya ordenada) en un solo feed.
func MergeNewestFirst(lists ...[]entity.SaleTransaction) []entity.SaleTransaction {
	n := 0
	for _, l := range lists {
		n += len(l)
	}
	out := make([]entity.SaleTransaction, 0, n)
	for _, l := range lists {
		out = append(out, l...)
	}
	sort.SliceStable(out, func(i, j int) bool { return Newer(out[i], out[j]) })
	return out
}
