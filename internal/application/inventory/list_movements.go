package inventory

import (
	"context"
	"strings"

	"github.com/jhoicas/refacciones-ledger/internal/domain"
	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
	"github.com/jhoicas/refacciones-ledger/internal/domain/search"
)

// Campos por los que se puede ordenar el listado de movimientos. "-campo" = descendente.
const (
	OrderByDate      = "fecha"
	OrderByQuantity  = "cantidad"
	OrderByUnitPrice = "precio_unitario"

	DefaultOrdering = "-" + OrderByDate
)

// ValidOrderField indica si field (sin prefijo) es ordenable.
func ValidOrderField(field string) bool {
	switch field {
	case OrderByDate, OrderByQuantity, OrderByUnitPrice:
		return true
	}
	return false
}

// ParseOrdering separa "-campo" en (campo, desc). Vacío = DefaultOrdering.
func ParseOrdering(ordering string) (field string, desc bool, err error) {
	if ordering == "" {
		ordering = DefaultOrdering
	}
	field = strings.TrimPrefix(ordering, "-")
	if !ValidOrderField(field) {
		return "", false, domain.Invalid("ordering", ordering, "one_of")
	}
	return field, strings.HasPrefix(ordering, "-"), nil
}

// NextOrdering semántica de alternar del encabezado de columna:
// elegir el mismo campo lo invierte a descendente, elegir el campo ya descendente lo regresa a
// ascendente, y elegir un campo nuevo empieza en descendente.
func NextOrdering(current, field string) string {
	field = strings.TrimPrefix(field, "-")
	switch current {
	case field:
		return "-" + field
	case "-" + field:
		return field
	}
	return "-" + field
}

// MovementPage página del listado de movimientos.
type MovementPage struct {
	Items    []*entity.Movement
	Total    int
	Ordering string
}

// ListMovements lista movimientos filtrando por categoría y por id/código/nombre de refacción.
func (uc *RegisterMovementUseCase) ListMovements(ctx context.Context, filter entity.MovementFilter) (*MovementPage, error) {
	if _, _, err := ParseOrdering(filter.Ordering); err != nil {
		return nil, err
	}
	if filter.Ordering == "" {
		filter.Ordering = DefaultOrdering
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		return nil, &domain.ValidationError{Field: "limit", Value: filter.Limit, Rule: "range", Limit: 100}
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	filter.Search = search.Normalize(filter.Search)
	items, total, err := uc.movRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &MovementPage{Items: items, Total: total, Ordering: filter.Ordering}, nil
}
