package analytics

import (
	"context"
	"sort"

	"github.com/jhoicas/refacciones-ledger/internal/application/dto"
	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
)

// DefaultTopN tamaño por defecto del ranking de categorías.
const DefaultTopN = 5

const movementsBatch = 500

// CategoryResolver devuelve el nombre de categoría de una refacción ("" si no se puede resolver).
type CategoryResolver func(partID int64) string

// TopCategoriesByVolume suma la cantidad de los movimientos por categoría, ordena descendente y
// corta a n. Los movimientos sin categoría resoluble van a "Sin categoría". En empate conserva
// el orden en que aparece cada categoría por primera vez.
func TopCategoriesByVolume(movements []*entity.Movement, resolve CategoryResolver, n int) []dto.CategoryVolume {
	if n <= 0 {
		n = DefaultTopN
	}
	idx := make(map[string]int)
	var out []dto.CategoryVolume
	for _, m := range movements {
		name := resolve(m.PartID)
		if name == "" {
			name = entity.UncategorizedLabel
		}
		i, ok := idx[name]
		if !ok {
			i = len(out)
			idx[name] = i
			out = append(out, dto.CategoryVolume{Category: name})
		}
		out[i].Volume += m.Quantity
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Volume > out[j].Volume })
	if len(out) > n {
		out = out[:n]
	}
	if out == nil {
		out = []dto.CategoryVolume{}
	}
	return out
}

// TopCategories ranking sobre los movimientos que cumplen el filtro, en orden cronológico.
func (uc *UseCase) TopCategories(ctx context.Context, filter entity.MovementFilter, n int) ([]dto.CategoryVolume, error) {
	movements, err := uc.allMovements(ctx, filter)
	if err != nil {
		return nil, err
	}
	resolve, err := uc.categoryResolver(ctx, movements)
	if err != nil {
		return nil, err
	}
	return TopCategoriesByVolume(movements, resolve, n), nil
}

func (uc *UseCase) allMovements(ctx context.Context, filter entity.MovementFilter) ([]*entity.Movement, error) {
	filter.Ordering = "fecha"
	filter.Limit = movementsBatch
	filter.Offset = 0
	var all []*entity.Movement
	for {
		page, total, err := uc.movRepo.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) == 0 || len(all) >= total {
			return all, nil
		}
		filter.Offset += len(page)
	}
}

func (uc *UseCase) categoryResolver(ctx context.Context, movements []*entity.Movement) (CategoryResolver, error) {
	seen := make(map[int64]bool)
	var ids []int64
	for _, m := range movements {
		if !seen[m.PartID] {
			seen[m.PartID] = true
			ids = append(ids, m.PartID)
		}
	}
	names := make(map[int64]string, len(ids))
	if len(ids) > 0 {
		parts, err := uc.partRepo.List(ctx, entity.PartFilter{IDs: ids})
		if err != nil {
			return nil, err
		}
		for _, p := range parts {
			names[p.ID] = p.Category
		}
	}
	return func(id int64) string { return names[id] }, nil
}
