package repository

import (
	"context"

	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
)

// CategoryRepository puerto de lectura de categorías del catálogo (DIP).
type CategoryRepository interface {
	List(ctx context.Context) ([]*entity.Category, error)
}
