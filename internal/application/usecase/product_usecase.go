// Package usecase casos de uso de lectura del catálogo de refacciones. El catálogo lo administra
// otro sistema; aquí solo se consulta (la única escritura, CurrentStock, pasa por movimientos).
package usecase

import (
	"context"

	"github.com/jhoicas/refacciones-ledger/internal/application/dto"
	"github.com/jhoicas/refacciones-ledger/internal/domain"
	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
	"github.com/jhoicas/refacciones-ledger/internal/domain/repository"
	"github.com/jhoicas/refacciones-ledger/internal/domain/search"
)

// CatalogUseCase consultas del catálogo.
type CatalogUseCase struct {
	partRepo     repository.PartRepository
	categoryRepo repository.CategoryRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(partRepo repository.PartRepository, categoryRepo repository.CategoryRepository) *CatalogUseCase {
	return &CatalogUseCase{partRepo: partRepo, categoryRepo: categoryRepo}
}

// GetPart obtiene una refacción por ID.
func (uc *CatalogUseCase) GetPart(ctx context.Context, id int64) (*dto.PartResponse, error) {
	part, err := uc.partRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, domain.NotFound("part", id)
	}
	return toPartResponse(part), nil
}

// ListParts lista refacciones por categoría y por id/código/nombre/marca, con paginación.
func (uc *CatalogUseCase) ListParts(ctx context.Context, in dto.ListPartsRequest) (*dto.PartListResponse, error) {
	in.DefaultPage()
	list, err := uc.partRepo.List(ctx, entity.PartFilter{
		CategoryID: in.CategoryID,
		Search:     search.Normalize(in.Search),
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.PartResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toPartResponse(p))
	}
	return &dto.PartListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: len(items)},
	}, nil
}

// ListCategories lista las categorías del catálogo.
func (uc *CatalogUseCase) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.CategoryResponse{ID: c.ID, Name: c.Name})
	}
	return out, nil
}

func toPartResponse(p *entity.Part) *dto.PartResponse {
	return &dto.PartResponse{
		ID:           p.ID,
		Name:         p.Name,
		PartCode:     p.PartCode,
		Brand:        p.Brand,
		CategoryID:   p.CategoryID,
		Category:     p.Category,
		Price:        p.Price,
		CurrentStock: p.CurrentStock,
		UpdatedAt:    p.UpdatedAt,
	}
}
