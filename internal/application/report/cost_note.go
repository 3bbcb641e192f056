package report

import (
	"context"
	"fmt"

	"github.com/jhoicas/refacciones-ledger/internal/domain"
	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
	"github.com/jhoicas/refacciones-ledger/internal/domain/repository"
)

// CostNoteRenderer genera el PDF imprimible de la nota de costos.
type CostNoteRenderer interface {
	RenderCostNote(ctx context.Context, svc *entity.Service) ([]byte, error)
}

// CostNoteUseCase descarga de la nota de costos de una orden de servicio.
type CostNoteUseCase struct {
	serviceRepo repository.ServiceRepository
	renderer    CostNoteRenderer
}

// NewCostNoteUseCase construye el caso de uso.
func NewCostNoteUseCase(serviceRepo repository.ServiceRepository, renderer CostNoteRenderer) *CostNoteUseCase {
	return &CostNoteUseCase{serviceRepo: serviceRepo, renderer: renderer}
}

// Download genera el PDF a partir del snapshot de la última venta de servicio.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - NotFoundError              si el servicio no existe.
//   - ValidationError            si el servicio aún no tiene venta registrada.
func (uc *CostNoteUseCase) Download(ctx context.Context, serviceID int64) (pdfBytes []byte, filename string, err error) {
	svc, err := uc.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		return nil, "", fmt.Errorf("nota de costos: obtener servicio: %w", err)
	}
	if svc == nil {
		return nil, "", domain.NotFound("service", serviceID)
	}
	if svc.CostNote == nil {
		return nil, "", &domain.ValidationError{Field: "cost_note", Value: serviceID, Rule: "required"}
	}

	pdfBytes, err = uc.renderer.RenderCostNote(ctx, svc)
	if err != nil {
		return nil, "", fmt.Errorf("nota de costos: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("nota_costos_servicio_%d.pdf", svc.ID), nil
}
