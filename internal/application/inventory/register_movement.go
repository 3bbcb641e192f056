package inventory

import (
	"context"

	"github.com/jhoicas/refacciones-ledger/internal/application/dto"
	"github.com/jhoicas/refacciones-ledger/internal/domain"
	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
)

// Register adapta el request HTTP al caso de uso según el tipo de movimiento.
func (uc *RegisterMovementUseCase) Register(ctx context.Context, userID string, in dto.RegisterMovementRequest) (*entity.Movement, error) {
	switch entity.MovementType(in.Type) {
	case entity.MovementEntry:
		return uc.RegisterEntry(ctx, userID, EntryInput{
			PartID: in.PartID, Quantity: in.Quantity, UnitPrice: in.UnitPrice, Notes: in.Notes,
		})
	case entity.MovementExit:
		return uc.RegisterExit(ctx, userID, ExitInput{
			PartID: in.PartID, Quantity: in.Quantity, UnitPrice: in.UnitPrice, Notes: in.Notes,
			RelatedSaleID: in.RelatedSaleID,
		})
	case entity.MovementReturn:
		return uc.RegisterReturn(ctx, userID, ReturnInput{
			PartID: in.PartID, Quantity: in.Quantity, UnitPrice: in.UnitPrice,
			RelatedSaleID: in.RelatedSaleID, Reason: in.Reason, Notes: in.Notes,
		})
	}
	return nil, domain.Invalid("type", in.Type, "one_of")
}
