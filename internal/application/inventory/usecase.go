package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/refacciones-ledger/internal/domain"
	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
	"github.com/jhoicas/refacciones-ledger/internal/domain/inventory"
	"github.com/jhoicas/refacciones-ledger/internal/domain/repository"
	domainsales "github.com/jhoicas/refacciones-ledger/internal/domain/sales"
	"github.com/jhoicas/refacciones-ledger/pkg/logger"
)

// RegisterMovementUseCase registra movimientos de inventario (ENTRY, EXIT, RETURN) de forma
// transaccional, con bloqueo de fila (SELECT FOR UPDATE) y un reintento ante conflicto.
type RegisterMovementUseCase struct {
	txRunner TxRunner
	partRepo repository.PartRepository
	movRepo  repository.MovementRepository
	log      *logger.Logger
	now      func() time.Time
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	partRepo repository.PartRepository,
	movRepo repository.MovementRepository,
	log *logger.Logger,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner: txRunner,
		partRepo: partRepo,
		movRepo:  movRepo,
		log:      log.Named("inventory"),
		now:      time.Now,
	}
}

// EntryInput entrada de mercancía.
type EntryInput struct {
	PartID    int64
	Quantity  int
	UnitPrice *decimal.Decimal
	Notes     string
}

// ExitInput salida de mercancía.
type ExitInput struct {
	PartID        int64
	Quantity      int
	UnitPrice     *decimal.Decimal
	Notes         string
	RelatedSaleID *int64
}

// ReturnInput devolución: la mercancía regresa al inventario.
type ReturnInput struct {
	PartID        int64
	Quantity      int
	UnitPrice     *decimal.Decimal
	RelatedSaleID *int64
	Reason        string
	Notes         string
}

// RegisterEntry suma quantity al stock y agrega un movimiento ENTRY.
func (uc *RegisterMovementUseCase) RegisterEntry(ctx context.Context, userID string, in EntryInput) (*entity.Movement, error) {
	return uc.register(ctx, &entity.Movement{
		PartID:    in.PartID,
		Type:      entity.MovementEntry,
		Quantity:  in.Quantity,
		UnitPrice: in.UnitPrice,
		Notes:     in.Notes,
		CreatedBy: userID,
	})
}

// RegisterExit resta quantity del stock. InsufficientStockError si quantity > stock; en ese caso nada cambia.
func (uc *RegisterMovementUseCase) RegisterExit(ctx context.Context, userID string, in ExitInput) (*entity.Movement, error) {
	return uc.register(ctx, &entity.Movement{
		PartID:        in.PartID,
		Type:          entity.MovementExit,
		Quantity:      in.Quantity,
		UnitPrice:     in.UnitPrice,
		Notes:         in.Notes,
		RelatedSaleID: in.RelatedSaleID,
		CreatedBy:     userID,
	})
}

// RegisterReturn suma quantity al stock y agrega un movimiento RETURN.
func (uc *RegisterMovementUseCase) RegisterReturn(ctx context.Context, userID string, in ReturnInput) (*entity.Movement, error) {
	return uc.register(ctx, &entity.Movement{
		PartID:        in.PartID,
		Type:          entity.MovementReturn,
		Quantity:      in.Quantity,
		UnitPrice:     in.UnitPrice,
		RelatedSaleID: in.RelatedSaleID,
		Reason:        in.Reason,
		Notes:         in.Notes,
		CreatedBy:     userID,
	})
}

func (uc *RegisterMovementUseCase) register(ctx context.Context, draft *entity.Movement) (*entity.Movement, error) {
	if err := ValidateMovement(draft); err != nil {
		return nil, err
	}
	var out *entity.Movement
	err := RetryOnConflict(uc.log, "register_movement", func() error {
		// Cada intento parte de una copia limpia: el intento fallido pudo asignar ID o stock.
		m := *draft
		m.Timestamp = uc.now()
		m.TransactionID = uuid.New().String()
		err := uc.txRunner.Run(ctx, func(movRepo repository.MovementRepository, partRepo repository.PartRepository) error {
			return ApplyMovement(ctx, movRepo, partRepo, &m)
		})
		if err != nil {
			return err
		}
		out = &m
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Int64("part_id", out.PartID).
		Str("type", string(out.Type)).
		Int("quantity", out.Quantity).
		Int("stock_after", out.StockAfter).
		Msg("movimiento registrado")
	return out, nil
}

// ValidateMovement reglas de entrada comunes a todos los caminos de registro.
func ValidateMovement(m *entity.Movement) error {
	if m.PartID <= 0 {
		return domain.Invalid("part_id", m.PartID, "positive")
	}
	if !m.Type.Valid() {
		return domain.Invalid("type", m.Type, "one_of")
	}
	if m.Quantity <= 0 {
		return domain.Invalid("quantity", m.Quantity, "positive")
	}
	if m.UnitPrice != nil {
		if err := domainsales.ValidateMoney("unit_price", *m.UnitPrice); err != nil {
			return err
		}
	}
	if m.RelatedSaleID != nil && *m.RelatedSaleID <= 0 {
		return domain.Invalid("related_sale_id", *m.RelatedSaleID, "positive")
	}
	return nil
}

// ApplyMovement es la única rutina que muta el stock: bloquea la fila de la refacción
// (GetForUpdate), calcula el nuevo stock, lo escribe y agrega el movimiento, todo con los repos
// de la transacción del caller. La usan tanto este caso de uso como los flujos compuestos de ventas.
func ApplyMovement(ctx context.Context, movRepo repository.MovementRepository, partRepo repository.PartRepository, m *entity.Movement) error {
	part, err := partRepo.GetForUpdate(ctx, m.PartID)
	if err != nil {
		return err
	}
	if part == nil {
		return domain.NotFound("part", m.PartID)
	}
	next, err := inventory.Apply(part.ID, part.CurrentStock, m.Type, m.Quantity)
	if err != nil {
		return err
	}
	if err := partRepo.UpdateStock(ctx, part.ID, next); err != nil {
		return err
	}
	m.StockBefore = part.CurrentStock
	m.StockAfter = next
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	return movRepo.Create(ctx, m)
}

// RetryOnConflict ejecuta fn y, si falla con ConflictError, la reintenta exactamente una vez.
func RetryOnConflict(log *logger.Logger, op string, fn func() error) error {
	err := fn()
	if err == nil || !domain.IsRetryable(err) {
		return err
	}
	log.Warn().Err(err).Str("op", op).Msg("conflicto concurrente, reintentando")
	return fn()
}

// StockReport contrasta el stock persistido con el que resulta de reproducir el historial.
func (uc *RegisterMovementUseCase) StockReport(ctx context.Context, partID int64) (*StockReport, error) {
	part, err := uc.partRepo.GetByID(ctx, partID)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, domain.NotFound("part", partID)
	}
	history, err := uc.movRepo.ListByPart(ctx, partID)
	if err != nil {
		return nil, err
	}
	res, replayErr := inventory.Replay(partID, history)
	if replayErr != nil {
		uc.log.Warn().Err(replayErr).Int64("part_id", partID).Int("applied", res.Applied).Msg("historial inconsistente")
	}
	return &StockReport{
		Part:       part,
		Replay:     res,
		Consistent: replayErr == nil && res.Stock == part.CurrentStock,
	}, nil
}

// StockReport resultado de StockReport.
type StockReport struct {
	Part       *entity.Part
	Replay     inventory.ReplayResult
	Consistent bool
}
