package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/refacciones-ledger/internal/application/inventory"
	"github.com/jhoicas/refacciones-ledger/internal/domain"
	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
	"github.com/jhoicas/refacciones-ledger/internal/domain/repository"
	"github.com/jhoicas/refacciones-ledger/pkg/logger"
)

// Workflow operaciones compuestas: la venta y su movimiento se escriben en la misma
// transacción, así los dos ledgers no pueden desincronizarse.
type Workflow struct {
	txRunner TxRunner
	log      *logger.Logger
	now      func() time.Time
}

// NewWorkflow construye el flujo compuesto.
func NewWorkflow(txRunner TxRunner, log *logger.Logger) *Workflow {
	return &Workflow{txRunner: txRunner, log: log.Named("sales_workflow"), now: time.Now}
}

// SoldLine venta de refacción con su salida de inventario.
type SoldLine struct {
	Sale     *entity.SalePart
	Movement *entity.Movement
}

// MultiSale resultado de SellParts.
type MultiSale struct {
	TransactionID string
	Lines         []SoldLine
	Total         decimal.Decimal
}

// ReturnedLine devolución con su movimiento RETURN.
type ReturnedLine struct {
	Return   *entity.Return
	Movement *entity.Movement
}

// SellPart venta de refacción + salida de inventario (EXIT con RelatedSaleID = venta).
func (w *Workflow) SellPart(ctx context.Context, userID string, in PartSaleInput) (*SoldLine, error) {
	res, err := w.SellParts(ctx, userID, []PartSaleInput{in})
	if err != nil {
		return nil, err
	}
	return &res.Lines[0], nil
}

// SellParts vende varias líneas todo-o-nada: si una línea no tiene stock, no se registra ninguna.
func (w *Workflow) SellParts(ctx context.Context, userID string, lines []PartSaleInput) (*MultiSale, error) {
	if len(lines) == 0 {
		return nil, domain.Invalid("lines", 0, "required")
	}
	var out *MultiSale
	err := inventory.RetryOnConflict(w.log, "sell_parts", func() error {
		now := w.now()
		res := &MultiSale{TransactionID: uuid.New().String(), Total: decimal.Zero}
		err := w.txRunner.RunLedger(ctx, func(
			movRepo repository.MovementRepository,
			partRepo repository.PartRepository,
			saleRepo repository.SaleRepository,
			_ repository.ServiceRepository,
		) error {
			for _, in := range lines {
				sale, err := buildPartSale(ctx, partRepo, userID, in, now)
				if err != nil {
					return err
				}
				sale.TransactionID = res.TransactionID
				if err := saleRepo.CreatePartSale(ctx, sale); err != nil {
					return err
				}
				saleID := sale.ID
				price := sale.UnitPrice
				mov := &entity.Movement{
					PartID:        sale.PartID,
					Type:          entity.MovementExit,
					Quantity:      sale.Quantity,
					UnitPrice:     &price,
					Timestamp:     now,
					RelatedSaleID: &saleID,
					TransactionID: res.TransactionID,
					CreatedBy:     userID,
				}
				if err := inventory.ApplyMovement(ctx, movRepo, partRepo, mov); err != nil {
					return err
				}
				res.Lines = append(res.Lines, SoldLine{Sale: sale, Movement: mov})
				res.Total = res.Total.Add(sale.Total)
			}
			return nil
		})
		if err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	w.log.Info().
		Str("transaction_id", out.TransactionID).
		Int("lines", len(out.Lines)).
		Str("total", out.Total.String()).
		Msg("venta registrada")
	return out, nil
}

// ReturnPart devolución + movimiento RETURN que repone el stock.
func (w *Workflow) ReturnPart(ctx context.Context, userID string, in ReturnSaleInput) (*ReturnedLine, error) {
	var out *ReturnedLine
	err := inventory.RetryOnConflict(w.log, "return_part", func() error {
		now := w.now()
		txID := uuid.New().String()
		return w.txRunner.RunLedger(ctx, func(
			movRepo repository.MovementRepository,
			partRepo repository.PartRepository,
			saleRepo repository.SaleRepository,
			_ repository.ServiceRepository,
		) error {
			ret, err := buildReturn(ctx, partRepo, saleRepo, userID, in, now)
			if err != nil {
				return err
			}
			ret.TransactionID = txID
			if err := saleRepo.CreateReturn(ctx, ret); err != nil {
				return err
			}
			price := ret.UnitPrice
			mov := &entity.Movement{
				PartID:        ret.PartID,
				Type:          entity.MovementReturn,
				Quantity:      ret.Quantity,
				UnitPrice:     &price,
				Timestamp:     now,
				RelatedSaleID: ret.RelatedSaleID,
				Reason:        ret.Reason,
				TransactionID: txID,
				CreatedBy:     userID,
			}
			if err := inventory.ApplyMovement(ctx, movRepo, partRepo, mov); err != nil {
				return err
			}
			out = &ReturnedLine{Return: ret, Movement: mov}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
