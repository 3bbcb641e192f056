// Package sales registra ventas de refacción, de servicio y devoluciones (ledger de ventas)
// y los flujos compuestos que además mueven inventario.
package sales

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/refacciones-ledger/internal/domain"
	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
	"github.com/jhoicas/refacciones-ledger/internal/domain/repository"
	domainsales "github.com/jhoicas/refacciones-ledger/internal/domain/sales"
	"github.com/jhoicas/refacciones-ledger/pkg/logger"
)

// PartSaleInput venta de refacción. UnitPrice nil = precio de catálogo; Total explícito se respeta.
type PartSaleInput struct {
	PartID    int64
	Quantity  int
	UnitPrice *decimal.Decimal
	Total     *decimal.Decimal
	SaleDate  *time.Time
}

// ServiceSaleInput venta de servicio.
type ServiceSaleInput struct {
	ServiceID     int64
	LaborCost     decimal.Decimal
	PartsCost     *decimal.Decimal
	Parts         []entity.ServicePart
	Observations  string
	Technician    string
	WarrantyDays  *int
	PaymentStatus entity.PaymentStatus
	Total         *decimal.Decimal
	SaleDate      *time.Time
}

// ReturnSaleInput devolución. UnitPrice nil = precio de la venta relacionada o, sin ella, de catálogo.
type ReturnSaleInput struct {
	PartID        int64
	Quantity      int
	UnitPrice     *decimal.Decimal
	RelatedSaleID *int64
	Reason        string
	SaleDate      *time.Time
}

// SalesUseCase operaciones de un solo ledger. No tocan stock: sirven para correcciones
// administrativas y ventas históricas. El flujo normal usa Workflow.
type SalesUseCase struct {
	txRunner    TxRunner
	partRepo    repository.PartRepository
	saleRepo    repository.SaleRepository
	serviceRepo repository.ServiceRepository
	log         *logger.Logger
	now         func() time.Time
}

// NewSalesUseCase construye el caso de uso.
func NewSalesUseCase(
	txRunner TxRunner,
	partRepo repository.PartRepository,
	saleRepo repository.SaleRepository,
	serviceRepo repository.ServiceRepository,
	log *logger.Logger,
) *SalesUseCase {
	return &SalesUseCase{
		txRunner:    txRunner,
		partRepo:    partRepo,
		saleRepo:    saleRepo,
		serviceRepo: serviceRepo,
		log:         log.Named("sales"),
		now:         time.Now,
	}
}

// RecordPartSale registra una venta de refacción sin mover inventario.
func (uc *SalesUseCase) RecordPartSale(ctx context.Context, userID string, in PartSaleInput) (*entity.SalePart, error) {
	sale, err := buildPartSale(ctx, uc.partRepo, userID, in, uc.now())
	if err != nil {
		return nil, err
	}
	if err := uc.saleRepo.CreatePartSale(ctx, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

// RecordServiceSale registra una venta de servicio y, en la misma transacción, guarda el
// snapshot de la nota de costos en la orden de servicio.
func (uc *SalesUseCase) RecordServiceSale(ctx context.Context, userID string, in ServiceSaleInput) (*entity.SaleService, error) {
	var out *entity.SaleService
	err := uc.txRunner.RunLedger(ctx, func(
		_ repository.MovementRepository,
		_ repository.PartRepository,
		saleRepo repository.SaleRepository,
		serviceRepo repository.ServiceRepository,
	) error {
		svc, err := serviceRepo.GetByID(ctx, in.ServiceID)
		if err != nil {
			return err
		}
		if svc == nil {
			return domain.NotFound("service", in.ServiceID)
		}
		sale, err := uc.buildServiceSale(svc, userID, in)
		if err != nil {
			return err
		}
		if err := saleRepo.CreateServiceSale(ctx, sale); err != nil {
			return err
		}
		if err := serviceRepo.UpdateCostNote(ctx, svc.ID, entity.NewCostNote(sale)); err != nil {
			return err
		}
		out = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RecordReturn registra una devolución sin mover inventario. La validación contra la venta
// relacionada y el alta van en la misma transacción.
func (uc *SalesUseCase) RecordReturn(ctx context.Context, userID string, in ReturnSaleInput) (*entity.Return, error) {
	var out *entity.Return
	err := uc.txRunner.RunLedger(ctx, func(
		_ repository.MovementRepository,
		partRepo repository.PartRepository,
		saleRepo repository.SaleRepository,
		_ repository.ServiceRepository,
	) error {
		ret, err := buildReturn(ctx, partRepo, saleRepo, userID, in, uc.now())
		if err != nil {
			return err
		}
		if err := saleRepo.CreateReturn(ctx, ret); err != nil {
			return err
		}
		out = ret
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (uc *SalesUseCase) buildServiceSale(svc *entity.Service, userID string, in ServiceSaleInput) (*entity.SaleService, error) {
	costs, err := domainsales.ResolveServiceCosts(in.LaborCost, in.PartsCost, in.Parts, in.Total)
	if err != nil {
		return nil, err
	}
	if costs.Mismatch {
		uc.log.Warn().
			Int64("service_id", svc.ID).
			Str("parts_cost", costs.PartsCost.String()).
			Str("breakdown_sum", costs.BreakdownSum.String()).
			Msg("parts_cost no coincide con el desglose")
	}
	warranty := entity.DefaultWarrantyDays
	if in.WarrantyDays != nil {
		if *in.WarrantyDays < 0 {
			return nil, domain.Invalid("warranty_days", *in.WarrantyDays, "non_negative")
		}
		warranty = *in.WarrantyDays
	}
	status := in.PaymentStatus
	if status == "" {
		status = entity.PaymentPending
	}
	if !status.Valid() {
		return nil, domain.Invalid("payment_status", status, "one_of")
	}
	return &entity.SaleService{
		ServiceID:     svc.ID,
		DeviceLabel:   svc.DeviceLabel,
		LaborCost:     costs.LaborCost,
		PartsCost:     costs.PartsCost,
		Total:         costs.Total,
		Observations:  in.Observations,
		Technician:    in.Technician,
		WarrantyDays:  warranty,
		PaymentStatus: status,
		Parts:         costs.Parts,
		UserID:        userID,
		SaleDate:      dateOr(in.SaleDate, uc.now()),
	}, nil
}

func buildPartSale(ctx context.Context, partRepo repository.PartRepository, userID string, in PartSaleInput, now time.Time) (*entity.SalePart, error) {
	if in.PartID <= 0 {
		return nil, domain.Invalid("part_id", in.PartID, "positive")
	}
	part, err := partRepo.GetByID(ctx, in.PartID)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, domain.NotFound("part", in.PartID)
	}
	price := part.Price
	if in.UnitPrice != nil {
		price = *in.UnitPrice
	}
	total, err := domainsales.PartSaleTotal(in.Quantity, price, in.Total)
	if err != nil {
		return nil, err
	}
	return &entity.SalePart{
		PartID:    part.ID,
		PartName:  part.Name,
		BrandName: part.Brand,
		Quantity:  in.Quantity,
		UnitPrice: price,
		Total:     total,
		UserID:    userID,
		SaleDate:  dateOr(in.SaleDate, now),
	}, nil
}

// buildReturn valida la devolución. Debe llamarse dentro de RunLedger: bloquea la fila de la
// refacción, así dos devoluciones contra la misma venta no pasan la validación a la vez.
// Si trae venta relacionada, debe existir, ser de la misma refacción y no exceder lo pendiente
// por devolver (vendido menos lo ya devuelto).
func buildReturn(ctx context.Context, partRepo repository.PartRepository, saleRepo repository.SaleRepository, userID string, in ReturnSaleInput, now time.Time) (*entity.Return, error) {
	if in.PartID <= 0 {
		return nil, domain.Invalid("part_id", in.PartID, "positive")
	}
	if in.Quantity <= 0 {
		return nil, domain.Invalid("quantity", in.Quantity, "positive")
	}
	part, err := partRepo.GetForUpdate(ctx, in.PartID)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, domain.NotFound("part", in.PartID)
	}
	price := part.Price
	if in.RelatedSaleID != nil {
		related, err := saleRepo.GetPartSale(ctx, *in.RelatedSaleID)
		if err != nil {
			return nil, err
		}
		if related == nil {
			return nil, domain.NotFound("sale", *in.RelatedSaleID)
		}
		if related.PartID != in.PartID {
			return nil, &domain.ValidationError{Field: "related_sale_id", Value: *in.RelatedSaleID, Rule: "mismatch", Limit: related.PartID}
		}
		returned, err := saleRepo.SumReturnsForSale(ctx, related.ID)
		if err != nil {
			return nil, err
		}
		if remaining := related.Quantity - returned; in.Quantity > remaining {
			return nil, &domain.ValidationError{Field: "quantity", Value: in.Quantity, Rule: "range", Limit: remaining}
		}
		price = related.UnitPrice
	}
	if in.UnitPrice != nil {
		price = *in.UnitPrice
	}
	total, err := domainsales.PartSaleTotal(in.Quantity, price, nil)
	if err != nil {
		return nil, err
	}
	return &entity.Return{
		RelatedSaleID: in.RelatedSaleID,
		PartID:        part.ID,
		PartName:      part.Name,
		Quantity:      in.Quantity,
		UnitPrice:     price,
		Total:         total,
		Reason:        in.Reason,
		UserID:        userID,
		SaleDate:      dateOr(in.SaleDate, now),
	}, nil
}

func dateOr(t *time.Time, def time.Time) time.Time {
	if t != nil && !t.IsZero() {
		return *t
	}
	return def
}
