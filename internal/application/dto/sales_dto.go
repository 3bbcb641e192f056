package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
)

// PartSaleRequest body para POST /api/sales/parts.
type PartSaleRequest struct {
	PartID    int64            `json:"part_id" validate:"required,gt=0"`
	Quantity  int              `json:"quantity" validate:"required,gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty" validate:"omitempty,min=0"` // nil = precio de catálogo
	Total     *decimal.Decimal `json:"total,omitempty" validate:"omitempty,min=0"`
	SaleDate  *time.Time       `json:"sale_date,omitempty"`
}

// ServicePartRequest línea del desglose.
type ServicePartRequest struct {
	Name     string          `json:"name" validate:"required,max=200"`
	Quantity int             `json:"quantity" validate:"min=0"`
	Price    decimal.Decimal `json:"price" validate:"min=0"`
	Total    decimal.Decimal `json:"total" validate:"min=0"`
}

// ServiceSaleRequest body para POST /api/sales/services.
type ServiceSaleRequest struct {
	ServiceID     int64                `json:"service_id" validate:"required,gt=0"`
	LaborCost     decimal.Decimal      `json:"labor_cost" validate:"min=0"`
	PartsCost     *decimal.Decimal     `json:"parts_cost,omitempty" validate:"omitempty,min=0"`
	Parts         []ServicePartRequest `json:"parts" validate:"omitempty,dive"`
	Observations  string               `json:"observations,omitempty" validate:"max=2000"`
	Technician    string               `json:"technician,omitempty" validate:"max=200"`
	WarrantyDays  *int                 `json:"warranty_days,omitempty" validate:"omitempty,min=0"`
	PaymentStatus string               `json:"payment_status,omitempty" validate:"omitempty,oneof=Pendiente Parcial Pagado"`
	Total         *decimal.Decimal     `json:"total,omitempty" validate:"omitempty,min=0"`
	SaleDate      *time.Time           `json:"sale_date,omitempty"`
}

// ReturnRequest body para POST /api/sales/returns.
type ReturnRequest struct {
	PartID        int64            `json:"part_id" validate:"required,gt=0"`
	Quantity      int              `json:"quantity" validate:"required,gt=0"`
	UnitPrice     *decimal.Decimal `json:"unit_price,omitempty" validate:"omitempty,min=0"`
	RelatedSaleID *int64           `json:"related_sale_id,omitempty" validate:"omitempty,gt=0"`
	Reason        string           `json:"reason,omitempty" validate:"max=500"`
	SaleDate      *time.Time       `json:"sale_date,omitempty"`
}

// SaleTransactionDTO fila del feed unificado, discriminada por Tipo.
// Los campos que no aplican a la clase quedan vacíos.
type SaleTransactionDTO struct {
	Tipo          string          `json:"tipo"`
	ID            int64           `json:"id"`
	Fecha         time.Time       `json:"fecha"`
	Total         decimal.Decimal `json:"total"`
	UserID        string          `json:"user_id,omitempty"`
	TransactionID string          `json:"transaction_id,omitempty"`

	// refaccion / devolucion
	PartID    *int64           `json:"part_id,omitempty"`
	PartName  string           `json:"part_name,omitempty"`
	BrandName string           `json:"brand_name,omitempty"`
	Quantity  *int             `json:"quantity,omitempty"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`

	// servicio
	ServiceID     *int64               `json:"service_id,omitempty"`
	DeviceLabel   string               `json:"device_label,omitempty"`
	LaborCost     *decimal.Decimal     `json:"labor_cost,omitempty"`
	PartsCost     *decimal.Decimal     `json:"parts_cost,omitempty"`
	Observations  string               `json:"observations,omitempty"`
	Technician    string               `json:"technician,omitempty"`
	WarrantyDays  *int                 `json:"warranty_days,omitempty"`
	PaymentStatus string               `json:"payment_status,omitempty"`
	Parts         []ServicePartRequest `json:"parts,omitempty"`

	// devolucion
	RelatedSaleID *int64 `json:"related_sale_id,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// SaleFromEntity mapea cualquier clase de venta al DTO del feed.
func SaleFromEntity(tx entity.SaleTransaction) SaleTransactionDTO {
	m := saleMapper{}
	tx.Accept(&m)
	return m.out
}

// SalesFromEntities mapea una página completa.
func SalesFromEntities(txs []entity.SaleTransaction) []SaleTransactionDTO {
	out := make([]SaleTransactionDTO, 0, len(txs))
	for _, tx := range txs {
		out = append(out, SaleFromEntity(tx))
	}
	return out
}

type saleMapper struct {
	out SaleTransactionDTO
}

func (m *saleMapper) VisitPart(s *entity.SalePart) {
	m.out = SaleTransactionDTO{
		Tipo: string(s.Kind()), ID: s.ID, Fecha: s.SaleDate, Total: s.Total,
		UserID: s.UserID, TransactionID: s.TransactionID,
		PartID: &s.PartID, PartName: s.PartName, BrandName: s.BrandName,
		Quantity: &s.Quantity, UnitPrice: &s.UnitPrice,
	}
}

func (m *saleMapper) VisitService(s *entity.SaleService) {
	parts := make([]ServicePartRequest, 0, len(s.Parts))
	for _, p := range s.Parts {
		parts = append(parts, ServicePartRequest{Name: p.Name, Quantity: p.Quantity, Price: p.Price, Total: p.Total})
	}
	m.out = SaleTransactionDTO{
		Tipo: string(s.Kind()), ID: s.ID, Fecha: s.SaleDate, Total: s.Total, UserID: s.UserID,
		ServiceID: &s.ServiceID, DeviceLabel: s.DeviceLabel,
		LaborCost: &s.LaborCost, PartsCost: &s.PartsCost,
		Observations: s.Observations, Technician: s.Technician,
		WarrantyDays: &s.WarrantyDays, PaymentStatus: string(s.PaymentStatus),
		Parts: parts,
	}
}

func (m *saleMapper) VisitReturn(r *entity.Return) {
	m.out = SaleTransactionDTO{
		Tipo: string(r.Kind()), ID: r.ID, Fecha: r.SaleDate, Total: r.Total,
		UserID: r.UserID, TransactionID: r.TransactionID,
		PartID: &r.PartID, PartName: r.PartName,
		Quantity: &r.Quantity, UnitPrice: &r.UnitPrice,
		RelatedSaleID: r.RelatedSaleID, Reason: r.Reason,
	}
}

// PartSaleResponse resultado de la venta compuesta (venta + salida de inventario).
type PartSaleResponse struct {
	Sale     SaleTransactionDTO `json:"sale"`
	Movement *MovementResponse  `json:"movement,omitempty"`
}

// PartSalesResponse resultado de una venta de varias líneas (checkout).
type PartSalesResponse struct {
	TransactionID string             `json:"transaction_id"`
	Lines         []PartSaleResponse `json:"lines"`
	Total         decimal.Decimal    `json:"total"`
}

// ReturnResponse resultado de la devolución compuesta.
type ReturnResponse struct {
	Return   SaleTransactionDTO `json:"return"`
	Movement *MovementResponse  `json:"movement,omitempty"`
}
