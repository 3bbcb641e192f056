package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service orden de servicio de reparación (entidad externa al ledger).
type Service struct {
	ID           int64
	DeviceLabel  string
	CustomerName string
	CostNote     *CostNote
	UpdatedAt    time.Time
}

// CostNote snapshot denormalizado de la última venta de servicio, para imprimir la nota de costos
// sin volver a consultar el ledger. No es fuente de verdad.
type CostNote struct {
	SaleID        int64           `json:"sale_id"`
	LaborCost     decimal.Decimal `json:"labor_cost"`
	PartsCost     decimal.Decimal `json:"parts_cost"`
	Total         decimal.Decimal `json:"total"`
	Parts         []ServicePart   `json:"parts"`
	Technician    string          `json:"technician"`
	Observations  string          `json:"observations"`
	WarrantyDays  int             `json:"warranty_days"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	IssuedAt      time.Time       `json:"issued_at"`
}

// NewCostNote construye el snapshot a partir de la venta registrada.
func NewCostNote(s *SaleService) CostNote {
	parts := make([]ServicePart, len(s.Parts))
	copy(parts, s.Parts)
	return CostNote{
		SaleID:        s.ID,
		LaborCost:     s.LaborCost,
		PartsCost:     s.PartsCost,
		Total:         s.Total,
		Parts:         parts,
		Technician:    s.Technician,
		Observations:  s.Observations,
		WarrantyDays:  s.WarrantyDays,
		PaymentStatus: s.PaymentStatus,
		IssuedAt:      s.SaleDate,
	}
}
