package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
type RegisterMovementRequest struct {
	Type          string           `json:"type" validate:"required,oneof=ENTRY EXIT RETURN"`
	PartID        int64            `json:"part_id" validate:"required,gt=0"`
	Quantity      int              `json:"quantity" validate:"required,gt=0"`
	UnitPrice     *decimal.Decimal `json:"unit_price,omitempty" validate:"omitempty,min=0"`
	RelatedSaleID *int64           `json:"related_sale_id,omitempty" validate:"omitempty,gt=0"`
	Reason        string           `json:"reason,omitempty" validate:"max=500"`
	Notes         string           `json:"notes,omitempty" validate:"max=1000"`
}

// ListMovementsRequest query de GET /api/inventory/movements.
type ListMovementsRequest struct {
	PageRequest
	CategoryID *int64 `query:"category_id"`
	Search     string `query:"search"`
	Ordering   string `query:"ordering"`
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID            int64            `json:"id"`
	PartID        int64            `json:"part_id"`
	Type          string           `json:"type"`
	Quantity      int              `json:"quantity"`
	UnitPrice     *decimal.Decimal `json:"unit_price,omitempty"`
	Timestamp     time.Time        `json:"timestamp"`
	RelatedSaleID *int64           `json:"related_sale_id,omitempty"`
	Reason        string           `json:"reason,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	StockBefore   int              `json:"stock_before"`
	StockAfter    int              `json:"stock_after"`
	TransactionID string           `json:"transaction_id"`
	CreatedBy     string           `json:"created_by,omitempty"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items    []MovementResponse `json:"items"`
	Ordering string             `json:"ordering"`
	Page     PageResponse       `json:"page"`
}

// StockResponse stock actual de una refacción contrastado con el historial de movimientos.
type StockResponse struct {
	PartID       int64           `json:"part_id"`
	PartName     string          `json:"part_name"`
	CurrentStock int             `json:"current_stock"`
	Replayed     int             `json:"replayed_stock"`
	Entries      int             `json:"entries"`
	Exits        int             `json:"exits"`
	Returns      int             `json:"returns"`
	AverageCost  decimal.Decimal `json:"average_cost"`
	Consistent   bool            `json:"consistent"`
}

// MovementFromEntity mapea entidad a respuesta.
func MovementFromEntity(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		PartID:        m.PartID,
		Type:          string(m.Type),
		Quantity:      m.Quantity,
		UnitPrice:     m.UnitPrice,
		Timestamp:     m.Timestamp,
		RelatedSaleID: m.RelatedSaleID,
		Reason:        m.Reason,
		Notes:         m.Notes,
		StockBefore:   m.StockBefore,
		StockAfter:    m.StockAfter,
		TransactionID: m.TransactionID,
		CreatedBy:     m.CreatedBy,
	}
}
