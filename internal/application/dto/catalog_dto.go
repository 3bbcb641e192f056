package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ListPartsRequest query de GET /api/parts.
type ListPartsRequest struct {
	PageRequest
	CategoryID *int64 `query:"category_id"`
	Search     string `query:"search" validate:"max=200"`
}

// PartResponse refacción del catálogo.
type PartResponse struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	PartCode     string          `json:"part_code"`
	Brand        string          `json:"brand"`
	CategoryID   *int64          `json:"category_id,omitempty"`
	Category     string          `json:"category,omitempty"`
	Price        decimal.Decimal `json:"price"`
	CurrentStock int             `json:"current_stock"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// PartListResponse página del catálogo. Total es el número de elementos de la página.
type PartListResponse struct {
	Items []PartResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// CategoryResponse categoría del catálogo.
type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
