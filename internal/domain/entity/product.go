package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Part representa una refacción del catálogo. El catálogo es externo: el ledger solo la lee
// y, a través de movimientos, modifica CurrentStock.
type Part struct {
	ID           int64
	Name         string
	PartCode     string // código de la refacción
	Brand        string
	CategoryID   *int64
	Category     string // nombre denormalizado; vacío si no tiene categoría
	Price        decimal.Decimal
	CurrentStock int // nunca negativo
	UpdatedAt    time.Time
}

// PartFilter filtros de lectura del catálogo.
type PartFilter struct {
	CategoryID *int64
	Search     string // ya normalizado (ver search.Normalize)
	IDs        []int64
	Limit      int
	Offset     int
}
