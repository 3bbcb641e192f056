package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento de inventario.
type MovementType string

const (
	MovementEntry  MovementType = "ENTRY"  // entrada
	MovementExit   MovementType = "EXIT"   // salida
	MovementReturn MovementType = "RETURN" // devolución: la mercancía regresa al inventario
)

// Valid indica si t es uno de los tres tipos conocidos.
func (t MovementType) Valid() bool {
	switch t {
	case MovementEntry, MovementExit, MovementReturn:
		return true
	}
	return false
}

// Sign +1 si el movimiento suma stock, -1 si lo resta.
func (t MovementType) Sign() int {
	if t == MovementExit {
		return -1
	}
	return 1
}

// Movement registro inmutable de un evento que afecta stock. Nunca se actualiza ni se borra:
// las correcciones se hacen con un movimiento compensatorio.
type Movement struct {
	ID            int64
	PartID        int64
	Type          MovementType
	Quantity      int // siempre positivo; la dirección la da Type
	UnitPrice     *decimal.Decimal
	Timestamp     time.Time
	RelatedSaleID *int64
	Reason        string
	Notes         string
	StockBefore   int
	StockAfter    int
	TransactionID string
	CreatedBy     string
}

// Delta cantidad con signo aplicada al stock.
func (m *Movement) Delta() int {
	return m.Type.Sign() * m.Quantity
}

// MovementFilter filtros y orden del listado de movimientos.
type MovementFilter struct {
	CategoryID *int64
	PartID     *int64
	Search     string // id, código o nombre de refacción (normalizado)
	Ordering   string // fecha | -fecha | cantidad | -cantidad | precio_unitario | -precio_unitario
	From, To   *time.Time
	Limit      int
	Offset     int
}
