package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleKind discriminador de las tres clases de transacción de venta.
type SaleKind string

const (
	SaleKindPart    SaleKind = "refaccion"
	SaleKindService SaleKind = "servicio"
	SaleKindReturn  SaleKind = "devolucion"
)

// SaleKinds orden canónico de las clases (también usado para desempates).
var SaleKinds = []SaleKind{SaleKindPart, SaleKindService, SaleKindReturn}

// Valid indica si k es una clase conocida.
func (k SaleKind) Valid() bool {
	switch k {
	case SaleKindPart, SaleKindService, SaleKindReturn:
		return true
	}
	return false
}

// Rank posición de k en SaleKinds.
func (k SaleKind) Rank() int {
	for i, sk := range SaleKinds {
		if sk == k {
			return i
		}
	}
	return len(SaleKinds)
}

// PaymentStatus estado de pago de una venta de servicio.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pendiente"
	PaymentPartial PaymentStatus = "Parcial"
	PaymentPaid    PaymentStatus = "Pagado"
)

// Valid indica si s es un estado conocido.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPartial, PaymentPaid:
		return true
	}
	return false
}

// DefaultWarrantyDays garantía por defecto de una venta de servicio.
const DefaultWarrantyDays = 30

// SaleTransaction unión cerrada de SalePart, SaleService y Return.
// Solo este paquete puede implementarla; quien necesite distinguir las clases usa Accept.
type SaleTransaction interface {
	Kind() SaleKind
	SaleID() int64
	Date() time.Time
	Amount() decimal.Decimal
	Accept(v SaleVisitor)
	sealed()
}

// SaleVisitor obliga a tratar las tres clases: agregar una clase nueva rompe la compilación
// de cada visitante en lugar de caer en un default silencioso.
type SaleVisitor interface {
	VisitPart(s *SalePart)
	VisitService(s *SaleService)
	VisitReturn(r *Return)
}

// SalePart venta de refacción (tipo "refaccion").
type SalePart struct {
	ID            int64
	PartID        int64
	PartName      string // denormalizado al escribir
	BrandName     string // denormalizado al escribir
	Quantity      int
	UnitPrice     decimal.Decimal
	Total         decimal.Decimal
	UserID        string
	SaleDate      time.Time
	TransactionID string
}

func (s *SalePart) Kind() SaleKind          { return SaleKindPart }
func (s *SalePart) SaleID() int64           { return s.ID }
func (s *SalePart) Date() time.Time         { return s.SaleDate }
func (s *SalePart) Amount() decimal.Decimal { return s.Total }
func (s *SalePart) Accept(v SaleVisitor)    { v.VisitPart(s) }
func (s *SalePart) sealed()                 {}

// ServicePart línea del desglose de refacciones de una venta de servicio (nota de costos).
type ServicePart struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Total    decimal.Decimal `json:"total"`
}

// SaleService venta de servicio de reparación (tipo "servicio").
type SaleService struct {
	ID            int64
	ServiceID     int64
	DeviceLabel   string // denormalizado al escribir
	LaborCost     decimal.Decimal
	PartsCost     decimal.Decimal
	Total         decimal.Decimal
	Observations  string
	Technician    string
	WarrantyDays  int
	PaymentStatus PaymentStatus
	Parts         []ServicePart
	UserID        string
	SaleDate      time.Time
}

func (s *SaleService) Kind() SaleKind          { return SaleKindService }
func (s *SaleService) SaleID() int64           { return s.ID }
func (s *SaleService) Date() time.Time         { return s.SaleDate }
func (s *SaleService) Amount() decimal.Decimal { return s.Total }
func (s *SaleService) Accept(v SaleVisitor)    { v.VisitService(s) }
func (s *SaleService) sealed()                 {}

// Return devolución (tipo "devolucion"). SaleDate es la fecha de la devolución.
type Return struct {
	ID            int64
	RelatedSaleID *int64
	PartID        int64
	PartName      string
	Quantity      int
	UnitPrice     decimal.Decimal
	Total         decimal.Decimal
	Reason        string
	UserID        string
	SaleDate      time.Time
	TransactionID string
}

func (r *Return) Kind() SaleKind          { return SaleKindReturn }
func (r *Return) SaleID() int64           { return r.ID }
func (r *Return) Date() time.Time         { return r.SaleDate }
func (r *Return) Amount() decimal.Decimal { return r.Total }
func (r *Return) Accept(v SaleVisitor)    { v.VisitReturn(r) }
func (r *Return) sealed()                 {}

// SaleFilter filtros comunes a las tres tablas de ventas.
type SaleFilter struct {
	Search string // normalizado; vacío = sin filtro
	From   *time.Time
	To     *time.Time // exclusivo
	Limit  int
	Offset int
}
