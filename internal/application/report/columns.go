// Package report serializa el ledger de ventas para descarga (CSV, XLSX) y genera la nota de costos.
package report

import (
	"strconv"

	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
)

// ColumnSpec columna exportable: Key identifica el campo, Header es el encabezado impreso.
type ColumnSpec struct {
	Key    string
	Header string
}

// Claves de columna. Las específicas de una clase quedan vacías en las filas de las otras.
const (
	ColKind          = "tipo"
	ColID            = "id"
	ColDate          = "fecha"
	ColTotal         = "total"
	ColUser          = "usuario"
	ColTransaction   = "transaccion"
	ColPart          = "refaccion"
	ColBrand         = "marca"
	ColQuantity      = "cantidad"
	ColUnitPrice     = "precio_unitario"
	ColDevice        = "dispositivo"
	ColLaborCost     = "mano_obra"
	ColPartsCost     = "costo_refacciones"
	ColTechnician    = "tecnico"
	ColWarrantyDays  = "garantia_dias"
	ColPaymentStatus = "estado_pago"
	ColObservations  = "observaciones"
	ColReason        = "motivo"
	ColRelatedSale   = "venta_relacionada"
)

// DefaultColumns columnas del export completo.
var DefaultColumns = []ColumnSpec{
	{ColKind, "Tipo"},
	{ColID, "ID"},
	{ColDate, "Fecha"},
	{ColPart, "Refacción"},
	{ColBrand, "Marca"},
	{ColQuantity, "Cantidad"},
	{ColUnitPrice, "Precio unitario"},
	{ColDevice, "Dispositivo"},
	{ColLaborCost, "Mano de obra"},
	{ColPartsCost, "Costo refacciones"},
	{ColTechnician, "Técnico"},
	{ColWarrantyDays, "Garantía (días)"},
	{ColPaymentStatus, "Estado de pago"},
	{ColObservations, "Observaciones"},
	{ColReason, "Motivo"},
	{ColRelatedSale, "Venta relacionada"},
	{ColUser, "Usuario"},
	{ColTransaction, "Transacción"},
	{ColTotal, "Total"},
}

const dateLayout = "2006-01-02 15:04:05"

// BuildTable una fila por transacción, en el orden de columns.
func BuildTable(txs []entity.SaleTransaction, columns []ColumnSpec) [][]string {
	out := make([][]string, 0, len(txs))
	for _, tx := range txs {
		b := rowBuilder{}
		tx.Accept(&b)
		row := make([]string, len(columns))
		for i, c := range columns {
			row[i] = b.fields[c.Key]
		}
		out = append(out, row)
	}
	return out
}

// Headers encabezados de columns.
func Headers(columns []ColumnSpec) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = c.Header
	}
	return out
}

// rowBuilder llena solo las columnas que aplican a cada clase.
type rowBuilder struct {
	fields map[string]string
}

func (b *rowBuilder) common(tx entity.SaleTransaction, userID string) {
	b.fields = map[string]string{
		ColKind:  string(tx.Kind()),
		ColID:    strconv.FormatInt(tx.SaleID(), 10),
		ColDate:  tx.Date().Format(dateLayout),
		ColTotal: tx.Amount().StringFixed(2),
		ColUser:  userID,
	}
}

func (b *rowBuilder) VisitPart(s *entity.SalePart) {
	b.common(s, s.UserID)
	b.fields[ColTransaction] = s.TransactionID
	b.fields[ColPart] = s.PartName
	b.fields[ColBrand] = s.BrandName
	b.fields[ColQuantity] = strconv.Itoa(s.Quantity)
	b.fields[ColUnitPrice] = s.UnitPrice.StringFixed(2)
}

func (b *rowBuilder) VisitService(s *entity.SaleService) {
	b.common(s, s.UserID)
	b.fields[ColDevice] = s.DeviceLabel
	b.fields[ColLaborCost] = s.LaborCost.StringFixed(2)
	b.fields[ColPartsCost] = s.PartsCost.StringFixed(2)
	b.fields[ColTechnician] = s.Technician
	b.fields[ColWarrantyDays] = strconv.Itoa(s.WarrantyDays)
	b.fields[ColPaymentStatus] = string(s.PaymentStatus)
	b.fields[ColObservations] = s.Observations
}

func (b *rowBuilder) VisitReturn(r *entity.Return) {
	b.common(r, r.UserID)
	b.fields[ColTransaction] = r.TransactionID
	b.fields[ColPart] = r.PartName
	b.fields[ColQuantity] = strconv.Itoa(r.Quantity)
	b.fields[ColUnitPrice] = r.UnitPrice.StringFixed(2)
	b.fields[ColReason] = r.Reason
	if r.RelatedSaleID != nil {
		b.fields[ColRelatedSale] = strconv.FormatInt(*r.RelatedSaleID, 10)
	}
}
