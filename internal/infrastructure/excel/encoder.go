// Package excel exporta el ledger de ventas a .xlsx con excelize.
package excel

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/refacciones-ledger/internal/application/report"
)

// SheetName hoja única del libro.
const SheetName = "Ventas"

// numericColumns se escriben como número para que la hoja pueda sumarlas.
var numericColumns = map[string]bool{
	report.ColID:           true,
	report.ColQuantity:     true,
	report.ColUnitPrice:    true,
	report.ColLaborCost:    true,
	report.ColPartsCost:    true,
	report.ColWarrantyDays: true,
	report.ColRelatedSale:  true,
	report.ColTotal:        true,
}

// Encoder implementa report.Encoder generando un libro XLSX.
type Encoder struct{}

var _ report.Encoder = Encoder{}

func (Encoder) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (Encoder) Extension() string { return "xlsx" }

// Encode escribe encabezados en negrita, una fila por transacción y una fila final con la suma
// de la columna total (si existe).
func (Encoder) Encode(columns []report.ColumnSpec, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("excel: renombrar hoja: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("excel: estilo: %w", err)
	}

	// ── Encabezados ───────────────────────────────────────────────────────────
	totalCol := -1
	for i, c := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, c.Header); err != nil {
			return nil, fmt.Errorf("excel: encabezado %s: %w", c.Key, err)
		}
		if c.Key == report.ColTotal {
			totalCol = i
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := f.SetCellStyle(SheetName, "A1", lastHeader, headerStyle); err != nil {
		return nil, fmt.Errorf("excel: estilo encabezado: %w", err)
	}

	// ── Filas ─────────────────────────────────────────────────────────────────
	sum := decimal.Zero
	for r, values := range rows {
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			if err := f.SetCellValue(SheetName, cell, cellValue(columns[i].Key, v)); err != nil {
				return nil, fmt.Errorf("excel: celda %s: %w", cell, err)
			}
		}
		if totalCol >= 0 {
			if d, err := decimal.NewFromString(values[totalCol]); err == nil {
				sum = sum.Add(d)
			}
		}
	}

	if totalCol >= 0 && len(rows) > 0 {
		summaryRow := len(rows) + 3
		if totalCol > 0 {
			labelCell, _ := excelize.CoordinatesToCellName(totalCol, summaryRow)
			_ = f.SetCellValue(SheetName, labelCell, "TOTAL")
		}
		valueCell, _ := excelize.CoordinatesToCellName(totalCol+1, summaryRow)
		_ = f.SetCellValue(SheetName, valueCell, sum.InexactFloat64())
	}

	if len(columns) > 0 {
		_ = f.AutoFilter(SheetName, "A1:"+lastHeader, []excelize.AutoFilterOptions{})
		_ = f.SetPanes(SheetName, &excelize.Panes{Freeze: true, Split: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}

// cellValue número para las columnas numéricas no vacías; texto en el resto.
func cellValue(key, v string) any {
	if v == "" || !numericColumns[key] {
		return v
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	if d, err := decimal.NewFromString(v); err == nil {
		return d.InexactFloat64()
	}
	return v
}
