package excel_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/refacciones-ledger/internal/application/report"
	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
	"github.com/jhoicas/refacciones-ledger/internal/infrastructure/excel"
)

func TestEncoder_LibroLegible(t *testing.T) {
	day := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)
	txs := []entity.SaleTransaction{
		&entity.SalePart{ID: 5, PartName: "Compresor", Quantity: 2, UnitPrice: decimal.NewFromInt(100), Total: decimal.NewFromInt(200), SaleDate: day},
		&entity.SaleService{ID: 4, DeviceLabel: "Lavadora", Total: decimal.RequireFromString("350.50"), WarrantyDays: 30, SaleDate: day},
	}
	cols := report.DefaultColumns
	enc := excel.Encoder{}

	data, err := enc.Encode(cols, report.BuildTable(txs, cols))
	require.NoError(t, err)
	assert.Equal(t, "xlsx", enc.Extension())

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(excel.SheetName)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 3)
	assert.Equal(t, "Tipo", rows[0][0])
	assert.Equal(t, "refaccion", rows[1][0])
	assert.Equal(t, "servicio", rows[2][0])
	assert.Equal(t, "Compresor", rows[1][3])

	// fila de resumen: suma de la columna total
	last := rows[len(rows)-1]
	assert.Equal(t, "550.5", last[len(last)-1])
	assert.Equal(t, "TOTAL", last[len(last)-2])
}

func TestEncoder_SinFilas(t *testing.T) {
	data, err := excel.Encoder{}.Encode(report.DefaultColumns, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(excel.SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
