package report

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
)

// utf8BOM marca de orden de bytes que Excel necesita para abrir el CSV como UTF-8.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Encoder serializa una tabla ya construida.
type Encoder interface {
	Encode(columns []ColumnSpec, rows [][]string) ([]byte, error)
	ContentType() string
	Extension() string
}

// CSVEncoder CSV RFC 4180 con BOM: comillas y saltos de línea se escapan con comillas dobles.
type CSVEncoder struct{}

var _ Encoder = CSVEncoder{}

func (CSVEncoder) Encode(columns []ColumnSpec, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)
	w := csv.NewWriter(&buf)
	if err := w.Write(Headers(columns)); err != nil {
		return nil, fmt.Errorf("csv: encabezados: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("csv: filas: %w", err)
	}
	return buf.Bytes(), nil
}

func (CSVEncoder) ContentType() string { return "text/csv; charset=utf-8" }
func (CSVEncoder) Extension() string   { return "csv" }

// ExportToDelimitedText CSV con BOM de las transacciones dadas.
func ExportToDelimitedText(txs []entity.SaleTransaction, columns []ColumnSpec) ([]byte, error) {
	return CSVEncoder{}.Encode(columns, BuildTable(txs, columns))
}
