package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
)

func TestMoney(t *testing.T) {
	assert.Equal(t, "$0.00", money(decimal.Zero))
	assert.Equal(t, "$950.50", money(decimal.RequireFromString("950.5")))
	assert.Equal(t, "$1,234,567.00", money(decimal.NewFromInt(1234567)))
	assert.Equal(t, "-$25,000.00", money(decimal.NewFromInt(-25000)))
}

func TestRenderCostNote_GeneraPDF(t *testing.T) {
	note := entity.CostNote{
		SaleID:    12,
		LaborCost: decimal.NewFromInt(300),
		PartsCost: decimal.NewFromInt(150),
		Total:     decimal.NewFromInt(450),
		Parts: []entity.ServicePart{
			{Name: "Bomba de desagüe", Quantity: 1, Price: decimal.NewFromInt(150), Total: decimal.NewFromInt(150)},
		},
		Technician:    "Luis",
		Observations:  "Se cambió la bomba\nSe probó ciclo completo",
		WarrantyDays:  30,
		PaymentStatus: entity.PaymentPaid,
		IssuedAt:      time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC),
	}
	svc := &entity.Service{ID: 3, DeviceLabel: "Lavadora Whirlpool", CustomerName: "María", CostNote: &note}

	out, err := NewMarotoPDFGenerator("Refacciones del Centro").RenderCostNote(context.Background(), svc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderCostNote_SinNota(t *testing.T) {
	_, err := NewMarotoPDFGenerator("x").RenderCostNote(context.Background(), &entity.Service{ID: 1})
	assert.Error(t, err)
}
