package sales_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/refacciones-ledger/internal/application/sales"
	"github.com/jhoicas/refacciones-ledger/internal/domain"
	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
	"github.com/jhoicas/refacciones-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/refacciones-ledger/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testUser = "vendedor-1"

type fixture struct {
	store    *memory.Store
	uc       *sales.SalesUseCase
	workflow *sales.Workflow
	part     *entity.Part
	service  *entity.Service
}

func setup(t *testing.T, log *logger.Logger) fixture {
	t.Helper()
	store := memory.NewStore()
	part := store.AddPart(entity.Part{Name: "Motor lavadora", Brand: "Whirlpool", Price: decimal.NewFromInt(60), CurrentStock: 20})
	svc := store.AddService(entity.Service{DeviceLabel: "Refrigerador Mabe", CustomerName: "Ana"})
	return fixture{
		store:    store,
		uc:       sales.NewSalesUseCase(store, store.Parts(), store.Sales(), store.Services(), log),
		workflow: sales.NewWorkflow(store, log),
		part:     part,
		service:  svc,
	}
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func decp(v int64) *decimal.Decimal {
	d := dec(v)
	return &d
}

func stockOf(t *testing.T, f fixture) int {
	t.Helper()
	p, err := f.store.Parts().GetByID(context.Background(), f.part.ID)
	require.NoError(t, err)
	return p.CurrentStock
}

// ──────────────────────────────────────────────────────────────────────────────
// Operaciones de un solo ledger
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordPartSale_CalculaTotalYDenormaliza(t *testing.T) {
	f := setup(t, logger.Nop())

	s, err := f.uc.RecordPartSale(context.Background(), testUser, sales.PartSaleInput{PartID: f.part.ID, Quantity: 3, UnitPrice: decp(55)})
	require.NoError(t, err)

	assert.NotZero(t, s.ID)
	assert.True(t, s.Total.Equal(dec(165)))
	assert.Equal(t, "Motor lavadora", s.PartName)
	assert.Equal(t, "Whirlpool", s.BrandName)
	assert.Equal(t, testUser, s.UserID)
	assert.Equal(t, 20, stockOf(t, f), "la venta sola no toca el stock")
}

func TestRecordPartSale_PrecioDeCatalogoYTotalExplicito(t *testing.T) {
	f := setup(t, logger.Nop())

	s, err := f.uc.RecordPartSale(context.Background(), testUser, sales.PartSaleInput{PartID: f.part.ID, Quantity: 2, Total: decp(119)})
	require.NoError(t, err)
	assert.True(t, s.UnitPrice.Equal(dec(60)))
	assert.True(t, s.Total.Equal(dec(119)))
}

func TestRecordServiceSale_DerivaPartsCostYGuardaNota(t *testing.T) {
	f := setup(t, logger.Nop())
	zero := decimal.Zero

	s, err := f.uc.RecordServiceSale(context.Background(), testUser, sales.ServiceSaleInput{
		ServiceID: f.service.ID,
		LaborCost: dec(500),
		PartsCost: &zero,
		Parts:     []entity.ServicePart{{Name: "Motor", Quantity: 1, Price: dec(300), Total: dec(300)}},
	})
	require.NoError(t, err)

	assert.True(t, s.PartsCost.Equal(dec(300)))
	assert.True(t, s.Total.Equal(dec(800)))
	assert.Equal(t, entity.DefaultWarrantyDays, s.WarrantyDays)
	assert.Equal(t, entity.PaymentPending, s.PaymentStatus)
	assert.Equal(t, "Refrigerador Mabe", s.DeviceLabel)

	svc, err := f.store.Services().GetByID(context.Background(), f.service.ID)
	require.NoError(t, err)
	require.NotNil(t, svc.CostNote)
	assert.Equal(t, s.ID, svc.CostNote.SaleID)
	assert.True(t, svc.CostNote.Total.Equal(dec(800)))
	assert.Len(t, svc.CostNote.Parts, 1)
}

func TestRecordServiceSale_DesgloseDistintoSoloAdvierte(t *testing.T) {
	var buf bytes.Buffer
	f := setup(t, logger.NewWithWriter(&buf, "warn"))

	s, err := f.uc.RecordServiceSale(context.Background(), testUser, sales.ServiceSaleInput{
		ServiceID: f.service.ID,
		LaborCost: dec(100),
		PartsCost: decp(250),
		Parts:     []entity.ServicePart{{Name: "Motor", Quantity: 1, Price: dec(300)}},
	})
	require.NoError(t, err)
	assert.True(t, s.PartsCost.Equal(dec(250)))
	assert.Contains(t, buf.String(), "parts_cost no coincide")
}

func TestRecordServiceSale_ValidaEntrada(t *testing.T) {
	f := setup(t, logger.Nop())
	ctx := context.Background()

	_, err := f.uc.RecordServiceSale(ctx, testUser, sales.ServiceSaleInput{ServiceID: 999, LaborCost: dec(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.RecordServiceSale(ctx, testUser, sales.ServiceSaleInput{ServiceID: f.service.ID, LaborCost: dec(1), PaymentStatus: "Fiado"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	svc, err := f.store.Services().GetByID(ctx, f.service.ID)
	require.NoError(t, err)
	assert.Nil(t, svc.CostNote, "una venta rechazada no deja nota de costos")
}

func TestRecordReturn_VentaRelacionadaDebeSerDeLaMismaRefaccion(t *testing.T) {
	f := setup(t, logger.Nop())
	ctx := context.Background()
	other := f.store.AddPart(entity.Part{Name: "Banda", Price: dec(10), CurrentStock: 3})

	sale, err := f.uc.RecordPartSale(ctx, testUser, sales.PartSaleInput{PartID: f.part.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = f.uc.RecordReturn(ctx, testUser, sales.ReturnSaleInput{PartID: other.ID, Quantity: 1, RelatedSaleID: &sale.ID})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "related_sale_id", ve.Field)

	_, err = f.uc.RecordReturn(ctx, testUser, sales.ReturnSaleInput{PartID: f.part.ID, Quantity: 2, RelatedSaleID: &sale.ID})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "quantity", ve.Field)
	assert.Equal(t, 1, ve.Limit)

	missing := int64(12345)
	_, err = f.uc.RecordReturn(ctx, testUser, sales.ReturnSaleInput{PartID: f.part.ID, Quantity: 1, RelatedSaleID: &missing})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujos compuestos
// ──────────────────────────────────────────────────────────────────────────────

func TestSellPart_RegistraVentaYSalida(t *testing.T) {
	f := setup(t, logger.Nop())

	line, err := f.workflow.SellPart(context.Background(), testUser, sales.PartSaleInput{PartID: f.part.ID, Quantity: 8})
	require.NoError(t, err)

	assert.Equal(t, 12, stockOf(t, f))
	require.NotNil(t, line.Movement.RelatedSaleID)
	assert.Equal(t, line.Sale.ID, *line.Movement.RelatedSaleID)
	assert.Equal(t, entity.MovementExit, line.Movement.Type)
	assert.Equal(t, line.Sale.TransactionID, line.Movement.TransactionID)
}

func TestSellPart_SinStockNoRegistraVenta(t *testing.T) {
	f := setup(t, logger.Nop())

	_, err := f.workflow.SellPart(context.Background(), testUser, sales.PartSaleInput{PartID: f.part.ID, Quantity: 21})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, total, err := f.store.Sales().ListPartSales(context.Background(), entity.SaleFilter{})
	require.NoError(t, err)
	assert.Zero(t, total, "la venta no debe quedar sin su salida")
	assert.Equal(t, 20, stockOf(t, f))
}

func TestSellParts_TodoONada(t *testing.T) {
	f := setup(t, logger.Nop())
	other := f.store.AddPart(entity.Part{Name: "Banda", Price: dec(10), CurrentStock: 1})

	_, err := f.workflow.SellParts(context.Background(), testUser, []sales.PartSaleInput{
		{PartID: f.part.ID, Quantity: 2},
		{PartID: other.ID, Quantity: 5},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 20, stockOf(t, f), "la primera línea se revierte")

	res, err := f.workflow.SellParts(context.Background(), testUser, []sales.PartSaleInput{
		{PartID: f.part.ID, Quantity: 2},
		{PartID: other.ID, Quantity: 1},
	})
	require.NoError(t, err)
	assert.Len(t, res.Lines, 2)
	assert.True(t, res.Total.Equal(dec(130)))
}

func TestReturnPart_ReponeStockConPrecioDeLaVenta(t *testing.T) {
	f := setup(t, logger.Nop())
	ctx := context.Background()

	sold, err := f.workflow.SellPart(ctx, testUser, sales.PartSaleInput{PartID: f.part.ID, Quantity: 8, UnitPrice: decp(60)})
	require.NoError(t, err)

	ret, err := f.workflow.ReturnPart(ctx, testUser, sales.ReturnSaleInput{PartID: f.part.ID, Quantity: 3, RelatedSaleID: &sold.Sale.ID, Reason: "no funciona"})
	require.NoError(t, err)

	assert.Equal(t, 15, stockOf(t, f))
	assert.True(t, ret.Return.Total.Equal(dec(180)))
	assert.Equal(t, entity.MovementReturn, ret.Movement.Type)
	assert.Equal(t, ret.Return.TransactionID, ret.Movement.TransactionID)

	history, err := f.store.Movements().ListByPart(ctx, f.part.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestReturnPart_NoExcedeLoVendido(t *testing.T) {
	f := setup(t, logger.Nop())
	ctx := context.Background()

	sold, err := f.workflow.SellPart(ctx, testUser, sales.PartSaleInput{PartID: f.part.ID, Quantity: 1})
	require.NoError(t, err)
	require.Equal(t, 19, stockOf(t, f))

	_, err = f.workflow.ReturnPart(ctx, testUser, sales.ReturnSaleInput{PartID: f.part.ID, Quantity: 50, RelatedSaleID: &sold.Sale.ID})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "quantity", ve.Field)
	assert.Equal(t, "range", ve.Rule)
	assert.Equal(t, 1, ve.Limit)

	assert.Equal(t, 19, stockOf(t, f), "una devolución rechazada no repone stock")
	_, total, err := f.store.Sales().ListReturns(ctx, entity.SaleFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestReturnPart_DescuentaDevolucionesPrevias(t *testing.T) {
	f := setup(t, logger.Nop())
	ctx := context.Background()

	sold, err := f.workflow.SellPart(ctx, testUser, sales.PartSaleInput{PartID: f.part.ID, Quantity: 5})
	require.NoError(t, err)

	_, err = f.workflow.ReturnPart(ctx, testUser, sales.ReturnSaleInput{PartID: f.part.ID, Quantity: 3, RelatedSaleID: &sold.Sale.ID})
	require.NoError(t, err)

	_, err = f.workflow.ReturnPart(ctx, testUser, sales.ReturnSaleInput{PartID: f.part.ID, Quantity: 3, RelatedSaleID: &sold.Sale.ID})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, 2, ve.Limit, "quedan 2 por devolver")

	_, err = f.workflow.ReturnPart(ctx, testUser, sales.ReturnSaleInput{PartID: f.part.ID, Quantity: 2, RelatedSaleID: &sold.Sale.ID})
	require.NoError(t, err)
	assert.Equal(t, 20, stockOf(t, f), "el stock vuelve exactamente al inicial")

	_, err = f.workflow.ReturnPart(ctx, testUser, sales.ReturnSaleInput{PartID: f.part.ID, Quantity: 1, RelatedSaleID: &sold.Sale.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 20, stockOf(t, f))
}

func TestReturnPart_VentaDeOtraRefaccion(t *testing.T) {
	f := setup(t, logger.Nop())
	ctx := context.Background()
	other := f.store.AddPart(entity.Part{Name: "Banda", Price: dec(10), CurrentStock: 3})

	sold, err := f.workflow.SellPart(ctx, testUser, sales.PartSaleInput{PartID: f.part.ID, Quantity: 2})
	require.NoError(t, err)

	_, err = f.workflow.ReturnPart(ctx, testUser, sales.ReturnSaleInput{PartID: other.ID, Quantity: 1, RelatedSaleID: &sold.Sale.ID})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "related_sale_id", ve.Field)
	assert.Equal(t, "mismatch", ve.Rule)

	p, err := f.store.Parts().GetByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, p.CurrentStock)
}

func TestSellPart_ReintentaAnteConflicto(t *testing.T) {
	f := setup(t, logger.Nop())
	f.store.InjectConflicts(1)

	_, err := f.workflow.SellPart(context.Background(), testUser, sales.PartSaleInput{PartID: f.part.ID, Quantity: 1})
	require.NoError(t, err)

	_, total, err := f.store.Sales().ListPartSales(context.Background(), entity.SaleFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total, "el intento en conflicto no deja filas")
}
