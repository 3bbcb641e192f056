package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/refacciones-ledger/internal/application/dto"
	"github.com/jhoicas/refacciones-ledger/internal/application/inventory"
	"github.com/jhoicas/refacciones-ledger/internal/domain"
	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
	"github.com/jhoicas/refacciones-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/refacciones-ledger/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testUser = "user-1"

func setup(t *testing.T, stock int) (*inventory.RegisterMovementUseCase, *memory.Store, *entity.Part) {
	t.Helper()
	store := memory.NewStore()
	cat := store.AddCategory(entity.Category{Name: "Motores"})
	part := store.AddPart(entity.Part{
		Name: "Motor lavadora", PartCode: "MTR-01", Brand: "LG",
		CategoryID: &cat.ID, Price: decimal.NewFromInt(450), CurrentStock: stock,
	})
	uc := inventory.NewRegisterMovementUseCase(store, store.Parts(), store.Movements(), logger.Nop())
	return uc, store, part
}

func currentStock(t *testing.T, store *memory.Store, id int64) int {
	t.Helper()
	p, err := store.Parts().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.CurrentStock
}

func price(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro de movimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterEntry_SumaStockYRegistraMovimiento(t *testing.T) {
	uc, store, part := setup(t, 0)

	m, err := uc.RegisterEntry(context.Background(), testUser, inventory.EntryInput{PartID: part.ID, Quantity: 20, UnitPrice: price(50)})
	require.NoError(t, err)

	assert.NotZero(t, m.ID)
	assert.Equal(t, entity.MovementEntry, m.Type)
	assert.Equal(t, 0, m.StockBefore)
	assert.Equal(t, 20, m.StockAfter)
	assert.NotEmpty(t, m.TransactionID)
	assert.Equal(t, testUser, m.CreatedBy)
	assert.Equal(t, 20, currentStock(t, store, part.ID))
}

func TestRegisterExit_StockInsuficienteNoMuta(t *testing.T) {
	uc, store, part := setup(t, 5)

	_, err := uc.RegisterExit(context.Background(), testUser, inventory.ExitInput{PartID: part.ID, Quantity: 10})
	require.Error(t, err)

	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, 10, ise.Requested)
	assert.Equal(t, 5, ise.Available)

	assert.Equal(t, 5, currentStock(t, store, part.ID))
	history, err := store.Movements().ListByPart(context.Background(), part.ID)
	require.NoError(t, err)
	assert.Empty(t, history, "no debe existir movimiento sin cambio de stock")
}

func TestRegister_EntradaSalidaDevolucion(t *testing.T) {
	uc, store, part := setup(t, 0)
	ctx := context.Background()

	_, err := uc.RegisterEntry(ctx, testUser, inventory.EntryInput{PartID: part.ID, Quantity: 20, UnitPrice: price(50)})
	require.NoError(t, err)
	_, err = uc.RegisterExit(ctx, testUser, inventory.ExitInput{PartID: part.ID, Quantity: 8, UnitPrice: price(60)})
	require.NoError(t, err)
	assert.Equal(t, 12, currentStock(t, store, part.ID))

	_, err = uc.RegisterReturn(ctx, testUser, inventory.ReturnInput{PartID: part.ID, Quantity: 3, Reason: "defecto"})
	require.NoError(t, err)
	assert.Equal(t, 15, currentStock(t, store, part.ID))

	history, err := store.Movements().ListByPart(ctx, part.ID)
	require.NoError(t, err)
	assert.Len(t, history, 3)
}

func TestRegister_ValidaEntrada(t *testing.T) {
	uc, _, part := setup(t, 5)
	ctx := context.Background()

	_, err := uc.RegisterEntry(ctx, testUser, inventory.EntryInput{PartID: part.ID, Quantity: 0})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "quantity", ve.Field)

	_, err = uc.RegisterEntry(ctx, testUser, inventory.EntryInput{PartID: part.ID, Quantity: 1, UnitPrice: price(-1)})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "unit_price", ve.Field)

	fine := decimal.RequireFromString("12.345")
	_, err = uc.RegisterEntry(ctx, testUser, inventory.EntryInput{PartID: part.ID, Quantity: 1, UnitPrice: &fine})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "scale", ve.Rule)

	_, err = uc.RegisterReturn(ctx, testUser, inventory.ReturnInput{PartID: part.ID, Quantity: -2})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestRegister_RefaccionInexistente(t *testing.T) {
	uc, _, _ := setup(t, 5)
	_, err := uc.RegisterEntry(context.Background(), testUser, inventory.EntryInput{PartID: 999, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegister_DesdeRequest(t *testing.T) {
	uc, store, part := setup(t, 2)

	m, err := uc.Register(context.Background(), testUser, dto.RegisterMovementRequest{Type: "EXIT", PartID: part.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementExit, m.Type)
	assert.Equal(t, 0, currentStock(t, store, part.ID))

	_, err = uc.Register(context.Background(), testUser, dto.RegisterMovementRequest{Type: "ADJUST", PartID: part.ID, Quantity: 2})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_ReintentaUnaVezAnteConflicto(t *testing.T) {
	uc, store, part := setup(t, 5)

	store.InjectConflicts(1)
	_, err := uc.RegisterExit(context.Background(), testUser, inventory.ExitInput{PartID: part.ID, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, 4, currentStock(t, store, part.ID))

	store.InjectConflicts(2)
	_, err = uc.RegisterExit(context.Background(), testUser, inventory.ExitInput{PartID: part.ID, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 4, currentStock(t, store, part.ID), "el conflicto no debe dejar cambios")
}

func TestRegisterExit_ConcurrentesNoSobregiranStock(t *testing.T) {
	uc, store, part := setup(t, 10)

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := uc.RegisterExit(context.Background(), testUser, inventory.ExitInput{PartID: part.ID, Quantity: 1}); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, 0, currentStock(t, store, part.ID))
}

// ──────────────────────────────────────────────────────────────────────────────
// Listado y orden
// ──────────────────────────────────────────────────────────────────────────────

func TestNextOrdering(t *testing.T) {
	cases := []struct {
		current, field, want string
	}{
		{"fecha", "fecha", "-fecha"},
		{"-fecha", "fecha", "fecha"},
		{"-fecha", "cantidad", "-cantidad"},
		{"", "precio_unitario", "-precio_unitario"},
		{"cantidad", "precio_unitario", "-precio_unitario"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, inventory.NextOrdering(c.current, c.field), "%s + %s", c.current, c.field)
	}
}

func TestListMovements_OrdenYFiltros(t *testing.T) {
	uc, store, part := setup(t, 0)
	ctx := context.Background()
	other := store.AddPart(entity.Part{Name: "Bomba de agua", PartCode: "BMB-7", Price: decimal.NewFromInt(90)})

	_, err := uc.RegisterEntry(ctx, testUser, inventory.EntryInput{PartID: part.ID, Quantity: 5, UnitPrice: price(10)})
	require.NoError(t, err)
	_, err = uc.RegisterEntry(ctx, testUser, inventory.EntryInput{PartID: part.ID, Quantity: 2, UnitPrice: price(30)})
	require.NoError(t, err)
	_, err = uc.RegisterEntry(ctx, testUser, inventory.EntryInput{PartID: other.ID, Quantity: 9, UnitPrice: price(20)})
	require.NoError(t, err)

	page, err := uc.ListMovements(ctx, entity.MovementFilter{Ordering: "cantidad"})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, []int{2, 5, 9}, []int{page.Items[0].Quantity, page.Items[1].Quantity, page.Items[2].Quantity})

	page, err = uc.ListMovements(ctx, entity.MovementFilter{Ordering: "-precio_unitario"})
	require.NoError(t, err)
	assert.True(t, page.Items[0].UnitPrice.Equal(decimal.NewFromInt(30)))

	page, err = uc.ListMovements(ctx, entity.MovementFilter{Search: "BOMBA"})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, other.ID, page.Items[0].PartID)
	assert.Equal(t, inventory.DefaultOrdering, page.Ordering)

	page, err = uc.ListMovements(ctx, entity.MovementFilter{CategoryID: part.CategoryID})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	_, err = uc.ListMovements(ctx, entity.MovementFilter{Ordering: "-nombre"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStockReport_ConsistenteConHistorial(t *testing.T) {
	uc, _, part := setup(t, 0)
	ctx := context.Background()

	_, err := uc.RegisterEntry(ctx, testUser, inventory.EntryInput{PartID: part.ID, Quantity: 20, UnitPrice: price(50)})
	require.NoError(t, err)
	_, err = uc.RegisterExit(ctx, testUser, inventory.ExitInput{PartID: part.ID, Quantity: 8})
	require.NoError(t, err)

	rep, err := uc.StockReport(ctx, part.ID)
	require.NoError(t, err)
	assert.True(t, rep.Consistent)
	assert.Equal(t, 12, rep.Replay.Stock)
	assert.True(t, rep.Replay.AverageCost.Value.Equal(decimal.NewFromInt(50)))
}
