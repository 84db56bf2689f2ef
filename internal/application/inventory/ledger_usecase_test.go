package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appinventory "github.com/tu-usuario/repuestos-api/internal/application/inventory"
	"github.com/tu-usuario/repuestos-api/internal/domain"
	"github.com/tu-usuario/repuestos-api/internal/domain/entity"
	"github.com/tu-usuario/repuestos-api/internal/testutil"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

// seedItem inserta un item directo en el store (sin movimiento de apertura)
// para aislar los tests del ledger del caso de uso de creación.
func seedItem(t *testing.T, store *testutil.MemStore, id string, quantity, reorder int64) {
	t.Helper()
	now := time.Now()
	err := store.ItemRepo().Create(&entity.InventoryItem{
		ID:           id,
		CategoryID:   "cat-1",
		BrandID:      "brand-1",
		SupplierID:   "sup-1",
		StoreID:      "store-1",
		Name:         "Filtro de aceite",
		PartNumber:   "FLT-" + id,
		Vehicle:      "Toyota Hilux 2015-2020",
		Code:         "FA",
		SKU:          "SKU-" + id,
		Quantity:     quantity,
		ReorderLevel: reorder,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.NoError(t, err)
}

func currentQuantity(t *testing.T, store *testutil.MemStore, id string) int64 {
	t.Helper()
	item, err := store.ItemRepo().GetByID(id)
	require.NoError(t, err)
	require.NotNil(t, item)
	return item.Quantity
}

// ──────────────────────────────────────────────────────────────────────────────
// StockIn / StockOut
// ──────────────────────────────────────────────────────────────────────────────

func TestStockIn_RegistraMovimientoYActualizaCantidad(t *testing.T) {
	store := testutil.NewMemStore()
	seedItem(t, store, "item-1", 0, 3)
	uc := appinventory.NewLedgerUseCase(store.TxRunner())

	mov, err := uc.StockIn(context.Background(), "item-1", 10, appinventory.MovementMeta{
		ReferenceType:   entity.ReferencePurchaseOrder,
		ReferenceNumber: "PO-001",
		UserID:          "u-1",
		UserName:        "Ana",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.MovementTypeIn, mov.Type)
	assert.EqualValues(t, 10, mov.Quantity)
	assert.EqualValues(t, 0, mov.PreviousQuantity)
	assert.EqualValues(t, 10, mov.ResultingQuantity)
	assert.Equal(t, "PO-001", mov.ReferenceNumber)
	assert.Equal(t, "Ana", mov.UserName)
	assert.EqualValues(t, 10, currentQuantity(t, store, "item-1"))

	// Una entrada actualiza last_restocked
	item, err := store.ItemRepo().GetByID("item-1")
	require.NoError(t, err)
	assert.NotNil(t, item.LastRestocked)
}

func TestStockIn_CantidadInvalida(t *testing.T) {
	store := testutil.NewMemStore()
	seedItem(t, store, "item-1", 5, 3)
	uc := appinventory.NewLedgerUseCase(store.TxRunner())

	for _, qty := range []int64{0, -4} {
		_, err := uc.StockIn(context.Background(), "item-1", qty, appinventory.MovementMeta{})
		var vErr *domain.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "quantity", vErr.Field)
	}
	// Nada quedó registrado
	assert.Empty(t, store.Movements())
	assert.EqualValues(t, 5, currentQuantity(t, store, "item-1"))
}

func TestStockIn_ItemInexistente(t *testing.T) {
	store := testutil.NewMemStore()
	uc := appinventory.NewLedgerUseCase(store.TxRunner())

	_, err := uc.StockIn(context.Background(), "no-existe", 1, appinventory.MovementMeta{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStockIn_ReferenciaInvalida(t *testing.T) {
	store := testutil.NewMemStore()
	seedItem(t, store, "item-1", 0, 0)
	uc := appinventory.NewLedgerUseCase(store.TxRunner())

	_, err := uc.StockIn(context.Background(), "item-1", 1, appinventory.MovementMeta{ReferenceType: "loteria"})
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "reference_type", vErr.Field)
}

func TestStockOut_DescuentaYRegistraSnapshots(t *testing.T) {
	store := testutil.NewMemStore()
	seedItem(t, store, "item-1", 10, 3)
	uc := appinventory.NewLedgerUseCase(store.TxRunner())

	mov, err := uc.StockOut(context.Background(), "item-1", 8, appinventory.MovementMeta{
		ReferenceType: entity.ReferenceSalesOrder,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.MovementTypeOut, mov.Type)
	assert.EqualValues(t, -8, mov.Quantity)
	assert.EqualValues(t, 10, mov.PreviousQuantity)
	assert.EqualValues(t, 2, mov.ResultingQuantity)
	assert.EqualValues(t, 2, currentQuantity(t, store, "item-1"))
}

func TestStockOut_StockInsuficiente(t *testing.T) {
	store := testutil.NewMemStore()
	seedItem(t, store, "item-1", 2, 3)
	uc := appinventory.NewLedgerUseCase(store.TxRunner())

	_, err := uc.StockOut(context.Background(), "item-1", 5, appinventory.MovementMeta{})
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.EqualValues(t, 5, stockErr.Requested)
	assert.EqualValues(t, 2, stockErr.Available)

	// La cantidad no cambió y no se registró ningún movimiento
	assert.EqualValues(t, 2, currentQuantity(t, store, "item-1"))
	assert.Empty(t, store.Movements())
}

// ──────────────────────────────────────────────────────────────────────────────
// Adjust / Reverse
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjust_FijaValorAbsolutoConDeltaFirmado(t *testing.T) {
	store := testutil.NewMemStore()
	seedItem(t, store, "item-1", 2, 3)
	uc := appinventory.NewLedgerUseCase(store.TxRunner())

	mov, err := uc.Adjust(context.Background(), "item-1", 0, "stock_take", appinventory.MovementMeta{})
	require.NoError(t, err)

	assert.Equal(t, entity.MovementTypeAdjustment, mov.Type)
	assert.EqualValues(t, -2, mov.Quantity)
	assert.EqualValues(t, 2, mov.PreviousQuantity)
	assert.EqualValues(t, 0, mov.ResultingQuantity)
	assert.Equal(t, "stock_take", mov.ReasonCode)
	assert.EqualValues(t, 0, currentQuantity(t, store, "item-1"))
}

func TestAdjust_ConteoQueConfirmaTambienSeRegistra(t *testing.T) {
	store := testutil.NewMemStore()
	seedItem(t, store, "item-1", 7, 3)
	uc := appinventory.NewLedgerUseCase(store.TxRunner())

	mov, err := uc.Adjust(context.Background(), "item-1", 7, "", appinventory.MovementMeta{})
	require.NoError(t, err)
	assert.EqualValues(t, 0, mov.Quantity)
	assert.Equal(t, "stock_take", mov.ReasonCode) // razón por defecto
	assert.Len(t, store.Movements(), 1)
}

func TestAdjust_NegativoRechazado(t *testing.T) {
	store := testutil.NewMemStore()
	seedItem(t, store, "item-1", 7, 3)
	uc := appinventory.NewLedgerUseCase(store.TxRunner())

	_, err := uc.Adjust(context.Background(), "item-1", -1, "", appinventory.MovementMeta{})
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "new_quantity", vErr.Field)
}

func TestReverse_AplicaElDeltaInversoComoMovimientoNuevo(t *testing.T) {
	store := testutil.NewMemStore()
	seedItem(t, store, "item-1", 10, 3)
	uc := appinventory.NewLedgerUseCase(store.TxRunner())

	out, err := uc.StockOut(context.Background(), "item-1", 8, appinventory.MovementMeta{})
	require.NoError(t, err)

	rev, err := uc.Reverse(context.Background(), out.ID, appinventory.MovementMeta{UserID: "u-2"})
	require.NoError(t, err)

	// La reversión de una salida es una entrada que referencia al original
	assert.Equal(t, entity.MovementTypeIn, rev.Type)
	assert.EqualValues(t, 8, rev.Quantity)
	assert.Equal(t, out.ID, rev.ReversalOfID)
	assert.Equal(t, "reversal", rev.ReasonCode)
	assert.EqualValues(t, 10, currentQuantity(t, store, "item-1"))

	// El original sigue intacto en el libro
	original, err := store.MovementRepo().GetByID(out.ID)
	require.NoError(t, err)
	assert.EqualValues(t, -8, original.Quantity)
	assert.EqualValues(t, 2, original.ResultingQuantity)
}

func TestReverse_EntradaSinStockSuficiente(t *testing.T) {
	store := testutil.NewMemStore()
	seedItem(t, store, "item-1", 0, 0)
	uc := appinventory.NewLedgerUseCase(store.TxRunner())

	in, err := uc.StockIn(context.Background(), "item-1", 10, appinventory.MovementMeta{})
	require.NoError(t, err)
	_, err = uc.StockOut(context.Background(), "item-1", 7, appinventory.MovementMeta{})
	require.NoError(t, err)

	// Revertir la entrada pediría -10 sobre un stock de 3
	_, err = uc.Reverse(context.Background(), in.ID, appinventory.MovementMeta{})
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.EqualValues(t, 3, stockErr.Available)
	assert.EqualValues(t, 3, currentQuantity(t, store, "item-1"))
}

func TestReverse_MovimientoInexistente(t *testing.T) {
	store := testutil.NewMemStore()
	uc := appinventory.NewLedgerUseCase(store.TxRunner())

	_, err := uc.Reverse(context.Background(), "no-existe", appinventory.MovementMeta{})
	assert.ErrorIs(t, err, domain.ErrMovementNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Invariantes de reconciliación
// ──────────────────────────────────────────────────────────────────────────────

// TestLedger_Reconciliacion tras una secuencia arbitraria de operaciones, la
// cantidad del item es la suma de los deltas del libro y cada movimiento
// cumple resulting = previous + delta, con resulting >= 0.
func TestLedger_Reconciliacion(t *testing.T) {
	store := testutil.NewMemStore()
	seedItem(t, store, "item-1", 0, 5)
	uc := appinventory.NewLedgerUseCase(store.TxRunner())
	ctx := context.Background()

	_, err := uc.StockIn(ctx, "item-1", 20, appinventory.MovementMeta{})
	require.NoError(t, err)
	out, err := uc.StockOut(ctx, "item-1", 6, appinventory.MovementMeta{})
	require.NoError(t, err)
	_, err = uc.Adjust(ctx, "item-1", 12, "stock_take", appinventory.MovementMeta{})
	require.NoError(t, err)
	_, err = uc.Reverse(ctx, out.ID, appinventory.MovementMeta{})
	require.NoError(t, err)
	// Intento fallido: no debe dejar rastro
	_, err = uc.StockOut(ctx, "item-1", 1000, appinventory.MovementMeta{})
	require.Error(t, err)

	var sum int64
	for _, m := range store.Movements() {
		assert.Equal(t, m.ResultingQuantity, m.PreviousQuantity+m.Quantity,
			"resulting debe ser previous + delta")
		assert.GreaterOrEqual(t, m.ResultingQuantity, int64(0))
		sum += m.Quantity
	}
	assert.Equal(t, sum, currentQuantity(t, store, "item-1"),
		"la cantidad viva debe reconciliar con la suma de deltas")
	assert.EqualValues(t, 18, sum) // 20 - 6 - 2 (ajuste a 12) + 6 (reversión)
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia
// ──────────────────────────────────────────────────────────────────────────────

// TestStockOut_Concurrente dos salidas simultáneas por el stock completo:
// exactamente una gana, la otra recibe stock insuficiente, y la cantidad
// final es 0 (nunca negativa, nunca doble venta).
func TestStockOut_Concurrente(t *testing.T) {
	store := testutil.NewMemStore()
	seedItem(t, store, "item-1", 5, 0)
	uc := appinventory.NewLedgerUseCase(store.TxRunner())

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.StockOut(context.Background(), "item-1", 5, appinventory.MovementMeta{})
		}(i)
	}
	wg.Wait()

	var oks, insufficient int
	for _, err := range errs {
		if err == nil {
			oks++
			continue
		}
		var stockErr *domain.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		// La insuficiencia se decidió contra la cantidad ya descontada
		assert.EqualValues(t, 0, stockErr.Available)
		insufficient++
	}
	assert.Equal(t, 1, oks)
	assert.Equal(t, 1, insufficient)
	assert.EqualValues(t, 0, currentQuantity(t, store, "item-1"))
	assert.Len(t, store.Movements(), 1)
}
