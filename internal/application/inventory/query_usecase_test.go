package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appinventory "github.com/tu-usuario/repuestos-api/internal/application/inventory"
	"github.com/tu-usuario/repuestos-api/internal/domain"
	"github.com/tu-usuario/repuestos-api/internal/domain/entity"
	"github.com/tu-usuario/repuestos-api/internal/testutil"
)

// seedMovement inserta un movimiento con fecha controlada, directo al store.
func seedMovement(t *testing.T, store *testutil.MemStore, id, itemID, movType string, delta, previous int64, at time.Time) {
	t.Helper()
	err := store.MovementRepo().Create(&entity.StockMovement{
		ID:                id,
		InventoryItemID:   itemID,
		Type:              movType,
		Quantity:          delta,
		PreviousQuantity:  previous,
		ResultingQuantity: previous + delta,
		CreatedAt:         at,
	})
	require.NoError(t, err)
}

func newQueryFixture(t *testing.T) (*testutil.MemStore, *appinventory.MovementQueryUseCase) {
	t.Helper()
	store := testutil.NewMemStore()
	seedItem(t, store, "item-1", 9, 3)
	return store, appinventory.NewMovementQueryUseCase(store.ItemRepo(), store.MovementRepo())
}

func TestListMovements_ItemInexistente(t *testing.T) {
	_, uc := newQueryFixture(t)
	_, err := uc.ListMovements("fantasma", appinventory.ListMovementsQuery{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// TestListMovements_VentanaDeUnDia from y to el mismo día capturan todo el
// día calendario, de medianoche al último instante.
func TestListMovements_VentanaDeUnDia(t *testing.T) {
	store, uc := newQueryFixture(t)
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local)
	seedMovement(t, store, "m-antes", "item-1", entity.MovementTypeIn, 5, 0, day.Add(-time.Second))
	seedMovement(t, store, "m-madrugada", "item-1", entity.MovementTypeIn, 4, 5, day)
	seedMovement(t, store, "m-noche", "item-1", entity.MovementTypeOut, -3, 9, day.Add(24*time.Hour-time.Second))
	seedMovement(t, store, "m-despues", "item-1", entity.MovementTypeIn, 3, 6, day.Add(24*time.Hour))

	out, err := uc.ListMovements("item-1", appinventory.ListMovementsQuery{
		DateFrom: "2026-03-14",
		DateTo:   "2026-03-14",
		SortDir:  "asc",
	})
	require.NoError(t, err)
	require.Len(t, out.Data, 2)
	assert.Equal(t, "m-madrugada", out.Data[0].ID)
	assert.Equal(t, "m-noche", out.Data[1].ID)
	assert.Equal(t, 2, out.Meta.Total)
}

func TestListMovements_LimitesIndependientes(t *testing.T) {
	store, uc := newQueryFixture(t)
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)
	seedMovement(t, store, "m-1", "item-1", entity.MovementTypeIn, 5, 0, base)
	seedMovement(t, store, "m-2", "item-1", entity.MovementTypeIn, 4, 5, base.AddDate(0, 0, 2))
	seedMovement(t, store, "m-3", "item-1", entity.MovementTypeIn, 1, 9, base.AddDate(0, 0, 4))

	// Solo from: desde el 12 en adelante
	out, err := uc.ListMovements("item-1", appinventory.ListMovementsQuery{DateFrom: "2026-03-12"})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Meta.Total)

	// Solo to: hasta el fin del 12
	out, err = uc.ListMovements("item-1", appinventory.ListMovementsQuery{DateTo: "2026-03-12"})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Meta.Total)
}

func TestListMovements_FechaMalformada(t *testing.T) {
	_, uc := newQueryFixture(t)

	_, err := uc.ListMovements("item-1", appinventory.ListMovementsQuery{DateFrom: "14/03/2026"})
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "date_from", vErr.Field)

	_, err = uc.ListMovements("item-1", appinventory.ListMovementsQuery{DateTo: "no-fecha"})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "date_to", vErr.Field)
}

func TestListMovements_FiltroPorTipo(t *testing.T) {
	store, uc := newQueryFixture(t)
	now := time.Now()
	seedMovement(t, store, "m-in", "item-1", entity.MovementTypeIn, 9, 0, now.Add(-2*time.Hour))
	seedMovement(t, store, "m-out", "item-1", entity.MovementTypeOut, -4, 9, now.Add(-time.Hour))
	seedMovement(t, store, "m-adj", "item-1", entity.MovementTypeAdjustment, 4, 5, now)

	out, err := uc.ListMovements("item-1", appinventory.ListMovementsQuery{Type: entity.MovementTypeOut})
	require.NoError(t, err)
	require.Len(t, out.Data, 1)
	assert.Equal(t, "m-out", out.Data[0].ID)

	_, err = uc.ListMovements("item-1", appinventory.ListMovementsQuery{Type: "transferencia"})
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "type", vErr.Field)
}

// TestListMovements_Orden por defecto created_at descendente; por cantidad
// ordena por la magnitud del delta, sin signo.
func TestListMovements_Orden(t *testing.T) {
	store, uc := newQueryFixture(t)
	now := time.Now()
	seedMovement(t, store, "m-1", "item-1", entity.MovementTypeIn, 10, 0, now.Add(-3*time.Hour))
	seedMovement(t, store, "m-2", "item-1", entity.MovementTypeOut, -2, 10, now.Add(-2*time.Hour))
	seedMovement(t, store, "m-3", "item-1", entity.MovementTypeOut, -7, 8, now.Add(-time.Hour))

	out, err := uc.ListMovements("item-1", appinventory.ListMovementsQuery{})
	require.NoError(t, err)
	require.Len(t, out.Data, 3)
	assert.Equal(t, []string{"m-3", "m-2", "m-1"},
		[]string{out.Data[0].ID, out.Data[1].ID, out.Data[2].ID})

	out, err = uc.ListMovements("item-1", appinventory.ListMovementsQuery{
		SortBy:  "quantity",
		SortDir: "asc",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"m-2", "m-3", "m-1"},
		[]string{out.Data[0].ID, out.Data[1].ID, out.Data[2].ID})

	_, err = uc.ListMovements("item-1", appinventory.ListMovementsQuery{SortBy: "notes"})
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "sort", vErr.Field)

	_, err = uc.ListMovements("item-1", appinventory.ListMovementsQuery{SortDir: "sideways"})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "dir", vErr.Field)
}

func TestListMovements_Paginacion(t *testing.T) {
	store, uc := newQueryFixture(t)
	now := time.Now()
	for i := 0; i < 5; i++ {
		seedMovement(t, store, string(rune('a'+i)), "item-1", entity.MovementTypeIn, 1, int64(i), now.Add(time.Duration(i)*time.Minute))
	}

	out, err := uc.ListMovements("item-1", appinventory.ListMovementsQuery{
		Page: 2, PerPage: 2, SortDir: "asc",
	})
	require.NoError(t, err)
	require.Len(t, out.Data, 2)
	assert.Equal(t, "c", out.Data[0].ID)
	assert.Equal(t, 2, out.Meta.CurrentPage)
	assert.Equal(t, 3, out.Meta.LastPage)
	assert.Equal(t, 2, out.Meta.PerPage)
	assert.Equal(t, 5, out.Meta.Total)

	// Página fuera de rango: data vacía, meta consistente
	out, err = uc.ListMovements("item-1", appinventory.ListMovementsQuery{Page: 9, PerPage: 2})
	require.NoError(t, err)
	assert.Empty(t, out.Data)
	assert.Equal(t, 5, out.Meta.Total)
}

func TestListMovements_PerPageAcotado(t *testing.T) {
	_, uc := newQueryFixture(t)
	out, err := uc.ListMovements("item-1", appinventory.ListMovementsQuery{PerPage: 5000})
	require.NoError(t, err)
	assert.Equal(t, 100, out.Meta.PerPage)
}
