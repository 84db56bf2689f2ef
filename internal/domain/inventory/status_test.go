package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tu-usuario/repuestos-api/internal/domain/inventory"
)

// TestStatus_Limites verifica los tres umbrales del evaluador de estado:
// cero (y negativos defensivos) agotado, en o bajo el punto de reorden bajo,
// estrictamente por encima disponible.
func TestStatus_Limites(t *testing.T) {
	cases := []struct {
		name     string
		quantity int64
		reorder  int64
		want     inventory.StockStatus
	}{
		{"cantidad cero es agotado", 0, 3, inventory.StatusOutOfStock},
		{"cantidad negativa es agotado", -1, 3, inventory.StatusOutOfStock},
		{"exactamente en el punto de reorden es bajo", 3, 3, inventory.StatusLowStock},
		{"uno por encima del reorden es disponible", 4, 3, inventory.StatusInStock},
		{"uno por debajo del reorden es bajo", 2, 3, inventory.StatusLowStock},
		{"reorden cero con stock es disponible", 1, 0, inventory.StatusInStock},
		{"reorden cero sin stock es agotado", 0, 0, inventory.StatusOutOfStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, inventory.Status(tc.quantity, tc.reorder))
		})
	}
}

func TestValidStatusFilter(t *testing.T) {
	for _, ok := range []string{"", "all", "in-stock", "low-stock", "out-of-stock"} {
		assert.True(t, inventory.ValidStatusFilter(ok), ok)
	}
	assert.False(t, inventory.ValidStatusFilter("backorder"))
}
