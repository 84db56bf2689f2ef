package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tu-usuario/repuestos-api/internal/domain/inventory"
)

// TestBuildSKU_Determinista el mismo input produce siempre el mismo SKU; la
// secuencia solo aparece a partir de la segunda tentativa.
func TestBuildSKU_Determinista(t *testing.T) {
	first := inventory.BuildSKU("FLT-0452", "bos", 1)
	second := inventory.BuildSKU("FLT-0452", "bos", 1)
	assert.Equal(t, first, second)
	assert.Equal(t, "FLT0452-BOS", first)

	assert.Equal(t, "FLT0452-BOS-2", inventory.BuildSKU("FLT-0452", "bos", 2))
}

func TestBuildSKU_CasosBorde(t *testing.T) {
	// Sin código: solo el stem del número de parte
	assert.Equal(t, "FLT0452", inventory.BuildSKU("FLT-0452", "", 1))
	// Sin nada utilizable: fallback genérico
	assert.Equal(t, "ITEM", inventory.BuildSKU("---", "", 1))
	// Stems truncados a su largo máximo
	assert.Equal(t, "ABCDEFGH-WXYZ", inventory.BuildSKU("abcdefghijk", "wxyz9", 1))
}
