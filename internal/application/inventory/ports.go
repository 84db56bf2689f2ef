package inventory

import (
	"context"

	"github.com/tu-usuario/repuestos-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el ledger: la fila
// del item y el movimiento insertado se confirman como una sola unidad, o
// ninguno. Si el contexto se cancela antes del commit, la tx aborta limpia.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.InventoryItemRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}
