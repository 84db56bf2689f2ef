package repository

import (
	"time"

	"github.com/tu-usuario/repuestos-api/internal/domain/entity"
)

// ItemFilter criterios del listado de items. Status usa los valores del
// evaluador de estado ("" o "all" = sin filtro).
type ItemFilter struct {
	Search     string // busca en name, sku y part_number
	BrandID    string
	CategoryID string
	Status     string
	Page       int
	PerPage    int
}

// InventoryItemRepository define el puerto de persistencia para InventoryItem.
// UpdateQuantity es exclusivo del ledger; el CRUD usa UpdateDetails.
type InventoryItemRepository interface {
	Create(item *entity.InventoryItem) error
	GetByID(id string) (*entity.InventoryItem, error)
	GetBySKU(sku string) (*entity.InventoryItem, error)
	// GetForUpdate bloquea la fila del item para update (SELECT FOR UPDATE).
	GetForUpdate(id string) (*entity.InventoryItem, error)
	UpdateDetails(item *entity.InventoryItem) error
	UpdateQuantity(id string, quantity int64, restockedAt *time.Time) error
	List(filter ItemFilter) ([]*entity.InventoryItem, int, error)
	// ListBelowReorder items con quantity <= reorder_level, los más críticos
	// primero (usado por la lista de reposición).
	ListBelowReorder(limit int) ([]*entity.InventoryItem, error)
	Delete(id string) error
}
