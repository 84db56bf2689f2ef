package repository

import (
	"time"

	"github.com/tu-usuario/repuestos-api/internal/domain/entity"
)

// Campos de ordenamiento permitidos para el historial de movimientos.
const (
	MovementSortCreatedAt = "created_at"
	MovementSortQuantity  = "quantity" // magnitud del delta (ABS)
)

// MovementFilter criterios del historial de movimientos de un item.
// From/To ya vienen resueltos a límites de día inclusivos.
type MovementFilter struct {
	From    *time.Time
	To      *time.Time
	Type    string // in, out, adjustment; vacío = todos
	SortBy  string // created_at | quantity
	SortDir string // asc | desc
	Page    int
	PerPage int
}

// StockMovementRepository define el puerto de persistencia para el libro de
// movimientos. Los movimientos son insert-only: no hay Update; DeleteByItem
// existe solo para el borrado en cascada del item dueño.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	ListByItem(itemID string, filter MovementFilter) ([]*entity.StockMovement, int, error)
	DeleteByItem(itemID string) error
}
