package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/repuestos-api/internal/domain"
	"github.com/tu-usuario/repuestos-api/internal/domain/entity"
	"github.com/tu-usuario/repuestos-api/internal/domain/repository"
)

// LedgerUseCase es el único escritor de InventoryItem.Quantity. Cada
// operación ejecuta un read-modify-write atómico sobre un solo item: lee la
// cantidad vigente bajo lock de fila (SELECT FOR UPDATE), calcula la nueva,
// y persiste la fila del item junto con el movimiento en una transacción.
// Dos salidas concurrentes sobre el mismo item se serializan por el lock, de
// modo que la segunda decide la insuficiencia contra la cantidad ya
// decrementada, nunca contra un snapshot viejo.
type LedgerUseCase struct {
	txRunner TxRunner
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(txRunner TxRunner) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner}
}

// MovementMeta metadatos opcionales que acompañan un movimiento.
type MovementMeta struct {
	ReferenceType   string
	ReferenceNumber string
	Notes           string
	Location        string
	UserID          string
	UserName        string
}

// StockIn registra una entrada de stock. quantity debe ser > 0; no hay cota
// superior.
func (uc *LedgerUseCase) StockIn(ctx context.Context, itemID string, quantity int64, meta MovementMeta) (*entity.StockMovement, error) {
	if quantity <= 0 {
		return nil, domain.NewValidation("quantity", "la cantidad debe ser mayor que cero")
	}
	if err := validateMeta(meta); err != nil {
		return nil, err
	}
	return uc.applyDelta(ctx, itemID, entity.MovementTypeIn, quantity, meta, "", "")
}

// StockOut registra una salida de stock. Falla con InsufficientStockError si
// la cantidad solicitada excede la vigente (re-leída dentro de la tx).
func (uc *LedgerUseCase) StockOut(ctx context.Context, itemID string, quantity int64, meta MovementMeta) (*entity.StockMovement, error) {
	if quantity <= 0 {
		return nil, domain.NewValidation("quantity", "la cantidad debe ser mayor que cero")
	}
	if err := validateMeta(meta); err != nil {
		return nil, err
	}
	return uc.applyDelta(ctx, itemID, entity.MovementTypeOut, -quantity, meta, "", "")
}

// Adjust fija la cantidad en un valor absoluto (conteo físico) y registra un
// ajuste con el delta firmado resultante. Un delta cero también se registra:
// el conteo que confirma el stock es un evento auditable.
func (uc *LedgerUseCase) Adjust(ctx context.Context, itemID string, newQuantity int64, reasonCode string, meta MovementMeta) (*entity.StockMovement, error) {
	if newQuantity < 0 {
		return nil, domain.NewValidation("new_quantity", "la cantidad no puede ser negativa")
	}
	if err := validateMeta(meta); err != nil {
		return nil, err
	}
	if reasonCode == "" {
		reasonCode = "stock_take"
	}

	var created *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(itemRepo repository.InventoryItemRepository, movRepo repository.StockMovementRepository) error {
		item, err := itemRepo.GetForUpdate(itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		delta := newQuantity - item.Quantity
		mov, err := persistMovement(itemRepo, movRepo, item, entity.MovementTypeAdjustment, delta, meta, "", reasonCode)
		if err != nil {
			return err
		}
		created = mov
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Reverse aplica el delta inverso de un movimiento previo por la misma vía
// atómica, insertando un movimiento nuevo que referencia al original. El
// original no se reescribe jamás: "editar" historia es revertir y volver a
// aplicar.
func (uc *LedgerUseCase) Reverse(ctx context.Context, movementID string, meta MovementMeta) (*entity.StockMovement, error) {
	if err := validateMeta(meta); err != nil {
		return nil, err
	}
	var created *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(itemRepo repository.InventoryItemRepository, movRepo repository.StockMovementRepository) error {
		original, err := movRepo.GetByID(movementID)
		if err != nil {
			return err
		}
		if original == nil {
			return domain.ErrMovementNotFound
		}
		item, err := itemRepo.GetForUpdate(original.InventoryItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		mov, err := persistMovement(itemRepo, movRepo, item,
			reversalType(original.Type), -original.Quantity, meta, original.ID, "reversal")
		if err != nil {
			return err
		}
		created = mov
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// applyDelta ejecuta el read-modify-write estándar para entradas y salidas.
func (uc *LedgerUseCase) applyDelta(ctx context.Context, itemID, movType string, delta int64, meta MovementMeta, reversalOf, reasonCode string) (*entity.StockMovement, error) {
	var created *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(itemRepo repository.InventoryItemRepository, movRepo repository.StockMovementRepository) error {
		item, err := itemRepo.GetForUpdate(itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		mov, err := persistMovement(itemRepo, movRepo, item, movType, delta, meta, reversalOf, reasonCode)
		if err != nil {
			return err
		}
		created = mov
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// persistMovement actualiza la cantidad del item y registra el movimiento con
// los snapshots previous/resulting, dentro de la tx del caller. Aquí vive la
// única verificación de insuficiencia: siempre contra la fila bloqueada.
func persistMovement(
	itemRepo repository.InventoryItemRepository,
	movRepo repository.StockMovementRepository,
	item *entity.InventoryItem,
	movType string, delta int64,
	meta MovementMeta,
	reversalOf, reasonCode string,
) (*entity.StockMovement, error) {
	resulting := item.Quantity + delta
	if resulting < 0 {
		return nil, &domain.InsufficientStockError{
			ItemID:    item.ID,
			Requested: -delta,
			Available: item.Quantity,
		}
	}

	now := time.Now()
	var restockedAt *time.Time
	if delta > 0 {
		restockedAt = &now
	}
	if err := itemRepo.UpdateQuantity(item.ID, resulting, restockedAt); err != nil {
		return nil, err
	}

	mov := &entity.StockMovement{
		// UUIDv7 para que los ids ordenen por fecha de creación
		ID:                uuid.Must(uuid.NewV7()).String(),
		InventoryItemID:   item.ID,
		Type:              movType,
		Quantity:          delta,
		PreviousQuantity:  item.Quantity,
		ResultingQuantity: resulting,
		ReferenceType:     meta.ReferenceType,
		ReferenceNumber:   meta.ReferenceNumber,
		Notes:             meta.Notes,
		Location:          meta.Location,
		ReasonCode:        reasonCode,
		ReversalOfID:      reversalOf,
		UserID:            meta.UserID,
		UserName:          meta.UserName,
		CreatedAt:         now,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	item.Quantity = resulting
	return mov, nil
}

// reversalType devuelve el tipo del movimiento inverso.
func reversalType(original string) string {
	switch original {
	case entity.MovementTypeIn:
		return entity.MovementTypeOut
	case entity.MovementTypeOut:
		return entity.MovementTypeIn
	default:
		return entity.MovementTypeAdjustment
	}
}

func validateMeta(meta MovementMeta) error {
	if meta.ReferenceType != "" && !entity.ValidReferenceType(meta.ReferenceType) {
		return domain.NewValidation("reference_type", "tipo de referencia no permitido")
	}
	return nil
}
