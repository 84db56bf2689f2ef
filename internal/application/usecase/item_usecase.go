package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/repuestos-api/internal/application/dto"
	appinventory "github.com/tu-usuario/repuestos-api/internal/application/inventory"
	"github.com/tu-usuario/repuestos-api/internal/domain"
	"github.com/tu-usuario/repuestos-api/internal/domain/entity"
	dominventory "github.com/tu-usuario/repuestos-api/internal/domain/inventory"
	"github.com/tu-usuario/repuestos-api/internal/domain/repository"
)

// Intentos máximos de generación de SKU antes de rendirse con conflicto.
const maxSKUAttempts = 50

// ItemUseCase CRUD de items de inventario. La cantidad no se edita aquí:
// nace con el item (movimiento de apertura) y después solo la toca el ledger.
type ItemUseCase struct {
	repo     repository.InventoryItemRepository
	txRunner appinventory.TxRunner
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.InventoryItemRepository, txRunner appinventory.TxRunner) *ItemUseCase {
	return &ItemUseCase{repo: repo, txRunner: txRunner}
}

// Create valida el request, resuelve el SKU (dado o generado determinista con
// chequeo de colisión) y persiste la fila junto al movimiento de apertura en
// una sola transacción, de modo que cantidad == suma de deltas desde el
// primer instante.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest, actor appinventory.MovementMeta) (*dto.ItemResponse, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	sku := in.SKU
	if sku == "" || in.AutoSKU {
		generated, err := uc.generateSKU(in.PartNumber, in.Code)
		if err != nil {
			return nil, err
		}
		sku = generated
	} else {
		existing, err := uc.repo.GetBySKU(sku)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicateSKU
		}
	}

	now := time.Now()
	item := &entity.InventoryItem{
		ID:           uuid.New().String(),
		CategoryID:   in.CategoryID,
		BrandID:      in.BrandID,
		SupplierID:   in.SupplierID,
		StoreID:      in.StoreID,
		Name:         in.Name,
		PartNumber:   in.PartNumber,
		Vehicle:      in.Vehicle,
		Code:         in.Code,
		Size:         in.Size,
		SKU:          sku,
		Price:        in.Price,
		Cost:         in.Cost,
		Quantity:     in.Quantity,
		ReorderLevel: in.ReorderLevel,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.Quantity > 0 {
		restocked := now
		item.LastRestocked = &restocked
	}

	err := uc.txRunner.Run(ctx, func(itemRepo repository.InventoryItemRepository, movRepo repository.StockMovementRepository) error {
		if err := itemRepo.Create(item); err != nil {
			return err
		}
		// Movimiento de apertura: con cantidad inicial 0 no hay nada que
		// registrar y la reconciliación se cumple vacíamente.
		if in.Quantity == 0 {
			return nil
		}
		opening := &entity.StockMovement{
			ID:                uuid.Must(uuid.NewV7()).String(),
			InventoryItemID:   item.ID,
			Type:              entity.MovementTypeIn,
			Quantity:          in.Quantity,
			PreviousQuantity:  0,
			ResultingQuantity: in.Quantity,
			Notes:             "stock inicial",
			UserID:            actor.UserID,
			UserName:          actor.UserName,
			CreatedAt:         now,
		}
		return movRepo.Create(opening)
	})
	if err != nil {
		return nil, err
	}

	resp := ToItemResponse(item)
	return &resp, nil
}

// GetByID obtiene un item por ID.
func (uc *ItemUseCase) GetByID(id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	resp := ToItemResponse(item)
	return &resp, nil
}

// Update actualiza campos descriptivos y de clasificación. Cualquier intento
// de fijar la cantidad por esta vía se rechaza: esa escritura pertenece al
// ledger.
func (uc *ItemUseCase) Update(id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	if in.Quantity != nil {
		return nil, domain.NewValidation("quantity", "la cantidad solo se modifica mediante movimientos de inventario")
	}
	if in.ReorderLevel != nil && *in.ReorderLevel < 0 {
		return nil, domain.NewValidation("reorder_level", "el punto de reorden no puede ser negativo")
	}

	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	if in.CategoryID != nil {
		item.CategoryID = *in.CategoryID
	}
	if in.BrandID != nil {
		item.BrandID = *in.BrandID
	}
	if in.SupplierID != nil {
		item.SupplierID = *in.SupplierID
	}
	if in.StoreID != nil {
		item.StoreID = *in.StoreID
	}
	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.PartNumber != nil {
		item.PartNumber = *in.PartNumber
	}
	if in.Vehicle != nil {
		item.Vehicle = *in.Vehicle
	}
	if in.Code != nil {
		item.Code = *in.Code
	}
	if in.Size != nil {
		item.Size = *in.Size
	}
	if in.Price != nil {
		item.Price = *in.Price
	}
	if in.Cost != nil {
		item.Cost = *in.Cost
	}
	if in.ReorderLevel != nil {
		item.ReorderLevel = *in.ReorderLevel
	}
	item.UpdatedAt = time.Now()

	if err := uc.repo.UpdateDetails(item); err != nil {
		return nil, err
	}
	resp := ToItemResponse(item)
	return &resp, nil
}

// Delete elimina el item y su historial de movimientos en una transacción.
// Se bloquea la fila primero para no competir con un movimiento en vuelo.
func (uc *ItemUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(itemRepo repository.InventoryItemRepository, movRepo repository.StockMovementRepository) error {
		item, err := itemRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if err := movRepo.DeleteByItem(id); err != nil {
			return err
		}
		return itemRepo.Delete(id)
	})
}

// List lista items con filtros de búsqueda, marca, categoría y estado de
// stock derivado, paginado.
func (uc *ItemUseCase) List(filter repository.ItemFilter) (*dto.ItemListResponse, error) {
	if !dominventory.ValidStatusFilter(filter.Status) {
		return nil, domain.NewValidation("status", "estado no permitido: use all, in-stock, low-stock u out-of-stock")
	}
	if filter.Status == "all" {
		filter.Status = ""
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}

	items, total, err := uc.repo.List(filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ItemResponse, 0, len(items))
	for _, it := range items {
		data = append(data, ToItemResponse(it))
	}
	return &dto.ItemListResponse{
		Data: data,
		Meta: dto.NewMeta(filter.Page, filter.PerPage, total),
	}, nil
}

// Replenishment devuelve los items en o bajo su punto de reorden con la
// cantidad sugerida de pedido (stock ideal 2x reorden).
func (uc *ItemUseCase) Replenishment() ([]dto.ReplenishmentSuggestion, error) {
	items, err := uc.repo.ListBelowReorder(100)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReplenishmentSuggestion, 0, len(items))
	for _, it := range items {
		suggested := 2*it.ReorderLevel - it.Quantity
		if suggested < 0 {
			suggested = 0
		}
		out = append(out, dto.ReplenishmentSuggestion{
			ItemID:            it.ID,
			SKU:               it.SKU,
			Name:              it.Name,
			Quantity:          it.Quantity,
			ReorderLevel:      it.ReorderLevel,
			Status:            string(dominventory.Status(it.Quantity, it.ReorderLevel)),
			SuggestedOrderQty: suggested,
		})
	}
	return out, nil
}

// generateSKU genera el SKU determinista y verifica colisiones contra el
// store, subiendo la secuencia hasta encontrar uno libre.
func (uc *ItemUseCase) generateSKU(partNumber, code string) (string, error) {
	for seq := 1; seq <= maxSKUAttempts; seq++ {
		candidate := dominventory.BuildSKU(partNumber, code, seq)
		existing, err := uc.repo.GetBySKU(candidate)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return candidate, nil
		}
	}
	return "", domain.ErrConflict
}

func validateCreate(in dto.CreateItemRequest) error {
	required := []struct{ field, value string }{
		{"name", in.Name},
		{"part_number", in.PartNumber},
		{"vehicle", in.Vehicle},
		{"code", in.Code},
		{"category_id", in.CategoryID},
		{"brand_id", in.BrandID},
		{"supplier_id", in.SupplierID},
		{"store_id", in.StoreID},
	}
	for _, r := range required {
		if r.value == "" {
			return domain.NewValidation(r.field, "campo requerido")
		}
	}
	if in.Quantity < 0 {
		return domain.NewValidation("quantity", "la cantidad inicial no puede ser negativa")
	}
	if in.ReorderLevel < 0 {
		return domain.NewValidation("reorder_level", "el punto de reorden no puede ser negativo")
	}
	return nil
}

// ToItemResponse mapea la entidad al DTO, derivando el estado de stock con el
// evaluador (única fuente de verdad).
func ToItemResponse(it *entity.InventoryItem) dto.ItemResponse {
	return dto.ItemResponse{
		ID:            it.ID,
		CategoryID:    it.CategoryID,
		BrandID:       it.BrandID,
		SupplierID:    it.SupplierID,
		StoreID:       it.StoreID,
		Name:          it.Name,
		PartNumber:    it.PartNumber,
		Vehicle:       it.Vehicle,
		Code:          it.Code,
		Size:          it.Size,
		SKU:           it.SKU,
		Price:         it.Price,
		Cost:          it.Cost,
		Quantity:      it.Quantity,
		ReorderLevel:  it.ReorderLevel,
		Status:        string(dominventory.Status(it.Quantity, it.ReorderLevel)),
		CreatedAt:     it.CreatedAt,
		LastRestocked: it.LastRestocked,
		UpdatedAt:     it.UpdatedAt,
	}
}
