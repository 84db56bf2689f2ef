// Package testutil provee repositorios en memoria y un TxRunner que
// serializa transacciones con un mutex, emulando el lock de fila de
// PostgreSQL para los tests unitarios del ledger.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tu-usuario/repuestos-api/internal/application/inventory"
	"github.com/tu-usuario/repuestos-api/internal/domain"
	"github.com/tu-usuario/repuestos-api/internal/domain/entity"
	dominventory "github.com/tu-usuario/repuestos-api/internal/domain/inventory"
	"github.com/tu-usuario/repuestos-api/internal/domain/repository"
)

// MemStore estado compartido de items y movimientos. El mutex cumple el rol
// del lock de fila: una transacción a la vez, igual que FOR UPDATE sobre un
// único item.
type MemStore struct {
	mu        sync.Mutex
	items     map[string]*entity.InventoryItem
	movements []*entity.StockMovement
}

// NewMemStore construye un store vacío.
func NewMemStore() *MemStore {
	return &MemStore{items: make(map[string]*entity.InventoryItem)}
}

// TxRunner devuelve un runner cuyo Run retiene el lock del store durante toda
// la función, de modo que los read-modify-write concurrentes se serializan.
func (s *MemStore) TxRunner() inventory.TxRunner {
	return &memTxRunner{s: s}
}

// ItemRepo devuelve un repositorio de items para lecturas fuera de
// transacción (toma el lock por llamada).
func (s *MemStore) ItemRepo() repository.InventoryItemRepository {
	return &lockedItemRepo{s: s}
}

// MovementRepo devuelve un repositorio de movimientos para lecturas fuera de
// transacción.
func (s *MemStore) MovementRepo() repository.StockMovementRepository {
	return &lockedMovementRepo{s: s}
}

// Movements devuelve una copia del libro completo (para aserciones).
func (s *MemStore) Movements() []*entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.StockMovement, 0, len(s.movements))
	for _, m := range s.movements {
		cp := *m
		out = append(out, &cp)
	}
	return out
}

type memTxRunner struct {
	s *MemStore
}

func (r *memTxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.InventoryItemRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	// Snapshot para simular rollback si fn falla.
	itemsBackup := make(map[string]*entity.InventoryItem, len(r.s.items))
	for k, v := range r.s.items {
		cp := *v
		itemsBackup[k] = &cp
	}
	movBackup := len(r.s.movements)

	err := fn(&memItemRepo{s: r.s}, &memMovementRepo{s: r.s})
	if err != nil {
		r.s.items = itemsBackup
		r.s.movements = r.s.movements[:movBackup]
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Repos sin lock (para usar dentro de una transacción que ya lo retiene)
// ──────────────────────────────────────────────────────────────────────────────

type memItemRepo struct {
	s *MemStore
}

func (r *memItemRepo) Create(item *entity.InventoryItem) error {
	for _, existing := range r.s.items {
		if existing.SKU == item.SKU {
			return domain.ErrDuplicateSKU
		}
	}
	cp := *item
	r.s.items[item.ID] = &cp
	return nil
}

func (r *memItemRepo) GetByID(id string) (*entity.InventoryItem, error) {
	item, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (r *memItemRepo) GetBySKU(sku string) (*entity.InventoryItem, error) {
	for _, item := range r.s.items {
		if item.SKU == sku {
			cp := *item
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memItemRepo) GetForUpdate(id string) (*entity.InventoryItem, error) {
	return r.GetByID(id)
}

func (r *memItemRepo) UpdateDetails(item *entity.InventoryItem) error {
	stored, ok := r.s.items[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *item
	cp.Quantity = stored.Quantity // la cantidad no se toca por esta vía
	r.s.items[item.ID] = &cp
	return nil
}

func (r *memItemRepo) UpdateQuantity(id string, quantity int64, restockedAt *time.Time) error {
	stored, ok := r.s.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Quantity = quantity
	if restockedAt != nil {
		t := *restockedAt
		stored.LastRestocked = &t
	}
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *memItemRepo) List(filter repository.ItemFilter) ([]*entity.InventoryItem, int, error) {
	var matched []*entity.InventoryItem
	for _, item := range r.s.items {
		if !matchesFilter(item, filter) {
			continue
		}
		cp := *item
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Name != matched[j].Name {
			return matched[i].Name < matched[j].Name
		}
		return matched[i].ID < matched[j].ID
	})
	total := len(matched)
	return paginate(matched, filter.Page, filter.PerPage), total, nil
}

func (r *memItemRepo) ListBelowReorder(limit int) ([]*entity.InventoryItem, error) {
	var matched []*entity.InventoryItem
	for _, item := range r.s.items {
		if item.Quantity <= item.ReorderLevel {
			cp := *item
			matched = append(matched, &cp)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		di := matched[i].Quantity - matched[i].ReorderLevel
		dj := matched[j].Quantity - matched[j].ReorderLevel
		if di != dj {
			return di < dj
		}
		return matched[i].Name < matched[j].Name
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *memItemRepo) Delete(id string) error {
	if _, ok := r.s.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.items, id)
	return nil
}

func matchesFilter(item *entity.InventoryItem, f repository.ItemFilter) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(item.Name), needle) &&
			!strings.Contains(strings.ToLower(item.SKU), needle) &&
			!strings.Contains(strings.ToLower(item.PartNumber), needle) {
			return false
		}
	}
	if f.BrandID != "" && item.BrandID != f.BrandID {
		return false
	}
	if f.CategoryID != "" && item.CategoryID != f.CategoryID {
		return false
	}
	if f.Status != "" && string(dominventory.Status(item.Quantity, item.ReorderLevel)) != f.Status {
		return false
	}
	return true
}

type memMovementRepo struct {
	s *MemStore
}

func (r *memMovementRepo) Create(m *entity.StockMovement) error {
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *memMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	for _, m := range r.s.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memMovementRepo) ListByItem(itemID string, f repository.MovementFilter) ([]*entity.StockMovement, int, error) {
	var matched []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.InventoryItemID != itemID {
			continue
		}
		if f.From != nil && m.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && m.CreatedAt.After(*f.To) {
			continue
		}
		if f.Type != "" && m.Type != f.Type {
			continue
		}
		cp := *m
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool {
		var less, equal bool
		if f.SortBy == repository.MovementSortQuantity {
			qi, qj := abs64(matched[i].Quantity), abs64(matched[j].Quantity)
			less, equal = qi < qj, qi == qj
		} else {
			less = matched[i].CreatedAt.Before(matched[j].CreatedAt)
			equal = matched[i].CreatedAt.Equal(matched[j].CreatedAt)
		}
		if equal {
			return matched[i].ID < matched[j].ID
		}
		if f.SortDir == "asc" {
			return less
		}
		return !less
	})
	total := len(matched)
	return paginate(matched, f.Page, f.PerPage), total, nil
}

func (r *memMovementRepo) DeleteByItem(itemID string) error {
	kept := r.s.movements[:0]
	for _, m := range r.s.movements {
		if m.InventoryItemID != itemID {
			kept = append(kept, m)
		}
	}
	r.s.movements = kept
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Repos con lock (lecturas fuera de transacción)
// ──────────────────────────────────────────────────────────────────────────────

type lockedItemRepo struct {
	s *MemStore
}

func (r *lockedItemRepo) Create(item *entity.InventoryItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&memItemRepo{s: r.s}).Create(item)
}

func (r *lockedItemRepo) GetByID(id string) (*entity.InventoryItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&memItemRepo{s: r.s}).GetByID(id)
}

func (r *lockedItemRepo) GetBySKU(sku string) (*entity.InventoryItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&memItemRepo{s: r.s}).GetBySKU(sku)
}

func (r *lockedItemRepo) GetForUpdate(id string) (*entity.InventoryItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&memItemRepo{s: r.s}).GetForUpdate(id)
}

func (r *lockedItemRepo) UpdateDetails(item *entity.InventoryItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&memItemRepo{s: r.s}).UpdateDetails(item)
}

func (r *lockedItemRepo) UpdateQuantity(id string, quantity int64, restockedAt *time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&memItemRepo{s: r.s}).UpdateQuantity(id, quantity, restockedAt)
}

func (r *lockedItemRepo) List(filter repository.ItemFilter) ([]*entity.InventoryItem, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&memItemRepo{s: r.s}).List(filter)
}

func (r *lockedItemRepo) ListBelowReorder(limit int) ([]*entity.InventoryItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&memItemRepo{s: r.s}).ListBelowReorder(limit)
}

func (r *lockedItemRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&memItemRepo{s: r.s}).Delete(id)
}

type lockedMovementRepo struct {
	s *MemStore
}

func (r *lockedMovementRepo) Create(m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&memMovementRepo{s: r.s}).Create(m)
}

func (r *lockedMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&memMovementRepo{s: r.s}).GetByID(id)
}

func (r *lockedMovementRepo) ListByItem(itemID string, f repository.MovementFilter) ([]*entity.StockMovement, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&memMovementRepo{s: r.s}).ListByItem(itemID, f)
}

func (r *lockedMovementRepo) DeleteByItem(itemID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&memMovementRepo{s: r.s}).DeleteByItem(itemID)
}

func paginate[T any](list []T, page, perPage int) []T {
	if perPage <= 0 {
		return list
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * perPage
	if start >= len(list) {
		return nil
	}
	end := start + perPage
	if end > len(list) {
		end = len(list)
	}
	return list[start:end]
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
