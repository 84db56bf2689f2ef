package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/repuestos-api/internal/domain"
	"github.com/tu-usuario/repuestos-api/internal/domain/entity"
	"github.com/tu-usuario/repuestos-api/internal/domain/inventory"
	"github.com/tu-usuario/repuestos-api/internal/domain/repository"
)

var _ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)

const itemColumns = `id, category_id, brand_id, supplier_id, store_id, name, part_number,
		vehicle, code, size, sku, price, cost, quantity, reorder_level,
		created_at, last_restocked, updated_at`

// InventoryItemRepo implementación del puerto sobre PostgreSQL (usable con pool o tx).
type InventoryItemRepo struct {
	q Querier
}

// NewInventoryItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryItemRepository(q Querier) *InventoryItemRepo {
	return &InventoryItemRepo{q: q}
}

// Create persiste un nuevo item.
func (r *InventoryItemRepo) Create(item *entity.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.CategoryID, item.BrandID, item.SupplierID, item.StoreID,
		item.Name, item.PartNumber, item.Vehicle, item.Code, item.Size, item.SKU,
		item.Price, item.Cost, item.Quantity, item.ReorderLevel,
		item.CreatedAt, item.LastRestocked, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateSKU
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un item por ID.
func (r *InventoryItemRepo) GetByID(id string) (*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE id = $1`
	return r.scanOne(query, id)
}

// GetBySKU obtiene un item por SKU (único).
func (r *InventoryItemRepo) GetBySKU(sku string) (*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE sku = $1`
	return r.scanOne(query, sku)
}

// GetForUpdate obtiene el item y bloquea la fila para update (SELECT FOR UPDATE).
// Solo tiene sentido llamarlo con un Querier atado a una transacción.
func (r *InventoryItemRepo) GetForUpdate(id string) (*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE id = $1 FOR UPDATE`
	return r.scanOne(query, id)
}

// UpdateDetails actualiza los campos descriptivos y de clasificación.
// La cantidad no se toca aquí: es escritura exclusiva del ledger.
func (r *InventoryItemRepo) UpdateDetails(item *entity.InventoryItem) error {
	query := `
		UPDATE inventory_items SET
			category_id = $2, brand_id = $3, supplier_id = $4, store_id = $5,
			name = $6, part_number = $7, vehicle = $8, code = $9, size = $10,
			price = $11, cost = $12, reorder_level = $13, updated_at = $14
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		item.ID, item.CategoryID, item.BrandID, item.SupplierID, item.StoreID,
		item.Name, item.PartNumber, item.Vehicle, item.Code, item.Size,
		item.Price, item.Cost, item.ReorderLevel, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateQuantity fija la cantidad del item (solo el ledger, dentro de su tx).
// restockedAt actualiza last_restocked cuando el delta fue positivo.
func (r *InventoryItemRepo) UpdateQuantity(id string, quantity int64, restockedAt *time.Time) error {
	query := `
		UPDATE inventory_items SET
			quantity = $2,
			last_restocked = COALESCE($3, last_restocked),
			updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, quantity, restockedAt)
	if err != nil {
		return fmt.Errorf("update quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista items con filtros y devuelve además el total de coincidencias
// para que el caller calcule páginas. El predicado de estado replica los
// umbrales del evaluador de dominio, no los reinventa.
func (r *InventoryItemRepo) List(filter repository.ItemFilter) ([]*entity.InventoryItem, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	pos := 1

	if filter.Search != "" {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR sku ILIKE $%d OR part_number ILIKE $%d)", pos, pos, pos)
		args = append(args, "%"+filter.Search+"%")
		pos++
	}
	if filter.BrandID != "" {
		where += fmt.Sprintf(" AND brand_id = $%d", pos)
		args = append(args, filter.BrandID)
		pos++
	}
	if filter.CategoryID != "" {
		where += fmt.Sprintf(" AND category_id = $%d", pos)
		args = append(args, filter.CategoryID)
		pos++
	}
	switch inventory.StockStatus(filter.Status) {
	case inventory.StatusOutOfStock:
		where += " AND quantity <= 0"
	case inventory.StatusLowStock:
		where += " AND quantity > 0 AND quantity <= reorder_level"
	case inventory.StatusInStock:
		where += " AND quantity > reorder_level"
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM inventory_items" + where
	if err := r.q.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	query := "SELECT " + itemColumns + " FROM inventory_items" + where +
		fmt.Sprintf(" ORDER BY name ASC, id ASC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.PerPage, (filter.Page-1)*filter.PerPage)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var list []*entity.InventoryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, item)
	}
	return list, total, rows.Err()
}

// ListBelowReorder items con quantity <= reorder_level, los de mayor déficit primero.
func (r *InventoryItemRepo) ListBelowReorder(limit int) ([]*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + `
		FROM inventory_items
		WHERE quantity <= reorder_level
		ORDER BY (quantity - reorder_level) ASC, name ASC
		LIMIT $1`
	rows, err := r.q.Query(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("list below reorder: %w", err)
	}
	defer rows.Close()

	var list []*entity.InventoryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

// Delete elimina el item. Los movimientos caen por el ON DELETE CASCADE del
// esquema, además del borrado explícito que hace el caso de uso en la misma tx.
func (r *InventoryItemRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM inventory_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InventoryItemRepo) scanOne(query string, arg any) (*entity.InventoryItem, error) {
	row := r.q.QueryRow(context.Background(), query, arg)
	item, err := scanItemRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

func scanItem(rows pgx.Rows) (*entity.InventoryItem, error) {
	item, err := scanItemRow(rows)
	if err != nil {
		return nil, fmt.Errorf("scan item: %w", err)
	}
	return item, nil
}

func scanItemRow(row pgx.Row) (*entity.InventoryItem, error) {
	var it entity.InventoryItem
	err := row.Scan(
		&it.ID, &it.CategoryID, &it.BrandID, &it.SupplierID, &it.StoreID,
		&it.Name, &it.PartNumber, &it.Vehicle, &it.Code, &it.Size, &it.SKU,
		&it.Price, &it.Cost, &it.Quantity, &it.ReorderLevel,
		&it.CreatedAt, &it.LastRestocked, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}
