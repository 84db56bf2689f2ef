package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem representa un repuesto del inventario. Quantity es una
// proyección cacheada del libro de movimientos: solo el ledger la escribe;
// el resto de campos se editan por el CRUD normal.
type InventoryItem struct {
	ID           string
	CategoryID   string
	BrandID      string
	SupplierID   string
	StoreID      string
	Name         string
	PartNumber   string
	Vehicle      string // aplicación vehicular (marca/modelo/años)
	Code         string
	Size         string
	SKU          string // único; puede venir del cliente o generarse
	Price        decimal.Decimal
	Cost         decimal.Decimal
	Quantity     int64 // nunca negativa
	ReorderLevel int64
	CreatedAt    time.Time
	LastRestocked *time.Time
	UpdatedAt    time.Time
}
