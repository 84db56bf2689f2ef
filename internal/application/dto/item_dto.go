package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest body para POST /api/items.
// SKU vacío + AutoSKU=true genera el SKU desde part_number y code.
type CreateItemRequest struct {
	CategoryID   string          `json:"category_id"`
	BrandID      string          `json:"brand_id"`
	SupplierID   string          `json:"supplier_id"`
	StoreID      string          `json:"store_id"`
	Name         string          `json:"name"`
	PartNumber   string          `json:"part_number"`
	Vehicle      string          `json:"vehicle"`
	Code         string          `json:"code"`
	Size         string          `json:"size"`
	SKU          string          `json:"sku"`
	AutoSKU      bool            `json:"auto_sku"`
	Price        decimal.Decimal `json:"price"`
	Cost         decimal.Decimal `json:"cost"`
	Quantity     int64           `json:"quantity"`
	ReorderLevel int64           `json:"reorder_level"`
}

// UpdateItemRequest body para PUT /api/items/:id. Solo campos descriptivos y
// de clasificación; la cantidad se modifica únicamente vía ledger.
type UpdateItemRequest struct {
	CategoryID   *string          `json:"category_id"`
	BrandID      *string          `json:"brand_id"`
	SupplierID   *string          `json:"supplier_id"`
	StoreID      *string          `json:"store_id"`
	Name         *string          `json:"name"`
	PartNumber   *string          `json:"part_number"`
	Vehicle      *string          `json:"vehicle"`
	Code         *string          `json:"code"`
	Size         *string          `json:"size"`
	Price        *decimal.Decimal `json:"price"`
	Cost         *decimal.Decimal `json:"cost"`
	ReorderLevel *int64           `json:"reorder_level"`
	Quantity     *int64           `json:"quantity"` // rechazado con 422; existe para detectar el intento
}

// ItemResponse representación de un item en respuestas. Status se deriva con
// el evaluador de estado, nunca se almacena.
type ItemResponse struct {
	ID            string          `json:"id"`
	CategoryID    string          `json:"category_id"`
	BrandID       string          `json:"brand_id"`
	SupplierID    string          `json:"supplier_id"`
	StoreID       string          `json:"store_id"`
	Name          string          `json:"name"`
	PartNumber    string          `json:"part_number"`
	Vehicle       string          `json:"vehicle"`
	Code          string          `json:"code"`
	Size          string          `json:"size"`
	SKU           string          `json:"sku"`
	Price         decimal.Decimal `json:"price"`
	Cost          decimal.Decimal `json:"cost"`
	Quantity      int64           `json:"quantity"`
	ReorderLevel  int64           `json:"reorder_level"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	LastRestocked *time.Time      `json:"last_restocked,omitempty"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ItemListResponse envelope paginado del listado de items.
type ItemListResponse struct {
	Data []ItemResponse `json:"data"`
	Meta Meta           `json:"meta"`
}

// ReplenishmentSuggestion item en o bajo el punto de reorden con la cantidad
// sugerida de pedido (2*reorder_level - quantity, piso 0).
type ReplenishmentSuggestion struct {
	ItemID            string `json:"item_id"`
	SKU               string `json:"sku"`
	Name              string `json:"name"`
	Quantity          int64  `json:"quantity"`
	ReorderLevel      int64  `json:"reorder_level"`
	Status            string `json:"status"`
	SuggestedOrderQty int64  `json:"suggested_order_qty"`
}
