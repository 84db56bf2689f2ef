package dto

import "time"

// StockInRequest body para POST /api/inventory/stock-in/:id.
type StockInRequest struct {
	Quantity        int64  `json:"quantity"`
	ReferenceType   string `json:"reference_type,omitempty"`
	ReferenceNumber string `json:"reference_number,omitempty"`
	Notes           string `json:"notes,omitempty"`
	Location        string `json:"location,omitempty"`
}

// StockOutRequest body para POST /api/inventory/stock-out/:id.
type StockOutRequest struct {
	Quantity        int64  `json:"quantity"`
	ReferenceType   string `json:"reference_type,omitempty"`
	ReferenceNumber string `json:"reference_number,omitempty"`
	Notes           string `json:"notes,omitempty"`
	Location        string `json:"location,omitempty"`
}

// AdjustRequest body para POST /api/inventory/adjust/:id. NewQuantity es el
// valor absoluto contado; el ledger calcula el delta.
type AdjustRequest struct {
	NewQuantity *int64 `json:"new_quantity"`
	ReasonCode  string `json:"reason_code,omitempty"`
	Notes       string `json:"notes,omitempty"`
	Location    string `json:"location,omitempty"`
}

// ReverseRequest body para POST /api/inventory/movements/:id/reverse.
type ReverseRequest struct {
	Notes string `json:"notes,omitempty"`
}

// MovementResponse representación de un movimiento en respuestas.
type MovementResponse struct {
	ID                string    `json:"id"`
	InventoryItemID   string    `json:"inventory_item_id"`
	Type              string    `json:"type"`
	Quantity          int64     `json:"quantity"`
	PreviousQuantity  int64     `json:"previous_quantity"`
	ResultingQuantity int64     `json:"resulting_quantity"`
	ReferenceType     string    `json:"reference_type,omitempty"`
	ReferenceNumber   string    `json:"reference_number,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	Location          string    `json:"location,omitempty"`
	ReasonCode        string    `json:"reason_code,omitempty"`
	ReversalOfID      string    `json:"reversal_of_id,omitempty"`
	UserID            string    `json:"user_id,omitempty"`
	UserName          string    `json:"user_name,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// MovementListResponse envelope paginado del historial de movimientos.
type MovementListResponse struct {
	Data []MovementResponse `json:"data"`
	Meta Meta               `json:"meta"`
}
