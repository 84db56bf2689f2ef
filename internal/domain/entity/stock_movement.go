package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovementTypeIn         = "in"         // entrada
	MovementTypeOut        = "out"        // salida
	MovementTypeAdjustment = "adjustment" // ajuste por conteo físico
)

// Tipos de referencia opcionales de un movimiento.
const (
	ReferencePurchaseOrder    = "purchase_order"
	ReferenceSalesOrder       = "sales_order"
	ReferenceReturn           = "return"
	ReferenceInternalTransfer = "internal_transfer"
	ReferenceInventoryCheck   = "inventory_check"
)

// ValidMovementType indica si el tipo de movimiento es uno de los permitidos.
func ValidMovementType(t string) bool {
	return t == MovementTypeIn || t == MovementTypeOut || t == MovementTypeAdjustment
}

// ValidReferenceType indica si el tipo de referencia es uno de los permitidos.
func ValidReferenceType(t string) bool {
	switch t {
	case ReferencePurchaseOrder, ReferenceSalesOrder, ReferenceReturn,
		ReferenceInternalTransfer, ReferenceInventoryCheck:
		return true
	}
	return false
}

// StockMovement es una entrada inmutable del libro de movimientos de un item.
// Quantity es el delta firmado realmente aplicado (positivo en entradas,
// negativo en salidas, cualquier signo en ajustes). PreviousQuantity y
// ResultingQuantity son snapshots de auditoría tomados dentro de la misma
// transacción que aplicó el delta; no se recalculan nunca. Invariante:
// ResultingQuantity = PreviousQuantity + Quantity, y ResultingQuantity >= 0.
type StockMovement struct {
	ID                string // UUIDv7: ordenable por fecha de creación
	InventoryItemID   string
	Type              string // in, out, adjustment
	Quantity          int64
	PreviousQuantity  int64
	ResultingQuantity int64
	ReferenceType     string
	ReferenceNumber   string
	Notes             string
	Location          string
	ReasonCode        string
	ReversalOfID      string // id del movimiento que este revierte, si aplica
	UserID            string
	UserName          string
	CreatedAt         time.Time
}
