package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrMovementNotFound = errors.New("movimiento no encontrado")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrDuplicateSKU     = errors.New("el SKU ya existe")
	ErrConflict         = errors.New("conflicto con el estado actual")
)

// ValidationError error de validación asociado a un campo concreto del request.
// El gateway lo serializa como {field, message} con estado 422.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validación: %s: %s", e.Field, e.Message)
}

// NewValidation construye un ValidationError para un campo.
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// InsufficientStockError salida solicitada mayor al stock disponible.
// Available es la cantidad vigente leída bajo el lock de la misma
// transacción, nunca un snapshot previo.
type InsufficientStockError struct {
	ItemID    string
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: solicitado %d, disponible %d", e.Requested, e.Available)
}
