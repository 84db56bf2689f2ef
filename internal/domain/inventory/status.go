package inventory

// StockStatus etiqueta derivada del estado de stock de un item.
type StockStatus string

// Estados posibles. Los valores coinciden con el filtro `status` del listado.
const (
	StatusInStock    StockStatus = "in-stock"
	StatusLowStock   StockStatus = "low-stock"
	StatusOutOfStock StockStatus = "out-of-stock"
)

// Status deriva el estado de stock a partir de la cantidad y el punto de
// reorden (servicio de dominio, función pura). Es la única fuente de verdad:
// listados, reposición y filtros deben pasar por aquí.
//
//	quantity <= 0                      -> out-of-stock
//	0 < quantity <= reorderLevel       -> low-stock
//	quantity > reorderLevel            -> in-stock
func Status(quantity, reorderLevel int64) StockStatus {
	switch {
	case quantity <= 0:
		return StatusOutOfStock
	case quantity <= reorderLevel:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// ValidStatusFilter indica si el valor del query param `status` es permitido.
// Cadena vacía o "all" significan sin filtro.
func ValidStatusFilter(s string) bool {
	switch s {
	case "", "all", string(StatusInStock), string(StatusLowStock), string(StatusOutOfStock):
		return true
	}
	return false
}
