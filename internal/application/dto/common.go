package dto

// Meta metadatos de paginación en respuestas de listado.
type Meta struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

// NewMeta calcula los metadatos de página a partir del total de coincidencias.
// LastPage mínimo 1 para que el cliente siempre tenga una página válida.
func NewMeta(page, perPage, total int) Meta {
	last := (total + perPage - 1) / perPage
	if last < 1 {
		last = 1
	}
	return Meta{CurrentPage: page, LastPage: last, PerPage: perPage, Total: total}
}

// ErrorResponse cuerpo de error HTTP. Field se incluye solo en errores de
// validación asociados a un campo.
type ErrorResponse struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}
