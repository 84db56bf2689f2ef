package inventory

import (
	"time"

	"github.com/tu-usuario/repuestos-api/internal/application/dto"
	"github.com/tu-usuario/repuestos-api/internal/domain"
	"github.com/tu-usuario/repuestos-api/internal/domain/entity"
	"github.com/tu-usuario/repuestos-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// MovementQueryUseCase consultas de solo lectura sobre el historial de
// movimientos de un item. No muta estado: puede llamarse cualquier número de
// veces con el mismo resultado.
type MovementQueryUseCase struct {
	itemRepo repository.InventoryItemRepository
	movRepo  repository.StockMovementRepository
}

// NewMovementQueryUseCase construye el caso de uso.
func NewMovementQueryUseCase(itemRepo repository.InventoryItemRepository, movRepo repository.StockMovementRepository) *MovementQueryUseCase {
	return &MovementQueryUseCase{itemRepo: itemRepo, movRepo: movRepo}
}

// ListMovementsQuery parámetros crudos del endpoint de historial. Las fechas
// llegan como YYYY-MM-DD y se interpretan en la zona local del servidor.
type ListMovementsQuery struct {
	DateFrom string
	DateTo   string
	Type     string
	SortBy   string
	SortDir  string
	Page     int
	PerPage  int
}

// ListMovements devuelve la página de movimientos del item junto al total de
// coincidencias. El rango de fechas es inclusivo en ambos extremos por días
// calendario: from -> inicio del día, to -> fin del día, cada límite
// independiente y opcional.
func (uc *MovementQueryUseCase) ListMovements(itemID string, q ListMovementsQuery) (*dto.MovementListResponse, error) {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	filter, err := buildMovementFilter(q)
	if err != nil {
		return nil, err
	}

	movs, total, err := uc.movRepo.ListByItem(itemID, filter)
	if err != nil {
		return nil, err
	}

	data := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		data = append(data, ToMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Data: data,
		Meta: dto.NewMeta(filter.Page, filter.PerPage, total),
	}, nil
}

// buildMovementFilter valida y normaliza los parámetros del historial.
func buildMovementFilter(q ListMovementsQuery) (repository.MovementFilter, error) {
	var f repository.MovementFilter

	if q.DateFrom != "" {
		day, err := time.ParseInLocation(dateLayout, q.DateFrom, time.Local)
		if err != nil {
			return f, domain.NewValidation("date_from", "fecha inválida, formato esperado YYYY-MM-DD")
		}
		f.From = &day
	}
	if q.DateTo != "" {
		day, err := time.ParseInLocation(dateLayout, q.DateTo, time.Local)
		if err != nil {
			return f, domain.NewValidation("date_to", "fecha inválida, formato esperado YYYY-MM-DD")
		}
		end := endOfDay(day)
		f.To = &end
	}
	if q.Type != "" && !entity.ValidMovementType(q.Type) {
		return f, domain.NewValidation("type", "tipo de movimiento no permitido")
	}
	f.Type = q.Type

	switch q.SortBy {
	case "", repository.MovementSortCreatedAt:
		f.SortBy = repository.MovementSortCreatedAt
	case repository.MovementSortQuantity:
		f.SortBy = repository.MovementSortQuantity
	default:
		return f, domain.NewValidation("sort", "campo de orden no permitido")
	}
	switch q.SortDir {
	case "asc", "desc":
		f.SortDir = q.SortDir
	case "":
		f.SortDir = "desc"
	default:
		return f, domain.NewValidation("dir", "dirección de orden no permitida")
	}

	f.Page = q.Page
	if f.Page < 1 {
		f.Page = 1
	}
	f.PerPage = q.PerPage
	if f.PerPage <= 0 {
		f.PerPage = 20
	}
	if f.PerPage > 100 {
		f.PerPage = 100
	}
	return f, nil
}

// endOfDay devuelve el último instante del día calendario de t.
func endOfDay(t time.Time) time.Time {
	return t.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// ToMovementResponse mapea la entidad al DTO de respuesta.
func ToMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:                m.ID,
		InventoryItemID:   m.InventoryItemID,
		Type:              m.Type,
		Quantity:          m.Quantity,
		PreviousQuantity:  m.PreviousQuantity,
		ResultingQuantity: m.ResultingQuantity,
		ReferenceType:     m.ReferenceType,
		ReferenceNumber:   m.ReferenceNumber,
		Notes:             m.Notes,
		Location:          m.Location,
		ReasonCode:        m.ReasonCode,
		ReversalOfID:      m.ReversalOfID,
		UserID:            m.UserID,
		UserName:          m.UserName,
		CreatedAt:         m.CreatedAt,
	}
}
