package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/repuestos-api/internal/application/dto"
	appinventory "github.com/tu-usuario/repuestos-api/internal/application/inventory"
)

// LedgerHandler maneja las mutaciones de stock y el historial de movimientos
// (protegido). Es la frontera que consumen la UI de inventario y el
// subsistema de ventas (stock-out al completar una orden).
type LedgerHandler struct {
	ledger *appinventory.LedgerUseCase
	query  *appinventory.MovementQueryUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(ledger *appinventory.LedgerUseCase, query *appinventory.MovementQueryUseCase) *LedgerHandler {
	return &LedgerHandler{ledger: ledger, query: query}
}

// StockIn godoc
// @Summary      Registrar entrada de stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del item"
// @Param        body  body  dto.StockInRequest  true  "quantity > 0 y metadatos opcionales"
// @Success      201   {object}  dto.MovementResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/stock-in/{id} [post]
func (h *LedgerHandler) StockIn(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.StockInRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.ledger.StockIn(c.Context(), id, in.Quantity, appinventory.MovementMeta{
		ReferenceType:   in.ReferenceType,
		ReferenceNumber: in.ReferenceNumber,
		Notes:           in.Notes,
		Location:        in.Location,
		UserID:          GetUserID(c),
		UserName:        GetUserName(c),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(appinventory.ToMovementResponse(mov))
}

// StockOut godoc
// @Summary      Registrar salida de stock
// @Description  Falla con 422 si la cantidad solicitada excede el stock
// @Description  vigente, re-leído bajo lock dentro de la misma transacción.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del item"
// @Param        body  body  dto.StockOutRequest  true  "quantity > 0 y metadatos opcionales"
// @Success      201   {object}  dto.MovementResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/stock-out/{id} [post]
func (h *LedgerHandler) StockOut(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.StockOutRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.ledger.StockOut(c.Context(), id, in.Quantity, appinventory.MovementMeta{
		ReferenceType:   in.ReferenceType,
		ReferenceNumber: in.ReferenceNumber,
		Notes:           in.Notes,
		Location:        in.Location,
		UserID:          GetUserID(c),
		UserName:        GetUserName(c),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(appinventory.ToMovementResponse(mov))
}

// Adjust godoc
// @Summary      Ajustar stock a un valor absoluto (conteo físico)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del item"
// @Param        body  body  dto.AdjustRequest  true  "new_quantity >= 0, reason_code opcional"
// @Success      201   {object}  dto.MovementResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjust/{id} [post]
func (h *LedgerHandler) Adjust(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.AdjustRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.NewQuantity == nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "VALIDATION", Field: "new_quantity", Message: "campo requerido"})
	}
	mov, err := h.ledger.Adjust(c.Context(), id, *in.NewQuantity, in.ReasonCode, appinventory.MovementMeta{
		Notes:    in.Notes,
		Location: in.Location,
		UserID:   GetUserID(c),
		UserName: GetUserName(c),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(appinventory.ToMovementResponse(mov))
}

// Reverse godoc
// @Summary      Revertir un movimiento
// @Description  Aplica el delta inverso como un movimiento nuevo que
// @Description  referencia al original; la historia nunca se reescribe.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del movimiento a revertir"
// @Param        body  body  dto.ReverseRequest  false  "Notas opcionales"
// @Success      201   {object}  dto.MovementResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id}/reverse [post]
func (h *LedgerHandler) Reverse(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.ReverseRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	mov, err := h.ledger.Reverse(c.Context(), id, appinventory.MovementMeta{
		Notes:    in.Notes,
		UserID:   GetUserID(c),
		UserName: GetUserName(c),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(appinventory.ToMovementResponse(mov))
}

// ListMovements godoc
// @Summary      Historial de movimientos de un item
// @Description  Rango de fechas inclusivo por días calendario; orden por
// @Description  fecha o por magnitud del delta, empates por id ascendente.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id         path   string  true   "ID del item"
// @Param        date_from  query  string  false  "YYYY-MM-DD"
// @Param        date_to    query  string  false  "YYYY-MM-DD"
// @Param        type       query  string  false  "in | out | adjustment"
// @Param        sort       query  string  false  "created_at | quantity"
// @Param        dir        query  string  false  "asc | desc"
// @Param        page       query  int     false  "Página"     default(1)
// @Param        per_page   query  int     false  "Por página" default(20)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id} [get]
func (h *LedgerHandler) ListMovements(c *fiber.Ctx) error {
	id := c.Params("id")
	out, err := h.query.ListMovements(id, appinventory.ListMovementsQuery{
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
		Type:     c.Query("type"),
		SortBy:   c.Query("sort"),
		SortDir:  c.Query("dir"),
		Page:     c.QueryInt("page", 1),
		PerPage:  c.QueryInt("per_page", 20),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}
