package http

import (
	"github.com/gofiber/fiber/v2"
	appinventory "github.com/tu-usuario/repuestos-api/internal/application/inventory"
	"github.com/tu-usuario/repuestos-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC    *usecase.ItemUseCase
	Ledger    *appinventory.LedgerUseCase
	Movements *appinventory.MovementQueryUseCase
	JWTSecret string
}

// Router registra las rutas de la API. Todas las rutas de negocio van detrás
// del middleware de auth para que los movimientos lleven atribución.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Items (CRUD)
	items := api.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Delete("/:id", itemHandler.Delete)

	// Ledger de inventario
	inv := api.Group("/inventory")
	ledgerHandler := NewLedgerHandler(deps.Ledger, deps.Movements)
	inv.Post("/stock-in/:id", ledgerHandler.StockIn)
	inv.Post("/stock-out/:id", ledgerHandler.StockOut)
	inv.Post("/adjust/:id", ledgerHandler.Adjust)
	inv.Post("/movements/:id/reverse", ledgerHandler.Reverse)
	inv.Get("/movements/:id", ledgerHandler.ListMovements)
	inv.Get("/replenishment", itemHandler.Replenishment)
}
