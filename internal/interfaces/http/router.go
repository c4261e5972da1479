package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Mihigojordan/Abysphere-sub003/internal/application/inventory"
	"github.com/Mihigojordan/Abysphere-sub003/internal/application/returns"
	"github.com/Mihigojordan/Abysphere-sub003/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StockUC       *inventory.StockUseCase
	StockOutUC    *inventory.StockOutUseCase
	LedgerUC      *inventory.LedgerUseCase
	SalesReturnUC *returns.SalesReturnUseCase
	CreditNotePDF returns.CreditNoteRenderer
	JWTSecret     string
	JWTCookieName string
}

// Router registra las rutas de la API. Todas requieren token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTCookieName))
	adminOnly := RequireRole(jwt.RoleAdmin)

	// Stock-in / Quantity Store
	stock := api.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stock.Post("/", stockHandler.Receive)
	stock.Get("/", stockHandler.List)
	stock.Get("/low", stockHandler.ListLowStock)
	stock.Get("/sku/:sku", stockHandler.GetBySKU)
	stock.Get("/:id", stockHandler.GetByID)
	stock.Post("/:id/adjust", adminOnly, stockHandler.Adjust)
	stock.Put("/:id/unit-cost", adminOnly, stockHandler.UpdateUnitCost)

	// Stock-out
	outs := api.Group("/stock-outs")
	outHandler := NewStockOutHandler(deps.StockOutUC)
	outs.Post("/", outHandler.Record)
	outs.Get("/", outHandler.List)
	outs.Get("/:id", outHandler.GetByID)

	// Ledger
	ledgerHandler := NewLedgerHandler(deps.LedgerUC)
	api.Get("/stock-history", ledgerHandler.List)

	// Sales returns
	sr := api.Group("/sales-returns")
	srHandler := NewSalesReturnHandler(deps.SalesReturnUC, deps.CreditNotePDF)
	sr.Post("/", srHandler.Create)
	sr.Get("/", srHandler.List)
	sr.Get("/:id", srHandler.GetByID)
	sr.Get("/:id/credit-note", srHandler.CreditNote)
}
