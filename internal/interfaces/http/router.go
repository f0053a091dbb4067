package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/obra-stock-api/internal/application/inventory"
	"github.com/jhoicas/obra-stock-api/internal/application/usecase"
	"github.com/jhoicas/obra-stock-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC            *usecase.ItemUseCase
	ProjectUC         *usecase.ProjectUseCase
	MaterialRequestUC *usecase.MaterialRequestUseCase
	StockLedger       *inventory.StockLedgerUseCase
	JWTSecret         string
}

// Router registra las rutas de la API. Todo bajo /api requiere Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	approvers := RequireRole(jwt.RoleAdmin, jwt.RoleManager)

	// Items
	items := api.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC, deps.StockLedger)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Get("/:id/history", itemHandler.History)

	// Obras
	projects := api.Group("/projects")
	projectHandler := NewProjectHandler(deps.ProjectUC, deps.StockLedger)
	projects.Post("/", projectHandler.Create)
	projects.Get("/", projectHandler.List)
	projects.Get("/:id", projectHandler.GetByID)
	projects.Put("/:id", projectHandler.Update)
	projects.Get("/:id/stock", projectHandler.Stock)
	projects.Get("/:id/transactions", projectHandler.Transactions)
	projects.Get("/:id/issues", projectHandler.Issues)

	// Solicitudes de material
	mrs := api.Group("/material-requests")
	mrHandler := NewMaterialRequestHandler(deps.MaterialRequestUC)
	mrs.Post("/", mrHandler.Create)
	mrs.Get("/", mrHandler.List)
	mrs.Get("/pending", mrHandler.Pending)
	mrs.Get("/:id", mrHandler.GetByID)
	mrs.Patch("/:id/approve", approvers, mrHandler.Approve)
	mrs.Patch("/:id/reject", approvers, mrHandler.Reject)
	mrs.Patch("/:id/order", approvers, mrHandler.Order)

	// Notas de recepción
	grn := api.Group("/grn")
	grnHandler := NewGRNHandler(deps.StockLedger)
	grn.Post("/", grnHandler.Create)
	grn.Get("/", grnHandler.List)
	grn.Get("/:id", grnHandler.GetByID)
	grn.Get("/:id/pdf", grnHandler.DownloadPDF)

	// Movimientos de stock
	stock := api.Group("/stock")
	stockHandler := NewStockHandler(deps.StockLedger)
	stock.Post("/issue", stockHandler.Issue)
	stock.Post("/consumption", stockHandler.Consumption)
	stock.Post("/transfer", stockHandler.Transfer)
	stock.Post("/return", stockHandler.Return)
}
