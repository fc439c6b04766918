package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/fulfillment-core/internal/application/alert"
	"github.com/jhoicas/fulfillment-core/internal/application/inventory"
	"github.com/jhoicas/fulfillment-core/internal/application/pickpack"
	"github.com/jhoicas/fulfillment-core/internal/application/reception"
	"github.com/jhoicas/fulfillment-core/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger         *inventory.StockLedger
	Receptions     *reception.StockReceptionUseCase
	PickPack       *pickpack.PickPackUseCase
	Monitor        *alert.Monitor
	MetricsHandler http.Handler // opcional: GET /metrics
	JWTSecret      string
	AppName        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	if deps.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.MetricsHandler))
	}

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Ledger de inventario
	invGroup := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Ledger)
	invGroup.Post("/adjustments", RequireRole(entity.RoleAdmin, entity.RoleStockManager), inventoryHandler.Adjust)
	invGroup.Get("/logs", inventoryHandler.Logs)

	// Recepciones de proveedor
	receptions := api.Group("/receptions")
	receptionHandler := NewReceptionHandler(deps.Receptions)
	receptions.Get("/", receptionHandler.List)
	receptions.Post("/", receptionHandler.Create)
	receptions.Get("/pending", receptionHandler.Pending)
	receptions.Get("/search", receptionHandler.Search)
	receptions.Get("/:id", receptionHandler.GetByID)
	receptions.Put("/:id", receptionHandler.Update)
	receptions.Delete("/:id", receptionHandler.Delete)
	receptions.Put("/:id/items/:productId", receptionHandler.UpdateItemQuantity)
	receptions.Post("/:id/complete", receptionHandler.Complete)
	receptions.Post("/:id/cancel", receptionHandler.Cancel)

	// Pick / pack / ship
	pp := api.Group("/pick-pack")
	ppHandler := NewPickPackHandler(deps.PickPack)
	pp.Get("/", ppHandler.List)
	pp.Post("/", ppHandler.Create)
	pp.Get("/pending", ppHandler.Pending)
	pp.Get("/search", ppHandler.Search)
	pp.Get("/:id", ppHandler.GetByID)
	pp.Delete("/:id", ppHandler.Delete)
	pp.Post("/:id/items/:productId/pick", ppHandler.Pick)
	pp.Post("/:id/items/:productId/pack", ppHandler.Pack)
	pp.Post("/:id/items/:productId/reset", ppHandler.Reset)
	pp.Post("/:id/assign", ppHandler.Assign)
	pp.Post("/:id/ship", ppHandler.Ship)
	pp.Get("/:id/packing-slip", ppHandler.PackingSlip)

	// Alertas (solo admin / stock_manager)
	alerts := api.Group("/alerts", RequireRole(entity.AlertRecipientRoles...))
	alertHandler := NewAlertHandler(deps.Monitor)
	alerts.Post("/sweep", alertHandler.Sweep)
	alerts.Delete("/:productId", alertHandler.Clear)
}
