package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/application/usecase"
	"github.com/jhoicas/Farmacia-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger    *inventory.Ledger
	ProductUC *usecase.ProductUseCase
	JWTSecret string
}

// Router registra las rutas de la API. Todas requieren Bearer Token; las escrituras de
// inventario (compras, ajustes, bajas) quedan para admin y regente.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	managers := RequireRole(jwt.RoleAdmin, jwt.RoleRegente)
	counter := RequireRole(jwt.RoleAdmin, jwt.RoleRegente, jwt.RoleCajero)

	inventoryHandler := NewInventoryHandler(deps.Ledger)
	productHandler := NewProductHandler(deps.ProductUC)

	// Products
	products := api.Group("/products")
	products.Post("/", managers, productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Get("/:id/lots", inventoryHandler.ListLots)
	products.Get("/:id/stock", inventoryHandler.ProductStock)

	// Movimientos del libro
	api.Post("/purchases", managers, inventoryHandler.Receive)
	api.Post("/adjustments", managers, inventoryHandler.Adjust)
	api.Post("/sales", counter, inventoryHandler.Sell)
	api.Post("/devolutions", counter, inventoryHandler.Return)

	// Lots
	lots := api.Group("/lots")
	lots.Post("/:id/deactivate", managers, inventoryHandler.Deactivate)
	lots.Post("/:id/reactivate", managers, inventoryHandler.Reactivate)
	lots.Get("/:id/history", inventoryHandler.LotHistory)

	// Reportes
	reports := api.Group("/inventory")
	reports.Get("/low-stock", inventoryHandler.LowStock)
	reports.Get("/expiring", inventoryHandler.Expiring)
}
