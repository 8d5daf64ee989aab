package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Fabrica-api/internal/application/auth"
	"github.com/jhoicas/Fabrica-api/internal/application/inventory"
	"github.com/jhoicas/Fabrica-api/internal/application/usecase"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	ProductUC     *usecase.ProductUseCase
	WarehouseUC   *usecase.WarehouseUseCase
	BomUC         *inventory.BomUseCase
	ProducibleUC  *inventory.ProducibleUseCase
	DeductionUC   *inventory.DeductionUseCase
	ReservationUC *inventory.ReservationUseCase
	IntakeUC      *inventory.IntakeUseCase
	AllocationUC  *inventory.AllocationUseCase
	StockRepo     repository.StockRepository
	MovementRepo  repository.StockMovementRepository
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// RBAC por grupo de operación
	bodega := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)
	planeacion := RequireRole(entity.RoleAdmin, entity.RolePlanificador)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Warehouses (protegido)
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", warehouseHandler.Update)
	warehouses.Delete("/:id", warehouseHandler.Delete)

	// BOM: aristas, expansión y producible (protegido)
	bom := protected.Group("/bom")
	bomHandler := NewBomHandler(deps.BomUC, deps.ProducibleUC)
	bom.Post("/edges", planeacion, bomHandler.AddEdge)
	bom.Get("/validate", bomHandler.ValidateEdge)
	bom.Post("/producible/batch", bomHandler.ProducibleBatch)
	bom.Get("/:productId/explosion", bomHandler.Explode)
	bom.Get("/:productId/leaves", bomHandler.AggregateLeaves)
	bom.Get("/:productId/producible", bomHandler.Producible)

	// Inventario: descuentos, reservas, entradas y kardex (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.DeductionUC, deps.ReservationUC, deps.IntakeUC, deps.StockRepo, deps.MovementRepo)
	invGroup.Post("/deduct", bodega, inventoryHandler.Deduct)
	invGroup.Post("/reserve", bodega, inventoryHandler.Reserve)
	invGroup.Post("/reserve/batch", bodega, inventoryHandler.ReserveBatch)
	invGroup.Post("/release", bodega, inventoryHandler.Release)
	invGroup.Post("/release/batch", bodega, inventoryHandler.ReleaseBatch)
	invGroup.Post("/intake", bodega, inventoryHandler.RegisterIntake)
	invGroup.Get("/stock", inventoryHandler.ListStock)
	invGroup.Get("/movements", inventoryHandler.ListMovements)

	// Orders (protegido)
	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.AllocationUC)
	orders.Post("/:id/allocate", bodega, orderHandler.Allocate)
	orders.Post("/:id/release", bodega, orderHandler.Release)
}
