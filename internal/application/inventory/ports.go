package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de
// inventario: Commit si fn retorna nil, Rollback en cualquier otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
		bomRepo repository.BomEdgeRepository,
	) error) error
}

// OrderTxRunner variante con repos de órdenes para la asignación atómica
// multi-línea (AllocateForOrder / ReleaseForOrder).
type OrderTxRunner interface {
	RunOrder(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
		bomRepo repository.BomEdgeRepository,
		orderRepo repository.OrderRepository,
	) error) error
}

// AlertNotifier recibe señales de stock bajo tras un descuento confirmado.
// Es fuego-y-olvido: sus fallos se registran y jamás se propagan al caller.
type AlertNotifier interface {
	NotifyLowStock(product *entity.Product, warehouseID string, newQuantity decimal.Decimal)
}
