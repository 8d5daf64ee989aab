package notify

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Fabrica-api/internal/application/inventory"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/pkg/logger"
)

var _ inventory.AlertNotifier = (*LowStockNotifier)(nil)

// LowStockNotifier emite alertas de stock bajo como eventos de log estructurado.
// Integraciones externas (correo, webhooks) pueden implementarse detrás del
// mismo puerto sin tocar el motor de inventario.
type LowStockNotifier struct {
	log *logger.Logger
}

// NewLowStockNotifier construye el notificador sobre el logger de la app.
func NewLowStockNotifier(log *logger.Logger) *LowStockNotifier {
	return &LowStockNotifier{log: log}
}

// NotifyLowStock registra la alerta con el umbral que se cruzó.
func (n *LowStockNotifier) NotifyLowStock(product *entity.Product, warehouseID string, newQuantity decimal.Decimal) {
	n.log.Warn().
		Str("product_id", product.ID).
		Str("sku", product.SKU).
		Str("warehouse_id", warehouseID).
		Str("quantity", newQuantity.String()).
		Str("min_stock_level", product.MinStockLevel.String()).
		Str("reorder_point", product.ReorderPoint.String()).
		Msg("stock bajo tras descuento")
}
