package repository

import "github.com/jhoicas/Fabrica-api/internal/domain/entity"

// StockRepository define el puerto para consultar/actualizar existencias por
// producto+variante+bodega. Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	Get(productID, variantID, warehouseID string) (*entity.StockRecord, error)
	Upsert(stock *entity.StockRecord) error
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(productID, variantID, warehouseID string) (*entity.StockRecord, error)
	ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.StockRecord, error)
}
