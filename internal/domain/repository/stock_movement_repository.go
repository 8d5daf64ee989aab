package repository

import (
	"time"

	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para el rastro de
// auditoría de inventario. Solo escritura y lectura: nunca update ni delete.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListByReference(reference string) ([]*entity.StockMovement, error)
}
