package repository

import "github.com/jhoicas/Fabrica-api/internal/domain/entity"

// MaterialRepository define el puerto de lectura de materiales planos de fase
// de producción: la fuente alternativa de requerimientos cuando un producto
// no tiene aristas BOM.
type MaterialRepository interface {
	ListByProduct(productID string) ([]*entity.PhaseMaterial, error)
}
