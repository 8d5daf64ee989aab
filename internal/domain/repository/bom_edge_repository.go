package repository

import "github.com/jhoicas/Fabrica-api/internal/domain/entity"

// BomEdgeRepository define el puerto de persistencia para las aristas de la BOM.
// La aciclicidad del grafo la garantiza el caso de uso antes de cada Create;
// desde el motor de inventario las aristas son de solo lectura.
type BomEdgeRepository interface {
	Create(edge *entity.BomEdge) error
	ListByParent(parentProductID string) ([]*entity.BomEdge, error)
	ListByComponent(componentProductID string) ([]*entity.BomEdge, error)
	Delete(id string) error
}
