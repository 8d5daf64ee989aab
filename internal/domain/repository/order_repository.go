package repository

import "github.com/jhoicas/Fabrica-api/internal/domain/entity"

// OrderRepository define el puerto de lectura/estado de órdenes para la
// asignación atómica de inventario. La gestión completa de órdenes vive fuera
// de este núcleo.
type OrderRepository interface {
	GetByID(id string) (*entity.Order, error)
	UpdateStatus(id, status string) error
}
