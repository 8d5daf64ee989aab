package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden respecto a la asignación de inventario.
const (
	OrderStatusPending   = "pending"
	OrderStatusAllocated = "allocated"
	OrderStatusCancelled = "cancelled"
)

// Order es la cabecera de una orden de venta/producción cuyas líneas
// se asignan o restauran de forma atómica contra el inventario.
type Order struct {
	ID          string
	Reference   string
	WarehouseID string
	Status      string
	Items       []OrderItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OrderItem es una línea de la orden.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	VariantID string // vacío = producto base
	Quantity  decimal.Decimal
}
