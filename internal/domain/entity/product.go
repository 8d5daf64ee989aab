package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU fabricable/vendible.
// Cost es promedio ponderado calculado desde movimientos de entrada.
// MinStockLevel y ReorderPoint son umbrales para las alertas post-descuento.
type Product struct {
	ID            string
	SKU           string // código único
	Name          string
	Description   string
	UnitMeasure   string
	Price         decimal.Decimal // precio de venta
	Cost          decimal.Decimal // costo promedio ponderado (inicia en 0)
	MinStockLevel decimal.Decimal
	ReorderPoint  decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
