package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockRecord representa la existencia de un producto (y variante opcional)
// en una bodega. ReservedQuantity es una retención blanda sobre Quantity;
// el invariante ReservedQuantity <= Quantity lo mantienen los casos de uso.
type StockRecord struct {
	ProductID        string
	VariantID        string // vacío = producto base
	WarehouseID      string
	Quantity         decimal.Decimal
	ReservedQuantity decimal.Decimal
	UpdatedAt        time.Time
}

// Available devuelve la cantidad disponible (quantity - reserved), con piso en cero.
func (s *StockRecord) Available() decimal.Decimal {
	available := s.Quantity.Sub(s.ReservedQuantity)
	if available.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return available
}
