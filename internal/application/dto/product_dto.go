package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	UnitMeasure   string          `json:"unit_measure,omitempty"`
	Price         decimal.Decimal `json:"price"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
	ReorderPoint  decimal.Decimal `json:"reorder_point"`
}

// UpdateProductRequest body para PUT /api/products/:id (campos opcionales).
// No permite modificar Cost ni Stock: se manejan vía movimientos.
type UpdateProductRequest struct {
	Name          *string          `json:"name,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	MinStockLevel *decimal.Decimal `json:"min_stock_level,omitempty"`
	ReorderPoint  *decimal.Decimal `json:"reorder_point,omitempty"`
}

// ProductResponse representación pública de un producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	UnitMeasure   string          `json:"unit_measure"`
	Price         decimal.Decimal `json:"price"`
	Cost          decimal.Decimal `json:"cost"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
	ReorderPoint  decimal.Decimal `json:"reorder_point"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
