package dto

import "github.com/shopspring/decimal"

// CreateBomEdgeRequest body para POST /api/bom/edges.
type CreateBomEdgeRequest struct {
	ParentProductID    string          `json:"parent_product_id"`
	ComponentProductID string          `json:"component_product_id"`
	Quantity           decimal.Decimal `json:"quantity"`
	Unit               string          `json:"unit,omitempty"`
	ScrapPercentage    decimal.Decimal `json:"scrap_percentage"`
}

// ExplosionItemDTO renglón de la expansión de una BOM.
type ExplosionItemDTO struct {
	ProductID       string          `json:"product_id"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Quantity        decimal.Decimal `json:"quantity"` // efectiva: merma y multiplicadores aplicados
	Unit            string          `json:"unit"`
	Depth           int             `json:"depth"`
	IsLeaf          bool            `json:"is_leaf"`
	ParentProductID string          `json:"parent_product_id"`
}

// ComponentProducibleDTO disponibilidad de un componente agregado por unidad.
type ComponentProducibleDTO struct {
	ProductID       string          `json:"product_id"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	RequiredPerUnit decimal.Decimal `json:"required_per_unit"`
	Available       decimal.Decimal `json:"available"`
	MaxUnits        int64           `json:"max_units"`
	IsBottleneck    bool            `json:"is_bottleneck"`
}

// ProducibleResultDTO resultado del análisis de cuello de botella.
type ProducibleResultDTO struct {
	ProductID           string                   `json:"product_id"`
	ProducibleQuantity  int64                    `json:"producible_quantity"`
	LimitingComponents  []ComponentProducibleDTO `json:"limiting_components"`
	HasBom              bool                     `json:"has_bom"`
	TotalComponentTypes int                      `json:"total_component_types"`
	Error               string                   `json:"error,omitempty"` // solo en batch: fallo aislado por producto
}

// ProducibleBatchRequest body para POST /api/bom/producible/batch.
type ProducibleBatchRequest struct {
	ProductIDs  []string `json:"product_ids"`
	WarehouseID string   `json:"warehouse_id"`
}
