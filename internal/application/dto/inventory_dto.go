package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeductRequest body para POST /api/inventory/deduct: descuento recursivo de
// un producto despachado más todos sus componentes hoja.
type DeductRequest struct {
	ProductID   string          `json:"product_id"`
	VariantID   string          `json:"variant_id,omitempty"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	ReferenceID string          `json:"reference_id"`
}

// ShortageDTO faltante detectado en la fase de validación.
type ShortageDTO struct {
	ProductID string          `json:"product_id"`
	SKU       string          `json:"sku"`
	Required  decimal.Decimal `json:"required"`
	Available decimal.Decimal `json:"available"`
	Shortage  decimal.Decimal `json:"shortage"`
}

// DeductionLineDTO descuento aplicado a un ítem (padre o componente BOM).
type DeductionLineDTO struct {
	ProductID        string          `json:"product_id"`
	SKU              string          `json:"sku"`
	IsParent         bool            `json:"is_parent"`
	Required         decimal.Decimal `json:"required"`
	PreviousQuantity decimal.Decimal `json:"previous_quantity"`
	NewQuantity      decimal.Decimal `json:"new_quantity"`
	PreviousReserved decimal.Decimal `json:"previous_reserved"`
	NewReserved      decimal.Decimal `json:"new_reserved"`
}

// DeductionResultDTO resultado todo-o-nada del descuento recursivo.
// Success=false viene acompañado de la lista COMPLETA de faltantes.
type DeductionResultDTO struct {
	Success        bool               `json:"success"`
	Deductions     []DeductionLineDTO `json:"deductions"`
	Shortages      []ShortageDTO      `json:"shortages,omitempty"`
	Errors         []string           `json:"errors,omitempty"`
	TotalMovements int                `json:"total_movements"`
}

// ReserveRequest body para reservar/liberar stock (retención blanda).
type ReserveRequest struct {
	ProductID   string          `json:"product_id"`
	VariantID   string          `json:"variant_id,omitempty"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	ReferenceID string          `json:"reference_id,omitempty"`
}

// ReservationResultDTO estado de la fila de stock tras reservar o liberar.
type ReservationResultDTO struct {
	ProductID        string          `json:"product_id"`
	VariantID        string          `json:"variant_id,omitempty"`
	WarehouseID      string          `json:"warehouse_id"`
	Requested        decimal.Decimal `json:"requested"`
	ReservedQuantity decimal.Decimal `json:"reserved_quantity"`
	Available        decimal.Decimal `json:"available"`
}

// ReserveBatchRequest body para reserva/liberación por líneas de orden.
// Intencionalmente NO atómico entre líneas: cada línea reporta su resultado.
type ReserveBatchRequest struct {
	Lines []ReserveRequest `json:"lines"`
}

// ReserveBatchResultDTO resultados por línea.
type ReserveBatchResultDTO struct {
	Success []ReservationResultDTO `json:"success"`
	Errors  []LineErrorDTO         `json:"errors,omitempty"`
}

// LineErrorDTO error aislado de una línea del batch.
type LineErrorDTO struct {
	ProductID string `json:"product_id"`
	Message   string `json:"message"`
}

// AllocationResultDTO resultado de la asignación/restauración atómica de una orden.
type AllocationResultDTO struct {
	OrderID        string             `json:"order_id"`
	Success        bool               `json:"success"`
	Lines          []DeductionLineDTO `json:"lines"`
	Shortages      []ShortageDTO      `json:"shortages,omitempty"`
	TotalMovements int                `json:"total_movements"`
}

// StockMovementDTO renglón del rastro de auditoría.
type StockMovementDTO struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	VariantID   string          `json:"variant_id,omitempty"`
	WarehouseID string          `json:"warehouse_id"`
	Type        string          `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	Reference   string          `json:"reference,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	CreatedBy   string          `json:"created_by,omitempty"`
}

// RegisterIntakeRequest body para POST /api/inventory/intake (entrada o ajuste).
type RegisterIntakeRequest struct {
	ProductID   string           `json:"product_id"`
	VariantID   string           `json:"variant_id,omitempty"`
	WarehouseID string           `json:"warehouse_id"`
	Type        string           `json:"type"` // in | adjustment
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"` // obligatorio en entradas
	Reference   string           `json:"reference,omitempty"`
	Notes       string           `json:"notes,omitempty"`
}

// StockRecordDTO existencia por producto+variante+bodega.
type StockRecordDTO struct {
	ProductID        string          `json:"product_id"`
	VariantID        string          `json:"variant_id,omitempty"`
	WarehouseID      string          `json:"warehouse_id"`
	Quantity         decimal.Decimal `json:"quantity"`
	ReservedQuantity decimal.Decimal `json:"reserved_quantity"`
	Available        decimal.Decimal `json:"available"`
}
