package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario (value object conceptual).
const (
	MovementTypeIN         = "in"
	MovementTypeOUT        = "out"
	MovementTypeTRANSFER   = "transfer"
	MovementTypeADJUSTMENT = "adjustment"
	MovementTypeRETURN     = "return"
)

// StockMovement es un registro de auditoría append-only: se escribe junto a cada
// mutación de StockRecord y nunca se actualiza ni se borra.
type StockMovement struct {
	ID          string
	ProductID   string
	VariantID   string // vacío = producto base
	WarehouseID string
	Type        string          // in, out, transfer, adjustment, return
	Quantity    decimal.Decimal // positiva para in/return, negativa para out
	Reference   string          // orden, envío, nota de ajuste, etc.
	Notes       string
	CreatedAt   time.Time
	CreatedBy   string // UserID del actor
}
