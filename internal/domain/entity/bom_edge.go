package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BomEdge es una arista dirigida padre→componente de la lista de materiales.
// Quantity es la cantidad de componente por 1 unidad del padre; ScrapPercentage
// es la merma esperada de producción en [0,100]. El grafo completo debe
// mantenerse acíclico: ningún producto puede ser componente transitivo de sí mismo.
type BomEdge struct {
	ID                 string
	ParentProductID    string
	ComponentProductID string
	Quantity           decimal.Decimal
	Unit               string
	ScrapPercentage    decimal.Decimal
	CreatedAt          time.Time
}

// EffectiveQuantity devuelve la cantidad por unidad del padre con la merma aplicada:
// quantity * (1 + scrap/100).
func (e *BomEdge) EffectiveQuantity() decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	return e.Quantity.Mul(decimal.NewFromInt(1).Add(e.ScrapPercentage.Div(hundred)))
}
