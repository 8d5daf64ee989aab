package entity

import "github.com/shopspring/decimal"

// PhaseMaterial es un material plano de fase de producción: la fuente de
// requerimientos alternativa cuando un producto no tiene aristas BOM.
type PhaseMaterial struct {
	MaterialID      string
	SKU             string
	Name            string
	Quantity        decimal.Decimal // por 1 unidad del producto
	ScrapPercentage decimal.Decimal
	Unit            string
}

// EffectiveQuantity devuelve la cantidad por unidad con la merma aplicada.
func (m *PhaseMaterial) EffectiveQuantity() decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	return m.Quantity.Mul(decimal.NewFromInt(1).Add(m.ScrapPercentage.Div(hundred)))
}
