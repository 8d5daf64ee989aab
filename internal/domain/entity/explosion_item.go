package entity

import "github.com/shopspring/decimal"

// ExplosionItem es un renglón transitorio (no persistido) de la expansión
// recursiva de una BOM: cantidad efectiva (merma y multiplicadores aplicados),
// profundidad en el grafo y si el nodo es hoja (sin aristas salientes).
type ExplosionItem struct {
	ProductID       string
	SKU             string
	Name            string
	Quantity        decimal.Decimal
	Unit            string
	Depth           int
	IsLeaf          bool
	ParentProductID string
}
