package costing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Fabrica-api/internal/domain/costing"
)

// TestWeightedAverage_VectorExacto valida el promedio ponderado con valores
// conocidos: (10 und a $10 + 5 und a $16) / 15 und = $12 exactos.
func TestWeightedAverage_VectorExacto(t *testing.T) {
	got := costing.WeightedAverage(
		decimal.NewFromInt(10), decimal.NewFromInt(10),
		decimal.NewFromInt(5), decimal.NewFromInt(16),
	)
	assert.True(t, got.Equal(decimal.NewFromInt(12)),
		"esperaba 12, obtuve %s", got)
}

func TestWeightedAverage_SinStockPrevio(t *testing.T) {
	// Con stock cero el costo promedio es el costo de la entrada.
	got := costing.WeightedAverage(
		decimal.Zero, decimal.Zero,
		decimal.NewFromInt(7), decimal.NewFromFloat(3.5),
	)
	assert.True(t, got.Equal(decimal.NewFromFloat(3.5)))
}

func TestWeightedAverage_SumaNoPositiva(t *testing.T) {
	// Stock negativo por ajustes que anula la entrada: no hay base para promediar.
	got := costing.WeightedAverage(
		decimal.NewFromInt(-5), decimal.NewFromInt(10),
		decimal.NewFromInt(5), decimal.NewFromInt(20),
	)
	assert.True(t, got.Equal(decimal.Zero))
}

func TestWeightedAverage_PreservaPrecisionDecimal(t *testing.T) {
	// 3 und a $1.10 + 1 und a $2.50 = $5.80 / 4 = $1.45
	got := costing.WeightedAverage(
		decimal.NewFromInt(3), decimal.NewFromFloat(1.10),
		decimal.NewFromInt(1), decimal.NewFromFloat(2.50),
	)
	assert.True(t, got.Equal(decimal.NewFromFloat(1.45)),
		"esperaba 1.45, obtuve %s", got)
}
