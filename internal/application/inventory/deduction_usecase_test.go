package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Fabrica-api/internal/application/inventory"
	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/pkg/logger"
)

func newDeductionUC(s *fakeStore, notifier *fakeNotifier) *inventory.DeductionUseCase {
	if notifier == nil {
		notifier = &fakeNotifier{}
	}
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	return inventory.NewDeductionUseCase(&fakeTxRunner{s}, &fakeProductRepo{s}, notifier, log)
}

// Armado común: silla = 4 patas + 1 asiento.
func seedChairTree(s *fakeStore) {
	s.addProduct("silla", "SILLA-01", 0, 0)
	s.addProduct("pata", "PATA-01", 0, 0)
	s.addProduct("asiento", "ASIENTO-01", 0, 0)
	s.addEdge("silla", "pata", 4, 0)
	s.addEdge("silla", "asiento", 1, 0)
}

func TestDeductRecursive_Exitoso(t *testing.T) {
	s := newFakeStore()
	seedChairTree(s)
	s.setStock("silla", "", "bodega-1", 10, 0)
	s.setStock("pata", "", "bodega-1", 20, 3) // 3 reservadas: deben liberarse al consumir
	s.setStock("asiento", "", "bodega-1", 8, 0)

	uc := newDeductionUC(s, nil)
	res, err := uc.DeductRecursive(context.Background(), inventory.DeductInput{
		ProductID:   "silla",
		WarehouseID: "bodega-1",
		Quantity:    decimal.NewFromInt(2),
		ReferenceID: "venta-99",
		ActorID:     "user-1",
	})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Empty(t, res.Shortages)
	assert.Equal(t, 3, res.TotalMovements)
	require.Len(t, res.Deductions, 3)

	// Padre primero con su bandera.
	assert.Equal(t, "silla", res.Deductions[0].ProductID)
	assert.True(t, res.Deductions[0].IsParent)

	assert.True(t, s.stock("silla", "", "bodega-1").Quantity.Equal(decimal.NewFromInt(8)))
	pata := s.stock("pata", "", "bodega-1")
	assert.True(t, pata.Quantity.Equal(decimal.NewFromInt(12))) // 20 - 8
	// Reserva liberada por min(reservado=3, requerido=8) = 3.
	assert.True(t, pata.ReservedQuantity.Equal(decimal.Zero))
	assert.True(t, s.stock("asiento", "", "bodega-1").Quantity.Equal(decimal.NewFromInt(6)))

	// Los tres movimientos son OUT con cantidad negativa y la misma referencia.
	require.Len(t, s.movements, 3)
	for _, m := range s.movements {
		assert.Equal(t, entity.MovementTypeOUT, m.Type)
		assert.True(t, m.Quantity.LessThan(decimal.Zero))
		assert.Equal(t, "venta-99", m.Reference)
		assert.Equal(t, "user-1", m.CreatedBy)
	}
}

func TestDeductRecursive_FaltanteNoMutaNada(t *testing.T) {
	s := newFakeStore()
	seedChairTree(s)
	// Descontar 5 sillas exige 20 patas y 5 asientos; las patas no alcanzan.
	s.setStock("silla", "", "bodega-1", 10, 0)
	s.setStock("pata", "", "bodega-1", 18, 0)
	s.setStock("asiento", "", "bodega-1", 5, 0)

	uc := newDeductionUC(s, nil)
	res, err := uc.DeductRecursive(context.Background(), inventory.DeductInput{
		ProductID:   "silla",
		WarehouseID: "bodega-1",
		Quantity:    decimal.NewFromInt(5),
	})
	// El faltante es un resultado de negocio, no un error de transporte.
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Empty(t, res.Deductions)
	assert.Zero(t, res.TotalMovements)
	require.Len(t, res.Shortages, 1)
	short := res.Shortages[0]
	assert.Equal(t, "pata", short.ProductID)
	assert.True(t, short.Required.Equal(decimal.NewFromInt(20)))
	assert.True(t, short.Available.Equal(decimal.NewFromInt(18)))
	assert.True(t, short.Shortage.Equal(decimal.NewFromInt(2)))

	// Cero mutación: todo queda como estaba.
	assert.True(t, s.stock("silla", "", "bodega-1").Quantity.Equal(decimal.NewFromInt(10)))
	assert.True(t, s.stock("pata", "", "bodega-1").Quantity.Equal(decimal.NewFromInt(18)))
	assert.True(t, s.stock("asiento", "", "bodega-1").Quantity.Equal(decimal.NewFromInt(5)))
	assert.Empty(t, s.movements)
}

func TestDeductRecursive_ListaCompletaDeFaltantes(t *testing.T) {
	s := newFakeStore()
	seedChairTree(s)
	s.setStock("silla", "", "bodega-1", 10, 0)
	// Ni patas ni asientos alcanzan: ambos deben reportarse, sin fail-fast.
	s.setStock("pata", "", "bodega-1", 2, 0)
	s.setStock("asiento", "", "bodega-1", 1, 0)

	uc := newDeductionUC(s, nil)
	res, err := uc.DeductRecursive(context.Background(), inventory.DeductInput{
		ProductID:   "silla",
		WarehouseID: "bodega-1",
		Quantity:    decimal.NewFromInt(3),
	})
	require.NoError(t, err)
	assert.False(t, res.Success)
	require.Len(t, res.Shortages, 2)
}

func TestDeductRecursive_ReservaCuentaComoNoDisponible(t *testing.T) {
	s := newFakeStore()
	s.addProduct("tornillo", "TORN-01", 0, 0)
	// 10 en existencia pero 8 reservadas: solo 2 disponibles.
	s.setStock("tornillo", "", "bodega-1", 10, 8)

	uc := newDeductionUC(s, nil)
	res, err := uc.DeductRecursive(context.Background(), inventory.DeductInput{
		ProductID:   "tornillo",
		WarehouseID: "bodega-1",
		Quantity:    decimal.NewFromInt(5),
	})
	require.NoError(t, err)
	assert.False(t, res.Success)
	require.Len(t, res.Shortages, 1)
	assert.True(t, res.Shortages[0].Available.Equal(decimal.NewFromInt(2)))
}

func TestDeductRecursive_ProductoSinBom(t *testing.T) {
	s := newFakeStore()
	s.addProduct("tornillo", "TORN-01", 0, 0)
	s.setStock("tornillo", "", "bodega-1", 10, 0)

	uc := newDeductionUC(s, nil)
	res, err := uc.DeductRecursive(context.Background(), inventory.DeductInput{
		ProductID:   "tornillo",
		WarehouseID: "bodega-1",
		Quantity:    decimal.NewFromInt(4),
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.TotalMovements)
	assert.True(t, s.stock("tornillo", "", "bodega-1").Quantity.Equal(decimal.NewFromInt(6)))
}

func TestDeductRecursive_ProductoInexistente(t *testing.T) {
	uc := newDeductionUC(newFakeStore(), nil)
	_, err := uc.DeductRecursive(context.Background(), inventory.DeductInput{
		ProductID:   "fantasma",
		WarehouseID: "bodega-1",
		Quantity:    decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeductRecursive_EntradaInvalida(t *testing.T) {
	uc := newDeductionUC(newFakeStore(), nil)
	_, err := uc.DeductRecursive(context.Background(), inventory.DeductInput{
		ProductID:   "silla",
		WarehouseID: "bodega-1",
		Quantity:    decimal.Zero,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDeductRecursive_CicloAbortaTransaccion(t *testing.T) {
	s := newFakeStore()
	s.addProduct("a", "A-01", 0, 0)
	s.addProduct("b", "B-01", 0, 0)
	s.addEdge("a", "b", 1, 0)
	s.addEdge("b", "a", 1, 0)
	s.setStock("a", "", "bodega-1", 10, 0)
	s.setStock("b", "", "bodega-1", 10, 0)

	uc := newDeductionUC(s, nil)
	res, err := uc.DeductRecursive(context.Background(), inventory.DeductInput{
		ProductID:   "a",
		WarehouseID: "bodega-1",
		Quantity:    decimal.NewFromInt(1),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCycleDetected)
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Errors)
	assert.True(t, s.stock("a", "", "bodega-1").Quantity.Equal(decimal.NewFromInt(10)))
	assert.Empty(t, s.movements)
}

func TestDeductRecursive_AlertaStockBajoPostCommit(t *testing.T) {
	s := newFakeStore()
	s.addProduct("tornillo", "TORN-01", 5, 0) // mínimo 5
	s.setStock("tornillo", "", "bodega-1", 8, 0)

	notifier := &fakeNotifier{}
	uc := newDeductionUC(s, notifier)
	res, err := uc.DeductRecursive(context.Background(), inventory.DeductInput{
		ProductID:   "tornillo",
		WarehouseID: "bodega-1",
		Quantity:    decimal.NewFromInt(4), // queda en 4, bajo el mínimo
	})
	require.NoError(t, err)
	require.True(t, res.Success)

	// La señal es asíncrona y desacoplada del resultado.
	assert.Eventually(t, func() bool { return notifier.count() == 1 }, time.Second, 5*time.Millisecond)
}
