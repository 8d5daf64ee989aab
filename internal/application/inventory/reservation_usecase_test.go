package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/application/inventory"
	"github.com/jhoicas/Fabrica-api/internal/domain"
)

func TestReserve_IncrementaReservaSinTocarExistencia(t *testing.T) {
	s := newFakeStore()
	s.addProduct("pata", "PATA-01", 0, 0)
	s.setStock("pata", "", "bodega-1", 10, 2)

	uc := inventory.NewReservationUseCase(&fakeTxRunner{s})
	res, err := uc.Reserve(context.Background(), dto.ReserveRequest{
		ProductID:   "pata",
		WarehouseID: "bodega-1",
		Quantity:    decimal.NewFromInt(3),
	})
	require.NoError(t, err)

	assert.True(t, res.ReservedQuantity.Equal(decimal.NewFromInt(5)))
	assert.True(t, res.Available.Equal(decimal.NewFromInt(5)))

	rec := s.stock("pata", "", "bodega-1")
	assert.True(t, rec.Quantity.Equal(decimal.NewFromInt(10)))
	assert.True(t, rec.ReservedQuantity.Equal(decimal.NewFromInt(5)))
	// La reserva es consultiva: no deja movimiento de auditoría.
	assert.Empty(t, s.movements)
}

func TestReserve_SinDisponibilidad(t *testing.T) {
	s := newFakeStore()
	s.addProduct("pata", "PATA-01", 0, 0)
	s.setStock("pata", "", "bodega-1", 10, 8)

	uc := inventory.NewReservationUseCase(&fakeTxRunner{s})
	_, err := uc.Reserve(context.Background(), dto.ReserveRequest{
		ProductID:   "pata",
		WarehouseID: "bodega-1",
		Quantity:    decimal.NewFromInt(3),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	rec := s.stock("pata", "", "bodega-1")
	assert.True(t, rec.ReservedQuantity.Equal(decimal.NewFromInt(8)))
}

func TestRelease_IdaYVuelta(t *testing.T) {
	s := newFakeStore()
	s.addProduct("pata", "PATA-01", 0, 0)
	s.setStock("pata", "", "bodega-1", 10, 0)

	uc := inventory.NewReservationUseCase(&fakeTxRunner{s})
	_, err := uc.Reserve(context.Background(), dto.ReserveRequest{
		ProductID: "pata", WarehouseID: "bodega-1", Quantity: decimal.NewFromInt(4),
	})
	require.NoError(t, err)
	res, err := uc.Release(context.Background(), dto.ReserveRequest{
		ProductID: "pata", WarehouseID: "bodega-1", Quantity: decimal.NewFromInt(4),
	})
	require.NoError(t, err)
	assert.True(t, res.ReservedQuantity.Equal(decimal.Zero))
	assert.True(t, res.Available.Equal(decimal.NewFromInt(10)))
}

func TestRelease_SobreLiberacionQuedaEnCero(t *testing.T) {
	s := newFakeStore()
	s.addProduct("pata", "PATA-01", 0, 0)
	s.setStock("pata", "", "bodega-1", 10, 2)

	uc := inventory.NewReservationUseCase(&fakeTxRunner{s})
	res, err := uc.Release(context.Background(), dto.ReserveRequest{
		ProductID: "pata", WarehouseID: "bodega-1", Quantity: decimal.NewFromInt(50),
	})
	require.NoError(t, err)
	assert.True(t, res.ReservedQuantity.Equal(decimal.Zero))
	assert.True(t, s.stock("pata", "", "bodega-1").ReservedQuantity.Equal(decimal.Zero))
}

func TestReserve_EntradaInvalida(t *testing.T) {
	uc := inventory.NewReservationUseCase(&fakeTxRunner{newFakeStore()})
	_, err := uc.Reserve(context.Background(), dto.ReserveRequest{
		ProductID: "", WarehouseID: "bodega-1", Quantity: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Reserve(context.Background(), dto.ReserveRequest{
		ProductID: "pata", WarehouseID: "bodega-1", Quantity: decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReserveBatch_LineasIndependientes(t *testing.T) {
	s := newFakeStore()
	s.addProduct("pata", "PATA-01", 0, 0)
	s.addProduct("asiento", "ASIENTO-01", 0, 0)
	s.setStock("pata", "", "bodega-1", 10, 0)
	s.setStock("asiento", "", "bodega-1", 1, 0)

	uc := inventory.NewReservationUseCase(&fakeTxRunner{s})
	out := uc.ReserveBatch(context.Background(), dto.ReserveBatchRequest{
		Lines: []dto.ReserveRequest{
			{ProductID: "pata", WarehouseID: "bodega-1", Quantity: decimal.NewFromInt(4)},
			{ProductID: "asiento", WarehouseID: "bodega-1", Quantity: decimal.NewFromInt(5)}, // falla
			{ProductID: "pata", WarehouseID: "bodega-1", Quantity: decimal.NewFromInt(2)},
		},
	})

	// El lote NO es atómico: la línea fallida no arrastra a las demás.
	require.Len(t, out.Success, 2)
	require.Len(t, out.Errors, 1)
	assert.Equal(t, "asiento", out.Errors[0].ProductID)
	assert.True(t, s.stock("pata", "", "bodega-1").ReservedQuantity.Equal(decimal.NewFromInt(6)))
	assert.True(t, s.stock("asiento", "", "bodega-1").ReservedQuantity.Equal(decimal.Zero))
}
