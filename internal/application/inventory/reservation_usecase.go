package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
)

// ReservationUseCase maneja la retención blanda de stock: RESERVED incrementa
// reservedQuantity sin tocar quantity; RELEASED la decrementa con piso en cero.
// La reserva es consultiva, no un asiento contable: el consumo real lo hace el
// motor de descuento, que libera la reserva correspondiente al mutar.
type ReservationUseCase struct {
	txRunner TxRunner
}

// NewReservationUseCase construye el caso de uso.
func NewReservationUseCase(txRunner TxRunner) *ReservationUseCase {
	return &ReservationUseCase{txRunner: txRunner}
}

// Reserve retiene quantity unidades si hay disponibilidad (available >= pedido);
// de lo contrario falla con ErrInsufficientStock sin mutar nada.
func (uc *ReservationUseCase) Reserve(ctx context.Context, in dto.ReserveRequest) (*dto.ReservationResultDTO, error) {
	if in.ProductID == "" || in.WarehouseID == "" || !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	var result *dto.ReservationResultDTO
	err := uc.txRunner.Run(ctx, func(
		_ repository.StockMovementRepository,
		stockRepo repository.StockRepository,
		_ repository.ProductRepository,
		_ repository.BomEdgeRepository,
	) error {
		stock, err := stockRepo.GetForUpdate(in.ProductID, in.VariantID, in.WarehouseID)
		if err != nil {
			return err
		}
		available := stock.Quantity.Sub(stock.ReservedQuantity)
		if available.LessThan(in.Quantity) {
			return domain.ErrInsufficientStock
		}
		stock.ReservedQuantity = stock.ReservedQuantity.Add(in.Quantity)
		stock.UpdatedAt = time.Now()
		if err := stockRepo.Upsert(stock); err != nil {
			return err
		}
		result = &dto.ReservationResultDTO{
			ProductID:        in.ProductID,
			VariantID:        in.VariantID,
			WarehouseID:      in.WarehouseID,
			Requested:        in.Quantity,
			ReservedQuantity: stock.ReservedQuantity,
			Available:        stock.Available(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Release libera hasta quantity unidades reservadas. Liberar más de lo
// reservado deja la reserva en cero (idempotente ante sobre-liberación).
func (uc *ReservationUseCase) Release(ctx context.Context, in dto.ReserveRequest) (*dto.ReservationResultDTO, error) {
	if in.ProductID == "" || in.WarehouseID == "" || !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	var result *dto.ReservationResultDTO
	err := uc.txRunner.Run(ctx, func(
		_ repository.StockMovementRepository,
		stockRepo repository.StockRepository,
		_ repository.ProductRepository,
		_ repository.BomEdgeRepository,
	) error {
		stock, err := stockRepo.GetForUpdate(in.ProductID, in.VariantID, in.WarehouseID)
		if err != nil {
			return err
		}
		release := decimal.Min(stock.ReservedQuantity, in.Quantity)
		stock.ReservedQuantity = stock.ReservedQuantity.Sub(release)
		stock.UpdatedAt = time.Now()
		if err := stockRepo.Upsert(stock); err != nil {
			return err
		}
		result = &dto.ReservationResultDTO{
			ProductID:        in.ProductID,
			VariantID:        in.VariantID,
			WarehouseID:      in.WarehouseID,
			Requested:        in.Quantity,
			ReservedQuantity: stock.ReservedQuantity,
			Available:        stock.Available(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReserveBatch reserva por línea de orden. Intencionalmente NO atómico entre
// líneas: cada línea reporta su resultado y las demás continúan.
func (uc *ReservationUseCase) ReserveBatch(ctx context.Context, in dto.ReserveBatchRequest) *dto.ReserveBatchResultDTO {
	return uc.runBatch(ctx, in, uc.Reserve)
}

// ReleaseBatch libera por línea de orden, con el mismo aislamiento por línea.
func (uc *ReservationUseCase) ReleaseBatch(ctx context.Context, in dto.ReserveBatchRequest) *dto.ReserveBatchResultDTO {
	return uc.runBatch(ctx, in, uc.Release)
}

func (uc *ReservationUseCase) runBatch(
	ctx context.Context,
	in dto.ReserveBatchRequest,
	op func(context.Context, dto.ReserveRequest) (*dto.ReservationResultDTO, error),
) *dto.ReserveBatchResultDTO {
	out := &dto.ReserveBatchResultDTO{}
	for _, line := range in.Lines {
		res, err := op(ctx, line)
		if err != nil {
			out.Errors = append(out.Errors, dto.LineErrorDTO{
				ProductID: line.ProductID,
				Message:   err.Error(),
			})
			continue
		}
		out.Success = append(out.Success, *res)
	}
	return out
}
