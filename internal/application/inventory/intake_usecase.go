package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/costing"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
)

// IntakeUseCase registra entradas y ajustes de inventario de forma
// transaccional, con bloqueo de fila y costo promedio ponderado en entradas.
type IntakeUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
}

// NewIntakeUseCase construye el caso de uso.
func NewIntakeUseCase(txRunner TxRunner, productRepo repository.ProductRepository) *IntakeUseCase {
	return &IntakeUseCase{txRunner: txRunner, productRepo: productRepo}
}

// RegisterIntake valida y aplica una entrada (in) o un ajuste (adjustment).
// Las entradas exigen UnitCost y recalculan el costo promedio del producto;
// los ajustes negativos exigen existencia suficiente.
func (uc *IntakeUseCase) RegisterIntake(ctx context.Context, actorID string, in dto.RegisterIntakeRequest) error {
	switch in.Type {
	case entity.MovementTypeIN:
		if in.ProductID == "" || in.WarehouseID == "" || !in.Quantity.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
		if in.UnitCost == nil || in.UnitCost.LessThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	case entity.MovementTypeADJUSTMENT:
		if in.ProductID == "" || in.WarehouseID == "" || in.Quantity.IsZero() {
			return domain.ErrInvalidInput
		}
	default:
		return domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}

	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
		_ repository.BomEdgeRepository,
	) error {
		stock, err := stockRepo.GetForUpdate(in.ProductID, in.VariantID, in.WarehouseID)
		if err != nil {
			return err
		}

		if in.Quantity.GreaterThan(decimal.Zero) {
			if in.Type == entity.MovementTypeIN {
				newCost := costing.WeightedAverage(stock.Quantity, product.Cost, in.Quantity, *in.UnitCost)
				if err := productRepo.UpdateCost(in.ProductID, newCost); err != nil {
					return err
				}
			}
			stock.Quantity = stock.Quantity.Add(in.Quantity)
		} else {
			outQty := in.Quantity.Neg()
			if stock.Quantity.LessThan(outQty) {
				return domain.ErrInsufficientStock
			}
			stock.Quantity = stock.Quantity.Sub(outQty)
			// Mantiene el invariante reserved <= quantity tras un ajuste negativo.
			if stock.ReservedQuantity.GreaterThan(stock.Quantity) {
				stock.ReservedQuantity = stock.Quantity
			}
		}
		stock.UpdatedAt = now
		if err := stockRepo.Upsert(stock); err != nil {
			return err
		}

		return movRepo.Create(&entity.StockMovement{
			ID:          uuid.New().String(),
			ProductID:   in.ProductID,
			VariantID:   in.VariantID,
			WarehouseID: in.WarehouseID,
			Type:        in.Type,
			Quantity:    in.Quantity,
			Reference:   in.Reference,
			Notes:       in.Notes,
			CreatedAt:   now,
			CreatedBy:   actorID,
		})
	})
}
