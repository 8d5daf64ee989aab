package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/bom"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
)

// AllocationUseCase asignación atómica de inventario a nivel de orden: a
// diferencia del batch de reservas, aquí se decrementa existencia real, así que
// TODAS las líneas (y su cascada BOM por línea) se validan y mutan en una sola
// transacción, o ninguna.
type AllocationUseCase struct {
	txRunner OrderTxRunner
}

// NewAllocationUseCase construye el caso de uso.
func NewAllocationUseCase(txRunner OrderTxRunner) *AllocationUseCase {
	return &AllocationUseCase{txRunner: txRunner}
}

// allocKey identifica una fila de stock tocada por la orden.
type allocKey struct {
	productID string
	variantID string
}

// AllocateForOrder descuenta existencia para cada línea de la orden más la
// cascada BOM de esa línea, todo-o-nada. Cualquier producto ausente o faltante
// aborta la transacción completa con la lista exhaustiva de faltantes.
func (uc *AllocationUseCase) AllocateForOrder(ctx context.Context, orderID, actorID string) (*dto.AllocationResultDTO, error) {
	if orderID == "" {
		return nil, domain.ErrInvalidInput
	}
	result := &dto.AllocationResultDTO{OrderID: orderID}
	err := uc.txRunner.RunOrder(ctx, func(
		movRepo repository.StockMovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
		bomRepo repository.BomEdgeRepository,
		orderRepo repository.OrderRepository,
	) error {
		order, err := orderRepo.GetByID(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status == entity.OrderStatusAllocated {
			return domain.ErrConflict
		}

		items, err := buildOrderItems(order, bomRepo, productRepo)
		if err != nil {
			return err
		}

		// Validar todo antes de decidir; la lista de faltantes debe ser completa.
		locked := make([]*entity.StockRecord, len(items))
		for i, item := range items {
			stock, err := stockRepo.GetForUpdate(item.ProductID, item.VariantID, order.WarehouseID)
			if err != nil {
				return err
			}
			locked[i] = stock
			available := stock.Available()
			if available.LessThan(item.Required) {
				result.Shortages = append(result.Shortages, dto.ShortageDTO{
					ProductID: item.ProductID,
					SKU:       item.SKU,
					Required:  item.Required,
					Available: available,
					Shortage:  item.Required.Sub(available),
				})
			}
		}
		if len(result.Shortages) > 0 {
			return domain.ErrInsufficientStock
		}

		now := time.Now()
		for i, item := range items {
			stock := locked[i]
			prevQty := stock.Quantity
			prevReserved := stock.ReservedQuantity
			release := decimal.Min(stock.ReservedQuantity, item.Required)

			stock.Quantity = stock.Quantity.Sub(item.Required)
			stock.ReservedQuantity = stock.ReservedQuantity.Sub(release)
			stock.UpdatedAt = now
			if err := stockRepo.Upsert(stock); err != nil {
				return err
			}
			if err := movRepo.Create(&entity.StockMovement{
				ID:          uuid.New().String(),
				ProductID:   item.ProductID,
				VariantID:   item.VariantID,
				WarehouseID: order.WarehouseID,
				Type:        entity.MovementTypeOUT,
				Quantity:    item.Required.Neg(),
				Reference:   order.ID,
				Notes:       item.Notes,
				CreatedAt:   now,
				CreatedBy:   actorID,
			}); err != nil {
				return err
			}
			result.Lines = append(result.Lines, dto.DeductionLineDTO{
				ProductID:        item.ProductID,
				SKU:              item.SKU,
				IsParent:         item.IsParent,
				Required:         item.Required,
				PreviousQuantity: prevQty,
				NewQuantity:      stock.Quantity,
				PreviousReserved: prevReserved,
				NewReserved:      stock.ReservedQuantity,
			})
			result.TotalMovements++
		}
		return orderRepo.UpdateStatus(order.ID, entity.OrderStatusAllocated)
	})

	if err != nil {
		result.Success = false
		result.Lines = nil
		result.TotalMovements = 0
		if errors.Is(err, domain.ErrInsufficientStock) {
			return result, nil
		}
		return result, err
	}
	result.Success = true
	return result, nil
}

// ReleaseForOrder restaura en una sola transacción lo asignado a la orden:
// re-incrementa existencias de cada línea y revierte su cascada BOM, con
// movimientos RETURN como rastro.
func (uc *AllocationUseCase) ReleaseForOrder(ctx context.Context, orderID, actorID string) (*dto.AllocationResultDTO, error) {
	if orderID == "" {
		return nil, domain.ErrInvalidInput
	}
	result := &dto.AllocationResultDTO{OrderID: orderID}
	err := uc.txRunner.RunOrder(ctx, func(
		movRepo repository.StockMovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
		bomRepo repository.BomEdgeRepository,
		orderRepo repository.OrderRepository,
	) error {
		order, err := orderRepo.GetByID(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status != entity.OrderStatusAllocated {
			return domain.ErrConflict
		}

		items, err := buildOrderItems(order, bomRepo, productRepo)
		if err != nil {
			return err
		}

		now := time.Now()
		for _, item := range items {
			stock, err := stockRepo.GetForUpdate(item.ProductID, item.VariantID, order.WarehouseID)
			if err != nil {
				return err
			}
			prevQty := stock.Quantity
			stock.Quantity = stock.Quantity.Add(item.Required)
			stock.UpdatedAt = now
			if err := stockRepo.Upsert(stock); err != nil {
				return err
			}
			if err := movRepo.Create(&entity.StockMovement{
				ID:          uuid.New().String(),
				ProductID:   item.ProductID,
				VariantID:   item.VariantID,
				WarehouseID: order.WarehouseID,
				Type:        entity.MovementTypeRETURN,
				Quantity:    item.Required,
				Reference:   order.ID,
				Notes:       "reversa por cancelación de orden",
				CreatedAt:   now,
				CreatedBy:   actorID,
			}); err != nil {
				return err
			}
			result.Lines = append(result.Lines, dto.DeductionLineDTO{
				ProductID:        item.ProductID,
				SKU:              item.SKU,
				IsParent:         item.IsParent,
				Required:         item.Required,
				PreviousQuantity: prevQty,
				NewQuantity:      stock.Quantity,
				PreviousReserved: stock.ReservedQuantity,
				NewReserved:      stock.ReservedQuantity,
			})
			result.TotalMovements++
		}
		return orderRepo.UpdateStatus(order.ID, entity.OrderStatusCancelled)
	})

	if err != nil {
		result.Success = false
		result.Lines = nil
		result.TotalMovements = 0
		return result, err
	}
	result.Success = true
	return result, nil
}

// buildOrderItems arma los ítems a mutar: por cada línea su producto (IsParent)
// más la cascada BOM agregada para esa línea; las filas de stock repetidas
// entre líneas se fusionan para validar el requerimiento combinado.
func buildOrderItems(
	order *entity.Order,
	bomRepo repository.BomEdgeRepository,
	productRepo repository.ProductRepository,
) ([]requiredItem, error) {
	exploder := bom.NewExploder(bomRepo, productRepo)
	var items []requiredItem
	index := make(map[allocKey]int)

	add := func(item requiredItem) {
		key := allocKey{productID: item.ProductID, variantID: item.VariantID}
		if i, ok := index[key]; ok {
			items[i].Required = items[i].Required.Add(item.Required)
			items[i].IsParent = items[i].IsParent || item.IsParent
			return
		}
		index[key] = len(items)
		items = append(items, item)
	}

	for _, line := range order.Items {
		if !line.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product, err := productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("producto %s de la orden %s: %w", line.ProductID, order.ID, domain.ErrNotFound)
		}
		add(requiredItem{
			ProductID: line.ProductID,
			SKU:       product.SKU,
			VariantID: line.VariantID,
			Required:  line.Quantity,
			IsParent:  true,
			Notes:     "asignación de orden",
		})

		leaves, err := exploder.AggregateLeafRequirements(line.ProductID, line.Quantity)
		if err != nil {
			return nil, err
		}
		for _, leaf := range leaves {
			add(requiredItem{
				ProductID: leaf.ProductID,
				SKU:       leaf.SKU,
				Required:  leaf.Quantity,
				Notes:     fmt.Sprintf("consumo BOM de %s", product.SKU),
			})
		}
	}
	return items, nil
}
