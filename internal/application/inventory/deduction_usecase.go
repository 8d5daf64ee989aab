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
	"github.com/jhoicas/Fabrica-api/pkg/logger"
)

// DeductInput parámetros del descuento recursivo.
type DeductInput struct {
	ProductID   string
	VariantID   string
	WarehouseID string
	Quantity    decimal.Decimal
	ReferenceID string
	ActorID     string
}

// requiredItem ítem a descontar: el producto raíz (IsParent) o una hoja BOM.
type requiredItem struct {
	ProductID string
	SKU       string
	VariantID string
	Required  decimal.Decimal
	IsParent  bool
	Notes     string
}

// DeductionUseCase descuenta de forma atómica el producto despachado más todos
// sus componentes hoja: una sola transacción valida-todo-luego-muta, con un
// movimiento OUT de auditoría por ítem y señal de stock bajo post-commit.
type DeductionUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository // atado al pool: resolución previa y alertas post-commit
	notifier    AlertNotifier
	log         *logger.Logger
}

// NewDeductionUseCase construye el motor de descuento.
func NewDeductionUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	notifier AlertNotifier,
	log *logger.Logger,
) *DeductionUseCase {
	return &DeductionUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		notifier:    notifier,
		log:         log,
	}
}

// DeductRecursive ejecuta el descuento todo-o-nada. Con faltantes devuelve
// Success=false y la lista COMPLETA (sin fail-fast) con cero mutación; los
// errores inesperados de almacenamiento abortan la transacción entera.
func (uc *DeductionUseCase) DeductRecursive(ctx context.Context, in DeductInput) (*dto.DeductionResultDTO, error) {
	if in.ProductID == "" || in.WarehouseID == "" || !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	result := &dto.DeductionResultDTO{}
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
		bomRepo repository.BomEdgeRepository,
	) error {
		// La expansión se lee dentro de la misma tx para no actuar sobre un
		// grafo desactualizado a mitad de la mutación.
		exploder := bom.NewExploder(bomRepo, productRepo)
		leaves, err := exploder.AggregateLeafRequirements(in.ProductID, in.Quantity)
		if err != nil {
			return err
		}

		// Padre primero, luego hojas agregadas en orden estable.
		items := make([]requiredItem, 0, len(leaves)+1)
		items = append(items, requiredItem{
			ProductID: product.ID,
			SKU:       product.SKU,
			VariantID: in.VariantID,
			Required:  in.Quantity,
			IsParent:  true,
			Notes:     "salida por despacho",
		})
		for _, leaf := range leaves {
			items = append(items, requiredItem{
				ProductID: leaf.ProductID,
				SKU:       leaf.SKU,
				Required:  leaf.Quantity,
				Notes:     fmt.Sprintf("componente BOM de %s", product.SKU),
			})
		}

		// Fase de validación: revisar TODOS los ítems para reportar la lista
		// completa de faltantes, nunca solo el primero.
		locked := make([]*entity.StockRecord, len(items))
		for i, item := range items {
			stock, err := stockRepo.GetForUpdate(item.ProductID, item.VariantID, in.WarehouseID)
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

		// Fase de mutación: descuenta, libera la reserva que cubría el ítem y
		// escribe un movimiento OUT por cada uno.
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
				WarehouseID: in.WarehouseID,
				Type:        entity.MovementTypeOUT,
				Quantity:    item.Required.Neg(),
				Reference:   in.ReferenceID,
				Notes:       item.Notes,
				CreatedAt:   now,
				CreatedBy:   in.ActorID,
			}); err != nil {
				return err
			}
			result.Deductions = append(result.Deductions, dto.DeductionLineDTO{
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
		return nil
	})

	if err != nil {
		result.Success = false
		result.Deductions = nil
		result.TotalMovements = 0
		if errors.Is(err, domain.ErrInsufficientStock) {
			return result, nil
		}
		if len(result.Shortages) == 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("descuento de %s: %v", in.ProductID, err))
		}
		return result, err
	}

	result.Success = true
	uc.notifyLowStockAsync(result.Deductions, in.WarehouseID)
	return result, nil
}

// notifyLowStockAsync evalúa umbrales de reorden tras el commit, en una
// goroutine desacoplada: sus errores se registran y nunca convierten un
// descuento confirmado en fallo reportado.
func (uc *DeductionUseCase) notifyLowStockAsync(lines []dto.DeductionLineDTO, warehouseID string) {
	deductions := make([]dto.DeductionLineDTO, len(lines))
	copy(deductions, lines)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				uc.log.Error().Interface("panic", r).Msg("pánico en evaluación de stock bajo post-descuento")
			}
		}()
		for _, line := range deductions {
			product, err := uc.productRepo.GetByID(line.ProductID)
			if err != nil || product == nil {
				uc.log.Warn().Str("product_id", line.ProductID).Err(err).Msg("no se pudo evaluar umbral de stock")
				continue
			}
			belowMin := product.MinStockLevel.GreaterThan(decimal.Zero) && line.NewQuantity.LessThan(product.MinStockLevel)
			belowReorder := product.ReorderPoint.GreaterThan(decimal.Zero) && line.NewQuantity.LessThanOrEqual(product.ReorderPoint)
			if belowMin || belowReorder {
				uc.notifier.NotifyLowStock(product, warehouseID, line.NewQuantity)
			}
		}
	}()
}
