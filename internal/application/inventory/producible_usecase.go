package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/bom"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
)

// ProducibleUseCase calcula la cantidad máxima producible de un producto dada
// la existencia actual (análisis de cuello de botella).
type ProducibleUseCase struct {
	productRepo  repository.ProductRepository
	bomRepo      repository.BomEdgeRepository
	stockRepo    repository.StockRepository
	materialRepo repository.MaterialRepository
}

// NewProducibleUseCase construye el caso de uso (repos atados al pool: ruta de
// consulta pura, sin mutaciones).
func NewProducibleUseCase(
	productRepo repository.ProductRepository,
	bomRepo repository.BomEdgeRepository,
	stockRepo repository.StockRepository,
	materialRepo repository.MaterialRepository,
) *ProducibleUseCase {
	return &ProducibleUseCase{
		productRepo:  productRepo,
		bomRepo:      bomRepo,
		stockRepo:    stockRepo,
		materialRepo: materialRepo,
	}
}

// CalculateProducible expande la BOM a 1 unidad, agrega por hoja y calcula
// floor(disponible/requerido) por componente; el mínimo es la cantidad
// producible y los componentes que lo alcanzan quedan marcados como cuello de
// botella. Sin aristas BOM se usan los materiales planos de fase (hasBom=false);
// cuando existen ambos, la BOM tiene precedencia y los materiales se ignoran.
func (uc *ProducibleUseCase) CalculateProducible(ctx context.Context, productID, warehouseID string) (*dto.ProducibleResultDTO, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	edges, err := uc.bomRepo.ListByParent(productID)
	if err != nil {
		return nil, err
	}
	hasBom := len(edges) > 0

	var requirements []bom.LeafRequirement
	if hasBom {
		exploder := bom.NewExploder(uc.bomRepo, uc.productRepo)
		requirements, err = exploder.AggregateLeafRequirements(productID, decimal.NewFromInt(1))
		if err != nil {
			return nil, err
		}
	} else {
		materials, err := uc.materialRepo.ListByProduct(productID)
		if err != nil {
			return nil, err
		}
		requirements = aggregateMaterials(materials)
	}

	result := &dto.ProducibleResultDTO{
		ProductID:           productID,
		HasBom:              hasBom,
		TotalComponentTypes: len(requirements),
		LimitingComponents:  make([]dto.ComponentProducibleDTO, 0, len(requirements)),
	}
	if len(requirements) == 0 {
		return result, nil
	}

	minUnits := int64(-1)
	for _, req := range requirements {
		if !req.Quantity.GreaterThan(decimal.Zero) {
			continue
		}
		stock, err := uc.stockRepo.Get(req.ProductID, "", warehouseID)
		if err != nil {
			return nil, err
		}
		available := stock.Available()
		maxUnits := available.Div(req.Quantity).Floor().IntPart()
		result.LimitingComponents = append(result.LimitingComponents, dto.ComponentProducibleDTO{
			ProductID:       req.ProductID,
			SKU:             req.SKU,
			Name:            req.Name,
			RequiredPerUnit: req.Quantity,
			Available:       available,
			MaxUnits:        maxUnits,
		})
		if minUnits < 0 || maxUnits < minUnits {
			minUnits = maxUnits
		}
	}
	if minUnits < 0 {
		minUnits = 0
	}
	result.ProducibleQuantity = minUnits

	for i := range result.LimitingComponents {
		if result.LimitingComponents[i].MaxUnits == minUnits {
			result.LimitingComponents[i].IsBottleneck = true
		}
	}
	// Cuellos de botella primero: orden ascendente por unidades máximas.
	sort.SliceStable(result.LimitingComponents, func(i, j int) bool {
		a, b := result.LimitingComponents[i], result.LimitingComponents[j]
		if a.MaxUnits != b.MaxUnits {
			return a.MaxUnits < b.MaxUnits
		}
		return a.ProductID < b.ProductID
	})
	return result, nil
}

// CalculateProducibleBatch calcula el producible de varios productos con
// aislamiento por ID: el fallo de uno produce 0 para ese ID sin abortar el lote.
func (uc *ProducibleUseCase) CalculateProducibleBatch(ctx context.Context, productIDs []string, warehouseID string) map[string]dto.ProducibleResultDTO {
	results := make(map[string]dto.ProducibleResultDTO, len(productIDs))
	for _, id := range productIDs {
		res, err := uc.CalculateProducible(ctx, id, warehouseID)
		if err != nil {
			results[id] = dto.ProducibleResultDTO{
				ProductID:          id,
				ProducibleQuantity: 0,
				Error:              err.Error(),
			}
			continue
		}
		results[id] = *res
	}
	return results
}

// aggregateMaterials suma materiales planos repetidos por ID con merma aplicada.
func aggregateMaterials(materials []*entity.PhaseMaterial) []bom.LeafRequirement {
	byID := make(map[string]*bom.LeafRequirement)
	order := make([]string, 0, len(materials))
	for _, m := range materials {
		effective := m.EffectiveQuantity()
		if existing, ok := byID[m.MaterialID]; ok {
			existing.Quantity = existing.Quantity.Add(effective)
			continue
		}
		byID[m.MaterialID] = &bom.LeafRequirement{
			ProductID: m.MaterialID,
			SKU:       m.SKU,
			Name:      m.Name,
			Unit:      m.Unit,
			Quantity:  effective,
		}
		order = append(order, m.MaterialID)
	}
	out := make([]bom.LeafRequirement, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out
}
