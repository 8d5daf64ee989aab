package inventory

import (
	"context"
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

// BomUseCase expone la expansión de la BOM y el mantenimiento de aristas con
// verificación de aciclicidad antes de cada inserción.
type BomUseCase struct {
	productRepo repository.ProductRepository
	bomRepo     repository.BomEdgeRepository
	exploder    *bom.Exploder
}

// NewBomUseCase construye el caso de uso sobre repos atados al pool: las rutas
// de consulta pura pueden leer el grafo fuera de una transacción mutante.
func NewBomUseCase(productRepo repository.ProductRepository, bomRepo repository.BomEdgeRepository) *BomUseCase {
	return &BomUseCase{
		productRepo: productRepo,
		bomRepo:     bomRepo,
		exploder:    bom.NewExploder(bomRepo, productRepo),
	}
}

// AddEdge valida y persiste una arista padre→componente. Rechaza cantidades no
// positivas, mermas fuera de [0,100] y cualquier arista que cierre un ciclo.
func (uc *BomUseCase) AddEdge(ctx context.Context, in dto.CreateBomEdgeRequest) (*entity.BomEdge, error) {
	if in.ParentProductID == "" || in.ComponentProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.ScrapPercentage.LessThan(decimal.Zero) || in.ScrapPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return nil, domain.ErrInvalidInput
	}

	parent, err := uc.productRepo.GetByID(in.ParentProductID)
	if err != nil {
		return nil, err
	}
	component, err := uc.productRepo.GetByID(in.ComponentProductID)
	if err != nil {
		return nil, err
	}
	if parent == nil || component == nil {
		return nil, domain.ErrNotFound
	}

	ok, err := uc.exploder.ValidateNoCycle(in.ParentProductID, in.ComponentProductID)
	if err != nil {
		return nil, fmt.Errorf("validar aciclicidad: %w", err)
	}
	if !ok {
		return nil, &domain.CycleError{ProductID: in.ParentProductID}
	}

	unit := in.Unit
	if unit == "" {
		unit = component.UnitMeasure
	}
	edge := &entity.BomEdge{
		ID:                 uuid.New().String(),
		ParentProductID:    in.ParentProductID,
		ComponentProductID: in.ComponentProductID,
		Quantity:           in.Quantity,
		Unit:               unit,
		ScrapPercentage:    in.ScrapPercentage,
		CreatedAt:          time.Now(),
	}
	if err := uc.bomRepo.Create(edge); err != nil {
		return nil, err
	}
	return edge, nil
}

// Explode expande la BOM de un producto para la cantidad pedida.
func (uc *BomUseCase) Explode(ctx context.Context, productID string, quantity decimal.Decimal) ([]dto.ExplosionItemDTO, error) {
	if !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	items, err := uc.exploder.Explode(productID, quantity)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExplosionItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, dto.ExplosionItemDTO{
			ProductID:       item.ProductID,
			SKU:             item.SKU,
			Name:            item.Name,
			Quantity:        item.Quantity,
			Unit:            item.Unit,
			Depth:           item.Depth,
			IsLeaf:          item.IsLeaf,
			ParentProductID: item.ParentProductID,
		})
	}
	return out, nil
}

// AggregateLeaves suma las cantidades efectivas por hoja a través de todas las rutas.
func (uc *BomUseCase) AggregateLeaves(ctx context.Context, productID string, quantity decimal.Decimal) (map[string]decimal.Decimal, error) {
	if !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	return uc.exploder.AggregateLeaves(productID, quantity)
}

// ValidateNoCycle reporta si la arista propuesta mantendría el grafo acíclico.
func (uc *BomUseCase) ValidateNoCycle(ctx context.Context, parentID, componentID string) (bool, error) {
	if parentID == "" || componentID == "" {
		return false, domain.ErrInvalidInput
	}
	return uc.exploder.ValidateNoCycle(parentID, componentID)
}
