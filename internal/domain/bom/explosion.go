package bom

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
)

// EdgeSource es la fuente de aristas padre→componente. La satisfacen los
// adaptadores de repository.BomEdgeRepository (pool o tx).
type EdgeSource interface {
	ListByParent(parentProductID string) ([]*entity.BomEdge, error)
}

// ProductSource resuelve productos por ID para enriquecer los renglones.
type ProductSource interface {
	GetByID(id string) (*entity.Product, error)
}

// Exploder expande recursivamente la BOM de un producto en una lista plana
// ponderada por cantidades efectivas (servicio de dominio, sin estado).
type Exploder struct {
	edges    EdgeSource
	products ProductSource
}

// NewExploder construye el motor de expansión sobre las fuentes dadas.
// Para flujos que mutan stock, pasar fuentes atadas a la misma transacción.
func NewExploder(edges EdgeSource, products ProductSource) *Exploder {
	return &Exploder{edges: edges, products: products}
}

// Explode expande la BOM de productID para quantity unidades. Cada nivel
// multiplica cantidad de arista, merma y cantidad entrante. Un ciclo en la
// ruta actual produce *domain.CycleError; nunca se trunca en silencio.
func (e *Exploder) Explode(productID string, quantity decimal.Decimal) ([]entity.ExplosionItem, error) {
	root, err := e.products.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	edges, err := e.edges.ListByParent(productID)
	if err != nil {
		return nil, err
	}
	// El conjunto de visitados es por ruta: cada rama recursiva recibe su propia
	// copia, de modo que un componente repetido bajo ramas hermanas no se
	// confunda con un ciclo.
	visited := map[string]bool{productID: true}
	return e.expand(edges, quantity, 1, visited, productID)
}

func (e *Exploder) expand(
	edges []*entity.BomEdge,
	incoming decimal.Decimal,
	depth int,
	visited map[string]bool,
	parentID string,
) ([]entity.ExplosionItem, error) {
	items := make([]entity.ExplosionItem, 0, len(edges))
	for _, edge := range edges {
		componentID := edge.ComponentProductID
		if visited[componentID] {
			return nil, &domain.CycleError{ProductID: componentID}
		}
		component, err := e.products.GetByID(componentID)
		if err != nil {
			return nil, err
		}
		if component == nil {
			return nil, fmt.Errorf("componente %s: %w", componentID, domain.ErrNotFound)
		}
		childEdges, err := e.edges.ListByParent(componentID)
		if err != nil {
			return nil, err
		}

		effective := edge.EffectiveQuantity().Mul(incoming)
		unit := edge.Unit
		if unit == "" {
			unit = component.UnitMeasure
		}
		items = append(items, entity.ExplosionItem{
			ProductID:       componentID,
			SKU:             component.SKU,
			Name:            component.Name,
			Quantity:        effective,
			Unit:            unit,
			Depth:           depth,
			IsLeaf:          len(childEdges) == 0,
			ParentProductID: parentID,
		})

		if len(childEdges) > 0 {
			branch := make(map[string]bool, len(visited)+1)
			for id := range visited {
				branch[id] = true
			}
			branch[componentID] = true
			sub, err := e.expand(childEdges, effective, depth+1, branch, componentID)
			if err != nil {
				return nil, err
			}
			items = append(items, sub...)
		}
	}
	return items, nil
}

// AggregateLeaves suma las cantidades efectivas por hoja a través de todas las
// rutas: la misma hoja puede requerirse directamente y vía un subensamble.
func (e *Exploder) AggregateLeaves(productID string, quantity decimal.Decimal) (map[string]decimal.Decimal, error) {
	items, err := e.Explode(productID, quantity)
	if err != nil {
		return nil, err
	}
	totals := make(map[string]decimal.Decimal)
	for _, item := range items {
		if item.IsLeaf {
			totals[item.ProductID] = totals[item.ProductID].Add(item.Quantity)
		}
	}
	return totals, nil
}

// LeafRequirement es un requerimiento agregado por hoja con los metadatos
// necesarios para descuentos y reportes de faltantes.
type LeafRequirement struct {
	ProductID string
	SKU       string
	Name      string
	Unit      string
	Quantity  decimal.Decimal
}

// AggregateLeafRequirements agrega las hojas como AggregateLeaves pero conserva
// SKU/nombre/unidad y devuelve la lista en orden estable (por ProductID).
func (e *Exploder) AggregateLeafRequirements(productID string, quantity decimal.Decimal) ([]LeafRequirement, error) {
	items, err := e.Explode(productID, quantity)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*LeafRequirement)
	for _, item := range items {
		if !item.IsLeaf {
			continue
		}
		if existing, ok := byID[item.ProductID]; ok {
			existing.Quantity = existing.Quantity.Add(item.Quantity)
			continue
		}
		byID[item.ProductID] = &LeafRequirement{
			ProductID: item.ProductID,
			SKU:       item.SKU,
			Name:      item.Name,
			Unit:      item.Unit,
			Quantity:  item.Quantity,
		}
	}
	requirements := make([]LeafRequirement, 0, len(byID))
	for _, req := range byID {
		requirements = append(requirements, *req)
	}
	sort.Slice(requirements, func(i, j int) bool {
		return requirements[i].ProductID < requirements[j].ProductID
	})
	return requirements, nil
}

// ValidateNoCycle verifica si la arista parentID→componentID mantendría el
// grafo acíclico. Rechaza parentID == componentID y el caso en que parentID es
// alcanzable desde componentID por aristas existentes (búsqueda hacia adelante).
func (e *Exploder) ValidateNoCycle(parentID, componentID string) (bool, error) {
	if parentID == componentID {
		return false, nil
	}
	seen := map[string]bool{componentID: true}
	queue := []string{componentID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		edges, err := e.edges.ListByParent(current)
		if err != nil {
			return false, err
		}
		for _, edge := range edges {
			next := edge.ComponentProductID
			if next == parentID {
				return false, nil
			}
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return true, nil
}
