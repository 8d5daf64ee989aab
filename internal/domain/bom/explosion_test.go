package bom_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/bom"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
)

// fakeGraph implementa EdgeSource y ProductSource en memoria para los tests.
type fakeGraph struct {
	products map[string]*entity.Product
	edges    map[string][]*entity.BomEdge
}

func newFakeGraph() *fakeGraph {
	return &fakeGraph{
		products: make(map[string]*entity.Product),
		edges:    make(map[string][]*entity.BomEdge),
	}
}

func (g *fakeGraph) GetByID(id string) (*entity.Product, error) {
	return g.products[id], nil
}

func (g *fakeGraph) ListByParent(parentProductID string) ([]*entity.BomEdge, error) {
	return g.edges[parentProductID], nil
}

func (g *fakeGraph) addProduct(id, sku string) {
	g.products[id] = &entity.Product{ID: id, SKU: sku, Name: sku, UnitMeasure: "und"}
}

func (g *fakeGraph) addEdge(parentID, componentID string, qty float64, scrapPct float64) {
	g.edges[parentID] = append(g.edges[parentID], &entity.BomEdge{
		ParentProductID:    parentID,
		ComponentProductID: componentID,
		Quantity:           decimal.NewFromFloat(qty),
		ScrapPercentage:    decimal.NewFromFloat(scrapPct),
	})
}

// TestExplode_CadenaLinealConMerma valida la multiplicación por nivel:
// A necesita 2×B con 5% de merma; B necesita 3×C sin merma.
// Para 10 unidades de A: B efectivo = 10*2*1.05 = 21; C efectivo = 21*3 = 63.
func TestExplode_CadenaLinealConMerma(t *testing.T) {
	g := newFakeGraph()
	g.addProduct("A", "SKU-A")
	g.addProduct("B", "SKU-B")
	g.addProduct("C", "SKU-C")
	g.addEdge("A", "B", 2, 5)
	g.addEdge("B", "C", 3, 0)

	items, err := bom.NewExploder(g, g).Explode("A", decimal.NewFromInt(10))
	require.NoError(t, err)
	require.Len(t, items, 2)

	b := items[0]
	assert.Equal(t, "B", b.ProductID)
	assert.True(t, b.Quantity.Equal(decimal.NewFromInt(21)), "B efectivo = %s", b.Quantity)
	assert.Equal(t, 1, b.Depth)
	assert.False(t, b.IsLeaf, "B tiene aristas salientes, no es hoja")
	assert.Equal(t, "A", b.ParentProductID)

	c := items[1]
	assert.Equal(t, "C", c.ProductID)
	assert.True(t, c.Quantity.Equal(decimal.NewFromInt(63)), "C efectivo = %s", c.Quantity)
	assert.Equal(t, 2, c.Depth)
	assert.True(t, c.IsLeaf)
	assert.Equal(t, "B", c.ParentProductID)
}

// TestAggregateLeaves_Diamante verifica que una hoja alcanzable por varias
// rutas acumula la suma de todas: A→B→D (2), A→C→D (3) y A→D directo (1).
func TestAggregateLeaves_Diamante(t *testing.T) {
	g := newFakeGraph()
	for _, id := range []string{"A", "B", "C", "D"} {
		g.addProduct(id, "SKU-"+id)
	}
	g.addEdge("A", "B", 1, 0)
	g.addEdge("A", "C", 1, 0)
	g.addEdge("A", "D", 1, 0)
	g.addEdge("B", "D", 2, 0)
	g.addEdge("C", "D", 3, 0)

	totals, err := bom.NewExploder(g, g).AggregateLeaves("A", decimal.NewFromInt(1))
	require.NoError(t, err)
	require.Len(t, totals, 1, "D es la única hoja")
	assert.True(t, totals["D"].Equal(decimal.NewFromInt(6)), "D total = %s", totals["D"])
}

// TestExplode_RamasHermanasNoSonCiclo: el mismo componente bajo dos ramas
// independientes es legítimo; los visitados de una rama no contaminan la otra.
func TestExplode_RamasHermanasNoSonCiclo(t *testing.T) {
	g := newFakeGraph()
	for _, id := range []string{"A", "B", "C", "D", "E"} {
		g.addProduct(id, "SKU-"+id)
	}
	g.addEdge("A", "B", 1, 0)
	g.addEdge("A", "C", 1, 0)
	g.addEdge("B", "D", 1, 0)
	g.addEdge("C", "D", 1, 0)
	g.addEdge("D", "E", 1, 0)

	items, err := bom.NewExploder(g, g).Explode("A", decimal.NewFromInt(1))
	require.NoError(t, err, "D bajo B y bajo C no debe reportarse como ciclo")
	// B, C, y dos veces la subrama D→E
	assert.Len(t, items, 6)
}

// TestExplode_CicloProfundo: A→B→C→A debe fallar con CycleError, nunca colgar.
func TestExplode_CicloProfundo(t *testing.T) {
	g := newFakeGraph()
	for _, id := range []string{"A", "B", "C"} {
		g.addProduct(id, "SKU-"+id)
	}
	g.addEdge("A", "B", 1, 0)
	g.addEdge("B", "C", 1, 0)
	g.addEdge("C", "A", 1, 0)

	_, err := bom.NewExploder(g, g).Explode("A", decimal.NewFromInt(1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCycleDetected))

	var cycleErr *domain.CycleError
	require.True(t, errors.As(err, &cycleErr))
	assert.Equal(t, "A", cycleErr.ProductID, "el error debe señalar el producto que cierra el ciclo")
}

// TestExplode_AutoCiclo: un producto que se contiene a sí mismo falla de inmediato.
func TestExplode_AutoCiclo(t *testing.T) {
	g := newFakeGraph()
	g.addProduct("A", "SKU-A")
	g.addEdge("A", "A", 1, 0)

	_, err := bom.NewExploder(g, g).Explode("A", decimal.NewFromInt(1))
	assert.True(t, errors.Is(err, domain.ErrCycleDetected))
}

func TestExplode_ProductoInexistente(t *testing.T) {
	g := newFakeGraph()
	_, err := bom.NewExploder(g, g).Explode("no-existe", decimal.NewFromInt(1))
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestExplode_SinAristas(t *testing.T) {
	g := newFakeGraph()
	g.addProduct("A", "SKU-A")
	items, err := bom.NewExploder(g, g).Explode("A", decimal.NewFromInt(5))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestValidateNoCycle(t *testing.T) {
	g := newFakeGraph()
	for _, id := range []string{"A", "B", "C", "D"} {
		g.addProduct(id, "SKU-"+id)
	}
	// B ya contiene a C, y C a D
	g.addEdge("B", "C", 1, 0)
	g.addEdge("C", "D", 1, 0)

	exploder := bom.NewExploder(g, g)

	ok, err := exploder.ValidateNoCycle("A", "A")
	require.NoError(t, err)
	assert.False(t, ok, "un producto no puede ser su propio componente")

	// D→B cerraría el ciclo B→C→D→B
	ok, err = exploder.ValidateNoCycle("D", "B")
	require.NoError(t, err)
	assert.False(t, ok, "el padre es alcanzable desde el componente")

	// A→B es legal: A no es alcanzable desde B
	ok, err = exploder.ValidateNoCycle("A", "B")
	require.NoError(t, err)
	assert.True(t, ok)
}
