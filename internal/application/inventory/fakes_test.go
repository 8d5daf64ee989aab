package inventory_test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
)

// fakeStore es un almacén en memoria compartido por los repos falsos.
// El txRunner falso toma una instantánea antes de cada fn y la restaura si fn
// falla, emulando el Rollback del runner real.
type fakeStore struct {
	products  map[string]*entity.Product
	edges     map[string][]*entity.BomEdge
	materials map[string][]*entity.PhaseMaterial
	stocks    map[stockKey]*entity.StockRecord
	movements []*entity.StockMovement
	orders    map[string]*entity.Order
}

type stockKey struct {
	productID   string
	variantID   string
	warehouseID string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:  make(map[string]*entity.Product),
		edges:     make(map[string][]*entity.BomEdge),
		materials: make(map[string][]*entity.PhaseMaterial),
		stocks:    make(map[stockKey]*entity.StockRecord),
		orders:    make(map[string]*entity.Order),
	}
}

// ── helpers de armado ─────────────────────────────────────────────────────────

func (s *fakeStore) addProduct(id, sku string, minStock, reorderPoint float64) {
	s.products[id] = &entity.Product{
		ID:            id,
		SKU:           sku,
		Name:          sku,
		UnitMeasure:   "und",
		MinStockLevel: decimal.NewFromFloat(minStock),
		ReorderPoint:  decimal.NewFromFloat(reorderPoint),
	}
}

func (s *fakeStore) addEdge(parentID, componentID string, qty, scrapPct float64) {
	s.edges[parentID] = append(s.edges[parentID], &entity.BomEdge{
		ParentProductID:    parentID,
		ComponentProductID: componentID,
		Quantity:           decimal.NewFromFloat(qty),
		ScrapPercentage:    decimal.NewFromFloat(scrapPct),
	})
}

func (s *fakeStore) addMaterial(productID, materialID, sku string, qty, scrapPct float64) {
	s.materials[productID] = append(s.materials[productID], &entity.PhaseMaterial{
		MaterialID:      materialID,
		SKU:             sku,
		Name:            sku,
		Quantity:        decimal.NewFromFloat(qty),
		ScrapPercentage: decimal.NewFromFloat(scrapPct),
		Unit:            "und",
	})
}

func (s *fakeStore) setStock(productID, variantID, warehouseID string, qty, reserved float64) {
	key := stockKey{productID, variantID, warehouseID}
	s.stocks[key] = &entity.StockRecord{
		ProductID:        productID,
		VariantID:        variantID,
		WarehouseID:      warehouseID,
		Quantity:         decimal.NewFromFloat(qty),
		ReservedQuantity: decimal.NewFromFloat(reserved),
	}
}

// stock devuelve una copia del registro para aserciones (cero si no existe).
func (s *fakeStore) stock(productID, variantID, warehouseID string) entity.StockRecord {
	if rec, ok := s.stocks[stockKey{productID, variantID, warehouseID}]; ok {
		return *rec
	}
	return entity.StockRecord{ProductID: productID, VariantID: variantID, WarehouseID: warehouseID}
}

func (s *fakeStore) addOrder(orderID, warehouseID string, lines ...entity.OrderItem) {
	for i := range lines {
		lines[i].OrderID = orderID
	}
	s.orders[orderID] = &entity.Order{
		ID:          orderID,
		Reference:   "REF-" + orderID,
		WarehouseID: warehouseID,
		Status:      entity.OrderStatusPending,
		Items:       lines,
	}
}

// ── instantánea / restauración (rollback simulado) ────────────────────────────

type storeSnapshot struct {
	products  map[string]entity.Product
	stocks    map[stockKey]entity.StockRecord
	movements int
	statuses  map[string]string
}

func (s *fakeStore) snapshot() storeSnapshot {
	snap := storeSnapshot{
		products:  make(map[string]entity.Product, len(s.products)),
		stocks:    make(map[stockKey]entity.StockRecord, len(s.stocks)),
		movements: len(s.movements),
		statuses:  make(map[string]string, len(s.orders)),
	}
	for id, p := range s.products {
		snap.products[id] = *p
	}
	for k, rec := range s.stocks {
		snap.stocks[k] = *rec
	}
	for id, o := range s.orders {
		snap.statuses[id] = o.Status
	}
	return snap
}

func (s *fakeStore) restore(snap storeSnapshot) {
	s.products = make(map[string]*entity.Product, len(snap.products))
	for id, p := range snap.products {
		cp := p
		s.products[id] = &cp
	}
	s.stocks = make(map[stockKey]*entity.StockRecord, len(snap.stocks))
	for k, rec := range snap.stocks {
		cp := rec
		s.stocks[k] = &cp
	}
	s.movements = s.movements[:snap.movements]
	for id, status := range snap.statuses {
		s.orders[id].Status = status
	}
}

// ── repos falsos ──────────────────────────────────────────────────────────────

type fakeProductRepo struct{ s *fakeStore }

func (r *fakeProductRepo) Create(p *entity.Product) error {
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) UpdateCost(productID string, cost decimal.Decimal) error {
	if p, ok := r.s.products[productID]; ok {
		p.Cost = cost
	}
	return nil
}

func (r *fakeProductRepo) List(limit, offset int) ([]*entity.Product, error) { return nil, nil }
func (r *fakeProductRepo) Delete(id string) error                            { delete(r.s.products, id); return nil }

type fakeBomRepo struct{ s *fakeStore }

func (r *fakeBomRepo) Create(edge *entity.BomEdge) error {
	r.s.edges[edge.ParentProductID] = append(r.s.edges[edge.ParentProductID], edge)
	return nil
}

func (r *fakeBomRepo) ListByParent(parentProductID string) ([]*entity.BomEdge, error) {
	return r.s.edges[parentProductID], nil
}

func (r *fakeBomRepo) ListByComponent(componentProductID string) ([]*entity.BomEdge, error) {
	var out []*entity.BomEdge
	for _, edges := range r.s.edges {
		for _, e := range edges {
			if e.ComponentProductID == componentProductID {
				out = append(out, e)
			}
		}
	}
	return out, nil
}

func (r *fakeBomRepo) Delete(id string) error { return nil }

type fakeStockRepo struct{ s *fakeStore }

func (r *fakeStockRepo) Get(productID, variantID, warehouseID string) (*entity.StockRecord, error) {
	rec := r.s.stock(productID, variantID, warehouseID)
	return &rec, nil
}

func (r *fakeStockRepo) GetForUpdate(productID, variantID, warehouseID string) (*entity.StockRecord, error) {
	return r.Get(productID, variantID, warehouseID)
}

func (r *fakeStockRepo) Upsert(stock *entity.StockRecord) error {
	cp := *stock
	r.s.stocks[stockKey{stock.ProductID, stock.VariantID, stock.WarehouseID}] = &cp
	return nil
}

func (r *fakeStockRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.StockRecord, error) {
	var out []*entity.StockRecord
	for _, rec := range r.s.stocks {
		if rec.WarehouseID == warehouseID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeMovementRepo struct{ s *fakeStore }

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *fakeMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	for _, m := range r.s.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (r *fakeMovementRepo) ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return r.s.movements, nil
}

func (r *fakeMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) ListByReference(reference string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.Reference == reference {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeMaterialRepo struct{ s *fakeStore }

func (r *fakeMaterialRepo) ListByProduct(productID string) ([]*entity.PhaseMaterial, error) {
	return r.s.materials[productID], nil
}

type fakeOrderRepo struct{ s *fakeStore }

func (r *fakeOrderRepo) GetByID(id string) (*entity.Order, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) UpdateStatus(id, status string) error {
	if o, ok := r.s.orders[id]; ok {
		o.Status = status
	}
	return nil
}

// ── tx runner falso ───────────────────────────────────────────────────────────

type fakeTxRunner struct{ s *fakeStore }

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	bomRepo repository.BomEdgeRepository,
) error) error {
	snap := r.s.snapshot()
	if err := fn(&fakeMovementRepo{r.s}, &fakeStockRepo{r.s}, &fakeProductRepo{r.s}, &fakeBomRepo{r.s}); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

func (r *fakeTxRunner) RunOrder(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	bomRepo repository.BomEdgeRepository,
	orderRepo repository.OrderRepository,
) error) error {
	snap := r.s.snapshot()
	if err := fn(&fakeMovementRepo{r.s}, &fakeStockRepo{r.s}, &fakeProductRepo{r.s}, &fakeBomRepo{r.s}, &fakeOrderRepo{r.s}); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

// ── notificador falso ─────────────────────────────────────────────────────────

type fakeNotifier struct {
	mu    sync.Mutex
	calls []string // product IDs notificados
}

func (n *fakeNotifier) NotifyLowStock(product *entity.Product, warehouseID string, newQuantity decimal.Decimal) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, product.ID)
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}
