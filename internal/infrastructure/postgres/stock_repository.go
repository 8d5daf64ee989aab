package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
// Una fila por (producto, variante, bodega); variante vacía = producto base.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

func emptyStock(productID, variantID, warehouseID string) *entity.StockRecord {
	return &entity.StockRecord{
		ProductID:        productID,
		VariantID:        variantID,
		WarehouseID:      warehouseID,
		Quantity:         decimal.Zero,
		ReservedQuantity: decimal.Zero,
	}
}

// Get obtiene el stock actual; si no hay fila devuelve un registro en cero.
func (r *StockRepo) Get(productID, variantID, warehouseID string) (*entity.StockRecord, error) {
	query := `
		SELECT product_id, variant_id, warehouse_id, quantity, reserved_quantity, updated_at
		FROM stock WHERE product_id = $1 AND variant_id = $2 AND warehouse_id = $3`
	var s entity.StockRecord
	err := r.q.QueryRow(context.Background(), query, productID, variantID, warehouseID).Scan(
		&s.ProductID, &s.VariantID, &s.WarehouseID, &s.Quantity, &s.ReservedQuantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return emptyStock(productID, variantID, warehouseID), nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// GetForUpdate obtiene el stock y bloquea la fila (SELECT FOR UPDATE).
// Sin fila no hay nada que bloquear: devuelve un registro en cero igual que Get.
func (r *StockRepo) GetForUpdate(productID, variantID, warehouseID string) (*entity.StockRecord, error) {
	query := `
		SELECT product_id, variant_id, warehouse_id, quantity, reserved_quantity, updated_at
		FROM stock WHERE product_id = $1 AND variant_id = $2 AND warehouse_id = $3
		FOR UPDATE`
	var s entity.StockRecord
	err := r.q.QueryRow(context.Background(), query, productID, variantID, warehouseID).Scan(
		&s.ProductID, &s.VariantID, &s.WarehouseID, &s.Quantity, &s.ReservedQuantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return emptyStock(productID, variantID, warehouseID), nil
		}
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza la fila de stock (por producto, variante y bodega).
func (r *StockRepo) Upsert(stock *entity.StockRecord) error {
	query := `
		INSERT INTO stock (product_id, variant_id, warehouse_id, quantity, reserved_quantity, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (product_id, variant_id, warehouse_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, reserved_quantity = EXCLUDED.reserved_quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		stock.ProductID, stock.VariantID, stock.WarehouseID, stock.Quantity, stock.ReservedQuantity,
	)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// ListByWarehouse lista las filas de stock de una bodega con paginación.
func (r *StockRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.StockRecord, error) {
	query := `
		SELECT product_id, variant_id, warehouse_id, quantity, reserved_quantity, updated_at
		FROM stock WHERE warehouse_id = $1 ORDER BY product_id, variant_id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockRecord
	for rows.Next() {
		var s entity.StockRecord
		if err := rows.Scan(&s.ProductID, &s.VariantID, &s.WarehouseID, &s.Quantity, &s.ReservedQuantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
