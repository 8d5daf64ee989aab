package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
)

var _ repository.BomEdgeRepository = (*BomEdgeRepo)(nil)

// BomEdgeRepo implementación del puerto BomEdgeRepository sobre PostgreSQL
// (usable con pool o tx).
type BomEdgeRepo struct {
	q Querier
}

// NewBomEdgeRepository construye el adaptador de aristas BOM. Pasar pool o tx (Querier).
func NewBomEdgeRepository(q Querier) *BomEdgeRepo {
	return &BomEdgeRepo{q: q}
}

// Create persiste una arista padre→componente.
func (r *BomEdgeRepo) Create(edge *entity.BomEdge) error {
	query := `
		INSERT INTO bom_edges (id, parent_product_id, component_product_id, quantity, unit, scrap_percentage, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		edge.ID, edge.ParentProductID, edge.ComponentProductID,
		edge.Quantity, edge.Unit, edge.ScrapPercentage, edge.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert bom edge: %w", err)
	}
	return nil
}

// ListByParent lista las aristas salientes de un producto padre.
func (r *BomEdgeRepo) ListByParent(parentProductID string) ([]*entity.BomEdge, error) {
	query := `
		SELECT id, parent_product_id, component_product_id, quantity, unit, scrap_percentage, created_at
		FROM bom_edges WHERE parent_product_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, parentProductID)
	if err != nil {
		return nil, fmt.Errorf("list bom edges by parent: %w", err)
	}
	return collectEdges(rows)
}

// ListByComponent lista las aristas entrantes de un componente (dónde se usa).
func (r *BomEdgeRepo) ListByComponent(componentProductID string) ([]*entity.BomEdge, error) {
	query := `
		SELECT id, parent_product_id, component_product_id, quantity, unit, scrap_percentage, created_at
		FROM bom_edges WHERE component_product_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, componentProductID)
	if err != nil {
		return nil, fmt.Errorf("list bom edges by component: %w", err)
	}
	return collectEdges(rows)
}

// Delete elimina una arista por ID.
func (r *BomEdgeRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM bom_edges WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete bom edge: %w", err)
	}
	return nil
}

func collectEdges(rows pgx.Rows) ([]*entity.BomEdge, error) {
	defer rows.Close()
	var list []*entity.BomEdge
	for rows.Next() {
		var e entity.BomEdge
		if err := rows.Scan(&e.ID, &e.ParentProductID, &e.ComponentProductID,
			&e.Quantity, &e.Unit, &e.ScrapPercentage, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan bom edge: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
