package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

// MaterialRepo lee los materiales planos de fase de producción; es la fuente
// de requerimientos alternativa para productos sin aristas BOM.
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

// ListByProduct lista los materiales de todas las fases de producción del
// producto, enriquecidos con SKU y nombre del material.
func (r *MaterialRepo) ListByProduct(productID string) ([]*entity.PhaseMaterial, error) {
	query := `
		SELECT pm.material_id, p.sku, p.name, pm.quantity, pm.scrap_percentage,
		       COALESCE(NULLIF(pm.unit, ''), p.unit_measure)
		FROM phase_materials pm
		JOIN products p ON p.id = pm.material_id
		WHERE pm.product_id = $1
		ORDER BY pm.phase_order, pm.material_id`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list phase materials: %w", err)
	}
	defer rows.Close()
	var list []*entity.PhaseMaterial
	for rows.Next() {
		var m entity.PhaseMaterial
		if err := rows.Scan(&m.MaterialID, &m.SKU, &m.Name, &m.Quantity, &m.ScrapPercentage, &m.Unit); err != nil {
			return nil, fmt.Errorf("scan phase material: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
