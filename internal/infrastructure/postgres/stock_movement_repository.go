package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo registro append-only de movimientos de stock.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta el movimiento. La tabla no admite UPDATE ni DELETE.
func (r *StockMovementRepo) Create(m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, tenant_id, product_id, branch_id, user_id, type, quantity, unit_cost, ref_id, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.TenantID, m.ProductID, m.BranchID, m.UserID, m.Type, m.Quantity, m.UnitCost, m.RefID, m.Note)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// ListByProduct lista los movimientos de un producto del tenant, recientes primero.
func (r *StockMovementRepo) ListByProduct(tenantID, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, tenant_id, product_id, branch_id, user_id, type, quantity, unit_cost, ref_id, note, created_at
		FROM stock_movements
		WHERE tenant_id = $1 AND product_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, tenantID, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.TenantID, &m.ProductID, &m.BranchID, &m.UserID, &m.Type, &m.Quantity, &m.UnitCost, &m.RefID, &m.Note, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
