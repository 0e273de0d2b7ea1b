package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo implementación de PurchaseRepository sobre PostgreSQL.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

const purchaseColumns = `id, tenant_id, branch_id, user_id, supplier, status, total, received_at, received_by, created_at, updated_at`

// Create inserta la compra con sus líneas.
func (r *PurchaseRepo) Create(p *entity.Purchase, items []entity.PurchaseItem) error {
	ctx := context.Background()
	query := `
		INSERT INTO purchases (id, tenant_id, branch_id, user_id, supplier, status, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())`
	if _, err := r.q.Exec(ctx, query,
		p.ID, p.TenantID, p.BranchID, p.UserID, p.Supplier, p.Status, p.Total); err != nil {
		return fmt.Errorf("create purchase: %w", err)
	}
	itemQuery := `
		INSERT INTO purchase_items (id, purchase_id, product_id, quantity, unit_cost, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, it := range items {
		if _, err := r.q.Exec(ctx, itemQuery,
			it.ID, it.PurchaseID, it.ProductID, it.Quantity, it.UnitCost, it.Subtotal); err != nil {
			return fmt.Errorf("create purchase item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una compra por ID, nil si no existe.
func (r *PurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	query := fmt.Sprintf(`SELECT %s FROM purchases WHERE id = $1`, purchaseColumns)
	return r.scanOne(query, id)
}

// GetForUpdate bloquea la fila de la compra; usar dentro de transacción.
func (r *PurchaseRepo) GetForUpdate(id string) (*entity.Purchase, error) {
	query := fmt.Sprintf(`SELECT %s FROM purchases WHERE id = $1 FOR UPDATE`, purchaseColumns)
	return r.scanOne(query, id)
}

func (r *PurchaseRepo) scanOne(query string, args ...any) (*entity.Purchase, error) {
	var p entity.Purchase
	var receivedBy *string
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&p.ID, &p.TenantID, &p.BranchID, &p.UserID, &p.Supplier, &p.Status,
		&p.Total, &p.ReceivedAt, &receivedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	if receivedBy != nil {
		p.ReceivedBy = *receivedBy
	}
	return &p, nil
}

// ItemsByPurchase devuelve las líneas de la compra.
func (r *PurchaseRepo) ItemsByPurchase(purchaseID string) ([]entity.PurchaseItem, error) {
	query := `
		SELECT id, purchase_id, product_id, quantity, unit_cost, subtotal
		FROM purchase_items WHERE purchase_id = $1
		ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("list purchase items: %w", err)
	}
	defer rows.Close()

	var items []entity.PurchaseItem
	for rows.Next() {
		var it entity.PurchaseItem
		if err := rows.Scan(&it.ID, &it.PurchaseID, &it.ProductID, &it.Quantity, &it.UnitCost, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan purchase item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ListByTenant lista compras del tenant, opcionalmente filtradas por estado.
func (r *PurchaseRepo) ListByTenant(tenantID, status string, limit, offset int) ([]*entity.Purchase, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM purchases
		WHERE tenant_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`, purchaseColumns)
	rows, err := r.q.Query(context.Background(), query, tenantID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	var list []*entity.Purchase
	for rows.Next() {
		var p entity.Purchase
		var receivedBy *string
		if err := rows.Scan(&p.ID, &p.TenantID, &p.BranchID, &p.UserID, &p.Supplier, &p.Status, &p.Total, &p.ReceivedAt, &receivedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		if receivedBy != nil {
			p.ReceivedBy = *receivedBy
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// MarkReceived transiciona a "recibida" solo si aún no lo está. El WHERE
// sobre el estado es la guardia de idempotencia: una segunda llamada no
// afecta filas y devuelve false.
func (r *PurchaseRepo) MarkReceived(id, userID string, at time.Time) (bool, error) {
	query := `
		UPDATE purchases
		SET status = $4, received_at = $3, received_by = $2, updated_at = now()
		WHERE id = $1 AND status <> $4`
	tag, err := r.q.Exec(context.Background(), query, id, userID, at, entity.PurchaseStatusReceived)
	if err != nil {
		return false, fmt.Errorf("mark purchase received: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateStatus cambia el estado de la compra (anulación).
func (r *PurchaseRepo) UpdateStatus(id, status string) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE purchases SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update purchase status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
