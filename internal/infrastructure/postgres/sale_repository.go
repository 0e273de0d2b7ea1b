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

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, tenant_id, branch_id, user_id, number, type, status, customer_name, payment_method,
		net_total, tax_total, grand_total, amount_paid, change, created_at, updated_at`

// Create inserta la venta con sus líneas.
func (r *SaleRepo) Create(s *entity.Sale, items []entity.SaleItem) error {
	ctx := context.Background()
	query := `
		INSERT INTO sales (id, tenant_id, branch_id, user_id, number, type, status, customer_name, payment_method,
			net_total, tax_total, grand_total, amount_paid, change, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, now(), now())`
	if _, err := r.q.Exec(ctx, query,
		s.ID, s.TenantID, s.BranchID, s.UserID, s.Number, s.Type, s.Status, s.CustomerName, s.PaymentMethod,
		s.NetTotal, s.TaxTotal, s.GrandTotal, s.AmountPaid, s.Change); err != nil {
		return fmt.Errorf("create sale: %w", err)
	}
	itemQuery := `
		INSERT INTO sale_items (id, sale_id, product_id, name, quantity, unit_price, tax_rate, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, it := range items {
		if _, err := r.q.Exec(ctx, itemQuery,
			it.ID, it.SaleID, it.ProductID, it.Name, it.Quantity, it.UnitPrice, it.TaxRate, it.Subtotal); err != nil {
			return fmt.Errorf("create sale item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una venta por ID, nil si no existe.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := fmt.Sprintf(`SELECT %s FROM sales WHERE id = $1`, saleColumns)
	return r.scanOne(query, id)
}

// GetForUpdate bloquea la fila de la venta; usar dentro de transacción.
func (r *SaleRepo) GetForUpdate(id string) (*entity.Sale, error) {
	query := fmt.Sprintf(`SELECT %s FROM sales WHERE id = $1 FOR UPDATE`, saleColumns)
	return r.scanOne(query, id)
}

func (r *SaleRepo) scanOne(query string, args ...any) (*entity.Sale, error) {
	var s entity.Sale
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&s.ID, &s.TenantID, &s.BranchID, &s.UserID, &s.Number, &s.Type, &s.Status,
		&s.CustomerName, &s.PaymentMethod, &s.NetTotal, &s.TaxTotal, &s.GrandTotal,
		&s.AmountPaid, &s.Change, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return &s, nil
}

// ItemsBySale devuelve las líneas de la venta.
func (r *SaleRepo) ItemsBySale(saleID string) ([]entity.SaleItem, error) {
	query := `
		SELECT id, sale_id, product_id, name, quantity, unit_price, tax_rate, subtotal
		FROM sale_items WHERE sale_id = $1
		ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()

	var items []entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Name, &it.Quantity, &it.UnitPrice, &it.TaxRate, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ListByTenant lista ventas del tenant, con filtros opcionales de tipo y estado.
func (r *SaleRepo) ListByTenant(tenantID, saleType, status string, limit, offset int) ([]*entity.Sale, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM sales
		WHERE tenant_id = $1 AND ($2 = '' OR type = $2) AND ($3 = '' OR status = $3)
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5`, saleColumns)
	return r.scanMany(query, tenantID, saleType, status, limit, offset)
}

// ListBetween devuelve las ventas confirmadas del rango, para reportes.
func (r *SaleRepo) ListBetween(tenantID string, from, to time.Time) ([]*entity.Sale, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM sales
		WHERE tenant_id = $1 AND status = $2 AND created_at >= $3 AND created_at < $4
		ORDER BY number`, saleColumns)
	return r.scanMany(query, tenantID, entity.SaleStatusConfirmed, from, to)
}

func (r *SaleRepo) scanMany(query string, args ...any) ([]*entity.Sale, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	defer rows.Close()

	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(
			&s.ID, &s.TenantID, &s.BranchID, &s.UserID, &s.Number, &s.Type, &s.Status,
			&s.CustomerName, &s.PaymentMethod, &s.NetTotal, &s.TaxTotal, &s.GrandTotal,
			&s.AmountPaid, &s.Change, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// UpdateStatus cambia el estado de la venta (anulación).
func (r *SaleRepo) UpdateStatus(id, status string) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE sales SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update sale status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Update persiste estado, pago y totales (confirmación de preventa).
func (r *SaleRepo) Update(s *entity.Sale) error {
	query := `
		UPDATE sales
		SET status = $2, payment_method = $3, net_total = $4, tax_total = $5,
		    grand_total = $6, amount_paid = $7, change = $8, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		s.ID, s.Status, s.PaymentMethod, s.NetTotal, s.TaxTotal, s.GrandTotal, s.AmountPaid, s.Change)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// NextNumber devuelve el siguiente consecutivo del tenant. El contador vive
// en sale_counters y se incrementa con upsert atómico; llamar dentro de la
// transacción de la venta para no quemar números en rollbacks.
func (r *SaleRepo) NextNumber(tenantID string) (int64, error) {
	query := `
		INSERT INTO sale_counters (tenant_id, last_number)
		VALUES ($1, 1)
		ON CONFLICT (tenant_id)
		DO UPDATE SET last_number = sale_counters.last_number + 1
		RETURNING last_number`
	var n int64
	if err := r.q.QueryRow(context.Background(), query, tenantID).Scan(&n); err != nil {
		return 0, fmt.Errorf("next sale number: %w", err)
	}
	return n, nil
}
