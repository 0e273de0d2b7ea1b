package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas read-only para reportes. Devuelve filas crudas; la
// agregación la hace el use case.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// SaleRows devuelve una fila por línea de venta confirmada del rango.
func (r *ReportRepo) SaleRows(ctx context.Context, tenantID string, from, to time.Time) ([]repository.SaleRow, error) {
	query := `
		SELECT s.id, s.branch_id, b.name, i.product_id, p.sku, i.name,
		       s.payment_method, i.quantity, i.subtotal, s.created_at
		FROM sales s
		JOIN sale_items i ON i.sale_id = s.id
		JOIN branches b ON b.id = s.branch_id
		JOIN products p ON p.id = i.product_id
		WHERE s.tenant_id = $1 AND s.status = $2 AND s.created_at >= $3 AND s.created_at < $4
		ORDER BY s.created_at`
	rows, err := r.q.Query(ctx, query, tenantID, entity.SaleStatusConfirmed, from, to)
	if err != nil {
		return nil, fmt.Errorf("query sale rows: %w", err)
	}
	defer rows.Close()

	var list []repository.SaleRow
	for rows.Next() {
		var row repository.SaleRow
		if err := rows.Scan(&row.SaleID, &row.BranchID, &row.BranchName, &row.ProductID, &row.SKU,
			&row.ProductName, &row.PaymentMethod, &row.Quantity, &row.Subtotal, &row.SoldAt); err != nil {
			return nil, fmt.Errorf("scan sale row: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

// PurchaseRows devuelve una fila por compra del rango.
func (r *ReportRepo) PurchaseRows(ctx context.Context, tenantID string, from, to time.Time) ([]repository.PurchaseRow, error) {
	query := `
		SELECT id, branch_id, supplier, status, total, created_at
		FROM purchases
		WHERE tenant_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, tenantID, from, to)
	if err != nil {
		return nil, fmt.Errorf("query purchase rows: %w", err)
	}
	defer rows.Close()

	var list []repository.PurchaseRow
	for rows.Next() {
		var row repository.PurchaseRow
		if err := rows.Scan(&row.PurchaseID, &row.BranchID, &row.Supplier, &row.Status, &row.Total, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase row: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

// CashRows devuelve una fila por movimiento de caja del rango.
func (r *ReportRepo) CashRows(ctx context.Context, tenantID string, from, to time.Time) ([]repository.CashRow, error) {
	query := `
		SELECT e.session_id, s.branch_id, e.type, e.amount, e.created_at
		FROM cash_entries e
		JOIN cash_sessions s ON s.id = e.session_id
		WHERE e.tenant_id = $1 AND e.created_at >= $2 AND e.created_at < $3
		ORDER BY e.created_at`
	rows, err := r.q.Query(ctx, query, tenantID, from, to)
	if err != nil {
		return nil, fmt.Errorf("query cash rows: %w", err)
	}
	defer rows.Close()

	var list []repository.CashRow
	for rows.Next() {
		var row repository.CashRow
		if err := rows.Scan(&row.SessionID, &row.BranchID, &row.Type, &row.Amount, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cash row: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}
