package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el stock actual de un producto en una sucursal.
// Sin fila se interpreta como cantidad cero.
func (r *StockRepo) Get(productID, branchID string) (*entity.Stock, error) {
	query := `
		SELECT product_id, branch_id, quantity, updated_at
		FROM stock WHERE product_id = $1 AND branch_id = $2`
	return r.scanOne(query, productID, branchID)
}

// GetForUpdate obtiene el stock y bloquea la fila (SELECT FOR UPDATE); usar
// dentro de transacción.
func (r *StockRepo) GetForUpdate(productID, branchID string) (*entity.Stock, error) {
	query := `
		SELECT product_id, branch_id, quantity, updated_at
		FROM stock WHERE product_id = $1 AND branch_id = $2
		FOR UPDATE`
	return r.scanOne(query, productID, branchID)
}

func (r *StockRepo) scanOne(query, productID, branchID string) (*entity.Stock, error) {
	var s entity.Stock
	err := r.q.QueryRow(context.Background(), query, productID, branchID).Scan(
		&s.ProductID, &s.BranchID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Stock{ProductID: productID, BranchID: branchID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza la cantidad en stock (por producto y sucursal).
func (r *StockRepo) Upsert(stock *entity.Stock) error {
	query := `
		INSERT INTO stock (product_id, branch_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, branch_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, stock.ProductID, stock.BranchID, stock.Quantity)
	if err != nil {
		// CHECK (quantity >= 0): respaldo del guardia de la capa de aplicación.
		if isCheckViolation(err) {
			return domain.ErrInsufficientStock
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// ListByBranch lista el stock de todos los productos de la sucursal.
func (r *StockRepo) ListByBranch(branchID string) ([]*entity.Stock, error) {
	query := `
		SELECT product_id, branch_id, quantity, updated_at
		FROM stock WHERE branch_id = $1
		ORDER BY product_id`
	rows, err := r.q.Query(context.Background(), query, branchID)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()

	var list []*entity.Stock
	for rows.Next() {
		var s entity.Stock
		if err := rows.Scan(&s.ProductID, &s.BranchID, &s.Quantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
