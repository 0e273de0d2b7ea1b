package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.BranchRepository = (*BranchRepo)(nil)

// BranchRepo implementación de BranchRepository sobre PostgreSQL.
type BranchRepo struct {
	q Querier
}

// NewBranchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBranchRepository(q Querier) *BranchRepo {
	return &BranchRepo{q: q}
}

// Create inserta la sucursal.
func (r *BranchRepo) Create(b *entity.Branch) error {
	query := `
		INSERT INTO branches (id, tenant_id, name, address, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())`
	_, err := r.q.Exec(context.Background(), query, b.ID, b.TenantID, b.Name, b.Address, b.Active)
	if err != nil {
		return fmt.Errorf("create branch: %w", err)
	}
	return nil
}

// GetByID obtiene una sucursal por ID, nil si no existe.
func (r *BranchRepo) GetByID(id string) (*entity.Branch, error) {
	query := `
		SELECT id, tenant_id, name, address, active, created_at, updated_at
		FROM branches WHERE id = $1`
	var b entity.Branch
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&b.ID, &b.TenantID, &b.Name, &b.Address, &b.Active, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get branch: %w", err)
	}
	return &b, nil
}

// Update actualiza nombre, dirección y estado.
func (r *BranchRepo) Update(b *entity.Branch) error {
	query := `
		UPDATE branches SET name = $2, address = $3, active = $4, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, b.ID, b.Name, b.Address, b.Active)
	if err != nil {
		return fmt.Errorf("update branch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByTenant lista las sucursales del tenant.
func (r *BranchRepo) ListByTenant(tenantID string, limit, offset int) ([]*entity.Branch, error) {
	query := `
		SELECT id, tenant_id, name, address, active, created_at, updated_at
		FROM branches WHERE tenant_id = $1
		ORDER BY created_at
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer rows.Close()

	var list []*entity.Branch
	for rows.Next() {
		var b entity.Branch
		if err := rows.Scan(&b.ID, &b.TenantID, &b.Name, &b.Address, &b.Active, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan branch: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
