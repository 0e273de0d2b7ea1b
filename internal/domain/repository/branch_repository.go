package repository

import "github.com/jhoicas/pos-api/internal/domain/entity"

// BranchRepository define el puerto de persistencia para Branch (sucursal).
type BranchRepository interface {
	Create(branch *entity.Branch) error
	GetByID(id string) (*entity.Branch, error)
	Update(branch *entity.Branch) error
	ListByTenant(tenantID string, limit, offset int) ([]*entity.Branch, error)
}
