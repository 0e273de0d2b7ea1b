package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// BranchUseCase reglas de negocio de sucursales.
type BranchUseCase struct {
	repo repository.BranchRepository
}

// NewBranchUseCase construye el caso de uso.
func NewBranchUseCase(repo repository.BranchRepository) *BranchUseCase {
	return &BranchUseCase{repo: repo}
}

// Create crea una sucursal activa.
func (uc *BranchUseCase) Create(tenantID string, in dto.CreateBranchRequest) (*dto.BranchResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	b := &entity.Branch{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Name:      in.Name,
		Address:   in.Address,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(b); err != nil {
		return nil, err
	}
	return toBranchResponse(b), nil
}

// GetByID obtiene una sucursal validando que pertenezca al tenant.
func (uc *BranchUseCase) GetByID(tenantID, id string) (*dto.BranchResponse, error) {
	b, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if b == nil || b.TenantID != tenantID {
		return nil, nil
	}
	return toBranchResponse(b), nil
}

// List lista sucursales del tenant.
func (uc *BranchUseCase) List(tenantID string, limit, offset int) ([]dto.BranchResponse, error) {
	list, err := uc.repo.ListByTenant(tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.BranchResponse, 0, len(list))
	for _, b := range list {
		items = append(items, *toBranchResponse(b))
	}
	return items, nil
}

// Update actualiza los campos presentes en el request.
func (uc *BranchUseCase) Update(tenantID, id string, in dto.UpdateBranchRequest) (*dto.BranchResponse, error) {
	b, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if b == nil || b.TenantID != tenantID {
		return nil, nil
	}
	if in.Name != nil && *in.Name != "" {
		b.Name = *in.Name
	}
	if in.Address != nil {
		b.Address = *in.Address
	}
	if in.Active != nil {
		b.Active = *in.Active
	}
	b.UpdatedAt = time.Now()
	if err := uc.repo.Update(b); err != nil {
		return nil, err
	}
	return toBranchResponse(b), nil
}

func toBranchResponse(b *entity.Branch) *dto.BranchResponse {
	if b == nil {
		return nil
	}
	return &dto.BranchResponse{
		ID:        b.ID,
		TenantID:  b.TenantID,
		Name:      b.Name,
		Address:   b.Address,
		Active:    b.Active,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
