// Package admin expone el panel de soporte: listado de organizaciones y
// gestión de licencias. Solo accesible para el super admin.
package admin

import (
	"context"
	"time"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// UseCase casos de uso del panel de soporte.
type UseCase struct {
	tenantRepo  repository.TenantRepository
	licenseRepo repository.LicenseRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(tenantRepo repository.TenantRepository, licenseRepo repository.LicenseRepository) *UseCase {
	return &UseCase{tenantRepo: tenantRepo, licenseRepo: licenseRepo}
}

// ListTenants lista todas las organizaciones.
func (uc *UseCase) ListTenants(limit, offset int) ([]dto.TenantResponse, error) {
	list, err := uc.tenantRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TenantResponse, 0, len(list))
	for _, t := range list {
		items = append(items, dto.TenantResponse{
			ID:        t.ID,
			Name:      t.Name,
			Slug:      t.Slug,
			OwnerID:   t.OwnerID,
			JoinCode:  t.JoinCode,
			Status:    t.Status,
			CreatedAt: t.CreatedAt,
		})
	}
	return items, nil
}

// GetLicense devuelve la licencia de una organización.
func (uc *UseCase) GetLicense(ctx context.Context, tenantID string) (*dto.LicenseResponse, error) {
	lic, err := uc.licenseRepo.GetByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if lic == nil {
		return nil, domain.ErrNotFound
	}
	return toLicenseResponse(lic), nil
}

// UpdateLicense modifica plan, vencimiento o bloqueo de la licencia. Si la
// organización no tiene licencia registrada se crea una con los valores
// recibidos.
func (uc *UseCase) UpdateLicense(ctx context.Context, tenantID string, in dto.UpdateLicenseRequest) (*dto.LicenseResponse, error) {
	tenant, err := uc.tenantRepo.GetByID(tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, domain.ErrNotFound
	}
	lic, err := uc.licenseRepo.GetByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	created := lic == nil
	if created {
		lic = &entity.License{TenantID: tenantID, Plan: "trial", PaidUntil: time.Now()}
	}
	if in.Plan != "" {
		lic.Plan = in.Plan
	}
	if in.PaidUntil != nil {
		lic.PaidUntil = *in.PaidUntil
	}
	if in.Blocked != nil {
		lic.Blocked = *in.Blocked
		if !lic.Blocked {
			lic.Reason = ""
		}
	}
	if in.Reason != "" {
		lic.Reason = in.Reason
	}
	lic.UpdatedAt = time.Now()
	if created {
		err = uc.licenseRepo.Create(lic)
	} else {
		err = uc.licenseRepo.Update(lic)
	}
	if err != nil {
		return nil, err
	}
	return toLicenseResponse(lic), nil
}

func toLicenseResponse(l *entity.License) *dto.LicenseResponse {
	return &dto.LicenseResponse{
		TenantID:  l.TenantID,
		Plan:      l.Plan,
		PaidUntil: l.PaidUntil,
		Blocked:   l.Blocked,
		Reason:    l.Reason,
	}
}
