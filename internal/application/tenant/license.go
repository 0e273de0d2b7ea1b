package tenant

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// LicenseService valida la licencia del tenant en cada request sensible.
// Es el único punto de la aplicación que conoce las reglas de bloqueo.
type LicenseService struct {
	licenseRepo repository.LicenseRepository
}

// NewLicenseService construye el servicio.
func NewLicenseService(licenseRepo repository.LicenseRepository) *LicenseService {
	return &LicenseService{licenseRepo: licenseRepo}
}

// Validate devuelve nil si la licencia permite operar, o *domain.LicenseError
// con la razón si está bloqueada o vencida. Una licencia vencida produce
// error aunque Blocked sea false. Errores de infraestructura se devuelven tal
// cual (no bloquean por sí mismos, el caller decide).
func (s *LicenseService) Validate(ctx context.Context, tenantID string) error {
	if tenantID == "" {
		return fmt.Errorf("license: tenantID es obligatorio")
	}
	lic, err := s.licenseRepo.GetByTenant(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("consultar licencia: %w", err)
	}
	if lic == nil {
		return &domain.LicenseError{Reason: "la organización no tiene licencia registrada"}
	}
	if lic.Blocked {
		reason := lic.Reason
		if reason == "" {
			reason = "la licencia fue bloqueada por el administrador"
		}
		return &domain.LicenseError{Reason: reason}
	}
	if lic.PaidUntil.Before(time.Now()) {
		return &domain.LicenseError{
			Reason: "la licencia venció el " + lic.PaidUntil.Format("2006-01-02"),
		}
	}
	return nil
}

// Get devuelve la licencia del tenant (para el panel de administración).
func (s *LicenseService) Get(ctx context.Context, tenantID string) (*entity.License, error) {
	return s.licenseRepo.GetByTenant(ctx, tenantID)
}

// ModuleService verifica qué módulos tiene activos una organización.
type ModuleService struct {
	tenantRepo repository.TenantRepository
}

// NewModuleService construye el servicio de módulos.
func NewModuleService(tenantRepo repository.TenantRepository) *ModuleService {
	return &ModuleService{tenantRepo: tenantRepo}
}

// HasActiveModule informa si el tenant tiene el módulo activo. Los módulos
// siempre activos devuelven true sin consultar la DB. Devuelve error solo
// ante fallos de infraestructura.
func (s *ModuleService) HasActiveModule(ctx context.Context, tenantID, moduleName string) (bool, error) {
	if tenantID == "" || moduleName == "" {
		return false, fmt.Errorf("module: tenantID y moduleName son obligatorios")
	}
	for _, mod := range entity.AlwaysOnModules {
		if mod == moduleName {
			return true, nil
		}
	}
	return s.tenantRepo.HasActiveModule(ctx, tenantID, moduleName)
}
