package repository

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// TenantRepository define el puerto de persistencia para Tenant (DIP).
// La implementación vive en infrastructure.
type TenantRepository interface {
	Create(tenant *entity.Tenant) error
	GetByID(id string) (*entity.Tenant, error)
	GetBySlug(slug string) (*entity.Tenant, error)
	GetByJoinCode(code string) (*entity.Tenant, error)
	Update(tenant *entity.Tenant) error
	List(limit, offset int) ([]*entity.Tenant, error)

	// GetModules devuelve el mapa módulo → activo del tenant.
	GetModules(ctx context.Context, tenantID string) (map[string]bool, error)
	// SetModule activa o desactiva un módulo del tenant (upsert).
	SetModule(ctx context.Context, tenantID, moduleName string, active bool) error
	// HasActiveModule responde O(1) vía índice si el módulo está activo.
	// Un módulo sin fila en tenant_modules se considera habilitado.
	HasActiveModule(ctx context.Context, tenantID, moduleName string) (bool, error)
}

// LicenseRepository puerto de persistencia para License.
type LicenseRepository interface {
	Create(license *entity.License) error
	GetByTenant(ctx context.Context, tenantID string) (*entity.License, error)
	Update(license *entity.License) error
}
