package tenant

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// TxRunner ejecuta el aprovisionamiento de un tenant dentro de una
// transacción: tenant + módulos por defecto + licencia trial + membership.
// La implementación vive en infrastructure/postgres.
type TxRunner interface {
	RunProvision(ctx context.Context, fn func(
		tenantRepo repository.TenantRepository,
		membershipRepo repository.MembershipRepository,
		licenseRepo repository.LicenseRepository,
		userRepo repository.UserRepository,
	) error) error
}
