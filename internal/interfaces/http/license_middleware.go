package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// licenseChecker valida el estado de la licencia del tenant.
type licenseChecker interface {
	Validate(ctx context.Context, tenantID string) error
}

// RequireLicense bloquea toda operación de negocio cuando la licencia del
// tenant está vencida o bloqueada. Responde 402 con el motivo del bloqueo.
// Debe ir después de AuthMiddleware y RequireTenant.
func RequireLicense(licenses licenseChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := licenses.Validate(c.UserContext(), GetTenantID(c)); err != nil {
			return failErr(c, err)
		}
		return c.Next()
	}
}
