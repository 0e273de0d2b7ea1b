package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// moduleChecker informa si un módulo funcional está habilitado para el tenant.
type moduleChecker interface {
	HasActiveModule(ctx context.Context, tenantID, moduleName string) (bool, error)
}

// RequireModule corta el acceso a rutas de un módulo deshabilitado para el
// tenant (por ejemplo "preventas" o "reportes"). Módulos sin fila en la
// configuración se consideran habilitados.
func RequireModule(modules moduleChecker, moduleName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		active, err := modules.HasActiveModule(c.UserContext(), GetTenantID(c), moduleName)
		if err != nil {
			return failErr(c, err)
		}
		if !active {
			return fail(c, fiber.StatusForbidden, "MODULE_DISABLED", "módulo deshabilitado para este negocio: "+moduleName)
		}
		return c.Next()
	}
}
