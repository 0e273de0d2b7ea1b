package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/permission"
	"github.com/jhoicas/pos-api/pkg/jwt"
)

const (
	localsIdentity = "identity"
	localsTenant   = "tenant_id"
)

// HeaderOrgID header de respaldo para seleccionar tenant cuando el token no
// trae org_id. Solo se honra si corresponde a una membresía del caller.
const HeaderOrgID = "X-Org-ID"

// AuthMiddleware valida el bearer token y deja la identidad en locals.
// Las rutas protegidas asumen que la identidad existe; usar siempre este
// middleware antes de RequireRole / RequirePermission.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return fail(c, fiber.StatusUnauthorized, "MISSING_TOKEN", "se requiere el header Authorization")
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fail(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "formato esperado: Bearer <token>")
		}
		id, err := jwt.Parse(jwtSecret, parts[1])
		if err != nil {
			return fail(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "token inválido o expirado")
		}
		if id.IsAnonymous() {
			return fail(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "token sin sujeto")
		}
		c.Locals(localsIdentity, id)
		return c.Next()
	}
}

// OptionalAuth deja la identidad en locals cuando el request trae un token
// válido y sigue como anónimo cuando no trae ninguno. Un token presente pero
// inválido sí se rechaza: nunca degradamos un token roto a anónimo.
func OptionalAuth(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return c.Next()
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fail(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "formato esperado: Bearer <token>")
		}
		id, err := jwt.Parse(jwtSecret, parts[1])
		if err != nil {
			return fail(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "token inválido o expirado")
		}
		if !id.IsAnonymous() {
			c.Locals(localsIdentity, id)
		}
		return c.Next()
	}
}

// GetIdentity devuelve la identidad dejada por AuthMiddleware. Identidad
// anónima si la ruta no pasó por el middleware.
func GetIdentity(c *fiber.Ctx) jwt.Identity {
	if id, ok := c.Locals(localsIdentity).(jwt.Identity); ok {
		return id
	}
	return jwt.Anonymous()
}

// GetUserID devuelve el ID del usuario autenticado.
func GetUserID(c *fiber.Ctx) string { return GetIdentity(c).UserID }

// GetTenantID devuelve el tenant activo: el del token, o el resuelto por
// RequireTenant desde el header X-Org-ID.
func GetTenantID(c *fiber.Ctx) string {
	if id := GetIdentity(c); id.OrgID != "" {
		return id.OrgID
	}
	if tid, ok := c.Locals(localsTenant).(string); ok {
		return tid
	}
	return ""
}

// GetRole devuelve el rol del usuario autenticado.
func GetRole(c *fiber.Ctx) string { return GetIdentity(c).Role }

// membershipSource verifica la pertenencia del usuario a un tenant.
type membershipSource interface {
	GetByUserAndTenant(userID, tenantID string) (*entity.Membership, error)
}

// RequireTenant exige un tenant activo. Las rutas de negocio (productos,
// ventas, caja...) operan siempre dentro de un tenant. El claim org_id del
// token manda; si falta, se acepta el header X-Org-ID solo cuando corresponde
// a una membresía del caller.
func RequireTenant(memberships membershipSource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetIdentity(c).OrgID != "" {
			return c.Next()
		}
		orgID := c.Get(HeaderOrgID)
		if orgID == "" {
			return fail(c, fiber.StatusForbidden, "NO_TENANT", "seleccione un negocio activo antes de operar")
		}
		m, err := memberships.GetByUserAndTenant(GetUserID(c), orgID)
		if err != nil {
			return failErr(c, err)
		}
		if m == nil {
			return fail(c, fiber.StatusForbidden, "NO_TENANT", "el negocio indicado no corresponde a una membresía del usuario")
		}
		c.Locals(localsTenant, orgID)
		return c.Next()
	}
}

// RequireRole autoriza solo a los roles indicados.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return fail(c, fiber.StatusUnauthorized, "MISSING_ROLE", "el token no incluye rol")
		}
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return fail(c, fiber.StatusForbidden, "FORBIDDEN", "rol sin acceso a este recurso")
	}
}

// PermissionSource abstrae el cálculo de la matriz efectiva de permisos para
// poder testear el middleware sin base de datos.
type PermissionSource interface {
	EffectiveMatrix(ctx context.Context, id jwt.Identity) (permission.Matrix, error)
}

// RequirePermission autoriza según la matriz efectiva (rol + overrides de
// membresía). El módulo y la acción usan los nombres del dominio: "productos",
// "ventas", ... y "ver", "crear", "editar", "eliminar".
func RequirePermission(auth PermissionSource, module, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := GetIdentity(c)
		if id.Role == "" {
			return fail(c, fiber.StatusUnauthorized, "MISSING_ROLE", "el token no incluye rol")
		}
		matrix, err := auth.EffectiveMatrix(c.UserContext(), id)
		if err != nil {
			return failErr(c, err)
		}
		if !matrix.Allows(module, action) {
			return fail(c, fiber.StatusForbidden, "FORBIDDEN", "permiso insuficiente: "+module+"."+action)
		}
		return c.Next()
	}
}
