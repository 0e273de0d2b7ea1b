package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/admin"
	"github.com/jhoicas/pos-api/internal/application/dto"
)

// AdminHandler expone la consola de plataforma: tenants y licencias.
// Todas sus rutas exigen la API key de super admin, no un JWT de tenant.
type AdminHandler struct {
	uc *admin.UseCase
}

// NewAdminHandler construye el handler.
func NewAdminHandler(uc *admin.UseCase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

// RequireAPIKey compara el header X-Admin-Key contra la clave configurada.
// Con clave vacía la consola queda deshabilitada por completo.
func RequireAPIKey(apiKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if apiKey == "" || c.Get("X-Admin-Key") != apiKey {
			return fail(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "clave de administración inválida")
		}
		return c.Next()
	}
}

// ListTenants godoc
// @Summary      Listar todos los negocios de la plataforma
// @Tags         admin
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(50)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.Envelope{data=[]dto.TenantResponse}
// @Router       /api/admin/tenants [get]
func (h *AdminHandler) ListTenants(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	out, err := h.uc.ListTenants(limit, offset)
	if err != nil {
		return failErr(c, err)
	}
	return okTotal(c, out, len(out))
}

// GetLicense godoc
// @Summary      Consultar licencia de un negocio
// @Tags         admin
// @Produce      json
// @Param        id  path  string  true  "ID del tenant"
// @Success      200  {object}  dto.Envelope{data=dto.LicenseResponse}
// @Failure      404  {object}  dto.Envelope
// @Router       /api/admin/tenants/{id}/license [get]
func (h *AdminHandler) GetLicense(c *fiber.Ctx) error {
	out, err := h.uc.GetLicense(c.UserContext(), c.Params("id"))
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, out)
}

// UpdateLicense godoc
// @Summary      Actualizar plan, vigencia o bloqueo de la licencia
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del tenant"
// @Param        body  body  dto.UpdateLicenseRequest  true  "Cambios de licencia"
// @Success      200   {object}  dto.Envelope{data=dto.LicenseResponse}
// @Failure      404   {object}  dto.Envelope
// @Router       /api/admin/tenants/{id}/license [put]
func (h *AdminHandler) UpdateLicense(c *fiber.Ctx) error {
	var in dto.UpdateLicenseRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.UpdateLicense(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, out)
}
