package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/tenant"
)

// TenantHandler maneja organizaciones y membresías del usuario.
type TenantHandler struct {
	uc *tenant.UseCase
}

func NewTenantHandler(uc *tenant.UseCase) *TenantHandler {
	return &TenantHandler{uc: uc}
}

// Create godoc
// @Summary      Crear un negocio
// @Tags         tenants
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTenantRequest  true  "Datos del negocio"
// @Success      201   {object}  dto.Envelope{data=dto.TenantResponse}
// @Failure      409   {object}  dto.Envelope
// @Router       /api/tenants [post]
func (h *TenantHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTenantRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	if in.Name == "" {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "nombre es requerido")
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return failErr(c, err)
	}
	return created(c, out)
}

// Join godoc
// @Summary      Unirse a un negocio por código de invitación
// @Tags         tenants
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.JoinTenantRequest  true  "Código de invitación"
// @Success      200   {object}  dto.Envelope{data=dto.TenantResponse}
// @Failure      400   {object}  dto.Envelope
// @Router       /api/tenants/join [post]
func (h *TenantHandler) Join(c *fiber.Ctx) error {
	var in dto.JoinTenantRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	if in.JoinCode == "" {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "join_code es requerido")
	}
	out, err := h.uc.Join(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, out)
}

// SetActive godoc
// @Summary      Cambiar el negocio activo del usuario
// @Tags         tenants
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SetActiveTenantRequest  true  "Tenant destino"
// @Success      200   {object}  dto.Envelope{data=dto.TenantResponse}
// @Failure      403   {object}  dto.Envelope
// @Router       /api/tenants/active [put]
func (h *TenantHandler) SetActive(c *fiber.Ctx) error {
	var in dto.SetActiveTenantRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	if in.TenantID == "" {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "org_id es requerido")
	}
	out, err := h.uc.SetActive(c.UserContext(), GetUserID(c), in.TenantID)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, out)
}

// Current godoc
// @Summary      Negocio activo y módulos habilitados
// @Tags         tenants
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.Envelope
// @Failure      404  {object}  dto.Envelope
// @Router       /api/tenants/current [get]
func (h *TenantHandler) Current(c *fiber.Ctx) error {
	out, modules, err := h.uc.Current(c.UserContext(), GetUserID(c))
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.Map{"tenant": out, "modules": modules})
}

// SetModule godoc
// @Summary      Activar o desactivar un módulo del negocio
// @Tags         tenants
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SetModuleRequest  true  "Módulo y estado"
// @Success      200   {object}  dto.Envelope
// @Failure      400   {object}  dto.Envelope
// @Router       /api/tenants/modules [put]
func (h *TenantHandler) SetModule(c *fiber.Ctx) error {
	var in dto.SetModuleRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	if in.Module == "" {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "module es requerido")
	}
	if err := h.uc.SetModule(c.UserContext(), GetTenantID(c), in); err != nil {
		return failErr(c, err)
	}
	return c.JSON(dto.OKMessage("módulo actualizado"))
}
