package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/usecase"
)

// UserHandler administra los usuarios del tenant (solo admin).
type UserHandler struct {
	uc *usecase.UserUseCase
}

func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// Create godoc
// @Summary      Crear usuario del negocio
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "Datos del usuario"
// @Success      201   {object}  dto.Envelope{data=dto.UserResponse}
// @Failure      409   {object}  dto.Envelope
// @Router       /api/users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	if in.Email == "" || in.Password == "" || in.Role == "" {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "email, password y role son requeridos")
	}
	out, err := h.uc.Create(GetTenantID(c), in)
	if err != nil {
		return failErr(c, err)
	}
	return created(c, out)
}

// List godoc
// @Summary      Listar usuarios del negocio
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(50)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.Envelope{data=[]dto.UserResponse}
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	out, err := h.uc.List(GetTenantID(c), limit, offset)
	if err != nil {
		return failErr(c, err)
	}
	return okTotal(c, out, len(out))
}

// Update godoc
// @Summary      Actualizar usuario del negocio
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del usuario"
// @Param        body  body  dto.UpdateUserRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.Envelope{data=dto.UserResponse}
// @Failure      404   {object}  dto.Envelope
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.Update(GetTenantID(c), c.Params("id"), in)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, out)
}

// SetOverrides godoc
// @Summary      Reemplazar overrides de permisos del usuario
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del usuario"
// @Param        body  body  dto.SetOverridesRequest  true  "Overrides por módulo"
// @Success      200   {object}  dto.Envelope
// @Failure      404   {object}  dto.Envelope
// @Router       /api/users/{id}/overrides [put]
func (h *UserHandler) SetOverrides(c *fiber.Ctx) error {
	var in dto.SetOverridesRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	if err := h.uc.SetOverrides(GetTenantID(c), c.Params("id"), in); err != nil {
		return failErr(c, err)
	}
	return c.JSON(dto.OKMessage("permisos actualizados"))
}

// Delete godoc
// @Summary      Eliminar usuario del negocio
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del usuario"
// @Success      200  {object}  dto.Envelope
// @Failure      404  {object}  dto.Envelope
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(GetTenantID(c), c.Params("id")); err != nil {
		return failErr(c, err)
	}
	return c.JSON(dto.OKMessage("usuario eliminado"))
}
