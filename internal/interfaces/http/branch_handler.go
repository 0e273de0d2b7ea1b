package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/usecase"
)

// BranchHandler maneja las sucursales del tenant.
type BranchHandler struct {
	uc *usecase.BranchUseCase
}

func NewBranchHandler(uc *usecase.BranchUseCase) *BranchHandler {
	return &BranchHandler{uc: uc}
}

// Create godoc
// @Summary      Crear sucursal
// @Tags         branches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBranchRequest  true  "Datos de la sucursal"
// @Success      201   {object}  dto.Envelope{data=dto.BranchResponse}
// @Failure      400   {object}  dto.Envelope
// @Router       /api/branches [post]
func (h *BranchHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBranchRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	if in.Name == "" {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "name es requerido")
	}
	out, err := h.uc.Create(GetTenantID(c), in)
	if err != nil {
		return failErr(c, err)
	}
	return created(c, out)
}

// GetByID godoc
// @Summary      Obtener sucursal por ID
// @Tags         branches
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la sucursal"
// @Success      200  {object}  dto.Envelope{data=dto.BranchResponse}
// @Failure      404  {object}  dto.Envelope
// @Router       /api/branches/{id} [get]
func (h *BranchHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(GetTenantID(c), c.Params("id"))
	if err != nil {
		return failErr(c, err)
	}
	if out == nil {
		return fail(c, fiber.StatusNotFound, "NOT_FOUND", "sucursal no encontrada")
	}
	return ok(c, out)
}

// List godoc
// @Summary      Listar sucursales del negocio
// @Tags         branches
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(50)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.Envelope{data=[]dto.BranchResponse}
// @Router       /api/branches [get]
func (h *BranchHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	out, err := h.uc.List(GetTenantID(c), limit, offset)
	if err != nil {
		return failErr(c, err)
	}
	return okTotal(c, out, len(out))
}

// Update godoc
// @Summary      Actualizar sucursal
// @Tags         branches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la sucursal"
// @Param        body  body  dto.UpdateBranchRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.Envelope{data=dto.BranchResponse}
// @Failure      404   {object}  dto.Envelope
// @Router       /api/branches/{id} [put]
func (h *BranchHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateBranchRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.Update(GetTenantID(c), c.Params("id"), in)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, out)
}
