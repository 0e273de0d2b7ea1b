package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/usecase"
)

// ProductHandler maneja el catálogo de productos del tenant.
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.Envelope{data=dto.ProductResponse}
// @Failure      400   {object}  dto.Envelope
// @Failure      409   {object}  dto.Envelope
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	if in.SKU == "" || in.Name == "" {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "sku y name son requeridos")
	}
	out, err := h.uc.Create(GetTenantID(c), in)
	if err != nil {
		return failErr(c, err)
	}
	return created(c, out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.Envelope{data=dto.ProductResponse}
// @Failure      404  {object}  dto.Envelope
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(GetTenantID(c), c.Params("id"))
	if err != nil {
		return failErr(c, err)
	}
	if out == nil {
		return fail(c, fiber.StatusNotFound, "NOT_FOUND", "producto no encontrado")
	}
	return ok(c, out)
}

// List godoc
// @Summary      Listar productos del negocio
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        q       query  string  false  "Búsqueda por nombre (sin tildes) o SKU exacto"
// @Param        limit   query  int     false  "Límite"  default(50)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.Envelope{data=[]dto.ProductResponse}
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	q := c.Query("q")

	var (
		out []dto.ProductResponse
		err error
	)
	if q != "" {
		out, err = h.uc.Search(GetTenantID(c), q, limit, offset)
	} else {
		out, err = h.uc.List(GetTenantID(c), limit, offset)
	}
	if err != nil {
		return failErr(c, err)
	}
	return okTotal(c, out, len(out))
}

// Update godoc
// @Summary      Actualizar producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.Envelope{data=dto.ProductResponse}
// @Failure      404   {object}  dto.Envelope
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.Update(GetTenantID(c), c.Params("id"), in)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, out)
}
