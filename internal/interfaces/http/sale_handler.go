package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/sales"
)

// SaleHandler maneja ventas inmediatas, preventas y repartos.
type SaleHandler struct {
	uc *sales.UseCase
}

func NewSaleHandler(uc *sales.UseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar venta inmediata
// @Description  Descuenta stock, numera la venta y, si el pago es en efectivo
// @Description  con caja abierta, registra el ingreso en la sesión.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Venta con líneas"
// @Success      201   {object}  dto.Envelope{data=dto.SaleResponse}
// @Failure      409   {object}  dto.Envelope
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	if in.BranchID == "" || len(in.Items) == 0 {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "branch_id e items son requeridos")
	}
	out, err := h.uc.Create(c.UserContext(), GetTenantID(c), GetUserID(c), in)
	if err != nil {
		return failErr(c, err)
	}
	return created(c, out)
}

// CreatePresale godoc
// @Summary      Registrar preventa (no afecta stock)
// @Tags         presales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePresaleRequest  true  "Preventa con líneas"
// @Success      201   {object}  dto.Envelope{data=dto.SaleResponse}
// @Failure      400   {object}  dto.Envelope
// @Router       /api/presales [post]
func (h *SaleHandler) CreatePresale(c *fiber.Ctx) error {
	var in dto.CreatePresaleRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	if in.BranchID == "" || len(in.Items) == 0 {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "branch_id e items son requeridos")
	}
	out, err := h.uc.CreatePresale(c.UserContext(), GetTenantID(c), GetUserID(c), in)
	if err != nil {
		return failErr(c, err)
	}
	return created(c, out)
}

// ConfirmPresale godoc
// @Summary      Confirmar preventa: descuenta stock y cobra
// @Tags         presales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la preventa"
// @Param        body  body  dto.ConfirmPresaleRequest  true  "Pago y reparto"
// @Success      200   {object}  dto.Envelope{data=dto.SaleResponse}
// @Failure      409   {object}  dto.Envelope
// @Router       /api/presales/{id}/confirm [post]
func (h *SaleHandler) ConfirmPresale(c *fiber.Ctx) error {
	var in dto.ConfirmPresaleRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.ConfirmPresale(c.UserContext(), GetTenantID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, out)
}

// GetByID godoc
// @Summary      Obtener venta por ID con sus líneas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {object}  dto.Envelope{data=dto.SaleResponse}
// @Failure      404  {object}  dto.Envelope
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(GetTenantID(c), c.Params("id"))
	if err != nil {
		return failErr(c, err)
	}
	if out == nil {
		return fail(c, fiber.StatusNotFound, "NOT_FOUND", "venta no encontrada")
	}
	return ok(c, out)
}

// Receipt godoc
// @Summary      Recibo de la venta en PDF
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.Envelope
// @Router       /api/sales/{id}/receipt [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	pdf, err := h.uc.Receipt(c.UserContext(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return failErr(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="recibo.pdf"`)
	return c.Send(pdf)
}

// List godoc
// @Summary      Listar ventas del negocio
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        type    query  string  false  "inmediata | preventa"
// @Param        status  query  string  false  "pendiente | confirmada | anulada"
// @Param        limit   query  int     false  "Límite"  default(50)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.Envelope{data=[]dto.SaleResponse}
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	out, err := h.uc.List(GetTenantID(c), c.Query("type"), c.Query("status"), limit, offset)
	if err != nil {
		return failErr(c, err)
	}
	return okTotal(c, out, len(out))
}

// ListDeliveries godoc
// @Summary      Listar repartos
// @Tags         deliveries
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pendiente | en_ruta | entregada | fallida"
// @Param        limit   query  int     false  "Límite"  default(50)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.Envelope{data=[]dto.DeliveryResponse}
// @Router       /api/deliveries [get]
func (h *SaleHandler) ListDeliveries(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	out, err := h.uc.ListDeliveries(GetTenantID(c), c.Query("status"), limit, offset)
	if err != nil {
		return failErr(c, err)
	}
	return okTotal(c, out, len(out))
}

// UpdateDelivery godoc
// @Summary      Actualizar estado del reparto
// @Description  Solo admite transiciones válidas; estados finales no cambian.
// @Tags         deliveries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del reparto"
// @Param        body  body  dto.UpdateDeliveryRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.Envelope{data=dto.DeliveryResponse}
// @Failure      409   {object}  dto.Envelope
// @Router       /api/deliveries/{id} [put]
func (h *SaleHandler) UpdateDelivery(c *fiber.Ctx) error {
	var in dto.UpdateDeliveryRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.UpdateDelivery(GetTenantID(c), c.Params("id"), in)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, out)
}
