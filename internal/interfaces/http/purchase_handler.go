package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/purchasing"
)

// PurchaseHandler maneja las compras a proveedores.
type PurchaseHandler struct {
	uc *purchasing.UseCase
}

func NewPurchaseHandler(uc *purchasing.UseCase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar compra pendiente
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseRequest  true  "Compra con líneas"
// @Success      201   {object}  dto.Envelope{data=dto.PurchaseResponse}
// @Failure      400   {object}  dto.Envelope
// @Router       /api/purchases [post]
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	if len(in.Items) == 0 {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "la compra requiere al menos una línea")
	}
	out, err := h.uc.Create(c.UserContext(), GetTenantID(c), GetUserID(c), in)
	if err != nil {
		return failErr(c, err)
	}
	return created(c, out)
}

// Receive godoc
// @Summary      Recibir compra: suma stock y cierra la compra
// @Description  Operación idempotente: recibir dos veces la misma compra
// @Description  responde 409 sin duplicar existencias.
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la compra"
// @Success      200  {object}  dto.Envelope{data=dto.PurchaseResponse}
// @Failure      409  {object}  dto.Envelope
// @Router       /api/purchases/{id}/receive [post]
func (h *PurchaseHandler) Receive(c *fiber.Ctx) error {
	out, err := h.uc.Receive(c.UserContext(), GetTenantID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, out)
}

// GetByID godoc
// @Summary      Obtener compra por ID
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la compra"
// @Success      200  {object}  dto.Envelope{data=dto.PurchaseResponse}
// @Failure      404  {object}  dto.Envelope
// @Router       /api/purchases/{id} [get]
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(GetTenantID(c), c.Params("id"))
	if err != nil {
		return failErr(c, err)
	}
	if out == nil {
		return fail(c, fiber.StatusNotFound, "NOT_FOUND", "compra no encontrada")
	}
	return ok(c, out)
}

// List godoc
// @Summary      Listar compras del negocio
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pendiente | recibida | anulada"
// @Param        limit   query  int     false  "Límite"  default(50)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.Envelope{data=[]dto.PurchaseResponse}
// @Router       /api/purchases [get]
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	out, err := h.uc.List(GetTenantID(c), c.Query("status"), limit, offset)
	if err != nil {
		return failErr(c, err)
	}
	return okTotal(c, out, len(out))
}

// Cancel godoc
// @Summary      Anular compra pendiente
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la compra"
// @Success      200  {object}  dto.Envelope
// @Failure      409  {object}  dto.Envelope
// @Router       /api/purchases/{id}/cancel [post]
func (h *PurchaseHandler) Cancel(c *fiber.Ctx) error {
	if err := h.uc.Cancel(GetTenantID(c), c.Params("id")); err != nil {
		return failErr(c, err)
	}
	return c.JSON(dto.OKMessage("compra anulada"))
}
