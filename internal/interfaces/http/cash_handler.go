package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/cash"
	"github.com/jhoicas/pos-api/internal/application/dto"
)

// CashHandler maneja sesiones y movimientos de caja.
type CashHandler struct {
	uc *cash.UseCase
}

func NewCashHandler(uc *cash.UseCase) *CashHandler {
	return &CashHandler{uc: uc}
}

// Open godoc
// @Summary      Abrir sesión de caja en una sucursal
// @Description  Solo puede existir una sesión abierta por sucursal.
// @Tags         cash
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenSessionRequest  true  "Sucursal y monto inicial"
// @Success      201   {object}  dto.Envelope{data=dto.CashSessionResponse}
// @Failure      409   {object}  dto.Envelope
// @Router       /api/cash/sessions [post]
func (h *CashHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	if in.BranchID == "" {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "branch_id es requerido")
	}
	out, err := h.uc.Open(c.UserContext(), GetTenantID(c), GetUserID(c), in)
	if err != nil {
		return failErr(c, err)
	}
	return created(c, out)
}

// Close godoc
// @Summary      Cerrar sesión de caja con arqueo
// @Tags         cash
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la sesión"
// @Param        body  body  dto.CloseSessionRequest  true  "Monto contado"
// @Success      200   {object}  dto.Envelope{data=dto.CashSessionResponse}
// @Failure      409   {object}  dto.Envelope
// @Router       /api/cash/sessions/{id}/close [post]
func (h *CashHandler) Close(c *fiber.Ctx) error {
	var in dto.CloseSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.Close(c.UserContext(), GetTenantID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, out)
}

// AddEntry godoc
// @Summary      Registrar ingreso o egreso manual en la sesión
// @Tags         cash
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la sesión"
// @Param        body  body  dto.AddEntryRequest  true  "Movimiento"
// @Success      201   {object}  dto.Envelope{data=dto.CashEntryResponse}
// @Failure      409   {object}  dto.Envelope
// @Router       /api/cash/sessions/{id}/entries [post]
func (h *CashHandler) AddEntry(c *fiber.Ctx) error {
	var in dto.AddEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.AddEntry(c.UserContext(), GetTenantID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return failErr(c, err)
	}
	return created(c, out)
}

// Current godoc
// @Summary      Sesión abierta de una sucursal
// @Tags         cash
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  true  "ID de la sucursal"
// @Success      200        {object}  dto.Envelope{data=dto.CashSessionResponse}
// @Failure      404        {object}  dto.Envelope
// @Router       /api/cash/current [get]
func (h *CashHandler) Current(c *fiber.Ctx) error {
	branchID := c.Query("branch_id")
	if branchID == "" {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "branch_id es requerido")
	}
	out, err := h.uc.Current(GetTenantID(c), branchID)
	if err != nil {
		return failErr(c, err)
	}
	if out == nil {
		return fail(c, fiber.StatusNotFound, "NOT_FOUND", "no hay sesión abierta en la sucursal")
	}
	return ok(c, out)
}

// ListSessions godoc
// @Summary      Historial de sesiones de caja
// @Tags         cash
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Filtrar por sucursal"
// @Param        limit      query  int     false  "Límite"  default(50)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200        {object}  dto.Envelope{data=[]dto.CashSessionResponse}
// @Router       /api/cash/sessions [get]
func (h *CashHandler) ListSessions(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	out, err := h.uc.ListSessions(GetTenantID(c), c.Query("branch_id"), limit, offset)
	if err != nil {
		return failErr(c, err)
	}
	return okTotal(c, out, len(out))
}

// ListEntries godoc
// @Summary      Movimientos de una sesión de caja
// @Tags         cash
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true  "ID de la sesión"
// @Param        limit   query  int     false  "Límite"  default(100)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.Envelope{data=[]dto.CashEntryResponse}
// @Router       /api/cash/sessions/{id}/entries [get]
func (h *CashHandler) ListEntries(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	offset := c.QueryInt("offset", 0)
	out, err := h.uc.ListEntries(GetTenantID(c), c.Params("id"), limit, offset)
	if err != nil {
		return failErr(c, err)
	}
	return okTotal(c, out, len(out))
}
