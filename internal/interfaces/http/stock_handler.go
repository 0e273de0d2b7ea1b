package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/usecase"
)

// StockHandler maneja existencias y ajustes manuales por sucursal.
type StockHandler struct {
	uc *usecase.StockUseCase
}

func NewStockHandler(uc *usecase.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Get godoc
// @Summary      Existencias de un producto en una sucursal
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id         path   string  true  "ID del producto"
// @Param        branch_id  query  string  true  "ID de la sucursal"
// @Success      200        {object}  dto.Envelope{data=dto.StockResponse}
// @Failure      404        {object}  dto.Envelope
// @Router       /api/products/{id}/stock [get]
func (h *StockHandler) Get(c *fiber.Ctx) error {
	branchID := c.Query("branch_id")
	if branchID == "" {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "branch_id es requerido")
	}
	out, err := h.uc.Get(GetTenantID(c), c.Params("id"), branchID)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, out)
}

// Adjust godoc
// @Summary      Ajuste manual de stock (delta con signo)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.AdjustStockRequest  true  "Ajuste"
// @Success      200   {object}  dto.Envelope{data=dto.StockResponse}
// @Failure      409   {object}  dto.Envelope
// @Router       /api/products/{id}/stock/adjust [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	if in.BranchID == "" {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "branch_id es requerido")
	}
	out, err := h.uc.Adjust(c.UserContext(), GetTenantID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, out)
}

// ListByBranch godoc
// @Summary      Existencias de todos los productos de una sucursal
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la sucursal"
// @Success      200  {object}  dto.Envelope{data=[]dto.StockResponse}
// @Router       /api/branches/{id}/stock [get]
func (h *StockHandler) ListByBranch(c *fiber.Ctx) error {
	out, err := h.uc.ListByBranch(GetTenantID(c), c.Params("id"))
	if err != nil {
		return failErr(c, err)
	}
	return okTotal(c, out, len(out))
}

// Movements godoc
// @Summary      Historial de movimientos de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true  "ID del producto"
// @Param        limit   query  int     false  "Límite"  default(50)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.Envelope{data=[]dto.StockMovementResponse}
// @Router       /api/products/{id}/movements [get]
func (h *StockHandler) Movements(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	out, err := h.uc.Movements(GetTenantID(c), c.Params("id"), limit, offset)
	if err != nil {
		return failErr(c, err)
	}
	return okTotal(c, out, len(out))
}
