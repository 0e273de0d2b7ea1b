package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/reports"
)

// ReportHandler expone los reportes agregados del negocio.
type ReportHandler struct {
	uc *reports.UseCase
}

func NewReportHandler(uc *reports.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Sales godoc
// @Summary      Reporte de ventas por día, sucursal, método de pago y producto
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  true  "Fecha inicial YYYY-MM-DD"
// @Param        to    query  string  true  "Fecha final YYYY-MM-DD (inclusive)"
// @Success      200   {object}  dto.Envelope{data=dto.SalesReportDTO}
// @Failure      400   {object}  dto.Envelope
// @Router       /api/reports/sales [get]
func (h *ReportHandler) Sales(c *fiber.Ctx) error {
	out, err := h.uc.Sales(c.UserContext(), GetTenantID(c), c.Query("from"), c.Query("to"))
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, out)
}

// Purchases godoc
// @Summary      Reporte de compras por estado y proveedor
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  true  "Fecha inicial YYYY-MM-DD"
// @Param        to    query  string  true  "Fecha final YYYY-MM-DD (inclusive)"
// @Success      200   {object}  dto.Envelope{data=dto.PurchasesReportDTO}
// @Failure      400   {object}  dto.Envelope
// @Router       /api/reports/purchases [get]
func (h *ReportHandler) Purchases(c *fiber.Ctx) error {
	out, err := h.uc.Purchases(c.UserContext(), GetTenantID(c), c.Query("from"), c.Query("to"))
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, out)
}

// Cash godoc
// @Summary      Reporte de caja: ingresos, egresos y neto
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  true  "Fecha inicial YYYY-MM-DD"
// @Param        to    query  string  true  "Fecha final YYYY-MM-DD (inclusive)"
// @Success      200   {object}  dto.Envelope{data=dto.CashReportDTO}
// @Failure      400   {object}  dto.Envelope
// @Router       /api/reports/cash [get]
func (h *ReportHandler) Cash(c *fiber.Ctx) error {
	out, err := h.uc.Cash(c.UserContext(), GetTenantID(c), c.Query("from"), c.Query("to"))
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, out)
}

// DailySummary godoc
// @Summary      Resumen diario de ventas en XML firmado
// @Description  Genera el resumen del día en XML; si el negocio tiene
// @Description  certificado configurado, el documento se firma (XAdES).
// @Tags         reports
// @Security     Bearer
// @Produce      application/xml
// @Param        day  query  string  true  "Día YYYY-MM-DD"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.Envelope
// @Router       /api/reports/daily-summary [get]
func (h *ReportHandler) DailySummary(c *fiber.Ctx) error {
	xml, err := h.uc.DailySummary(c.UserContext(), GetTenantID(c), c.Query("day"))
	if err != nil {
		return failErr(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="resumen-diario.xml"`)
	return c.Send(xml)
}
