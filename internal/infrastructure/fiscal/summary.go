// Package fiscal construye el resumen fiscal diario en XML y lo firma con
// el certificado configurado (firma enveloped RSA-SHA256 sobre el documento
// canonicalizado C14N).
package fiscal

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/beevik/etree"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/reports"
	"github.com/jhoicas/pos-api/internal/domain/entity"
)

var _ reports.FiscalSummaryGenerator = (*SummaryGenerator)(nil)

// SummaryGenerator implementa reports.FiscalSummaryGenerator. Con certificado
// vacío genera el XML sin firmar.
type SummaryGenerator struct {
	cert    tls.Certificate
	hasCert bool
}

// NewSummaryGenerator construye el generador. cert puede ser el valor cero si
// no hay certificado configurado.
func NewSummaryGenerator(cert tls.Certificate) *SummaryGenerator {
	return &SummaryGenerator{cert: cert, hasCert: len(cert.Certificate) > 0}
}

// GenerateDailySummary arma el XML del resumen del día y lo firma si hay
// certificado.
func (g *SummaryGenerator) GenerateDailySummary(
	_ context.Context,
	tenant *entity.Tenant,
	day time.Time,
	sales *dto.SalesReportDTO,
) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("ResumenDiario")
	root.CreateAttr("version", "1.0")

	neg := root.CreateElement("Negocio")
	neg.CreateElement("Nombre").SetText(tenant.Name)
	neg.CreateElement("Identificador").SetText(tenant.Slug)

	root.CreateElement("Fecha").SetText(day.Format("2006-01-02"))

	tot := root.CreateElement("Totales")
	tot.CreateElement("CantidadVentas").SetText(fmt.Sprintf("%d", sales.SaleCount))
	tot.CreateElement("TotalVendido").SetText(sales.Total.StringFixed(2))

	pagos := root.CreateElement("PorMetodoPago")
	for _, p := range sales.ByPayment {
		e := pagos.CreateElement("Pago")
		e.CreateAttr("metodo", p.Label)
		e.CreateAttr("cantidad", fmt.Sprintf("%d", p.Count))
		e.SetText(p.Total.StringFixed(2))
	}

	sucursales := root.CreateElement("PorSucursal")
	for _, b := range sales.ByBranch {
		e := sucursales.CreateElement("Sucursal")
		e.CreateAttr("id", b.BranchID)
		e.CreateAttr("nombre", b.BranchName)
		e.CreateAttr("cantidad", fmt.Sprintf("%d", b.Count))
		e.SetText(b.Total.StringFixed(2))
	}

	root.CreateElement("GeneradoEn").SetText(time.Now().UTC().Format(time.RFC3339))

	xmlBytes, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("fiscal: serializar resumen: %w", err)
	}
	if !g.hasCert {
		return xmlBytes, nil
	}
	return sign(xmlBytes, g.cert)
}
