package fiscal_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/infrastructure/fiscal"
)

func testSales() *dto.SalesReportDTO {
	return &dto.SalesReportDTO{
		From:      "2026-08-15",
		To:        "2026-08-15",
		Total:     decimal.NewFromInt(13000),
		SaleCount: 3,
		ByPayment: []dto.LabelTotalDTO{
			{Label: entity.PaymentCash, Total: decimal.NewFromInt(8000), Count: 2},
			{Label: entity.PaymentCard, Total: decimal.NewFromInt(5000), Count: 1},
		},
		ByBranch: []dto.BranchTotalDTO{
			{BranchID: "b-1", BranchName: "Central", Total: decimal.NewFromInt(13000), Count: 3},
		},
	}
}

func testTenant() *entity.Tenant {
	return &entity.Tenant{ID: "t-1", Name: "Almacén Doña Rosa", Slug: "almacen-dona-rosa"}
}

// selfSignedCert genera un certificado RSA autofirmado para las pruebas de
// firma.
func selfSignedCert(t *testing.T) tls.Certificate {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "pos-api test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &priv.PublicKey, priv)
	require.NoError(t, err)
	return tls.Certificate{Certificate: [][]byte{der}, PrivateKey: priv}
}

func TestGenerateDailySummary_SinCertificado(t *testing.T) {
	gen := fiscal.NewSummaryGenerator(tls.Certificate{})

	day := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	out, err := gen.GenerateDailySummary(context.Background(), testTenant(), day, testSales())
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))

	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "ResumenDiario", root.Tag)
	assert.Equal(t, "2026-08-15", root.SelectElement("Fecha").Text())
	assert.Equal(t, "Almacén Doña Rosa", root.FindElement("Negocio/Nombre").Text())
	assert.Equal(t, "3", root.FindElement("Totales/CantidadVentas").Text())
	assert.Equal(t, "13000.00", root.FindElement("Totales/TotalVendido").Text())

	pagos := root.FindElements("PorMetodoPago/Pago")
	require.Len(t, pagos, 2)
	assert.Equal(t, entity.PaymentCash, pagos[0].SelectAttrValue("metodo", ""))
	assert.Equal(t, "8000.00", pagos[0].Text())

	// Sin certificado el documento no lleva firma.
	assert.Nil(t, root.FindElement("//Signature"))
}

func TestGenerateDailySummary_ConCertificadoIncluyeFirma(t *testing.T) {
	gen := fiscal.NewSummaryGenerator(selfSignedCert(t))

	day := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	out, err := gen.GenerateDailySummary(context.Background(), testTenant(), day, testSales())
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	root := doc.Root()
	require.NotNil(t, root)

	// ds:Signature como último hijo de la raíz, con valor de firma y
	// certificado embebido.
	children := root.ChildElements()
	require.NotEmpty(t, children)
	sig := children[len(children)-1]
	assert.Equal(t, "Signature", sig.Tag)
	assert.NotEmpty(t, sig.FindElement("SignatureValue").Text())
	assert.NotEmpty(t, sig.FindElement("KeyInfo/X509Data/X509Certificate").Text())
	require.NotNil(t, sig.FindElement("SignedInfo/Reference/DigestValue"))
}

func TestLoadFromPEM_SinRutaDevuelveCertificadoVacio(t *testing.T) {
	cert, err := fiscal.LoadFromPEM("", "")
	require.NoError(t, err)
	assert.Empty(t, cert.Certificate)
}
