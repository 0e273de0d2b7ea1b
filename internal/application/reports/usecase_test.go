package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/reports"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

const tenantID = "t-1"

type fakeReportRepo struct {
	saleRows     []repository.SaleRow
	purchaseRows []repository.PurchaseRow
	cashRows     []repository.CashRow

	gotFrom, gotTo time.Time
}

func (r *fakeReportRepo) SaleRows(_ context.Context, _ string, from, to time.Time) ([]repository.SaleRow, error) {
	r.gotFrom, r.gotTo = from, to
	return r.saleRows, nil
}

func (r *fakeReportRepo) PurchaseRows(_ context.Context, _ string, from, to time.Time) ([]repository.PurchaseRow, error) {
	return r.purchaseRows, nil
}

func (r *fakeReportRepo) CashRows(_ context.Context, _ string, from, to time.Time) ([]repository.CashRow, error) {
	return r.cashRows, nil
}

type fakeTenantRepo struct {
	tenant *entity.Tenant
}

func (r *fakeTenantRepo) Create(*entity.Tenant) error { return nil }
func (r *fakeTenantRepo) GetByID(id string) (*entity.Tenant, error) {
	if r.tenant != nil && r.tenant.ID == id {
		return r.tenant, nil
	}
	return nil, nil
}
func (r *fakeTenantRepo) GetBySlug(string) (*entity.Tenant, error)     { return nil, nil }
func (r *fakeTenantRepo) GetByJoinCode(string) (*entity.Tenant, error) { return nil, nil }
func (r *fakeTenantRepo) Update(*entity.Tenant) error                  { return nil }
func (r *fakeTenantRepo) List(int, int) ([]*entity.Tenant, error)      { return nil, nil }
func (r *fakeTenantRepo) GetModules(context.Context, string) (map[string]bool, error) {
	return nil, nil
}
func (r *fakeTenantRepo) SetModule(context.Context, string, string, bool) error { return nil }
func (r *fakeTenantRepo) HasActiveModule(context.Context, string, string) (bool, error) {
	return true, nil
}

type fakeSummaryGen struct {
	gotDay   time.Time
	gotSales *dto.SalesReportDTO
}

func (g *fakeSummaryGen) GenerateDailySummary(_ context.Context, _ *entity.Tenant, day time.Time, sales *dto.SalesReportDTO) ([]byte, error) {
	g.gotDay = day
	g.gotSales = sales
	return []byte("<ResumenDiario/>"), nil
}

func saleRow(saleID, branchID, productID, payment string, qty, subtotal int64, soldAt time.Time) repository.SaleRow {
	return repository.SaleRow{
		SaleID:        saleID,
		BranchID:      branchID,
		BranchName:    "Sucursal " + branchID,
		ProductID:     productID,
		SKU:           "SKU-" + productID,
		ProductName:   "Producto " + productID,
		PaymentMethod: payment,
		Quantity:      decimal.NewFromInt(qty),
		Subtotal:      decimal.NewFromInt(subtotal),
		SoldAt:        soldAt,
	}
}

func TestParseRange_FinExclusivoAlDiaSiguiente(t *testing.T) {
	from, to, err := reports.ParseRange("2026-08-01", "2026-08-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC), to)
}

func TestParseRange_RangoInvertido(t *testing.T) {
	_, _, err := reports.ParseRange("2026-08-10", "2026-08-01")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = reports.ParseRange("01-08-2026", "2026-08-10")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSales_AgregaPorDiaSucursalYPago(t *testing.T) {
	day1 := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 2, 16, 30, 0, 0, time.UTC)
	repo := &fakeReportRepo{saleRows: []repository.SaleRow{
		// Venta s-1 con dos líneas: cuenta una sola vez.
		saleRow("s-1", "b-1", "p-1", entity.PaymentCash, 2, 2000, day1),
		saleRow("s-1", "b-1", "p-2", entity.PaymentCash, 1, 3000, day1),
		saleRow("s-2", "b-1", "p-1", entity.PaymentCard, 5, 5000, day1),
		saleRow("s-3", "b-2", "p-2", entity.PaymentCash, 1, 3000, day2),
	}}
	uc := reports.NewUseCase(repo, &fakeTenantRepo{}, &fakeSummaryGen{})

	out, err := uc.Sales(context.Background(), tenantID, "2026-08-01", "2026-08-02")
	require.NoError(t, err)

	assert.True(t, out.Total.Equal(decimal.NewFromInt(13000)))
	assert.Equal(t, 3, out.SaleCount, "tres ventas aunque s-1 tenga dos líneas")

	require.Len(t, out.ByDay, 2)
	assert.Equal(t, "2026-08-01", out.ByDay[0].Day)
	assert.True(t, out.ByDay[0].Total.Equal(decimal.NewFromInt(10000)))
	assert.Equal(t, 2, out.ByDay[0].Count)

	// Sucursales ordenadas por total descendente.
	require.Len(t, out.ByBranch, 2)
	assert.Equal(t, "b-1", out.ByBranch[0].BranchID)
	assert.True(t, out.ByBranch[0].Total.Equal(decimal.NewFromInt(10000)))

	require.Len(t, out.ByPayment, 2)
	assert.Equal(t, entity.PaymentCash, out.ByPayment[0].Label)
	assert.True(t, out.ByPayment[0].Total.Equal(decimal.NewFromInt(8000)))
	assert.Equal(t, 2, out.ByPayment[0].Count)

	// p-1: 2000 + 5000 = 7000 encabeza el top de productos.
	require.NotEmpty(t, out.TopProduct)
	assert.Equal(t, "p-1", out.TopProduct[0].ProductID)
	assert.True(t, out.TopProduct[0].Quantity.Equal(decimal.NewFromInt(7)))
}

func TestSales_RangoVacio(t *testing.T) {
	uc := reports.NewUseCase(&fakeReportRepo{}, &fakeTenantRepo{}, &fakeSummaryGen{})

	out, err := uc.Sales(context.Background(), tenantID, "2026-08-01", "2026-08-02")
	require.NoError(t, err)
	assert.True(t, out.Total.IsZero())
	assert.Zero(t, out.SaleCount)
	assert.Empty(t, out.ByDay)
}

func TestPurchases_AgrupaPorEstadoYProveedor(t *testing.T) {
	repo := &fakeReportRepo{purchaseRows: []repository.PurchaseRow{
		{PurchaseID: "c-1", Supplier: "Molinos SA", Status: entity.PurchaseStatusReceived, Total: decimal.NewFromInt(9800)},
		{PurchaseID: "c-2", Supplier: "Molinos SA", Status: entity.PurchaseStatusPending, Total: decimal.NewFromInt(5000)},
		{PurchaseID: "c-3", Supplier: "Distribuidora Sur", Status: entity.PurchaseStatusReceived, Total: decimal.NewFromInt(20000)},
	}}
	uc := reports.NewUseCase(repo, &fakeTenantRepo{}, &fakeSummaryGen{})

	out, err := uc.Purchases(context.Background(), tenantID, "2026-08-01", "2026-08-31")
	require.NoError(t, err)

	assert.True(t, out.Total.Equal(decimal.NewFromInt(34800)))
	assert.Equal(t, 3, out.Count)

	require.Len(t, out.ByStatus, 2)
	require.Len(t, out.BySupplier, 2)
	assert.Equal(t, "Distribuidora Sur", out.BySupplier[0].Label)
	assert.True(t, out.BySupplier[0].Total.Equal(decimal.NewFromInt(20000)))
}

func TestCash_NetoSeparaIngresosDeEgresos(t *testing.T) {
	repo := &fakeReportRepo{cashRows: []repository.CashRow{
		{SessionID: "cs-1", BranchID: "b-1", Type: entity.CashEntryIncome, Amount: decimal.NewFromInt(10000)},
		{SessionID: "cs-1", BranchID: "b-1", Type: entity.CashEntrySale, Amount: decimal.NewFromInt(5950)},
		{SessionID: "cs-1", BranchID: "b-1", Type: entity.CashEntryExpense, Amount: decimal.NewFromInt(2000)},
	}}
	uc := reports.NewUseCase(repo, &fakeTenantRepo{}, &fakeSummaryGen{})

	out, err := uc.Cash(context.Background(), tenantID, "2026-08-01", "2026-08-31")
	require.NoError(t, err)

	assert.True(t, out.Income.Equal(decimal.NewFromInt(15950)))
	assert.True(t, out.Expense.Equal(decimal.NewFromInt(2000)))
	assert.True(t, out.Net.Equal(decimal.NewFromInt(13950)))
	assert.Len(t, out.ByType, 3)
}

func TestDailySummary_PasaVentasDelDiaAlGenerador(t *testing.T) {
	day := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	repo := &fakeReportRepo{saleRows: []repository.SaleRow{
		saleRow("s-1", "b-1", "p-1", entity.PaymentCash, 1, 1190, day),
	}}
	gen := &fakeSummaryGen{}
	tenants := &fakeTenantRepo{tenant: &entity.Tenant{ID: tenantID, Name: "Almacén Doña Rosa"}}
	uc := reports.NewUseCase(repo, tenants, gen)

	xml, err := uc.DailySummary(context.Background(), tenantID, "2026-08-15")
	require.NoError(t, err)
	assert.Contains(t, string(xml), "ResumenDiario")

	assert.Equal(t, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), gen.gotDay)
	require.NotNil(t, gen.gotSales)
	assert.True(t, gen.gotSales.Total.Equal(decimal.NewFromInt(1190)))
}

func TestDailySummary_TenantInexistente(t *testing.T) {
	uc := reports.NewUseCase(&fakeReportRepo{}, &fakeTenantRepo{}, &fakeSummaryGen{})

	_, err := uc.DailySummary(context.Background(), "t-otro", "2026-08-15")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
