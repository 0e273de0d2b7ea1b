package sales_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/sales"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

const (
	tenantID = "t-1"
	branchID = "b-1"
	userID   = "u-1"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeSaleRepo struct {
	sales    map[string]*entity.Sale
	items    map[string][]entity.SaleItem
	counters map[string]int64
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{
		sales:    map[string]*entity.Sale{},
		items:    map[string][]entity.SaleItem{},
		counters: map[string]int64{},
	}
}

func (r *fakeSaleRepo) Create(s *entity.Sale, items []entity.SaleItem) error {
	cp := *s
	r.sales[s.ID] = &cp
	r.items[s.ID] = items
	return nil
}

func (r *fakeSaleRepo) GetByID(id string) (*entity.Sale, error) {
	if s, found := r.sales[id]; found {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeSaleRepo) GetForUpdate(id string) (*entity.Sale, error) { return r.GetByID(id) }

func (r *fakeSaleRepo) ItemsBySale(saleID string) ([]entity.SaleItem, error) {
	return r.items[saleID], nil
}

func (r *fakeSaleRepo) ListByTenant(tid, saleType, status string, limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, s := range r.sales {
		if s.TenantID != tid {
			continue
		}
		if saleType != "" && s.Type != saleType {
			continue
		}
		if status != "" && s.Status != status {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeSaleRepo) UpdateStatus(id, status string) error {
	if s, found := r.sales[id]; found {
		s.Status = status
	}
	return nil
}

func (r *fakeSaleRepo) Update(s *entity.Sale) error {
	cp := *s
	r.sales[s.ID] = &cp
	return nil
}

func (r *fakeSaleRepo) NextNumber(tid string) (int64, error) {
	r.counters[tid]++
	return r.counters[tid], nil
}

func (r *fakeSaleRepo) ListBetween(tid string, from, to time.Time) ([]*entity.Sale, error) {
	return nil, nil
}

type fakeDeliveryRepo struct {
	deliveries  map[string]*entity.Delivery
	failCreate  bool
	tx          *fakeSaleTxRunner // para observar si la operación corre dentro de la transacción
	createdInTx bool
	updatedInTx bool
}

func (r *fakeDeliveryRepo) Create(d *entity.Delivery) error {
	if r.failCreate {
		return errors.New("insert delivery: fallo simulado")
	}
	if r.tx != nil {
		r.createdInTx = r.tx.inTx
	}
	cp := *d
	r.deliveries[d.ID] = &cp
	return nil
}

func (r *fakeDeliveryRepo) GetByID(id string) (*entity.Delivery, error) {
	if d, found := r.deliveries[id]; found {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeDeliveryRepo) GetBySale(saleID string) (*entity.Delivery, error) {
	for _, d := range r.deliveries {
		if d.SaleID == saleID {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeDeliveryRepo) Update(d *entity.Delivery) error {
	if r.tx != nil {
		r.updatedInTx = r.tx.inTx
	}
	cp := *d
	r.deliveries[d.ID] = &cp
	return nil
}

func (r *fakeDeliveryRepo) ListByTenant(tid, status string, limit, offset int) ([]*entity.Delivery, error) {
	var out []*entity.Delivery
	for _, d := range r.deliveries {
		if d.TenantID == tid && (status == "" || d.Status == status) {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeStockRepo struct {
	stock map[string]*entity.Stock
}

func stockKey(productID, bID string) string { return productID + "|" + bID }

func (r *fakeStockRepo) Get(productID, bID string) (*entity.Stock, error) {
	if s, found := r.stock[stockKey(productID, bID)]; found {
		cp := *s
		return &cp, nil
	}
	return &entity.Stock{ProductID: productID, BranchID: bID, Quantity: decimal.Zero}, nil
}

func (r *fakeStockRepo) GetForUpdate(productID, bID string) (*entity.Stock, error) {
	return r.Get(productID, bID)
}

func (r *fakeStockRepo) Upsert(s *entity.Stock) error {
	cp := *s
	r.stock[stockKey(s.ProductID, s.BranchID)] = &cp
	return nil
}

func (r *fakeStockRepo) ListByBranch(bID string) ([]*entity.Stock, error) { return nil, nil }

type fakeMovementRepo struct {
	movements []*entity.StockMovement
}

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	cp := *m
	r.movements = append(r.movements, &cp)
	return nil
}

func (r *fakeMovementRepo) ListByProduct(tid, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	return nil, nil
}

type fakeCashRepo struct {
	sessions map[string]*entity.CashSession
	entries  []*entity.CashEntry
}

func (r *fakeCashRepo) CreateSession(s *entity.CashSession) error {
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *fakeCashRepo) GetSession(id string) (*entity.CashSession, error) {
	if s, found := r.sessions[id]; found {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeCashRepo) GetSessionForUpdate(id string) (*entity.CashSession, error) {
	return r.GetSession(id)
}

func (r *fakeCashRepo) GetOpenByBranch(bID string) (*entity.CashSession, error) {
	for _, s := range r.sessions {
		if s.BranchID == bID && s.Status == entity.CashSessionOpen {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCashRepo) UpdateSession(s *entity.CashSession) error {
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *fakeCashRepo) ListSessions(tid, bID string, limit, offset int) ([]*entity.CashSession, error) {
	return nil, nil
}

func (r *fakeCashRepo) AddEntry(e *entity.CashEntry) error {
	cp := *e
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *fakeCashRepo) ListEntries(sessionID string, limit, offset int) ([]*entity.CashEntry, error) {
	return nil, nil
}

func (r *fakeCashRepo) SumEntries(sessionID string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func (r *fakeProductRepo) Create(p *entity.Product) error { return nil }
func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	if p, found := r.products[id]; found {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}
func (r *fakeProductRepo) GetBySKU(tid, sku string) (*entity.Product, error) { return nil, nil }
func (r *fakeProductRepo) Update(p *entity.Product) error                    { return nil }
func (r *fakeProductRepo) List(tid string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}
func (r *fakeProductRepo) Search(tid, q string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}

type fakeBranchRepo struct {
	branches map[string]*entity.Branch
}

func (r *fakeBranchRepo) Create(b *entity.Branch) error { return nil }
func (r *fakeBranchRepo) Update(b *entity.Branch) error { return nil }
func (r *fakeBranchRepo) GetByID(id string) (*entity.Branch, error) {
	if b, found := r.branches[id]; found {
		return b, nil
	}
	return nil, nil
}
func (r *fakeBranchRepo) ListByTenant(tid string, limit, offset int) ([]*entity.Branch, error) {
	return nil, nil
}

type fakeTenantRepo struct{}

func (fakeTenantRepo) Create(*entity.Tenant) error                  { return nil }
func (fakeTenantRepo) GetByID(string) (*entity.Tenant, error)       { return nil, nil }
func (fakeTenantRepo) GetBySlug(string) (*entity.Tenant, error)     { return nil, nil }
func (fakeTenantRepo) GetByJoinCode(string) (*entity.Tenant, error) { return nil, nil }
func (fakeTenantRepo) Update(*entity.Tenant) error                  { return nil }
func (fakeTenantRepo) List(int, int) ([]*entity.Tenant, error)      { return nil, nil }
func (fakeTenantRepo) GetModules(context.Context, string) (map[string]bool, error) {
	return nil, nil
}
func (fakeTenantRepo) SetModule(context.Context, string, string, bool) error { return nil }
func (fakeTenantRepo) HasActiveModule(context.Context, string, string) (bool, error) {
	return true, nil
}

type fakeSaleTxRunner struct {
	saleRepo     repository.SaleRepository
	stockRepo    repository.StockRepository
	movRepo      repository.StockMovementRepository
	cashRepo     repository.CashRepository
	deliveryRepo repository.DeliveryRepository
	inTx         bool
}

func (r *fakeSaleTxRunner) RunSale(_ context.Context, fn func(
	saleRepo repository.SaleRepository,
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	cashRepo repository.CashRepository,
	deliveryRepo repository.DeliveryRepository,
) error) error {
	r.inTx = true
	defer func() { r.inTx = false }()
	return fn(r.saleRepo, r.stockRepo, r.movRepo, r.cashRepo, r.deliveryRepo)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	uc         *sales.UseCase
	saleRepo   *fakeSaleRepo
	stock      *fakeStockRepo
	movements  *fakeMovementRepo
	cashRepo   *fakeCashRepo
	deliveries *fakeDeliveryRepo
}

func newFixture() *fixture {
	saleRepo := newFakeSaleRepo()
	stock := &fakeStockRepo{stock: map[string]*entity.Stock{
		stockKey("p-1", branchID): {ProductID: "p-1", BranchID: branchID, Quantity: decimal.NewFromInt(20)},
	}}
	movements := &fakeMovementRepo{}
	cashRepo := &fakeCashRepo{sessions: map[string]*entity.CashSession{}}
	deliveries := &fakeDeliveryRepo{deliveries: map[string]*entity.Delivery{}}
	products := &fakeProductRepo{products: map[string]*entity.Product{
		"p-1": {
			ID: "p-1", TenantID: tenantID, SKU: "SKU-1", Name: "Pan",
			Price:   decimal.NewFromInt(1000),
			TaxRate: decimal.NewFromFloat(0.19),
			Active:  true,
		},
	}}
	branches := &fakeBranchRepo{branches: map[string]*entity.Branch{
		branchID: {ID: branchID, TenantID: tenantID, Name: "Central", Active: true},
	}}
	runner := &fakeSaleTxRunner{saleRepo: saleRepo, stockRepo: stock, movRepo: movements, cashRepo: cashRepo, deliveryRepo: deliveries}
	deliveries.tx = runner
	uc := sales.NewUseCase(runner, saleRepo, deliveries, products, branches, cashRepo, fakeTenantRepo{}, nil)
	return &fixture{
		uc:         uc,
		saleRepo:   saleRepo,
		stock:      stock,
		movements:  movements,
		cashRepo:   cashRepo,
		deliveries: deliveries,
	}
}

func saleRequest(qty int64, payment string, paid int64) dto.CreateSaleRequest {
	return dto.CreateSaleRequest{
		BranchID:      branchID,
		PaymentMethod: payment,
		AmountPaid:    decimal.NewFromInt(paid),
		Items: []dto.SaleItemRequest{
			{ProductID: "p-1", Quantity: decimal.NewFromInt(qty)},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests venta inmediata
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_CalculaTotalesYDescuentaStock(t *testing.T) {
	f := newFixture()

	// 5 * 1000 = 5000 neto; IVA 19% = 950; total 5950.
	out, err := f.uc.Create(context.Background(), tenantID, userID, saleRequest(5, entity.PaymentCard, 5950))
	require.NoError(t, err)

	assert.Equal(t, entity.SaleTypeImmediate, out.Type)
	assert.Equal(t, entity.SaleStatusConfirmed, out.Status)
	assert.EqualValues(t, 1, out.Number)
	assert.True(t, out.NetTotal.Equal(decimal.NewFromInt(5000)))
	assert.True(t, out.TaxTotal.Equal(decimal.NewFromInt(950)))
	assert.True(t, out.GrandTotal.Equal(decimal.NewFromInt(5950)))
	assert.True(t, out.Change.Equal(decimal.Zero))

	stock, _ := f.stock.Get("p-1", branchID)
	assert.True(t, stock.Quantity.Equal(decimal.NewFromInt(15)),
		"stock = %s, esperado 15", stock.Quantity)

	require.Len(t, f.movements.movements, 1)
	assert.Equal(t, entity.MovementTypeOUT, f.movements.movements[0].Type)
	assert.Equal(t, out.ID, f.movements.movements[0].RefID)
}

func TestCreate_NumeracionConsecutivaPorTenant(t *testing.T) {
	f := newFixture()

	first, err := f.uc.Create(context.Background(), tenantID, userID, saleRequest(1, entity.PaymentCard, 1190))
	require.NoError(t, err)
	second, err := f.uc.Create(context.Background(), tenantID, userID, saleRequest(1, entity.PaymentCard, 1190))
	require.NoError(t, err)

	assert.EqualValues(t, 1, first.Number)
	assert.EqualValues(t, 2, second.Number)
}

func TestCreate_StockInsuficiente_AbortaVenta(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Create(context.Background(), tenantID, userID, saleRequest(25, entity.PaymentCard, 50000))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// El stock no cambia y no se persiste venta.
	stock, _ := f.stock.Get("p-1", branchID)
	assert.True(t, stock.Quantity.Equal(decimal.NewFromInt(20)))
	assert.Empty(t, f.saleRepo.sales)
}

func TestCreate_PagoInsuficiente_ErrInvalidInput(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Create(context.Background(), tenantID, userID, saleRequest(5, entity.PaymentCash, 5000))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Venta en efectivo con sesión de caja abierta registra el ingreso tipo
// "venta" y actualiza el balance de la sesión.
func TestCreate_EfectivoConCajaAbierta_RegistraIngreso(t *testing.T) {
	f := newFixture()
	f.cashRepo.sessions["cs-1"] = &entity.CashSession{
		ID: "cs-1", TenantID: tenantID, BranchID: branchID,
		Status: entity.CashSessionOpen, Balance: decimal.NewFromInt(10000),
	}

	out, err := f.uc.Create(context.Background(), tenantID, userID, saleRequest(5, entity.PaymentCash, 6000))
	require.NoError(t, err)
	assert.True(t, out.Change.Equal(decimal.NewFromInt(50)))

	require.Len(t, f.cashRepo.entries, 1)
	entry := f.cashRepo.entries[0]
	assert.Equal(t, entity.CashEntrySale, entry.Type)
	assert.Equal(t, out.ID, entry.RefID)
	assert.True(t, entry.Amount.Equal(decimal.NewFromInt(5950)))

	session, _ := f.cashRepo.GetSession("cs-1")
	assert.True(t, session.Balance.Equal(decimal.NewFromInt(15950)))
}

// Sin sesión de caja abierta la venta en efectivo procede sin ingreso.
func TestCreate_EfectivoSinCaja_VentaProcede(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Create(context.Background(), tenantID, userID, saleRequest(5, entity.PaymentCash, 6000))
	require.NoError(t, err)
	assert.Empty(t, f.cashRepo.entries)
}

// Pago con tarjeta nunca toca la caja aunque haya sesión abierta.
func TestCreate_TarjetaNoTocaCaja(t *testing.T) {
	f := newFixture()
	f.cashRepo.sessions["cs-1"] = &entity.CashSession{
		ID: "cs-1", TenantID: tenantID, BranchID: branchID,
		Status: entity.CashSessionOpen, Balance: decimal.Zero,
	}

	_, err := f.uc.Create(context.Background(), tenantID, userID, saleRequest(5, entity.PaymentCard, 5950))
	require.NoError(t, err)
	assert.Empty(t, f.cashRepo.entries)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests preventa
// ──────────────────────────────────────────────────────────────────────────────

func presaleRequest() dto.CreatePresaleRequest {
	return dto.CreatePresaleRequest{
		BranchID:     branchID,
		CustomerName: "María",
		Address:      "Calle 1 #23",
		Zone:         "norte",
		Items: []dto.SaleItemRequest{
			{ProductID: "p-1", Quantity: decimal.NewFromInt(5)},
		},
	}
}

func TestCreatePresale_NoAfectaStock(t *testing.T) {
	f := newFixture()

	out, err := f.uc.CreatePresale(context.Background(), tenantID, userID, presaleRequest())
	require.NoError(t, err)

	assert.Equal(t, entity.SaleTypePresale, out.Type)
	assert.Equal(t, entity.SaleStatusPending, out.Status)

	stock, _ := f.stock.Get("p-1", branchID)
	assert.True(t, stock.Quantity.Equal(decimal.NewFromInt(20)),
		"la preventa no debe descontar stock")

	// Con dirección se crea el reparto pendiente, dentro de la transacción.
	d, _ := f.deliveries.GetBySale(out.ID)
	require.NotNil(t, d)
	assert.Equal(t, entity.DeliveryStatusPending, d.Status)
	assert.True(t, f.deliveries.createdInTx,
		"el reparto debe insertarse dentro de la transacción de la preventa")
}

// Si el insert del reparto falla, la preventa completa falla: el reparto no
// puede quedar fuera de la transacción de la venta.
func TestCreatePresale_FalloDeReparto_AbortaPreventa(t *testing.T) {
	f := newFixture()
	f.deliveries.failCreate = true

	_, err := f.uc.CreatePresale(context.Background(), tenantID, userID, presaleRequest())
	require.Error(t, err)
	assert.Empty(t, f.deliveries.deliveries)
}

func TestConfirmPresale_DescuentaStockYCobra(t *testing.T) {
	f := newFixture()

	presale, err := f.uc.CreatePresale(context.Background(), tenantID, userID, presaleRequest())
	require.NoError(t, err)

	out, err := f.uc.ConfirmPresale(context.Background(), tenantID, userID, presale.ID, dto.ConfirmPresaleRequest{
		PaymentMethod: entity.PaymentTransfer,
		AmountPaid:    decimal.NewFromInt(5950),
		WithDelivery:  true,
		Courier:       "Pedro",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.SaleStatusConfirmed, out.Status)
	stock, _ := f.stock.Get("p-1", branchID)
	assert.True(t, stock.Quantity.Equal(decimal.NewFromInt(15)))

	// El repartidor queda asignado en la misma transacción que confirma.
	d, _ := f.deliveries.GetBySale(presale.ID)
	require.NotNil(t, d)
	assert.Equal(t, "Pedro", d.Courier)
	assert.True(t, f.deliveries.updatedInTx,
		"la asignación del repartidor debe correr dentro de la transacción")
}

func TestConfirmPresale_DosVeces_Conflicto(t *testing.T) {
	f := newFixture()

	presale, err := f.uc.CreatePresale(context.Background(), tenantID, userID, presaleRequest())
	require.NoError(t, err)

	confirm := dto.ConfirmPresaleRequest{
		PaymentMethod: entity.PaymentCard,
		AmountPaid:    decimal.NewFromInt(5950),
	}
	_, err = f.uc.ConfirmPresale(context.Background(), tenantID, userID, presale.ID, confirm)
	require.NoError(t, err)

	_, err = f.uc.ConfirmPresale(context.Background(), tenantID, userID, presale.ID, confirm)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// El stock se descuenta una sola vez.
	stock, _ := f.stock.Get("p-1", branchID)
	assert.True(t, stock.Quantity.Equal(decimal.NewFromInt(15)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests reparto
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateDelivery_TransicionesValidas(t *testing.T) {
	f := newFixture()

	presale, err := f.uc.CreatePresale(context.Background(), tenantID, userID, presaleRequest())
	require.NoError(t, err)
	d, _ := f.deliveries.GetBySale(presale.ID)
	require.NotNil(t, d)

	out, err := f.uc.UpdateDelivery(tenantID, d.ID, dto.UpdateDeliveryRequest{
		Status: entity.DeliveryStatusOnRoute, Courier: "Pedro",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.DeliveryStatusOnRoute, out.Status)

	out, err = f.uc.UpdateDelivery(tenantID, d.ID, dto.UpdateDeliveryRequest{
		Status: entity.DeliveryStatusDelivered,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.DeliveryStatusDelivered, out.Status)
}

// Un estado final no admite más transiciones.
func TestUpdateDelivery_EstadoFinal_Conflicto(t *testing.T) {
	f := newFixture()

	presale, err := f.uc.CreatePresale(context.Background(), tenantID, userID, presaleRequest())
	require.NoError(t, err)
	d, _ := f.deliveries.GetBySale(presale.ID)
	require.NotNil(t, d)

	_, err = f.uc.UpdateDelivery(tenantID, d.ID, dto.UpdateDeliveryRequest{Status: entity.DeliveryStatusOnRoute})
	require.NoError(t, err)
	_, err = f.uc.UpdateDelivery(tenantID, d.ID, dto.UpdateDeliveryRequest{Status: entity.DeliveryStatusDelivered})
	require.NoError(t, err)

	_, err = f.uc.UpdateDelivery(tenantID, d.ID, dto.UpdateDeliveryRequest{Status: entity.DeliveryStatusOnRoute})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// Saltarse en_ruta no es una transición válida.
func TestUpdateDelivery_SaltoDeEstado_Conflicto(t *testing.T) {
	f := newFixture()

	presale, err := f.uc.CreatePresale(context.Background(), tenantID, userID, presaleRequest())
	require.NoError(t, err)
	d, _ := f.deliveries.GetBySale(presale.ID)
	require.NotNil(t, d)

	_, err = f.uc.UpdateDelivery(tenantID, d.ID, dto.UpdateDeliveryRequest{
		Status: entity.DeliveryStatusDelivered,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}
