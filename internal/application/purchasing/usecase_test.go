package purchasing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/purchasing"
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

type fakePurchaseRepo struct {
	purchases map[string]*entity.Purchase
	items     map[string][]entity.PurchaseItem
}

func newFakePurchaseRepo() *fakePurchaseRepo {
	return &fakePurchaseRepo{
		purchases: map[string]*entity.Purchase{},
		items:     map[string][]entity.PurchaseItem{},
	}
}

func (r *fakePurchaseRepo) Create(p *entity.Purchase, items []entity.PurchaseItem) error {
	cp := *p
	r.purchases[p.ID] = &cp
	r.items[p.ID] = items
	return nil
}

func (r *fakePurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	p, found := r.purchases[id]
	if !found {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakePurchaseRepo) GetForUpdate(id string) (*entity.Purchase, error) {
	return r.GetByID(id)
}

func (r *fakePurchaseRepo) ItemsByPurchase(purchaseID string) ([]entity.PurchaseItem, error) {
	return r.items[purchaseID], nil
}

func (r *fakePurchaseRepo) ListByTenant(tid, status string, limit, offset int) ([]*entity.Purchase, error) {
	var out []*entity.Purchase
	for _, p := range r.purchases {
		if p.TenantID == tid && (status == "" || p.Status == status) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

// MarkReceived replica la guardia SQL: solo transiciona si aún no está recibida.
func (r *fakePurchaseRepo) MarkReceived(id, uid string, at time.Time) (bool, error) {
	p, found := r.purchases[id]
	if !found || p.Status == entity.PurchaseStatusReceived {
		return false, nil
	}
	p.Status = entity.PurchaseStatusReceived
	p.ReceivedAt = &at
	p.ReceivedBy = uid
	return true, nil
}

func (r *fakePurchaseRepo) UpdateStatus(id, status string) error {
	if p, found := r.purchases[id]; found {
		p.Status = status
	}
	return nil
}

type fakeStockRepo struct {
	stock map[string]*entity.Stock // key producto|sucursal
}

func stockKey(productID, bID string) string { return productID + "|" + bID }

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{stock: map[string]*entity.Stock{}}
}

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

func (r *fakeStockRepo) ListByBranch(bID string) ([]*entity.Stock, error) {
	var out []*entity.Stock
	for _, s := range r.stock {
		if s.BranchID == bID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeMovementRepo struct {
	movements []*entity.StockMovement
}

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	cp := *m
	r.movements = append(r.movements, &cp)
	return nil
}

func (r *fakeMovementRepo) ListByProduct(tid, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.movements {
		if m.TenantID == tid && m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func (r *fakeProductRepo) Create(p *entity.Product) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	if p, found := r.products[id]; found {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeProductRepo) GetBySKU(tid, sku string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.TenantID == tid && p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) List(tid string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) Search(tid, q string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}

type fakeBranchRepo struct {
	branches map[string]*entity.Branch
}

func (r *fakeBranchRepo) Create(b *entity.Branch) error  { r.branches[b.ID] = b; return nil }
func (r *fakeBranchRepo) Update(b *entity.Branch) error  { r.branches[b.ID] = b; return nil }
func (r *fakeBranchRepo) GetByID(id string) (*entity.Branch, error) {
	if b, found := r.branches[id]; found {
		return b, nil
	}
	return nil, nil
}
func (r *fakeBranchRepo) ListByTenant(tid string, limit, offset int) ([]*entity.Branch, error) {
	return nil, nil
}

// fakeTxRunner entrega los mismos fakes dentro de la "transacción".
type fakeTxRunner struct {
	purchaseRepo repository.PurchaseRepository
	stockRepo    repository.StockRepository
	movRepo      repository.StockMovementRepository
	productRepo  repository.ProductRepository
}

func (r *fakeTxRunner) RunPurchase(_ context.Context, fn func(
	purchaseRepo repository.PurchaseRepository,
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	return fn(r.purchaseRepo, r.stockRepo, r.movRepo, r.productRepo)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	uc        *purchasing.UseCase
	purchases *fakePurchaseRepo
	stock     *fakeStockRepo
	movements *fakeMovementRepo
	products  *fakeProductRepo
}

func newFixture() *fixture {
	purchases := newFakePurchaseRepo()
	stock := newFakeStockRepo()
	movements := &fakeMovementRepo{}
	products := &fakeProductRepo{products: map[string]*entity.Product{
		"p-1": {ID: "p-1", TenantID: tenantID, SKU: "SKU-1", Name: "Harina", Cost: decimal.Zero},
		"p-2": {ID: "p-2", TenantID: tenantID, SKU: "SKU-2", Name: "Azúcar", Cost: decimal.Zero},
	}}
	branches := &fakeBranchRepo{branches: map[string]*entity.Branch{
		branchID: {ID: branchID, TenantID: tenantID, Name: "Central", Active: true},
	}}
	runner := &fakeTxRunner{
		purchaseRepo: purchases,
		stockRepo:    stock,
		movRepo:      movements,
		productRepo:  products,
	}
	return &fixture{
		uc:        purchasing.NewUseCase(runner, purchases, products, branches),
		purchases: purchases,
		stock:     stock,
		movements: movements,
		products:  products,
	}
}

func createRequest() dto.CreatePurchaseRequest {
	return dto.CreatePurchaseRequest{
		BranchID: branchID,
		Supplier: "Distribuidora Norte",
		Items: []dto.PurchaseItemRequest{
			{ProductID: "p-1", Quantity: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(500)},
			{ProductID: "p-2", Quantity: decimal.NewFromInt(4), UnitCost: decimal.NewFromInt(1200)},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_CalculaTotalYQuedaPendiente(t *testing.T) {
	f := newFixture()

	out, err := f.uc.Create(context.Background(), tenantID, userID, createRequest())
	require.NoError(t, err)

	// 10*500 + 4*1200 = 9800
	assert.True(t, out.Total.Equal(decimal.NewFromInt(9800)),
		"total = %s, esperado 9800", out.Total)
	assert.Equal(t, entity.PurchaseStatusPending, out.Status)
	assert.Len(t, out.Items, 2)
}

func TestCreate_SucursalDeOtroTenant_NotFound(t *testing.T) {
	f := newFixture()

	in := createRequest()
	_, err := f.uc.Create(context.Background(), "otro-tenant", userID, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_CantidadInvalida_ErrInvalidInput(t *testing.T) {
	f := newFixture()

	in := createRequest()
	in.Items[0].Quantity = decimal.Zero
	_, err := f.uc.Create(context.Background(), tenantID, userID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReceive_IncrementaStockYActualizaCosto(t *testing.T) {
	f := newFixture()

	created, err := f.uc.Create(context.Background(), tenantID, userID, createRequest())
	require.NoError(t, err)

	out, err := f.uc.Receive(context.Background(), tenantID, userID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusReceived, out.Status)
	assert.Equal(t, userID, out.ReceivedBy)
	require.NotNil(t, out.ReceivedAt)

	stock, _ := f.stock.Get("p-1", branchID)
	assert.True(t, stock.Quantity.Equal(decimal.NewFromInt(10)),
		"stock p-1 = %s, esperado 10", stock.Quantity)

	// Sin stock previo, el costo promedio ponderado es el costo de entrada.
	p1, _ := f.products.GetByID("p-1")
	assert.True(t, p1.Cost.Equal(decimal.NewFromInt(500)))

	// Un movimiento IN por línea, con referencia a la compra.
	require.Len(t, f.movements.movements, 2)
	assert.Equal(t, entity.MovementTypeIN, f.movements.movements[0].Type)
	assert.Equal(t, created.ID, f.movements.movements[0].RefID)
}

// Recibir dos veces la misma compra no debe duplicar stock: la transición de
// estado es la guardia de idempotencia.
func TestReceive_DosVeces_NoDuplicaStock(t *testing.T) {
	f := newFixture()

	created, err := f.uc.Create(context.Background(), tenantID, userID, createRequest())
	require.NoError(t, err)

	_, err = f.uc.Receive(context.Background(), tenantID, userID, created.ID)
	require.NoError(t, err)

	_, err = f.uc.Receive(context.Background(), tenantID, userID, created.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyReceived)

	stock, _ := f.stock.Get("p-1", branchID)
	assert.True(t, stock.Quantity.Equal(decimal.NewFromInt(10)),
		"el stock no debe duplicarse: %s", stock.Quantity)
	assert.Len(t, f.movements.movements, 2, "sin movimientos adicionales")
}

// Una segunda compra a otro costo pondera contra el stock existente:
// (10*500 + 10*700) / 20 = 600.
func TestReceive_CostoPromedioPonderado(t *testing.T) {
	f := newFixture()

	first, err := f.uc.Create(context.Background(), tenantID, userID, dto.CreatePurchaseRequest{
		BranchID: branchID,
		Supplier: "Distribuidora Norte",
		Items: []dto.PurchaseItemRequest{
			{ProductID: "p-1", Quantity: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(500)},
		},
	})
	require.NoError(t, err)
	_, err = f.uc.Receive(context.Background(), tenantID, userID, first.ID)
	require.NoError(t, err)

	second, err := f.uc.Create(context.Background(), tenantID, userID, dto.CreatePurchaseRequest{
		BranchID: branchID,
		Supplier: "Distribuidora Norte",
		Items: []dto.PurchaseItemRequest{
			{ProductID: "p-1", Quantity: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(700)},
		},
	})
	require.NoError(t, err)
	_, err = f.uc.Receive(context.Background(), tenantID, userID, second.ID)
	require.NoError(t, err)

	p1, _ := f.products.GetByID("p-1")
	assert.True(t, p1.Cost.Equal(decimal.NewFromInt(600)),
		"costo promedio = %s, esperado 600", p1.Cost)

	stock, _ := f.stock.Get("p-1", branchID)
	assert.True(t, stock.Quantity.Equal(decimal.NewFromInt(20)))
}

func TestReceive_CompraAnulada_Conflicto(t *testing.T) {
	f := newFixture()

	created, err := f.uc.Create(context.Background(), tenantID, userID, createRequest())
	require.NoError(t, err)
	require.NoError(t, f.uc.Cancel(tenantID, created.ID))

	_, err = f.uc.Receive(context.Background(), tenantID, userID, created.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCancel_CompraRecibida_Conflicto(t *testing.T) {
	f := newFixture()

	created, err := f.uc.Create(context.Background(), tenantID, userID, createRequest())
	require.NoError(t, err)
	_, err = f.uc.Receive(context.Background(), tenantID, userID, created.ID)
	require.NoError(t, err)

	err = f.uc.Cancel(tenantID, created.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestList_FiltraPorEstado(t *testing.T) {
	f := newFixture()

	a, err := f.uc.Create(context.Background(), tenantID, userID, createRequest())
	require.NoError(t, err)
	_, err = f.uc.Create(context.Background(), tenantID, userID, createRequest())
	require.NoError(t, err)
	_, err = f.uc.Receive(context.Background(), tenantID, userID, a.ID)
	require.NoError(t, err)

	pending, err := f.uc.List(tenantID, entity.PurchaseStatusPending, 50, 0)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	received, err := f.uc.List(tenantID, entity.PurchaseStatusReceived, 50, 0)
	require.NoError(t, err)
	assert.Len(t, received, 1)
}
