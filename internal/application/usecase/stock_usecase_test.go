package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/usecase"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

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
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
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
func (r *fakeBranchRepo) ListByTenant(string, int, int) ([]*entity.Branch, error) { return nil, nil }

type fakeStockTxRunner struct {
	stockRepo repository.StockRepository
	movRepo   repository.StockMovementRepository
}

func (r *fakeStockTxRunner) RunStock(_ context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	return fn(r.stockRepo, r.movRepo)
}

func newStockFixture(t *testing.T, initialQty int64) (*usecase.StockUseCase, *fakeStockRepo, *fakeMovementRepo) {
	t.Helper()
	products := newFakeProductRepo()
	require.NoError(t, products.Create(&entity.Product{
		ID: "p-1", TenantID: tenantID, SKU: "SKU-1", Name: "Harina", Active: true,
	}))
	branches := &fakeBranchRepo{branches: map[string]*entity.Branch{
		branchID: {ID: branchID, TenantID: tenantID, Name: "Central", Active: true},
	}}
	stock := &fakeStockRepo{stock: map[string]*entity.Stock{
		stockKey("p-1", branchID): {ProductID: "p-1", BranchID: branchID, Quantity: decimal.NewFromInt(initialQty)},
	}}
	movements := &fakeMovementRepo{}
	runner := &fakeStockTxRunner{stockRepo: stock, movRepo: movements}
	return usecase.NewStockUseCase(runner, stock, movements, products, branches), stock, movements
}

func TestAdjust_DeltaPositivoYNegativo(t *testing.T) {
	uc, stock, movements := newStockFixture(t, 10)

	out, err := uc.Adjust(context.Background(), tenantID, userID, "p-1", dto.AdjustStockRequest{
		BranchID: branchID, Quantity: decimal.NewFromInt(5), Note: "inventario físico",
	})
	require.NoError(t, err)
	assert.True(t, out.Quantity.Equal(decimal.NewFromInt(15)))

	out, err = uc.Adjust(context.Background(), tenantID, userID, "p-1", dto.AdjustStockRequest{
		BranchID: branchID, Quantity: decimal.NewFromInt(-3),
	})
	require.NoError(t, err)
	assert.True(t, out.Quantity.Equal(decimal.NewFromInt(12)))

	s, _ := stock.Get("p-1", branchID)
	assert.True(t, s.Quantity.Equal(decimal.NewFromInt(12)))

	// Cada ajuste deja movimiento ADJUSTMENT con cantidad absoluta.
	require.Len(t, movements.movements, 2)
	assert.Equal(t, entity.MovementTypeADJUSTMENT, movements.movements[0].Type)
	assert.True(t, movements.movements[1].Quantity.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, "inventario físico", movements.movements[0].Note)
}

func TestAdjust_NoDejaStockNegativo(t *testing.T) {
	uc, stock, movements := newStockFixture(t, 10)

	_, err := uc.Adjust(context.Background(), tenantID, userID, "p-1", dto.AdjustStockRequest{
		BranchID: branchID, Quantity: decimal.NewFromInt(-11),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	s, _ := stock.Get("p-1", branchID)
	assert.True(t, s.Quantity.Equal(decimal.NewFromInt(10)))
	assert.Empty(t, movements.movements)
}

func TestAdjust_DeltaCeroInvalido(t *testing.T) {
	uc, _, _ := newStockFixture(t, 10)

	_, err := uc.Adjust(context.Background(), tenantID, userID, "p-1", dto.AdjustStockRequest{
		BranchID: branchID, Quantity: decimal.Zero,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdjust_ProductoDeOtroTenant(t *testing.T) {
	uc, _, _ := newStockFixture(t, 10)

	_, err := uc.Adjust(context.Background(), "t-otro", userID, "p-1", dto.AdjustStockRequest{
		BranchID: branchID, Quantity: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetStock_ProductoSinFilaDevuelveCero(t *testing.T) {
	uc, _, _ := newStockFixture(t, 10)

	out, err := uc.Get(tenantID, "p-1", "b-2")
	require.NoError(t, err)
	assert.True(t, out.Quantity.IsZero())
}
