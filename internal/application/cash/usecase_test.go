package cash_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/cash"
	"github.com/jhoicas/pos-api/internal/application/dto"
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

type fakeCashRepo struct {
	sessions map[string]*entity.CashSession
	entries  []*entity.CashEntry
}

func newFakeCashRepo() *fakeCashRepo {
	return &fakeCashRepo{sessions: map[string]*entity.CashSession{}}
}

func (r *fakeCashRepo) CreateSession(s *entity.CashSession) error {
	// Índice parcial único: una sesión abierta por sucursal.
	for _, existing := range r.sessions {
		if existing.BranchID == s.BranchID && existing.Status == entity.CashSessionOpen {
			return domain.ErrSessionOpen
		}
	}
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
	var out []*entity.CashSession
	for _, s := range r.sessions {
		if s.TenantID == tid && (bID == "" || s.BranchID == bID) {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeCashRepo) AddEntry(e *entity.CashEntry) error {
	cp := *e
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *fakeCashRepo) ListEntries(sessionID string, limit, offset int) ([]*entity.CashEntry, error) {
	var out []*entity.CashEntry
	for _, e := range r.entries {
		if e.SessionID == sessionID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeCashRepo) SumEntries(sessionID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, e := range r.entries {
		if e.SessionID == sessionID {
			sum = sum.Add(e.SignedAmount())
		}
	}
	return sum, nil
}

type fakeBranchRepo struct {
	branches map[string]*entity.Branch
}

func (r *fakeBranchRepo) Create(b *entity.Branch) error { r.branches[b.ID] = b; return nil }
func (r *fakeBranchRepo) Update(b *entity.Branch) error { r.branches[b.ID] = b; return nil }
func (r *fakeBranchRepo) GetByID(id string) (*entity.Branch, error) {
	if b, found := r.branches[id]; found {
		return b, nil
	}
	return nil, nil
}
func (r *fakeBranchRepo) ListByTenant(tid string, limit, offset int) ([]*entity.Branch, error) {
	return nil, nil
}

type fakeCashTxRunner struct {
	cashRepo repository.CashRepository
}

func (r *fakeCashTxRunner) RunCash(_ context.Context, fn func(cashRepo repository.CashRepository) error) error {
	return fn(r.cashRepo)
}

func newUseCase() (*cash.UseCase, *fakeCashRepo) {
	cashRepo := newFakeCashRepo()
	branches := &fakeBranchRepo{branches: map[string]*entity.Branch{
		branchID: {ID: branchID, TenantID: tenantID, Name: "Central", Active: true},
	}}
	uc := cash.NewUseCase(&fakeCashTxRunner{cashRepo: cashRepo}, cashRepo, branches)
	return uc, cashRepo
}

func openSession(t *testing.T, uc *cash.UseCase, opening int64) *dto.CashSessionResponse {
	t.Helper()
	out, err := uc.Open(context.Background(), tenantID, userID, dto.OpenSessionRequest{
		BranchID:      branchID,
		OpeningAmount: decimal.NewFromInt(opening),
	})
	require.NoError(t, err)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestOpen_BalanceInicialEsApertura(t *testing.T) {
	uc, _ := newUseCase()
	out := openSession(t, uc, 10000)

	assert.Equal(t, entity.CashSessionOpen, out.Status)
	assert.True(t, out.Balance.Equal(decimal.NewFromInt(10000)))
}

// Una sucursal no puede tener dos sesiones abiertas a la vez.
func TestOpen_SegundaSesionEnSucursal_ErrSessionOpen(t *testing.T) {
	uc, _ := newUseCase()
	openSession(t, uc, 10000)

	_, err := uc.Open(context.Background(), tenantID, userID, dto.OpenSessionRequest{
		BranchID:      branchID,
		OpeningAmount: decimal.Zero,
	})
	assert.ErrorIs(t, err, domain.ErrSessionOpen)
}

func TestOpen_MontoNegativo_ErrInvalidInput(t *testing.T) {
	uc, _ := newUseCase()
	_, err := uc.Open(context.Background(), tenantID, userID, dto.OpenSessionRequest{
		BranchID:      branchID,
		OpeningAmount: decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAddEntry_ActualizaBalanceConSigno(t *testing.T) {
	uc, repo := newUseCase()
	session := openSession(t, uc, 10000)

	_, err := uc.AddEntry(context.Background(), tenantID, userID, session.ID, dto.AddEntryRequest{
		Type: entity.CashEntryIncome, Amount: decimal.NewFromInt(5000), Concept: "venta mostrador",
	})
	require.NoError(t, err)

	_, err = uc.AddEntry(context.Background(), tenantID, userID, session.ID, dto.AddEntryRequest{
		Type: entity.CashEntryExpense, Amount: decimal.NewFromInt(2000), Concept: "compra hielo",
	})
	require.NoError(t, err)

	current, err := repo.GetSession(session.ID)
	require.NoError(t, err)
	// 10000 + 5000 - 2000 = 13000
	assert.True(t, current.Balance.Equal(decimal.NewFromInt(13000)),
		"balance = %s, esperado 13000", current.Balance)
}

func TestAddEntry_TipoInvalido_ErrInvalidInput(t *testing.T) {
	uc, _ := newUseCase()
	session := openSession(t, uc, 0)

	_, err := uc.AddEntry(context.Background(), tenantID, userID, session.ID, dto.AddEntryRequest{
		Type: "retiro", Amount: decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClose_CalculaDiferenciaContraSumaDeMovimientos(t *testing.T) {
	uc, _ := newUseCase()
	session := openSession(t, uc, 10000)

	_, err := uc.AddEntry(context.Background(), tenantID, userID, session.ID, dto.AddEntryRequest{
		Type: entity.CashEntryIncome, Amount: decimal.NewFromInt(8000), Concept: "ventas",
	})
	require.NoError(t, err)

	// Esperado: 10000 + 8000 = 18000; contado: 17500 → diferencia -500.
	out, err := uc.Close(context.Background(), tenantID, userID, session.ID, dto.CloseSessionRequest{
		ClosingAmount: decimal.NewFromInt(17500),
	})
	require.NoError(t, err)

	assert.Equal(t, entity.CashSessionClosed, out.Status)
	assert.Equal(t, userID, out.ClosedBy)
	require.NotNil(t, out.ClosedAt)
	assert.True(t, out.Balance.Equal(decimal.NewFromInt(18000)))
	assert.True(t, out.Difference.Equal(decimal.NewFromInt(-500)),
		"diferencia = %s, esperado -500", out.Difference)
}

// Operar sobre una sesión cerrada debe fallar, y tras el cierre la sucursal
// puede abrir una sesión nueva.
func TestClose_SesionCerrada_NoAdmiteMasMovimientos(t *testing.T) {
	uc, _ := newUseCase()
	session := openSession(t, uc, 0)

	_, err := uc.Close(context.Background(), tenantID, userID, session.ID, dto.CloseSessionRequest{
		ClosingAmount: decimal.Zero,
	})
	require.NoError(t, err)

	_, err = uc.AddEntry(context.Background(), tenantID, userID, session.ID, dto.AddEntryRequest{
		Type: entity.CashEntryIncome, Amount: decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, domain.ErrSessionClosed)

	_, err = uc.Close(context.Background(), tenantID, userID, session.ID, dto.CloseSessionRequest{
		ClosingAmount: decimal.Zero,
	})
	assert.ErrorIs(t, err, domain.ErrSessionClosed)

	// La sucursal queda libre para un turno nuevo.
	openSession(t, uc, 5000)
}

func TestCurrent_SoloDevuelveSesionDelTenant(t *testing.T) {
	uc, _ := newUseCase()
	openSession(t, uc, 1000)

	out, err := uc.Current(tenantID, branchID)
	require.NoError(t, err)
	require.NotNil(t, out)

	// Otro tenant no ve la sesión.
	other, err := uc.Current("otro-tenant", branchID)
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestListEntries_SesionDeOtroTenant_NotFound(t *testing.T) {
	uc, _ := newUseCase()
	session := openSession(t, uc, 0)

	_, err := uc.ListEntries("otro-tenant", session.ID, 50, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
