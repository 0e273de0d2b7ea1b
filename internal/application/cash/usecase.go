package cash

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// UseCase casos de uso de caja. El libro de movimientos es append-only y el
// balance de la sesión es un contador actualizado solo bajo bloqueo de fila;
// al cierre el contador se verifica contra la suma de los movimientos, de
// modo que un contador corrupto se detecta en vez de propagarse.
type UseCase struct {
	txRunner   TxRunner
	cashRepo   repository.CashRepository
	branchRepo repository.BranchRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, cashRepo repository.CashRepository, branchRepo repository.BranchRepository) *UseCase {
	return &UseCase{txRunner: txRunner, cashRepo: cashRepo, branchRepo: branchRepo}
}

// Open abre una sesión de caja en la sucursal. Devuelve domain.ErrSessionOpen
// si la sucursal ya tiene una sesión abierta.
func (uc *UseCase) Open(ctx context.Context, tenantID, userID string, in dto.OpenSessionRequest) (*dto.CashSessionResponse, error) {
	if in.BranchID == "" || in.OpeningAmount.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	branch, _ := uc.branchRepo.GetByID(in.BranchID)
	if branch == nil || branch.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	existing, err := uc.cashRepo.GetOpenByBranch(in.BranchID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrSessionOpen
	}
	s := &entity.CashSession{
		ID:            uuid.New().String(),
		TenantID:      tenantID,
		BranchID:      in.BranchID,
		OpenedBy:      userID,
		Status:        entity.CashSessionOpen,
		OpeningAmount: in.OpeningAmount,
		Balance:       in.OpeningAmount,
		OpenedAt:      time.Now(),
	}
	if err := uc.cashRepo.CreateSession(s); err != nil {
		return nil, err
	}
	return toSessionResponse(s), nil
}

// AddEntry registra un ingreso o egreso manual: movimiento append-only más
// actualización del contador, ambos en la misma transacción.
func (uc *UseCase) AddEntry(ctx context.Context, tenantID, userID, sessionID string, in dto.AddEntryRequest) (*dto.CashEntryResponse, error) {
	if in.Type != entity.CashEntryIncome && in.Type != entity.CashEntryExpense {
		return nil, domain.ErrInvalidInput
	}
	if !in.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	entry := &entity.CashEntry{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		TenantID:  tenantID,
		UserID:    userID,
		Type:      in.Type,
		Amount:    in.Amount,
		Concept:   in.Concept,
		CreatedAt: time.Now(),
	}
	err := uc.txRunner.RunCash(ctx, func(cashRepo repository.CashRepository) error {
		session, err := cashRepo.GetSessionForUpdate(sessionID)
		if err != nil {
			return err
		}
		if session == nil || session.TenantID != tenantID {
			return domain.ErrNotFound
		}
		if session.Status != entity.CashSessionOpen {
			return domain.ErrSessionClosed
		}
		if err := cashRepo.AddEntry(entry); err != nil {
			return err
		}
		session.Balance = session.Balance.Add(entry.SignedAmount())
		return cashRepo.UpdateSession(session)
	})
	if err != nil {
		return nil, err
	}
	return toEntryResponse(entry), nil
}

// Close cierra la sesión: bloquea la fila, verifica el contador contra la
// suma de movimientos y registra monto contado y diferencia.
func (uc *UseCase) Close(ctx context.Context, tenantID, userID, sessionID string, in dto.CloseSessionRequest) (*dto.CashSessionResponse, error) {
	var out *dto.CashSessionResponse
	err := uc.txRunner.RunCash(ctx, func(cashRepo repository.CashRepository) error {
		session, err := cashRepo.GetSessionForUpdate(sessionID)
		if err != nil {
			return err
		}
		if session == nil || session.TenantID != tenantID {
			return domain.ErrNotFound
		}
		if session.Status != entity.CashSessionOpen {
			return domain.ErrSessionClosed
		}
		sum, err := cashRepo.SumEntries(sessionID)
		if err != nil {
			return err
		}
		// La suma de movimientos es la fuente de verdad del balance.
		expected := session.OpeningAmount.Add(sum)
		now := time.Now()
		session.Status = entity.CashSessionClosed
		session.ClosedBy = userID
		session.ClosedAt = &now
		session.Balance = expected
		session.ClosingAmount = in.ClosingAmount
		session.Difference = in.ClosingAmount.Sub(expected)
		if err := cashRepo.UpdateSession(session); err != nil {
			return err
		}
		out = toSessionResponse(session)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Current devuelve la sesión abierta de la sucursal, o nil.
func (uc *UseCase) Current(tenantID, branchID string) (*dto.CashSessionResponse, error) {
	session, err := uc.cashRepo.GetOpenByBranch(branchID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.TenantID != tenantID {
		return nil, nil
	}
	return toSessionResponse(session), nil
}

// ListSessions lista sesiones del tenant, opcionalmente por sucursal.
func (uc *UseCase) ListSessions(tenantID, branchID string, limit, offset int) ([]dto.CashSessionResponse, error) {
	list, err := uc.cashRepo.ListSessions(tenantID, branchID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CashSessionResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSessionResponse(s))
	}
	return items, nil
}

// ListEntries lista los movimientos de una sesión del tenant.
func (uc *UseCase) ListEntries(tenantID, sessionID string, limit, offset int) ([]dto.CashEntryResponse, error) {
	session, err := uc.cashRepo.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	list, err := uc.cashRepo.ListEntries(sessionID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CashEntryResponse, 0, len(list))
	for _, e := range list {
		items = append(items, *toEntryResponse(e))
	}
	return items, nil
}

func toSessionResponse(s *entity.CashSession) *dto.CashSessionResponse {
	if s == nil {
		return nil
	}
	return &dto.CashSessionResponse{
		ID:            s.ID,
		TenantID:      s.TenantID,
		BranchID:      s.BranchID,
		OpenedBy:      s.OpenedBy,
		ClosedBy:      s.ClosedBy,
		Status:        s.Status,
		OpeningAmount: s.OpeningAmount,
		ClosingAmount: s.ClosingAmount,
		Balance:       s.Balance,
		Difference:    s.Difference,
		OpenedAt:      s.OpenedAt,
		ClosedAt:      s.ClosedAt,
	}
}

func toEntryResponse(e *entity.CashEntry) *dto.CashEntryResponse {
	if e == nil {
		return nil
	}
	return &dto.CashEntryResponse{
		ID:        e.ID,
		SessionID: e.SessionID,
		UserID:    e.UserID,
		Type:      e.Type,
		Amount:    e.Amount,
		Concept:   e.Concept,
		RefID:     e.RefID,
		CreatedAt: e.CreatedAt,
	}
}
