package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// CashRepository define el puerto de persistencia para caja: sesiones y libro
// de movimientos append-only. El balance de la sesión es un contador que solo
// se actualiza bajo bloqueo de fila (GetSessionForUpdate + UpdateSession).
type CashRepository interface {
	CreateSession(s *entity.CashSession) error
	GetSession(id string) (*entity.CashSession, error)
	// GetSessionForUpdate bloquea la fila de la sesión; usar en transacción.
	GetSessionForUpdate(id string) (*entity.CashSession, error)
	// GetOpenByBranch devuelve la sesión abierta de la sucursal, o nil.
	GetOpenByBranch(branchID string) (*entity.CashSession, error)
	UpdateSession(s *entity.CashSession) error
	ListSessions(tenantID, branchID string, limit, offset int) ([]*entity.CashSession, error)

	AddEntry(e *entity.CashEntry) error
	ListEntries(sessionID string, limit, offset int) ([]*entity.CashEntry, error)
	// SumEntries suma con signo los movimientos de la sesión (fuente de verdad
	// contra la que se verifica el contador al cierre).
	SumEntries(sessionID string) (decimal.Decimal, error)
}
