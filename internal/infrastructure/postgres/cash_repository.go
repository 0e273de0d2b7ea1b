package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.CashRepository = (*CashRepo)(nil)

// CashRepo implementación de CashRepository sobre PostgreSQL. Los movimientos
// (cash_entries) solo se insertan; el balance de la sesión se actualiza bajo
// bloqueo de fila dentro de la misma transacción.
type CashRepo struct {
	q Querier
}

// NewCashRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashRepository(q Querier) *CashRepo {
	return &CashRepo{q: q}
}

const cashSessionColumns = `id, tenant_id, branch_id, opened_by, closed_by, status,
		opening_amount, closing_amount, balance, difference, opened_at, closed_at`

// CreateSession inserta la sesión. El índice único parcial sobre branch_id
// WHERE status = 'abierta' garantiza una sola sesión abierta por sucursal.
func (r *CashRepo) CreateSession(s *entity.CashSession) error {
	query := `
		INSERT INTO cash_sessions (id, tenant_id, branch_id, opened_by, status, opening_amount, closing_amount, balance, difference, opened_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7, 0, $8)`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.TenantID, s.BranchID, s.OpenedBy, s.Status, s.OpeningAmount, s.Balance, s.OpenedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSessionOpen
		}
		return fmt.Errorf("create cash session: %w", err)
	}
	return nil
}

// GetSession obtiene una sesión por ID, nil si no existe.
func (r *CashRepo) GetSession(id string) (*entity.CashSession, error) {
	query := fmt.Sprintf(`SELECT %s FROM cash_sessions WHERE id = $1`, cashSessionColumns)
	return r.scanSession(query, id)
}

// GetSessionForUpdate bloquea la fila de la sesión; usar en transacción.
func (r *CashRepo) GetSessionForUpdate(id string) (*entity.CashSession, error) {
	query := fmt.Sprintf(`SELECT %s FROM cash_sessions WHERE id = $1 FOR UPDATE`, cashSessionColumns)
	return r.scanSession(query, id)
}

// GetOpenByBranch devuelve la sesión abierta de la sucursal, nil si no hay.
func (r *CashRepo) GetOpenByBranch(branchID string) (*entity.CashSession, error) {
	query := fmt.Sprintf(`SELECT %s FROM cash_sessions WHERE branch_id = $1 AND status = $2`, cashSessionColumns)
	return r.scanSession(query, branchID, entity.CashSessionOpen)
}

func (r *CashRepo) scanSession(query string, args ...any) (*entity.CashSession, error) {
	var s entity.CashSession
	var closedBy *string
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&s.ID, &s.TenantID, &s.BranchID, &s.OpenedBy, &closedBy, &s.Status,
		&s.OpeningAmount, &s.ClosingAmount, &s.Balance, &s.Difference, &s.OpenedAt, &s.ClosedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cash session: %w", err)
	}
	if closedBy != nil {
		s.ClosedBy = *closedBy
	}
	return &s, nil
}

// UpdateSession persiste balance, cierre y diferencia.
func (r *CashRepo) UpdateSession(s *entity.CashSession) error {
	var closedBy *string
	if s.ClosedBy != "" {
		closedBy = &s.ClosedBy
	}
	query := `
		UPDATE cash_sessions
		SET status = $2, closed_by = $3, closing_amount = $4, balance = $5, difference = $6, closed_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		s.ID, s.Status, closedBy, s.ClosingAmount, s.Balance, s.Difference, s.ClosedAt)
	if err != nil {
		return fmt.Errorf("update cash session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListSessions lista sesiones del tenant, opcionalmente por sucursal.
func (r *CashRepo) ListSessions(tenantID, branchID string, limit, offset int) ([]*entity.CashSession, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM cash_sessions
		WHERE tenant_id = $1 AND ($2 = '' OR branch_id = $2)
		ORDER BY opened_at DESC
		LIMIT $3 OFFSET $4`, cashSessionColumns)
	rows, err := r.q.Query(context.Background(), query, tenantID, branchID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list cash sessions: %w", err)
	}
	defer rows.Close()

	var list []*entity.CashSession
	for rows.Next() {
		var s entity.CashSession
		var closedBy *string
		if err := rows.Scan(&s.ID, &s.TenantID, &s.BranchID, &s.OpenedBy, &closedBy, &s.Status,
			&s.OpeningAmount, &s.ClosingAmount, &s.Balance, &s.Difference, &s.OpenedAt, &s.ClosedAt); err != nil {
			return nil, fmt.Errorf("scan cash session: %w", err)
		}
		if closedBy != nil {
			s.ClosedBy = *closedBy
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// AddEntry inserta el movimiento. La tabla no admite UPDATE ni DELETE.
func (r *CashRepo) AddEntry(e *entity.CashEntry) error {
	query := `
		INSERT INTO cash_entries (id, session_id, tenant_id, user_id, type, amount, concept, ref_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		e.ID, e.SessionID, e.TenantID, e.UserID, e.Type, e.Amount, e.Concept, e.RefID, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("add cash entry: %w", err)
	}
	return nil
}

// ListEntries lista los movimientos de la sesión en orden de inserción.
func (r *CashRepo) ListEntries(sessionID string, limit, offset int) ([]*entity.CashEntry, error) {
	query := `
		SELECT id, session_id, tenant_id, user_id, type, amount, concept, ref_id, created_at
		FROM cash_entries WHERE session_id = $1
		ORDER BY created_at
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, sessionID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list cash entries: %w", err)
	}
	defer rows.Close()

	var list []*entity.CashEntry
	for rows.Next() {
		var e entity.CashEntry
		if err := rows.Scan(&e.ID, &e.SessionID, &e.TenantID, &e.UserID, &e.Type, &e.Amount, &e.Concept, &e.RefID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cash entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// SumEntries suma con signo los movimientos de la sesión.
func (r *CashRepo) SumEntries(sessionID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN type = $2 THEN -amount ELSE amount END), 0)
		FROM cash_entries WHERE session_id = $1`
	var sum decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, sessionID, entity.CashEntryExpense).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum cash entries: %w", err)
	}
	return sum, nil
}
