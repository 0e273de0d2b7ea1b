package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.LicenseRepository = (*LicenseRepo)(nil)

// LicenseRepo implementación de LicenseRepository sobre PostgreSQL.
type LicenseRepo struct {
	q Querier
}

// NewLicenseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLicenseRepository(q Querier) *LicenseRepo {
	return &LicenseRepo{q: q}
}

// Create inserta la licencia del tenant (una por tenant).
func (r *LicenseRepo) Create(l *entity.License) error {
	query := `
		INSERT INTO licenses (tenant_id, plan, paid_until, blocked, reason, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())`
	_, err := r.q.Exec(context.Background(), query, l.TenantID, l.Plan, l.PaidUntil, l.Blocked, l.Reason)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create license: %w", err)
	}
	return nil
}

// GetByTenant obtiene la licencia del tenant, nil si no existe.
func (r *LicenseRepo) GetByTenant(ctx context.Context, tenantID string) (*entity.License, error) {
	query := `
		SELECT tenant_id, plan, paid_until, blocked, reason, updated_at
		FROM licenses WHERE tenant_id = $1`
	var l entity.License
	err := r.q.QueryRow(ctx, query, tenantID).Scan(
		&l.TenantID, &l.Plan, &l.PaidUntil, &l.Blocked, &l.Reason, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get license: %w", err)
	}
	return &l, nil
}

// Update actualiza plan, vencimiento y bloqueo.
func (r *LicenseRepo) Update(l *entity.License) error {
	query := `
		UPDATE licenses SET plan = $2, paid_until = $3, blocked = $4, reason = $5, updated_at = now()
		WHERE tenant_id = $1`
	tag, err := r.q.Exec(context.Background(), query, l.TenantID, l.Plan, l.PaidUntil, l.Blocked, l.Reason)
	if err != nil {
		return fmt.Errorf("update license: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
