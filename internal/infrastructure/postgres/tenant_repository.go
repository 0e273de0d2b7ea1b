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

var _ repository.TenantRepository = (*TenantRepo)(nil)

// TenantRepo implementación de TenantRepository sobre PostgreSQL.
type TenantRepo struct {
	q Querier
}

// NewTenantRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTenantRepository(q Querier) *TenantRepo {
	return &TenantRepo{q: q}
}

const tenantColumns = `id, name, slug, owner_id, join_code, status, created_at, updated_at`

// Create inserta el tenant. Devuelve domain.ErrDuplicate si el slug ya existe.
func (r *TenantRepo) Create(t *entity.Tenant) error {
	query := `
		INSERT INTO tenants (id, name, slug, owner_id, join_code, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())`
	_, err := r.q.Exec(context.Background(), query, t.ID, t.Name, t.Slug, t.OwnerID, t.JoinCode, t.Status)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create tenant: %w", err)
	}
	return nil
}

// GetByID obtiene un tenant por su ID, nil si no existe.
func (r *TenantRepo) GetByID(id string) (*entity.Tenant, error) {
	return r.getBy("id", id)
}

// GetBySlug obtiene un tenant por su slug, nil si no existe.
func (r *TenantRepo) GetBySlug(slug string) (*entity.Tenant, error) {
	return r.getBy("slug", slug)
}

// GetByJoinCode obtiene un tenant por su código de invitación, nil si no existe.
func (r *TenantRepo) GetByJoinCode(code string) (*entity.Tenant, error) {
	return r.getBy("join_code", code)
}

func (r *TenantRepo) getBy(column, value string) (*entity.Tenant, error) {
	query := fmt.Sprintf(`SELECT %s FROM tenants WHERE %s = $1`, tenantColumns, column)
	var t entity.Tenant
	err := r.q.QueryRow(context.Background(), query, value).Scan(
		&t.ID, &t.Name, &t.Slug, &t.OwnerID, &t.JoinCode, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant by %s: %w", column, err)
	}
	return &t, nil
}

// Update actualiza nombre, estado y código de invitación.
func (r *TenantRepo) Update(t *entity.Tenant) error {
	query := `
		UPDATE tenants SET name = $2, join_code = $3, status = $4, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, t.ID, t.Name, t.JoinCode, t.Status)
	if err != nil {
		return fmt.Errorf("update tenant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista tenants (solo superadmin).
func (r *TenantRepo) List(limit, offset int) ([]*entity.Tenant, error) {
	query := fmt.Sprintf(`SELECT %s FROM tenants ORDER BY created_at DESC LIMIT $1 OFFSET $2`, tenantColumns)
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var list []*entity.Tenant
	for rows.Next() {
		var t entity.Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.OwnerID, &t.JoinCode, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// GetModules devuelve el mapa módulo → activo del tenant. Los módulos sin
// fila no aparecen en el mapa (el dominio los interpreta como habilitados).
func (r *TenantRepo) GetModules(ctx context.Context, tenantID string) (map[string]bool, error) {
	query := `SELECT module_name, is_active FROM tenant_modules WHERE tenant_id = $1`
	rows, err := r.q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("get tenant modules: %w", err)
	}
	defer rows.Close()

	modules := make(map[string]bool)
	for rows.Next() {
		var name string
		var active bool
		if err := rows.Scan(&name, &active); err != nil {
			return nil, fmt.Errorf("scan tenant module: %w", err)
		}
		modules[name] = active
	}
	return modules, rows.Err()
}

// SetModule activa o desactiva un módulo del tenant (upsert).
func (r *TenantRepo) SetModule(ctx context.Context, tenantID, moduleName string, active bool) error {
	query := `
		INSERT INTO tenant_modules (tenant_id, module_name, is_active, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (tenant_id, module_name)
		DO UPDATE SET is_active = EXCLUDED.is_active, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, tenantID, moduleName, active); err != nil {
		return fmt.Errorf("set tenant module: %w", err)
	}
	return nil
}

// HasActiveModule responde si el módulo está activo. Sin fila = habilitado.
func (r *TenantRepo) HasActiveModule(ctx context.Context, tenantID, moduleName string) (bool, error) {
	query := `SELECT is_active FROM tenant_modules WHERE tenant_id = $1 AND module_name = $2`
	var active bool
	err := r.q.QueryRow(ctx, query, tenantID, moduleName).Scan(&active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return true, nil
		}
		return false, fmt.Errorf("has active module: %w", err)
	}
	return active, nil
}
