package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.MembershipRepository = (*MembershipRepo)(nil)

// MembershipRepo implementación de MembershipRepository sobre PostgreSQL.
// Overrides se guarda como JSONB. La tabla lleva un índice único parcial
// sobre user_id WHERE active, que garantiza un solo membership activo por
// usuario y es la guardia de idempotencia del auto-aprovisionamiento.
type MembershipRepo struct {
	q Querier
}

// NewMembershipRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMembershipRepository(q Querier) *MembershipRepo {
	return &MembershipRepo{q: q}
}

const membershipColumns = `id, user_id, tenant_id, role, overrides, active, created_at, updated_at`

// Create inserta el vínculo. Devuelve domain.ErrDuplicate si el usuario ya
// tiene un membership activo o ya pertenece al tenant.
func (r *MembershipRepo) Create(m *entity.Membership) error {
	overrides, err := marshalOverrides(m.Overrides)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO memberships (id, user_id, tenant_id, role, overrides, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())`
	_, err = r.q.Exec(context.Background(), query,
		m.ID, m.UserID, m.TenantID, m.Role, overrides, m.Active)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create membership: %w", err)
	}
	return nil
}

// GetActiveByUser devuelve el membership activo del usuario, nil si no tiene.
func (r *MembershipRepo) GetActiveByUser(userID string) (*entity.Membership, error) {
	query := fmt.Sprintf(`SELECT %s FROM memberships WHERE user_id = $1 AND active`, membershipColumns)
	return r.scanOne(query, userID)
}

// GetByUserAndTenant devuelve el membership del usuario en el tenant, nil si
// no existe.
func (r *MembershipRepo) GetByUserAndTenant(userID, tenantID string) (*entity.Membership, error) {
	query := fmt.Sprintf(`SELECT %s FROM memberships WHERE user_id = $1 AND tenant_id = $2`, membershipColumns)
	return r.scanOne(query, userID, tenantID)
}

func (r *MembershipRepo) scanOne(query string, args ...any) (*entity.Membership, error) {
	var m entity.Membership
	var overrides []byte
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&m.ID, &m.UserID, &m.TenantID, &m.Role, &overrides, &m.Active, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get membership: %w", err)
	}
	if err := unmarshalOverrides(overrides, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ListByUser lista todos los memberships del usuario.
func (r *MembershipRepo) ListByUser(userID string) ([]*entity.Membership, error) {
	query := fmt.Sprintf(`SELECT %s FROM memberships WHERE user_id = $1 ORDER BY created_at`, membershipColumns)
	rows, err := r.q.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()

	var list []*entity.Membership
	for rows.Next() {
		var m entity.Membership
		var overrides []byte
		if err := rows.Scan(&m.ID, &m.UserID, &m.TenantID, &m.Role, &overrides, &m.Active, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		if err := unmarshalOverrides(overrides, &m); err != nil {
			return nil, err
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// SetActive activa el membership del usuario en el tenant y desactiva los
// demás en una sola sentencia, sin ventana en la que haya dos activos.
func (r *MembershipRepo) SetActive(userID, tenantID string) error {
	query := `
		UPDATE memberships
		SET active = (tenant_id = $2), updated_at = now()
		WHERE user_id = $1`
	tag, err := r.q.Exec(context.Background(), query, userID, tenantID)
	if err != nil {
		return fmt.Errorf("set active membership: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateOverrides reemplaza los overrides de permisos del membership.
func (r *MembershipRepo) UpdateOverrides(id string, overrides map[string]entity.ModuleActions) error {
	data, err := marshalOverrides(overrides)
	if err != nil {
		return err
	}
	tag, err := r.q.Exec(context.Background(),
		`UPDATE memberships SET overrides = $2, updated_at = now() WHERE id = $1`, id, data)
	if err != nil {
		return fmt.Errorf("update membership overrides: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateRole cambia el rol del membership.
func (r *MembershipRepo) UpdateRole(id, role string) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE memberships SET role = $2, updated_at = now() WHERE id = $1`, id, role)
	if err != nil {
		return fmt.Errorf("update membership role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func marshalOverrides(overrides map[string]entity.ModuleActions) ([]byte, error) {
	if overrides == nil {
		return nil, nil
	}
	data, err := json.Marshal(overrides)
	if err != nil {
		return nil, fmt.Errorf("marshal overrides: %w", err)
	}
	return data, nil
}

func unmarshalOverrides(data []byte, m *entity.Membership) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &m.Overrides); err != nil {
		return fmt.Errorf("unmarshal overrides: %w", err)
	}
	return nil
}
