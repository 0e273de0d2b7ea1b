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

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación de UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, tenant_id, email, password_hash, name, role, status, created_at, updated_at`

// Create inserta el usuario. Devuelve domain.ErrEmailAlreadyExists si el
// email ya está registrado.
func (r *UserRepo) Create(u *entity.User) error {
	query := `
		INSERT INTO users (id, tenant_id, email, password_hash, name, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())`
	_, err := r.q.Exec(context.Background(), query,
		u.ID, u.TenantID, u.Email, u.PasswordHash, u.Name, u.Role, u.Status)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID, nil si no existe.
func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	return r.scanOne(query, id)
}

// GetByEmail obtiene un usuario por email, nil si no existe.
func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE lower(email) = lower($1)`, userColumns)
	return r.scanOne(query, email)
}

func (r *UserRepo) scanOne(query string, args ...any) (*entity.User, error) {
	var u entity.User
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&u.ID, &u.TenantID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// Update actualiza los datos mutables del usuario, incluido el tenant activo.
func (r *UserRepo) Update(u *entity.User) error {
	query := `
		UPDATE users
		SET tenant_id = $2, email = $3, password_hash = $4, name = $5, role = $6, status = $7, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		u.ID, u.TenantID, u.Email, u.PasswordHash, u.Name, u.Role, u.Status)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ListByTenant lista los usuarios con membership en el tenant.
func (r *UserRepo) ListByTenant(tenantID string, limit, offset int) ([]*entity.User, error) {
	query := `
		SELECT u.id, u.tenant_id, u.email, u.password_hash, u.name, m.role, u.status, u.created_at, u.updated_at
		FROM users u
		JOIN memberships m ON m.user_id = u.id AND m.tenant_id = $1
		ORDER BY u.created_at
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var list []*entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.TenantID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

// Delete elimina el usuario y sus memberships (FK con ON DELETE CASCADE).
func (r *UserRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
