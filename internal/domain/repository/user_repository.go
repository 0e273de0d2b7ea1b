package repository

import "github.com/jhoicas/pos-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	Update(user *entity.User) error
	ListByTenant(tenantID string, limit, offset int) ([]*entity.User, error)
	Delete(id string) error
}

// MembershipRepository puerto de persistencia para el vínculo usuario-tenant.
type MembershipRepository interface {
	// Create inserta el vínculo. Devuelve domain.ErrDuplicate si el usuario ya
	// tiene un membership activo (constraint único por user_id).
	Create(m *entity.Membership) error
	GetActiveByUser(userID string) (*entity.Membership, error)
	GetByUserAndTenant(userID, tenantID string) (*entity.Membership, error)
	ListByUser(userID string) ([]*entity.Membership, error)
	// SetActive marca como activo el membership del usuario en el tenant dado
	// y desactiva los demás, en una sola operación.
	SetActive(userID, tenantID string) error
	UpdateOverrides(id string, overrides map[string]entity.ModuleActions) error
	UpdateRole(id, role string) error
}
