package usecase

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// UserUseCase administración de usuarios del tenant: alta con rol, edición y
// overrides de permisos sobre el membership.
type UserUseCase struct {
	userRepo       repository.UserRepository
	membershipRepo repository.MembershipRepository
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(userRepo repository.UserRepository, membershipRepo repository.MembershipRepository) *UserUseCase {
	return &UserUseCase{userRepo: userRepo, membershipRepo: membershipRepo}
}

// Create crea un usuario dentro del tenant con el rol indicado y su
// membership activo. Devuelve domain.ErrEmailAlreadyExists si el email existe.
func (uc *UserUseCase) Create(tenantID string, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if in.Email == "" || len(in.Password) < 8 {
		return nil, domain.ErrInvalidInput
	}
	role := in.Role
	if role == "" {
		role = entity.RoleVendedor
	}
	if role != entity.RoleAdmin && role != entity.RoleManager && role != entity.RoleVendedor {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.userRepo.GetByEmail(in.Email)
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := in.Name
	if name == "" {
		name = in.Email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	if err := uc.membershipRepo.Create(&entity.Membership{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		TenantID:  tenantID,
		Role:      role,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// List lista los usuarios del tenant.
func (uc *UserUseCase) List(tenantID string, limit, offset int) ([]dto.UserResponse, error) {
	list, err := uc.userRepo.ListByTenant(tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *toUserResponse(u))
	}
	return items, nil
}

// Update actualiza nombre, rol o estado de un usuario del tenant.
func (uc *UserUseCase) Update(tenantID, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil || user.TenantID != tenantID {
		return nil, nil
	}
	if in.Name != nil && *in.Name != "" {
		user.Name = *in.Name
	}
	if in.Role != nil {
		switch *in.Role {
		case entity.RoleAdmin, entity.RoleManager, entity.RoleVendedor:
			user.Role = *in.Role
		default:
			return nil, domain.ErrInvalidInput
		}
	}
	if in.Status != nil {
		user.Status = *in.Status
	}
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(user); err != nil {
		return nil, err
	}
	// Mantener el rol del membership alineado con el del usuario.
	if in.Role != nil {
		if m, _ := uc.membershipRepo.GetByUserAndTenant(id, tenantID); m != nil {
			if err := uc.membershipRepo.UpdateRole(m.ID, user.Role); err != nil {
				return nil, err
			}
		}
	}
	return toUserResponse(user), nil
}

// SetOverrides reemplaza el mapa de overrides del membership del usuario.
func (uc *UserUseCase) SetOverrides(tenantID, userID string, in dto.SetOverridesRequest) error {
	m, err := uc.membershipRepo.GetByUserAndTenant(userID, tenantID)
	if err != nil {
		return err
	}
	if m == nil {
		return domain.ErrNotFound
	}
	return uc.membershipRepo.UpdateOverrides(m.ID, in.Overrides)
}

// Delete elimina un usuario del tenant.
func (uc *UserUseCase) Delete(tenantID, id string) error {
	user, err := uc.userRepo.GetByID(id)
	if err != nil {
		return err
	}
	if user == nil || user.TenantID != tenantID {
		return domain.ErrNotFound
	}
	return uc.userRepo.Delete(id)
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		TenantID:  u.TenantID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
