package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/pos-api/internal/application/dto"
	apptenant "github.com/jhoicas/pos-api/internal/application/tenant"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/permission"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UseCase casos de uso de autenticación: registro, login e identidad actual.
// El registro aprovisiona una organización nueva cuando el usuario no tiene
// ninguna (create-on-first-touch, idempotente).
type UseCase struct {
	userRepo       repository.UserRepository
	membershipRepo repository.MembershipRepository
	tenantRepo     repository.TenantRepository
	tenantUC       *apptenant.UseCase
	jwtCfg         JWTConfig
}

// NewUseCase construye el caso de uso de auth.
func NewUseCase(
	userRepo repository.UserRepository,
	membershipRepo repository.MembershipRepository,
	tenantRepo repository.TenantRepository,
	tenantUC *apptenant.UseCase,
	jwtCfg JWTConfig,
) *UseCase {
	return &UseCase{
		userRepo:       userRepo,
		membershipRepo: membershipRepo,
		tenantRepo:     tenantRepo,
		tenantUC:       tenantUC,
		jwtCfg:         jwtCfg,
	}
}

// Register crea el usuario, hashea el password con bcrypt y aprovisiona su
// organización. Devuelve domain.ErrEmailAlreadyExists si el email ya existe.
func (uc *UseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.LoginResponse, error) {
	if in.Email == "" || len(in.Password) < 8 {
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
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         entity.RoleAdmin,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	tenantName := in.TenantName
	if tenantName == "" {
		tenantName = name
	}
	t, err := uc.tenantUC.ResolveOrProvision(ctx, user.ID, tenantName)
	if err != nil {
		return nil, err
	}
	user.TenantID = t.ID
	return uc.buildLoginResponse(ctx, user)
}

// Login verifica email/password y genera el JWT con user_id, org_id, email y
// role. La organización activa se resuelve por prioridad: membership vivo,
// y si no existe ninguno, aprovisionamiento automático.
func (uc *UseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != "active" {
		return nil, domain.ErrForbidden
	}
	t, err := uc.tenantUC.ResolveOrProvision(ctx, user.ID, user.Name)
	if err != nil {
		return nil, err
	}
	user.TenantID = t.ID
	return uc.buildLoginResponse(ctx, user)
}

// Me devuelve la identidad actual con organización, permisos y módulos.
func (uc *UseCase) Me(ctx context.Context, id jwt.Identity) (*dto.MeResponse, error) {
	user, err := uc.userRepo.GetByID(id.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	resp := &dto.MeResponse{User: *toUserResponse(user)}

	matrix, modules, err := uc.effectiveMatrix(ctx, user)
	if err != nil {
		return nil, err
	}
	resp.Permissions = matrix
	resp.Modules = modules
	if user.TenantID != "" {
		t, err := uc.tenantRepo.GetByID(user.TenantID)
		if err != nil {
			return nil, err
		}
		if t != nil {
			resp.Tenant = &dto.TenantResponse{
				ID: t.ID, Name: t.Name, Slug: t.Slug, OwnerID: t.OwnerID,
				Status: t.Status, CreatedAt: t.CreatedAt,
			}
		}
	}
	return resp, nil
}

// EffectiveMatrix computa la matriz de permisos del usuario para el tenant
// activo: defaults del rol ⊕ overrides del membership, enmascarada por los
// módulos del tenant. Se usa desde el middleware de permisos en cada request.
func (uc *UseCase) EffectiveMatrix(ctx context.Context, id jwt.Identity) (permission.Matrix, error) {
	if id.Email == permission.SuperAdminEmail {
		return permission.Resolve(permission.Input{Email: id.Email}), nil
	}
	user, err := uc.userRepo.GetByID(id.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	matrix, _, err := uc.effectiveMatrix(ctx, user)
	if err != nil {
		return nil, err
	}
	return matrix, nil
}

func (uc *UseCase) effectiveMatrix(ctx context.Context, user *entity.User) (permission.Matrix, map[string]bool, error) {
	var overrides map[string]entity.ModuleActions
	role := user.Role
	if user.TenantID != "" {
		m, err := uc.membershipRepo.GetByUserAndTenant(user.ID, user.TenantID)
		if err != nil {
			return nil, nil, err
		}
		if m != nil {
			overrides = m.Overrides
			role = m.Role
		}
	}
	var modules map[string]bool
	if user.TenantID != "" {
		var err error
		modules, err = uc.tenantRepo.GetModules(ctx, user.TenantID)
		if err != nil {
			return nil, nil, err
		}
	}
	matrix := permission.Resolve(permission.Input{
		Email:     user.Email,
		Role:      role,
		Overrides: overrides,
		Modules:   modules,
	})
	return matrix, modules, nil
}

func (uc *UseCase) buildLoginResponse(ctx context.Context, user *entity.User) (*dto.LoginResponse, error) {
	matrix, _, err := uc.effectiveMatrix(ctx, user)
	if err != nil {
		return nil, err
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Identity{
		UserID: user.ID,
		OrgID:  user.TenantID,
		Email:  user.Email,
		Role:   user.Role,
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:       token,
		User:        *toUserResponse(user),
		Permissions: matrix,
	}, nil
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
