package tenant

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// UseCase ciclo de vida de organizaciones: crear, unirse por código y cambiar
// la organización activa. La creación es transaccional e idempotente por
// usuario (un usuario nuevo con dos requests simultáneos termina con un solo
// tenant, garantizado por el constraint único de membership activo).
type UseCase struct {
	tenantRepo     repository.TenantRepository
	membershipRepo repository.MembershipRepository
	userRepo       repository.UserRepository
	txRunner       TxRunner
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	tenantRepo repository.TenantRepository,
	membershipRepo repository.MembershipRepository,
	userRepo repository.UserRepository,
	txRunner TxRunner,
) *UseCase {
	return &UseCase{
		tenantRepo:     tenantRepo,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		txRunner:       txRunner,
	}
}

// Create crea una organización para el usuario autenticado y lo vincula como
// admin. Devuelve domain.ErrDuplicate si el slug ya existe.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.CreateTenantRequest) (*dto.TenantResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	slug := normalizeSlug(in.Slug)
	if slug == "" {
		slug = normalizeSlug(name)
	}
	if existing, _ := uc.tenantRepo.GetBySlug(slug); existing != nil {
		return nil, domain.ErrDuplicate
	}
	t, err := uc.provision(ctx, userID, name, slug, false)
	if err != nil {
		return nil, err
	}
	return toTenantResponse(t, true), nil
}

// ResolveOrProvision determina el tenant activo del usuario: primero el
// membership vivo, y si no existe aprovisiona uno nuevo (create-on-first-touch
// idempotente). Se usa en el registro y en el primer login de un usuario sin
// organización.
func (uc *UseCase) ResolveOrProvision(ctx context.Context, userID, fallbackName string) (*entity.Tenant, error) {
	m, err := uc.membershipRepo.GetActiveByUser(userID)
	if err != nil {
		return nil, err
	}
	if m != nil {
		return uc.tenantRepo.GetByID(m.TenantID)
	}
	name := strings.TrimSpace(fallbackName)
	if name == "" {
		name = "Mi Negocio"
	}
	return uc.provision(ctx, userID, name, "", true)
}

// provision crea tenant + membership admin + licencia trial + módulos por
// defecto en una sola transacción. Con resolveOnConflict, una violación del
// constraint único de membership (carrera entre dos primeros requests) se
// resuelve releyendo el membership ganador en vez de fallar.
func (uc *UseCase) provision(ctx context.Context, userID, name, slug string, resolveOnConflict bool) (*entity.Tenant, error) {
	now := time.Now()
	t := &entity.Tenant{
		ID:        uuid.New().String(),
		Name:      name,
		Slug:      slug,
		OwnerID:   userID,
		JoinCode:  newJoinCode(),
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if t.Slug == "" {
		t.Slug = normalizeSlug(name) + "-" + t.ID[:8]
	}

	err := uc.txRunner.RunProvision(ctx, func(
		tenantRepo repository.TenantRepository,
		membershipRepo repository.MembershipRepository,
		licenseRepo repository.LicenseRepository,
		userRepo repository.UserRepository,
	) error {
		// El INSERT del membership va primero: su constraint único por usuario
		// activo es la guardia de idempotencia; si falla, no se crea nada más.
		if err := membershipRepo.Create(&entity.Membership{
			ID:        uuid.New().String(),
			UserID:    userID,
			TenantID:  t.ID,
			Role:      entity.RoleAdmin,
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			return err
		}
		if err := tenantRepo.Create(t); err != nil {
			return err
		}
		for mod, active := range entity.DefaultModules() {
			if err := tenantRepo.SetModule(ctx, t.ID, mod, active); err != nil {
				return err
			}
		}
		if err := licenseRepo.Create(&entity.License{
			TenantID:  t.ID,
			Plan:      "trial",
			PaidUntil: now.AddDate(0, 0, entity.TrialDays),
			UpdatedAt: now,
		}); err != nil {
			return err
		}
		// El tenant recién creado pasa a ser el activo del usuario.
		user, err := userRepo.GetByID(userID)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrUserNotFound
		}
		user.TenantID = t.ID
		user.Role = entity.RoleAdmin
		user.UpdatedAt = now
		return userRepo.Update(user)
	})
	if err != nil {
		if resolveOnConflict && err == domain.ErrDuplicate {
			// Perdimos la carrera: otro request ya aprovisionó. Devolver el
			// tenant del membership existente.
			m, mErr := uc.membershipRepo.GetActiveByUser(userID)
			if mErr != nil || m == nil {
				return nil, fmt.Errorf("resolver membership tras conflicto: %w", err)
			}
			return uc.tenantRepo.GetByID(m.TenantID)
		}
		return nil, err
	}
	return t, nil
}

// Join vincula al usuario a una organización existente por código de
// invitación. El membership nuevo queda inactivo si el usuario ya tiene una
// organización activa; cambiar requiere SetActive.
func (uc *UseCase) Join(ctx context.Context, userID string, in dto.JoinTenantRequest) (*dto.TenantResponse, error) {
	code := strings.ToUpper(strings.TrimSpace(in.JoinCode))
	if code == "" {
		return nil, domain.ErrInvalidInput
	}
	t, err := uc.tenantRepo.GetByJoinCode(code)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrInvalidJoinCode
	}
	if existing, _ := uc.membershipRepo.GetByUserAndTenant(userID, t.ID); existing != nil {
		return nil, domain.ErrDuplicate
	}
	active, err := uc.membershipRepo.GetActiveByUser(userID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	m := &entity.Membership{
		ID:        uuid.New().String(),
		UserID:    userID,
		TenantID:  t.ID,
		Role:      entity.RoleVendedor,
		Active:    active == nil,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.membershipRepo.Create(m); err != nil {
		return nil, err
	}
	if m.Active {
		if err := uc.setUserTenant(userID, t.ID, m.Role); err != nil {
			return nil, err
		}
	}
	return toTenantResponse(t, false), nil
}

// SetActive cambia la organización activa del usuario. El usuario debe tener
// un membership en esa organización.
func (uc *UseCase) SetActive(ctx context.Context, userID, tenantID string) (*dto.TenantResponse, error) {
	m, err := uc.membershipRepo.GetByUserAndTenant(userID, tenantID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrForbidden
	}
	if err := uc.membershipRepo.SetActive(userID, tenantID); err != nil {
		return nil, err
	}
	if err := uc.setUserTenant(userID, tenantID, m.Role); err != nil {
		return nil, err
	}
	t, err := uc.tenantRepo.GetByID(tenantID)
	if err != nil {
		return nil, err
	}
	return toTenantResponse(t, m.Role == entity.RoleAdmin), nil
}

// Current devuelve la organización activa del usuario con sus módulos.
func (uc *UseCase) Current(ctx context.Context, userID string) (*dto.TenantResponse, map[string]bool, error) {
	m, err := uc.membershipRepo.GetActiveByUser(userID)
	if err != nil {
		return nil, nil, err
	}
	if m == nil {
		return nil, nil, domain.ErrNotFound
	}
	t, err := uc.tenantRepo.GetByID(m.TenantID)
	if err != nil {
		return nil, nil, err
	}
	if t == nil {
		return nil, nil, domain.ErrNotFound
	}
	modules, err := uc.tenantRepo.GetModules(ctx, t.ID)
	if err != nil {
		return nil, nil, err
	}
	return toTenantResponse(t, m.Role == entity.RoleAdmin), modules, nil
}

// SetModule activa o desactiva un módulo. Los módulos siempre activos no
// pueden desactivarse.
func (uc *UseCase) SetModule(ctx context.Context, tenantID string, in dto.SetModuleRequest) error {
	if in.Module == "" {
		return domain.ErrInvalidInput
	}
	if !in.Active {
		for _, mod := range entity.AlwaysOnModules {
			if mod == in.Module {
				return domain.ErrForbidden
			}
		}
	}
	return uc.tenantRepo.SetModule(ctx, tenantID, in.Module, in.Active)
}

func (uc *UseCase) setUserTenant(userID, tenantID, role string) error {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	user.TenantID = tenantID
	user.Role = role
	user.UpdatedAt = time.Now()
	return uc.userRepo.Update(user)
}

func toTenantResponse(t *entity.Tenant, includeJoinCode bool) *dto.TenantResponse {
	if t == nil {
		return nil
	}
	resp := &dto.TenantResponse{
		ID:        t.ID,
		Name:      t.Name,
		Slug:      t.Slug,
		OwnerID:   t.OwnerID,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
	}
	if includeJoinCode {
		resp.JoinCode = t.JoinCode
	}
	return resp
}

// normalizeSlug reduce un nombre a su slug: minúsculas, guiones, sin acentos.
func normalizeSlug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

// newJoinCode genera un código de invitación de 8 caracteres.
func newJoinCode() string {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return strings.ToUpper(uuid.New().String()[:8])
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf)
}
