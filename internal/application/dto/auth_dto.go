package dto

import (
	"time"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// RegisterRequest alta de usuario. Si no trae TenantID se auto-provisiona una
// organización nueva para el usuario (create-on-first-touch).
type RegisterRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	TenantName string `json:"tenant_name"` // nombre de la organización a crear
}

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse usuario sin campos sensibles.
type UserResponse struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginResponse token + usuario + matriz efectiva de permisos.
type LoginResponse struct {
	Token       string                           `json:"token"`
	User        UserResponse                     `json:"user"`
	Permissions map[string]entity.ModuleActions  `json:"permissions"`
}

// MeResponse identidad y contexto del usuario autenticado.
type MeResponse struct {
	User        UserResponse                    `json:"user"`
	Tenant      *TenantResponse                 `json:"tenant,omitempty"`
	Permissions map[string]entity.ModuleActions `json:"permissions"`
	Modules     map[string]bool                 `json:"modules"`
}
