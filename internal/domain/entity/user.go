package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleManager  = "gerente"
	RoleVendedor = "vendedor"
)

// User representa un usuario del sistema. La pertenencia a un tenant se
// registra en Membership; TenantID es el tenant activo actual.
type User struct {
	ID           string
	TenantID     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, gerente, vendedor
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Membership vincula un usuario con un tenant. Overrides reemplaza entradas
// completas de la matriz de permisos por módulo (merge por módulo, no por
// acción). Un usuario tiene exactamente un membership activo a la vez.
type Membership struct {
	ID        string
	UserID    string
	TenantID  string
	Role      string
	Overrides map[string]ModuleActions // module → acciones; nil = sin overrides
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ModuleActions acciones concedidas sobre un módulo. Los tags JSON conservan
// las claves en español que consume el frontend.
type ModuleActions struct {
	View   bool `json:"ver"`
	Create bool `json:"crear"`
	Edit   bool `json:"editar"`
	Delete bool `json:"eliminar"`
}
