package dto

import "time"

// CreateTenantRequest creación explícita de una organización.
type CreateTenantRequest struct {
	Name string `json:"nombre"`
	Slug string `json:"slug"`
}

// JoinTenantRequest unirse a una organización por código de invitación.
type JoinTenantRequest struct {
	JoinCode string `json:"join_code"`
}

// SetActiveTenantRequest cambiar la organización activa del usuario.
type SetActiveTenantRequest struct {
	TenantID string `json:"org_id"`
}

// TenantResponse organización visible para sus miembros.
type TenantResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	OwnerID   string    `json:"owner_id"`
	JoinCode  string    `json:"join_code,omitempty"` // solo para admin
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// LicenseResponse estado de licencia del tenant.
type LicenseResponse struct {
	TenantID  string    `json:"tenant_id"`
	Plan      string    `json:"plan"`
	PaidUntil time.Time `json:"paid_until"`
	Blocked   bool      `json:"blocked"`
	Reason    string    `json:"reason,omitempty"`
}

// UpdateLicenseRequest edición de licencia (solo super admin).
type UpdateLicenseRequest struct {
	Plan      string     `json:"plan"`
	PaidUntil *time.Time `json:"paid_until"`
	Blocked   *bool      `json:"blocked"`
	Reason    string     `json:"reason"`
}

// SetModuleRequest activar o desactivar un módulo del tenant.
type SetModuleRequest struct {
	Module string `json:"module"`
	Active bool   `json:"active"`
}
