package dto

import "github.com/jhoicas/pos-api/internal/domain/entity"

// CreateUserRequest alta de usuario por un admin del tenant.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// UpdateUserRequest actualización de usuario del tenant.
type UpdateUserRequest struct {
	Name   *string `json:"name"`
	Role   *string `json:"role"`
	Status *string `json:"status"`
}

// SetOverridesRequest reemplaza el mapa de overrides de permisos del usuario.
// Cada entrada sustituye el módulo completo en la matriz efectiva.
type SetOverridesRequest struct {
	Overrides map[string]entity.ModuleActions `json:"overrides"`
}
