package dto

import "time"

// CreateBranchRequest alta de sucursal.
type CreateBranchRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// UpdateBranchRequest actualización de sucursal.
type UpdateBranchRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Active  *bool   `json:"active"`
}

// BranchResponse sucursal visible por la API.
type BranchResponse struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
