package entity

import "time"

// Branch representa una sucursal: punto de venta físico o lógico que delimita
// el stock y las sesiones de caja dentro de un tenant.
type Branch struct {
	ID        string
	TenantID  string
	Name      string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
