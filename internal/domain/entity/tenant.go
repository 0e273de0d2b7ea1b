package entity

import "time"

// Tenant representa una organización del sistema (multi-tenant). Es dueña de
// sus sucursales, usuarios, productos, ventas y configuración de módulos.
type Tenant struct {
	ID        string
	Name      string
	Slug      string // identificador corto único, usado en URLs y reportes
	OwnerID   string // usuario que creó la organización
	JoinCode  string // código de invitación para unirse a la organización
	Status    string // active, suspended
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Módulos de la aplicación. Los valores son las claves en tenant_modules y en
// la matriz de permisos (se mantienen en español por compatibilidad con el
// frontend existente).
const (
	ModuleSales     = "ventas"
	ModulePresales  = "preventa"
	ModuleDelivery  = "reparto"
	ModulePurchases = "compras"
	ModuleProducts  = "productos"
	ModuleCash      = "caja"
	ModuleReports   = "reportes"
	ModuleAudit     = "auditoria"
	ModuleConfig    = "configuracion"
	ModuleUsers     = "usuarios"
	ModuleBranches  = "sucursales"
)

// AlwaysOnModules son módulos disponibles en cualquier plan: no pueden
// desactivarse vía tenant_modules.
var AlwaysOnModules = []string{ModuleConfig, ModuleUsers, ModuleBranches}

// DefaultModules devuelve el mapa de módulos inicial de un tenant recién
// creado: el plan básico habilita todo salvo auditoría, con los módulos
// siempre activos forzados en true.
func DefaultModules() map[string]bool {
	m := map[string]bool{
		ModuleSales:     true,
		ModulePresales:  true,
		ModuleDelivery:  true,
		ModulePurchases: true,
		ModuleProducts:  true,
		ModuleCash:      true,
		ModuleReports:   true,
		ModuleAudit:     false,
	}
	for _, mod := range AlwaysOnModules {
		m[mod] = true
	}
	return m
}

// TenantModule representa la activación de un módulo en un tenant.
type TenantModule struct {
	ID         string
	TenantID   string
	ModuleName string // ver constantes Module*
	IsActive   bool
	UpdatedAt  time.Time
}

// License estado de suscripción de un tenant. Se consulta en cada request
// sensible; vencida o bloqueada produce HTTP 402.
type License struct {
	TenantID  string
	Plan      string // trial, basico, pro
	PaidUntil time.Time
	Blocked   bool
	Reason    string // razón del bloqueo manual, vacía si Blocked es false
	UpdatedAt time.Time
}

// TrialDays duración de la licencia de prueba creada junto con el tenant.
const TrialDays = 30
