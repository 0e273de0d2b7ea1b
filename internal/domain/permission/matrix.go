// Package permission calcula la matriz efectiva de permisos de un usuario:
// defaults por rol ⊕ overrides por usuario, enmascarada por los módulos
// activos del tenant. Se recalcula en cada autenticación, nunca se persiste.
package permission

import "github.com/jhoicas/pos-api/internal/domain/entity"

// Acciones válidas sobre un módulo (claves en español, igual que el frontend).
const (
	ActionView   = "ver"
	ActionCreate = "crear"
	ActionEdit   = "editar"
	ActionDelete = "eliminar"
)

// SuperAdminEmail identidad de soporte con acceso total incondicional.
// Escape hatch fijo: no pasa por roles, overrides ni módulos.
const SuperAdminEmail = "soporte@pos-api.dev"

// Matrix mapa módulo → acciones concedidas. Módulo ausente = sin permiso.
type Matrix map[string]entity.ModuleActions

// allModules lista cerrada de módulos conocidos por la matriz.
var allModules = []string{
	entity.ModuleSales, entity.ModulePresales, entity.ModuleDelivery,
	entity.ModulePurchases, entity.ModuleProducts, entity.ModuleCash,
	entity.ModuleReports, entity.ModuleAudit, entity.ModuleConfig,
	entity.ModuleUsers, entity.ModuleBranches,
}

var (
	fullAccess = entity.ModuleActions{View: true, Create: true, Edit: true, Delete: true}
	noDelete   = entity.ModuleActions{View: true, Create: true, Edit: true}
	viewCreate = entity.ModuleActions{View: true, Create: true}
	viewOnly   = entity.ModuleActions{View: true}
)

// roleDefaults tabla estática de permisos por rol. Tres niveles: admin con
// acceso total, gerente sin eliminar en los módulos operativos, vendedor con
// ver/crear sobre un subconjunto reducido.
func roleDefaults(role string) Matrix {
	switch role {
	case entity.RoleAdmin:
		m := Matrix{}
		for _, mod := range allModules {
			m[mod] = fullAccess
		}
		return m
	case entity.RoleManager:
		return Matrix{
			entity.ModuleSales:     noDelete,
			entity.ModulePresales:  noDelete,
			entity.ModuleDelivery:  noDelete,
			entity.ModulePurchases: noDelete,
			entity.ModuleProducts:  noDelete,
			entity.ModuleCash:      noDelete,
			entity.ModuleReports:   viewOnly,
			entity.ModuleConfig:    viewOnly,
			entity.ModuleUsers:     viewOnly,
			entity.ModuleBranches:  viewOnly,
		}
	case entity.RoleVendedor:
		return Matrix{
			entity.ModuleSales:    viewCreate,
			entity.ModulePresales: viewCreate,
			entity.ModuleProducts: viewOnly,
			entity.ModuleCash:     viewOnly,
		}
	default:
		// Rol desconocido: sin permisos (default-deny).
		return Matrix{}
	}
}

// Input entrada para Resolve.
type Input struct {
	Email     string
	Role      string
	Overrides map[string]entity.ModuleActions // entrada presente reemplaza el módulo completo
	Modules   map[string]bool                 // toggles del tenant; ausente = habilitado
}

// Resolve computa la matriz efectiva:
//  1. defaults del rol
//  2. overrides por usuario (reemplazo por módulo, no por acción)
//  3. máscara de módulos: toggle explícito en false anula las cuatro acciones
//  4. los módulos siempre activos no se enmascaran nunca
//
// El super admin recibe acceso total sin pasar por los pasos anteriores.
func Resolve(in Input) Matrix {
	if in.Email == SuperAdminEmail {
		m := Matrix{}
		for _, mod := range allModules {
			m[mod] = fullAccess
		}
		return m
	}

	m := Matrix{}
	for mod, acts := range roleDefaults(in.Role) {
		m[mod] = acts
	}
	for mod, acts := range in.Overrides {
		m[mod] = acts
	}
	for mod, enabled := range in.Modules {
		if !enabled && !isAlwaysOn(mod) {
			delete(m, mod)
		}
	}
	return m
}

// Allows informa si la matriz concede la acción sobre el módulo.
// Módulo o acción desconocidos devuelven false.
func (m Matrix) Allows(module, action string) bool {
	acts, ok := m[module]
	if !ok {
		return false
	}
	switch action {
	case ActionView:
		return acts.View
	case ActionCreate:
		return acts.Create
	case ActionEdit:
		return acts.Edit
	case ActionDelete:
		return acts.Delete
	default:
		return false
	}
}

func isAlwaysOn(module string) bool {
	for _, mod := range entity.AlwaysOnModules {
		if mod == module {
			return true
		}
	}
	return false
}
