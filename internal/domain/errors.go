package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrAlreadyReceived    = errors.New("la compra ya fue recibida")
	ErrSessionClosed      = errors.New("la sesión de caja no está abierta")
	ErrSessionOpen        = errors.New("ya existe una sesión de caja abierta en la sucursal")
	ErrInvalidJoinCode    = errors.New("código de invitación inválido")
)

// LicenseError señala una licencia bloqueada o vencida. Los handlers la mapean
// al estado HTTP 402 junto con la razón legible.
type LicenseError struct {
	Reason string
}

func (e *LicenseError) Error() string { return "licencia inválida: " + e.Reason }

// AsLicenseError extrae un *LicenseError de la cadena de errores, si existe.
func AsLicenseError(err error) (*LicenseError, bool) {
	var le *LicenseError
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}
