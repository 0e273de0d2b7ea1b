package dto

// Envelope es el sobre JSON convencional de toda respuesta de la API:
// {success, data?, message?, error?, total?}. Error lleva un código corto
// estable (p. ej. "NOT_FOUND"); Message el texto legible.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Total   *int        `json:"total,omitempty"`
}

// OK construye un sobre exitoso con datos.
func OK(data interface{}) Envelope {
	return Envelope{Success: true, Data: data}
}

// OKTotal construye un sobre exitoso con datos y total de página.
func OKTotal(data interface{}, total int) Envelope {
	return Envelope{Success: true, Data: data, Total: &total}
}

// OKMessage construye un sobre exitoso solo con mensaje.
func OKMessage(message string) Envelope {
	return Envelope{Success: true, Message: message}
}

// Fail construye un sobre de error con código y mensaje.
func Fail(code, message string) Envelope {
	return Envelope{Success: false, Error: code, Message: message}
}

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage aplica valores por defecto y topes si Limit/Offset están fuera de rango.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}
