package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos y estados de venta. Una preventa no afecta stock hasta confirmarse;
// la confirmación la convierte en venta y descuenta stock transaccionalmente.
const (
	SaleTypeImmediate = "inmediata"
	SaleTypePresale   = "preventa"

	SaleStatusPending   = "pendiente" // solo preventas
	SaleStatusConfirmed = "confirmada"
	SaleStatusCancelled = "anulada"
)

// Métodos de pago aceptados.
const (
	PaymentCash     = "efectivo"
	PaymentCard     = "tarjeta"
	PaymentTransfer = "transferencia"
)

// Sale representa una venta o preventa de la sucursal.
type Sale struct {
	ID            string
	TenantID      string
	BranchID      string
	UserID        string
	Number        int64 // consecutivo por tenant
	Type          string
	Status        string
	CustomerName  string // vacío = consumidor final
	PaymentMethod string
	NetTotal      decimal.Decimal
	TaxTotal      decimal.Decimal
	GrandTotal    decimal.Decimal
	AmountPaid    decimal.Decimal
	Change        decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SaleItem línea de detalle de una venta.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Name      string // nombre del producto al momento de la venta
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	TaxRate   decimal.Decimal
	Subtotal  decimal.Decimal
}

// Estados de entrega (reparto) de una preventa confirmada.
const (
	DeliveryStatusPending   = "pendiente"
	DeliveryStatusOnRoute   = "en_ruta"
	DeliveryStatusDelivered = "entregada"
	DeliveryStatusFailed    = "fallida"
)

// Delivery representa el reparto asociado a una venta.
type Delivery struct {
	ID        string
	TenantID  string
	SaleID    string
	Courier   string // repartidor asignado
	Address   string
	Zone      string
	Status    string
	Note      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
