package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una compra.
const (
	PurchaseStatusPending   = "pendiente"
	PurchaseStatusReceived  = "recibida"
	PurchaseStatusCancelled = "anulada"
)

// Purchase representa una compra a proveedor. El stock se incrementa una sola
// vez, al pasar a estado "recibida" dentro de una transacción.
type Purchase struct {
	ID         string
	TenantID   string
	BranchID   string
	UserID     string
	Supplier   string
	Status     string
	Total      decimal.Decimal
	ReceivedAt *time.Time
	ReceivedBy string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PurchaseItem línea de una compra.
type PurchaseItem struct {
	ID         string
	PurchaseID string
	ProductID  string
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal
	Subtotal   decimal.Decimal
}
