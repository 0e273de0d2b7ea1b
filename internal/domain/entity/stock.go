package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock cantidad actual de un producto en una sucursal.
type Stock struct {
	ProductID string
	BranchID  string
	Quantity  decimal.Decimal
	UpdatedAt time.Time
}

// Tipos de movimiento de stock.
const (
	MovementTypeIN         = "IN"         // entrada por compra recibida
	MovementTypeOUT        = "OUT"        // salida por venta
	MovementTypeADJUSTMENT = "ADJUSTMENT" // ajuste manual
)

// StockMovement registro inmutable de cada cambio de stock. RefID apunta a la
// compra o venta que lo originó, vacío para ajustes manuales.
type StockMovement struct {
	ID        string
	TenantID  string
	ProductID string
	BranchID  string
	UserID    string
	Type      string
	Quantity  decimal.Decimal // positivo; el signo lo determina Type
	UnitCost  *decimal.Decimal
	RefID     string
	Note      string
	CreatedAt time.Time
}
