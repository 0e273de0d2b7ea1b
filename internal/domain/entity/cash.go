package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una sesión de caja.
const (
	CashSessionOpen   = "abierta"
	CashSessionClosed = "cerrada"
)

// Tipos de movimiento de caja. Venta es un ingreso generado automáticamente
// al registrar una venta en efectivo.
const (
	CashEntryIncome  = "ingreso"
	CashEntryExpense = "egreso"
	CashEntrySale    = "venta"
)

// CashSession turno de caja de una sucursal. Balance es un contador mantenido
// transaccionalmente bajo bloqueo de fila; los CashEntry son la fuente de
// verdad (append-only) y al cierre se verifica el contador contra su suma.
type CashSession struct {
	ID            string
	TenantID      string
	BranchID      string
	OpenedBy      string
	ClosedBy      string
	Status        string
	OpeningAmount decimal.Decimal
	ClosingAmount decimal.Decimal // monto contado al cierre
	Balance       decimal.Decimal // apertura + ingresos - egresos
	Difference    decimal.Decimal // ClosingAmount - Balance, al cierre
	OpenedAt      time.Time
	ClosedAt      *time.Time
}

// CashEntry movimiento inmutable del libro de caja.
type CashEntry struct {
	ID        string
	SessionID string
	TenantID  string
	UserID    string
	Type      string
	Amount    decimal.Decimal // siempre positivo; el signo lo determina Type
	Concept   string
	RefID     string // venta asociada, vacío para movimientos manuales
	CreatedAt time.Time
}

// SignedAmount devuelve el monto con signo según el tipo de movimiento.
func (e CashEntry) SignedAmount() decimal.Decimal {
	if e.Type == CashEntryExpense {
		return e.Amount.Neg()
	}
	return e.Amount
}
