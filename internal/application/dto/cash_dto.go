package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpenSessionRequest apertura de caja en una sucursal.
type OpenSessionRequest struct {
	BranchID      string          `json:"branch_id"`
	OpeningAmount decimal.Decimal `json:"opening_amount"`
}

// CloseSessionRequest cierre de caja con el monto contado.
type CloseSessionRequest struct {
	ClosingAmount decimal.Decimal `json:"closing_amount"`
}

// AddEntryRequest movimiento manual de caja.
type AddEntryRequest struct {
	Type    string          `json:"type"` // ingreso | egreso
	Amount  decimal.Decimal `json:"amount"`
	Concept string          `json:"concept"`
}

// CashSessionResponse sesión de caja visible por la API.
type CashSessionResponse struct {
	ID            string          `json:"id"`
	TenantID      string          `json:"tenant_id"`
	BranchID      string          `json:"branch_id"`
	OpenedBy      string          `json:"opened_by"`
	ClosedBy      string          `json:"closed_by,omitempty"`
	Status        string          `json:"status"`
	OpeningAmount decimal.Decimal `json:"opening_amount"`
	ClosingAmount decimal.Decimal `json:"closing_amount"`
	Balance       decimal.Decimal `json:"balance"`
	Difference    decimal.Decimal `json:"difference"`
	OpenedAt      time.Time       `json:"opened_at"`
	ClosedAt      *time.Time      `json:"closed_at,omitempty"`
}

// CashEntryResponse movimiento del libro de caja.
type CashEntryResponse struct {
	ID        string          `json:"id"`
	SessionID string          `json:"session_id"`
	UserID    string          `json:"user_id"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Concept   string          `json:"concept"`
	RefID     string          `json:"ref_id,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
