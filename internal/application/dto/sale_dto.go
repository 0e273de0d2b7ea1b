package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de venta.
type SaleItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// CreateSaleRequest venta inmediata: descuenta stock y, si el pago es en
// efectivo y hay sesión de caja abierta, registra el ingreso en caja.
type CreateSaleRequest struct {
	BranchID      string            `json:"branch_id"`
	CustomerName  string            `json:"customer_name"`
	PaymentMethod string            `json:"payment_method"`
	AmountPaid    decimal.Decimal   `json:"amount_paid"`
	Items         []SaleItemRequest `json:"items"`
}

// CreatePresaleRequest preventa: no afecta stock hasta confirmarse.
type CreatePresaleRequest struct {
	BranchID     string            `json:"branch_id"`
	CustomerName string            `json:"customer_name"`
	Address      string            `json:"address"`
	Zone         string            `json:"zone"`
	Items        []SaleItemRequest `json:"items"`
}

// ConfirmPresaleRequest confirmación de preventa.
type ConfirmPresaleRequest struct {
	PaymentMethod string          `json:"payment_method"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	WithDelivery  bool            `json:"with_delivery"`
	Courier       string          `json:"courier"`
}

// SaleItemResponse línea de venta persistida.
type SaleItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SaleResponse venta visible por la API.
type SaleResponse struct {
	ID            string             `json:"id"`
	TenantID      string             `json:"tenant_id"`
	BranchID      string             `json:"branch_id"`
	Number        int64              `json:"number"`
	Type          string             `json:"type"`
	Status        string             `json:"status"`
	CustomerName  string             `json:"customer_name,omitempty"`
	PaymentMethod string             `json:"payment_method,omitempty"`
	NetTotal      decimal.Decimal    `json:"net_total"`
	TaxTotal      decimal.Decimal    `json:"tax_total"`
	GrandTotal    decimal.Decimal    `json:"grand_total"`
	AmountPaid    decimal.Decimal    `json:"amount_paid"`
	Change        decimal.Decimal    `json:"change"`
	Items         []SaleItemResponse `json:"items,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

// DeliveryResponse reparto visible por la API.
type DeliveryResponse struct {
	ID        string    `json:"id"`
	SaleID    string    `json:"sale_id"`
	Courier   string    `json:"courier"`
	Address   string    `json:"address"`
	Zone      string    `json:"zone"`
	Status    string    `json:"status"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateDeliveryRequest transición de estado del reparto.
type UpdateDeliveryRequest struct {
	Status  string `json:"status"`
	Courier string `json:"courier"`
	Note    string `json:"note"`
}
