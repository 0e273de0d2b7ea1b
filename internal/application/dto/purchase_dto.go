package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseItemRequest línea de compra.
type PurchaseItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// CreatePurchaseRequest creación de compra en estado pendiente.
type CreatePurchaseRequest struct {
	BranchID string                `json:"branch_id"`
	Supplier string                `json:"supplier"`
	Items    []PurchaseItemRequest `json:"items"`
}

// PurchaseItemResponse línea de compra persistida.
type PurchaseItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// PurchaseResponse compra visible por la API.
type PurchaseResponse struct {
	ID         string                 `json:"id"`
	TenantID   string                 `json:"tenant_id"`
	BranchID   string                 `json:"branch_id"`
	Supplier   string                 `json:"supplier"`
	Status     string                 `json:"status"`
	Total      decimal.Decimal        `json:"total"`
	ReceivedAt *time.Time             `json:"received_at,omitempty"`
	ReceivedBy string                 `json:"received_by,omitempty"`
	Items      []PurchaseItemResponse `json:"items,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}
