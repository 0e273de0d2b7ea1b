package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest alta de producto.
type CreateProductRequest struct {
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

// UpdateProductRequest actualización parcial de producto.
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	TaxRate     *decimal.Decimal `json:"tax_rate"`
	Active      *bool            `json:"active"`
}

// ProductResponse producto visible por la API.
type ProductResponse struct {
	ID          string          `json:"id"`
	TenantID    string          `json:"tenant_id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// StockResponse stock de un producto en una sucursal.
type StockResponse struct {
	ProductID string          `json:"product_id"`
	BranchID  string          `json:"branch_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// AdjustStockRequest ajuste manual de stock en una sucursal.
type AdjustStockRequest struct {
	BranchID string          `json:"branch_id"`
	Quantity decimal.Decimal `json:"quantity"` // delta con signo
	Note     string          `json:"note"`
}

// StockMovementResponse movimiento del historial de stock.
type StockMovementResponse struct {
	ID        string           `json:"id"`
	ProductID string           `json:"product_id"`
	BranchID  string           `json:"branch_id"`
	UserID    string           `json:"user_id"`
	Type      string           `json:"type"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
	RefID     string           `json:"ref_id,omitempty"`
	Note      string           `json:"note,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
