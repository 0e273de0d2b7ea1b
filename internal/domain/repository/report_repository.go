package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SaleRow fila cruda para reportes de ventas. La agrupación por día, sucursal
// o producto la hace el use case en memoria.
type SaleRow struct {
	SaleID        string
	BranchID      string
	BranchName    string
	ProductID     string
	SKU           string
	ProductName   string
	PaymentMethod string
	Quantity      decimal.Decimal
	Subtotal      decimal.Decimal
	SoldAt        time.Time
}

// PurchaseRow fila cruda para reportes de compras.
type PurchaseRow struct {
	PurchaseID string
	BranchID   string
	Supplier   string
	Status     string
	Total      decimal.Decimal
	CreatedAt  time.Time
}

// CashRow fila cruda para reportes de caja.
type CashRow struct {
	SessionID string
	BranchID  string
	Type      string
	Amount    decimal.Decimal
	CreatedAt time.Time
}

// ReportRepository consultas read-only para reportes. Las implementaciones no
// modifican datos.
type ReportRepository interface {
	SaleRows(ctx context.Context, tenantID string, from, to time.Time) ([]SaleRow, error)
	PurchaseRows(ctx context.Context, tenantID string, from, to time.Time) ([]PurchaseRow, error)
	CashRows(ctx context.Context, tenantID string, from, to time.Time) ([]CashRow, error)
}
