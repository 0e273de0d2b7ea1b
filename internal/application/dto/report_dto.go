package dto

import "github.com/shopspring/decimal"

// SalesReportDTO resumen de ventas de un período.
type SalesReportDTO struct {
	From       string            `json:"from"`
	To         string            `json:"to"`
	Total      decimal.Decimal   `json:"total"`
	SaleCount  int               `json:"sale_count"`
	ByDay      []DayTotalDTO     `json:"by_day"`
	ByBranch   []BranchTotalDTO  `json:"by_branch"`
	ByPayment  []LabelTotalDTO   `json:"by_payment"`
	TopProduct []ProductTotalDTO `json:"top_products"`
}

// DayTotalDTO total por día (fecha YYYY-MM-DD).
type DayTotalDTO struct {
	Day   string          `json:"day"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// BranchTotalDTO total por sucursal.
type BranchTotalDTO struct {
	BranchID   string          `json:"branch_id"`
	BranchName string          `json:"branch_name"`
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
}

// LabelTotalDTO total por etiqueta genérica (método de pago, tipo, etc.).
type LabelTotalDTO struct {
	Label string          `json:"label"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// ProductTotalDTO total por producto.
type ProductTotalDTO struct {
	ProductID string          `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
}

// PurchasesReportDTO resumen de compras de un período.
type PurchasesReportDTO struct {
	From       string          `json:"from"`
	To         string          `json:"to"`
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
	ByStatus   []LabelTotalDTO `json:"by_status"`
	BySupplier []LabelTotalDTO `json:"by_supplier"`
}

// CashReportDTO resumen de caja de un período.
type CashReportDTO struct {
	From     string          `json:"from"`
	To       string          `json:"to"`
	Income   decimal.Decimal `json:"income"`
	Expense  decimal.Decimal `json:"expense"`
	Net      decimal.Decimal `json:"net"`
	ByType   []LabelTotalDTO `json:"by_type"`
	ByBranch []LabelTotalDTO `json:"by_branch"`
}
