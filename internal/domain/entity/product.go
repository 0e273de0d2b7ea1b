package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo del tenant.
// El stock se maneja por sucursal en Stock; Cost es el último costo de compra.
type Product struct {
	ID          string
	TenantID    string
	SKU         string // código único por tenant
	Name        string
	NameSearch  string // nombre normalizado sin acentos, para búsqueda
	Description string
	Price       decimal.Decimal // precio de venta
	Cost        decimal.Decimal // último costo de compra (inicia en 0)
	TaxRate     decimal.Decimal
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
