package repository

import "github.com/jhoicas/pos-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(tenantID, sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	List(tenantID string, limit, offset int) ([]*entity.Product, error)
	// Search busca por nombre normalizado (sin acentos, minúsculas) o SKU.
	Search(tenantID, normalizedQuery string, limit, offset int) ([]*entity.Product, error)
}

// StockRepository puerto de stock por producto y sucursal.
// GetForUpdate debe usarse dentro de una transacción (SELECT FOR UPDATE).
type StockRepository interface {
	Get(productID, branchID string) (*entity.Stock, error)
	GetForUpdate(productID, branchID string) (*entity.Stock, error)
	Upsert(stock *entity.Stock) error
	ListByBranch(branchID string) ([]*entity.Stock, error)
}

// StockMovementRepository registro append-only de movimientos de stock.
type StockMovementRepository interface {
	Create(m *entity.StockMovement) error
	ListByProduct(tenantID, productID string, limit, offset int) ([]*entity.StockMovement, error)
}
