package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación de ProductRepository sobre PostgreSQL.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, tenant_id, sku, name, name_search, description, price, cost, tax_rate, active, created_at, updated_at`

// Create inserta el producto. Devuelve domain.ErrDuplicate si el SKU ya
// existe en el tenant.
func (r *ProductRepo) Create(p *entity.Product) error {
	query := `
		INSERT INTO products (id, tenant_id, sku, name, name_search, description, price, cost, tax_rate, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.TenantID, p.SKU, p.Name, p.NameSearch, p.Description, p.Price, p.Cost, p.TaxRate, p.Active)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID, nil si no existe.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)
	return r.scanOne(query, id)
}

// GetBySKU obtiene un producto por SKU dentro del tenant, nil si no existe.
func (r *ProductRepo) GetBySKU(tenantID, sku string) (*entity.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE tenant_id = $1 AND sku = $2`, productColumns)
	return r.scanOne(query, tenantID, sku)
}

func (r *ProductRepo) scanOne(query string, args ...any) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&p.ID, &p.TenantID, &p.SKU, &p.Name, &p.NameSearch, &p.Description,
		&p.Price, &p.Cost, &p.TaxRate, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// Update actualiza los datos del producto, incluido el último costo.
func (r *ProductRepo) Update(p *entity.Product) error {
	query := `
		UPDATE products
		SET sku = $2, name = $3, name_search = $4, description = $5,
		    price = $6, cost = $7, tax_rate = $8, active = $9, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		p.ID, p.SKU, p.Name, p.NameSearch, p.Description, p.Price, p.Cost, p.TaxRate, p.Active)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista los productos del tenant.
func (r *ProductRepo) List(tenantID string, limit, offset int) ([]*entity.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM products WHERE tenant_id = $1
		ORDER BY name
		LIMIT $2 OFFSET $3`, productColumns)
	return r.scanMany(query, tenantID, limit, offset)
}

// Search busca por nombre normalizado (sin acentos, minúsculas) o por SKU.
func (r *ProductRepo) Search(tenantID, normalizedQuery string, limit, offset int) ([]*entity.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM products
		WHERE tenant_id = $1 AND (name_search LIKE '%%' || $2 || '%%' OR sku = $3)
		ORDER BY name
		LIMIT $4 OFFSET $5`, productColumns)
	return r.scanMany(query, tenantID, normalizedQuery, normalizedQuery, limit, offset)
}

func (r *ProductRepo) scanMany(query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(
			&p.ID, &p.TenantID, &p.SKU, &p.Name, &p.NameSearch, &p.Description,
			&p.Price, &p.Cost, &p.TaxRate, &p.Active, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
