package usecase

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// ProductUseCase reglas de negocio del catálogo de productos.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un producto. Devuelve domain.ErrDuplicate si el SKU ya existe
// en el tenant.
func (uc *ProductUseCase) Create(tenantID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetBySKU(tenantID, in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	p := &entity.Product{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		SKU:         in.SKU,
		Name:        in.Name,
		NameSearch:  NormalizeSearch(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Cost:        decimal.Zero,
		TaxRate:     in.TaxRate,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// GetByID obtiene un producto validando que pertenezca al tenant.
func (uc *ProductUseCase) GetByID(tenantID, id string) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.TenantID != tenantID {
		return nil, nil
	}
	return toProductResponse(p), nil
}

// List lista productos del tenant con paginación.
func (uc *ProductUseCase) List(tenantID string, limit, offset int) ([]dto.ProductResponse, error) {
	list, err := uc.repo.List(tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

// Search busca por nombre (insensible a acentos y mayúsculas) o SKU.
func (uc *ProductUseCase) Search(tenantID, query string, limit, offset int) ([]dto.ProductResponse, error) {
	q := NormalizeSearch(query)
	if q == "" {
		return uc.List(tenantID, limit, offset)
	}
	list, err := uc.repo.Search(tenantID, q, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

// Update actualiza los campos presentes en el request.
func (uc *ProductUseCase) Update(tenantID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.TenantID != tenantID {
		return nil, nil
	}
	if in.Name != nil && *in.Name != "" {
		p.Name = *in.Name
		p.NameSearch = NormalizeSearch(*in.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		if in.Price.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		p.Price = *in.Price
	}
	if in.TaxRate != nil {
		p.TaxRate = *in.TaxRate
	}
	if in.Active != nil {
		p.Active = *in.Active
	}
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// NormalizeSearch normaliza un texto para búsqueda: minúsculas y sin marcas
// diacríticas ("Azúcar" → "azucar").
func NormalizeSearch(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return out
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		TenantID:    p.TenantID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Cost:        p.Cost,
		TaxRate:     p.TaxRate,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
