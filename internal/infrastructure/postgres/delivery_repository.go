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

var _ repository.DeliveryRepository = (*DeliveryRepo)(nil)

// DeliveryRepo implementación de DeliveryRepository sobre PostgreSQL.
type DeliveryRepo struct {
	q Querier
}

// NewDeliveryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDeliveryRepository(q Querier) *DeliveryRepo {
	return &DeliveryRepo{q: q}
}

const deliveryColumns = `id, tenant_id, sale_id, courier, address, zone, status, note, created_at, updated_at`

// Create inserta el reparto asociado a una preventa.
func (r *DeliveryRepo) Create(d *entity.Delivery) error {
	query := `
		INSERT INTO deliveries (id, tenant_id, sale_id, courier, address, zone, status, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())`
	_, err := r.q.Exec(context.Background(), query,
		d.ID, d.TenantID, d.SaleID, d.Courier, d.Address, d.Zone, d.Status, d.Note)
	if err != nil {
		return fmt.Errorf("create delivery: %w", err)
	}
	return nil
}

// GetByID obtiene un reparto por ID, nil si no existe.
func (r *DeliveryRepo) GetByID(id string) (*entity.Delivery, error) {
	query := fmt.Sprintf(`SELECT %s FROM deliveries WHERE id = $1`, deliveryColumns)
	return r.scanOne(query, id)
}

// GetBySale obtiene el reparto de una venta, nil si no existe.
func (r *DeliveryRepo) GetBySale(saleID string) (*entity.Delivery, error) {
	query := fmt.Sprintf(`SELECT %s FROM deliveries WHERE sale_id = $1`, deliveryColumns)
	return r.scanOne(query, saleID)
}

func (r *DeliveryRepo) scanOne(query string, args ...any) (*entity.Delivery, error) {
	var d entity.Delivery
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&d.ID, &d.TenantID, &d.SaleID, &d.Courier, &d.Address, &d.Zone, &d.Status, &d.Note, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery: %w", err)
	}
	return &d, nil
}

// Update actualiza repartidor, estado y nota.
func (r *DeliveryRepo) Update(d *entity.Delivery) error {
	query := `
		UPDATE deliveries
		SET courier = $2, address = $3, zone = $4, status = $5, note = $6, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		d.ID, d.Courier, d.Address, d.Zone, d.Status, d.Note)
	if err != nil {
		return fmt.Errorf("update delivery: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByTenant lista repartos del tenant, opcionalmente por estado.
func (r *DeliveryRepo) ListByTenant(tenantID, status string, limit, offset int) ([]*entity.Delivery, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM deliveries
		WHERE tenant_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`, deliveryColumns)
	rows, err := r.q.Query(context.Background(), query, tenantID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()

	var list []*entity.Delivery
	for rows.Next() {
		var d entity.Delivery
		if err := rows.Scan(&d.ID, &d.TenantID, &d.SaleID, &d.Courier, &d.Address, &d.Zone, &d.Status, &d.Note, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}
