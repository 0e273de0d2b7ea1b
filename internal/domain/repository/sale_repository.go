package repository

import (
	"time"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para ventas y preventas.
type SaleRepository interface {
	Create(s *entity.Sale, items []entity.SaleItem) error
	GetByID(id string) (*entity.Sale, error)
	// GetForUpdate bloquea la fila de la venta; usar dentro de transacción
	// (confirmación de preventa).
	GetForUpdate(id string) (*entity.Sale, error)
	ItemsBySale(saleID string) ([]entity.SaleItem, error)
	ListByTenant(tenantID, saleType, status string, limit, offset int) ([]*entity.Sale, error)
	UpdateStatus(id, status string) error
	// Update persiste estado, pago y totales de la venta.
	Update(s *entity.Sale) error
	// NextNumber devuelve el siguiente consecutivo de venta del tenant
	// (secuencia transaccional, sin huecos por rollback no garantizados).
	NextNumber(tenantID string) (int64, error)
	// ListBetween devuelve las ventas confirmadas del rango, para reportes.
	ListBetween(tenantID string, from, to time.Time) ([]*entity.Sale, error)
}

// DeliveryRepository puerto para repartos.
type DeliveryRepository interface {
	Create(d *entity.Delivery) error
	GetByID(id string) (*entity.Delivery, error)
	GetBySale(saleID string) (*entity.Delivery, error)
	Update(d *entity.Delivery) error
	ListByTenant(tenantID, status string, limit, offset int) ([]*entity.Delivery, error)
}
