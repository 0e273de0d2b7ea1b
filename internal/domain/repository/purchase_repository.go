package repository

import (
	"time"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// PurchaseRepository define el puerto de persistencia para compras.
type PurchaseRepository interface {
	Create(p *entity.Purchase, items []entity.PurchaseItem) error
	GetByID(id string) (*entity.Purchase, error)
	// GetForUpdate bloquea la fila de la compra; usar dentro de transacción.
	GetForUpdate(id string) (*entity.Purchase, error)
	ItemsByPurchase(purchaseID string) ([]entity.PurchaseItem, error)
	ListByTenant(tenantID, status string, limit, offset int) ([]*entity.Purchase, error)
	// MarkReceived transiciona a "recibida" solo si aún no lo está.
	// Devuelve false si la fila ya estaba recibida (guardia de idempotencia).
	MarkReceived(id, userID string, at time.Time) (bool, error)
	UpdateStatus(id, status string) error
}
