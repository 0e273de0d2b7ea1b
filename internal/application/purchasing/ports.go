package purchasing

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// TxRunner ejecuta la recepción de una compra dentro de una transacción
// PostgreSQL: bloqueo de la compra, movimientos IN y actualización de stock y
// costo, o nada.
type TxRunner interface {
	RunPurchase(ctx context.Context, fn func(
		purchaseRepo repository.PurchaseRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}
