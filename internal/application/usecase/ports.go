package usecase

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// StockTxRunner ejecuta un ajuste de stock dentro de una transacción: bloqueo
// de la fila, upsert de la cantidad y movimiento ADJUSTMENT, o nada.
type StockTxRunner interface {
	RunStock(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}
