package cash

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// TxRunner ejecuta movimientos de caja dentro de una transacción: bloqueo de
// la sesión, inserción append-only del movimiento y actualización del
// contador de balance, o nada.
type TxRunner interface {
	RunCash(ctx context.Context, fn func(cashRepo repository.CashRepository) error) error
}
