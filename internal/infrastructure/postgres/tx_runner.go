package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/pos-api/internal/application/cash"
	"github.com/jhoicas/pos-api/internal/application/purchasing"
	"github.com/jhoicas/pos-api/internal/application/sales"
	"github.com/jhoicas/pos-api/internal/application/tenant"
	"github.com/jhoicas/pos-api/internal/application/usecase"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// TxRunner satisface todos los puertos transaccionales de la aplicación.
var _ tenant.TxRunner = (*TxRunner)(nil)
var _ purchasing.TxRunner = (*TxRunner)(nil)
var _ sales.TxRunner = (*TxRunner)(nil)
var _ cash.TxRunner = (*TxRunner)(nil)
var _ usecase.StockTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

func (r *TxRunner) run(ctx context.Context, fn func(tx Querier) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunProvision transacción de aprovisionamiento: membership + tenant +
// módulos + licencia + tenant activo del usuario.
func (r *TxRunner) RunProvision(ctx context.Context, fn func(
	tenantRepo repository.TenantRepository,
	membershipRepo repository.MembershipRepository,
	licenseRepo repository.LicenseRepository,
	userRepo repository.UserRepository,
) error) error {
	return r.run(ctx, func(tx Querier) error {
		return fn(
			NewTenantRepository(tx),
			NewMembershipRepository(tx),
			NewLicenseRepository(tx),
			NewUserRepository(tx),
		)
	})
}

// RunPurchase transacción de recepción de compra: bloqueo de la compra,
// movimientos IN, stock y costo, o nada.
func (r *TxRunner) RunPurchase(ctx context.Context, fn func(
	purchaseRepo repository.PurchaseRepository,
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.run(ctx, func(tx Querier) error {
		return fn(
			NewPurchaseRepository(tx),
			NewStockRepository(tx),
			NewStockMovementRepository(tx),
			NewProductRepository(tx),
		)
	})
}

// RunSale transacción de venta: stock bajo bloqueo de fila, venta + líneas,
// el reparto asociado y el ingreso de caja si el pago es en efectivo.
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	saleRepo repository.SaleRepository,
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	cashRepo repository.CashRepository,
	deliveryRepo repository.DeliveryRepository,
) error) error {
	return r.run(ctx, func(tx Querier) error {
		return fn(
			NewSaleRepository(tx),
			NewStockRepository(tx),
			NewStockMovementRepository(tx),
			NewCashRepository(tx),
			NewDeliveryRepository(tx),
		)
	})
}

// RunStock transacción de ajuste de stock: fila bloqueada, upsert y
// movimiento, o nada.
func (r *TxRunner) RunStock(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	return r.run(ctx, func(tx Querier) error {
		return fn(NewStockRepository(tx), NewStockMovementRepository(tx))
	})
}

// RunCash transacción de caja: sesión bloqueada, movimiento append-only y
// contador actualizado, o nada.
func (r *TxRunner) RunCash(ctx context.Context, fn func(cashRepo repository.CashRepository) error) error {
	return r.run(ctx, func(tx Querier) error {
		return fn(NewCashRepository(tx))
	})
}
