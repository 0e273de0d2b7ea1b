package sales

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// TxRunner ejecuta una venta dentro de una transacción PostgreSQL: descuento
// de stock bajo bloqueo de fila, inserción de venta + líneas, el reparto
// asociado y, si aplica, el ingreso en la sesión de caja abierta.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		cashRepo repository.CashRepository,
		deliveryRepo repository.DeliveryRepository,
	) error) error
}

// ReceiptPDFGenerator genera el ticket de venta en PDF. La implementación
// vive en infrastructure/pdf.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(
		ctx context.Context,
		tenant *entity.Tenant,
		branch *entity.Branch,
		sale *entity.Sale,
		items []entity.SaleItem,
	) ([]byte, error)
}
