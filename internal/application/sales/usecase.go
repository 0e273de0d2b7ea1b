package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// UseCase casos de uso de ventas, preventas y reparto. La venta inmediata y
// la confirmación de preventa descuentan stock con SELECT FOR UPDATE dentro
// de una transacción; la preventa no toca stock hasta confirmarse.
type UseCase struct {
	txRunner     TxRunner
	saleRepo     repository.SaleRepository
	deliveryRepo repository.DeliveryRepository
	productRepo  repository.ProductRepository
	branchRepo   repository.BranchRepository
	cashRepo     repository.CashRepository
	tenantRepo   repository.TenantRepository
	pdfGen       ReceiptPDFGenerator
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	saleRepo repository.SaleRepository,
	deliveryRepo repository.DeliveryRepository,
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
	cashRepo repository.CashRepository,
	tenantRepo repository.TenantRepository,
	pdfGen ReceiptPDFGenerator,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		saleRepo:     saleRepo,
		deliveryRepo: deliveryRepo,
		productRepo:  productRepo,
		branchRepo:   branchRepo,
		cashRepo:     cashRepo,
		tenantRepo:   tenantRepo,
		pdfGen:       pdfGen,
	}
}

// Create registra una venta inmediata: descuenta stock, numera la venta y, si
// el pago es en efectivo y hay sesión de caja abierta en la sucursal,
// registra el ingreso en la misma transacción.
func (uc *UseCase) Create(ctx context.Context, tenantID, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	sale, items, err := uc.buildSale(tenantID, userID, in.BranchID, in.CustomerName, in.Items)
	if err != nil {
		return nil, err
	}
	if in.PaymentMethod == "" {
		return nil, domain.ErrInvalidInput
	}
	sale.Type = entity.SaleTypeImmediate
	sale.Status = entity.SaleStatusConfirmed
	sale.PaymentMethod = in.PaymentMethod
	sale.AmountPaid = in.AmountPaid
	if in.AmountPaid.LessThan(sale.GrandTotal) {
		return nil, domain.ErrInvalidInput
	}
	sale.Change = in.AmountPaid.Sub(sale.GrandTotal)

	err = uc.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		cashRepo repository.CashRepository,
		_ repository.DeliveryRepository,
	) error {
		number, err := saleRepo.NextNumber(tenantID)
		if err != nil {
			return err
		}
		sale.Number = number
		if err := uc.applyStockOut(stockRepo, movRepo, sale, items); err != nil {
			return err
		}
		if err := saleRepo.Create(sale, items); err != nil {
			return err
		}
		return uc.bookCashIncome(cashRepo, sale)
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, items), nil
}

// CreatePresale registra una preventa pendiente. No afecta stock ni caja.
func (uc *UseCase) CreatePresale(ctx context.Context, tenantID, userID string, in dto.CreatePresaleRequest) (*dto.SaleResponse, error) {
	sale, items, err := uc.buildSale(tenantID, userID, in.BranchID, in.CustomerName, in.Items)
	if err != nil {
		return nil, err
	}
	sale.Type = entity.SaleTypePresale
	sale.Status = entity.SaleStatusPending

	err = uc.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		_ repository.StockRepository,
		_ repository.StockMovementRepository,
		_ repository.CashRepository,
		deliveryRepo repository.DeliveryRepository,
	) error {
		number, err := saleRepo.NextNumber(tenantID)
		if err != nil {
			return err
		}
		sale.Number = number
		if err := saleRepo.Create(sale, items); err != nil {
			return err
		}
		// El reparto nace junto a la preventa: si su inserción falla, la
		// transacción completa se revierte.
		if in.Address != "" || in.Zone != "" {
			now := time.Now()
			return deliveryRepo.Create(&entity.Delivery{
				ID:        uuid.New().String(),
				TenantID:  tenantID,
				SaleID:    sale.ID,
				Address:   in.Address,
				Zone:      in.Zone,
				Status:    entity.DeliveryStatusPending,
				CreatedAt: now,
				UpdatedAt: now,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, items), nil
}

// ConfirmPresale convierte la preventa en venta: descuenta stock bajo bloqueo
// y registra el pago. Una preventa ya confirmada devuelve domain.ErrConflict.
func (uc *UseCase) ConfirmPresale(ctx context.Context, tenantID, userID, saleID string, in dto.ConfirmPresaleRequest) (*dto.SaleResponse, error) {
	if in.PaymentMethod == "" {
		return nil, domain.ErrInvalidInput
	}
	var out *dto.SaleResponse
	err := uc.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		cashRepo repository.CashRepository,
		deliveryRepo repository.DeliveryRepository,
	) error {
		sale, err := saleRepo.GetForUpdate(saleID)
		if err != nil {
			return err
		}
		if sale == nil || sale.TenantID != tenantID {
			return domain.ErrNotFound
		}
		if sale.Type != entity.SaleTypePresale || sale.Status != entity.SaleStatusPending {
			return domain.ErrConflict
		}
		items, err := saleRepo.ItemsBySale(sale.ID)
		if err != nil {
			return err
		}
		if err := uc.applyStockOut(stockRepo, movRepo, sale, items); err != nil {
			return err
		}
		sale.Status = entity.SaleStatusConfirmed
		sale.PaymentMethod = in.PaymentMethod
		sale.AmountPaid = in.AmountPaid
		if in.AmountPaid.LessThan(sale.GrandTotal) {
			return domain.ErrInvalidInput
		}
		sale.Change = in.AmountPaid.Sub(sale.GrandTotal)
		sale.UserID = userID
		sale.UpdatedAt = time.Now()
		if err := saleRepo.Update(sale); err != nil {
			return err
		}
		if err := uc.bookCashIncome(cashRepo, sale); err != nil {
			return err
		}
		// El repartidor se asigna en la misma transacción que confirma.
		if in.WithDelivery && in.Courier != "" {
			d, err := deliveryRepo.GetBySale(saleID)
			if err != nil {
				return err
			}
			if d != nil {
				d.Courier = in.Courier
				d.UpdatedAt = time.Now()
				if err := deliveryRepo.Update(d); err != nil {
					return err
				}
			}
		}
		out = toSaleResponse(sale, items)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID obtiene la venta con sus líneas.
func (uc *UseCase) GetByID(tenantID, id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil || sale.TenantID != tenantID {
		return nil, nil
	}
	items, err := uc.saleRepo.ItemsBySale(sale.ID)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, items), nil
}

// Receipt genera el ticket de la venta en PDF.
func (uc *UseCase) Receipt(ctx context.Context, tenantID, saleID string) ([]byte, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil || sale.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	items, err := uc.saleRepo.ItemsBySale(sale.ID)
	if err != nil {
		return nil, err
	}
	branch, err := uc.branchRepo.GetByID(sale.BranchID)
	if err != nil {
		return nil, err
	}
	tenant, err := uc.tenantRepo.GetByID(tenantID)
	if err != nil {
		return nil, err
	}
	if branch == nil || tenant == nil {
		return nil, domain.ErrNotFound
	}
	return uc.pdfGen.GenerateReceiptPDF(ctx, tenant, branch, sale, items)
}

// List lista ventas del tenant filtradas por tipo y estado.
func (uc *UseCase) List(tenantID, saleType, status string, limit, offset int) ([]dto.SaleResponse, error) {
	list, err := uc.saleRepo.ListByTenant(tenantID, saleType, status, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSaleResponse(s, nil))
	}
	return items, nil
}

// ListDeliveries lista repartos del tenant filtrados por estado.
func (uc *UseCase) ListDeliveries(tenantID, status string, limit, offset int) ([]dto.DeliveryResponse, error) {
	list, err := uc.deliveryRepo.ListByTenant(tenantID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DeliveryResponse, 0, len(list))
	for _, d := range list {
		items = append(items, *toDeliveryResponse(d))
	}
	return items, nil
}

// UpdateDelivery transiciona el estado del reparto. Transiciones válidas:
// pendiente → en_ruta → entregada|fallida.
func (uc *UseCase) UpdateDelivery(tenantID, id string, in dto.UpdateDeliveryRequest) (*dto.DeliveryResponse, error) {
	d, err := uc.deliveryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if d == nil || d.TenantID != tenantID {
		return nil, nil
	}
	if in.Status != "" {
		if !validDeliveryTransition(d.Status, in.Status) {
			return nil, domain.ErrConflict
		}
		d.Status = in.Status
	}
	if in.Courier != "" {
		d.Courier = in.Courier
	}
	if in.Note != "" {
		d.Note = in.Note
	}
	d.UpdatedAt = time.Now()
	if err := uc.deliveryRepo.Update(d); err != nil {
		return nil, err
	}
	return toDeliveryResponse(d), nil
}

// buildSale valida sucursal e ítems y arma la venta con totales calculados.
func (uc *UseCase) buildSale(tenantID, userID, branchID, customerName string, reqItems []dto.SaleItemRequest) (*entity.Sale, []entity.SaleItem, error) {
	if branchID == "" || len(reqItems) == 0 {
		return nil, nil, domain.ErrInvalidInput
	}
	branch, _ := uc.branchRepo.GetByID(branchID)
	if branch == nil || branch.TenantID != tenantID {
		return nil, nil, domain.ErrNotFound
	}
	now := time.Now()
	sale := &entity.Sale{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		BranchID:     branchID,
		UserID:       userID,
		CustomerName: customerName,
		NetTotal:     decimal.Zero,
		TaxTotal:     decimal.Zero,
		GrandTotal:   decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	items := make([]entity.SaleItem, 0, len(reqItems))
	for _, it := range reqItems {
		if !it.Quantity.GreaterThan(decimal.Zero) {
			return nil, nil, domain.ErrInvalidInput
		}
		product, _ := uc.productRepo.GetByID(it.ProductID)
		if product == nil || product.TenantID != tenantID || !product.Active {
			return nil, nil, domain.ErrNotFound
		}
		subtotal := it.Quantity.Mul(product.Price)
		tax := subtotal.Mul(product.TaxRate)
		items = append(items, entity.SaleItem{
			ID:        uuid.New().String(),
			SaleID:    sale.ID,
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  it.Quantity,
			UnitPrice: product.Price,
			TaxRate:   product.TaxRate,
			Subtotal:  subtotal,
		})
		sale.NetTotal = sale.NetTotal.Add(subtotal)
		sale.TaxTotal = sale.TaxTotal.Add(tax)
	}
	sale.GrandTotal = sale.NetTotal.Add(sale.TaxTotal)
	return sale, items, nil
}

// applyStockOut descuenta stock de cada línea bajo bloqueo de fila y registra
// el movimiento OUT. Stock insuficiente aborta toda la transacción.
func (uc *UseCase) applyStockOut(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	sale *entity.Sale,
	items []entity.SaleItem,
) error {
	now := time.Now()
	for _, it := range items {
		stock, err := stockRepo.GetForUpdate(it.ProductID, sale.BranchID)
		if err != nil {
			return err
		}
		newQty := stock.Quantity.Sub(it.Quantity)
		if newQty.LessThan(decimal.Zero) {
			return domain.ErrInsufficientStock
		}
		stock.Quantity = newQty
		stock.ProductID = it.ProductID
		stock.BranchID = sale.BranchID
		if err := stockRepo.Upsert(stock); err != nil {
			return err
		}
		if err := movRepo.Create(&entity.StockMovement{
			ID:        uuid.New().String(),
			TenantID:  sale.TenantID,
			ProductID: it.ProductID,
			BranchID:  sale.BranchID,
			UserID:    sale.UserID,
			Type:      entity.MovementTypeOUT,
			Quantity:  it.Quantity,
			RefID:     sale.ID,
			CreatedAt: now,
		}); err != nil {
			return err
		}
	}
	return nil
}

// bookCashIncome registra el ingreso en la sesión de caja abierta de la
// sucursal cuando el pago es en efectivo. Sin sesión abierta la venta procede
// igual: el efectivo fuera de turno se concilia manualmente.
func (uc *UseCase) bookCashIncome(cashRepo repository.CashRepository, sale *entity.Sale) error {
	if sale.PaymentMethod != entity.PaymentCash {
		return nil
	}
	session, err := cashRepo.GetOpenByBranch(sale.BranchID)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}
	locked, err := cashRepo.GetSessionForUpdate(session.ID)
	if err != nil {
		return err
	}
	if locked == nil || locked.Status != entity.CashSessionOpen {
		return nil
	}
	if err := cashRepo.AddEntry(&entity.CashEntry{
		ID:        uuid.New().String(),
		SessionID: locked.ID,
		TenantID:  sale.TenantID,
		UserID:    sale.UserID,
		Type:      entity.CashEntrySale,
		Amount:    sale.GrandTotal,
		Concept:   "venta",
		RefID:     sale.ID,
		CreatedAt: time.Now(),
	}); err != nil {
		return err
	}
	locked.Balance = locked.Balance.Add(sale.GrandTotal)
	return cashRepo.UpdateSession(locked)
}

func validDeliveryTransition(from, to string) bool {
	switch from {
	case entity.DeliveryStatusPending:
		return to == entity.DeliveryStatusOnRoute || to == entity.DeliveryStatusFailed
	case entity.DeliveryStatusOnRoute:
		return to == entity.DeliveryStatusDelivered || to == entity.DeliveryStatusFailed
	default:
		return false
	}
}

func toSaleResponse(s *entity.Sale, items []entity.SaleItem) *dto.SaleResponse {
	if s == nil {
		return nil
	}
	resp := &dto.SaleResponse{
		ID:            s.ID,
		TenantID:      s.TenantID,
		BranchID:      s.BranchID,
		Number:        s.Number,
		Type:          s.Type,
		Status:        s.Status,
		CustomerName:  s.CustomerName,
		PaymentMethod: s.PaymentMethod,
		NetTotal:      s.NetTotal,
		TaxTotal:      s.TaxTotal,
		GrandTotal:    s.GrandTotal,
		AmountPaid:    s.AmountPaid,
		Change:        s.Change,
		CreatedAt:     s.CreatedAt,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			TaxRate:   it.TaxRate,
			Subtotal:  it.Subtotal,
		})
	}
	return resp
}

func toDeliveryResponse(d *entity.Delivery) *dto.DeliveryResponse {
	if d == nil {
		return nil
	}
	return &dto.DeliveryResponse{
		ID:        d.ID,
		SaleID:    d.SaleID,
		Courier:   d.Courier,
		Address:   d.Address,
		Zone:      d.Zone,
		Status:    d.Status,
		Note:      d.Note,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
